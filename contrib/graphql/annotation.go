package graphql

// SkipMode defines what to skip in SDL generation.
type SkipMode uint

const (
	// SkipType skips the model entirely.
	SkipType SkipMode = 1 << iota
	// SkipFilter skips the list and subscription filter inputs and the
	// mutation condition input, with the arguments that take them.
	SkipFilter
	// SkipQueries skips the get and list queries.
	SkipQueries
	// SkipMutationCreate skips the create mutation and its input.
	SkipMutationCreate
	// SkipMutationUpdate skips the update mutation and its input.
	SkipMutationUpdate
	// SkipMutationDelete skips the delete mutation and its input.
	SkipMutationDelete
	// SkipSubscriptions skips the onCreate, onUpdate and onDelete subscriptions.
	SkipSubscriptions

	// SkipMutations skips all mutations (create, update, delete).
	SkipMutations = SkipMutationCreate | SkipMutationUpdate | SkipMutationDelete

	// SkipAll skips all generation for the model.
	SkipAll = SkipType | SkipFilter | SkipQueries | SkipMutations | SkipSubscriptions
)

// Is checks if the mode has the given flag.
func (m SkipMode) Is(flag SkipMode) bool {
	return m&flag != 0
}

// Annotation controls the SDL generated for a single model.
//
//	graphql.WithAnnotation("AuditLog", graphql.Skip(graphql.SkipMutations))
type Annotation struct {
	// Skip defines what to skip in SDL generation.
	Skip SkipMode

	// Description is emitted on the object type, overriding the
	// model comment.
	Description string
}

// Skip returns an annotation that skips the specified modes.
//
// Example:
//
//	graphql.Skip(graphql.SkipMutationDelete, graphql.SkipSubscriptions)
func Skip(modes ...SkipMode) Annotation {
	var skip SkipMode
	for _, m := range modes {
		skip |= m
	}
	return Annotation{Skip: skip}
}

// Description returns an annotation setting the object type description.
func Description(text string) Annotation {
	return Annotation{Description: text}
}

// Merge returns the union of both annotations. Descriptions of other
// take precedence.
func (a Annotation) Merge(other Annotation) Annotation {
	a.Skip |= other.Skip
	if other.Description != "" {
		a.Description = other.Description
	}
	return a
}
