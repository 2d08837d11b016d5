package gqlreq

// Operation is a GraphQL operation keyword.
type Operation string

// Operation keywords.
const (
	OperationQuery        Operation = "query"
	OperationMutation     Operation = "mutation"
	OperationSubscription Operation = "subscription"
)

// String returns the keyword as it appears in a document.
func (o Operation) String() string { return string(o) }

// OperationKind identifies one document shape: an operation keyword and a verb.
// QueryType, MutationType and SubscriptionType implement it.
type OperationKind interface {
	Operation() Operation
	Verb() string
}

// QueryType is the shape of a query document.
type QueryType string

// Query shapes.
const (
	// QueryGet fetches a single item by identifier.
	QueryGet QueryType = "get"
	// QueryList fetches a page of items, optionally filtered.
	QueryList QueryType = "list"
)

// Operation implements OperationKind.
func (QueryType) Operation() Operation { return OperationQuery }

// Verb implements OperationKind.
func (t QueryType) Verb() string { return string(t) }

// Valid reports whether the query shape has a document builder.
func (t QueryType) Valid() bool {
	return t == QueryGet || t == QueryList
}

// MutationType is the verb of a mutation document.
type MutationType string

// Mutation verbs.
const (
	MutationCreate MutationType = "create"
	MutationUpdate MutationType = "update"
	MutationDelete MutationType = "delete"
)

// Operation implements OperationKind.
func (MutationType) Operation() Operation { return OperationMutation }

// Verb implements OperationKind.
func (t MutationType) Verb() string { return string(t) }

// Valid reports whether the mutation verb has a document builder.
func (t MutationType) Valid() bool {
	switch t {
	case MutationCreate, MutationUpdate, MutationDelete:
		return true
	default:
		return false
	}
}

// SubscriptionType is the verb of a subscription document.
type SubscriptionType string

// Subscription verbs. Each one mirrors the mutation it observes.
const (
	SubscriptionOnCreate SubscriptionType = "onCreate"
	SubscriptionOnUpdate SubscriptionType = "onUpdate"
	SubscriptionOnDelete SubscriptionType = "onDelete"
)

// Operation implements OperationKind.
func (SubscriptionType) Operation() Operation { return OperationSubscription }

// Verb implements OperationKind.
func (t SubscriptionType) Verb() string { return string(t) }

// Valid reports whether the subscription verb has a document builder.
func (t SubscriptionType) Valid() bool {
	switch t {
	case SubscriptionOnCreate, SubscriptionOnUpdate, SubscriptionOnDelete:
		return true
	default:
		return false
	}
}

// Mutation returns the mutation a subscription observes.
func (t SubscriptionType) Mutation() MutationType {
	switch t {
	case SubscriptionOnCreate:
		return MutationCreate
	case SubscriptionOnUpdate:
		return MutationUpdate
	case SubscriptionOnDelete:
		return MutationDelete
	default:
		return ""
	}
}

// ParseOperationKind resolves a keyword and a verb, as written on the command line
// or in configuration, into an OperationKind. Unknown pairs yield an
// UnsupportedOperationError.
func ParseOperationKind(op, verb string) (OperationKind, error) {
	switch Operation(op) {
	case OperationQuery:
		if t := QueryType(verb); t.Valid() {
			return t, nil
		}
	case OperationMutation:
		if t := MutationType(verb); t.Valid() {
			return t, nil
		}
	case OperationSubscription:
		if t := SubscriptionType(verb); t.Valid() {
			return t, nil
		}
	}
	return nil, NewUnsupportedOperationError(Operation(op), verb)
}
