package graphql

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/syssam/gqlreq"
	"github.com/syssam/gqlreq/compiler/gen"
	"github.com/syssam/gqlreq/schema"
	"github.com/syssam/gqlreq/schema/field"
)

// SchemaHook is a function that is called after SDL generation.
// It receives the schemas and the generated SDL, and can modify
// or perform additional processing on it.
type SchemaHook func(schemas []*schema.Schema, sdl string) (string, error)

// Generator renders the backend schema of a set of models, named by the
// same rules the request compiler uses. Documents compiled for the models
// validate against it.
//
// Usage:
//
//	g, err := graphql.NewGenerator(
//	    graphql.WithAnnotation("AuditLog", graphql.Skip(graphql.SkipMutations)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sdl, err := g.SDL(schemas)
type Generator struct {
	annotations map[string]Annotation
	hooks       []SchemaHook
	scalarFunc  func(*schema.Schema, *field.Descriptor) string

	// gqlgenConfig is the parsed gqlgen configuration updated by SaveBindings.
	gqlgenConfig *GQLGenConfig
	gqlgenPath   string
}

// Option is a function that configures the Generator.
type Option func(*Generator) error

// NewGenerator creates a new SDL generator with the given options.
func NewGenerator(opts ...Option) (*Generator, error) {
	g := &Generator{annotations: make(map[string]Annotation)}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// WithAnnotation sets the annotations of the model with the given name.
// Annotations given for the same model are merged.
func WithAnnotation(model string, anns ...Annotation) Option {
	return func(g *Generator) error {
		if model == "" {
			return fmt.Errorf("graphql: annotation without model name")
		}
		a := g.annotations[model]
		for _, ann := range anns {
			a = a.Merge(ann)
		}
		g.annotations[model] = a
		return nil
	}
}

// WithSchemaHook adds a hook that runs after SDL generation.
// Multiple hooks can be added and will be executed in order.
//
// Example:
//
//	graphql.WithSchemaHook(func(_ []*schema.Schema, sdl string) (string, error) {
//	    return sdl + "\ndirective @auth on FIELD_DEFINITION\n", nil
//	})
func WithSchemaHook(hooks ...SchemaHook) Option {
	return func(g *Generator) error {
		g.hooks = append(g.hooks, hooks...)
		return nil
	}
}

// WithMapScalarFunc sets a custom function that maps fields to GraphQL scalars.
// If the function returns an empty string, the default scalar mapping is used.
// Custom scalars are declared in the generated SDL.
//
// Example:
//
//	graphql.WithMapScalarFunc(func(_ *schema.Schema, f *field.Descriptor) string {
//	    if f.Name == "email" {
//	        return "AWSEmail"
//	    }
//	    return ""
//	})
func WithMapScalarFunc(fn func(*schema.Schema, *field.Descriptor) string) Option {
	return func(g *Generator) error {
		g.scalarFunc = fn
		return nil
	}
}

// WithConfigPath sets the path to a gqlgen.yml configuration file that
// SaveBindings updates with the scalar bindings of the generated schema.
// A missing file starts from an empty configuration.
func WithConfigPath(path string) Option {
	return func(g *Generator) error {
		cfg, err := LoadGQLGenConfig(path)
		if err != nil {
			return fmt.Errorf("load gqlgen config %q: %w", path, err)
		}
		g.gqlgenConfig = cfg
		g.gqlgenPath = path
		return nil
	}
}

// GQLGenConfig returns the loaded gqlgen configuration, if any.
func (g *Generator) GQLGenConfig() *GQLGenConfig {
	return g.gqlgenConfig
}

// SDL returns the formatted backend schema of the models. The output is
// checked to load as a GraphQL schema after the hooks ran.
func (g *Generator) SDL(schemas []*schema.Schema) (string, error) {
	doc, err := g.Document(schemas)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatSchemaDocument(doc)
	sdl := buf.String()
	for _, hook := range g.hooks {
		if sdl, err = hook(schemas, sdl); err != nil {
			return "", fmt.Errorf("graphql: schema hook: %w", err)
		}
	}
	if _, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: sdl}); err != nil {
		return "", fmt.Errorf("graphql: generated schema does not load: %w", err)
	}
	return sdl, nil
}

// WriteSchema generates the SDL and writes it to path.
func (g *Generator) WriteSchema(path string, schemas []*schema.Schema) error {
	sdl, err := g.SDL(schemas)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	return os.WriteFile(path, []byte(sdl), 0o644)
}

// SaveBindings records the schema path and the scalar bindings in the
// gqlgen configuration loaded by WithConfigPath and saves it.
func (g *Generator) SaveBindings(schemaPath string) error {
	if g.gqlgenConfig == nil {
		return fmt.Errorf("graphql: no gqlgen config, use WithConfigPath")
	}
	g.gqlgenConfig.InjectScalarBindings(schemaPath)
	return SaveGQLGenConfig(g.gqlgenPath, g.gqlgenConfig)
}

// Document builds the schema document of the models, sorted by name:
// scalars, object and connection types, mutation inputs, filter inputs,
// then the Query, Mutation and Subscription roots.
func (g *Generator) Document(schemas []*schema.Schema) (*ast.SchemaDocument, error) {
	sorted := make([]*schema.Schema, len(schemas))
	copy(sorted, schemas)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name() < sorted[j].Name() })

	b := &builder{
		g:       g,
		scalars: make(map[string]bool),
		inputs:  make(map[string]bool),
		types:   make(map[string]string),
	}
	for _, s := range sorted {
		ann := g.annotations[s.Name()]
		if ann.Skip.Is(SkipType) {
			continue
		}
		if err := b.model(s, ann); err != nil {
			return nil, err
		}
	}
	return b.document(), nil
}

// builder accumulates the definitions of one Document call.
type builder struct {
	g       *Generator
	scalars map[string]bool   // scalars referenced by any type
	inputs  map[string]bool   // scalars referenced by filter inputs
	types   map[string]string // type name to declaring model

	objects       ast.DefinitionList
	mutationTypes ast.DefinitionList
	filterTypes   ast.DefinitionList
	query         ast.FieldList
	mutation      ast.FieldList
	subscription  ast.FieldList
}

func (b *builder) declare(model string, def *ast.Definition, list *ast.DefinitionList) error {
	if prev, ok := b.types[def.Name]; ok {
		return fmt.Errorf("graphql: %s and %s both declare type %s", prev, model, def.Name)
	}
	b.types[def.Name] = model
	*list = append(*list, def)
	return nil
}

func (b *builder) model(s *schema.Schema, ann Annotation) error {
	names := make(map[gqlreq.OperationKind]gen.Names, len(gen.Kinds))
	for _, kind := range gen.Kinds {
		n, err := gen.NamesFor(s.TargetModelName(), kind)
		if err != nil {
			return fmt.Errorf("graphql: schema %s: %w", s.Name(), err)
		}
		names[kind] = n
	}
	typeName := names[gqlreq.QueryGet].TypeName
	obj := &ast.Definition{Kind: ast.Object, Name: typeName, Description: ann.Description}
	for _, f := range s.SortedFields() {
		obj.Fields = append(obj.Fields, &ast.FieldDefinition{
			Name:        f.Target(),
			Description: f.Comment,
			Type:        b.typeRef(s, f, f.Required || isID(s, f)),
		})
	}
	if err := b.declare(s.Name(), obj, &b.objects); err != nil {
		return err
	}
	ids := s.IDFields()
	filter := !ann.Skip.Is(SkipFilter)

	if !ann.Skip.Is(SkipQueries) {
		if len(ids) > 0 {
			get := names[gqlreq.QueryGet]
			def := &ast.FieldDefinition{Name: get.FieldName, Type: ast.NamedType(typeName, nil)}
			for _, f := range ids {
				def.Arguments = append(def.Arguments, &ast.ArgumentDefinition{
					Name: f.Target(),
					Type: ast.NonNullNamedType(b.scalar(s, f), nil),
				})
			}
			b.query = append(b.query, def)
		}
		list := names[gqlreq.QueryList]
		conn := &ast.Definition{
			Kind: ast.Object,
			Name: list.ConnectionTypeName,
			Fields: ast.FieldList{
				{Name: "items", Type: ast.NonNullListType(ast.NamedType(typeName, nil), nil)},
				{Name: "nextToken", Type: ast.NamedType("String", nil)},
			},
		}
		if err := b.declare(s.Name(), conn, &b.objects); err != nil {
			return err
		}
		def := &ast.FieldDefinition{Name: list.FieldName, Type: ast.NamedType(list.ConnectionTypeName, nil)}
		if filter {
			if err := b.declare(s.Name(), b.filterInput(s, list.FilterTypeName), &b.filterTypes); err != nil {
				return err
			}
			def.Arguments = append(def.Arguments, &ast.ArgumentDefinition{Name: "filter", Type: ast.NamedType(list.FilterTypeName, nil)})
		}
		def.Arguments = append(def.Arguments,
			&ast.ArgumentDefinition{Name: "limit", Type: ast.NamedType("Int", nil)},
			&ast.ArgumentDefinition{Name: "nextToken", Type: ast.NamedType("String", nil)},
		)
		b.query = append(b.query, def)
	}

	condition := ""
	for _, m := range []struct {
		kind gqlreq.MutationType
		skip SkipMode
	}{
		{gqlreq.MutationCreate, SkipMutationCreate},
		{gqlreq.MutationUpdate, SkipMutationUpdate},
		{gqlreq.MutationDelete, SkipMutationDelete},
	} {
		if ann.Skip.Is(m.skip) || (m.kind != gqlreq.MutationCreate && len(ids) == 0) {
			continue
		}
		n := names[m.kind]
		if err := b.declare(s.Name(), b.mutationInput(s, m.kind, n.InputTypeName), &b.mutationTypes); err != nil {
			return err
		}
		def := &ast.FieldDefinition{
			Name: n.FieldName,
			Type: ast.NamedType(typeName, nil),
			Arguments: ast.ArgumentDefinitionList{
				{Name: "input", Type: ast.NonNullNamedType(n.InputTypeName, nil)},
			},
		}
		if filter {
			if condition == "" {
				condition = n.ConditionTypeName
				if err := b.declare(s.Name(), b.filterInput(s, condition), &b.filterTypes); err != nil {
					return err
				}
			}
			def.Arguments = append(def.Arguments, &ast.ArgumentDefinition{Name: "condition", Type: ast.NamedType(condition, nil)})
		}
		b.mutation = append(b.mutation, def)
	}

	if !ann.Skip.Is(SkipSubscriptions) {
		declared := false
		for _, kind := range []gqlreq.SubscriptionType{gqlreq.SubscriptionOnCreate, gqlreq.SubscriptionOnUpdate, gqlreq.SubscriptionOnDelete} {
			n := names[kind]
			def := &ast.FieldDefinition{Name: n.FieldName, Type: ast.NamedType(typeName, nil)}
			if filter {
				if !declared {
					if err := b.declare(s.Name(), b.filterInput(s, n.FilterTypeName), &b.filterTypes); err != nil {
						return err
					}
					declared = true
				}
				def.Arguments = ast.ArgumentDefinitionList{{Name: "filter", Type: ast.NamedType(n.FilterTypeName, nil)}}
			}
			b.subscription = append(b.subscription, def)
		}
	}
	return nil
}

// mutationInput returns the input of a mutation. Create inputs carry every
// field with optional identifiers, update inputs require the identifiers
// only, and delete inputs carry the identifiers alone.
func (b *builder) mutationInput(s *schema.Schema, kind gqlreq.MutationType, name string) *ast.Definition {
	def := &ast.Definition{Kind: ast.InputObject, Name: name}
	for _, f := range s.SortedFields() {
		id := isID(s, f)
		var nonNull bool
		switch kind {
		case gqlreq.MutationCreate:
			nonNull = f.Required && !id
		case gqlreq.MutationUpdate:
			nonNull = id
		case gqlreq.MutationDelete:
			if !id {
				continue
			}
			nonNull = true
		}
		def.Fields = append(def.Fields, &ast.FieldDefinition{Name: f.Target(), Type: b.typeRef(s, f, nonNull)})
	}
	return def
}

// filterInput returns a filter or condition input named name: one
// Model<Scalar>Input per field and the and, or and not combinators.
func (b *builder) filterInput(s *schema.Schema, name string) *ast.Definition {
	def := &ast.Definition{Kind: ast.InputObject, Name: name}
	for _, f := range s.SortedFields() {
		scalar := b.scalar(s, f)
		b.inputs[scalar] = true
		def.Fields = append(def.Fields, &ast.FieldDefinition{Name: f.Target(), Type: ast.NamedType(ScalarInputName(scalar), nil)})
	}
	def.Fields = append(def.Fields,
		&ast.FieldDefinition{Name: "and", Type: ast.ListType(ast.NamedType(name, nil), nil)},
		&ast.FieldDefinition{Name: "or", Type: ast.ListType(ast.NamedType(name, nil), nil)},
		&ast.FieldDefinition{Name: "not", Type: ast.NamedType(name, nil)},
	)
	return def
}

// typeRef returns the type reference of a field and records its scalar.
func (b *builder) typeRef(s *schema.Schema, f *field.Descriptor, nonNull bool) *ast.Type {
	t := ast.NamedType(b.scalar(s, f), nil)
	if f.List {
		t = ast.ListType(t, nil)
	}
	t.NonNull = nonNull
	return t
}

func (b *builder) scalar(s *schema.Schema, f *field.Descriptor) string {
	name := ""
	if b.g.scalarFunc != nil {
		name = b.g.scalarFunc(s, f)
	}
	if name == "" {
		name = f.Type.Scalar()
	}
	b.scalars[name] = true
	return name
}

func (b *builder) document() *ast.SchemaDocument {
	doc := &ast.SchemaDocument{}
	for _, name := range sortedKeys(b.scalars) {
		if !builtinScalars[name] {
			doc.Definitions = append(doc.Definitions, &ast.Definition{Kind: ast.Scalar, Name: name})
		}
	}
	doc.Definitions = append(doc.Definitions, b.objects...)
	doc.Definitions = append(doc.Definitions, b.mutationTypes...)
	doc.Definitions = append(doc.Definitions, b.filterTypes...)
	for _, name := range sortedKeys(b.inputs) {
		doc.Definitions = append(doc.Definitions, scalarInput(name))
	}
	for _, root := range []struct {
		name   string
		fields ast.FieldList
	}{
		{"Query", b.query},
		{"Mutation", b.mutation},
		{"Subscription", b.subscription},
	} {
		if len(root.fields) > 0 {
			doc.Definitions = append(doc.Definitions, &ast.Definition{Kind: ast.Object, Name: root.name, Fields: root.fields})
		}
	}
	return doc
}
