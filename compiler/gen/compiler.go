package gen

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"github.com/syssam/gqlreq"
	"github.com/syssam/gqlreq/querylanguage"
	"github.com/syssam/gqlreq/schema"
	"github.com/syssam/gqlreq/schema/field"
)

// Compiler builds GraphQL requests for models. Models are resolved into
// schemas through a registry; queries and subscriptions are cached when a
// cache is configured, and every request is validated against the backend
// schema when one is configured. A Compiler is safe for concurrent use.
type Compiler struct {
	log       *zap.Logger
	registry  *schema.Registry
	cache     gqlreq.Cache
	validator *docValidator
}

// New returns a compiler for the configuration.
func New(cfg *Config) (*Compiler, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	c := &Compiler{
		log:      cfg.Logger,
		registry: cfg.Registry,
		cache:    cfg.Cache,
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.registry == nil {
		c.registry = schema.Default
	}
	if c.cache == nil && cfg.CacheSize > 0 {
		c.cache = gqlreq.NewMemoryCache(cfg.CacheSize)
	}
	if cfg.Validate {
		if cfg.SchemaSDL == "" {
			return nil, NewConfigError("SchemaSDL", nil, "validation requires a schema")
		}
		v, err := newDocValidator(cfg.SchemaSDL)
		if err != nil {
			return nil, err
		}
		c.validator = v
	}
	return c, nil
}

// NewCompiler returns a compiler configured by the options.
func NewCompiler(opts ...Option) (*Compiler, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

// BuildQuery builds a get or list query on model, which may be a *schema.Schema,
// a schema.Provider or a value of a model type. A get query selects by the
// identifier given with WithID, or by a predicate that is an equality on the
// identifier. A list query binds the predicate as its filter.
func (c *Compiler) BuildQuery(model any, p querylanguage.P, t gqlreq.QueryType, opts ...BuildOption) (*gqlreq.Request, error) {
	o := newBuildOptions(opts)
	return c.build(model, t, p, o, func(s *schema.Schema) (*gqlreq.Request, error) {
		return query(s, p, t, o)
	})
}

// BuildSubscription builds a subscription on model. The predicate, if any,
// is bound as the subscription filter.
func (c *Compiler) BuildSubscription(model any, p querylanguage.P, t gqlreq.SubscriptionType, opts ...BuildOption) (*gqlreq.Request, error) {
	o := newBuildOptions(opts)
	return c.build(model, t, p, o, func(s *schema.Schema) (*gqlreq.Request, error) {
		return subscription(s, p, t)
	})
}

// BuildMutation builds a mutation whose $input is the serialized instance.
// The predicate, if any, is bound as $condition. The schema is resolved from
// the instance unless WithSchema is given. Mutations are never cached.
func (c *Compiler) BuildMutation(instance any, p querylanguage.P, t gqlreq.MutationType, opts ...BuildOption) (*gqlreq.Request, error) {
	o := newBuildOptions(opts)
	s, err := c.resolve(instance, o)
	if err != nil {
		return nil, c.fail(t, "", err)
	}
	r, err := mutation(instance, s, p, t)
	if err == nil {
		err = c.check(r)
	}
	if err != nil {
		return nil, c.fail(t, s.Name(), err)
	}
	c.built(r, false)
	return r, nil
}

// Build dispatches to the builder of the operation kind. For mutations, model
// is the instance.
func (c *Compiler) Build(model any, kind gqlreq.OperationKind, p querylanguage.P, opts ...BuildOption) (*gqlreq.Request, error) {
	switch k := kind.(type) {
	case gqlreq.QueryType:
		return c.BuildQuery(model, p, k, opts...)
	case gqlreq.MutationType:
		return c.BuildMutation(model, p, k, opts...)
	case gqlreq.SubscriptionType:
		return c.BuildSubscription(model, p, k, opts...)
	case nil:
		return nil, gqlreq.NewUnsupportedOperationError("", "")
	default:
		return nil, c.fail(kind, "", gqlreq.NewUnsupportedOperationError(kind.Operation(), kind.Verb()))
	}
}

func (c *Compiler) build(model any, kind gqlreq.OperationKind, p querylanguage.P, o *buildOptions, build func(*schema.Schema) (*gqlreq.Request, error)) (*gqlreq.Request, error) {
	s, err := c.resolve(model, o)
	if err != nil {
		return nil, c.fail(kind, "", err)
	}
	var key string
	if c.cache != nil {
		if key, err = cacheKey(s, kind, p, o); err != nil {
			c.log.Debug("request not cacheable", zap.String("model", s.Name()), zap.Error(err))
			key = ""
		}
	}
	if key != "" {
		if b, ok := c.cache.Get(key); ok {
			r, err := gqlreq.DecodeRequest(b, s.GoType())
			if err == nil {
				c.built(r, true)
				return r, nil
			}
			c.log.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
			c.cache.Delete(key)
		}
	}
	r, err := build(s)
	if err == nil {
		err = c.check(r)
	}
	if err != nil {
		return nil, c.fail(kind, s.Name(), err)
	}
	if key != "" {
		b, err := gqlreq.EncodeRequest(r)
		if err != nil {
			c.log.Warn("request not cached", zap.String("operation", r.OperationName), zap.Error(err))
		} else {
			c.cache.Set(key, b)
		}
	}
	c.built(r, false)
	return r, nil
}

func (c *Compiler) resolve(model any, o *buildOptions) (*schema.Schema, error) {
	if o.schema != nil {
		return o.schema, nil
	}
	return c.registry.Schema(model)
}

func (c *Compiler) check(r *gqlreq.Request) error {
	if c.validator == nil {
		return nil
	}
	return c.validator.validate(r)
}

func (c *Compiler) fail(kind gqlreq.OperationKind, model string, err error) error {
	c.log.Debug("build failed",
		zap.String("operation", kind.Operation().String()),
		zap.String("verb", kind.Verb()),
		zap.String("model", model),
		zap.Error(err),
	)
	return gqlreq.NewOperationError(kind, model, err)
}

func (c *Compiler) built(r *gqlreq.Request, cached bool) {
	c.log.Debug("built request",
		zap.String("operation", r.OperationName),
		zap.String("model", r.Model),
		zap.Int("variables", len(r.Variables)),
		zap.Bool("cached", cached),
	)
}

// cacheKey identifies what a build compiles: the schema shape, the operation,
// the predicate tree and the options. Predicates whose values cannot be
// coerced are not cacheable.
func cacheKey(s *schema.Schema, kind gqlreq.OperationKind, p querylanguage.P, o *buildOptions) (string, error) {
	opts, err := o.key()
	if err != nil {
		return "", err
	}
	k := gqlreq.CacheKey{
		Model:     s.Name(),
		Schema:    schemaKey(s),
		Operation: kind.Operation(),
		Verb:      kind.Verb(),
		Options:   opts,
	}
	if p != nil {
		var b strings.Builder
		if err := writePredicateKey(&b, p); err != nil {
			return "", err
		}
		k.Predicate = b.String()
	}
	return k.String(), nil
}

// schemaKey renders the parts of a schema that reach a document.
func schemaKey(s *schema.Schema) string {
	var b strings.Builder
	b.WriteString(s.TargetModelName())
	b.WriteByte('{')
	for i, f := range s.SortedFields() {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%s:%s", f.Name, f.Target(), f.GraphQLType())
		if f.ID {
			b.WriteString(":id")
		}
		if f.IsRelation() {
			fmt.Fprintf(&b, ":%s.%s", f.RelatedModel, f.RelatedKey)
		}
	}
	b.WriteByte('}')
	return b.String()
}

// writePredicateKey renders e in prefix form with every group delimited.
// Values are written as their type and coerced JSON, so pointers key on the
// value they point to.
func writePredicateKey(b *strings.Builder, e querylanguage.Expr) error {
	switch e := e.(type) {
	case *querylanguage.UnaryExpr:
		return writeCallKey(b, string(e.Op), e.X)
	case *querylanguage.BinaryExpr:
		return writeCallKey(b, string(e.Op), e.X, e.Y)
	case *querylanguage.NaryExpr:
		return writeCallKey(b, string(e.Op), e.Xs...)
	case *querylanguage.CallExpr:
		return writeCallKey(b, string(e.Func), e.Args...)
	case *querylanguage.Field:
		fmt.Fprintf(b, "field(%q)", e.Name)
	case *querylanguage.Edge:
		fmt.Fprintf(b, "edge(%q)", e.Name)
	case *querylanguage.Value:
		v, err := coerce(e.V)
		if err != nil {
			return err
		}
		j, err := json.Marshal(v)
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "%T(%s)", e.V, j)
	default:
		return fmt.Errorf("unexpected expression %T", e)
	}
	return nil
}

func writeCallKey(b *strings.Builder, name string, args ...querylanguage.Expr) error {
	b.WriteString(name)
	b.WriteByte('(')
	for i, x := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		if err := writePredicateKey(b, x); err != nil {
			return err
		}
	}
	b.WriteByte(')')
	return nil
}

func newBuildOptions(opts []BuildOption) *buildOptions {
	o := &buildOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Query builds a query document for the schema without a Compiler.
func Query(s *schema.Schema, p querylanguage.P, t gqlreq.QueryType, opts ...BuildOption) (*gqlreq.Request, error) {
	r, err := query(s, p, t, newBuildOptions(opts))
	if err != nil {
		return nil, gqlreq.NewOperationError(t, s.Name(), err)
	}
	return r, nil
}

// Mutation builds a mutation document for the instance without a Compiler.
func Mutation(instance any, s *schema.Schema, p querylanguage.P, t gqlreq.MutationType) (*gqlreq.Request, error) {
	r, err := mutation(instance, s, p, t)
	if err != nil {
		return nil, gqlreq.NewOperationError(t, s.Name(), err)
	}
	return r, nil
}

// Subscription builds a subscription document for the schema without a Compiler.
func Subscription(s *schema.Schema, p querylanguage.P, t gqlreq.SubscriptionType) (*gqlreq.Request, error) {
	r, err := subscription(s, p, t)
	if err != nil {
		return nil, gqlreq.NewOperationError(t, s.Name(), err)
	}
	return r, nil
}

func query(s *schema.Schema, p querylanguage.P, t gqlreq.QueryType, o *buildOptions) (*gqlreq.Request, error) {
	n, err := NamesFor(s.TargetModelName(), t)
	if err != nil {
		return nil, err
	}
	var (
		vars gqlreq.Variables
		sel  string
	)
	switch t {
	case gqlreq.QueryGet:
		if vars, err = identifierVariables(s, p, o); err != nil {
			return nil, err
		}
		sel = selectionSet(SelectFields(s))
	case gqlreq.QueryList:
		filter, err := Translate(p, s)
		if err != nil {
			return nil, err
		}
		if filter != nil {
			vars = append(vars, gqlreq.Variable{Name: "filter", Type: n.FilterTypeName, Value: filter})
		}
		if o.limit > 0 {
			vars = append(vars, gqlreq.Variable{Name: "limit", Type: "Int", Value: o.limit})
		}
		if o.nextToken != "" {
			vars = append(vars, gqlreq.Variable{Name: "nextToken", Type: "String", Value: o.nextToken})
		}
		sel = connectionSet(SelectFields(s))
	}
	return newRequest(s, t, n, vars, sel), nil
}

func mutation(instance any, s *schema.Schema, p querylanguage.P, t gqlreq.MutationType) (*gqlreq.Request, error) {
	n, err := NamesFor(s.TargetModelName(), t)
	if err != nil {
		return nil, err
	}
	input, err := Serialize(instance, s, t)
	if err != nil {
		return nil, err
	}
	vars := gqlreq.Variables{{Name: "input", Type: n.InputTypeName + "!", Value: input}}
	cond, err := Translate(p, s)
	if err != nil {
		return nil, err
	}
	if cond != nil {
		vars = append(vars, gqlreq.Variable{Name: "condition", Type: n.ConditionTypeName, Value: cond})
	}
	return newRequest(s, t, n, vars, selectionSet(SelectFields(s))), nil
}

func subscription(s *schema.Schema, p querylanguage.P, t gqlreq.SubscriptionType) (*gqlreq.Request, error) {
	n, err := NamesFor(s.TargetModelName(), t)
	if err != nil {
		return nil, err
	}
	filter, err := Translate(p, s)
	if err != nil {
		return nil, err
	}
	var vars gqlreq.Variables
	if filter != nil {
		vars = append(vars, gqlreq.Variable{Name: "filter", Type: n.FilterTypeName, Value: filter})
	}
	return newRequest(s, t, n, vars, selectionSet(SelectFields(s))), nil
}

// newRequest renders "<op> <Name>(<decls>) { <field>(<args>) <selection>}".
func newRequest(s *schema.Schema, kind gqlreq.OperationKind, n Names, vars gqlreq.Variables, sel string) *gqlreq.Request {
	doc := fmt.Sprintf("%s %s%s { %s%s %s}",
		kind.Operation(), n.OperationName, vars.Declarations(),
		n.FieldName, vars.Arguments(), sel,
	)
	return &gqlreq.Request{
		Document:      doc,
		OperationName: n.OperationName,
		Operation:     kind.Operation(),
		Verb:          kind.Verb(),
		Model:         s.Name(),
		Variables:     vars,
		ResponseType:  s.GoType(),
	}
}

// identifierVariables binds the identifier fields of a get query, taken from
// WithID or from an equality predicate on the identifier fields.
func identifierVariables(s *schema.Schema, p querylanguage.P, o *buildOptions) (gqlreq.Variables, error) {
	ids := s.IDFields()
	if len(ids) == 0 {
		return nil, gqlreq.NewUnknownFieldError(s.Name(), "id")
	}
	values := make(map[string]any, len(ids))
	switch {
	case o.hasID && len(ids) == 1:
		values[ids[0].Name] = o.id
	case o.hasID:
		m, ok := o.id.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s has a composite identifier: WithID takes a map, got %T", s.Name(), o.id)
		}
		for _, f := range ids {
			if v, ok := m[f.Name]; ok {
				values[f.Name] = v
			} else if v, ok := m[f.Target()]; ok {
				values[f.Name] = v
			}
		}
	case p != nil:
		eqs, ok := equalities(p)
		if !ok {
			return nil, gqlreq.NewInvalidPredicateError(p.String(), "get queries select by identifier equality")
		}
		for _, eq := range eqs {
			fd, ok := s.Field(eq.name)
			if !ok {
				return nil, gqlreq.NewUnknownFieldError(s.Name(), eq.name)
			}
			if !isID(fd, ids) {
				return nil, gqlreq.NewInvalidPredicateError(p.String(), fmt.Sprintf("%s is not an identifier field", eq.name))
			}
			if prev, ok := values[fd.Name]; ok && !reflect.DeepEqual(prev, eq.value) {
				return nil, gqlreq.NewInvalidPredicateError(p.String(), fmt.Sprintf("%s is compared against %v and %v", fd.Name, prev, eq.value))
			}
			values[fd.Name] = eq.value
		}
	}
	vars := make(gqlreq.Variables, 0, len(ids))
	for _, f := range ids {
		v, err := fieldValue(f, values[f.Name])
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, gqlreq.NewRequiredFieldMissingError(s.Name(), f.Target())
		}
		vars = append(vars, gqlreq.Variable{Name: f.Target(), Type: f.Type.Scalar() + "!", Value: v})
	}
	return vars, nil
}

func isID(fd *field.Descriptor, ids []*field.Descriptor) bool {
	for _, id := range ids {
		if id.Name == fd.Name {
			return true
		}
	}
	return false
}

type equality struct {
	name  string
	value any
}

// equalities flattens an equality or an AND of equalities into field values,
// in predicate order.
func equalities(p querylanguage.Expr) ([]equality, bool) {
	var eqs []equality
	var walk func(querylanguage.Expr) bool
	walk = func(e querylanguage.Expr) bool {
		switch e := e.(type) {
		case *querylanguage.BinaryExpr:
			f, fok := e.X.(*querylanguage.Field)
			v, vok := e.Y.(*querylanguage.Value)
			if e.Op != querylanguage.OpEQ || !fok || !vok || v.IsNil() {
				return false
			}
			eqs = append(eqs, equality{name: f.Name, value: v.V})
			return true
		case *querylanguage.NaryExpr:
			if e.Op != querylanguage.OpAnd || len(e.Xs) == 0 {
				return false
			}
			for _, x := range e.Xs {
				if !walk(x) {
					return false
				}
			}
			return true
		default:
			return false
		}
	}
	return eqs, walk(p)
}
