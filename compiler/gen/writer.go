package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/syssam/gqlreq"
	"github.com/syssam/gqlreq/schema"
)

// DefaultHeader is the header of generated Go source.
const DefaultHeader = "Code generated by gqlreq, DO NOT EDIT."

// Kinds lists every operation kind in generation order.
var Kinds = []gqlreq.OperationKind{
	gqlreq.QueryGet,
	gqlreq.QueryList,
	gqlreq.MutationCreate,
	gqlreq.MutationUpdate,
	gqlreq.MutationDelete,
	gqlreq.SubscriptionOnCreate,
	gqlreq.SubscriptionOnUpdate,
	gqlreq.SubscriptionOnDelete,
}

// Statement is the document of one model and operation kind declaring every
// variable the operation accepts, as client code generators emit it.
type Statement struct {
	Model    string
	Kind     gqlreq.OperationKind
	Names    Names
	Document string
}

// Statements returns the statements of every operation kind on the schema,
// in the order of Kinds.
func Statements(s *schema.Schema) ([]Statement, error) {
	stmts := make([]Statement, 0, len(Kinds))
	for _, kind := range Kinds {
		n, err := NamesFor(s.TargetModelName(), kind)
		if err != nil {
			return nil, gqlreq.NewOperationError(kind, s.Name(), err)
		}
		vars, sel := declaredVariables(s, kind, n)
		r := newRequest(s, kind, n, vars, sel)
		stmts = append(stmts, Statement{Model: s.Name(), Kind: kind, Names: n, Document: r.Document})
	}
	return stmts, nil
}

func declaredVariables(s *schema.Schema, kind gqlreq.OperationKind, n Names) (gqlreq.Variables, string) {
	fields := SelectFields(s)
	var vars gqlreq.Variables
	switch kind {
	case gqlreq.QueryGet:
		for _, f := range s.IDFields() {
			vars = append(vars, gqlreq.Variable{Name: f.Target(), Type: f.Type.Scalar() + "!"})
		}
	case gqlreq.QueryList:
		vars = gqlreq.Variables{
			{Name: "filter", Type: n.FilterTypeName},
			{Name: "limit", Type: "Int"},
			{Name: "nextToken", Type: "String"},
		}
		return vars, connectionSet(fields)
	case gqlreq.MutationCreate, gqlreq.MutationUpdate, gqlreq.MutationDelete:
		vars = gqlreq.Variables{
			{Name: "input", Type: n.InputTypeName + "!"},
			{Name: "condition", Type: n.ConditionTypeName},
		}
	default:
		vars = gqlreq.Variables{{Name: "filter", Type: n.FilterTypeName}}
	}
	return vars, selectionSet(fields)
}

// Writer renders statements as Go constants.
type Writer struct {
	cfg     *Config
	workers int
}

// NewWriter returns a writer for the configuration. The package name
// defaults to "graphql".
func NewWriter(cfg *Config) *Writer {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Writer{cfg: cfg, workers: runtime.GOMAXPROCS(0)}
}

// WithWorkers sets the number of parallel workers.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// Generate returns the formatted Go source declaring one constant per
// statement and a Documents map keyed by operation name. Schemas are
// compiled in parallel and emitted sorted by name.
func (w *Writer) Generate(ctx context.Context, filename string, schemas []*schema.Schema) ([]byte, error) {
	sorted := make([]*schema.Schema, len(schemas))
	copy(sorted, schemas)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name() < sorted[j].Name() })

	results := make([][]Statement, len(sorted))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for i, s := range sorted {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			stmts, err := Statements(s)
			if err != nil {
				return NewGenerationError("compile", filename, s.Name(), err)
			}
			results[i] = stmts
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	pkg := w.cfg.Package
	if pkg == "" {
		pkg = "graphql"
	}
	header := w.cfg.Header
	if header == "" {
		header = DefaultHeader
	}
	f := jen.NewFile(pkg)
	f.HeaderComment(header)

	docs := jen.Dict{}
	seen := make(map[string]string)
	for i, s := range sorted {
		defs := make([]jen.Code, 0, len(results[i]))
		for _, stmt := range results[i] {
			id := stmt.Names.OperationName + "Document"
			if prev, ok := seen[id]; ok {
				return nil, NewGenerationError("compile", filename, fmt.Sprintf("%s and %s both declare %s", prev, stmt.Model, id), nil)
			}
			seen[id] = stmt.Model
			defs = append(defs, jen.Comment(fmt.Sprintf("%s is the %s %s document of %s.", id, stmt.Kind.Operation(), stmt.Kind.Verb(), stmt.Model)))
			defs = append(defs, jen.Id(id).Op("=").Lit(stmt.Document))
			docs[jen.Lit(stmt.Names.OperationName)] = jen.Id(id)
		}
		f.Comment(fmt.Sprintf("Documents of %s.", s.Name()))
		f.Const().Defs(defs...)
		f.Line()
	}
	f.Comment("Documents maps operation names to their documents.")
	f.Var().Id("Documents").Op("=").Map(jen.String()).String().Values(docs)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, NewGenerationError("render", filename, "", err)
	}
	formatted, err := imports.Process(filename, buf.Bytes(), nil)
	if err != nil {
		return nil, NewGenerationError("format", filename, "", err)
	}
	return formatted, nil
}

// WriteFile generates the source and writes it to path.
func (w *Writer) WriteFile(ctx context.Context, path string, schemas []*schema.Schema) error {
	src, err := w.Generate(ctx, filepath.Base(path), schemas)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return NewGenerationError("write", path, "create directory", err)
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return NewGenerationError("write", path, "", err)
	}
	return nil
}
