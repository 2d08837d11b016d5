package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"go.uber.org/zap"

	"github.com/syssam/gqlreq"
	"github.com/syssam/gqlreq/compiler/gen"
	"github.com/syssam/gqlreq/compiler/load"
	"github.com/syssam/gqlreq/contrib/graphql"
	"github.com/syssam/gqlreq/schema"
)

// env is the state shared by the commands.
type env struct {
	schemaPath string
	configPath string
	log        *zap.Logger
	stdout     io.Writer
	stderr     io.Writer
}

func (e *env) schemas() ([]*schema.Schema, error) {
	schemas, err := load.LoadFile(e.schemaPath)
	if err != nil {
		return nil, err
	}
	e.log.Debug("loaded schemas", zap.String("path", e.schemaPath), zap.Int("models", len(schemas)))
	return schemas, nil
}

func (e *env) config() (*gen.Config, error) {
	cfg := &gen.Config{}
	if e.configPath != "" {
		f, err := os.Open(e.configPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if cfg, err = gen.LoadConfig(f); err != nil {
			return nil, fmt.Errorf("%s: %w", e.configPath, err)
		}
	}
	cfg.Logger = e.log
	return cfg, nil
}

func (e *env) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

// doc prints the documents of one model. With -json the query or
// subscription is compiled and printed as a GraphQL-over-HTTP body.
func (e *env) doc(args []string) error {
	fs := e.flags("doc")
	var (
		asJSON = fs.Bool("json", false, "print the compiled request body")
		id     = fs.String("id", "", "identifier of a get query")
		limit  = fs.Int("limit", 0, "page size of a list query")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		return fmt.Errorf("usage: doc [-json] [-id id] [-limit n] <Model> [kind]")
	}
	schemas, err := e.schemas()
	if err != nil {
		return err
	}
	s, err := lookup(schemas, fs.Arg(0))
	if err != nil {
		return err
	}
	kinds := gen.Kinds
	if fs.NArg() == 2 {
		kind, err := kindOf(fs.Arg(1))
		if err != nil {
			return err
		}
		kinds = []gqlreq.OperationKind{kind}
	}
	if *asJSON {
		if len(kinds) != 1 {
			return fmt.Errorf("-json needs a kind")
		}
		return e.request(s, kinds[0], *id, *limit)
	}
	stmts, err := gen.Statements(s)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if !slices.Contains(kinds, stmt.Kind) {
			continue
		}
		r := &gqlreq.Request{Document: stmt.Document, OperationName: stmt.Names.OperationName}
		pretty, err := r.Pretty()
		if err != nil {
			return err
		}
		fmt.Fprint(e.stdout, pretty)
	}
	return nil
}

func (e *env) request(s *schema.Schema, kind gqlreq.OperationKind, id string, limit int) error {
	cfg, err := e.config()
	if err != nil {
		return err
	}
	c, err := gen.New(cfg)
	if err != nil {
		return err
	}
	var opts []gen.BuildOption
	if id != "" {
		opts = append(opts, gen.WithID(id))
	}
	if limit > 0 {
		opts = append(opts, gen.WithLimit(limit))
	}
	if _, ok := kind.(gqlreq.MutationType); ok {
		return fmt.Errorf("-json does not apply to mutations, which need an instance")
	}
	r, err := c.Build(s, kind, nil, opts...)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(e.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// sdl prints the backend schema, or writes it with -o.
func (e *env) sdl(args []string) error {
	fs := e.flags("sdl")
	var (
		out    = fs.String("o", "", "output file")
		gqlgen = fs.String("gqlgen", "", "gqlgen.yml to update with scalar bindings (requires -o)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *gqlgen != "" && *out == "" {
		return fmt.Errorf("-gqlgen requires -o")
	}
	schemas, err := e.schemas()
	if err != nil {
		return err
	}
	var opts []graphql.Option
	if *gqlgen != "" {
		opts = append(opts, graphql.WithConfigPath(*gqlgen))
	}
	g, err := graphql.NewGenerator(opts...)
	if err != nil {
		return err
	}
	if *out == "" {
		sdl, err := g.SDL(schemas)
		if err != nil {
			return err
		}
		_, err = io.WriteString(e.stdout, sdl)
		return err
	}
	if err := g.WriteSchema(*out, schemas); err != nil {
		return err
	}
	e.log.Info("wrote schema", zap.String("path", *out))
	if *gqlgen != "" {
		return g.SaveBindings(*out)
	}
	return nil
}

// gen writes the Go constants file, and with -watch rewrites it whenever
// the descriptor file changes.
func (e *env) gen(ctx context.Context, args []string) error {
	fs := e.flags("gen")
	var (
		out     = fs.String("o", "", "output file")
		pkg     = fs.String("pkg", "", "package name of the generated file")
		workers = fs.Int("workers", 0, "parallel workers (default GOMAXPROCS)")
		watch   = fs.Bool("watch", false, "regenerate when the descriptor file changes")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return fmt.Errorf("gen: -o is required")
	}
	cfg, err := e.config()
	if err != nil {
		return err
	}
	if *pkg != "" {
		if err := cfg.Apply(gen.WithPackage(*pkg)); err != nil {
			return err
		}
	}
	w := gen.NewWriter(cfg).WithWorkers(*workers)
	generate := func() error {
		schemas, err := e.schemas()
		if err != nil {
			return err
		}
		if err := w.WriteFile(ctx, *out, schemas); err != nil {
			return err
		}
		e.log.Info("wrote documents", zap.String("path", *out), zap.Int("models", len(schemas)))
		return nil
	}
	if err := generate(); err != nil {
		return err
	}
	if !*watch {
		return nil
	}
	return watchFile(ctx, e.log, e.schemaPath, generate)
}

func lookup(schemas []*schema.Schema, name string) (*schema.Schema, error) {
	for _, s := range schemas {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unknown model %q", name)
}

func kindOf(verb string) (gqlreq.OperationKind, error) {
	for _, k := range gen.Kinds {
		if k.Verb() == verb {
			return k, nil
		}
	}
	return nil, gqlreq.NewUnsupportedOperationError("", verb)
}
