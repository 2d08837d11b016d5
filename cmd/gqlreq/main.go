// gqlreq compiles GraphQL documents from model descriptor files.
//
//	gqlreq -schema models.yml doc Todo list
//	gqlreq -schema models.yml sdl -o schema.graphql
//	gqlreq -schema models.yml gen -o graphql/documents.go -pkg graphql -watch
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	goversion "github.com/caarlos0/go-version"
	"go.uber.org/zap"
)

var (
	version   = "0.0.1"
	commit    = ""
	treeState = ""
	date      = ""
	builtBy   = ""
)

const usage = `Usage: gqlreq [options] <command> [arguments]

Commands:
  doc <Model> [kind]        print the documents of a model (kind: get, list, create, ...)
  sdl [-o file] [-gqlgen]   print or write the backend schema
  gen -o file [-pkg name]   write Go constants for every document

Options:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "gqlreq:", err)
		}
		os.Exit(1)
	}
}

// run parses the global flags and dispatches the command.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("gqlreq", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		schemaPath  = fs.String("schema", "models.yml", "model descriptor file (.yml, .yaml or .json)")
		configPath  = fs.String("config", "", "compiler configuration file")
		debug       = fs.Bool("debug", false, "enable debug logging")
		showVersion = fs.Bool("version", false, "print version information")
	)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *showVersion {
		fmt.Fprintln(stdout, buildVersion(version, commit, date, builtBy, treeState).String())
		return nil
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return flag.ErrHelp
	}

	log, err := newLogger(*debug)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	env := &env{
		schemaPath: *schemaPath,
		configPath: *configPath,
		log:        log,
		stdout:     stdout,
		stderr:     stderr,
	}
	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "doc":
		return env.doc(rest)
	case "sdl":
		return env.sdl(rest)
	case "gen":
		return env.gen(ctx, rest)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func buildVersion(version, commit, date, builtBy, treeState string) goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails("gqlreq", "GraphQL document and variable compiler", "https://github.com/syssam/gqlreq"),
		func(i *goversion.Info) {
			if commit != "" {
				i.GitCommit = commit
			}
			if version != "" {
				i.GitVersion = version
			}
			if treeState != "" {
				i.GitTreeState = treeState
			}
			if date != "" {
				i.BuildDate = date
			}
			if builtBy != "" {
				i.BuiltBy = builtBy
			}
		},
	)
}
