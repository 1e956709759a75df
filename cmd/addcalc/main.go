package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/calcemu/addcalc/internal/expression"
	"github.com/calcemu/addcalc/internal/script"
	"github.com/calcemu/addcalc/internal/server"
	"github.com/calcemu/addcalc/internal/types"
	"github.com/goccy/go-json"
	"github.com/jessevdk/go-flags"
	"github.com/mattn/go-isatty"
)

type Option struct {
	Expr   string `short:"e" long:"expr" description:"[OPTIONAL] Expression to evaluate" required:"false"`
	File   string `short:"f" long:"file" description:"[OPTIONAL] Calculation script file (JSON or YAML)" required:"false"`
	Listen string `short:"l" long:"listen" description:"[OPTIONAL] Listen host and port to serve the evaluation API" required:"false"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default)
	_, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		} else {
			parser.WriteHelp(os.Stdout)
			return 1
		}
	}

	modes := 0
	for _, s := range []string{opt.Expr, opt.File, opt.Listen} {
		if s != "" {
			modes++
		}
	}
	if modes != 1 {
		parser.WriteHelp(os.Stdout)
		return 1
	}

	// server mode
	if opt.Listen != "" {
		if err = serveEvaluations(opt.Listen); err != nil {
			log.Printf("failed to serve evaluations: %v", err)
			return 1
		}
		return 0
	}

	// script mode
	if opt.File != "" {
		s, err := loadScript(opt.File)
		if err != nil {
			log.Printf("failed to load script: %v", err)
			return 1
		}

		results, err := s.Execute()
		if err != nil {
			return dumpError(err)
		}
		if err = dumpJSON(os.Stdout, results); err != nil {
			log.Printf("failed to dump script results: %v", err)
		}
		return 0
	}

	ret, err := expression.Evaluate(opt.Expr)
	if err != nil {
		return dumpError(err)
	}
	if err = dumpJSON(os.Stdout, ret); err != nil {
		log.Printf("failed to dump result: %v", err)
	}

	return 0
}

func dumpError(err error) int {
	var exception types.Exception
	if errors.As(err, &exception) {
		if _, err = fmt.Fprintln(os.Stderr, exception.Error()); err != nil {
			log.Printf("failed to dump error: %v", err)
		}
		if err = dumpJSON(os.Stderr, exception.Exception()); err != nil {
			log.Printf("failed to dump error as JSON: %v", err)
		}
		return 1
	}

	log.Printf("failed to evaluate: %v", err)
	return 1
}

func loadScript(filePath string) (*script.Script, error) {
	var parseScript func(io.Reader) (*script.Script, error)
	switch filepath.Ext(filePath) {
	case ".json":
		parseScript = script.ParseScriptJSON
	case ".yaml", ".yml":
		parseScript = script.ParseScriptYAML
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%q): %w", filePath, err)
	}
	defer f.Close()

	s, err := parseScript(f)
	if err != nil {
		return nil, fmt.Errorf("script.ParseScript: %w", err)
	}
	return s, nil
}

func serveEvaluations(listen string) error {
	srv := http.Server{
		Handler: server.NewHTTPHandler(),
		Addr:    listen,
	}

	log.Printf("Listen HTTP on %s", listen)
	if err := srv.ListenAndServe(); errors.Is(err, http.ErrServerClosed) {
		return nil
	} else if err != nil {
		return err
	}
	return nil
}

func dumpJSON(w io.Writer, v any) error {
	opts := []json.EncodeOptionFunc{json.DisableHTMLEscape()}
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		if isatty.IsTerminal(f.Fd()) {
			opts = append(opts, json.Colorize(json.DefaultColorScheme))
		}
	}

	b, err := json.MarshalIndentWithOption(v, "", "\t", opts...)
	if err != nil {
		return fmt.Errorf("json.MarshalIndentWithOption: %w", err)
	}

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
