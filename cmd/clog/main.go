// Command clog runs a clog source file (§6 "CLI"): a single positional
// file argument, no flags, plus -help and an internal test subcommand.
package main

import (
	"fmt"
	"os"

	"github.com/mnhoque/clog/internal/config"
	"github.com/mnhoque/clog/internal/diagnostics"
	"github.com/mnhoque/clog/internal/pipeline"
)

const usage = `usage: clog <file>
       clog test <file>...
       clog -help

Runs a clog source file: lexes, parses, type-checks, and evaluates its
top-level bindings in order. Exit code 0 on success, non-zero on any
parse, type, or runtime error, with diagnostics on stderr.`

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			os.Exit(1)
		}
	}()

	if handleHelp() {
		return
	}
	if handleTest() {
		return
	}

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	runFile(os.Args[1])
}

func handleHelp() bool {
	if len(os.Args) < 2 {
		return false
	}
	switch os.Args[1] {
	case "-help", "--help", "help":
		fmt.Println(usage)
		fmt.Printf("clog %s\n", config.Version)
		return true
	default:
		return false
	}
}

// handleTest implements `clog test <file>...` (§ SUPPLEMENTED FEATURES):
// runs each named file through the same pipeline as a normal run, printing
// a per-file ok/FAIL line. Exits non-zero if any file failed.
func handleTest() bool {
	if len(os.Args) < 2 || os.Args[1] != "test" {
		return false
	}
	config.IsTestMode = true

	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: clog test <file>...")
		os.Exit(1)
	}

	printer := diagnostics.NewStderrPrinter()
	anyFailed := false
	for _, path := range os.Args[2:] {
		fmt.Printf("=== %s ===\n", path)
		ctx, err := runPipeline(path)
		if err != nil {
			fmt.Printf("FAIL: %s\n", err)
			anyFailed = true
			continue
		}
		if len(ctx.Errors) > 0 {
			printer.Print(ctx.Errors)
			fmt.Println("FAIL")
			anyFailed = true
			continue
		}
		fmt.Println("ok")
	}
	if anyFailed {
		os.Exit(1)
	}
	return true
}

func runFile(path string) {
	ctx, err := runPipeline(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
	if len(ctx.Errors) > 0 {
		diagnostics.NewStderrPrinter().Print(ctx.Errors)
		os.Exit(1)
	}
}

func runPipeline(path string) (*pipeline.PipelineContext, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := pipeline.New(pipeline.ParseStage{}, pipeline.CheckStage{}, pipeline.InterpretStage{})
	ctx := p.Run(&pipeline.PipelineContext{Path: path, Source: string(source)})
	return ctx, nil
}
