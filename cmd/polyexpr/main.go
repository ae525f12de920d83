package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/fatih/color"

	"github.com/livefir/polyexpr/cmd/polyexpr/commands"
)

// Version information (can be overridden at build time with -ldflags)
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error

	switch command {
	case "transform":
		err = commands.Transform(args)
	case "check":
		err = commands.Check(args)
	case "config":
		err = commands.Config(args)
	case "version", "--version":
		printVersion()
		return
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("polyexpr version %s\n", version)

	if info, ok := debug.ReadBuildInfo(); ok {
		revision := commit
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && revision == "unknown" {
				revision = setting.Value
			}
		}
		if len(revision) > 12 {
			revision = revision[:12]
		}
		fmt.Printf("commit: %s\n", revision)
		fmt.Printf("go: %s\n", info.GoVersion)
	}
}

func printUsage() {
	fmt.Println("Polymer binding expression rewriter")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  polyexpr transform [flags] <file>...   Rewrite complex bindings into synthesized functions")
	fmt.Println("  polyexpr check [flags] <file>...       Report diagnostics without writing output")
	fmt.Println("  polyexpr config init [path]            Write a default polyexpr.yaml")
	fmt.Println("  polyexpr config show [path]            Show the effective configuration")
	fmt.Println("  polyexpr version                       Show version information")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -config <file>           Config file (default: ./polyexpr.yaml)")
	fmt.Println("  -globals a,b             Extra identifiers never treated as component state")
	fmt.Println("  -o <dir>                 Output directory (default: stdout for a single file)")
	fmt.Println("  -minify                  Minify the rewritten markup")
	fmt.Println("  -allow-missing-script    Keep output when no declaration can hold the functions")
	fmt.Println("  -v                       Verbose output")
}
