/*
Sonnxc compiles S-ONNX model-description source into three-address IR.

It reads one model source file, runs semantic analysis and the graph
analyses over it, and prints the IR to stdout. Lexical and parser
failures abort immediately with a FATAL diagnostic on stderr; semantic
and graph errors are collected and printed one per line, and suppress
emission.

Usage:

	sonnxc [flags] <path-to-model>

The flags are:

	-v, --version
		Give the current version of sonnxc and then exit.

	-a, --ast
		Print the parsed AST instead of emitting IR.

	-o, --output FILE
		Write output to FILE instead of stdout.

	-b, --binary
		Write the compiled program in its binary artifact encoding
		instead of IR text. Requires --output.

	-i, --interactive
		Start an interactive session. Typed lines accumulate into a
		model source buffer; ":go" compiles the buffer, ":reset"
		discards it, and ":quit" exits.

	-C, --config FILE
		Read defaults for output path, binary mode, and console width
		from the given TOML file. Explicit flags win over the file.
*/
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/chzyer/readline"
	"github.com/dekarrin/ictiobus/syntaxerr"
	"github.com/dekarrin/rosed"
	"github.com/spf13/pflag"

	"github.com/Trichiurus-lepturus/sonnx"
	"github.com/Trichiurus-lepturus/sonnx/internal/version"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitError indicates an unsuccessful program execution due to any
	// compile, input, or output problem.
	ExitError
)

const consoleOutputWidth = 80

var (
	returnCode      int     = ExitSuccess
	flagVersion     *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	flagAST         *bool   = pflag.BoolP("ast", "a", false, "Print the parsed AST instead of emitting IR")
	flagOutput      *string = pflag.StringP("output", "o", "", "Write output to the given file instead of stdout")
	flagBinary      *bool   = pflag.BoolP("binary", "b", false, "Write the binary program artifact instead of IR text")
	flagInteractive *bool   = pflag.BoolP("interactive", "i", false, "Start an interactive compile session")
	flagConfig      *string = pflag.StringP("config", "C", "", "Read defaults from the given TOML config file")
)

// config is the TOML file format accepted by --config.
type config struct {
	Output struct {
		Path   string `toml:"path"`
		Binary bool   `toml:"binary"`
	} `toml:"output"`
	Console struct {
		Width int `toml:"width"`
	} `toml:"console"`
}

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just
			// because we checked
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	width := consoleOutputWidth
	if *flagConfig != "" {
		var cfg config
		if _, err := toml.DecodeFile(*flagConfig, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: reading config: %s\n", err.Error())
			returnCode = ExitError
			return
		}
		if cfg.Output.Path != "" && *flagOutput == "" {
			*flagOutput = cfg.Output.Path
		}
		if cfg.Output.Binary && !*flagBinary {
			*flagBinary = true
		}
		if cfg.Console.Width > 0 {
			width = cfg.Console.Width
		}
	}

	if *flagBinary && *flagOutput == "" {
		fmt.Fprintf(os.Stderr, "ERROR: --binary requires --output\n")
		returnCode = ExitError
		return
	}

	if *flagInteractive {
		returnCode = runInteractive(width)
		return
	}

	if pflag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: sonnxc [flags] <path-to-model>\n")
		returnCode = ExitError
		return
	}

	res, err := sonnx.CompileFile(pflag.Arg(0))
	if err != nil {
		reportFatal(err)
		returnCode = ExitError
		return
	}

	if !res.Ok() {
		reportSemantic(res.Errors, width)
		returnCode = ExitError
		return
	}

	if err := writeOutput(res); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitError
	}
}

func writeOutput(res sonnx.Result) error {
	var out string
	if *flagAST {
		out = res.AST.String() + "\n"
	} else {
		out = res.IR
	}

	if *flagOutput == "" {
		fmt.Print(out)
		return nil
	}

	if *flagBinary {
		data, err := res.Program.MarshalBinary()
		if err != nil {
			return fmt.Errorf("encoding program: %w", err)
		}
		return os.WriteFile(*flagOutput, data, 0644)
	}
	return os.WriteFile(*flagOutput, []byte(out), 0644)
}

// reportFatal prints a frontend failure in the FATAL form, with source
// line and column when the frontend provided them.
func reportFatal(err error) {
	var feErr *sonnx.FrontendError
	if !errors.As(err, &feErr) {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		return
	}

	kind := "Parser"
	if feErr.Lexical {
		kind = "Lexical"
	}

	var synErr *syntaxerr.Error
	if errors.As(feErr.Err, &synErr) {
		fmt.Fprintf(os.Stderr, "FATAL %s error\n%s\n", kind, synErr.FullMessage())
		return
	}
	fmt.Fprintf(os.Stderr, "FATAL %s error: %s\n", kind, feErr.Err.Error())
}

// reportSemantic prints each collected diagnostic as a dash bullet on
// its own line, wrapped to the console width.
func reportSemantic(errs []error, width int) {
	for _, err := range errs {
		bullet := rosed.Edit("- " + err.Error()).Wrap(width).String()
		fmt.Fprintf(os.Stderr, "%s\n", bullet)
	}
}

func runInteractive(width int) int {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: "sonnx> ",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: create readline config: %s\n", err.Error())
		return ExitError
	}
	defer rl.Close()

	fmt.Println("S-ONNX interactive compiler " + version.Current)
	fmt.Println("Enter model source; \":go\" compiles, \":reset\" clears, \":quit\" exits.")

	var buf strings.Builder
	lastCode := ExitSuccess

	for {
		line, err := rl.Readline()
		if err != nil {
			// interrupt or EOF ends the session
			return lastCode
		}

		switch strings.TrimSpace(line) {
		case ":quit":
			return lastCode
		case ":reset":
			buf.Reset()
			continue
		case ":go":
			res, err := sonnx.CompileString(buf.String())
			buf.Reset()
			if err != nil {
				reportFatal(err)
				lastCode = ExitError
				continue
			}
			if !res.Ok() {
				reportSemantic(res.Errors, width)
				lastCode = ExitError
				continue
			}
			if *flagAST {
				fmt.Println(res.AST.String())
			} else {
				fmt.Print(res.IR)
			}
			lastCode = ExitSuccess
		default:
			buf.WriteString(line)
			buf.WriteRune('\n')
		}
	}
}
