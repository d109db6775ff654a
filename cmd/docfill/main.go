package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/benjaminschreck/go-docfill/pkg/docfill"
)

const version = "0.1.0"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "docfill: %v\n", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docfill <command> [arguments]")
	fmt.Fprintln(w, "\nCommands:")
	fmt.Fprintln(w, "  render [-strategy all|ignore|remove] [-headers] <template> <data> <output>")
	fmt.Fprintln(w, "                              Fill a template with a YAML or JSON data file")
	fmt.Fprintln(w, "  version                     Show version information")
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		usage(stderr)
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "docfill version %s\n", version)
		return nil
	case "render":
		return render(args[1:], stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return nil
	default:
		usage(stderr)
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func render(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	strategyName := fs.String("strategy", "", "handling of placeholders without a value: all, ignore or remove")
	headers := fs.Bool("headers", true, "resolve headers and footers with the data file")
	logLevel := fs.String("log", "", "log level: debug, info, warn, error or off")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 3 {
		usage(stderr)
		return fmt.Errorf("render needs a template, a data file and an output path")
	}
	templatePath, dataPath, outputPath := fs.Arg(0), fs.Arg(1), fs.Arg(2)

	config := docfill.ConfigFromEnvironment()
	if *logLevel != "" {
		config.LogLevel = *logLevel
	}
	if err := config.Validate(); err != nil {
		return err
	}
	logger := docfill.NewLogger(stderr, docfill.ParseLogLevel(config.LogLevel))
	engine := docfill.New(docfill.WithConfig(config), docfill.WithLogger(logger))

	var instructions []docfill.Instruction
	if *strategyName != "" {
		strategy, err := docfill.ParseReplaceStrategy(*strategyName)
		if err != nil {
			return err
		}
		instructions = append(instructions, strategy)
	}

	page, err := docfill.LoadPageFile(dataPath)
	if err != nil {
		return err
	}
	if *headers {
		instructions = append(instructions, docfill.MatchAll(page))
	}

	doc, err := engine.OpenFile(templatePath)
	if err != nil {
		return err
	}
	defer doc.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := doc.Generate(page, docfill.WriterSink(out), instructions...); err != nil {
		out.Close()
		os.Remove(outputPath)
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	logger.WithFields(docfill.Fields{
		"template": templatePath,
		"output":   outputPath,
	}).Info("Rendered document")
	return nil
}
