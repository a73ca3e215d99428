// Command airtrace-convert converts an ExternalIoEnvelope payload
// between wire formats (spec.md §6 "Codec CLI surface").
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/airtrace/core/internal/envelope"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("airtrace-convert", flag.ContinueOnError)
	fs.SetOutput(stderr)

	listFormats := fs.Bool("list-formats", false, "print supported format names and exit")
	inFormat := fs.String("in-format", "", "input format name")
	outFormat := fs.String("out-format", "", "output format name")
	inputPath := fs.String("input", "-", "input path, or - for stdin")
	outputPath := fs.String("output", "-", "output path, or - for stdout")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *listFormats {
		fmt.Fprintln(stdout, "ie_json_v1 (aliases: json)")
		fmt.Fprintln(stdout, "ie_kv_v1 (aliases: kv, keyvalue)")
		return 0
	}

	if *inFormat == "" || *outFormat == "" {
		fmt.Fprintln(stderr, "airtrace-convert: --in-format and --out-format are required")
		fs.Usage()
		return 1
	}

	in := stdin
	if *inputPath != "-" {
		f, err := os.Open(*inputPath)
		if err != nil {
			fmt.Fprintf(stderr, "airtrace-convert: %v\n", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	payload, err := io.ReadAll(in)
	if err != nil {
		fmt.Fprintf(stderr, "airtrace-convert: reading input: %v\n", err)
		return 1
	}

	converted, err := envelope.Convert(*inFormat, *outFormat, string(payload))
	if err != nil {
		fmt.Fprintf(stderr, "airtrace-convert: %v\n", err)
		return 1
	}

	out := stdout
	if *outputPath != "-" {
		f, err := os.Create(*outputPath)
		if err != nil {
			fmt.Fprintf(stderr, "airtrace-convert: %v\n", err)
			return 1
		}
		defer f.Close()
		out = f
	}

	if _, err := fmt.Fprintln(out, converted); err != nil {
		fmt.Fprintf(stderr, "airtrace-convert: writing output: %v\n", err)
		return 1
	}

	return 0
}
