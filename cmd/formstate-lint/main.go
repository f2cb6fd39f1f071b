package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("formstate-lint", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [paths...]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(fs.Output(), "\nNormalize schema documents and x-formstate OpenAPI extensions, reporting configuration errors.\n")
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	paths := fs.Args()
	if len(paths) == 0 {
		fs.Usage()
		return 2
	}

	l := newLinter()
	var violations []violation
	for _, path := range paths {
		linted, err := l.lintFile(ctx, path)
		if err != nil {
			fmt.Fprintf(stderr, "lint %s: %v\n", path, err)
			return 1
		}
		violations = append(violations, linted...)
	}

	if len(violations) > 0 {
		sortViolations(violations)
		for _, v := range violations {
			fmt.Fprintln(stderr, v)
		}
		return 1
	}
	fmt.Fprintf(stdout, "%d file(s) ok\n", len(paths))
	return 0
}
