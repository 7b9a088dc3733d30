package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/curlang/cur"
	"github.com/curlang/cur/internal/ccompiler"
)

// main.go is the CLI entry point: `cur build file.cur` generates and
// compiles an executable, `cur run file.cur` does the same and then
// runs it, `cur help` prints the usage text and exits 0. Grounded on
// the original source's main.c/cli.c command dispatch, re-expressed
// with the flag package the way cmd/main.go in this module's own
// teacher does it, rather than porting the original's hand-rolled
// argv walker.
func usage() {
	printUsage()
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "USAGE:")
	fmt.Fprintln(os.Stderr, "    cur build [-keepc] <file.cur>  generate an executable")
	fmt.Fprintln(os.Stderr, "    cur run [-keepc] <file.cur>    generate an executable and run it")
	fmt.Fprintln(os.Stderr, "    cur help                       print this message")
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	command := os.Args[1]
	if command == "help" {
		printUsage()
		return
	}
	if command != "build" && command != "run" {
		usage()
	}

	fs := flag.NewFlagSet(command, flag.ExitOnError)
	keepc := fs.Bool("keepc", false, "keep the generated output.c/output.h files")
	fs.Parse(os.Args[2:])

	if fs.NArg() != 1 {
		usage()
	}
	filename := fs.Arg(0)

	exe, err := build(filename, *keepc)
	if err != nil {
		log.Fatalf("%s", err.Error())
	}

	if command == "run" {
		if err := ccompiler.Run(exe); err != nil {
			log.Fatalf("%s", err.Error())
		}
	}
}

// build lexes, parses, analyses and lowers filename to C, writes the
// generated output.h/output.c pair, and invokes the system C compiler
// on them - mirroring main.c's build().
func build(filename string, keepc bool) (string, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", filename, err)
	}

	unit, err := cur.Compile(filename, src)
	if err != nil {
		return "", err
	}

	const defsPath = "output.h"
	const codePath = "output.c"
	if err := os.WriteFile(defsPath, []byte(unit.Defs), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", defsPath, err)
	}
	if err := os.WriteFile(codePath, []byte(unit.Code), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", codePath, err)
	}

	err = ccompiler.Compile(ccompiler.Options{
		DefsPath:     defsPath,
		CodePath:     codePath,
		OutputName:   unit.OutputName,
		Optimisation: unit.Flags.Optimisation.Flag(),
		Links:        unit.Flags.Links,
		KeepC:        keepc,
	})
	if err != nil {
		return "", err
	}

	return unit.OutputName, nil
}
