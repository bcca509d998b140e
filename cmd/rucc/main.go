// Command rucc runs the front-end pipeline (scan, parse, check) over one
// source file. Code generation is an explicitly out-of-scope collaborator
// (spec.md §1); this driver prints the handoff artifact's shape (typed
// statement count, per-function stack sizes, interned string labels) in
// place of emitting assembly, and exits non-zero on any front-end failure.
//
// Grounded on the teacher's cmd/ccompiler/main.go stage-printing driver,
// adapted to a required file argument, an -o flag (spec.md §6), and the
// rucc: fatal-diagnostic prefix (spec.md §6, §7).
package main

import (
	"flag"
	"fmt"
	"os"

	"rucc"
)

func main() {
	out := flag.String("o", "", "output path for the front-end handoff report (default: stdout)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "rucc: usage: rucc [-o out.s] <input-file>")
		os.Exit(1)
	}

	path := flag.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rucc: cannot read %s: %v\n", path, err)
		os.Exit(1)
	}

	result, diags := rucc.Compile(string(data))
	if len(diags) > 0 {
		fmt.Fprintln(os.Stderr, rucc.FormatDiagnostics(diags))
		os.Exit(1)
	}

	report := formatHandoff(result)
	if *out == "" {
		fmt.Print(report)
		return
	}
	if err := os.WriteFile(*out, []byte(report), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "rucc: cannot write %s: %v\n", *out, err)
		os.Exit(1)
	}
}

// formatHandoff renders the artifact a real x86-64 backend would consume
// (spec.md §6): the statement count, the aligned per-function stack-frame
// table, and the interned string-literal label table. A full assembly
// emitter is the named out-of-scope collaborator, so this is the front-end's
// entire externally visible output on success.
func formatHandoff(r *rucc.Result) string {
	s := fmt.Sprintf("; rucc front-end: %d top-level statement(s) checked\n", len(r.Stmts))
	s += "; func_stack_size:\n"
	for name, size := range r.FuncStackSize {
		s += fmt.Sprintf(";   %s: %d\n", name, size)
	}
	s += "; const_labels:\n"
	for text, label := range r.ConstLabels {
		s += fmt.Sprintf(";   L%d: %q\n", label, text)
	}
	return s
}
