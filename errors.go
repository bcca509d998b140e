package rucc

import (
	"fmt"
	"strings"
)

// Diagnostic is the single error shape shared by all three pipeline stages,
// grounded on original_source/common/error.rs's Error struct and the
// teacher's Parser.fmtError. A non-positional diagnostic (Line == 0) renders
// without a caret frame — used for the "missing entrypoint" case, matching
// error.rs's Error::missing_entrypoint sentinel.
type Diagnostic struct {
	Line     int
	Column   int
	LineText string
	Msg      string
}

func newDiagnostic(tok Token, msg string) *Diagnostic {
	return &Diagnostic{Line: tok.Line, Column: tok.Column, LineText: tok.LineText, Msg: msg}
}

func missingEntrypoint() *Diagnostic {
	return &Diagnostic{Msg: "missing entrypoint"}
}

// Error renders "Error: <msg>" followed, for positional diagnostics, by a
// two-line caret frame: the source line prefixed by its line number, then a
// run of spaces (matching the line-number's own width) and a caret under the
// offending column. Exactly error.rs's print_error.
func (d *Diagnostic) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s", d.Msg)
	if d.Line != 0 {
		lineNum := fmt.Sprintf("%d", d.Line)
		fmt.Fprintf(&sb, "\n%s %s\n%s^", lineNum, d.LineText, strings.Repeat(" ", len(lineNum)+1+d.Column-1))
	}
	return sb.String()
}

// FormatDiagnostics joins diagnostics with blank-line separation, the driver's
// rendering of a batch (scanner errors, or the parser's/checker's collected
// per-declaration errors).
func FormatDiagnostics(diags []*Diagnostic) string {
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = d.Error()
	}
	return strings.Join(parts, "\n\n")
}
