package driver

import (
	"strings"

	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/resolver"
	"lox/interpreter-go/pkg/scanner"
)

// Diagnostics collects every static error found while compiling one source
// unit. A non-empty Diagnostics means the unit was not executed.
type Diagnostics struct {
	Scan    []*scanner.Error
	Parse   []*parser.ParseError
	Resolve []*resolver.Diagnostic
}

// Len is the total number of issues.
func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Scan) + len(d.Parse) + len(d.Resolve)
}

// Lines renders one line per issue in stage order.
func (d *Diagnostics) Lines() []string {
	if d == nil {
		return nil
	}
	lines := make([]string, 0, d.Len())
	for _, err := range d.Scan {
		lines = append(lines, err.Error())
	}
	for _, err := range d.Parse {
		lines = append(lines, err.Error())
	}
	for _, diag := range d.Resolve {
		lines = append(lines, diag.Error())
	}
	return lines
}

func (d *Diagnostics) Error() string {
	if d.Len() == 0 {
		return "compile: no diagnostics"
	}
	return strings.Join(d.Lines(), "\n")
}
