package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

// Field is one "Name: value" configuration line.
type Field struct {
	Name  string
	Value any
}

func Count(name string, n int) Field { return Field{Name: name, Value: n} }

// Printer writes the summary lines shared by every benchmark.
type Printer struct {
	out   io.Writer
	title *color.Color
}

func NewPrinter(out io.Writer, noColor bool) *Printer {
	title := color.New(color.Bold)
	if noColor {
		title.DisableColor()
	}
	return &Printer{out: out, title: title}
}

// Summary prints the operation banner, the resolved configuration and the
// "..." separator shown while the run is in progress.
func (p *Printer) Summary(operation string, fields ...Field) {
	_, _ = p.title.Fprintf(p.out, "Operation Type: %s", operation)
	fmt.Fprintln(p.out)
	for _, f := range fields {
		fmt.Fprintf(p.out, "%s: %v\n", f.Name, f.Value)
	}
	fmt.Fprintln(p.out, "...")
}

func (p *Printer) Mean(mean float64) {
	fmt.Fprintf(p.out, "Mean: %.2f\n", mean)
}

// Seconds prints d as "label: X.XX seconds".
func (p *Printer) Seconds(label string, d time.Duration) {
	fmt.Fprintf(p.out, "%s: %.2f seconds\n", label, d.Seconds())
}

func (p *Printer) Theoretical(d time.Duration) { p.Seconds("Theoretical Synchronous Time", d) }

func (p *Printer) Elapsed(d time.Duration) { p.Seconds("Elapsed Time", d) }
