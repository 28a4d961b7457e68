package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mgutz/ansi"
	"github.com/olekukonko/tablewriter"
)

const headerWidth = 50

// Printer writes human-readable progress to an output stream. Colors are
// used only when the stream is a terminal.
type Printer struct {
	out      io.Writer
	useColor bool
}

// NewPrinter creates a printer for out
func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out:      out,
		useColor: supportsColor(out),
	}
}

func supportsColor(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) colorize(text, style string) string {
	if p.useColor {
		return ansi.Color(text, style)
	}
	return text
}

// Println writes a line
func (p *Printer) Println(args ...interface{}) {
	fmt.Fprintln(p.out, args...)
}

// Header displays a title followed by a rule
func (p *Printer) Header(title string) {
	fmt.Fprintf(p.out, "%s\n%s\n", p.colorize(title, "default+b"), strings.Repeat("=", headerWidth))
}

// Section displays a section title
func (p *Printer) Section(title string) {
	fmt.Fprintf(p.out, "\n%s %s\n", p.colorize("▶", "default+b"), p.colorize(title, "default+b"))
}

// Step announces an operation that is about to run
func (p *Printer) Step(message string) {
	fmt.Fprintf(p.out, "%s %s\n", p.colorize("►", ansi.Blue), message)
}

// Success displays a success message
func (p *Printer) Success(message string) {
	fmt.Fprintf(p.out, "%s %s\n", p.colorize("✓", ansi.Green), message)
}

// Error displays an error message
func (p *Printer) Error(message string) {
	fmt.Fprintf(p.out, "%s %s\n", p.colorize("✗", ansi.Red), message)
}

// Warning displays a warning message
func (p *Printer) Warning(message string) {
	fmt.Fprintf(p.out, "%s %s\n", p.colorize("⚠", ansi.Yellow), message)
}

// Info displays an information message
func (p *Printer) Info(message string) {
	fmt.Fprintf(p.out, "%s %s\n", p.colorize("ℹ", ansi.Cyan), message)
}

// Detail displays message indented under the previous line. Empty messages
// print nothing.
func (p *Printer) Detail(message string) {
	if strings.TrimSpace(message) == "" {
		return
	}
	for _, line := range strings.Split(strings.TrimRight(message, "\n"), "\n") {
		fmt.Fprintf(p.out, "   %s\n", line)
	}
}

// KeyValue displays a key-value pair
func (p *Printer) KeyValue(key, value string) {
	label := fmt.Sprintf("%-12s", key+":")
	fmt.Fprintf(p.out, "   %s %s\n", p.colorize(label, "default+h"), value)
}

// Instructions displays a numbered list of manual steps under a title
func (p *Printer) Instructions(title string, steps ...string) {
	fmt.Fprintf(p.out, "\n%s %s\n", p.colorize("💡", ansi.Cyan), title)
	for i, step := range steps {
		fmt.Fprintf(p.out, "   %d. %s\n", i+1, step)
	}
}

// Table displays rows as a two-column table with bold links
func (p *Printer) Table(rows [][2]string) {
	link := color.New(color.FgCyan, color.Bold)
	if p.useColor {
		link.EnableColor()
	} else {
		link.DisableColor()
	}

	table := tablewriter.NewWriter(p.out)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetColumnSeparator(" ")

	for _, row := range rows {
		table.Append([]string{row[0], link.Sprint(row[1])})
	}

	table.Render()
}
