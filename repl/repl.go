/*
File    : cocodol/repl/repl.go
*/

// Package repl implements the interactive Read-Eval-Print Loop for Cocodol.
// It wraps the lexer -> parser -> eval pipeline with readline-based line
// editing and colorized diagnostics, mirroring the teacher's own REPL
// structure and library choices.
package repl

import (
	"bytes"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"cocodol/ast"
	"cocodol/eval"
	"cocodol/lexer"
	"cocodol/parser"
)

var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

// Repl holds the banner/prompt configuration for an interactive session.
type Repl struct {
	Banner  string
	Version string
	Author  string
	Line    string
	License string
	Prompt  string

	// source accumulates every line entered so far. Cocodol has no
	// incremental-parse story (an ast.Context is a single arena over one
	// fixed source buffer), so each new line is evaluated by re-running
	// the whole session's source from scratch against a fresh Context and
	// a fresh Evaluator; only the tail of output beyond what was already
	// printed on the previous run is written to the real writer. Since
	// print is Cocodol's only externally observable effect, this replay is
	// exact: the same source always produces the same output.
	source    strings.Builder
	prevOutLen int
}

// NewRepl creates a new REPL instance with the given banner/version/prompt.
func NewRepl(banner string, version string, author string, line string, license string, prompt string) *Repl {
	return &Repl{Banner: banner, Version: version, Author: author, Line: line, License: license, Prompt: prompt}
}

// PrintBannerInfo writes the startup banner and usage instructions to writer.
func (r *Repl) PrintBannerInfo(writer io.Writer) {
	blueColor.Fprintf(writer, "%s\n", r.Line)
	greenColor.Fprintf(writer, "%s\n", r.Banner)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	yellowColor.Fprintln(writer, "Version: "+r.Version+" | Author: "+r.Author+" | License: "+r.License)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	cyanColor.Fprintf(writer, "%s\n", "Welcome to Cocodol!")
	cyanColor.Fprintf(writer, "%s\n", "Type your code and press enter")
	cyanColor.Fprintf(writer, "%s\n", "Type '.exit' to quit")
	cyanColor.Fprintf(writer, "%s\n", "Use up/down arrows to navigate command history")
	blueColor.Fprintf(writer, "%s\n", r.Line)
}

// Start runs the REPL loop until the user exits or EOF is reached.
func (r *Repl) Start(reader io.Reader, writer io.Writer) {
	r.PrintBannerInfo(writer)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			writer.Write([]byte("Good Bye!\n"))
			break
		}

		line = strings.Trim(line, " \n\t\r")
		if line == "" {
			continue
		}
		if line == ".exit" {
			writer.Write([]byte("Good Bye!\n"))
			break
		}

		rl.SaveHistory(line)
		r.executeWithRecovery(writer, line)
	}
}

// executeWithRecovery appends line to the session source, re-runs the whole
// session, and writes only the newly produced output (or diagnostics) to
// writer. Parse/eval errors are reported but do not end the session, and a
// line that fails to parse or evaluate is rolled back out of the session
// source so later lines aren't built on top of a broken program.
func (r *Repl) executeWithRecovery(writer io.Writer, line string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			redColor.Fprintf(writer, "[RUNTIME ERROR] %v\n", recovered)
		}
	}()

	priorSource := r.source.String()
	r.source.WriteString(line)
	r.source.WriteString("\n")
	candidate := r.source.String()

	ctx := ast.NewContext(candidate)
	p := parser.New(candidate, ctx)
	decls := p.Parse()

	if p.HasErrors() {
		for _, e := range p.Errors {
			ln, col := lexer.LineCol(candidate, e.Offset)
			redColor.Fprintf(writer, "[%d:%d] PARSER ERROR: %s\n", ln, col, e.Message)
		}
		r.rollback(priorSource)
		return
	}

	ev := eval.NewEvaluator(ctx)
	var buf bytes.Buffer
	ev.SetWriter(&buf)
	ok := ev.EvalProgram(decls)

	if !ok {
		for _, e := range ev.Errors {
			ln, col := lexer.LineCol(candidate, e.Start)
			redColor.Fprintf(writer, "[%d:%d] EVAL ERROR: %s\n", ln, col, e.Message)
		}
		r.rollback(priorSource)
		return
	}

	out := buf.String()
	if len(out) > r.prevOutLen {
		yellowColor.Fprint(writer, out[r.prevOutLen:])
	}
	r.prevOutLen = len(out)
}

func (r *Repl) rollback(priorSource string) {
	r.source.Reset()
	r.source.WriteString(priorSource)
}
