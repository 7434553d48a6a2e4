/*
File    : cocodol/main.go
*/

// Command cocodol is the entry point for the Cocodol interpreter. It
// supports four modes of operation, the first three mirroring the teacher's
// own driver:
//
//	cocodol                 start an interactive REPL on stdin/stdout
//	cocodol <path>           run a Cocodol source file
//	cocodol server <port>    run a REPL server, one session per connection
//	cocodol --ast <path>     parse a Cocodol source file and print its AST
package main

import (
	"net"
	"os"

	"github.com/fatih/color"

	"cocodol/ast"
	"cocodol/eval"
	"cocodol/lexer"
	"cocodol/parser"
	"cocodol/repl"
)

var version = "v1.0.0"
var author = "cocodol-lang"
var license = "MIT"
var prompt = "cocodol >>> "

var banner = `
   ____                     _       _
  / ___|___   ___ ___   __| | ___ | |
 | |   / _ \ / __/ _ \ / _  |/ _ \| |
 | |__| (_) | (_| (_) | (_| | (_) | |
  \____\___/ \___\___/ \__,_|\___/|_|
`

var line = "----------------------------------------------------------------"

var (
	redColor    = color.New(color.FgRed)
	yellowColor = color.New(color.FgYellow)
	cyanColor   = color.New(color.FgCyan)
)

func main() {
	if len(os.Args) > 1 {
		switch arg := os.Args[1]; arg {
		case "--help", "-h":
			showHelp()
			return
		case "--version", "-v":
			showVersion()
			return
		case "server":
			if len(os.Args) < 3 {
				redColor.Fprintf(os.Stderr, "[USAGE ERROR] missing port for server mode. Usage: cocodol server <port>\n")
				os.Exit(1)
			}
			startServer(os.Args[2])
			return
		case "--ast":
			if len(os.Args) < 3 {
				redColor.Fprintf(os.Stderr, "[USAGE ERROR] missing file for --ast. Usage: cocodol --ast <path>\n")
				os.Exit(1)
			}
			printFileAST(os.Args[2])
			return
		default:
			runFile(arg)
			return
		}
	}

	repler := repl.NewRepl(banner, version, author, line, license, prompt)
	repler.Start(os.Stdin, os.Stdout)
}

func showHelp() {
	cyanColor.Println("Cocodol - a small imperative scripting language")
	cyanColor.Println("")
	cyanColor.Println("USAGE:")
	yellowColor.Println("  cocodol                    Start interactive REPL mode")
	yellowColor.Println("  cocodol <path-to-file>     Execute a Cocodol file")
	yellowColor.Println("  cocodol server <port>      Start REPL server on specified port")
	yellowColor.Println("  cocodol --ast <path>       Parse a file and print its AST")
	yellowColor.Println("  cocodol --help             Display this help message")
	yellowColor.Println("  cocodol --version          Display version information")
}

func showVersion() {
	cyanColor.Println("Cocodol")
	cyanColor.Printf("Version: %s\n", version)
	cyanColor.Printf("License: %s\n", license)
}

// runFile reads, parses, and evaluates a single source file, exiting with
// status 1 on any parse or evaluation error.
func runFile(fileName string) {
	source, err := os.ReadFile(fileName)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[FILE ERROR] could not read file '%s': %v\n", fileName, err)
		os.Exit(1)
	}

	ctx := ast.NewContext(string(source))
	p := parser.New(string(source), ctx)
	decls := p.Parse()

	if p.HasErrors() {
		for _, e := range p.Errors {
			line, col := lexer.LineCol(ctx.Source, e.Offset)
			redColor.Fprintf(os.Stderr, "[%d:%d] PARSER ERROR: %s\n", line, col, e.Message)
		}
		os.Exit(1)
	}

	ev := eval.NewEvaluator(ctx)
	if !ev.EvalProgram(decls) {
		for _, e := range ev.Errors {
			line, col := lexer.LineCol(ctx.Source, e.Start)
			redColor.Fprintf(os.Stderr, "[%d:%d] EVAL ERROR: %s\n", line, col, e.Message)
		}
		os.Exit(1)
	}
}

// printFileAST parses fileName and prints its AST, for debugging a
// program's structure without evaluating it.
func printFileAST(fileName string) {
	source, err := os.ReadFile(fileName)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[FILE ERROR] could not read file '%s': %v\n", fileName, err)
		os.Exit(1)
	}

	ctx := ast.NewContext(string(source))
	p := parser.New(string(source), ctx)
	decls := p.Parse()

	if p.HasErrors() {
		for _, e := range p.Errors {
			line, col := lexer.LineCol(ctx.Source, e.Offset)
			redColor.Fprintf(os.Stderr, "[%d:%d] PARSER ERROR: %s\n", line, col, e.Message)
		}
		os.Exit(1)
	}

	yellowColor.Print(dumpAST(ctx, decls))
}

// startServer listens on port, handing each accepted connection its own
// REPL session (its own Cocodol source/evaluator state, independent of any
// other client).
func startServer(port string) {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[SERVER ERROR] failed to start server on port %s: %v\n", port, err)
		os.Exit(1)
	}
	cyanColor.Printf("Cocodol REPL server listening on :%s\n", port)
	defer listener.Close()

	for {
		conn, err := listener.Accept()
		if err != nil {
			redColor.Fprintf(os.Stderr, "[SERVER ERROR] failed to accept connection: %v\n", err)
			continue
		}
		go handleClient(conn)
	}
}

func handleClient(conn net.Conn) {
	defer conn.Close()
	cyanColor.Printf("new client connected from %s\n", conn.RemoteAddr())
	repler := repl.NewRepl(banner, version, author, line, license, prompt)
	repler.Start(conn, conn)
	cyanColor.Printf("client disconnected from %s\n", conn.RemoteAddr())
}
