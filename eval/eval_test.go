/*
File    : cocodol/eval/eval_test.go
*/
package eval

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cocodol/ast"
	"cocodol/parser"
)

func run(t *testing.T, src string) (string, *Evaluator) {
	t.Helper()
	ctx := ast.NewContext(src)
	p := parser.New(src, ctx)
	decls := p.Parse()
	require.False(t, p.HasErrors(), "parse errors: %v", p.Errors)

	ev := NewEvaluator(ctx)
	var buf bytes.Buffer
	ev.SetWriter(&buf)
	ok := ev.EvalProgram(decls)
	require.True(t, ok, "eval errors: %v", ev.Errors)
	return buf.String(), ev
}

func TestEval_PrintArithmetic(t *testing.T) {
	out, _ := run(t, "print(40 + 2);")
	assert.Equal(t, "42\n", out)
}

func TestEval_PrecedenceMultiplicationFirst(t *testing.T) {
	out, _ := run(t, "print(1 + 2 * 3);")
	assert.Equal(t, "7\n", out)
}

func TestEval_Booleans(t *testing.T) {
	out, _ := run(t, "print(true and false);")
	assert.Equal(t, "false\n", out)
}

func TestEval_GlobalLazyIsReevaluatedEveryRead(t *testing.T) {
	out, _ := run(t, `
		var counter = 0;
		fun bump() { counter = counter + 1; ret counter; }
		var total = bump();
		print(total);
		print(total);
	`)
	// total is a global lazy thunk: every print re-runs bump(), so the
	// "same" global prints a different value each time it's read.
	assert.Equal(t, "1\n2\n", out)
}

func TestEval_FunctionCallAndReturn(t *testing.T) {
	out, _ := run(t, `
		fun add(a, b) { ret a + b; }
		print(add(3, 4));
	`)
	assert.Equal(t, "7\n", out)
}

func TestEval_RecursiveFunction(t *testing.T) {
	out, _ := run(t, `
		fun fact(n) {
			if n <= 1 { ret 1; }
			ret n * fact(n - 1);
		}
		print(fact(5));
	`)
	assert.Equal(t, "120\n", out)
}

func TestEval_ClosureCapturesByValue(t *testing.T) {
	out, _ := run(t, `
		fun makeAdder(x) {
			fun adder(y) { ret x + y; }
			ret adder;
		}
		var add5 = makeAdder(5);
		print(add5(10));
	`)
	assert.Equal(t, "15\n", out)
}

func TestEval_WhileLoopWithBreakAndNext(t *testing.T) {
	out, _ := run(t, `
		fun sumOdd(limit) {
			var i = 0;
			var total = 0;
			while i < limit {
				i = i + 1;
				if i == 4 { brk; }
				if i % 2 == 0 { nxt; }
				total = total + i;
			}
			ret total;
		}
		print(sumOdd(10));
	`)
	// i goes 1,2,3 (odd sums: 1+3=4), loop breaks when i hits 4.
	assert.Equal(t, "4\n", out)
}

func TestEval_UndefinedIdentifierIsError(t *testing.T) {
	ctx := ast.NewContext("print(missing);")
	p := parser.New("print(missing);", ctx)
	decls := p.Parse()
	require.False(t, p.HasErrors())

	ev := NewEvaluator(ctx)
	var buf bytes.Buffer
	ev.SetWriter(&buf)
	ok := ev.EvalProgram(decls)
	assert.False(t, ok)
	require.Len(t, ev.Errors, 1)
	assert.Contains(t, ev.Errors[0].Message, "undefined identifier 'missing'")
}

func TestEval_TypeMismatchOperatorIsError(t *testing.T) {
	ctx := ast.NewContext("print(1 + true);")
	p := parser.New("print(1 + true);", ctx)
	decls := p.Parse()
	require.False(t, p.HasErrors())

	ev := NewEvaluator(ctx)
	ok := ev.EvalProgram(decls)
	assert.False(t, ok)
	require.Len(t, ev.Errors, 1)
	assert.Contains(t, ev.Errors[0].Message, "is not defined for values of type 'Integer' and 'Bool'")
}

func TestEval_PrintIsReservedIdentifier(t *testing.T) {
	ctx := ast.NewContext("var print = 1;")
	p := parser.New("var print = 1;", ctx)
	decls := p.Parse()
	require.False(t, p.HasErrors())

	ev := NewEvaluator(ctx)
	ok := ev.EvalProgram(decls)
	assert.False(t, ok)
	require.Len(t, ev.Errors, 1)
	assert.Contains(t, ev.Errors[0].Message, "reserved identifier")
}

func TestEval_DuplicateGlobalReportsErrorButDoesNotAbortPass(t *testing.T) {
	src := "var x = 1; var x = 2; print(99);"
	ctx := ast.NewContext(src)
	p := parser.New(src, ctx)
	decls := p.Parse()
	require.False(t, p.HasErrors())

	ev := NewEvaluator(ctx)
	var buf bytes.Buffer
	ev.SetWriter(&buf)
	ok := ev.EvalProgram(decls)

	// a duplicate global is a recorded diagnostic, not a pass-aborting one:
	// the later print statement still runs.
	assert.False(t, ok)
	require.Len(t, ev.Errors, 1)
	assert.Contains(t, ev.Errors[0].Message, "duplicate declaration")
	assert.Equal(t, "99\n", buf.String())
}

func TestEval_AssignmentUsedAsInitializerDoesNotAliasTarget(t *testing.T) {
	out, _ := run(t, `
		fun f() {
			var x = 1;
			var y = (x = 5);
			x = 99;
			ret y;
		}
		print(f());
	`)
	assert.Equal(t, "5\n", out)
}
