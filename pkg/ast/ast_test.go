package ast

import "testing"

func TestIDsAreSequentialFromOne(t *testing.T) {
	var ids IDs
	for want := NodeID(1); want <= 3; want++ {
		if got := ids.Next(); got != want {
			t.Fatalf("expected id %d, got %d", want, got)
		}
	}
}

func TestBuildersAssignDistinctIDs(t *testing.T) {
	a := ID("a")
	b := ID("a")
	if a.ID() == b.ID() {
		t.Fatalf("expected separate occurrences of a name to get distinct ids, both got %d", a.ID())
	}
	if a.NodeType() != NodeVariable {
		t.Fatalf("expected Variable node type, got %s", a.NodeType())
	}
}

func TestFormatExpressions(t *testing.T) {
	cases := []struct {
		name string
		expr Expr
		want string
	}{
		{"literal number", Num(3), "3"},
		{"fraction", Num(2.5), "2.5"},
		{"string", Str("hi"), `"hi"`},
		{"nil", Nil(), "nil"},
		{"bool", Bool(false), "false"},
		{"unary", Neg(Group(Num(1))), "(- (group 1))"},
		{"binary", Bin("+", Num(1), Bin("*", Num(2), Num(3))), "(+ 1 (* 2 3))"},
		{"logical", Or(ID("a"), And(ID("b"), Not(ID("c")))), "(or a (and b (! c)))"},
		{"assign", Set("x", Num(4)), "(= x 4)"},
		{"call", CallExpr(ID("f"), Num(1), ID("y")), "(call f 1 y)"},
		{"call without args", CallExpr(ID("clock")), "(call clock)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatExpr(tc.expr); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestFormatStatements(t *testing.T) {
	program := []Stmt{
		Var("x", Num(1)),
		Var("y", nil),
		Fn("add", []string{"a", "b"}, Ret(Bin("+", ID("a"), ID("b")))),
		If(ID("x"), Print(Str("yes")), Print(Str("no"))),
		While(Bin("<", ID("x"), Num(3)), Block(Expression(Set("x", Bin("+", ID("x"), Num(1)))))),
		Fn("noop", nil),
		Ret(nil),
	}
	want := `(var x 1)
(var y)
(fun add (a b) (return (+ a b)))
(if x (print "yes") (print "no"))
(while (< x 3) (block (; (= x (+ x 1)))))
(fun noop ())
(return)`
	if got := Format(program); got != want {
		t.Fatalf("unexpected format:\n%s\nwant:\n%s", got, want)
	}
}

func TestOpRejectsUnknownOperator(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown operator")
		}
	}()
	Op("%")
}
