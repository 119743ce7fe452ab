package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrawatt/balance-engine/engine"
)

func TestRender_CellRef_CrossTableAndLocal(t *testing.T) {
	addr := engine.Address{Table: "parametres", Column: "B", Row: 14}
	expr := engine.Cell(addr)

	// Rendered into another table: table-qualified
	assert.Equal(t, "[parametres.B14]", engine.ODF.Render(expr, "moulinette_simplifiee"))

	// Rendered into its own table: relative
	assert.Equal(t, "[.B14]", engine.ODF.Render(expr, "parametres"))
}

func TestRender_LocalRefAndRange(t *testing.T) {
	assert.Equal(t, "[.C5]", engine.ODF.Render(engine.Local("C", 5), "any"))
	assert.Equal(t, "[.Q3:.Q7]", engine.ODF.Render(engine.LocalRange("Q", 3, 7), "any"))
}

func TestRender_BinaryOps_AlwaysParenthesized(t *testing.T) {
	// Output structure must never depend on operator precedence
	expr := engine.Add(engine.Int(1), engine.Mul(engine.Int(2), engine.Int(3)))
	assert.Equal(t, "(1+(2*3))", engine.ODF.Render(expr, "t"))

	expr = engine.Mul(engine.Add(engine.Int(1), engine.Int(2)), engine.Int(3))
	assert.Equal(t, "((1+2)*3)", engine.ODF.Render(expr, "t"))

	expr = engine.Div(engine.Sub(engine.Local("A", 3), engine.Local("B", 3)), engine.Int(2))
	assert.Equal(t, "(([.A3]-[.B3])/2)", engine.ODF.Render(expr, "t"))
}

func TestRender_Calls_UseDialectSeparatorAndPrefix(t *testing.T) {
	expr := engine.Max0(engine.Sub(engine.Local("N", 17), engine.Local("H", 17)))
	assert.Equal(t, "of:=MAX(0;([.N17]-[.H17]))", engine.ODF.Formula(expr, "t"))

	sum := engine.Sum(engine.LocalRange("Q", 3, 7))
	assert.Equal(t, "of:=SUM([.Q3:.Q7])", engine.ODF.Formula(sum, "t"))

	cond := engine.If(engine.Le(engine.Local("C", 3), engine.Int(0)), engine.Int(1), engine.Int(2))
	assert.Equal(t, "IF(([.C3]<=0);1;2)", engine.ODF.Render(cond, "t"))
}

func TestRender_NegativeLiterals_Parenthesized(t *testing.T) {
	expr := engine.Sub(engine.Local("C", 3), engine.Float(-15))
	assert.Equal(t, "([.C3]-(-15))", engine.ODF.Render(expr, "t"))
}

func TestRender_TextLiterals_QuotedAndEscaped(t *testing.T) {
	assert.Equal(t, `"Janvier"`, engine.ODF.Render(engine.Str("Janvier"), "t"))
	assert.Equal(t, `"a""b"`, engine.ODF.Render(engine.Str(`a"b`), "t"))
	assert.Equal(t, `("a"&"b")`, engine.ODF.Render(engine.Concat(engine.Str("a"), engine.Str("b")), "t"))
}

func TestRender_FoldedSums(t *testing.T) {
	expr := engine.AddN(engine.Local("B", 3), engine.Local("C", 3), engine.Local("D", 3))
	assert.Equal(t, "(([.B3]+[.C3])+[.D3])", engine.ODF.Render(expr, "t"))

	assert.Equal(t, "0", engine.ODF.Render(engine.AddN(), "t"))
	assert.Equal(t, "[.B3]", engine.ODF.Render(engine.AddN(engine.Local("B", 3)), "t"))
}

func TestRender_IsIdempotent(t *testing.T) {
	// GIVEN: A representative expression using every node type
	expr := engine.If(
		engine.Le(engine.Local("C", 5), engine.Float(-15)),
		engine.Cell(engine.Address{Table: "parametres", Column: "B", Row: 52}),
		engine.Add(
			engine.Mul(engine.Div(engine.Local("C", 5), engine.Int(5)), engine.Float(0.3)),
			engine.Sum(engine.LocalRange("Q", 3, 7)),
		),
	)

	// WHEN: Rendering repeatedly
	first := engine.ODF.Formula(expr, "calc_chauffage")
	for i := 0; i < 100; i++ {
		require.Equal(t, first, engine.ODF.Formula(expr, "calc_chauffage"),
			"rendering must be byte-identical on every call")
	}

	// THEN: Rendering into a different table changes only reference syntax
	other := engine.ODF.Formula(expr, "parametres")
	assert.NotEqual(t, first, other)
	assert.Contains(t, first, "[parametres.B52]")
	assert.Contains(t, other, "[.B52]")
}
