package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFormula(t *testing.T) {
	tests := []struct {
		latex string
		want  FormulaKind
	}{
		{`\frac{1}{2}`, FormulaBlock},
		{`\sum_{i=1}^n i`, FormulaBlock},
		{`\int_0^1 x\,dx`, FormulaBlock},
		{`\sqrt{2}`, FormulaBlock},
		{`\begin{matrix}a\end{matrix}`, FormulaBlock},
		{`\displaystyle \prod_i x_i`, FormulaBlock},
		{`  \frac{a}{b}  `, FormulaBlock},
		{`x^2`, FormulaInline},
		{`a + \frac{1}{2}`, FormulaInline},
		{`\alpha`, FormulaInline},
		{``, FormulaInline},
	}

	for _, tt := range tests {
		t.Run(tt.latex, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFormula(tt.latex, nil))
		})
	}
}

func TestClassifyFormulaCustomKeywords(t *testing.T) {
	assert.Equal(t, FormulaBlock, ClassifyFormula(`\prod_i x`, []string{`\prod`}))
	assert.Equal(t, FormulaInline, ClassifyFormula(`\frac{1}{2}`, []string{`\prod`}))
	assert.Equal(t, FormulaInline, ClassifyFormula(`\frac{1}{2}`, []string{}))
}

func TestPrepareFormula(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims", "  x^2  ", "x^2"},
		{"strips block delimiters", "$$ x^2 $$", "x^2"},
		{"adds displaystyle for sum", `\sum_{i=1}^n i`, `\displaystyle \sum_{i=1}^n i`},
		{"adds displaystyle for lim", `$$\lim_{x\to0} f$$`, `\displaystyle \lim_{x\to0} f`},
		{"keeps existing displaystyle", `\displaystyle \int_0^1 x`, `\displaystyle \int_0^1 x`},
		{"leaves plain formulas", `\frac{1}{2}`, `\frac{1}{2}`},
		{"empty", "  ", ""},
		{"bare delimiters", "$$$$", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrepareFormula(tt.input))
		})
	}
}
