package document

import (
	"regexp"
	"strings"
)

// FormulaKind classifies a formula as inline or block math.
type FormulaKind string

const (
	FormulaInline FormulaKind = "inline"
	FormulaBlock  FormulaKind = "block"
)

// DefaultBlockKeywords are the LaTeX prefixes that make a formula block math.
var DefaultBlockKeywords = []string{
	`\frac`,
	`\sum`,
	`\int`,
	`\sqrt`,
	`\begin`,
	`\displaystyle`,
}

var largeOperatorRe = regexp.MustCompile(`\\(sum|int|prod|lim)`)

const displayStylePrefix = `\displaystyle`

// ClassifyFormula returns FormulaBlock when the trimmed LaTeX starts with one
// of keywords, FormulaInline otherwise. A nil keywords slice selects
// DefaultBlockKeywords. Only a prefix test is made; the LaTeX is not parsed.
func ClassifyFormula(latex string, keywords []string) FormulaKind {
	if keywords == nil {
		keywords = DefaultBlockKeywords
	}
	latex = strings.TrimSpace(latex)
	for _, kw := range keywords {
		if kw != "" && strings.HasPrefix(latex, kw) {
			return FormulaBlock
		}
	}
	return FormulaInline
}

// PrepareFormula normalizes LaTeX typed into a formula editor before it is
// embedded in the document: surrounding whitespace and a wrapping "$$...$$"
// pair are removed, and formulas using a large operator (\sum, \int, \prod,
// \lim) are prefixed with \displaystyle unless they already start with it.
func PrepareFormula(latex string) string {
	clean := strings.TrimSpace(latex)
	if len(clean) >= 4 && strings.HasPrefix(clean, "$$") && strings.HasSuffix(clean, "$$") {
		clean = strings.TrimSpace(clean[2 : len(clean)-2])
	}
	if clean == "" {
		return ""
	}
	if largeOperatorRe.MatchString(clean) && !strings.HasPrefix(clean, displayStylePrefix) {
		clean = displayStylePrefix + " " + clean
	}
	return clean
}
