package converter

import (
	"context"
	"strings"
	"testing"

	"github.com/rgonek/quill-md-converter/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func newTestConverter(t testing.TB, cfg Config) *Converter {
	t.Helper()
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func convert(t *testing.T, cfg Config, input string) Result {
	t.Helper()
	res, err := newTestConverter(t, cfg).Convert(input)
	require.NoError(t, err)
	return res
}

func TestConvertInlineFormula(t *testing.T) {
	res := convert(t, Config{}, `<p>Area <span class="ql-formula" data-value="x^2">x²</span></p>`)

	assert.Equal(t, "Area $x^2$", res.Markdown)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, []document.Kind{document.KindText, document.KindInlineMath}, res.Document.Kinds())
}

func TestConvertBlockFormula(t *testing.T) {
	res := convert(t, Config{}, `<p>Result: <span class="ql-formula" data-value="\sum_{i=1}^n i"><span class="katex">Σ</span></span></p>`)

	assert.Contains(t, res.Markdown, "$$\n\\sum_{i=1}^n i\n$$")
	assert.NotContains(t, res.Markdown, "katex")
	assert.NotContains(t, res.Markdown, "Σ")

	math := res.Document.Math()
	require.Len(t, math, 1)
	assert.Equal(t, document.KindBlockMath, math[0].Kind)
	assert.Equal(t, `\sum_{i=1}^n i`, math[0].Math)
}

func TestConvertEmptyFormulaSpanKeepsSurroundingSpaces(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trailing formula",
			input: `<p>Area <span class="ql-formula" data-value="x^2"></span></p>`,
			want:  "Area $x^2$",
		},
		{
			name:  "formula between words",
			input: `<p>a <span class="ql-formula" data-value="a_1*b_2"></span> b</p>`,
			want:  "a $a_1*b_2$ b",
		},
		{
			name:  "leading formula",
			input: `<p><span class="ql-formula" data-value="y"></span> after</p>`,
			want:  "$y$ after",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := convert(t, Config{}, tt.input)
			assert.Equal(t, tt.want, res.Markdown)
			assert.Empty(t, res.Warnings)
		})
	}
}

func TestConvertEmptyBlockFormulaSpanKeepsPrecedingSpace(t *testing.T) {
	res := convert(t, Config{}, `<p>Result: <span class="ql-formula" data-value="\sum_{i=1}^n i"></span></p>`)

	assert.True(t, strings.HasPrefix(res.Markdown, "Result: \n$$\n"), res.Markdown)
	assert.Contains(t, res.Markdown, "$$\n\\sum_{i=1}^n i\n$$")
	require.Len(t, res.Document.Math(), 1)
	assert.Equal(t, document.KindBlockMath, res.Document.Math()[0].Kind)
}

func TestConvertFormulaTrimsValue(t *testing.T) {
	res := convert(t, Config{}, `<p><span class="ql-formula" data-value="  y  "></span></p>`)
	assert.Equal(t, "$y$", res.Markdown)
}

func TestConvertFormulaMissingValue(t *testing.T) {
	res := convert(t, Config{}, `<p>a <span class="ql-formula">stale</span> b</p>`)

	assert.NotContains(t, res.Markdown, "stale")
	assert.NotContains(t, res.Markdown, "$")
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, WarningMissingAttribute, res.Warnings[0].Type)
	assert.Equal(t, "span", res.Warnings[0].NodeType)
}

func TestConvertFormulaCustomKeywords(t *testing.T) {
	res := convert(t, Config{BlockKeywords: []string{}}, `<p><span class="ql-formula" data-value="\frac{1}{2}"></span></p>`)
	assert.Equal(t, `$\frac{1}{2}$`, res.Markdown)
}

func TestConvertUnderline(t *testing.T) {
	tests := []struct {
		name  string
		style UnderlineStyle
		want  string
	}{
		{"default underscore", "", "_text_"},
		{"html", UnderlineHTML, "<u>text</u>"},
		{"ignore", UnderlineIgnore, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := convert(t, Config{UnderlineStyle: tt.style}, `<p><u>text</u></p>`)
			assert.Equal(t, tt.want, res.Markdown)
		})
	}
}

func TestConvertUnderlineNeverBold(t *testing.T) {
	res := convert(t, Config{}, `<p>see <u>this</u> now</p>`)
	assert.Equal(t, "see _this_ now", res.Markdown)
	assert.NotContains(t, res.Markdown, "**")
}

func TestConvertPendingImage(t *testing.T) {
	tests := []string{
		`<p><img data-upload-id="upload-img-XYZ"></p>`,
		`<p><img data-upload-id="upload-img-XYZ" src="blob:local" alt="cat"></p>`,
		`<p><img alt="ignored" data-upload-id="upload-img-XYZ" src="https://cdn/x.png"></p>`,
	}

	for _, input := range tests {
		res := convert(t, Config{}, input)
		assert.Equal(t, "![](upload-img-XYZ)", res.Markdown, input)

		tokens := res.Document.UploadTokens()
		assert.Equal(t, []string{"upload-img-XYZ"}, tokens)
	}
}

func TestConvertEmptyUploadAttributeIsPending(t *testing.T) {
	res := convert(t, Config{}, `<p><img data-upload-id="" src="https://cdn.example.com/a.png" alt="a"></p>`)
	assert.Equal(t, "![]()", res.Markdown)
	assert.Empty(t, res.Document.UploadTokens())
}

func TestConvertResolvedImageEscapesAltAndTarget(t *testing.T) {
	res := convert(t, Config{}, `<p><img src="a b.png" alt="x]y"></p>`)
	assert.Equal(t, `![x\]y](<a b.png>)`, res.Markdown)

	require.Len(t, res.Document.Segments, 1)
	seg := res.Document.Segments[0]
	assert.Equal(t, document.KindImage, seg.Kind)
	assert.Equal(t, "x]y", seg.Alt)
	assert.Equal(t, "a b.png", seg.Target)
}

func TestConvertResolvedImage(t *testing.T) {
	res := convert(t, Config{}, `<p><img src="https://cdn.example.com/a.png" alt="diagram"></p>`)
	assert.Equal(t, "![diagram](https://cdn.example.com/a.png)", res.Markdown)

	res = convert(t, Config{}, `<p><img src="https://cdn.example.com/a.png"></p>`)
	assert.Equal(t, "![](https://cdn.example.com/a.png)", res.Markdown)
}

func TestConvertGenericElements(t *testing.T) {
	res := convert(t, Config{}, `<h1>Title</h1><p>Some <strong>bold</strong> and <em>italic</em> text</p>`)
	assert.Equal(t, "# Title\n\nSome **bold** and *italic* text", res.Markdown)
}

func TestConvertTrimsOutput(t *testing.T) {
	res := convert(t, Config{}, "<p>   </p><p>hello</p><p></p>")
	assert.Equal(t, "hello", res.Markdown)
}

func TestConvertEmptyInput(t *testing.T) {
	res := convert(t, Config{}, "")
	assert.Equal(t, "", res.Markdown)
	assert.Empty(t, res.Document.Segments)
}

func TestCustomRuleRunsBeforeBuiltins(t *testing.T) {
	custom := Rule{
		Name: "caption",
		Match: func(n *html.Node) bool {
			return n.Data == "img"
		},
		Render: func(_ string, _ *html.Node) string {
			return "[figure]"
		},
	}

	res := convert(t, Config{Rules: []Rule{custom}}, `<p><img data-upload-id="upload-img-1"></p>`)
	assert.Equal(t, "[figure]", res.Markdown)
}

func TestCustomRuleReplacesBuiltinByName(t *testing.T) {
	custom := TagRule(RuleUnderline, func(content string, _ *html.Node) string {
		return "++" + content + "++"
	}, "u")

	c := newTestConverter(t, Config{Rules: []Rule{custom}})
	res, err := c.Convert(`<p><u>x</u></p>`)
	require.NoError(t, err)
	assert.Equal(t, "++x++", res.Markdown)

	var names []string
	for _, r := range c.rules {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{RuleUnderline, RuleFormula, RulePendingImage, RuleImage}, names)
}

func TestConvertWithContextCancelled(t *testing.T) {
	c := newTestConverter(t, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ConvertWithContext(ctx, "<p>x</p>", ConvertOptions{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestConvertRulePanicFallsBackToText(t *testing.T) {
	boom := TagRule("boom", func(string, *html.Node) string { panic("bad rule") }, "b")

	res := convert(t, Config{Rules: []Rule{boom}}, `<p>keep <b>this</b> text</p>`)
	assert.Equal(t, "keep this text", res.Markdown)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, WarningFallbackText, res.Warnings[0].Type)
}

func TestConvertString(t *testing.T) {
	out := ConvertString(`<p><u>a</u> <span class="ql-formula" data-value="\frac{1}{2}"></span></p>`)
	assert.True(t, strings.HasPrefix(out, "_a_"))
	assert.Contains(t, out, "$$\n\\frac{1}{2}\n$$")
}

func TestConvertStringSkipsInvalidRules(t *testing.T) {
	out := ConvertString(`<p><u>a</u></p>`, Rule{Name: "broken"})
	assert.Equal(t, "_a_", out)
}

func TestConverterConfigIsCopy(t *testing.T) {
	c := newTestConverter(t, Config{})
	cfg := c.Config()
	cfg.BlockKeywords[0] = `\nope`

	assert.Equal(t, document.DefaultBlockKeywords[0], c.Config().BlockKeywords[0])
}
