package converter

import (
	"testing"

	"github.com/rgonek/quill-md-converter/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestApplyDefaults(t *testing.T) {
	cfg := (Config{}).applyDefaults()

	assert.Equal(t, UnderlineUnderscore, cfg.UnderlineStyle)
	assert.Equal(t, HeadingATX, cfg.HeadingStyle)
	assert.Equal(t, "*", cfg.EmDelimiter)
	assert.Equal(t, "**", cfg.StrongDelimiter)
	assert.Equal(t, rune('-'), cfg.BulletMarker)
	assert.Equal(t, "```", cfg.CodeBlockFence)
	assert.Equal(t, "ql-formula", cfg.FormulaClass)
	assert.Equal(t, "data-upload-id", cfg.UploadIDAttr)
	assert.Equal(t, document.DefaultBlockKeywords, cfg.BlockKeywords)
}

func TestApplyDefaultsKeepsEmptyKeywordList(t *testing.T) {
	cfg := (Config{BlockKeywords: []string{}}).applyDefaults()
	assert.Empty(t, cfg.BlockKeywords)
}

func TestValidateValid(t *testing.T) {
	cfg := Config{
		UnderlineStyle:  UnderlineHTML,
		HeadingStyle:    HeadingSetext,
		EmDelimiter:     "_",
		StrongDelimiter: "__",
		BulletMarker:    '*',
		CodeBlockFence:  "~~~",
		FormulaClass:    "math",
		UploadIDAttr:    "data-pending",
		BlockKeywords:   []string{`\frac`},
		Rules: []Rule{
			TagRule("mark", func(content string, _ *html.Node) string { return "==" + content + "==" }, "mark"),
		},
	}

	require.NoError(t, cfg.Validate())
}

func TestValidateInvalid(t *testing.T) {
	render := func(content string, _ *html.Node) string { return content }

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"underline", func(c *Config) { c.UnderlineStyle = "bold" }},
		{"heading", func(c *Config) { c.HeadingStyle = "fancy" }},
		{"em", func(c *Config) { c.EmDelimiter = "~" }},
		{"strong", func(c *Config) { c.StrongDelimiter = "*" }},
		{"bullet", func(c *Config) { c.BulletMarker = '#' }},
		{"fence", func(c *Config) { c.CodeBlockFence = "''" }},
		{"formula class", func(c *Config) { c.FormulaClass = "ql formula" }},
		{"upload attr", func(c *Config) { c.UploadIDAttr = " " }},
		{"keyword", func(c *Config) { c.BlockKeywords = []string{"frac"} }},
		{"rule without name", func(c *Config) { c.Rules = []Rule{TagRule("", render, "b")} }},
		{"rule without match", func(c *Config) { c.Rules = []Rule{{Name: "x", Render: render}} }},
		{"duplicate rule", func(c *Config) {
			c.Rules = []Rule{TagRule("x", render, "b"), TagRule("x", render, "i")}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := (Config{}).applyDefaults()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestCloneDetachesSlices(t *testing.T) {
	cfg := Config{BlockKeywords: []string{`\frac`}}
	cloned := cfg.clone()
	cloned.BlockKeywords[0] = `\sum`

	assert.Equal(t, `\frac`, cfg.BlockKeywords[0])
}

func TestCloneKeepsEmptyKeywordList(t *testing.T) {
	cloned := (Config{BlockKeywords: []string{}}).applyDefaults().clone()
	assert.NotNil(t, cloned.BlockKeywords)
	assert.Empty(t, cloned.BlockKeywords)

	assert.Nil(t, (Config{}).clone().BlockKeywords)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(Config{UnderlineStyle: "bold"})
	require.Error(t, err)
}
