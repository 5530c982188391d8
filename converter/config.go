package converter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rgonek/quill-md-converter/document"
)

// UnderlineStyle controls how underline marks are rendered.
type UnderlineStyle string

const (
	// UnderlineUnderscore wraps underlined content in single underscores.
	// Markdown has no underline; single-underscore emphasis is the policy
	// default and is never promoted to strong emphasis.
	UnderlineUnderscore UnderlineStyle = "underscore"
	UnderlineHTML       UnderlineStyle = "html"
	UnderlineIgnore     UnderlineStyle = "ignore"
)

// HeadingStyle controls how headings are rendered.
type HeadingStyle string

const (
	HeadingATX    HeadingStyle = "atx"
	HeadingSetext HeadingStyle = "setext"
)

// Config holds all converter configuration options.
type Config struct {
	UnderlineStyle  UnderlineStyle `json:"underlineStyle,omitempty" yaml:"underlineStyle,omitempty"`
	HeadingStyle    HeadingStyle   `json:"headingStyle,omitempty" yaml:"headingStyle,omitempty"`
	EmDelimiter     string         `json:"emDelimiter,omitempty" yaml:"emDelimiter,omitempty"`
	StrongDelimiter string         `json:"strongDelimiter,omitempty" yaml:"strongDelimiter,omitempty"`
	BulletMarker    rune           `json:"bulletMarker,omitempty" yaml:"-"`
	CodeBlockFence  string         `json:"codeBlockFence,omitempty" yaml:"codeBlockFence,omitempty"`
	FormulaClass    string         `json:"formulaClass,omitempty" yaml:"formulaClass,omitempty"`
	UploadIDAttr    string         `json:"uploadIdAttr,omitempty" yaml:"uploadIdAttr,omitempty"`
	BlockKeywords   []string       `json:"blockKeywords,omitempty" yaml:"blockKeywords,omitempty"`
	Rules           []Rule         `json:"-" yaml:"-"`
}

func (c Config) applyDefaults() Config {
	if c.UnderlineStyle == "" {
		c.UnderlineStyle = UnderlineUnderscore
	}
	if c.HeadingStyle == "" {
		c.HeadingStyle = HeadingATX
	}
	if c.EmDelimiter == "" {
		c.EmDelimiter = "*"
	}
	if c.StrongDelimiter == "" {
		c.StrongDelimiter = "**"
	}
	if c.BulletMarker == 0 {
		c.BulletMarker = '-'
	}
	if c.CodeBlockFence == "" {
		c.CodeBlockFence = "```"
	}
	if c.FormulaClass == "" {
		c.FormulaClass = "ql-formula"
	}
	if c.UploadIDAttr == "" {
		c.UploadIDAttr = "data-upload-id"
	}
	if c.BlockKeywords == nil {
		c.BlockKeywords = document.DefaultBlockKeywords
	}

	return c
}

// clone returns a deep copy of Config for slice-backed fields. An empty
// non-nil BlockKeywords stays non-nil so it keeps disabling block formulas.
func (c Config) clone() Config {
	cloned := c
	cloned.BlockKeywords = slices.Clone(c.BlockKeywords)
	cloned.Rules = slices.Clone(c.Rules)
	return cloned
}

// Validate checks that config values are valid.
func (c Config) Validate() error {
	if c.UnderlineStyle != UnderlineUnderscore && c.UnderlineStyle != UnderlineHTML && c.UnderlineStyle != UnderlineIgnore {
		return fmt.Errorf("invalid underlineStyle %q", c.UnderlineStyle)
	}
	if c.HeadingStyle != HeadingATX && c.HeadingStyle != HeadingSetext {
		return fmt.Errorf("invalid headingStyle %q", c.HeadingStyle)
	}
	if c.EmDelimiter != "*" && c.EmDelimiter != "_" {
		return fmt.Errorf("invalid emDelimiter %q: must be * or _", c.EmDelimiter)
	}
	if c.StrongDelimiter != "**" && c.StrongDelimiter != "__" {
		return fmt.Errorf("invalid strongDelimiter %q: must be ** or __", c.StrongDelimiter)
	}
	if c.BulletMarker != '-' && c.BulletMarker != '*' && c.BulletMarker != '+' {
		return fmt.Errorf("invalid bulletMarker %q: must be one of -, *, +", c.BulletMarker)
	}
	if c.CodeBlockFence != "```" && c.CodeBlockFence != "~~~" {
		return fmt.Errorf("invalid codeBlockFence %q", c.CodeBlockFence)
	}
	if strings.TrimSpace(c.FormulaClass) == "" || strings.ContainsAny(c.FormulaClass, " \t\n") {
		return fmt.Errorf("invalid formulaClass %q: must be a single class token", c.FormulaClass)
	}
	if strings.TrimSpace(c.UploadIDAttr) == "" {
		return fmt.Errorf("uploadIdAttr must be non-empty")
	}
	for _, kw := range c.BlockKeywords {
		if !strings.HasPrefix(kw, `\`) || len(kw) < 2 {
			return fmt.Errorf("invalid block keyword %q: must be a LaTeX command", kw)
		}
	}

	seen := make(map[string]struct{}, len(c.Rules))
	for i, rule := range c.Rules {
		if strings.TrimSpace(rule.Name) == "" {
			return fmt.Errorf("rule %d: name must be non-empty", i)
		}
		if rule.Match == nil || rule.Render == nil {
			return fmt.Errorf("rule %q: match and render must be set", rule.Name)
		}
		if _, ok := seen[rule.Name]; ok {
			return fmt.Errorf("duplicate rule name %q", rule.Name)
		}
		seen[rule.Name] = struct{}{}
	}

	return nil
}
