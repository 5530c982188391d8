package converter

import (
	"slices"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/rgonek/quill-md-converter/document"
	"golang.org/x/net/html"
)

// Built-in rule names. A caller rule registered under one of these names
// replaces the built-in rule.
const (
	RuleUnderline    = "underline"
	RuleFormula      = "formula"
	RulePendingImage = "pendingImage"
	RuleImage        = "image"
)

// Rule turns a matching element into Markdown. Render receives the element's
// children already converted to Markdown.
type Rule struct {
	Name   string
	Match  func(n *html.Node) bool
	Render func(content string, n *html.Node) string
}

// TagRule returns a rule matching elements with any of the given tag names.
func TagRule(name string, render func(content string, n *html.Node) string, tags ...string) Rule {
	return Rule{
		Name: name,
		Match: func(n *html.Node) bool {
			return slices.Contains(tags, strings.ToLower(n.Data))
		},
		Render: render,
	}
}

// builtinRules returns the default rules in evaluation order.
func builtinRules(cfg Config) []Rule {
	return []Rule{
		underlineRule(cfg.UnderlineStyle),
		formulaRule(cfg.FormulaClass, cfg.BlockKeywords),
		pendingImageRule(cfg.UploadIDAttr),
		imageRule(cfg.UploadIDAttr),
	}
}

// mergeRules places caller rules before the built-ins. Built-ins whose name
// is taken by a caller rule are dropped.
func mergeRules(custom, builtin []Rule) []Rule {
	names := make(map[string]struct{}, len(custom))
	out := make([]Rule, 0, len(custom)+len(builtin))
	for _, r := range custom {
		names[r.Name] = struct{}{}
		out = append(out, r)
	}
	for _, r := range builtin {
		if _, taken := names[r.Name]; taken {
			continue
		}
		out = append(out, r)
	}
	return out
}

func underlineRule(style UnderlineStyle) Rule {
	return TagRule(RuleUnderline, func(content string, _ *html.Node) string {
		switch style {
		case UnderlineIgnore:
			return content
		case UnderlineHTML:
			return "<u>" + content + "</u>"
		}
		return wrapDelimited(content, "_")
	}, "u")
}

// wrapDelimited wraps content in delim, keeping surrounding whitespace
// outside the delimiters so the emphasis stays valid Markdown.
func wrapDelimited(content, delim string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return content
	}
	start := strings.Index(content, trimmed)
	leading := content[:start]
	trailing := content[start+len(trimmed):]
	return leading + delim + trimmed + delim + trailing
}

func formulaRule(class string, keywords []string) Rule {
	return Rule{
		Name: RuleFormula,
		Match: func(n *html.Node) bool {
			return strings.EqualFold(n.Data, "span") && dom.HasClass(n, class)
		},
		Render: func(_ string, n *html.Node) string {
			latex := formulaValue(n)
			if latex == "" {
				return ""
			}
			if document.ClassifyFormula(latex, keywords) == document.FormulaBlock {
				return "\n$$\n" + latex + "\n$$\n"
			}
			return "$" + latex + "$"
		},
	}
}

func formulaValue(n *html.Node) string {
	return strings.TrimSpace(dom.GetAttributeOr(n, "data-value", ""))
}

// pendingImageRule matches images carrying the upload attribute, even when it
// is empty.
func pendingImageRule(attr string) Rule {
	return Rule{
		Name: RulePendingImage,
		Match: func(n *html.Node) bool {
			return strings.EqualFold(n.Data, "img") && hasAttribute(n, attr)
		},
		Render: func(_ string, n *html.Node) string {
			return "![](" + imageDestination(uploadID(n, attr)) + ")"
		},
	}
}

func imageRule(attr string) Rule {
	return Rule{
		Name: RuleImage,
		Match: func(n *html.Node) bool {
			return strings.EqualFold(n.Data, "img") && !hasAttribute(n, attr)
		},
		Render: func(_ string, n *html.Node) string {
			alt := dom.GetAttributeOr(n, "alt", "")
			src := strings.TrimSpace(dom.GetAttributeOr(n, "src", ""))
			return "![" + altEscaper.Replace(alt) + "](" + imageDestination(src) + ")"
		},
	}
}

var (
	altEscaper         = strings.NewReplacer(`\`, `\\`, "[", `\[`, "]", `\]`, "\n", " ")
	destinationEscaper = strings.NewReplacer("<", "%3C", ">", "%3E", "\n", "%0A")
)

// imageDestination wraps targets that would end a bare link destination
// early in angle brackets.
func imageDestination(src string) string {
	if !strings.ContainsAny(src, " \t\n()<>") {
		return src
	}
	return "<" + destinationEscaper.Replace(src) + ">"
}

func hasAttribute(n *html.Node, key string) bool {
	_, ok := dom.GetAttribute(n, key)
	return ok
}

func uploadID(n *html.Node, attr string) string {
	return strings.TrimSpace(dom.GetAttributeOr(n, attr, ""))
}
