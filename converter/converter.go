// Package converter turns rich-text editor HTML into canonical Markdown.
//
// Conversion runs on html-to-markdown's commonmark plugin. Editor-specific
// elements (underline, formula spans, pending and resolved images) are handled
// by an ordered list of rules consulted before the generic conversion.
package converter

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	htmd "github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/rgonek/quill-md-converter/document"
	"golang.org/x/net/html"
)

// Converter converts editor HTML to Markdown.
type Converter struct {
	config Config
	rules  []Rule
	engine *htmd.Converter
}

// ConvertOptions carries optional per-conversion settings.
type ConvertOptions struct {
	// Domain is used to turn relative link targets into absolute URLs.
	Domain string
}

type warningsKey struct{}

// warningSink collects warnings for a single conversion call.
type warningSink struct {
	warnings []Warning
}

func (s *warningSink) add(w Warning) {
	s.warnings = append(s.warnings, w)
}

// New creates a new Converter with the given config.
func New(cfg Config) (*Converter, error) {
	cfg = cfg.applyDefaults().clone()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Converter{
		config: cfg,
		rules:  mergeRules(cfg.Rules, builtinRules(cfg)),
	}

	headingStyle := commonmark.HeadingStyleATX
	if cfg.HeadingStyle == HeadingSetext {
		headingStyle = commonmark.HeadingStyleSetext
	}

	c.engine = htmd.NewConverter(
		htmd.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithEmDelimiter(cfg.EmDelimiter),
				commonmark.WithStrongDelimiter(cfg.StrongDelimiter),
				commonmark.WithBulletListMarker(string(cfg.BulletMarker)),
				commonmark.WithHeadingStyle(headingStyle),
				commonmark.WithCodeBlockFence(cfg.CodeBlockFence),
			),
		),
	)
	// Runs before the base plugin collapses whitespace.
	c.engine.Register.PreRenderer(c.fillFormulaSpans, htmd.PriorityStandard)
	c.engine.Register.Renderer(c.renderRule, htmd.PriorityEarly)

	return c, nil
}

// Config returns a copy of the converter's effective configuration.
func (c *Converter) Config() Config {
	return c.config.clone()
}

// Convert converts editor HTML to Markdown.
func (c *Converter) Convert(input string) (Result, error) {
	return c.ConvertWithContext(context.Background(), input, ConvertOptions{})
}

// ConvertWithContext converts editor HTML to Markdown. The only error it
// returns is the context's error; malformed input degrades to plain text with
// a warning instead.
func (c *Converter) ConvertWithContext(ctx context.Context, input string, opts ConvertOptions) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	sink := &warningSink{}
	markdown, err := c.convert(context.WithValue(ctx, warningsKey{}, sink), input, opts)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, ctxErr
	}
	if err != nil {
		markdown = fallbackText(input)
		sink.add(Warning{
			Type:    WarningFallbackText,
			Message: fmt.Sprintf("markdown conversion failed, emitted plain text: %v", err),
		})
	}

	markdown = strings.TrimSpace(markdown)
	return Result{
		Markdown: markdown,
		Document: document.Parse(markdown),
		Warnings: sink.warnings,
	}, nil
}

func (c *Converter) convert(ctx context.Context, input string, opts ConvertOptions) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during conversion: %v", r)
		}
	}()

	convertOpts := []htmd.ConvertOptionFunc{htmd.WithContext(ctx)}
	if opts.Domain != "" {
		convertOpts = append(convertOpts, htmd.WithDomain(opts.Domain))
	}
	return c.engine.ConvertString(input, convertOpts...)
}

// formulaPlaceholder replaces the children of formula spans. Formula spans are
// usually empty, and whitespace collapsing would otherwise drop the spaces
// around them. The placeholder is never rendered.
const formulaPlaceholder = "f"

func (c *Converter) fillFormulaSpans(_ htmd.Context, doc *html.Node) {
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if rule, ok := c.match(n); ok && rule.Name == RuleFormula {
				for n.FirstChild != nil {
					n.RemoveChild(n.FirstChild)
				}
				n.AppendChild(&html.Node{Type: html.TextNode, Data: formulaPlaceholder})
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
}

// renderRule dispatches element nodes to the first matching rule.
func (c *Converter) renderRule(ctx htmd.Context, w htmd.Writer, n *html.Node) htmd.RenderStatus {
	if n.Type != html.ElementNode {
		return htmd.RenderTryNext
	}
	rule, ok := c.match(n)
	if !ok {
		return htmd.RenderTryNext
	}

	var buf bytes.Buffer
	if rule.Name != RuleFormula {
		ctx.RenderChildNodes(ctx, &buf, n)
	}
	out := rule.Render(buf.String(), n)

	if rule.Name == RuleFormula && formulaValue(n) == "" {
		if sink, ok := ctx.Value(warningsKey{}).(*warningSink); ok {
			sink.add(Warning{
				Type:     WarningMissingAttribute,
				NodeType: strings.ToLower(n.Data),
				Message:  "formula has no data-value; emitted nothing",
			})
		}
	}

	_, _ = w.WriteString(out)
	return htmd.RenderSuccess
}

func (c *Converter) match(n *html.Node) (Rule, bool) {
	for _, rule := range c.rules {
		if rule.Match(n) {
			return rule, true
		}
	}
	return Rule{}, false
}

// ConvertString converts HTML to Markdown using the default configuration
// plus the given rules. Invalid rules are ignored.
func ConvertString(input string, rules ...Rule) string {
	valid := make([]Rule, 0, len(rules))
	seen := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		if r.Name == "" || r.Match == nil || r.Render == nil {
			continue
		}
		if _, dup := seen[r.Name]; dup {
			continue
		}
		seen[r.Name] = struct{}{}
		valid = append(valid, r)
	}

	c, err := New(Config{Rules: valid})
	if err != nil {
		return strings.TrimSpace(fallbackText(input))
	}
	res, _ := c.Convert(input)
	return res.Markdown
}
