package renderer

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	mathjax "github.com/litao91/goldmark-mathjax"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rgonek/quill-md-converter/document"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gmrenderer "github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

type lookupFunc func(token string) (ImageState, string)

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[\w\- ]+$`)).OnElements("span", "div", "pre", "code")
	p.AllowAttrs("data-token").Matching(regexp.MustCompile(`^[\w\-]+$`)).OnElements("span")
	return p
}

func newMarkdown(style string, images *imageRenderer) goldmark.Markdown {
	formatOpts := []chromahtml.Option{chromahtml.WithClasses(true)}
	highlightOpts := []highlighting.Option{}
	if style != "" {
		formatOpts = nil
		highlightOpts = append(highlightOpts, highlighting.WithStyle(style))
	}
	highlightOpts = append(highlightOpts, highlighting.WithFormatOptions(formatOpts...))

	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			mathjax.MathJax,
			highlighting.NewHighlighting(highlightOpts...),
		),
		goldmark.WithRendererOptions(
			gmrenderer.WithNodeRenderers(util.Prioritized(images, 100)),
		),
	)
}

// renderHTML converts source to sanitized HTML. Upload placeholders are drawn
// according to lookup.
func (r *Renderer) renderHTML(source string, lookup lookupFunc) (string, error) {
	md := newMarkdown(r.config.HighlightStyle, &imageRenderer{
		lookup:   lookup,
		loading:  r.config.LoadingText,
		notFound: r.config.NotFoundText,
	})

	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return policy.SanitizeReader(&buf).String(), nil
}

// imageRenderer draws images, substituting resolved URLs for upload tokens.
type imageRenderer struct {
	lookup   lookupFunc
	loading  string
	notFound string
}

func (r *imageRenderer) RegisterFuncs(reg gmrenderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindImage, r.renderImage)
}

func (r *imageRenderer) renderImage(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Image)
	dest := string(n.Destination)
	alt := altText(n, source)

	if document.IsUploadToken(dest) {
		token := document.NormalizeImageTarget(dest)
		state, url := ImageUnrequested, ""
		if r.lookup != nil {
			state, url = r.lookup(token)
		}
		switch state {
		case ImageResolved:
			dest = url
		case ImageNotFound:
			writeMarker(w, "image-not-found", token, r.notFound)
			return ast.WalkSkipChildren, nil
		default:
			writeMarker(w, "image-loading", token, r.loading)
			return ast.WalkSkipChildren, nil
		}
	}

	_, _ = w.WriteString(`<img src="`)
	_, _ = w.Write(util.EscapeHTML(util.URLEscape([]byte(dest), true)))
	_, _ = w.WriteString(`" alt="`)
	_, _ = w.Write(util.EscapeHTML([]byte(alt)))
	_ = w.WriteByte('"')
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		_, _ = w.Write(util.EscapeHTML(n.Title))
		_ = w.WriteByte('"')
	}
	_, _ = w.WriteString(">")
	return ast.WalkSkipChildren, nil
}

func writeMarker(w util.BufWriter, class, token, label string) {
	_, _ = w.WriteString(`<span class="` + class + `" data-token="`)
	_, _ = w.Write(util.EscapeHTML([]byte(token)))
	_, _ = w.WriteString(`">`)
	_, _ = w.Write(util.EscapeHTML([]byte(label)))
	_, _ = w.WriteString(`</span>`)
}

func altText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
