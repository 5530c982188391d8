package converter

import (
	"strings"
	"testing"
)

func FuzzConvertHTML(f *testing.F) {
	seeds := []string{
		"",
		"plain text",
		"<p><u>under</u> <b>bold</b></p>",
		`<p><span class="ql-formula" data-value="\frac{a}{b}"></span></p>`,
		`<p><span class="ql-formula"></span></p>`,
		`<img data-upload-id="upload-img-1">`,
		"<ul><li>a<li>b</ul><table><tr><td>x",
		"<<<>>>",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	conv, err := New(Config{})
	if err != nil {
		f.Fatalf("failed to create converter: %v", err)
	}

	f.Fuzz(func(t *testing.T, input string) {
		res, err := conv.Convert(input)
		if err != nil {
			t.Fatalf("convert returned error: %v", err)
		}
		if res.Markdown != strings.TrimSpace(res.Markdown) {
			t.Fatalf("markdown not trimmed: %q", res.Markdown)
		}
		if got := res.Document.String(); got != res.Markdown {
			t.Fatalf("document does not reproduce markdown: %q != %q", got, res.Markdown)
		}
	})
}
