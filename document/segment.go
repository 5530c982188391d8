// Package document models Markdown produced from rich-text editor content as
// an ordered sequence of segments: plain text, inline math, block math and
// image references.
package document

import "strings"

// Kind identifies the type of a Segment.
type Kind string

const (
	KindText             Kind = "text"
	KindInlineMath       Kind = "inline_math"
	KindBlockMath        Kind = "block_math"
	KindImage            Kind = "image"
	KindImagePlaceholder Kind = "image_placeholder"
)

// Segment is one contiguous piece of a Markdown document.
//
// Raw always holds the exact source text of the segment, delimiters included,
// so that concatenating the Raw values of a Document reproduces the input.
type Segment struct {
	Kind   Kind   `json:"kind"`
	Raw    string `json:"raw"`
	Math   string `json:"math,omitempty"`
	Alt    string `json:"alt,omitempty"`
	Target string `json:"target,omitempty"`
	Token  string `json:"token,omitempty"`
}

// Text returns a plain text segment.
func Text(s string) Segment {
	return Segment{Kind: KindText, Raw: s}
}

// InlineMath returns an inline math segment delimited by single dollars.
func InlineMath(latex string) Segment {
	return Segment{Kind: KindInlineMath, Raw: "$" + latex + "$", Math: strings.TrimSpace(latex)}
}

// BlockMath returns a block math segment delimited by double dollars.
func BlockMath(latex string) Segment {
	return Segment{Kind: KindBlockMath, Raw: "$$" + latex + "$$", Math: strings.TrimSpace(latex)}
}

// Image returns an image segment. Targets carrying an upload token produce an
// ImagePlaceholder segment instead.
func Image(alt, target string) Segment {
	seg := Segment{
		Kind:   KindImage,
		Raw:    "![" + alt + "](" + target + ")",
		Alt:    alt,
		Target: target,
	}
	if IsUploadToken(target) {
		seg.Kind = KindImagePlaceholder
		seg.Token = NormalizeImageTarget(target)
	}
	return seg
}

// IsMath reports whether the segment holds LaTeX.
func (s Segment) IsMath() bool {
	return s.Kind == KindInlineMath || s.Kind == KindBlockMath
}

// IsImage reports whether the segment is an image reference.
func (s Segment) IsImage() bool {
	return s.Kind == KindImage || s.Kind == KindImagePlaceholder
}

// Document is an ordered sequence of segments.
type Document struct {
	Segments []Segment `json:"segments"`
}

// String reassembles the Markdown source from the segments' raw text.
func (d Document) String() string {
	var sb strings.Builder
	for _, seg := range d.Segments {
		sb.WriteString(seg.Raw)
	}
	return sb.String()
}

// UploadTokens returns the distinct upload tokens referenced by the document,
// in order of first appearance.
func (d Document) UploadTokens() []string {
	var tokens []string
	seen := make(map[string]struct{})
	for _, seg := range d.Segments {
		if seg.Kind != KindImagePlaceholder {
			continue
		}
		if _, ok := seen[seg.Token]; ok {
			continue
		}
		seen[seg.Token] = struct{}{}
		tokens = append(tokens, seg.Token)
	}
	return tokens
}

// Kinds returns the kind of every segment, in order.
func (d Document) Kinds() []Kind {
	kinds := make([]Kind, 0, len(d.Segments))
	for _, seg := range d.Segments {
		kinds = append(kinds, seg.Kind)
	}
	return kinds
}

// Math returns the math segments of the document, in order.
func (d Document) Math() []Segment {
	var out []Segment
	for _, seg := range d.Segments {
		if seg.IsMath() {
			out = append(out, seg)
		}
	}
	return out
}
