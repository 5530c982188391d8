package document

import (
	"regexp"
	"strings"
)

var (
	blockMathRe = regexp.MustCompile(`(?s)\$\$(.+?)\$\$`)
	imageRe     = regexp.MustCompile(`!\[((?:\\.|[^\]\\])*)\]\((<[^<>\n]*>|[^)\s]+)\)`)

	altUnescaper = strings.NewReplacer(`\\`, `\`, `\[`, "[", `\]`, "]")
)

// Parse splits markdown into segments.
//
// Block math ($$...$$, possibly spanning lines) is extracted first. Image
// references are then extracted from the remaining text, and single-dollar
// inline math is scanned last, only in text that is neither block math nor an
// image. Text between matches is kept verbatim, line breaks included.
func Parse(markdown string) Document {
	var segments []Segment
	for _, seg := range splitBlockMath(markdown) {
		if seg.Kind != KindText {
			segments = append(segments, seg)
			continue
		}
		for _, inner := range splitImages(seg.Raw) {
			if inner.Kind != KindText {
				segments = append(segments, inner)
				continue
			}
			segments = append(segments, splitInlineMath(inner.Raw)...)
		}
	}
	return Document{Segments: segments}
}

// SplitMath splits markdown into text and math segments only; image
// references stay inside text segments.
func SplitMath(markdown string) Document {
	var segments []Segment
	for _, seg := range splitBlockMath(markdown) {
		if seg.Kind != KindText {
			segments = append(segments, seg)
			continue
		}
		segments = append(segments, splitInlineMath(seg.Raw)...)
	}
	return Document{Segments: segments}
}

func splitBlockMath(s string) []Segment {
	var out []Segment
	last := 0
	for _, loc := range blockMathRe.FindAllStringSubmatchIndex(s, -1) {
		out = appendText(out, s[last:loc[0]])
		out = append(out, Segment{
			Kind: KindBlockMath,
			Raw:  s[loc[0]:loc[1]],
			Math: strings.TrimSpace(s[loc[2]:loc[3]]),
		})
		last = loc[1]
	}
	return appendText(out, s[last:])
}

func splitImages(s string) []Segment {
	var out []Segment
	last := 0
	for _, loc := range imageRe.FindAllStringSubmatchIndex(s, -1) {
		out = appendText(out, s[last:loc[0]])
		target := s[loc[4]:loc[5]]
		if strings.HasPrefix(target, "<") {
			target = target[1 : len(target)-1]
		}
		seg := Image(altUnescaper.Replace(s[loc[2]:loc[3]]), target)
		seg.Raw = s[loc[0]:loc[1]]
		out = append(out, seg)
		last = loc[1]
	}
	return appendText(out, s[last:])
}

func splitInlineMath(s string) []Segment {
	var out []Segment
	start := 0
	for i := 0; i < len(s); {
		switch s[i] {
		case '\\':
			i += 2
			continue
		case '$':
		default:
			i++
			continue
		}

		// A leftover "$$" here is an unclosed block delimiter, not inline math.
		if i+1 < len(s) && s[i+1] == '$' {
			i += 2
			continue
		}

		end := closingDollar(s, i+1)
		if end < 0 || strings.TrimSpace(s[i+1:end]) == "" {
			i++
			continue
		}

		out = appendText(out, s[start:i])
		out = append(out, Segment{
			Kind: KindInlineMath,
			Raw:  s[i : end+1],
			Math: strings.TrimSpace(s[i+1 : end]),
		})
		i = end + 1
		start = i
	}
	return appendText(out, s[start:])
}

// closingDollar finds the next unescaped '$' on the same line.
func closingDollar(s string, from int) int {
	for j := from; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '\n':
			return -1
		case '$':
			return j
		}
	}
	return -1
}

func appendText(out []Segment, text string) []Segment {
	if text == "" {
		return out
	}
	return append(out, Text(text))
}
