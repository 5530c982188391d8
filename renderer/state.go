package renderer

import "github.com/rgonek/quill-md-converter/document"

// ImageState is the resolution state of one upload token.
type ImageState string

const (
	ImageUnrequested ImageState = "unrequested"
	ImageRequested   ImageState = "requested"
	ImageResolved    ImageState = "resolved"
	ImageNotFound    ImageState = "not_found"
)

// Terminal reports whether no further transition can happen within a version.
func (s ImageState) Terminal() bool {
	return s == ImageResolved || s == ImageNotFound
}

// DisplaySegment is a segment annotated with what should be shown for it.
type DisplaySegment struct {
	document.Segment
	State   ImageState `json:"state,omitempty"`
	URL     string     `json:"url,omitempty"`
	Label   string     `json:"label,omitempty"`
	Typeset string     `json:"typeset,omitempty"`
}

// Update describes a token reaching a terminal state.
type Update struct {
	Token   string     `json:"token"`
	State   ImageState `json:"state"`
	URL     string     `json:"url,omitempty"`
	Version uint64     `json:"version"`
}

type entry struct {
	state ImageState
	url   string
}
