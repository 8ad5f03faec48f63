package entity

import "strings"

// SegmentKind distinguishes literal text from inline pictures
type SegmentKind string

const (
	SegmentText  SegmentKind = "text"
	SegmentImage SegmentKind = "image"
)

// Segment is one run of a message body
type Segment struct {
	Kind SegmentKind `json:"kind"`
	Text string      `json:"text,omitempty"`
	URL  string      `json:"url,omitempty"`
}

const (
	imgOpen  = "[img="
	imgClose = "]"
)

// ParseBody splits a body into text runs and [img=<url>] pictures.
// Unterminated tokens and tokens with an empty url are kept as literal text.
func ParseBody(body string) []Segment {
	segments := make([]Segment, 0, 2)
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			segments = append(segments, Segment{Kind: SegmentText, Text: text.String()})
			text.Reset()
		}
	}

	rest := body
	for len(rest) > 0 {
		start := strings.Index(rest, imgOpen)
		if start < 0 {
			text.WriteString(rest)
			break
		}
		text.WriteString(rest[:start])
		rest = rest[start:]

		end := strings.Index(rest, imgClose)
		if end < 0 {
			text.WriteString(rest)
			break
		}
		url := strings.TrimSpace(rest[len(imgOpen):end])
		if url == "" {
			text.WriteString(rest[:end+len(imgClose)])
			rest = rest[end+len(imgClose):]
			continue
		}
		flush()
		segments = append(segments, Segment{Kind: SegmentImage, URL: url})
		rest = rest[end+len(imgClose):]
	}
	flush()

	return segments
}

// ImageToken renders url as an inline picture token
func ImageToken(url string) string {
	return imgOpen + url + imgClose
}
