package store

// Message is one entry of a session's chat transcript. Order is
// insertion order and the slice is append-only.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Segment is a time-bounded unit of transcribed speech. Present only
// after a video upload; PDF uploads carry no segments.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Session is the in-memory state for one browser session. It lives for
// the process lifetime; nothing is persisted or expired.
type Session struct {
	ID            string    `json:"id"`
	Messages      []Message `json:"messages"`
	ExtractedText string    `json:"extracted_text"`
	Segments      []Segment `json:"segments,omitempty"`

	// IsProcessing is true exactly while a background job owns the
	// session. At most one job may be in flight per session.
	IsProcessing bool `json:"is_processing"`
}
