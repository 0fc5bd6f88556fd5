package transcribe

import (
	"fmt"
	"math"
	"strings"

	"ai-docchat-be/pkg/store"
)

// DefaultContextWindow is how far (in seconds) a segment's start may be
// from the target time and still count as context.
const DefaultContextWindow = 30.0

const noTimestampInfo = "No timestamp information available."

// FindTextAroundTimestamp returns the transcript text around a point in
// time: every segment whose interval contains targetSeconds, or whose
// start lies within windowSeconds of it. Lines keep input segment order
// and are prefixed with the segment start as [HH:MM:SS].
func FindTextAroundTimestamp(segments []store.Segment, targetSeconds, windowSeconds float64) string {
	if len(segments) == 0 {
		return noTimestampInfo
	}

	var lines []string
	for _, segment := range segments {
		contains := segment.Start <= targetSeconds && targetSeconds <= segment.End
		near := math.Abs(segment.Start-targetSeconds) <= windowSeconds
		if contains || near {
			lines = append(lines, fmt.Sprintf("[%s] %s", FormatTimestamp(segment.Start), segment.Text))
		}
	}

	if len(lines) == 0 {
		return fmt.Sprintf("No content found around timestamp %s.", FormatTimestamp(targetSeconds))
	}
	return strings.Join(lines, "\n")
}

// FormatTimestamp converts seconds to HH:MM:SS.
func FormatTimestamp(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
