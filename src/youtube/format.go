package youtube

import (
	"fmt"
	"strings"
)

// DefaultMaxPromptChars caps the timestamped transcript handed to the model.
const DefaultMaxPromptChars = 50000

// FormatForPrompt renders segments as timestamped lines for analysis,
// truncating once maxChars is reached and marking where it stopped.
func FormatForPrompt(segments []Segment, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxPromptChars
	}

	var sb strings.Builder
	for _, seg := range segments {
		line := fmt.Sprintf("[%.1fs]: %s\n", seg.Start, seg.Text)
		if sb.Len()+len(line) > maxChars {
			sb.WriteString(fmt.Sprintf("\n[TRANSCRIPT TRUNCATED AT %.1fs DUE TO LENGTH LIMIT]\n", seg.Start))
			break
		}
		sb.WriteString(line)
	}
	return sb.String()
}
