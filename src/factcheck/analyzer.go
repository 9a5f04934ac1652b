package factcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/veritube/ytverifier/src/ai/core"
)

const (
	// Claim extraction works from a short transcript excerpt.
	maxClaimExtractionChars = 4000
	// Structured analysis gets the full timestamped transcript, within reason.
	maxAnalysisChars = 50000

	truncationMarker = "\n\n[Content truncated for analysis]"
)

// Analyzer runs claim extraction and fact-checking against an AI backend.
type Analyzer struct {
	ai   core.Client
	opts core.Options
}

func NewAnalyzer(client core.Client, opts core.Options) *Analyzer {
	return &Analyzer{ai: client, opts: opts}
}

// ExtractClaims identifies the main checkable claims in a transcript and
// returns them as a markdown numbered list.
func (a *Analyzer) ExtractClaims(ctx context.Context, transcript, videoTitle string) (string, error) {
	prompt := fmt.Sprintf(`Analyze this video transcript and extract the main factual claims that can be fact-checked.

Video Title: %s

Transcript: %s

Please:
1. Identify 3-5 key factual claims made in the video
2. Focus on specific, verifiable statements (numbers, dates, scientific facts, historical events)
3. Ignore opinions, predictions, or subjective statements
4. Format as a numbered list

Example format:
1. [Specific factual claim from the video]
2. [Another factual claim]`, videoTitle, truncate(transcript, maxClaimExtractionChars))

	out, err := a.ai.Generate(ctx, prompt, a.opts)
	if err != nil {
		return "", fmt.Errorf("extract claims: %w", err)
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("extract claims: empty model output")
	}
	return out, nil
}

// FactCheck assesses a numbered claim list and returns per-claim verdicts as
// markdown.
func (a *Analyzer) FactCheck(ctx context.Context, claims string) (string, error) {
	prompt := fmt.Sprintf(`Please fact-check these claims from a YouTube video. For each claim:
1. Assess if it's TRUE, FALSE, or PARTIALLY TRUE/MISLEADING
2. Provide a brief explanation with reasoning
3. If possible, mention reliable sources

Claims to check:
%s

Format your response clearly for each claim with:
- Status: [TRUE/FALSE/PARTIALLY TRUE]
- Explanation: [Brief factual explanation]
- Confidence: [High/Medium/Low]`, claims)

	out, err := a.ai.Generate(ctx, prompt, a.opts)
	if err != nil {
		return "", fmt.Errorf("fact-check claims: %w", err)
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("fact-check claims: empty model output")
	}
	return out, nil
}

// Analyze runs the single-shot structured analysis over a timestamped
// transcript and parses the model's JSON report.
func (a *Analyzer) Analyze(ctx context.Context, timestampedTranscript string) (*Report, error) {
	prompt := fmt.Sprintf(`You are a fact-checking assistant. Your task is to analyze a YouTube video transcript, identify factual claims (excluding opinions), verify them using only your internal knowledge, and provide confidence levels with brief explanations. Follow these steps:

1. Identify factual claims (statements that can be objectively verified as true or false).
2. Exclude opinions, subjective statements, or non-verifiable claims.
3. For each factual claim:
   - Verify its accuracy using your internal knowledge (no external searches).
   - Assign a confidence level:
     - HIGH: You are certain of the accuracy (e.g., well-established fact).
     - MEDIUM: Likely accurate but some uncertainty exists.
     - LOW: Significant uncertainty or contradictory information.
     - UNKNOWN: Insufficient knowledge to verify.
   - Provide a brief explanation (1-2 sentences) for your verification.
4. Return the results in JSON format with the following structure:
   {
     "claims": [
       {
         "text": "The claim text",
         "timestamp": "Start time in seconds (e.g., 10.5)",
         "verification_status": "TRUE/FALSE/UNKNOWN",
         "confidence": "HIGH/MEDIUM/LOW/UNKNOWN",
         "explanation": "Brief explanation of verification"
       }
     ],
     "summary": {
       "total_claims": 0,
       "true_count": 0,
       "false_count": 0,
       "unknown_count": 0,
       "video_length_analyzed": "Length of transcript analyzed in seconds"
     }
   }

Here is the transcript with timestamps:
`+"```"+`
%s
`+"```"+`

Analyze the transcript and return the results in the specified JSON format. Ensure the JSON is valid and properly formatted.`,
		truncate(timestampedTranscript, maxAnalysisChars))

	out, err := a.ai.Generate(ctx, prompt, a.opts)
	if err != nil {
		return nil, fmt.Errorf("analyze transcript: %w", err)
	}

	report, err := decodeReport(out)
	if err != nil {
		logrus.Debugf("factcheck: unparseable model output: %.500s", out)
		return nil, err
	}
	return report, nil
}

// decodeReport parses a Report out of model output, tolerating markdown code
// fences and surrounding prose.
func decodeReport(text string) (*Report, error) {
	cleaned := stripFences(text)

	var report Report
	if err := json.Unmarshal([]byte(cleaned), &report); err == nil {
		return &report, nil
	}

	// The JSON object may be embedded in explanatory text.
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &report); err == nil {
			return &report, nil
		}
	}

	return nil, fmt.Errorf("analyze transcript: model did not return valid JSON")
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Never cut mid-rune.
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + truncationMarker
}
