package factcheck

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Status is the verdict on a single claim.
type Status string

const (
	StatusTrue    Status = "TRUE"
	StatusFalse   Status = "FALSE"
	StatusUnknown Status = "UNKNOWN"
)

// Confidence grades how sure the model was about a verdict.
type Confidence string

const (
	ConfidenceHigh    Confidence = "HIGH"
	ConfidenceMedium  Confidence = "MEDIUM"
	ConfidenceLow     Confidence = "LOW"
	ConfidenceUnknown Confidence = "UNKNOWN"
)

// ClaimFinding is one verified claim from the structured analysis.
type ClaimFinding struct {
	Text               string     `json:"text"`
	Timestamp          FlexString `json:"timestamp"`
	VerificationStatus Status     `json:"verification_status"`
	Confidence         Confidence `json:"confidence"`
	Explanation        string     `json:"explanation"`
}

// Summary aggregates verdict counts for a report.
type Summary struct {
	TotalClaims         FlexInt    `json:"total_claims"`
	TrueCount           FlexInt    `json:"true_count"`
	FalseCount          FlexInt    `json:"false_count"`
	UnknownCount        FlexInt    `json:"unknown_count"`
	VideoLengthAnalyzed FlexString `json:"video_length_analyzed"`
}

// Metadata records what was analyzed and when.
type Metadata struct {
	VideoID           string    `json:"video_id"`
	VideoURL          string    `json:"video_url"`
	TranscriptEntries int       `json:"transcript_entries"`
	AnalysisTimestamp time.Time `json:"analysis_timestamp"`
}

// Report is the structured fact-check output.
type Report struct {
	Claims   []ClaimFinding `json:"claims"`
	Summary  Summary        `json:"summary"`
	Metadata *Metadata      `json:"metadata,omitempty"`
}

// FalseClaims returns the findings the model judged false.
func (r *Report) FalseClaims() []ClaimFinding {
	var out []ClaimFinding
	for _, c := range r.Claims {
		if c.VerificationStatus == StatusFalse {
			out = append(out, c)
		}
	}
	return out
}

// FlexInt tolerates models returning counts as numbers or quoted strings.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		// Unparseable counts are not worth failing the whole report over.
		*f = 0
		return nil
	}
	*f = FlexInt(n)
	return nil
}

// FlexString tolerates models returning strings or bare numbers.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(bytes.Trim(b, `"`))
	return nil
}
