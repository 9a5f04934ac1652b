package types

import "time"

// Report is a persisted fact-check run for one video.
type Report struct {
	ID               uint64    `gorm:"primaryKey" json:"id"`
	RequestID        string    `gorm:"size:36;index" json:"request_id"`
	VideoID          string    `gorm:"size:16;index;not null" json:"video_id"`
	VideoURL         string    `gorm:"size:512;not null" json:"video_url"`
	Title            string    `gorm:"size:255" json:"video_title"`
	TranscriptLength int       `json:"transcript_length"`
	Claims           string    `gorm:"type:text" json:"claims"`
	FactCheckResults string    `gorm:"type:text" json:"fact_check_results"`
	CreatedAt        time.Time `json:"created_at"`
}

// CheckRequest is the body of POST /api/check-claims.
type CheckRequest struct {
	VideoURL string `json:"video_url" binding:"required"`
}

// CheckResponse is the wire shape both the page and the cache use.
type CheckResponse struct {
	Success          bool   `json:"success"`
	VideoTitle       string `json:"video_title,omitempty"`
	VideoURL         string `json:"video_url,omitempty"`
	TranscriptLength int    `json:"transcript_length,omitempty"`
	Claims           string `json:"claims,omitempty"`
	FactCheckResults string `json:"fact_check_results,omitempty"`
	Error            string `json:"error,omitempty"`
}
