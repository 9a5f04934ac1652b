package youtube

import (
	"encoding/json"
	"testing"
)

const sampleWatchPage = `<!DOCTYPE html><html><head><title>watch</title>
<script>var other = {"noise": true};</script>
<script>var ytInitialPlayerResponse = {"playabilityStatus":{"status":"OK"},"videoDetails":{"videoId":"dQw4w9WgXcQ","title":"A \"quoted\" title {with braces}"},"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[{"baseUrl":"https://example.com/tt","languageCode":"en"}]}}};var ytcfg = {};</script>
</head><body></body></html>`

func TestExtractPlayerResponseJSON(t *testing.T) {
	payload, err := extractPlayerResponseJSON([]byte(sampleWatchPage))
	if err != nil {
		t.Fatalf("extractPlayerResponseJSON: %v", err)
	}

	var pr playerResponse
	if err := json.Unmarshal(payload, &pr); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if pr.VideoDetails.VideoID != "dQw4w9WgXcQ" {
		t.Fatalf("want video id, got %q", pr.VideoDetails.VideoID)
	}
	if pr.VideoDetails.Title != `A "quoted" title {with braces}` {
		t.Fatalf("braces inside strings mishandled: %q", pr.VideoDetails.Title)
	}
	if len(pr.Captions.Renderer.CaptionTracks) != 1 {
		t.Fatalf("want 1 caption track, got %d", len(pr.Captions.Renderer.CaptionTracks))
	}
}

func TestExtractPlayerResponseJSONMissing(t *testing.T) {
	if _, err := extractPlayerResponseJSON([]byte("<html><script>var x = 1;</script></html>")); err == nil {
		t.Fatal("want error when marker absent")
	}
}

func TestBalancedJSONObject(t *testing.T) {
	if got := balancedJSONObject(`{"a":{"b":"}"},"c":1} trailing`); got != `{"a":{"b":"}"},"c":1}` {
		t.Fatalf("balancedJSONObject = %q", got)
	}
	if got := balancedJSONObject(`{"unterminated":`); got != "" {
		t.Fatalf("want empty for unbalanced input, got %q", got)
	}
}
