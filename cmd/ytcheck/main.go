package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	aicore "github.com/veritube/ytverifier/src/ai/core"
	_ "github.com/veritube/ytverifier/src/ai/providers"
	"github.com/veritube/ytverifier/src/factcheck"
	"github.com/veritube/ytverifier/src/logging"
	"github.com/veritube/ytverifier/src/youtube"
)

var (
	outputFlag    = flag.String("output", "", "Write the JSON report to this file instead of stdout")
	languagesFlag = flag.String("languages", "en,en-US,en-GB", "Preferred transcript languages, comma separated")
	summaryFlag   = flag.Bool("summary", false, "Print a human-readable summary instead of JSON")
	verboseFlag   = flag.Bool("verbose", false, "Enable debug logging")
	providerFlag  = flag.String("provider", "gemini", "AI provider (gemini or openai)")
	modelFlag     = flag.String("model", "", "Override model name")
	timeoutFlag   = flag.Duration("timeout", 5*time.Minute, "Overall timeout")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <youtube-url>\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	logging.Init(*verboseFlag, "")

	videoURL := flag.Arg(0)
	videoID, err := youtube.ExtractVideoID(videoURL)
	if err != nil {
		logrus.Fatalf("invalid YouTube URL: %v", err)
	}
	logrus.Infof("processing video ID: %s", videoID)

	client, err := aicore.NewClient(aicore.FactoryConfig{
		Provider:  *providerFlag,
		Model:     *modelFlag,
		GeminiKey: os.Getenv("GEMINI_API_KEY"),
		OpenAIKey: os.Getenv("OPENAI_API_KEY"),
	})
	if err != nil {
		logrus.Fatalf("ai client: %v", err)
	}
	analyzer := factcheck.NewAnalyzer(client, aicore.Options{})

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	yt := youtube.NewClient(youtube.WithLanguages(splitLanguages(*languagesFlag)))
	video, err := yt.FetchTranscript(ctx, videoID)
	if err != nil {
		logrus.Fatalf("failed to extract transcript: %v", err)
	}
	logrus.Infof("transcript extracted: %d entries", len(video.Segments))

	transcript := youtube.FormatForPrompt(video.Segments, 0)
	logrus.Infof("formatted transcript length: %d characters", len(transcript))

	report, err := analyzer.Analyze(ctx, transcript)
	if err != nil {
		logrus.Fatalf("failed to analyze transcript: %v", err)
	}

	report.Metadata = &factcheck.Metadata{
		VideoID:           videoID,
		VideoURL:          videoURL,
		TranscriptEntries: len(video.Segments),
		AnalysisTimestamp: time.Now(),
	}

	if *outputFlag != "" {
		if err := saveReport(report, *outputFlag); err != nil {
			logrus.Fatalf("saving results: %v", err)
		}
		logrus.Infof("results saved to %s", *outputFlag)
	}

	if *summaryFlag {
		printSummary(video.Title, report)
		return
	}
	if *outputFlag == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	}
}

func splitLanguages(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func saveReport(report *factcheck.Report, path string) error {
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func printSummary(title string, report *factcheck.Report) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("FACT-CHECK SUMMARY")
	fmt.Println(strings.Repeat("=", 50))
	if title != "" {
		fmt.Printf("Video: %s\n", title)
	}
	fmt.Printf("Total claims analyzed: %d\n", report.Summary.TotalClaims)
	fmt.Printf("True claims: %d\n", report.Summary.TrueCount)
	fmt.Printf("False claims: %d\n", report.Summary.FalseCount)
	fmt.Printf("Unknown/Uncertain: %d\n", report.Summary.UnknownCount)
	if report.Summary.VideoLengthAnalyzed != "" {
		fmt.Printf("Video length analyzed: %s seconds\n", report.Summary.VideoLengthAnalyzed)
	}

	falseClaims := report.FalseClaims()
	if len(falseClaims) == 0 {
		return
	}
	fmt.Printf("\nFALSE CLAIMS DETECTED (%d):\n", len(falseClaims))
	for i, claim := range falseClaims {
		fmt.Printf("%d. [%ss] %s\n", i+1, claim.Timestamp, claim.Text)
		fmt.Printf("   Explanation: %s\n\n", claim.Explanation)
	}
}
