// Package providers registers every AI backend via side effects. Import it
// blank wherever core.NewClient is used.
package providers

import (
	_ "github.com/veritube/ytverifier/src/ai/gemini"
	_ "github.com/veritube/ytverifier/src/ai/openai"
)
