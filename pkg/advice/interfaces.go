// Package advice is the LLM collaborator: it renders profile and KPI values
// into textual metric context and asks a configured model for remediation
// advice. The engine core never depends on it and runs fine without a
// provider configured.
package advice

import "context"

// Client defines the interface for advice generation. Use it for dependency
// injection to enable mocking in tests.
type Client interface {
	// Complete generates a single completion for the prompt.
	Complete(ctx context.Context, systemMessage, prompt string) (string, error)

	// Model returns the configured model name.
	Model() string
}
