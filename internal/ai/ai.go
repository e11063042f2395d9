// Package ai defines the text-generation client interface the oracle
// features depend on, along with prompt builders and response parsers.
// Concrete providers live in subpackages.
package ai

import "context"

// Client generates free-form text from a prompt. Implementations wrap a
// provider API; a nil Client means AI features are unavailable.
type Client interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}
