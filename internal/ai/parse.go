package ai

import (
	"regexp"
	"strings"

	apperrors "github.com/louisbranch/soloscribe/internal/errors"
)

// ErrUnusableResponse indicates the provider's response did not follow
// the requested format.
var ErrUnusableResponse = apperrors.New(apperrors.CodeAIUnusableResponse, "AI response did not match the requested format")

// ParsedInterpretation is one interpretation block extracted from a
// provider response.
type ParsedInterpretation struct {
	Title       string
	Description string
}

var interpretationBlock = regexp.MustCompile(
	`(?s)--- INTERPRETATION (\d+) ---\s*\nTITLE:\s*(.*?)\nDESCRIPTION:\s*(.*?)\n--- END INTERPRETATION \d+ ---`)

// ParseInterpretations extracts interpretation blocks from a provider
// response. It tolerates surrounding prose but requires at least one
// well-formed block.
func ParseInterpretations(text string) ([]ParsedInterpretation, error) {
	matches := interpretationBlock.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, ErrUnusableResponse
	}

	parsed := make([]ParsedInterpretation, 0, len(matches))
	for _, match := range matches {
		title := strings.TrimSpace(match[2])
		description := strings.TrimSpace(match[3])
		if title == "" && description == "" {
			continue
		}
		parsed = append(parsed, ParsedInterpretation{Title: title, Description: description})
	}
	if len(parsed) == 0 {
		return nil, ErrUnusableResponse
	}
	return parsed, nil
}

// ActCompletion is the parsed result of an act completion response.
type ActCompletion struct {
	Title   string
	Summary string
}

var (
	titleLine = regexp.MustCompile(`(?m)^TITLE:\s*(.+)$`)
	// The summary runs until the next section label or the end of the
	// response, so trailing sections are not swallowed into it.
	summaryLine = regexp.MustCompile(`(?s)SUMMARY:\s*(.*?)(?:\n[A-Z][A-Z ]*:|\z)`)
)

// ParseActCompletion extracts the TITLE and SUMMARY sections from a
// provider response. Either may be absent; at least one must parse.
func ParseActCompletion(text string) (ActCompletion, error) {
	var completion ActCompletion

	if match := titleLine.FindStringSubmatch(text); match != nil {
		completion.Title = strings.TrimSpace(match[1])
	}
	if match := summaryLine.FindStringSubmatch(text); match != nil {
		completion.Summary = strings.TrimSpace(match[1])
	}

	if completion.Title == "" && completion.Summary == "" {
		return ActCompletion{}, ErrUnusableResponse
	}
	return completion, nil
}
