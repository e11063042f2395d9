package ai

import (
	"fmt"
	"strings"
)

// InterpretationPromptInput carries the narrative context for an oracle
// interpretation request.
type InterpretationPromptInput struct {
	GameName         string
	GameDescription  string
	SceneTitle       string
	SceneDescription string
	// RecentEvents holds descriptions of the latest scene events,
	// newest first.
	RecentEvents []string
	// Context is the player's question or situation.
	Context string
	// OracleResults is the raw oracle output to interpret.
	OracleResults string
	// Count is how many interpretations to request.
	Count int
	// RetryAttempt is non-zero when the player asked for different
	// interpretations than a previous attempt produced.
	RetryAttempt int
}

// BuildInterpretationPrompt renders the oracle interpretation prompt.
// The response format it demands is the one ParseInterpretations reads.
func BuildInterpretationPrompt(input InterpretationPromptInput) string {
	var b strings.Builder

	b.WriteString("You are interpreting oracle results for a solo tabletop RPG session.\n\n")
	fmt.Fprintf(&b, "Game: %s\n", input.GameName)
	if input.GameDescription != "" {
		fmt.Fprintf(&b, "Game description: %s\n", input.GameDescription)
	}
	fmt.Fprintf(&b, "Current scene: %s\n", input.SceneTitle)
	if input.SceneDescription != "" {
		fmt.Fprintf(&b, "Scene description: %s\n", input.SceneDescription)
	}

	if len(input.RecentEvents) > 0 {
		b.WriteString("\nRecent events, newest first:\n")
		for _, event := range input.RecentEvents {
			fmt.Fprintf(&b, "- %s\n", event)
		}
	}

	fmt.Fprintf(&b, "\nPlayer's question or context: %s\n", input.Context)
	fmt.Fprintf(&b, "Oracle results: %s\n", input.OracleResults)

	if input.RetryAttempt > 0 {
		fmt.Fprintf(&b, "\nThis is retry attempt %d. Offer substantially different interpretations than before.\n", input.RetryAttempt)
	}

	fmt.Fprintf(&b, "\nProvide %d distinct interpretations of these oracle results in this exact format:\n\n", input.Count)
	b.WriteString("--- INTERPRETATION 1 ---\n")
	b.WriteString("TITLE: short title\n")
	b.WriteString("DESCRIPTION: detailed description\n")
	b.WriteString("--- END INTERPRETATION 1 ---\n")

	return b.String()
}

// ActCompletionPromptInput carries the context for AI-assisted act
// completion.
type ActCompletionPromptInput struct {
	GameName   string
	ActSlug    string
	ActTitle   string
	ActSummary string
	// SceneSummaries describes the act's scenes in sequence order,
	// with their events.
	SceneSummaries []string
	// FillTitle and FillSummary say which fields the response should
	// produce.
	FillTitle   bool
	FillSummary bool
}

// BuildActCompletionPrompt renders the act completion prompt. The
// response format it demands is the one ParseActCompletion reads.
func BuildActCompletionPrompt(input ActCompletionPromptInput) string {
	var b strings.Builder

	b.WriteString("You are summarizing a completed act of a solo tabletop RPG session.\n\n")
	fmt.Fprintf(&b, "Game: %s\n", input.GameName)
	fmt.Fprintf(&b, "Act: %s\n", input.ActSlug)
	if input.ActTitle != "" {
		fmt.Fprintf(&b, "Existing title: %s\n", input.ActTitle)
	}
	if input.ActSummary != "" {
		fmt.Fprintf(&b, "Existing summary: %s\n", input.ActSummary)
	}

	if len(input.SceneSummaries) > 0 {
		b.WriteString("\nWhat happened, scene by scene:\n")
		for _, summary := range input.SceneSummaries {
			fmt.Fprintf(&b, "- %s\n", summary)
		}
	}

	b.WriteString("\nRespond in this exact format:\n\n")
	if input.FillTitle {
		b.WriteString("TITLE: evocative act title, at most a few words\n")
	}
	if input.FillSummary {
		b.WriteString("SUMMARY: one or two paragraphs summarizing the act\n")
	}

	return b.String()
}
