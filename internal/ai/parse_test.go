package ai

import (
	"errors"
	"strings"
	"testing"
)

func TestParseInterpretations(t *testing.T) {
	response := `Here are your interpretations.

--- INTERPRETATION 1 ---
TITLE: The Hidden Door
DESCRIPTION: Behind the bookshelf a draft reveals a passage.
--- END INTERPRETATION 1 ---

--- INTERPRETATION 2 ---
TITLE: A Warning
DESCRIPTION: The draft carries whispering voices.
They do not want you here.
--- END INTERPRETATION 2 ---
`
	parsed, err := ParseInterpretations(response)
	if err != nil {
		t.Fatalf("ParseInterpretations: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("parsed %d interpretations, want 2", len(parsed))
	}
	if parsed[0].Title != "The Hidden Door" {
		t.Errorf("title = %q", parsed[0].Title)
	}
	if !strings.Contains(parsed[1].Description, "They do not want you here.") {
		t.Errorf("multiline description lost: %q", parsed[1].Description)
	}
}

func TestParseInterpretationsUnusable(t *testing.T) {
	for _, response := range []string{
		"",
		"I cannot help with that.",
		"--- INTERPRETATION 1 ---\nno structure here\n--- END INTERPRETATION 1 ---",
	} {
		if _, err := ParseInterpretations(response); !errors.Is(err, ErrUnusableResponse) {
			t.Errorf("ParseInterpretations(%q) error = %v, want ErrUnusableResponse", response, err)
		}
	}
}

func TestParseActCompletion(t *testing.T) {
	response := `TITLE: The Long Descent
SUMMARY: The party delved deeper than planned.
It cost them dearly.`

	completion, err := ParseActCompletion(response)
	if err != nil {
		t.Fatalf("ParseActCompletion: %v", err)
	}
	if completion.Title != "The Long Descent" {
		t.Errorf("title = %q", completion.Title)
	}
	if !strings.Contains(completion.Summary, "It cost them dearly.") {
		t.Errorf("summary = %q", completion.Summary)
	}
}

func TestParseActCompletionSummaryStopsAtNextSection(t *testing.T) {
	response := `TITLE: The Long Descent
SUMMARY: The party delved deeper than planned.
It cost them dearly.
NOTES: trailing provider chatter that belongs to no field.`

	completion, err := ParseActCompletion(response)
	if err != nil {
		t.Fatalf("ParseActCompletion: %v", err)
	}
	if !strings.Contains(completion.Summary, "It cost them dearly.") {
		t.Errorf("summary = %q, lost its second line", completion.Summary)
	}
	if strings.Contains(completion.Summary, "NOTES:") || strings.Contains(completion.Summary, "chatter") {
		t.Errorf("summary = %q, swallowed the trailing section", completion.Summary)
	}
}

func TestParseActCompletionTitleOnly(t *testing.T) {
	completion, err := ParseActCompletion("TITLE: Alone\n")
	if err != nil {
		t.Fatalf("ParseActCompletion: %v", err)
	}
	if completion.Title != "Alone" || completion.Summary != "" {
		t.Fatalf("completion = %+v", completion)
	}
}

func TestParseActCompletionUnusable(t *testing.T) {
	if _, err := ParseActCompletion("no sections at all"); !errors.Is(err, ErrUnusableResponse) {
		t.Fatalf("error = %v, want ErrUnusableResponse", err)
	}
}

func TestBuildInterpretationPromptFormat(t *testing.T) {
	prompt := BuildInterpretationPrompt(InterpretationPromptInput{
		GameName:      "Delve",
		SceneTitle:    "The Cellar",
		RecentEvents:  []string{"the lantern went out"},
		Context:       "what lurks below",
		OracleResults: "darkness, hunger",
		Count:         3,
		RetryAttempt:  1,
	})
	for _, want := range []string{
		"Game: Delve",
		"Current scene: The Cellar",
		"- the lantern went out",
		"what lurks below",
		"darkness, hunger",
		"Provide 3 distinct interpretations",
		"retry attempt 1",
		"--- INTERPRETATION 1 ---",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

// The prompt's demanded format must be parseable by our own parser.
func TestPromptFormatRoundTrips(t *testing.T) {
	prompt := BuildInterpretationPrompt(InterpretationPromptInput{
		GameName: "G", SceneTitle: "S", Context: "c", OracleResults: "o", Count: 1,
	})
	exampleStart := strings.Index(prompt, "--- INTERPRETATION 1 ---")
	if exampleStart == -1 {
		t.Fatal("prompt has no format example")
	}
	if _, err := ParseInterpretations(prompt[exampleStart:]); err != nil {
		t.Fatalf("the format example itself does not parse: %v", err)
	}
}
