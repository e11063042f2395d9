package game

import (
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/louisbranch/soloscribe/internal/errors"
)

var (
	// ErrEmptyOracleContext indicates an oracle context is required.
	ErrEmptyOracleContext = apperrors.New(apperrors.CodeOracleContextEmpty, "oracle context is required")
)

// InterpretationSet groups the interpretations produced by one oracle
// consultation. At most one set per scene is current at a time.
type InterpretationSet struct {
	ID      string
	SceneID string
	// Context is the player's question or situation description.
	Context string
	// OracleResults is the raw oracle output being interpreted.
	OracleResults string
	// RetryAttempt counts how many times this consultation was retried.
	RetryAttempt int
	// IsCurrent marks the set an interpretation selection would apply to.
	IsCurrent  bool
	CreatedAt  time.Time
	ModifiedAt time.Time

	// Interpretations holds the loaded child collection in creation order.
	Interpretations []*Interpretation
}

// Interpretation is one possible reading of an oracle result. Selected
// interpretations can be promoted into scene events.
type Interpretation struct {
	ID          string
	SetID       string
	Slug        string
	Title       string
	Description string
	// IsSelected marks the chosen interpretation; at most one per set.
	IsSelected bool
	CreatedAt  time.Time
	ModifiedAt time.Time

	// Events holds events promoted from this interpretation, nil if not
	// loaded.
	Events []*Event
}

// CreateInterpretationSetInput describes an oracle consultation to record.
type CreateInterpretationSetInput struct {
	SceneID       string
	Context       string
	OracleResults string
	RetryAttempt  int
}

// NormalizeCreateInterpretationSetInput trims whitespace and validates
// required fields. Oracle results may be empty; the context may not.
func NormalizeCreateInterpretationSetInput(input CreateInterpretationSetInput) (CreateInterpretationSetInput, error) {
	input.Context = strings.TrimSpace(input.Context)
	input.OracleResults = strings.TrimSpace(input.OracleResults)
	if input.Context == "" {
		return CreateInterpretationSetInput{}, ErrEmptyOracleContext
	}
	return input, nil
}

// CreateInterpretationSet creates a new set with a generated ID and
// timestamps. Sets start current; the caller clears the previous current
// set for the scene.
func CreateInterpretationSet(input CreateInterpretationSetInput, now func() time.Time, idGenerator func() string) (*InterpretationSet, error) {
	input, err := NormalizeCreateInterpretationSetInput(input)
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}

	createdAt := now().UTC()
	return &InterpretationSet{
		ID:            idGenerator(),
		SceneID:       input.SceneID,
		Context:       input.Context,
		OracleResults: input.OracleResults,
		RetryAttempt:  input.RetryAttempt,
		IsCurrent:     true,
		CreatedAt:     createdAt,
		ModifiedAt:    createdAt,
	}, nil
}

// CreateInterpretation creates a single interpretation within a set.
func CreateInterpretation(setID, title, description string, now func() time.Time, idGenerator func() string) *Interpretation {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}

	title = strings.TrimSpace(title)
	slug := Slugify(title)
	if slug == "" {
		slug = "interpretation"
	}
	createdAt := now().UTC()
	return &Interpretation{
		ID:          idGenerator(),
		SetID:       setID,
		Slug:        slug,
		Title:       title,
		Description: strings.TrimSpace(description),
		CreatedAt:   createdAt,
		ModifiedAt:  createdAt,
	}
}
