// Package dice parses standard dice notation and rolls it.
package dice

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/soloscribe/internal/errors"
)

// ErrInvalidNotation indicates the dice notation could not be parsed or
// has out-of-range values.
var ErrInvalidNotation = apperrors.New(apperrors.CodeDiceInvalidNotation, "invalid dice notation")

// notationPattern matches XdY with an optional +Z or -Z modifier.
var notationPattern = regexp.MustCompile(`^(\d+)d(\d+)([+-]\d+)?$`)

// Notation is a parsed dice expression such as 2d6+1.
type Notation struct {
	Count    int
	Sides    int
	Modifier int
}

// Parse parses dice notation of the form XdY, XdY+Z, or XdY-Z. The count
// must be at least 1 and the sides at least 2.
func Parse(notation string) (Notation, error) {
	trimmed := strings.TrimSpace(notation)
	match := notationPattern.FindStringSubmatch(trimmed)
	if match == nil {
		return Notation{}, apperrors.WithMetadata(
			apperrors.CodeDiceInvalidNotation,
			fmt.Sprintf("invalid dice notation %q, expected XdY or XdY+Z", notation),
			map[string]string{"Notation": notation},
		)
	}

	count, err := strconv.Atoi(match[1])
	if err != nil || count < 1 {
		return Notation{}, apperrors.WithMetadata(
			apperrors.CodeDiceInvalidNotation,
			fmt.Sprintf("invalid dice notation %q, count must be at least 1", notation),
			map[string]string{"Notation": notation},
		)
	}

	sides, err := strconv.Atoi(match[2])
	if err != nil || sides < 2 {
		return Notation{}, apperrors.WithMetadata(
			apperrors.CodeDiceInvalidNotation,
			fmt.Sprintf("invalid dice notation %q, sides must be at least 2", notation),
			map[string]string{"Notation": notation},
		)
	}

	modifier := 0
	if match[3] != "" {
		// The sign is part of the capture, so Atoi handles both +Z and -Z.
		modifier, err = strconv.Atoi(match[3])
		if err != nil {
			return Notation{}, ErrInvalidNotation
		}
	}

	return Notation{Count: count, Sides: sides, Modifier: modifier}, nil
}

// String renders the notation back into its canonical text form.
func (n Notation) String() string {
	switch {
	case n.Modifier > 0:
		return fmt.Sprintf("%dd%d+%d", n.Count, n.Sides, n.Modifier)
	case n.Modifier < 0:
		return fmt.Sprintf("%dd%d%d", n.Count, n.Sides, n.Modifier)
	default:
		return fmt.Sprintf("%dd%d", n.Count, n.Sides)
	}
}

// RollRequest describes a request to roll dice notation.
type RollRequest struct {
	Notation string
	Seed     int64
}

// RollResult captures a resolved roll.
type RollResult struct {
	Notation Notation
	// Results holds each individual die result, before the modifier.
	Results  []int
	Modifier int
	// Total is the sum of Results plus the modifier.
	Total int
}

// Roll parses and rolls dice notation.
//
// Roll is deterministic with respect to the Seed field: the same Seed and
// the same notation always produce the same RollResult. Results appear in
// roll order and the Total is their sum plus the modifier.
func Roll(request RollRequest) (RollResult, error) {
	notation, err := Parse(request.Notation)
	if err != nil {
		return RollResult{}, err
	}

	rng := rand.New(rand.NewSource(request.Seed))
	results := make([]int, notation.Count)
	total := notation.Modifier
	for i := range results {
		value := rng.Intn(notation.Sides) + 1
		results[i] = value
		total += value
	}

	return RollResult{
		Notation: notation,
		Results:  results,
		Modifier: notation.Modifier,
		Total:    total,
	}, nil
}
