// Package errors provides structured error handling for soloscribe.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeUsage represents a malformed CLI invocation.
	CodeUsage Code = "USAGE"

	// Game errors
	CodeGameNameEmpty Code = "GAME_NAME_EMPTY"
	CodeGameNotFound  Code = "GAME_NOT_FOUND"
	CodeNoActiveGame  Code = "NO_ACTIVE_GAME"

	// Act errors
	CodeActNotFound         Code = "ACT_NOT_FOUND"
	CodeActAlreadyCompleted Code = "ACT_ALREADY_COMPLETED"
	CodeActFieldsAlreadySet Code = "ACT_FIELDS_ALREADY_SET"
	CodeNoActiveAct         Code = "NO_ACTIVE_ACT"

	// Scene errors
	CodeSceneNotFound         Code = "SCENE_NOT_FOUND"
	CodeSceneTitleEmpty       Code = "SCENE_TITLE_EMPTY"
	CodeSceneAlreadyCompleted Code = "SCENE_ALREADY_COMPLETED"
	CodeNoActiveScene         Code = "NO_ACTIVE_SCENE"

	// Event errors
	CodeEventNotFound         Code = "EVENT_NOT_FOUND"
	CodeEventDescriptionEmpty Code = "EVENT_DESCRIPTION_EMPTY"
	CodeEventSourceUnknown    Code = "EVENT_SOURCE_UNKNOWN"

	// Dice errors
	CodeDiceInvalidNotation Code = "DICE_INVALID_NOTATION"

	// Oracle errors
	CodeInterpretationSetNotFound Code = "INTERPRETATION_SET_NOT_FOUND"
	CodeInterpretationNotFound    Code = "INTERPRETATION_NOT_FOUND"
	CodeNoCurrentInterpretation   Code = "NO_CURRENT_INTERPRETATION"
	CodeOracleContextEmpty        Code = "ORACLE_CONTEXT_EMPTY"
	CodeOracleResultsEmpty        Code = "ORACLE_RESULTS_EMPTY"

	// AI provider errors
	CodeAIUnavailable      Code = "AI_UNAVAILABLE"
	CodeAICallFailed       Code = "AI_CALL_FAILED"
	CodeAIUnusableResponse Code = "AI_UNUSABLE_RESPONSE"

	// Invariant errors
	CodeActiveConflict Code = "ACTIVE_CONFLICT"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// Kind groups codes into the failure classes surfaced to callers.
type Kind string

const (
	// KindNotFound covers missing entities and missing active context.
	KindNotFound Kind = "not-found"
	// KindInvalidState covers operations disallowed by lifecycle state.
	KindInvalidState Kind = "invalid-state"
	// KindValidation covers malformed or conflicting input.
	KindValidation Kind = "validation"
	// KindConflict covers violations of the single-active invariant.
	KindConflict Kind = "conflict"
	// KindExternal covers AI provider failures.
	KindExternal Kind = "external"
	// KindInternal covers everything else.
	KindInternal Kind = "internal"
)

// Kind maps a code to its failure class.
func (c Code) Kind() Kind {
	switch c {
	case CodeUsage,
		CodeGameNameEmpty,
		CodeActFieldsAlreadySet,
		CodeSceneTitleEmpty,
		CodeEventDescriptionEmpty,
		CodeEventSourceUnknown,
		CodeDiceInvalidNotation,
		CodeOracleContextEmpty,
		CodeOracleResultsEmpty:
		return KindValidation

	case CodeActAlreadyCompleted,
		CodeSceneAlreadyCompleted:
		return KindInvalidState

	case CodeGameNotFound,
		CodeActNotFound,
		CodeSceneNotFound,
		CodeEventNotFound,
		CodeInterpretationSetNotFound,
		CodeInterpretationNotFound,
		CodeNoCurrentInterpretation,
		CodeNoActiveGame,
		CodeNoActiveAct,
		CodeNoActiveScene,
		CodeNotFound:
		return KindNotFound

	case CodeActiveConflict:
		return KindConflict

	case CodeAIUnavailable,
		CodeAICallFailed,
		CodeAIUnusableResponse:
		return KindExternal

	default:
		return KindInternal
	}
}

// ExitCode maps a failure class to a CLI process exit code.
func (k Kind) ExitCode() int {
	switch k {
	case KindValidation:
		return 2
	case KindNotFound:
		return 3
	case KindInvalidState:
		return 4
	case KindConflict:
		return 5
	case KindExternal:
		return 6
	default:
		return 1
	}
}
