// Package derive evaluates declarative derived-state accessors over the
// session graph. Each accessor is a Spec describing a relationship path
// from a root entity plus an optional filter; the same Spec is evaluated
// either against a loaded in-memory graph or lowered to a SQL subquery.
// The two interpreters must agree on every data state.
package derive

// Entity identifies a node type in the session graph.
type Entity string

const (
	EntityGame              Entity = "game"
	EntityAct               Entity = "act"
	EntityScene             Entity = "scene"
	EntityEvent             Entity = "event"
	EntityEventSource       Entity = "event_source"
	EntityDiceRoll          Entity = "dice_roll"
	EntityInterpretationSet Entity = "interpretation_set"
	EntityInterpretation    Entity = "interpretation"
)

// Kind classifies what an accessor answers.
type Kind int

const (
	KindUnspecified Kind = iota
	// KindExistence answers whether any related entity matches.
	KindExistence
	// KindCount answers how many related entities match.
	KindCount
	// KindStatus answers a boolean predicate about the root itself,
	// possibly through a lookup relation.
	KindStatus
	// KindNavigation answers which single related entity to move to.
	KindNavigation
)

// Op is a filter comparison operator.
type Op int

const (
	OpUnspecified Op = iota
	OpEq
	OpNe
	OpNotNull
)

// Condition filters terminal entities by a single field comparison.
// Fields are named by their storage column.
type Condition struct {
	Field string
	Op    Op
	Value any
}

// Hop is one relationship step toward a child or lookup entity. The
// join columns come from the relation registry, keyed by the pair of
// entities, so the same target entity can be reached through different
// foreign keys.
type Hop struct {
	Entity Entity
}

// Selection decides which of several matching entities a navigation
// accessor returns.
type Selection int

const (
	SelectNone Selection = iota
	// SelectFlagFirst returns the first match in relationship order.
	// Duplicate flag matches are tolerated, never an error.
	SelectFlagFirst
	// SelectLatestCreated returns the most recently created match.
	SelectLatestCreated
	// SelectFirstSequence returns the match with the lowest sequence.
	SelectFirstSequence
)

// Spec is one derived accessor: a named question about an entity,
// answered by walking a relationship path and applying a filter.
type Spec struct {
	Name   string
	Root   Entity
	Kind   Kind
	Path   []Hop
	Filter *Condition
	Select Selection
}
