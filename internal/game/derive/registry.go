package derive

import (
	"time"

	"github.com/louisbranch/soloscribe/internal/game"
)

// entityInfo carries the per-entity metadata both interpreters share:
// the storage table, the relationship ordering columns, and typed field
// accessors for the loaded graph. Data, not reflection.
type entityInfo struct {
	table string
	// orderBy defines relationship order: the order children are loaded
	// in and the order FlagFirst selection scans in.
	orderBy   []string
	fields    map[string]func(any) (any, bool)
	createdAt func(any) (time.Time, bool)
	sequence  func(any) (int, bool)
	id        func(any) (string, bool)
}

// relation is one edge of the session graph. The SQL join condition is
// childTable.joinColumn = parentTable.parentColumn; parentColumn is "id"
// for ordinary child collections and a parent-side FK for lookups.
type relation struct {
	joinColumn   string
	parentColumn string
	children     func(any) []any
}

type relKey struct {
	from Entity
	to   Entity
}

var entities = map[Entity]entityInfo{
	EntityGame: {
		table:   "games",
		orderBy: []string{"created_at", "id"},
		fields: map[string]func(any) (any, bool){
			"is_active": func(node any) (any, bool) {
				g, ok := node.(*game.Game)
				if !ok {
					return nil, false
				}
				return g.IsActive, true
			},
		},
		createdAt: func(node any) (time.Time, bool) {
			g, ok := node.(*game.Game)
			if !ok {
				return time.Time{}, false
			}
			return g.CreatedAt, true
		},
		id: func(node any) (string, bool) {
			g, ok := node.(*game.Game)
			if !ok {
				return "", false
			}
			return g.ID, true
		},
	},
	EntityAct: {
		table:   "acts",
		orderBy: []string{"sequence"},
		fields: map[string]func(any) (any, bool){
			"is_active": func(node any) (any, bool) {
				a, ok := node.(*game.Act)
				if !ok {
					return nil, false
				}
				return a.IsActive, true
			},
			"status": func(node any) (any, bool) {
				a, ok := node.(*game.Act)
				if !ok {
					return nil, false
				}
				return game.StatusLabel(a.Status), true
			},
		},
		createdAt: func(node any) (time.Time, bool) {
			a, ok := node.(*game.Act)
			if !ok {
				return time.Time{}, false
			}
			return a.CreatedAt, true
		},
		sequence: func(node any) (int, bool) {
			a, ok := node.(*game.Act)
			if !ok {
				return 0, false
			}
			return a.Sequence, true
		},
		id: func(node any) (string, bool) {
			a, ok := node.(*game.Act)
			if !ok {
				return "", false
			}
			return a.ID, true
		},
	},
	EntityScene: {
		table:   "scenes",
		orderBy: []string{"sequence"},
		fields: map[string]func(any) (any, bool){
			"is_active": func(node any) (any, bool) {
				s, ok := node.(*game.Scene)
				if !ok {
					return nil, false
				}
				return s.IsActive, true
			},
			"status": func(node any) (any, bool) {
				s, ok := node.(*game.Scene)
				if !ok {
					return nil, false
				}
				return game.StatusLabel(s.Status), true
			},
		},
		createdAt: func(node any) (time.Time, bool) {
			s, ok := node.(*game.Scene)
			if !ok {
				return time.Time{}, false
			}
			return s.CreatedAt, true
		},
		sequence: func(node any) (int, bool) {
			s, ok := node.(*game.Scene)
			if !ok {
				return 0, false
			}
			return s.Sequence, true
		},
		id: func(node any) (string, bool) {
			s, ok := node.(*game.Scene)
			if !ok {
				return "", false
			}
			return s.ID, true
		},
	},
	EntityEvent: {
		table:   "events",
		orderBy: []string{"created_at", "id"},
		fields: map[string]func(any) (any, bool){
			"interpretation_id": func(node any) (any, bool) {
				e, ok := node.(*game.Event)
				if !ok {
					return nil, false
				}
				return e.InterpretationID, true
			},
		},
		createdAt: func(node any) (time.Time, bool) {
			e, ok := node.(*game.Event)
			if !ok {
				return time.Time{}, false
			}
			return e.CreatedAt, true
		},
		id: func(node any) (string, bool) {
			e, ok := node.(*game.Event)
			if !ok {
				return "", false
			}
			return e.ID, true
		},
	},
	EntityEventSource: {
		table:   "event_sources",
		orderBy: []string{"id"},
		fields: map[string]func(any) (any, bool){
			"name": func(node any) (any, bool) {
				s, ok := node.(*game.EventSource)
				if !ok {
					return nil, false
				}
				return s.Name, true
			},
		},
		createdAt: func(any) (time.Time, bool) { return time.Time{}, false },
		id:        func(any) (string, bool) { return "", false },
	},
	EntityDiceRoll: {
		table:   "dice_rolls",
		orderBy: []string{"created_at", "id"},
		fields:  map[string]func(any) (any, bool){},
		createdAt: func(node any) (time.Time, bool) {
			r, ok := node.(*game.DiceRoll)
			if !ok {
				return time.Time{}, false
			}
			return r.CreatedAt, true
		},
		id: func(node any) (string, bool) {
			r, ok := node.(*game.DiceRoll)
			if !ok {
				return "", false
			}
			return r.ID, true
		},
	},
	EntityInterpretationSet: {
		table:   "interpretation_sets",
		orderBy: []string{"created_at", "id"},
		fields: map[string]func(any) (any, bool){
			"is_current": func(node any) (any, bool) {
				s, ok := node.(*game.InterpretationSet)
				if !ok {
					return nil, false
				}
				return s.IsCurrent, true
			},
		},
		createdAt: func(node any) (time.Time, bool) {
			s, ok := node.(*game.InterpretationSet)
			if !ok {
				return time.Time{}, false
			}
			return s.CreatedAt, true
		},
		id: func(node any) (string, bool) {
			s, ok := node.(*game.InterpretationSet)
			if !ok {
				return "", false
			}
			return s.ID, true
		},
	},
	EntityInterpretation: {
		table:   "interpretations",
		orderBy: []string{"created_at", "id"},
		fields: map[string]func(any) (any, bool){
			"is_selected": func(node any) (any, bool) {
				i, ok := node.(*game.Interpretation)
				if !ok {
					return nil, false
				}
				return i.IsSelected, true
			},
		},
		createdAt: func(node any) (time.Time, bool) {
			i, ok := node.(*game.Interpretation)
			if !ok {
				return time.Time{}, false
			}
			return i.CreatedAt, true
		},
		id: func(node any) (string, bool) {
			i, ok := node.(*game.Interpretation)
			if !ok {
				return "", false
			}
			return i.ID, true
		},
	},
}

var relations = map[relKey]relation{
	{EntityGame, EntityAct}: {
		joinColumn:   "game_id",
		parentColumn: "id",
		children: func(node any) []any {
			g, ok := node.(*game.Game)
			if !ok {
				return nil
			}
			out := make([]any, 0, len(g.Acts))
			for _, a := range g.Acts {
				out = append(out, a)
			}
			return out
		},
	},
	{EntityAct, EntityScene}: {
		joinColumn:   "act_id",
		parentColumn: "id",
		children: func(node any) []any {
			a, ok := node.(*game.Act)
			if !ok {
				return nil
			}
			out := make([]any, 0, len(a.Scenes))
			for _, s := range a.Scenes {
				out = append(out, s)
			}
			return out
		},
	},
	{EntityScene, EntityEvent}: {
		joinColumn:   "scene_id",
		parentColumn: "id",
		children: func(node any) []any {
			s, ok := node.(*game.Scene)
			if !ok {
				return nil
			}
			out := make([]any, 0, len(s.Events))
			for _, e := range s.Events {
				out = append(out, e)
			}
			return out
		},
	},
	{EntityScene, EntityDiceRoll}: {
		joinColumn:   "scene_id",
		parentColumn: "id",
		children: func(node any) []any {
			s, ok := node.(*game.Scene)
			if !ok {
				return nil
			}
			out := make([]any, 0, len(s.DiceRolls))
			for _, r := range s.DiceRolls {
				out = append(out, r)
			}
			return out
		},
	},
	{EntityScene, EntityInterpretationSet}: {
		joinColumn:   "scene_id",
		parentColumn: "id",
		children: func(node any) []any {
			s, ok := node.(*game.Scene)
			if !ok {
				return nil
			}
			out := make([]any, 0, len(s.InterpretationSets))
			for _, set := range s.InterpretationSets {
				out = append(out, set)
			}
			return out
		},
	},
	{EntityInterpretationSet, EntityInterpretation}: {
		joinColumn:   "set_id",
		parentColumn: "id",
		children: func(node any) []any {
			set, ok := node.(*game.InterpretationSet)
			if !ok {
				return nil
			}
			out := make([]any, 0, len(set.Interpretations))
			for _, i := range set.Interpretations {
				out = append(out, i)
			}
			return out
		},
	},
	{EntityInterpretation, EntityEvent}: {
		joinColumn:   "interpretation_id",
		parentColumn: "id",
		children: func(node any) []any {
			i, ok := node.(*game.Interpretation)
			if !ok {
				return nil
			}
			out := make([]any, 0, len(i.Events))
			for _, e := range i.Events {
				out = append(out, e)
			}
			return out
		},
	},
	// Lookup edge: the FK lives on the parent row.
	{EntityEvent, EntityEventSource}: {
		joinColumn:   "id",
		parentColumn: "source_id",
		children: func(node any) []any {
			e, ok := node.(*game.Event)
			if !ok || e.Source == nil {
				return nil
			}
			return []any{e.Source}
		},
	},
}

func filterEq(field string, value any) *Condition {
	return &Condition{Field: field, Op: OpEq, Value: value}
}

var statusCompleted = game.StatusLabel(game.StatusCompleted)

// catalogue is the full set of derived accessors, grouped by root entity.
var catalogue = []Spec{
	// Game accessors.
	{Name: "HasActs", Root: EntityGame, Kind: KindExistence, Path: []Hop{{EntityAct}}},
	{Name: "ActCount", Root: EntityGame, Kind: KindCount, Path: []Hop{{EntityAct}}},
	{Name: "SceneCount", Root: EntityGame, Kind: KindCount, Path: []Hop{{EntityAct}, {EntityScene}}},
	{Name: "EventCount", Root: EntityGame, Kind: KindCount, Path: []Hop{{EntityAct}, {EntityScene}, {EntityEvent}}},
	{Name: "HasActiveAct", Root: EntityGame, Kind: KindExistence, Path: []Hop{{EntityAct}}, Filter: filterEq("is_active", true)},
	{Name: "HasActiveScene", Root: EntityGame, Kind: KindExistence, Path: []Hop{{EntityAct}, {EntityScene}}, Filter: filterEq("is_active", true)},
	{Name: "HasCompletedActs", Root: EntityGame, Kind: KindExistence, Path: []Hop{{EntityAct}}, Filter: filterEq("status", statusCompleted)},
	{Name: "ActiveAct", Root: EntityGame, Kind: KindNavigation, Path: []Hop{{EntityAct}}, Filter: filterEq("is_active", true), Select: SelectFlagFirst},
	{Name: "ActiveScene", Root: EntityGame, Kind: KindNavigation, Path: []Hop{{EntityAct}, {EntityScene}}, Filter: filterEq("is_active", true), Select: SelectFlagFirst},
	{Name: "LatestAct", Root: EntityGame, Kind: KindNavigation, Path: []Hop{{EntityAct}}, Select: SelectLatestCreated},

	// Act accessors.
	{Name: "HasScenes", Root: EntityAct, Kind: KindExistence, Path: []Hop{{EntityScene}}},
	{Name: "SceneCount", Root: EntityAct, Kind: KindCount, Path: []Hop{{EntityScene}}},
	{Name: "CompletedSceneCount", Root: EntityAct, Kind: KindCount, Path: []Hop{{EntityScene}}, Filter: filterEq("status", statusCompleted)},
	{Name: "EventCount", Root: EntityAct, Kind: KindCount, Path: []Hop{{EntityScene}, {EntityEvent}}},
	{Name: "DiceRollCount", Root: EntityAct, Kind: KindCount, Path: []Hop{{EntityScene}, {EntityDiceRoll}}},
	{Name: "InterpretationCount", Root: EntityAct, Kind: KindCount, Path: []Hop{{EntityScene}, {EntityInterpretationSet}, {EntityInterpretation}}},
	{Name: "SelectedInterpretationCount", Root: EntityAct, Kind: KindCount, Path: []Hop{{EntityScene}, {EntityInterpretationSet}, {EntityInterpretation}}, Filter: filterEq("is_selected", true)},
	{Name: "HasEvents", Root: EntityAct, Kind: KindExistence, Path: []Hop{{EntityScene}, {EntityEvent}}},
	{Name: "HasActiveScene", Root: EntityAct, Kind: KindExistence, Path: []Hop{{EntityScene}}, Filter: filterEq("is_active", true)},
	{Name: "ActiveScene", Root: EntityAct, Kind: KindNavigation, Path: []Hop{{EntityScene}}, Filter: filterEq("is_active", true), Select: SelectFlagFirst},
	{Name: "LatestScene", Root: EntityAct, Kind: KindNavigation, Path: []Hop{{EntityScene}}, Select: SelectLatestCreated},
	{Name: "FirstScene", Root: EntityAct, Kind: KindNavigation, Path: []Hop{{EntityScene}}, Select: SelectFirstSequence},
	{Name: "LatestEvent", Root: EntityAct, Kind: KindNavigation, Path: []Hop{{EntityScene}, {EntityEvent}}, Select: SelectLatestCreated},

	// Scene accessors.
	{Name: "HasEvents", Root: EntityScene, Kind: KindExistence, Path: []Hop{{EntityEvent}}},
	{Name: "EventCount", Root: EntityScene, Kind: KindCount, Path: []Hop{{EntityEvent}}},
	{Name: "HasDiceRolls", Root: EntityScene, Kind: KindExistence, Path: []Hop{{EntityDiceRoll}}},
	{Name: "DiceRollCount", Root: EntityScene, Kind: KindCount, Path: []Hop{{EntityDiceRoll}}},
	{Name: "HasInterpretationSets", Root: EntityScene, Kind: KindExistence, Path: []Hop{{EntityInterpretationSet}}},
	{Name: "InterpretationSetCount", Root: EntityScene, Kind: KindCount, Path: []Hop{{EntityInterpretationSet}}},
	{Name: "InterpretationCount", Root: EntityScene, Kind: KindCount, Path: []Hop{{EntityInterpretationSet}, {EntityInterpretation}}},
	{Name: "SelectedInterpretationCount", Root: EntityScene, Kind: KindCount, Path: []Hop{{EntityInterpretationSet}, {EntityInterpretation}}, Filter: filterEq("is_selected", true)},
	{Name: "CurrentInterpretationSet", Root: EntityScene, Kind: KindNavigation, Path: []Hop{{EntityInterpretationSet}}, Filter: filterEq("is_current", true), Select: SelectFlagFirst},
	{Name: "LatestEvent", Root: EntityScene, Kind: KindNavigation, Path: []Hop{{EntityEvent}}, Select: SelectLatestCreated},
	{Name: "LatestDiceRoll", Root: EntityScene, Kind: KindNavigation, Path: []Hop{{EntityDiceRoll}}, Select: SelectLatestCreated},

	// Event accessors.
	{Name: "IsManual", Root: EntityEvent, Kind: KindStatus, Path: []Hop{{EntityEventSource}}, Filter: filterEq("name", game.SourceManual)},
	{Name: "IsOracle", Root: EntityEvent, Kind: KindStatus, Path: []Hop{{EntityEventSource}}, Filter: filterEq("name", game.SourceOracle)},
	{Name: "IsDice", Root: EntityEvent, Kind: KindStatus, Path: []Hop{{EntityEventSource}}, Filter: filterEq("name", game.SourceDice)},
	{Name: "IsFromOracle", Root: EntityEvent, Kind: KindStatus, Filter: &Condition{Field: "interpretation_id", Op: OpNotNull}},

	// InterpretationSet accessors.
	{Name: "InterpretationCount", Root: EntityInterpretationSet, Kind: KindCount, Path: []Hop{{EntityInterpretation}}},
	{Name: "SelectedInterpretationCount", Root: EntityInterpretationSet, Kind: KindCount, Path: []Hop{{EntityInterpretation}}, Filter: filterEq("is_selected", true)},
	{Name: "HasSelection", Root: EntityInterpretationSet, Kind: KindExistence, Path: []Hop{{EntityInterpretation}}, Filter: filterEq("is_selected", true)},
	{Name: "SelectedInterpretation", Root: EntityInterpretationSet, Kind: KindNavigation, Path: []Hop{{EntityInterpretation}}, Filter: filterEq("is_selected", true), Select: SelectFlagFirst},

	// Interpretation accessors.
	{Name: "EventCount", Root: EntityInterpretation, Kind: KindCount, Path: []Hop{{EntityEvent}}},
	{Name: "HasEvents", Root: EntityInterpretation, Kind: KindExistence, Path: []Hop{{EntityEvent}}},
}

// Lookup finds a named accessor for a root entity.
func Lookup(root Entity, name string) (Spec, bool) {
	for _, spec := range catalogue {
		if spec.Root == root && spec.Name == name {
			return spec, true
		}
	}
	return Spec{}, false
}

// All returns the full accessor catalogue.
func All() []Spec {
	out := make([]Spec, len(catalogue))
	copy(out, catalogue)
	return out
}
