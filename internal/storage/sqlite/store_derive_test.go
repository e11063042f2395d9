package sqlite

import (
	"context"
	"testing"

	"github.com/louisbranch/soloscribe/internal/game"
	"github.com/louisbranch/soloscribe/internal/game/derive"
)

type instance struct {
	id   string
	node any
}

func collectInstances(g *game.Game) map[derive.Entity][]instance {
	out := map[derive.Entity][]instance{
		derive.EntityGame: {{g.ID, g}},
	}
	for _, act := range g.Acts {
		out[derive.EntityAct] = append(out[derive.EntityAct], instance{act.ID, act})
		for _, scene := range act.Scenes {
			out[derive.EntityScene] = append(out[derive.EntityScene], instance{scene.ID, scene})
			for _, event := range scene.Events {
				out[derive.EntityEvent] = append(out[derive.EntityEvent], instance{event.ID, event})
			}
			for _, set := range scene.InterpretationSets {
				out[derive.EntityInterpretationSet] = append(out[derive.EntityInterpretationSet], instance{set.ID, set})
				for _, i := range set.Interpretations {
					out[derive.EntityInterpretation] = append(out[derive.EntityInterpretation], instance{i.ID, i})
				}
			}
		}
	}
	return out
}

func nodeID(t *testing.T, node any) string {
	t.Helper()
	switch v := node.(type) {
	case *game.Act:
		return v.ID
	case *game.Scene:
		return v.ID
	case *game.Event:
		return v.ID
	case *game.DiceRoll:
		return v.ID
	case *game.InterpretationSet:
		return v.ID
	case *game.Interpretation:
		return v.ID
	default:
		t.Fatalf("unexpected node type %T", node)
		return ""
	}
}

// Every accessor in the catalogue must answer identically whether it
// walks the loaded graph or runs as a SQL query.
func TestDualModeAgreement(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedFixture(t, store)

	assertCatalogueAgreement(t, ctx, store, "g1")
}

func assertCatalogueAgreement(t *testing.T, ctx context.Context, store *Store, gameID string) {
	t.Helper()

	graph, err := store.LoadGameGraph(ctx, gameID)
	if err != nil {
		t.Fatalf("LoadGameGraph: %v", err)
	}
	instances := collectInstances(graph)

	for _, spec := range derive.All() {
		for _, inst := range instances[spec.Root] {
			name := string(spec.Root) + "." + spec.Name + "@" + inst.id
			switch spec.Kind {
			case derive.KindExistence, derive.KindStatus:
				memory, err := derive.Bool(spec, inst.node)
				if err != nil {
					t.Fatalf("%s memory: %v", name, err)
				}
				stored, err := store.EvalBool(ctx, spec, inst.id)
				if err != nil {
					t.Fatalf("%s sql: %v", name, err)
				}
				if memory != stored {
					t.Errorf("%s: memory=%v sql=%v", name, memory, stored)
				}
			case derive.KindCount:
				memory, err := derive.Count(spec, inst.node)
				if err != nil {
					t.Fatalf("%s memory: %v", name, err)
				}
				stored, err := store.EvalCount(ctx, spec, inst.id)
				if err != nil {
					t.Fatalf("%s sql: %v", name, err)
				}
				if memory != stored {
					t.Errorf("%s: memory=%d sql=%d", name, memory, stored)
				}
			case derive.KindNavigation:
				memoryNode, err := derive.Navigate(spec, inst.node)
				if err != nil {
					t.Fatalf("%s memory: %v", name, err)
				}
				storedID, found, err := store.EvalNavigate(ctx, spec, inst.id)
				if err != nil {
					t.Fatalf("%s sql: %v", name, err)
				}
				if memoryNode == nil {
					if found {
						t.Errorf("%s: memory=none sql=%s", name, storedID)
					}
					continue
				}
				memoryID := nodeID(t, memoryNode)
				if !found || memoryID != storedID {
					t.Errorf("%s: memory=%s sql=%s (found=%v)", name, memoryID, storedID, found)
				}
			}
		}
	}
}

// seedContestedFixture stores a game where ordering is the only thing
// that disambiguates: two flagged-active scenes under different acts,
// and a created_at tie between events in sibling scenes. Storage accepts
// such rows even though the service keeps a single active scene, so both
// interpreters have to break the ties the same way.
func seedContestedFixture(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()

	g := &game.Game{ID: "g2", Name: "Contested", IsActive: true, CreatedAt: testTime(0), ModifiedAt: testTime(0)}
	if err := store.CreateGame(ctx, g); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	acts := []*game.Act{
		{ID: "b1", Slug: "act-1-untitled", GameID: "g2", Status: game.StatusActive,
			Sequence: 1, CreatedAt: testTime(1), ModifiedAt: testTime(1)},
		{ID: "b2", Slug: "act-2-untitled", GameID: "g2", Status: game.StatusActive,
			Sequence: 2, IsActive: true, CreatedAt: testTime(2), ModifiedAt: testTime(2)},
	}
	for _, a := range acts {
		if err := store.CreateAct(ctx, a); err != nil {
			t.Fatalf("CreateAct(%s): %v", a.ID, err)
		}
	}

	// sb1 is active in the first act with a higher sequence than sb2,
	// so sorting scenes alone would pick the wrong one.
	scenes := []*game.Scene{
		{ID: "sb0", Slug: "scene-1-prologue", ActID: "b1", Title: "Prologue",
			Status: game.StatusCompleted, Sequence: 1, CreatedAt: testTime(1), ModifiedAt: testTime(1)},
		{ID: "sb1", Slug: "scene-2-vigil", ActID: "b1", Title: "Vigil",
			Status: game.StatusActive, Sequence: 2, IsActive: true, CreatedAt: testTime(2), ModifiedAt: testTime(2)},
		{ID: "sb2", Slug: "scene-1-march", ActID: "b2", Title: "March",
			Status: game.StatusActive, Sequence: 1, IsActive: true, CreatedAt: testTime(3), ModifiedAt: testTime(3)},
		{ID: "sb3", Slug: "scene-2-siege", ActID: "b2", Title: "Siege",
			Status: game.StatusCompleted, Sequence: 2, CreatedAt: testTime(4), ModifiedAt: testTime(4)},
	}
	for _, sc := range scenes {
		if err := store.CreateScene(ctx, sc); err != nil {
			t.Fatalf("CreateScene(%s): %v", sc.ID, err)
		}
	}

	// ea1 sorts before eb1 by id but lives in the later scene; the
	// created_at tie must resolve by scene order instead.
	events := []*game.Event{
		{ID: "eb1", SceneID: "sb2", GameID: "g2", Description: "march begins", SourceID: 1,
			CreatedAt: testTime(7), ModifiedAt: testTime(7)},
		{ID: "ea1", SceneID: "sb3", GameID: "g2", Description: "walls breached", SourceID: 1,
			CreatedAt: testTime(7), ModifiedAt: testTime(7)},
	}
	for _, e := range events {
		if err := store.CreateEvent(ctx, e); err != nil {
			t.Fatalf("CreateEvent(%s): %v", e.ID, err)
		}
	}
}

func TestDualModeAgreementContested(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedContestedFixture(t, store)

	assertCatalogueAgreement(t, ctx, store, "g2")
}

// With two flagged-active scenes under different acts, both modes must
// pick the one in the first act, and a created_at tie between events in
// sibling scenes must resolve to the earlier scene's event.
func TestNavigationTieBreaks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedContestedFixture(t, store)

	graph, err := store.LoadGameGraph(ctx, "g2")
	if err != nil {
		t.Fatalf("LoadGameGraph: %v", err)
	}

	activeScene, ok := derive.Lookup(derive.EntityGame, "ActiveScene")
	if !ok {
		t.Fatal("ActiveScene accessor missing")
	}
	memoryNode, err := derive.Navigate(activeScene, graph)
	if err != nil {
		t.Fatalf("Navigate(ActiveScene): %v", err)
	}
	if id := nodeID(t, memoryNode); id != "sb1" {
		t.Errorf("memory ActiveScene = %s, want sb1", id)
	}
	storedID, found, err := store.EvalNavigate(ctx, activeScene, "g2")
	if err != nil {
		t.Fatalf("EvalNavigate(ActiveScene): %v", err)
	}
	if !found || storedID != "sb1" {
		t.Errorf("sql ActiveScene = %s (found=%v), want sb1", storedID, found)
	}

	latestEvent, ok := derive.Lookup(derive.EntityAct, "LatestEvent")
	if !ok {
		t.Fatal("LatestEvent accessor missing")
	}
	var act2 any
	for _, inst := range collectInstances(graph)[derive.EntityAct] {
		if inst.id == "b2" {
			act2 = inst.node
		}
	}
	if act2 == nil {
		t.Fatal("act b2 missing from graph")
	}
	memoryNode, err = derive.Navigate(latestEvent, act2)
	if err != nil {
		t.Fatalf("Navigate(LatestEvent): %v", err)
	}
	if id := nodeID(t, memoryNode); id != "eb1" {
		t.Errorf("memory LatestEvent = %s, want eb1", id)
	}
	storedID, found, err = store.EvalNavigate(ctx, latestEvent, "b2")
	if err != nil {
		t.Fatalf("EvalNavigate(LatestEvent): %v", err)
	}
	if !found || storedID != "eb1" {
		t.Errorf("sql LatestEvent = %s (found=%v), want eb1", storedID, found)
	}
}

// The agreement must also hold for entities with no children at all:
// false, zero, and none, never errors.
func TestDualModeAgreementEmptyGame(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	g := &game.Game{ID: "g-empty", Name: "Empty", CreatedAt: testTime(0), ModifiedAt: testTime(0)}
	if err := store.CreateGame(ctx, g); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	graph, err := store.LoadGameGraph(ctx, "g-empty")
	if err != nil {
		t.Fatalf("LoadGameGraph: %v", err)
	}

	for _, spec := range derive.All() {
		if spec.Root != derive.EntityGame {
			continue
		}
		switch spec.Kind {
		case derive.KindExistence:
			memory, err := derive.Bool(spec, graph)
			if err != nil {
				t.Fatalf("%s memory: %v", spec.Name, err)
			}
			stored, err := store.EvalBool(ctx, spec, "g-empty")
			if err != nil {
				t.Fatalf("%s sql: %v", spec.Name, err)
			}
			if memory || stored {
				t.Errorf("%s: want false on empty game, memory=%v sql=%v", spec.Name, memory, stored)
			}
		case derive.KindCount:
			memory, err := derive.Count(spec, graph)
			if err != nil {
				t.Fatalf("%s memory: %v", spec.Name, err)
			}
			stored, err := store.EvalCount(ctx, spec, "g-empty")
			if err != nil {
				t.Fatalf("%s sql: %v", spec.Name, err)
			}
			if memory != 0 || stored != 0 {
				t.Errorf("%s: want 0 on empty game, memory=%d sql=%d", spec.Name, memory, stored)
			}
		case derive.KindNavigation:
			memoryNode, err := derive.Navigate(spec, graph)
			if err != nil {
				t.Fatalf("%s memory: %v", spec.Name, err)
			}
			_, found, err := store.EvalNavigate(ctx, spec, "g-empty")
			if err != nil {
				t.Fatalf("%s sql: %v", spec.Name, err)
			}
			if memoryNode != nil || found {
				t.Errorf("%s: want none on empty game", spec.Name)
			}
		}
	}
}

func TestLoadGameGraphAttachesPromotedEvents(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedFixture(t, store)

	graph, err := store.LoadGameGraph(ctx, "g1")
	if err != nil {
		t.Fatalf("LoadGameGraph: %v", err)
	}

	var selected *game.Interpretation
	for _, inst := range collectInstances(graph)[derive.EntityInterpretation] {
		i := inst.node.(*game.Interpretation)
		if i.ID == "i2" {
			selected = i
		}
	}
	if selected == nil {
		t.Fatal("interpretation i2 missing from graph")
	}
	if len(selected.Events) != 1 || selected.Events[0].ID != "e3" {
		t.Fatalf("promoted events = %v, want [e3]", selected.Events)
	}
}
