package derive

import (
	"strings"
	"testing"
)

func TestExistsSQL(t *testing.T) {
	spec := mustLookup(t, EntityGame, "HasActiveScene")
	sqlStr, args, err := ExistsSQL(spec, "g1")
	if err != nil {
		t.Fatalf("ExistsSQL error = %v", err)
	}
	for _, want := range []string{
		"SELECT EXISTS (",
		"FROM acts",
		"JOIN scenes ON scenes.act_id = acts.id",
		"acts.game_id = ?",
		"scenes.is_active = ?",
	} {
		if !strings.Contains(sqlStr, want) {
			t.Errorf("query %q missing %q", sqlStr, want)
		}
	}
	if len(args) != 2 || args[0] != "g1" {
		t.Fatalf("args = %v, want root id first", args)
	}
}

func TestCountSQL(t *testing.T) {
	spec := mustLookup(t, EntityAct, "SelectedInterpretationCount")
	sqlStr, args, err := CountSQL(spec, "a1")
	if err != nil {
		t.Fatalf("CountSQL error = %v", err)
	}
	for _, want := range []string{
		"SELECT COUNT(*) FROM scenes",
		"JOIN interpretation_sets ON interpretation_sets.scene_id = scenes.id",
		"JOIN interpretations ON interpretations.set_id = interpretation_sets.id",
		"scenes.act_id = ?",
		"interpretations.is_selected = ?",
	} {
		if !strings.Contains(sqlStr, want) {
			t.Errorf("query %q missing %q", sqlStr, want)
		}
	}
	if len(args) != 2 || args[0] != "a1" {
		t.Fatalf("args = %v", args)
	}
}

func TestNavigateSQLOrdering(t *testing.T) {
	tests := []struct {
		root      Entity
		name      string
		wantOrder string
	}{
		{EntityGame, "ActiveAct", "ORDER BY acts.sequence ASC"},
		{EntityGame, "LatestAct", "ORDER BY acts.created_at DESC, acts.sequence ASC"},
		{EntityAct, "FirstScene", "ORDER BY scenes.sequence ASC"},
		{EntityScene, "LatestEvent", "ORDER BY events.created_at DESC, events.id ASC"},
		// Multi-hop paths sort intermediate hops before the terminal
		// table, matching the in-memory traversal.
		{EntityGame, "ActiveScene", "ORDER BY acts.sequence ASC, scenes.sequence ASC"},
		{EntityAct, "LatestEvent", "ORDER BY events.created_at DESC, scenes.sequence ASC, events.id ASC"},
	}
	for _, tt := range tests {
		spec := mustLookup(t, tt.root, tt.name)
		sqlStr, _, err := NavigateSQL(spec, "root-1")
		if err != nil {
			t.Fatalf("NavigateSQL(%s) error = %v", tt.name, err)
		}
		if !strings.Contains(sqlStr, tt.wantOrder) {
			t.Errorf("NavigateSQL(%s) = %q, missing %q", tt.name, sqlStr, tt.wantOrder)
		}
		if !strings.Contains(sqlStr, "LIMIT 1") {
			t.Errorf("NavigateSQL(%s) = %q, missing LIMIT 1", tt.name, sqlStr)
		}
	}
}

func TestStatusSQLLookupEdge(t *testing.T) {
	spec := mustLookup(t, EntityEvent, "IsManual")
	sqlStr, args, err := ExistsSQL(spec, "e1")
	if err != nil {
		t.Fatalf("ExistsSQL error = %v", err)
	}
	if !strings.Contains(sqlStr, "event_sources.id = (SELECT source_id FROM events WHERE id = ?)") {
		t.Fatalf("query %q does not anchor the lookup edge on the event row", sqlStr)
	}
	if !strings.Contains(sqlStr, "event_sources.name = ?") {
		t.Fatalf("query %q missing source name filter", sqlStr)
	}
	if len(args) != 2 || args[0] != "e1" || args[1] != "manual" {
		t.Fatalf("args = %v", args)
	}
}

func TestStatusSQLZeroPath(t *testing.T) {
	spec := mustLookup(t, EntityEvent, "IsFromOracle")
	sqlStr, args, err := ExistsSQL(spec, "e1")
	if err != nil {
		t.Fatalf("ExistsSQL error = %v", err)
	}
	for _, want := range []string{
		"FROM events",
		"events.id = ?",
		"events.interpretation_id IS NOT NULL",
	} {
		if !strings.Contains(sqlStr, want) {
			t.Errorf("query %q missing %q", sqlStr, want)
		}
	}
	if len(args) != 1 || args[0] != "e1" {
		t.Fatalf("args = %v", args)
	}
}

func TestSQLLoweringCoversCatalogue(t *testing.T) {
	for _, spec := range All() {
		var err error
		switch spec.Kind {
		case KindExistence, KindStatus:
			_, _, err = ExistsSQL(spec, "root-1")
		case KindCount:
			_, _, err = CountSQL(spec, "root-1")
		case KindNavigation:
			_, _, err = NavigateSQL(spec, "root-1")
		}
		if err != nil {
			t.Errorf("%s.%s does not lower to SQL: %v", spec.Root, spec.Name, err)
		}
	}
}
