package service

import (
	"context"
	"testing"

	apperrors "github.com/louisbranch/soloscribe/internal/errors"
	"github.com/louisbranch/soloscribe/internal/game"
)

func setupAct(t *testing.T, svc *Service) *game.Act {
	t.Helper()
	setupGame(t, svc)
	act, err := svc.CreateAct(context.Background(), "Act One", "")
	if err != nil {
		t.Fatalf("CreateAct: %v", err)
	}
	return act
}

func TestCreateSceneRequiresActiveAct(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	setupGame(t, svc)

	_, err := svc.CreateScene(ctx, "Opening", "")
	wantCode(t, err, apperrors.CodeNoActiveAct)
}

func TestCreateSceneRequiresTitle(t *testing.T) {
	svc := newTestService(t, nil)
	setupAct(t, svc)

	_, err := svc.CreateScene(context.Background(), "  ", "")
	wantCode(t, err, apperrors.CodeSceneTitleEmpty)
}

func TestCreateSceneBecomesActive(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	setupAct(t, svc)

	first, err := svc.CreateScene(ctx, "The Tavern", "")
	if err != nil {
		t.Fatalf("CreateScene: %v", err)
	}
	if first.Slug != "scene-1-the-tavern" {
		t.Fatalf("Slug = %q", first.Slug)
	}
	second, err := svc.CreateScene(ctx, "The Road", "")
	if err != nil {
		t.Fatalf("CreateScene: %v", err)
	}
	if second.Sequence != 2 {
		t.Fatalf("Sequence = %d, want 2", second.Sequence)
	}

	scenes, err := svc.ListScenes(ctx)
	if err != nil {
		t.Fatalf("ListScenes: %v", err)
	}
	activeCount := 0
	for _, sc := range scenes {
		if sc.IsActive {
			activeCount++
			if sc.ID != second.ID {
				t.Fatalf("active scene = %s, want %s", sc.ID, second.ID)
			}
		}
	}
	if activeCount != 1 {
		t.Fatalf("active scenes = %d, want exactly 1", activeCount)
	}
}

func TestCompleteSceneTwice(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	setupAct(t, svc)

	scene, err := svc.CreateScene(ctx, "Done Deal", "")
	if err != nil {
		t.Fatalf("CreateScene: %v", err)
	}
	completed, err := svc.CompleteScene(ctx, "")
	if err != nil {
		t.Fatalf("CompleteScene: %v", err)
	}
	if completed.ID != scene.ID {
		t.Fatalf("completed %s, want the active scene %s", completed.ID, scene.ID)
	}
	if completed.Status != game.StatusCompleted || completed.IsActive {
		t.Fatalf("unexpected state after completion: %+v", completed)
	}

	_, err = svc.CompleteScene(ctx, scene.ID)
	wantCode(t, err, apperrors.CodeSceneAlreadyCompleted)

	after, err := svc.GetScene(ctx, scene.ID)
	if err != nil {
		t.Fatalf("GetScene: %v", err)
	}
	if !after.ModifiedAt.Equal(completed.ModifiedAt) {
		t.Fatal("rejected completion mutated the scene")
	}
}

func TestSetActiveSceneSwitchesBack(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	setupAct(t, svc)

	first, err := svc.CreateScene(ctx, "One", "")
	if err != nil {
		t.Fatalf("CreateScene: %v", err)
	}
	if _, err := svc.CreateScene(ctx, "Two", ""); err != nil {
		t.Fatalf("CreateScene: %v", err)
	}

	if _, err := svc.SetActiveScene(ctx, first.ID); err != nil {
		t.Fatalf("SetActiveScene: %v", err)
	}
	active, err := svc.GetActiveScene(ctx)
	if err != nil {
		t.Fatalf("GetActiveScene: %v", err)
	}
	if active.ID != first.ID {
		t.Fatalf("active = %s, want %s", active.ID, first.ID)
	}
}

func TestSetActiveSceneOtherActConflict(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	first := setupAct(t, svc)

	scene, err := svc.CreateScene(ctx, "Left Behind", "")
	if err != nil {
		t.Fatalf("CreateScene: %v", err)
	}

	if _, err := svc.CreateAct(ctx, "Act Two", ""); err != nil {
		t.Fatalf("CreateAct: %v", err)
	}

	_, err = svc.SetActiveScene(ctx, scene.ID)
	wantCode(t, err, apperrors.CodeActiveConflict)
	if kind := apperrors.GetKind(err); kind != apperrors.KindConflict {
		t.Fatalf("kind = %s, want %s", kind, apperrors.KindConflict)
	}

	// Back in the scene's act the switch goes through.
	if _, err := svc.SetActiveAct(ctx, first.ID); err != nil {
		t.Fatalf("SetActiveAct: %v", err)
	}
	if _, err := svc.SetActiveScene(ctx, scene.ID); err != nil {
		t.Fatalf("SetActiveScene: %v", err)
	}
}

func TestEditSceneRejectsEmptyTitle(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	setupAct(t, svc)

	scene, err := svc.CreateScene(ctx, "Keep Me", "")
	if err != nil {
		t.Fatalf("CreateScene: %v", err)
	}

	empty := ""
	_, err = svc.EditScene(ctx, scene.ID, &empty, nil)
	wantCode(t, err, apperrors.CodeSceneTitleEmpty)

	desc := "New backdrop"
	updated, err := svc.EditScene(ctx, scene.ID, nil, &desc)
	if err != nil {
		t.Fatalf("EditScene: %v", err)
	}
	if updated.Title != "Keep Me" || updated.Description != "New backdrop" {
		t.Fatalf("unexpected fields: %+v", updated)
	}
}

func TestListScenesWithEvents(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	setupAct(t, svc)

	if _, err := svc.CreateScene(ctx, "Quiet", ""); err != nil {
		t.Fatalf("CreateScene: %v", err)
	}
	busy, err := svc.CreateScene(ctx, "Busy", "")
	if err != nil {
		t.Fatalf("CreateScene: %v", err)
	}
	if _, err := svc.AddEvent(ctx, "Something happened"); err != nil {
		t.Fatalf("AddEvent: %v", err)
	}

	scenes, err := svc.ListScenesWithEvents(ctx)
	if err != nil {
		t.Fatalf("ListScenesWithEvents: %v", err)
	}
	if len(scenes) != 1 || scenes[0].ID != busy.ID {
		t.Fatalf("scenes = %+v, want only the busy scene", scenes)
	}
}
