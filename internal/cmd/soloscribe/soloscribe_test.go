package soloscribe

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/soloscribe/internal/errors"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{DBPath: filepath.Join(t.TempDir(), "soloscribe.db")}
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("SOLOSCRIBE_DB_PATH", "env.db")
	t.Setenv("SOLOSCRIBE_OPENAI_MODEL", "env-model")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, args, err := ParseConfig(fs, []string{"-db", "flag.db", "game", "list"})
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.DBPath != "flag.db" {
		t.Fatalf("DBPath = %q, want the flag override", cfg.DBPath)
	}
	if cfg.OpenAIModel != "env-model" {
		t.Fatalf("OpenAIModel = %q, want the env default", cfg.OpenAIModel)
	}
	if len(args) != 2 || args[0] != "game" || args[1] != "list" {
		t.Fatalf("args = %v, want the command path", args)
	}
}

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, _, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.DBPath != "soloscribe.db" {
		t.Fatalf("DBPath = %q, want the default", cfg.DBPath)
	}
	if cfg.AITimeout.Seconds() != 30 {
		t.Fatalf("AITimeout = %v, want 30s", cfg.AITimeout)
	}
}

func TestRunNoArgsPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	if err := Run(context.Background(), testConfig(t), nil, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Usage:") {
		t.Fatalf("output = %q, want usage text", out.String())
	}
}

func TestRunUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), testConfig(t), []string{"bogus"}, &out)
	if apperrors.GetCode(err) != apperrors.CodeUsage {
		t.Fatalf("err = %v, want a usage error", err)
	}
	if apperrors.GetKind(err).ExitCode() != 2 {
		t.Fatalf("exit code = %d, want 2", apperrors.GetKind(err).ExitCode())
	}
}

func TestRunGameSession(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	run := func(wantErr bool, args ...string) string {
		t.Helper()
		var out bytes.Buffer
		err := Run(ctx, cfg, args, &out)
		if wantErr && err == nil {
			t.Fatalf("Run %v: expected error", args)
		}
		if !wantErr && err != nil {
			t.Fatalf("Run %v: %v", args, err)
		}
		return out.String()
	}

	got := run(false, "game", "create", "-name", "Iron Vows", "-description", "A grim pilgrimage")
	if !strings.Contains(got, "Created game Iron Vows") {
		t.Fatalf("output = %q", got)
	}

	run(false, "act", "create", "-title", "Departure")
	run(false, "scene", "add", "-title", "The Gate")
	run(false, "event", "add", "-description", "The gate guards demand a toll")
	run(false, "dice", "roll", "-reason", "persuasion", "-event", "2d6+1")

	got = run(false, "game", "list")
	if !strings.Contains(got, "* ") || !strings.Contains(got, "Iron Vows") {
		t.Fatalf("game list = %q", got)
	}

	got = run(false, "game", "info")
	if !strings.Contains(got, "Acts: 1  Scenes: 1  Events: 2") {
		t.Fatalf("game info = %q", got)
	}
	if !strings.Contains(got, "Active act: act-1-departure") {
		t.Fatalf("game info = %q", got)
	}
	if !strings.Contains(got, "Active scene: scene-1-the-gate") {
		t.Fatalf("game info = %q", got)
	}

	got = run(false, "event", "list")
	if !strings.Contains(got, "[manual]") || !strings.Contains(got, "[dice]") {
		t.Fatalf("event list = %q", got)
	}

	sceneID := parseInfoID(t, run(false, "scene", "info"))

	got = run(false, "scene", "complete")
	if !strings.Contains(got, "Completed scene scene-1-the-gate") {
		t.Fatalf("scene complete = %q", got)
	}

	// Completing again is an invalid-state error with exit code 4.
	var out bytes.Buffer
	err := Run(ctx, cfg, []string{"scene", "complete", "-id", sceneID}, &out)
	if apperrors.GetCode(err) != apperrors.CodeSceneAlreadyCompleted {
		t.Fatalf("err = %v, want already-completed", err)
	}
	if apperrors.GetKind(err).ExitCode() != 4 {
		t.Fatalf("exit code = %d, want 4", apperrors.GetKind(err).ExitCode())
	}
}

// parseInfoID digs the entity ID out of an info header like
// "Scene: scene-1-the-gate (<id>)".
func parseInfoID(t *testing.T, output string) string {
	t.Helper()
	open := strings.Index(output, "(")
	end := strings.Index(output, ")")
	if open < 0 || end <= open {
		t.Fatalf("output = %q, want an (id) header", output)
	}
	return output[open+1 : end]
}

func TestRunOracleWithoutAI(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	for _, args := range [][]string{
		{"game", "create", "-name", "Oracle Test"},
		{"act", "create"},
		{"scene", "add", "-title", "Asking"},
	} {
		var out bytes.Buffer
		if err := Run(ctx, cfg, args, &out); err != nil {
			t.Fatalf("Run %v: %v", args, err)
		}
	}

	var out bytes.Buffer
	err := Run(ctx, cfg, []string{"oracle", "interpret", "-context", "Is it safe?", "-results", "No, and..."}, &out)
	if apperrors.GetCode(err) != apperrors.CodeAIUnavailable {
		t.Fatalf("err = %v, want AI unavailable", err)
	}
	if apperrors.GetKind(err).ExitCode() != 6 {
		t.Fatalf("exit code = %d, want 6", apperrors.GetKind(err).ExitCode())
	}
}

func TestRunDiceRequiresNotation(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()
	var out bytes.Buffer
	if err := Run(ctx, cfg, []string{"game", "create", "-name", "Dice Test"}, &out); err != nil {
		t.Fatalf("create game: %v", err)
	}
	err := Run(ctx, cfg, []string{"dice", "roll"}, &out)
	if apperrors.GetCode(err) != apperrors.CodeUsage {
		t.Fatalf("err = %v, want usage error", err)
	}
}
