package soloscribe

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/louisbranch/soloscribe/internal/game"
	"github.com/louisbranch/soloscribe/internal/game/service"
)

func runGame(ctx context.Context, svc *service.Service, args []string, out io.Writer) error {
	if len(args) == 0 {
		return usageError("game needs a subcommand: create, list, activate, info, edit, delete")
	}

	switch sub, rest := args[0], args[1:]; sub {
	case "create":
		fs := subcommand("game create")
		name := fs.String("name", "", "game name")
		description := fs.String("description", "", "game description")
		if err := fs.Parse(rest); err != nil {
			return usageError("game create: %v", err)
		}
		g, err := svc.CreateGame(ctx, game.CreateGameInput{Name: *name, Description: *description})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Created game %s (%s), now active\n", g.Name, g.ID)
		return nil

	case "list":
		games, err := svc.ListGames(ctx)
		if err != nil {
			return err
		}
		if len(games) == 0 {
			fmt.Fprintln(out, "No games yet")
			return nil
		}
		for _, g := range games {
			fmt.Fprintf(out, "%s %s\t%s\n", activeMarker(g.IsActive), g.ID, g.Name)
		}
		return nil

	case "activate":
		fs := subcommand("game activate")
		id := fs.String("id", "", "game ID")
		if err := fs.Parse(rest); err != nil {
			return usageError("game activate: %v", err)
		}
		g, err := svc.ActivateGame(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Activated game %s\n", g.Name)
		return nil

	case "info":
		g, err := svc.GetActiveGame(ctx)
		if err != nil {
			return err
		}
		summary, err := svc.GameStatus(ctx, g.ID)
		if err != nil {
			return err
		}
		renderGameSummary(out, summary)
		return nil

	case "edit":
		fs := subcommand("game edit")
		id := fs.String("id", "", "game ID (default: active game)")
		name := fs.String("name", "", "new name")
		description := fs.String("description", "", "new description")
		if err := fs.Parse(rest); err != nil {
			return usageError("game edit: %v", err)
		}
		gameID := *id
		if gameID == "" {
			g, err := svc.GetActiveGame(ctx)
			if err != nil {
				return err
			}
			gameID = g.ID
		}
		g, err := svc.EditGame(ctx, gameID, optionalString(fs, "name", name), optionalString(fs, "description", description))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Updated game %s\n", g.Name)
		return nil

	case "delete":
		fs := subcommand("game delete")
		id := fs.String("id", "", "game ID")
		if err := fs.Parse(rest); err != nil {
			return usageError("game delete: %v", err)
		}
		if *id == "" {
			return usageError("game delete requires -id")
		}
		if err := svc.DeleteGame(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted game %s and everything in it\n", *id)
		return nil

	default:
		return usageError("unknown game subcommand %q", sub)
	}
}

func runAct(ctx context.Context, svc *service.Service, args []string, out io.Writer) error {
	if len(args) == 0 {
		return usageError("act needs a subcommand: create, list, info, edit, complete, activate")
	}

	switch sub, rest := args[0], args[1:]; sub {
	case "create":
		fs := subcommand("act create")
		title := fs.String("title", "", "act title (optional)")
		summary := fs.String("summary", "", "act summary (optional)")
		if err := fs.Parse(rest); err != nil {
			return usageError("act create: %v", err)
		}
		act, err := svc.CreateAct(ctx, *title, *summary)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Created act %s, now active\n", act.Slug)
		return nil

	case "list":
		acts, err := svc.ListActs(ctx)
		if err != nil {
			return err
		}
		if len(acts) == 0 {
			fmt.Fprintln(out, "No acts yet")
			return nil
		}
		for _, act := range acts {
			fmt.Fprintf(out, "%s %s\t%s\t%s\n", activeMarker(act.IsActive), act.Slug, game.StatusLabel(act.Status), act.Title)
		}
		return nil

	case "info":
		act, err := svc.GetActiveAct(ctx)
		if err != nil {
			return err
		}
		renderAct(out, act)
		return nil

	case "edit":
		fs := subcommand("act edit")
		id := fs.String("id", "", "act ID (default: active act)")
		title := fs.String("title", "", "new title")
		summary := fs.String("summary", "", "new summary")
		if err := fs.Parse(rest); err != nil {
			return usageError("act edit: %v", err)
		}
		actID := *id
		if actID == "" {
			act, err := svc.GetActiveAct(ctx)
			if err != nil {
				return err
			}
			actID = act.ID
		}
		act, err := svc.EditAct(ctx, actID, optionalString(fs, "title", title), optionalString(fs, "summary", summary))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Updated act %s\n", act.Slug)
		return nil

	case "complete":
		fs := subcommand("act complete")
		id := fs.String("id", "", "act ID (default: active act)")
		title := fs.String("title", "", "completion title")
		summary := fs.String("summary", "", "completion summary")
		useAI := fs.Bool("ai", false, "generate missing title/summary with AI")
		force := fs.Bool("force", false, "let AI overwrite fields that are already set")
		if err := fs.Parse(rest); err != nil {
			return usageError("act complete: %v", err)
		}
		act, err := svc.CompleteAct(ctx, service.CompleteActInput{
			ActID:   *id,
			Title:   *title,
			Summary: *summary,
			UseAI:   *useAI,
			ForceAI: *force,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Completed act %s\n", act.Slug)
		if act.Title != "" {
			fmt.Fprintf(out, "Title: %s\n", act.Title)
		}
		if act.Summary != "" {
			fmt.Fprintf(out, "Summary: %s\n", act.Summary)
		}
		return nil

	case "activate":
		fs := subcommand("act activate")
		id := fs.String("id", "", "act ID")
		if err := fs.Parse(rest); err != nil {
			return usageError("act activate: %v", err)
		}
		if *id == "" {
			return usageError("act activate requires -id")
		}
		act, err := svc.SetActiveAct(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Activated act %s\n", act.Slug)
		return nil

	default:
		return usageError("unknown act subcommand %q", sub)
	}
}

func runScene(ctx context.Context, svc *service.Service, args []string, out io.Writer) error {
	if len(args) == 0 {
		return usageError("scene needs a subcommand: add, list, info, edit, complete, activate")
	}

	switch sub, rest := args[0], args[1:]; sub {
	case "add":
		fs := subcommand("scene add")
		title := fs.String("title", "", "scene title")
		description := fs.String("description", "", "scene description")
		if err := fs.Parse(rest); err != nil {
			return usageError("scene add: %v", err)
		}
		scene, err := svc.CreateScene(ctx, *title, *description)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Added scene %s, now active\n", scene.Slug)
		return nil

	case "list":
		scenes, err := svc.ListScenes(ctx)
		if err != nil {
			return err
		}
		if len(scenes) == 0 {
			fmt.Fprintln(out, "No scenes yet")
			return nil
		}
		for _, scene := range scenes {
			fmt.Fprintf(out, "%s %s\t%s\t%s\n", activeMarker(scene.IsActive), scene.Slug, game.StatusLabel(scene.Status), scene.Title)
		}
		return nil

	case "info":
		scene, err := svc.GetActiveScene(ctx)
		if err != nil {
			return err
		}
		renderScene(out, scene)
		return nil

	case "edit":
		fs := subcommand("scene edit")
		id := fs.String("id", "", "scene ID (default: active scene)")
		title := fs.String("title", "", "new title")
		description := fs.String("description", "", "new description")
		if err := fs.Parse(rest); err != nil {
			return usageError("scene edit: %v", err)
		}
		sceneID := *id
		if sceneID == "" {
			scene, err := svc.GetActiveScene(ctx)
			if err != nil {
				return err
			}
			sceneID = scene.ID
		}
		scene, err := svc.EditScene(ctx, sceneID, optionalString(fs, "title", title), optionalString(fs, "description", description))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Updated scene %s\n", scene.Slug)
		return nil

	case "complete":
		fs := subcommand("scene complete")
		id := fs.String("id", "", "scene ID (default: active scene)")
		if err := fs.Parse(rest); err != nil {
			return usageError("scene complete: %v", err)
		}
		scene, err := svc.CompleteScene(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Completed scene %s\n", scene.Slug)
		return nil

	case "activate":
		fs := subcommand("scene activate")
		id := fs.String("id", "", "scene ID")
		if err := fs.Parse(rest); err != nil {
			return usageError("scene activate: %v", err)
		}
		if *id == "" {
			return usageError("scene activate requires -id")
		}
		scene, err := svc.SetActiveScene(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Activated scene %s\n", scene.Slug)
		return nil

	default:
		return usageError("unknown scene subcommand %q", sub)
	}
}

func runEvent(ctx context.Context, svc *service.Service, args []string, out io.Writer) error {
	if len(args) == 0 {
		return usageError("event needs a subcommand: add, list, edit")
	}

	switch sub, rest := args[0], args[1:]; sub {
	case "add":
		fs := subcommand("event add")
		description := fs.String("description", "", "what happened")
		if err := fs.Parse(rest); err != nil {
			return usageError("event add: %v", err)
		}
		event, err := svc.AddEvent(ctx, *description)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Recorded event %s\n", event.ID)
		return nil

	case "list":
		events, err := svc.ListEvents(ctx)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Fprintln(out, "No events yet")
			return nil
		}
		for _, event := range events {
			renderEvent(out, event)
		}
		return nil

	case "edit":
		fs := subcommand("event edit")
		id := fs.String("id", "", "event ID")
		description := fs.String("description", "", "new description")
		if err := fs.Parse(rest); err != nil {
			return usageError("event edit: %v", err)
		}
		if *id == "" {
			return usageError("event edit requires -id")
		}
		event, err := svc.EditEvent(ctx, *id, *description)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Updated event %s\n", event.ID)
		return nil

	default:
		return usageError("unknown event subcommand %q", sub)
	}
}

func runDice(ctx context.Context, svc *service.Service, args []string, out io.Writer) error {
	if len(args) == 0 {
		return usageError("dice needs a subcommand: roll, list")
	}

	switch sub, rest := args[0], args[1:]; sub {
	case "roll":
		fs := subcommand("dice roll")
		reason := fs.String("reason", "", "why the dice are rolled")
		record := fs.Bool("event", false, "also record the roll as a scene event")
		if err := fs.Parse(rest); err != nil {
			return usageError("dice roll: %v", err)
		}
		if fs.NArg() != 1 {
			return usageError("dice roll takes one notation argument, e.g. 2d6+1")
		}
		roll, err := svc.RollDice(ctx, service.RollDiceInput{
			Notation:    fs.Arg(0),
			Reason:      *reason,
			RecordEvent: *record,
		})
		if err != nil {
			return err
		}
		renderRoll(out, roll)
		return nil

	case "list":
		rolls, err := svc.ListDiceRolls(ctx)
		if err != nil {
			return err
		}
		if len(rolls) == 0 {
			fmt.Fprintln(out, "No rolls yet")
			return nil
		}
		for _, roll := range rolls {
			renderRoll(out, roll)
		}
		return nil

	default:
		return usageError("unknown dice subcommand %q", sub)
	}
}

func runOracle(ctx context.Context, svc *service.Service, args []string, out io.Writer) error {
	if len(args) == 0 {
		return usageError("oracle needs a subcommand: interpret, retry, status, select, promote")
	}

	switch sub, rest := args[0], args[1:]; sub {
	case "interpret":
		fs := subcommand("oracle interpret")
		question := fs.String("context", "", "question or situation put to the oracle")
		results := fs.String("results", "", "raw oracle results to interpret")
		count := fs.Int("count", 0, "how many interpretations to request")
		if err := fs.Parse(rest); err != nil {
			return usageError("oracle interpret: %v", err)
		}
		set, err := svc.Interpret(ctx, service.InterpretInput{
			Context:       *question,
			OracleResults: *results,
			Count:         *count,
		})
		if err != nil {
			return err
		}
		renderInterpretationSet(out, set)
		return nil

	case "retry":
		set, err := svc.RetryInterpretation(ctx, "")
		if err != nil {
			return err
		}
		renderInterpretationSet(out, set)
		return nil

	case "status":
		set, err := svc.GetCurrentInterpretationSet(ctx, "")
		if err != nil {
			return err
		}
		renderInterpretationSet(out, set)
		return nil

	case "select":
		fs := subcommand("oracle select")
		id := fs.String("id", "", "interpretation ID")
		if err := fs.Parse(rest); err != nil {
			return usageError("oracle select: %v", err)
		}
		if *id == "" {
			return usageError("oracle select requires -id")
		}
		interpretation, err := svc.SelectInterpretation(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Selected interpretation %s\n", interpretation.Title)
		return nil

	case "promote":
		fs := subcommand("oracle promote")
		id := fs.String("id", "", "interpretation ID")
		if err := fs.Parse(rest); err != nil {
			return usageError("oracle promote: %v", err)
		}
		if *id == "" {
			return usageError("oracle promote requires -id")
		}
		event, err := svc.PromoteToEvent(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Recorded event %s from the interpretation\n", event.ID)
		return nil

	default:
		return usageError("unknown oracle subcommand %q", sub)
	}
}

func activeMarker(active bool) string {
	if active {
		return "*"
	}
	return " "
}

func renderGameSummary(out io.Writer, summary *service.GameSummary) {
	g := summary.Game
	fmt.Fprintf(out, "Game: %s (%s)\n", g.Name, g.ID)
	if g.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", g.Description)
	}
	fmt.Fprintf(out, "Acts: %d  Scenes: %d  Events: %d\n", summary.ActCount, summary.SceneCount, summary.EventCount)
	if summary.HasCompletedActs {
		fmt.Fprintln(out, "Has completed acts")
	}
	if summary.ActiveAct != nil {
		fmt.Fprintf(out, "Active act: %s\n", summary.ActiveAct.Slug)
	}
	if summary.ActiveScene != nil {
		fmt.Fprintf(out, "Active scene: %s\n", summary.ActiveScene.Slug)
	}
}

func renderAct(out io.Writer, act *game.Act) {
	fmt.Fprintf(out, "Act: %s (%s)\n", act.Slug, act.ID)
	if act.Title != "" {
		fmt.Fprintf(out, "Title: %s\n", act.Title)
	}
	if act.Summary != "" {
		fmt.Fprintf(out, "Summary: %s\n", act.Summary)
	}
	fmt.Fprintf(out, "Status: %s\n", game.StatusLabel(act.Status))
}

func renderScene(out io.Writer, scene *game.Scene) {
	fmt.Fprintf(out, "Scene: %s (%s)\n", scene.Slug, scene.ID)
	fmt.Fprintf(out, "Title: %s\n", scene.Title)
	if scene.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", scene.Description)
	}
	fmt.Fprintf(out, "Status: %s\n", game.StatusLabel(scene.Status))
}

func renderEvent(out io.Writer, event *game.Event) {
	source := ""
	if event.Source != nil {
		source = event.Source.Name
	}
	fmt.Fprintf(out, "[%s] %s  %s\n", source, event.ID, event.Description)
}

func renderRoll(out io.Writer, roll *game.DiceRoll) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %v", roll.Notation, roll.Results)
	if roll.Modifier != 0 {
		fmt.Fprintf(&b, " %+d", roll.Modifier)
	}
	fmt.Fprintf(&b, " = %d", roll.Total)
	if roll.Reason != "" {
		fmt.Fprintf(&b, " (%s)", roll.Reason)
	}
	fmt.Fprintln(out, b.String())
}

func renderInterpretationSet(out io.Writer, set *game.InterpretationSet) {
	fmt.Fprintf(out, "Context: %s\n", set.Context)
	fmt.Fprintf(out, "Oracle results: %s\n", set.OracleResults)
	if set.RetryAttempt > 0 {
		fmt.Fprintf(out, "Retry attempt: %d\n", set.RetryAttempt)
	}
	for i, interpretation := range set.Interpretations {
		marker := " "
		if interpretation.IsSelected {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %d. %s (%s)\n", marker, i+1, interpretation.Title, interpretation.ID)
		fmt.Fprintf(out, "     %s\n", interpretation.Description)
	}
}
