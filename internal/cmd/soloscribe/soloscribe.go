// Package soloscribe parses CLI configuration and dispatches game
// session commands against the service layer.
package soloscribe

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/louisbranch/soloscribe/internal/ai"
	"github.com/louisbranch/soloscribe/internal/ai/openai"
	apperrors "github.com/louisbranch/soloscribe/internal/errors"
	"github.com/louisbranch/soloscribe/internal/game/service"
	"github.com/louisbranch/soloscribe/internal/platform/config"
	"github.com/louisbranch/soloscribe/internal/storage/sqlite"
)

// Config holds soloscribe command configuration.
type Config struct {
	DBPath      string        `env:"SOLOSCRIBE_DB_PATH" envDefault:"soloscribe.db"`
	OpenAIKey   string        `env:"SOLOSCRIBE_OPENAI_API_KEY"`
	OpenAIModel string        `env:"SOLOSCRIBE_OPENAI_MODEL"`
	AITimeout   time.Duration `env:"SOLOSCRIBE_AI_TIMEOUT" envDefault:"30s"`
}

// ParseConfig parses environment and flags into Config. The returned
// args are the remaining positional arguments: the command path.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, []string, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, nil, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the sqlite database")
	fs.StringVar(&cfg.OpenAIModel, "model", cfg.OpenAIModel, "OpenAI model for oracle and act completion")
	if err := fs.Parse(args); err != nil {
		return Config{}, nil, err
	}
	return cfg, fs.Args(), nil
}

// Run opens the store, wires the service, and executes the command
// named by args, writing human-readable output to out.
func Run(ctx context.Context, cfg Config, args []string, out io.Writer) error {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	var aiClient ai.Client
	if cfg.OpenAIKey != "" {
		opts := []openai.Option{openai.WithTimeout(cfg.AITimeout)}
		if cfg.OpenAIModel != "" {
			opts = append(opts, openai.WithModel(cfg.OpenAIModel))
		}
		client, err := openai.New(cfg.OpenAIKey, opts...)
		if err != nil {
			return err
		}
		aiClient = client
	}

	svc := service.New(store, aiClient)
	return dispatch(ctx, svc, args, out)
}

func dispatch(ctx context.Context, svc *service.Service, args []string, out io.Writer) error {
	if len(args) == 0 {
		printUsage(out)
		return nil
	}

	topic, rest := args[0], args[1:]
	switch topic {
	case "game":
		return runGame(ctx, svc, rest, out)
	case "act":
		return runAct(ctx, svc, rest, out)
	case "scene":
		return runScene(ctx, svc, rest, out)
	case "event":
		return runEvent(ctx, svc, rest, out)
	case "dice":
		return runDice(ctx, svc, rest, out)
	case "oracle":
		return runOracle(ctx, svc, rest, out)
	case "help":
		printUsage(out)
		return nil
	default:
		return usageError("unknown command %q, try 'soloscribe help'", topic)
	}
}

func printUsage(out io.Writer) {
	fmt.Fprint(out, `soloscribe - solo tabletop RPG session tracker

Usage: soloscribe [flags] <command> <subcommand> [options]

Commands:
  game    create, list, activate, info, edit, delete
  act     create, list, info, edit, complete, activate
  scene   add, list, info, edit, complete, activate
  event   add, list, edit
  dice    roll, list
  oracle  interpret, retry, status, select, promote
`)
}

// subcommand builds the flag set for one subcommand, with errors
// surfaced instead of printed and exited.
func subcommand(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func usageError(format string, args ...any) error {
	return apperrors.New(apperrors.CodeUsage, fmt.Sprintf(format, args...))
}

// optionalString returns a pointer to the flag value only when the flag
// was set, so edits can distinguish "clear" from "leave unchanged".
func optionalString(fs *flag.FlagSet, name string, value *string) *string {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	if !set {
		return nil
	}
	return value
}
