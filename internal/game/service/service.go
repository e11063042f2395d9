// Package service orchestrates game operations over storage and the AI
// client. It owns the "current context" resolution: which game, act, and
// scene commands apply to when none is named explicitly.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/louisbranch/soloscribe/internal/ai"
	apperrors "github.com/louisbranch/soloscribe/internal/errors"
	"github.com/louisbranch/soloscribe/internal/game"
	"github.com/louisbranch/soloscribe/internal/game/derive"
	"github.com/louisbranch/soloscribe/internal/storage"
)

// Service exposes all game operations. Construct it once with New; the
// dependency graph is explicit and immutable afterwards.
type Service struct {
	store storage.Store
	ai    ai.Client
	now   func() time.Time
	newID func() string
	seed  func() int64
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the ID source.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithSeed overrides the dice seed source.
func WithSeed(seed func() int64) Option {
	return func(s *Service) {
		if seed != nil {
			s.seed = seed
		}
	}
}

// New creates a Service. The AI client may be nil; AI-dependent
// operations then fail with an unavailability error instead of calling
// out.
func New(store storage.Store, aiClient ai.Client, opts ...Option) *Service {
	s := &Service{
		store: store,
		ai:    aiClient,
		now:   time.Now,
		newID: uuid.NewString,
		seed:  func() int64 { return time.Now().UnixNano() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// mapNotFound converts the storage sentinel into an entity-specific
// coded error, leaving other errors wrapped as internal.
func mapNotFound(err error, code apperrors.Code, message string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.New(code, message)
	}
	return fmt.Errorf("%s: %w", message, err)
}

// requireActiveGame resolves the active game or fails with a
// precondition error.
func (s *Service) requireActiveGame(ctx context.Context) (*game.Game, error) {
	g, err := s.store.GetActiveGame(ctx)
	if err != nil {
		return nil, mapNotFound(err, apperrors.CodeNoActiveGame, "no active game, create or activate one first")
	}
	return g, nil
}

// requireActiveAct resolves the active act of the active game through
// the derived-accessor catalogue.
func (s *Service) requireActiveAct(ctx context.Context) (*game.Act, error) {
	g, err := s.requireActiveGame(ctx)
	if err != nil {
		return nil, err
	}

	spec, ok := derive.Lookup(derive.EntityGame, "ActiveAct")
	if !ok {
		return nil, fmt.Errorf("accessor ActiveAct is not registered")
	}
	actID, found, err := s.store.EvalNavigate(ctx, spec, g.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve active act: %w", err)
	}
	if !found {
		return nil, apperrors.New(apperrors.CodeNoActiveAct, "no active act, create or activate one first")
	}

	act, err := s.store.GetAct(ctx, actID)
	if err != nil {
		return nil, mapNotFound(err, apperrors.CodeActNotFound, "act not found")
	}
	return act, nil
}

// requireActiveScene resolves the active scene of the active act.
func (s *Service) requireActiveScene(ctx context.Context) (*game.Scene, error) {
	act, err := s.requireActiveAct(ctx)
	if err != nil {
		return nil, err
	}

	spec, ok := derive.Lookup(derive.EntityAct, "ActiveScene")
	if !ok {
		return nil, fmt.Errorf("accessor ActiveScene is not registered")
	}
	sceneID, found, err := s.store.EvalNavigate(ctx, spec, act.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve active scene: %w", err)
	}
	if !found {
		return nil, apperrors.New(apperrors.CodeNoActiveScene, "no active scene, create or activate one first")
	}

	scene, err := s.store.GetScene(ctx, sceneID)
	if err != nil {
		return nil, mapNotFound(err, apperrors.CodeSceneNotFound, "scene not found")
	}
	return scene, nil
}
