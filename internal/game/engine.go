package game

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/sortie/internal/api"
	applog "github.com/samdwyer/sortie/internal/log"
	"github.com/samdwyer/sortie/internal/telemetry"
)

// Engine drives one strategy through a run.
type Engine struct {
	strategy Strategy
	team     Team
	cfg      Config
	sleep    func(time.Duration)

	failure error
}

// NewEngine builds the named variant.
func NewEngine(variant string, d Deps, opts Options) (*Engine, error) {
	factory, err := Lookup(variant)
	if err != nil {
		return nil, err
	}
	d = d.withDefaults()
	strategy, err := factory(d, opts)
	if err != nil {
		return nil, err
	}
	return newEngine(strategy, d), nil
}

func newEngine(strategy Strategy, d Deps) *Engine {
	d = d.withDefaults()
	return &Engine{
		strategy: strategy,
		team:     d.Team,
		cfg:      d.Config,
		sleep:    d.Sleep,
	}
}

// Failure returns the stage failure that ended the last run, if any.
func (e *Engine) Failure() error { return e.failure }

// Run prepares the session, traverses until a stop condition, and wraps up.
// Stage failures end the run with StatusNotStarted or StatusAborted and a nil
// error; Failure reports them. Connection failures are returned.
func (e *Engine) Run(ctx context.Context) (status Status, err error) {
	runID := uuid.NewString()
	name := e.strategy.Name()
	ctx = applog.ContextWithRunID(ctx, runID)
	ctx = applog.ContextWithVariant(ctx, name)
	logger := applog.WithContext(ctx, applog.WithComponent("engine")).With().
		Int(applog.FieldTeam, e.team.ID()).
		Logger()

	ctx, span := telemetry.Tracer("game").Start(ctx, "engine.run")
	span.SetAttributes(
		attribute.String("run.id", runID),
		attribute.String("run.variant", name),
		attribute.Int("run.team", e.team.ID()),
	)

	s := newSession(runID, name, e.team.ID())
	e.failure = nil
	start := time.Now()
	logger.Info().Msg("run started")

	defer func() {
		wrapErr := e.wrapUp(ctx, s, logger)
		status = e.result(s)
		switch {
		case e.failure != nil && api.IsConnection(e.failure):
			err = e.failure
		case wrapErr != nil:
			err = wrapErr
		}

		elapsed := time.Since(start)
		telemetry.RecordRun(name, status.String(), elapsed)
		span.SetAttributes(
			attribute.String("run.status", status.String()),
			attribute.Int("run.steps", s.Steps),
			attribute.Int("run.battles", s.Battles),
		)
		if e.failure != nil {
			span.RecordError(e.failure)
			span.SetStatus(codes.Error, e.failure.Error())
		}
		span.End()

		logger.Info().
			Str(applog.FieldStatus, status.String()).
			Int("steps", s.Steps).
			Int("battles", s.Battles).
			Dur(applog.FieldDuration, elapsed).
			Msg("run finished")
	}()

	s.state = StatePreparing
	if perr := e.strategy.Prepare(ctx, s); perr != nil {
		e.fail(s, StagePrepare, perr, logger)
		return
	}
	s.started = true
	e.team.OnSessionStart()
	s.state = StateTraversing

	for {
		if e.gateClosed(s, logger) {
			return
		}
		if serr := e.step(ctx, s); serr != nil {
			e.fail(s, "", serr, logger)
			return
		}
		if e.gateClosed(s, logger) || s.done() || e.strategy.ExtraTermination(s) {
			return
		}
		e.sleep(e.cfg.StepDelay)
	}
}

// step advances one cell and resolves it.
func (e *Engine) step(ctx context.Context, s *Session) error {
	ctx, span := telemetry.Tracer("game").Start(ctx, "engine.step")
	defer span.End()

	kind, err := e.strategy.Advance(ctx, s)
	if err != nil {
		return stageErr(StageAdvance, err)
	}
	s.Kind = kind
	s.Steps++
	telemetry.RecordStep(s.Variant, kind.String())
	span.SetAttributes(
		attribute.String("step.kind", kind.String()),
		attribute.Int("step.cell", s.Cell),
	)

	switch kind {
	case PointBattle:
		return stageErr(StageBattle, e.strategy.ResolveBattle(ctx, s))
	case PointMaterial:
		return stageErr(StageReward, e.strategy.ResolveReward(ctx, s))
	}
	return nil
}

// gateClosed applies the team gates of the strategy. Gates only apply while
// the status is still normal.
func (e *Engine) gateClosed(s *Session, logger zerolog.Logger) bool {
	if s.Status() != StatusNormal {
		return false
	}
	gates := e.strategy.Gates()
	switch {
	case gates.Has(GateTeamStatus) && !e.team.CanContinue():
		logger.Info().Msg("team cannot continue")
	case gates.Has(GateAliveFloor) && e.team.AliveCombatantCount() < e.cfg.MinAlive:
		logger.Info().
			Int("alive", e.team.AliveCombatantCount()).
			Int("min_alive", e.cfg.MinAlive).
			Msg("too few members can fight")
	default:
		return false
	}
	s.Settle(StatusTeamStatusBad)
	return true
}

func (e *Engine) fail(s *Session, stage string, err error, logger zerolog.Logger) {
	if stage != "" {
		err = stageErr(stage, err)
	}
	if api.IsConnection(err) {
		s.online = false
	}
	e.failure = err

	var se *StageError
	if errors.As(err, &se) {
		stage = se.Stage
	}
	logger.Error().Err(err).Str(applog.FieldStage, stage).Msg("run failed")
}

func (e *Engine) result(s *Session) Status {
	if e.failure == nil {
		return s.Status()
	}
	if !s.Started() {
		return StatusNotStarted
	}
	if s.Status() != StatusNormal {
		return s.Status()
	}
	return StatusAborted
}

// wrapUp renders the team and runs the strategy's wrap-up. It never
// panics; only a connection failure is returned.
func (e *Engine) wrapUp(ctx context.Context, s *Session, logger zerolog.Logger) (err error) {
	s.state = StateTerminated
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Str(applog.FieldStage, StageWrapUp).Interface("panic", r).Msg("wrap-up panicked")
		}
	}()

	if s.Started() {
		e.team.Render()
	}
	if werr := e.strategy.WrapUp(ctx, s); werr != nil {
		logger.Warn().Err(werr).Str(applog.FieldStage, StageWrapUp).Msg("wrap-up failed")
		if api.IsConnection(werr) {
			s.online = false
			return &StageError{Stage: StageWrapUp, Err: werr}
		}
	}
	return nil
}
