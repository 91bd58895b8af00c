package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/samdwyer/sortie/internal/api"
	"github.com/samdwyer/sortie/internal/config"
	"github.com/samdwyer/sortie/internal/entity"
	"github.com/samdwyer/sortie/internal/game"
	"github.com/samdwyer/sortie/internal/gamedata"
	applog "github.com/samdwyer/sortie/internal/log"
)

// printer is the output the app writes to.
type printer interface {
	game.Printer
	entity.TablePrinter
}

// app repeats runs of one variant with one party.
type app struct {
	variant string
	team    int
	opts    game.Options
	battle  config.BattleConfig

	client  *api.Client
	catalog *gamedata.Catalog
	out     printer
	log     zerolog.Logger

	// wait is replaced in tests.
	wait func(ctx context.Context, d time.Duration) error
}

func newApp(cfg config.Config, variant string, f runFlags, out printer) (*app, error) {
	client, err := api.New(cfg.API.Options())
	if err != nil {
		return nil, err
	}
	var catalog *gamedata.Catalog
	if cfg.Catalog.Path != "" {
		if catalog, err = gamedata.OpenCatalog(cfg.Catalog.Path); err != nil {
			return nil, err
		}
	}
	return &app{
		variant: variant,
		team:    f.team,
		opts:    f.opts,
		battle:  cfg.Battle,
		client:  client,
		catalog: catalog,
		out:     out,
		log:     applog.WithComponent("cli").With().Str(applog.FieldVariant, variant).Logger(),
		wait:    sleepCtx,
	}, nil
}

func (a *app) close() {
	if err := a.catalog.Close(); err != nil {
		a.log.Warn().Err(err).Msg("closing catalog")
	}
}

// repeat runs the variant up to times times. It stops early on defeat or
// when a run cannot start, waits out a bad team status, and returns
// connection failures.
func (a *app) repeat(ctx context.Context, times int) error {
	for i := 1; i <= times; i++ {
		a.out.Info("run %d/%d: %s", i, times, a.variant)
		status, err := a.runOnce(ctx)
		if err != nil {
			return err
		}
		a.out.Info("run %d finished: %s", i, status)

		var pause time.Duration
		switch status {
		case game.StatusDefeated:
			a.out.Warn("party was defeated, stopping")
			return nil
		case game.StatusNotStarted:
			a.out.Warn("run could not start, stopping")
			return nil
		case game.StatusTeamStatusBad:
			pause = a.battle.BadStatusWait
			a.out.Warn("team status is bad, waiting %s", pause)
		default:
			pause = a.battle.Interval
		}
		if i == times {
			break
		}
		if err := a.wait(ctx, pause); err != nil {
			return err
		}
	}
	return nil
}

// runOnce loads the party and runs one engine.
func (a *app) runOnce(ctx context.Context) (game.Status, error) {
	list, err := a.client.PartyList(ctx)
	if err != nil {
		if api.IsConnection(err) {
			return game.StatusNotStarted, err
		}
		a.log.Error().Err(err).Msg("party list failed")
		return game.StatusNotStarted, nil
	}
	party, err := entity.PartyFromList(list, a.team, a.out)
	if err == nil {
		err = party.CheckAvailable()
	}
	if err != nil {
		if errors.Is(err, entity.ErrPartyNotFound) {
			return game.StatusNotStarted, err
		}
		a.out.Warn("%v", err)
		return game.StatusNotStarted, nil
	}

	e, err := game.NewEngine(a.variant, game.Deps{
		API:     a.client,
		Team:    party,
		Out:     a.out,
		Catalog: a.catalog,
		Config:  a.battle.Engine(),
	}, a.opts)
	if err != nil {
		return game.StatusNotStarted, fmt.Errorf("build %s: %w", a.variant, err)
	}
	status, err := e.Run(ctx)
	if failure := e.Failure(); failure != nil && err == nil {
		a.out.Warn("%v", failure)
	}
	return status, err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
