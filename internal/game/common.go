package game

import (
	"context"
	"errors"
	"slices"

	"github.com/samdwyer/sortie/internal/api"
	"github.com/samdwyer/sortie/internal/gamedata"
)

// common runs a regular map.
type common struct {
	base
	opts    Options
	rewards []api.RewardItem
}

func newCommon(d Deps, opts Options) (Strategy, error) {
	if opts.Episode <= 0 || opts.Field <= 0 {
		return nil, errors.New("common: episode and field are required")
	}
	return &common{base: newBase("common", GateTeamStatus, d), opts: opts}, nil
}

func (c *common) Prepare(ctx context.Context, s *Session) error {
	if err := c.API.Sortie(ctx, c.Team.ID(), c.opts.Episode, c.opts.Field); err != nil {
		return &StageError{Stage: StagePrepare, Err: err}
	}
	c.Out.Info("sortie to %d-%d", c.opts.Episode, c.opts.Field)
	return nil
}

func (c *common) Advance(ctx context.Context, s *Session) (PointKind, error) {
	res, err := c.API.Forward(ctx)
	if err != nil {
		return PointNone, err
	}
	s.Cell = int(res.SquareID)
	s.MarkFinished(bool(res.IsFinish))

	kind := c.scout(res)
	if kind == PointMaterial {
		c.rewards = res.Reward
	}
	return kind, nil
}

func (c *common) ResolveBattle(ctx context.Context, s *Session) error {
	formation := c.Config.CommonFormation
	if formation == 0 {
		formation = c.favorable()
	}
	enc, err := c.API.Battle(ctx, formation)
	if err != nil {
		return err
	}
	report, err := c.fight(ctx, s, enc)
	if err != nil {
		return err
	}
	s.MarkFinished(bool(report.Finish))
	return nil
}

func (c *common) ResolveReward(_ context.Context, s *Session) error {
	for _, r := range c.rewards {
		item := c.Classifier.Classify(gamedata.SchemeItemID, int(r.ItemType), int(r.ItemID))
		c.Out.Info("obtained %s x%d", item.Label(), int(r.ItemNum))
	}
	c.rewards = nil
	return nil
}

// ExtraTermination stops sakura runs after one step and grind runs on the
// cell before the boss.
func (c *common) ExtraTermination(s *Session) bool {
	if c.opts.Sakura {
		return true
	}
	if !c.Config.GrindMode {
		return false
	}
	return slices.Contains(c.Config.preBossCells(c.opts.Episode, c.opts.Field), s.Cell)
}

func (c *common) WrapUp(ctx context.Context, s *Session) error {
	return c.leaveSession(ctx, s, c.API.HomeReturn)
}
