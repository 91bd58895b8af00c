package game

import (
	"context"
	"strconv"

	"github.com/samdwyer/sortie/internal/api"
)

const fireworkEventID = 89

type hanabi struct {
	Point api.Int `json:"point"`
}

// firework runs the firework retake event. The server reports the running
// firework total, which replaces Session.Collected.
type firework struct {
	base
	event   EventConfig
	rewards []api.RewardItem
}

func newFirework(d Deps, _ Options) (Strategy, error) {
	return &firework{base: newBase("firework", GateTeamStatus, d)}, nil
}

func (f *firework) Prepare(ctx context.Context, s *Session) error {
	info, ev, err := f.currentEvent(ctx)
	if err != nil {
		return err
	}
	fields := ev.Fields()
	if len(fields) == 0 {
		return ErrNoField
	}
	first := fields[0]
	f.event = eventConfigFrom(info, ev, int(first.FieldID), int(first.LayerNum)).withEventID(fireworkEventID)

	if _, err := f.eventSally(ctx, api.FireworkSally{
		EventID: f.event.EventID(),
		PartyNo: f.Team.ID(),
		FieldID: f.event.FieldID(),
		LayerID: f.event.LayerID(),
	}); err != nil {
		return err
	}
	return nil
}

func (f *firework) Advance(ctx context.Context, s *Session) (PointKind, error) {
	res, err := f.API.EventForward(ctx, api.DirectionForward{})
	if err != nil {
		return PointNone, err
	}
	s.Cell = int(res.SquareID)
	s.MarkFinished(bool(res.IsFinish))

	kind := f.scout(res)
	if kind == PointMaterial {
		f.rewards = res.Reward
	}
	return kind, nil
}

func (f *firework) ResolveBattle(ctx context.Context, s *Session) error {
	enc, err := f.API.Battle(ctx, f.favorable())
	if err != nil {
		return err
	}
	report, err := f.fight(ctx, s, enc)
	if err != nil {
		return err
	}
	var h hanabi
	if err := report.Sub("hanabi", &h); err != nil {
		return err
	}
	s.Collected = int(h.Point)
	return nil
}

func (f *firework) ResolveReward(_ context.Context, s *Session) error {
	f.printResources(s, "rewards", f.rewards)
	f.rewards = nil
	return nil
}

func (f *firework) WrapUp(ctx context.Context, s *Session) error {
	if !s.Started() {
		return nil
	}
	f.Out.Table("takeout", []string{"fireworks"}, [][]string{{strconv.Itoa(s.Collected)}})
	return f.leaveSession(ctx, s, f.API.Home)
}
