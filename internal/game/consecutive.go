package game

import (
	"context"

	"github.com/samdwyer/sortie/internal/api"
)

// consecutiveDefaultField is the battle map used when the event does not
// name a special one.
const consecutiveDefaultField = 4

type allout struct {
	GetPoint api.Int `json:"get_point"`
	SettleUp api.Optional[struct {
		Takeout api.Optional[struct {
			Point api.Int `json:"point"`
		}] `json:"takeout"`
	}] `json:"settle_up"`
}

// consecutive runs one battle of the consecutive team battle event. The map
// has a single node, so every run resolves exactly one battle.
type consecutive struct {
	base
	event EventConfig
}

func newConsecutive(d Deps, _ Options) (Strategy, error) {
	return &consecutive{base: newBase("consecutive", GateBoth, d)}, nil
}

func (c *consecutive) Prepare(ctx context.Context, s *Session) error {
	info, ev, err := c.currentEvent(ctx)
	if err != nil {
		return err
	}
	field := int(ev.Allout.ModeChangeFieldID)
	if field != 0 {
		c.Out.Highlight("special field %d is open", field)
	} else {
		field = consecutiveDefaultField
	}
	c.event = eventConfigFrom(info, ev, field, 1)

	if err := c.ensureTickets(ctx, c.event); err != nil {
		return err
	}
	if _, err := c.eventSally(ctx, api.ConsecutiveSally{
		EventID: c.event.EventID(),
		PartyNo: c.Team.ID(),
		FieldID: c.event.FieldID(),
		LayerID: c.event.LayerID(),
	}); err != nil {
		return err
	}
	c.spendTicket(s)
	return nil
}

// Advance refreshes the party listing; the only cell is a battle.
func (c *consecutive) Advance(ctx context.Context, s *Session) (PointKind, error) {
	if err := c.API.SallyPartyInfo(ctx); err != nil {
		return PointNone, err
	}
	s.Cell = 1
	return PointBattle, nil
}

func (c *consecutive) ResolveBattle(ctx context.Context, s *Session) error {
	enc, err := c.API.AllOutBattle(ctx, c.Team.ID())
	if err != nil {
		return err
	}
	report, err := c.fight(ctx, s, enc)
	if err != nil {
		return err
	}
	var a allout
	if err := report.Sub("allout", &a); err != nil && !isMissing(err) {
		return err
	}
	if n := int(a.GetPoint); n != 0 {
		s.Points += n
		c.Out.Info("obtained %d points", n)
	}
	if settle := a.SettleUp.Get(); settle != nil {
		if t := settle.Takeout.Get(); t != nil {
			if t.Point < 0 {
				c.Out.Warn("abnormal takeout %d", int(t.Point))
			} else {
				c.Out.Highlight("takeout: %d points", int(t.Point))
			}
		}
	}
	s.MarkFinished(bool(report.Finish))
	return nil
}

// ResolveReward is never reached: the only cell is a battle.
func (c *consecutive) ResolveReward(context.Context, *Session) error { return nil }

// ExtraTermination stops after the single battle.
func (c *consecutive) ExtraTermination(s *Session) bool { return s.Battles >= 1 }

func (c *consecutive) WrapUp(ctx context.Context, s *Session) error {
	if !s.Started() {
		return nil
	}
	c.Team.OnSessionEnd()
	if c.leaderDown(s) || !s.Remote() {
		return nil
	}
	if s.Status() == StatusTeamStatusBad {
		_, err := c.API.EventReturn(ctx)
		return err
	}
	return c.API.Home(ctx)
}
