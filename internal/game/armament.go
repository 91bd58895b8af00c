package game

import (
	"context"

	"github.com/samdwyer/sortie/internal/api"
	"github.com/samdwyer/sortie/internal/gamedata"
)

const armamentEventID = 90

// armament runs the armament expansion event. It prefers the first map not
// yet cleared.
type armament struct {
	base
	event   EventConfig
	rewards []api.RewardItem
}

func newArmament(d Deps, _ Options) (Strategy, error) {
	return &armament{base: newBase("armament", GateBoth, d)}, nil
}

func (a *armament) Prepare(ctx context.Context, s *Session) error {
	info, ev, err := a.currentEvent(ctx)
	if err != nil {
		return err
	}
	fields := ev.Fields()
	if len(fields) == 0 {
		return ErrNoField
	}
	field := fields[len(fields)-1]
	for _, f := range fields {
		if !f.Finished() {
			field = f
			a.Out.Info("attacking the first uncleared map")
			break
		}
	}
	a.event = eventConfigFrom(info, ev, int(field.FieldID), int(field.LayerNum)).withEventID(armamentEventID)

	if _, err := a.eventSally(ctx, api.ArmamentSally{
		EventID: a.event.EventID(),
		PartyNo: a.Team.ID(),
		FieldID: a.event.FieldID(),
	}); err != nil {
		return err
	}
	a.Out.Info("attacking map %d", a.event.FieldID())
	return nil
}

func (a *armament) Advance(ctx context.Context, s *Session) (PointKind, error) {
	res, err := a.API.EventForward(ctx, api.DirectionForward{})
	if err != nil {
		return PointNone, err
	}
	s.Cell = int(res.SquareID)
	s.MarkFinished(bool(res.IsFinish))

	kind := a.scout(res)
	if kind == PointMaterial {
		a.rewards = res.Reward
	}
	return kind, nil
}

func (a *armament) ResolveBattle(ctx context.Context, s *Session) error {
	enc, err := a.API.Battle(ctx, a.favorable())
	if err != nil {
		return err
	}
	report, err := a.fight(ctx, s, enc)
	if err != nil {
		return err
	}
	if report.Result != nil {
		a.listRewards(ctx, report.Result.Reward)
	}
	s.MarkFinished(bool(report.Finish))
	return nil
}

func (a *armament) ResolveReward(ctx context.Context, _ *Session) error {
	a.listRewards(ctx, a.rewards)
	a.rewards = nil
	return nil
}

func (a *armament) listRewards(ctx context.Context, rewards []api.RewardItem) {
	for _, r := range rewards {
		item := a.Classifier.Classify(gamedata.SchemeRewardKind, int(r.ItemType), int(r.ItemID))
		name := item.Label()
		if item.Category == gamedata.CategoryEquipment {
			if n, ok, err := a.Catalog.EquipmentName(ctx, item.ID); err == nil && ok {
				name = n
			}
		}
		a.Out.Info("obtained %s x%d", name, int(r.ItemNum))
	}
}

func (a *armament) WrapUp(ctx context.Context, s *Session) error {
	if !s.Started() {
		return nil
	}
	a.Team.OnSessionEnd()
	if a.leaderDown(s) || !s.Remote() {
		return nil
	}
	a.Out.Info("returning home")
	return a.API.Home(ctx)
}
