package game

import (
	"context"

	"github.com/samdwyer/sortie/internal/api"
	"github.com/samdwyer/sortie/internal/gamedata"
)

const (
	osakajiEventID = 85
	kobanItemID    = 0
)

type osakajiKoban struct {
	IsRareBoss   api.Flag `json:"is_rare_boss"`
	IsBossDefeat api.Flag `json:"is_boss_defeat"`
}

// osakaji runs the underground castle event floor by floor. Koban are
// counted in Session.Points.
type osakaji struct {
	base
	layer        int
	event        EventConfig
	rewards      []api.RewardItem
	bossDefeated bool
}

func newOsakaji(d Deps, opts Options) (Strategy, error) {
	return &osakaji{base: newBase("osakaji", GateBoth, d), layer: opts.Layer}, nil
}

func (o *osakaji) Prepare(ctx context.Context, s *Session) error {
	info, ev, err := o.currentEvent(ctx)
	if err != nil {
		return err
	}
	fields := ev.Fields()
	if len(fields) == 0 {
		return ErrNoField
	}
	last := fields[len(fields)-1]
	layer := int(last.LayerNum)
	if o.layer > 0 {
		layer = o.layer
	}
	o.event = eventConfigFrom(info, ev, int(last.FieldID), layer).withEventID(osakajiEventID)

	if _, err := o.eventSally(ctx, api.OsakajiSally{
		EventID: o.event.EventID(),
		PartyNo: o.Team.ID(),
		FieldID: o.event.FieldID(),
		LayerID: o.event.LayerID(),
	}); err != nil {
		return err
	}
	o.Out.Info("attacking floor %d", o.event.LayerID())
	return nil
}

func (o *osakaji) Advance(ctx context.Context, s *Session) (PointKind, error) {
	res, err := o.API.EventForward(ctx, api.DirectionForward{})
	if err != nil {
		return PointNone, err
	}
	s.Cell = int(res.SquareID)
	s.MarkFinished(bool(res.IsFinish))

	var koban osakajiKoban
	if err := res.Sub("koban", &koban); err == nil && koban.IsRareBoss {
		o.Out.Highlight("rare boss on this floor")
	}

	kind := o.scout(res)
	if kind == PointMaterial {
		o.rewards = res.Reward
	}
	return kind, nil
}

func (o *osakaji) ResolveBattle(ctx context.Context, s *Session) error {
	enc, err := o.API.Battle(ctx, o.favorable())
	if err != nil {
		return err
	}
	report, err := o.fight(ctx, s, enc)
	if err != nil {
		return err
	}
	if report.Result != nil {
		o.countRewards(s, report.Result.Reward)
	}
	s.MarkFinished(bool(report.Finish))

	var koban osakajiKoban
	if err := report.Sub("koban", &koban); err != nil {
		return err
	}
	o.bossDefeated = bool(koban.IsBossDefeat)
	return nil
}

func (o *osakaji) ResolveReward(_ context.Context, s *Session) error {
	o.countRewards(s, o.rewards)
	o.rewards = nil
	return nil
}

func (o *osakaji) countRewards(s *Session, rewards []api.RewardItem) {
	for _, r := range rewards {
		if r.ItemID == kobanItemID {
			if n := int(r.ItemNum) + int(r.Bonus); n > 0 {
				s.Points += n
				o.Out.Info("obtained %d koban", n)
			}
			continue
		}
		item := o.Classifier.Classify(gamedata.SchemeItemID, int(r.ItemType), int(r.ItemID))
		o.Out.Info("obtained %s", item.Label())
	}
}

// ExtraTermination stops once the floor boss is beaten.
func (o *osakaji) ExtraTermination(*Session) bool { return o.bossDefeated }

func (o *osakaji) WrapUp(ctx context.Context, s *Session) error {
	if !s.Started() {
		return nil
	}
	o.Team.OnSessionEnd()
	if o.leaderDown(s) || !s.Remote() {
		return nil
	}
	_, err := o.API.EventReturn(ctx)
	return err
}
