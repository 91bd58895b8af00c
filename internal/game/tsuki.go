package game

import (
	"context"
	"strconv"

	"github.com/samdwyer/sortie/internal/api"
)

const dangoItemID = 37

type tsukimi struct {
	Next   []api.Int                 `json:"next"`
	Rabbit api.Optional[tsukiRabbit] `json:"rabbit"`
}

type tsukiRabbit struct {
	ItemID api.Int `json:"item_id"`
	Num    api.Int `json:"num"`
}

// tsuki runs the moon viewing event. Dango are counted in Session.Collected
// and the next step is picked at random from the offered cells.
type tsuki struct {
	base
	event   EventConfig
	rewards []api.RewardItem
}

func newTsuki(d Deps, _ Options) (Strategy, error) {
	return &tsuki{base: newBase("tsuki", GateTeamStatus, d)}, nil
}

func (t *tsuki) Prepare(ctx context.Context, s *Session) error {
	info, ev, err := t.currentEvent(ctx)
	if err != nil {
		return err
	}
	fields := ev.Fields()
	if len(fields) == 0 {
		return ErrNoField
	}
	first := fields[0]
	t.event = eventConfigFrom(info, ev, int(first.FieldID), int(first.LayerNum))

	res, err := t.eventSally(ctx, api.TsukiSally{
		EventID: t.event.EventID(),
		PartyNo: t.Team.ID(),
		FieldID: t.event.FieldID(),
		LayerID: t.event.LayerID(),
	})
	if err != nil {
		return err
	}
	if _, err := t.offer(s, res.Sub); err != nil && !isMissing(err) {
		return err
	}
	return nil
}

// offer replaces the candidate cells from a tsukimi sub-report. A missing
// sub-report clears them.
func (t *tsuki) offer(s *Session, sub func(string, any) error) (*tsukimi, error) {
	var m tsukimi
	if err := sub("tsukimi", &m); err != nil {
		s.Candidates = nil
		return nil, err
	}
	s.Candidates = s.Candidates[:0]
	for _, c := range m.Next {
		s.Candidates = append(s.Candidates, int(c))
	}
	return &m, nil
}

func (t *tsuki) Advance(ctx context.Context, s *Session) (PointKind, error) {
	direction := 0
	if n := len(s.Candidates); n > 0 {
		direction = s.Candidates[t.RNG.Intn(n)]
	}
	res, err := t.API.EventForward(ctx, api.DirectionForward{Direction: direction})
	if err != nil {
		return PointNone, err
	}
	s.Cell = int(res.SquareID)
	s.MarkFinished(bool(res.IsFinish))
	if _, err := t.offer(s, res.Sub); err != nil && !isMissing(err) {
		return PointNone, err
	}

	kind := t.scout(res)
	if kind == PointMaterial {
		t.rewards = res.Reward
	}
	return kind, nil
}

func (t *tsuki) ResolveBattle(ctx context.Context, s *Session) error {
	enc, err := t.API.Battle(ctx, t.favorable())
	if err != nil {
		return err
	}
	report, err := t.fight(ctx, s, enc)
	if err != nil {
		return err
	}
	if report.Result != nil {
		for _, r := range report.Result.DropReward {
			if r.ItemID == dangoItemID {
				s.Collected += int(r.ItemNum)
			}
		}
	}
	m, err := t.offer(s, report.Sub)
	if err != nil {
		return err
	}
	if r := m.Rabbit.Get(); r != nil && r.ItemID == dangoItemID {
		s.Collected += int(r.Num)
	}
	return nil
}

func (t *tsuki) ResolveReward(_ context.Context, s *Session) error {
	t.printResources(s, "rewards", t.rewards)
	t.rewards = nil
	return nil
}

func (t *tsuki) WrapUp(ctx context.Context, s *Session) error {
	if !s.Started() {
		return nil
	}
	t.Out.Table("takeout", []string{"dango"}, [][]string{{strconv.Itoa(s.Collected)}})
	return t.leaveSession(ctx, s, nil)
}
