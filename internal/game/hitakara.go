package game

import (
	"context"
	"strconv"

	"github.com/samdwyer/sortie/internal/api"
	"github.com/samdwyer/sortie/internal/gamedata"
)

// hitakaraGimmick is the board state attached to battles and the return call.
type hitakaraGimmick struct {
	Bonus    api.Int  `json:"bonus"`
	IsFinish api.Flag `json:"is_finish"`
	Draw     api.Int  `json:"draw"`
	SettleUp api.Optional[struct {
		Takeout api.Optional[hitakaraTakeout] `json:"takeout"`
	}] `json:"settle_up"`
}

// takeout returns the settled takeout, or nil while the board is open.
func (g *hitakaraGimmick) takeout() *hitakaraTakeout {
	if settle := g.SettleUp.Get(); settle != nil {
		return settle.Takeout.Get()
	}
	return nil
}

type hitakaraTakeout struct {
	Point      api.Int                          `json:"point"`
	Instrument api.Optional[map[string]api.Int] `json:"instrument"`
}

// hitakara runs the treasure village board: cards drawn on material cells
// are worth jewels, and each ghost fire doubles later jewels.
type hitakara struct {
	base
	event   EventConfig
	draw    int
	takeout *hitakaraTakeout
}

func newHitakara(d Deps, _ Options) (Strategy, error) {
	return &hitakara{base: newBase("hitakara", GateAliveFloor, d)}, nil
}

func (h *hitakara) Prepare(ctx context.Context, s *Session) error {
	info, ev, err := h.currentEvent(ctx)
	if err != nil {
		return err
	}
	fields := ev.Fields()
	if len(fields) == 0 {
		return ErrNoField
	}
	h.event = eventConfigFrom(info, ev, int(fields[len(fields)-1].FieldID), 0)
	h.Out.Info("jewels held: %d", h.event.PointBalance())

	if err := h.ensureTickets(ctx, h.event); err != nil {
		return err
	}
	if _, err := h.eventSally(ctx, api.HitakaraSally{
		EventID: h.event.EventID(),
		PartyNo: h.Team.ID(),
		FieldID: h.event.FieldID(),
	}); err != nil {
		return err
	}
	h.spendTicket(s)
	s.Cell = 1
	return nil
}

func (h *hitakara) Advance(ctx context.Context, s *Session) (PointKind, error) {
	res, err := h.API.EventForward(ctx, api.HitakaraForward{SquareID: s.Cell})
	if err != nil {
		return PointNone, err
	}
	s.Cell = int(res.SquareID)
	s.MarkFinished(bool(res.IsFinish))

	if kind := h.scout(res); kind == PointBattle {
		return kind, nil
	}
	h.draw = 0
	var g hitakaraGimmick
	if err := res.Sub("gimmick", &g); err == nil {
		h.draw = int(g.Draw)
	} else if !isMissing(err) {
		return PointNone, err
	}
	return PointMaterial, nil
}

func (h *hitakara) ResolveBattle(ctx context.Context, s *Session) error {
	enc, err := h.API.Battle(ctx, h.favorable())
	if err != nil {
		return err
	}
	report, err := h.fight(ctx, s, enc)
	if err != nil {
		return err
	}
	var g hitakaraGimmick
	if err := report.Sub("gimmick", &g); err != nil {
		return err
	}
	s.Points += int(g.Bonus)
	if t := g.takeout(); t != nil {
		h.takeout = t
		s.MarkFinished(bool(g.IsFinish))
	}
	return nil
}

func (h *hitakara) ResolveReward(_ context.Context, s *Session) error {
	if h.draw == 0 {
		return nil
	}
	card := h.Cards.Resolve(h.draw)
	switch card.Kind {
	case gamedata.CardJewel:
		points := card.JewelPoints(s.Fires)
		s.Points += points
		h.Out.Info("obtained %d jewels", points)
	case gamedata.CardGhostFire:
		s.Fires++
		h.Out.Info("drew %s, jewels now x%d", card.Name, 1<<s.Fires)
	case gamedata.CardUnknown:
		h.Out.Warn("drew unknown card %d", card.ID)
	default:
		h.Out.Info("encountered %s", card.Name)
	}
	return nil
}

// WrapUp abandons the event when the team status is bad, then prints the
// takeout.
func (h *hitakara) WrapUp(ctx context.Context, s *Session) error {
	if !s.Started() {
		return nil
	}
	var err error
	if s.Status() == StatusTeamStatusBad && s.Remote() {
		err = h.abandon(ctx, s)
	}
	h.printTakeout(s)
	h.Team.OnSessionEnd()
	return err
}

func (h *hitakara) abandon(ctx context.Context, s *Session) error {
	res, err := h.API.EventReturn(ctx)
	if err != nil {
		return err
	}
	var g hitakaraGimmick
	if err := res.Sub("gimmick", &g); err != nil {
		return err
	}
	if t := g.takeout(); t != nil {
		h.takeout = t
		s.Points = int(t.Point)
	}
	return nil
}

func (h *hitakara) printTakeout(s *Session) {
	if h.takeout == nil {
		h.Out.Warn("no takeout (%d jewels counted)", s.Points)
		return
	}
	headers := []string{"jewels"}
	row := []string{strconv.Itoa(int(h.takeout.Point))}
	for _, inst := range h.Cards.Instruments() {
		headers = append(headers, inst.Name)
		row = append(row, strconv.Itoa(int(h.takeout.Instrument.Value[strconv.Itoa(inst.ID)])))
	}
	h.Out.Table("takeout", headers, [][]string{row})
}
