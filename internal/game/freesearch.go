package game

import (
	"context"

	"github.com/samdwyer/sortie/internal/api"
	"github.com/samdwyer/sortie/internal/world"
)

// freesearchStartMoves is the move budget before the server reports one.
const freesearchStartMoves = 6

type freesearchReport struct {
	Next     []api.Int                    `json:"next"`
	IsFinish api.Flag                     `json:"is_finish"`
	Movement *api.Int                     `json:"movement"`
	Incident api.Optional[freesearchKeys] `json:"incident"`
	Bonus    api.Optional[freesearchKeys] `json:"bonus"`
	SettleUp api.Optional[struct {
		Takeout *api.Int `json:"takeout"`
	}] `json:"settle_up"`
}

type freesearchKeys struct {
	KeyNum api.Int `json:"key_num"`
}

// freesearch runs the castle infiltration event. The route is chosen by
// the planner; keys are counted in Session.Points.
type freesearch struct {
	base
	event   EventConfig
	pending *freesearchReport
	takeout *int
}

func newFreesearch(d Deps, _ Options) (Strategy, error) {
	return &freesearch{base: newBase("freesearch", GateBoth, d)}, nil
}

func (f *freesearch) Prepare(ctx context.Context, s *Session) error {
	info, ev, err := f.currentEvent(ctx)
	if err != nil {
		return err
	}
	fields := ev.Fields()
	if len(fields) == 0 {
		return ErrNoField
	}
	f.event = eventConfigFrom(info, ev, int(fields[len(fields)-1].FieldID), 0)

	if err := f.ensureTickets(ctx, f.event); err != nil {
		return err
	}
	res, err := f.eventSally(ctx, api.FreesearchSally{
		EventID: f.event.EventID(),
		PartyNo: f.Team.ID(),
		FieldID: f.event.FieldID(),
	})
	if err != nil {
		return err
	}
	f.spendTicket(s)

	s.Cell = world.ReferenceStart
	s.MovesLeft = freesearchStartMoves
	var fs freesearchReport
	if err := res.Sub("freesearch", &fs); err == nil {
		s.Candidates = cells(fs.Next)
	}
	return nil
}

func (f *freesearch) Advance(ctx context.Context, s *Session) (PointKind, error) {
	s.Trace = append(s.Trace, s.Cell)
	direction := f.Planner.Next(ctx, s.Cell, s.MovesLeft, s.Trace)

	res, err := f.API.EventForward(ctx, api.DirectionForward{Direction: direction})
	if err != nil {
		return PointNone, err
	}
	s.Cell = int(res.SquareID)
	s.MarkFinished(bool(res.IsFinish))

	f.pending = nil
	var fs freesearchReport
	if err := res.Sub("freesearch", &fs); err == nil {
		s.Candidates = cells(fs.Next)
		f.pending = &fs
	}
	return f.scout(res), nil
}

func (f *freesearch) ResolveBattle(ctx context.Context, s *Session) error {
	enc, err := f.API.Battle(ctx, f.favorable())
	if err != nil {
		return err
	}
	report, err := f.fight(ctx, s, enc)
	if err != nil {
		return err
	}
	var fs freesearchReport
	if err := report.Sub("freesearch", &fs); err != nil {
		return err
	}
	f.check(s, &fs)
	s.MarkFinished(bool(fs.IsFinish))
	s.Candidates = cells(fs.Next)
	return nil
}

func (f *freesearch) ResolveReward(_ context.Context, s *Session) error {
	if f.pending != nil {
		f.check(s, f.pending)
		f.pending = nil
	}
	return nil
}

// check counts keys from an incident, or else a bonus, and takes the new
// move budget and takeout when reported.
func (f *freesearch) check(s *Session, fs *freesearchReport) {
	keys := fs.Incident.Get()
	if keys == nil {
		keys = fs.Bonus.Get()
	}
	if keys != nil {
		s.Points += int(keys.KeyNum)
		f.Out.Info("obtained %d keys", int(keys.KeyNum))
	}
	if fs.Movement != nil {
		s.MovesLeft = int(*fs.Movement)
	}
	if settle := fs.SettleUp.Get(); settle != nil && settle.Takeout != nil {
		n := int(*settle.Takeout)
		f.takeout = &n
	}
}

// ExtraTermination stops once the move budget is spent.
func (f *freesearch) ExtraTermination(s *Session) bool { return s.MovesLeft <= 0 }

func (f *freesearch) WrapUp(ctx context.Context, s *Session) error {
	if !s.Started() {
		return nil
	}
	if f.takeout == nil {
		f.Out.Warn("no takeout")
	} else {
		f.Out.Highlight("keys obtained: %d", *f.takeout)
	}
	return f.leaveSession(ctx, s, f.API.Home)
}

func cells(ids []api.Int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		out = append(out, int(id))
	}
	return out
}
