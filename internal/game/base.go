package game

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/samdwyer/sortie/internal/api"
	"github.com/samdwyer/sortie/internal/combat"
	"github.com/samdwyer/sortie/internal/gamedata"
	applog "github.com/samdwyer/sortie/internal/log"
	"github.com/samdwyer/sortie/internal/telemetry"
)

// base carries what every strategy shares: collaborators and the battle
// report handling.
type base struct {
	name  string
	gates Gates
	Deps
	log zerolog.Logger

	formation int // enemy formation of the last scouted cell
}

func newBase(name string, gates Gates, d Deps) base {
	d = d.withDefaults()
	return base{
		name:  name,
		gates: gates,
		Deps:  d,
		log:   applog.WithComponent("game").With().Str(applog.FieldVariant, name).Logger(),
	}
}

func (b *base) Name() string { return b.name }
func (b *base) Gates() Gates { return b.gates }

// ExtraTermination is the default: no variant-specific stop.
func (b *base) ExtraTermination(*Session) bool { return false }

// scout records the enemy formation of a battle cell.
func (b *base) scout(res *api.ForwardResult) PointKind {
	enemy, ok := res.Encounter()
	if !ok {
		return PointMaterial
	}
	b.formation = int(enemy.FormationID)
	return PointBattle
}

// favorable returns the formation that counters the last scouted enemy.
func (b *base) favorable() int {
	return int(combat.FavorableFormation(b.formation, b.RNG))
}

// fight decodes a battle report and applies it to the team. A report
// without a result is reported and otherwise ignored.
func (b *base) fight(ctx context.Context, s *Session, enc *api.EncryptedReport) (*api.BattleReport, error) {
	report, err := enc.Decode()
	if err != nil {
		return nil, &StageError{Stage: StageBattle, Err: err}
	}
	s.Battles++

	if report.Result == nil {
		b.Out.Warn("abnormal battle report")
		return report, nil
	}
	result := report.Result
	rank := combat.RankOf(int(result.Rank))
	b.Team.ApplyBattleReport(rank, int(result.MVP), result.Slots())
	telemetry.RecordBattle(b.name, rank.String())
	b.Out.Info("battle %d: rank %s", s.Battles, rank)
	b.log.Debug().
		Str(applog.FieldRank, rank.String()).
		Int(applog.FieldCell, s.Cell).
		Msg("battle resolved")

	if rank.Defeated() {
		s.Settle(StatusDefeated)
	}
	b.announceSword(ctx, int(result.GetSwordID))
	return report, nil
}

func (b *base) announceSword(ctx context.Context, id int) {
	if id == 0 {
		return
	}
	name, ok, err := b.Catalog.SwordName(ctx, id)
	if err != nil {
		b.log.Warn().Err(err).Int("sword_id", id).Msg("catalog lookup failed")
	}
	if ok {
		b.Out.Highlight("new sword: %s", name)
		return
	}
	b.Out.Highlight("new sword #%d (not in catalog)", id)
}

// currentEvent reads the sally overview and the running event.
func (b *base) currentEvent(ctx context.Context) (*api.SallyInfo, api.EventInfo, error) {
	info, err := b.API.Sally(ctx)
	if err != nil {
		return nil, api.EventInfo{}, err
	}
	ev, ok, err := info.CurrentEvent()
	if err != nil {
		return nil, api.EventInfo{}, err
	}
	if !ok {
		return nil, api.EventInfo{}, ErrNoEvent
	}
	b.Out.Info("koban held: %d", int(info.Currency.Money))
	return info, ev, nil
}

// ensureTickets recovers the event's full ticket allowance when none are
// left.
func (b *base) ensureTickets(ctx context.Context, ev EventConfig) error {
	b.Out.Info("tickets: %d/%d", ev.TicketsRest(), ev.TicketsMax())
	if ev.TicketsRest() > 0 {
		return nil
	}
	n := ev.TicketsMax()
	if n < 1 || n > 3 {
		return &StageError{Stage: StageTickets, Err: fmt.Errorf("cannot recover %d tickets", n)}
	}
	if err := b.API.RecoverEventCost(ctx, ev.EventID(), n); err != nil {
		return &StageError{Stage: StageTickets, Err: err}
	}
	telemetry.RecordTickets(b.name, "recovered", n)
	b.Out.Info("recovered %d tickets", n)
	return nil
}

// spendTicket records the ticket consumed by a successful setup call.
func (b *base) spendTicket(s *Session) {
	s.TicketsUsed++
	telemetry.RecordTickets(b.name, "spent", 1)
	b.Out.Info("used 1 ticket")
}

// eventSally starts an event session.
func (b *base) eventSally(ctx context.Context, req api.EventSally) (*api.EventSallyResult, error) {
	res, err := b.API.EventSally(ctx, req)
	if err != nil {
		return nil, &StageError{Stage: StagePrepare, Err: err}
	}
	return res, nil
}

// printResources lists rewards by resource type, adding type 1 items to
// the collectible counter instead.
func (b *base) printResources(s *Session, title string, rewards []api.RewardItem) {
	var rows [][]string
	for _, r := range rewards {
		if r.ItemType == 1 {
			s.Collected += int(r.ItemNum)
			continue
		}
		c := b.Classifier.Classify(gamedata.SchemeResourceType, int(r.ItemType), int(r.ItemID))
		rows = append(rows, []string{c.Label(), strconv.Itoa(int(r.ItemNum))})
	}
	if len(rows) > 0 {
		b.Out.Table(title, []string{"item", "count"}, rows)
	}
}

// leaveSession ends the team's session and, when the server can still be
// reached, runs home.
func (b *base) leaveSession(ctx context.Context, s *Session, home func(context.Context) error) error {
	if !s.Started() {
		return nil
	}
	b.Team.OnSessionEnd()
	if !s.Remote() || home == nil {
		return nil
	}
	return home(ctx)
}

// leaderDown reports whether the leader is incapacitated; such sessions are
// closed by the server without a return call.
func (b *base) leaderDown(s *Session) bool {
	if s.Status() == StatusTeamStatusBad {
		b.Out.Warn("team status is bad")
	}
	if b.Team.MemberIsIncapacitated(1) {
		b.Out.Warn("leader is incapacitated, returning without a return call")
		return true
	}
	return false
}

func isMissing(err error) bool { return errors.Is(err, api.ErrMissingSubReport) }
