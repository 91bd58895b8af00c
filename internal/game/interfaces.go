package game

import (
	"context"

	"github.com/samdwyer/sortie/internal/api"
	"github.com/samdwyer/sortie/internal/combat"
)

// API is the remote game server. *api.Client implements it.
type API interface {
	Sally(ctx context.Context) (*api.SallyInfo, error)
	RecoverEventCost(ctx context.Context, eventID, num int) error
	Sortie(ctx context.Context, party, episode, field int) error
	Forward(ctx context.Context) (*api.ForwardResult, error)
	EventSally(ctx context.Context, req api.EventSally) (*api.EventSallyResult, error)
	EventForward(ctx context.Context, req api.EventForward) (*api.ForwardResult, error)
	Battle(ctx context.Context, formation int) (*api.EncryptedReport, error)
	AllOutBattle(ctx context.Context, party int) (*api.EncryptedReport, error)
	SallyPartyInfo(ctx context.Context) error
	HomeReturn(ctx context.Context) error
	EventReturn(ctx context.Context) (*api.EventReturnResult, error)
	Home(ctx context.Context) error
	PartyList(ctx context.Context) (*api.PartyList, error)
}

// Team is the party a run fights with. *entity.Party implements it.
type Team interface {
	ID() int
	CanContinue() bool
	AliveCombatantCount() int
	// MemberIsIncapacitated reports on a 1-based slot; slot 1 is the leader.
	MemberIsIncapacitated(slot int) bool
	OnSessionStart()
	OnSessionEnd()
	ApplyBattleReport(rank combat.Rank, mvp int, slots map[int]api.SlotResult)
	Render()
}

// Printer receives progress output. *ui.Printer implements it.
type Printer interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Highlight(format string, args ...any)
	Table(title string, headers []string, rows [][]string)
}

var _ API = (*api.Client)(nil)
