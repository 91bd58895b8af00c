package entity

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/samdwyer/sortie/internal/api"
	"github.com/samdwyer/sortie/internal/combat"
)

// MaxSlots is the number of slots in a party.
const MaxSlots = 6

// Party status codes as reported by the party listing.
const (
	PartyLocked     = 0
	PartyIdle       = 1
	PartyExpedition = 2
	PartyInEvent    = 3
)

var (
	ErrPartyNotFound = errors.New("party not found")
	ErrPartyBusy     = errors.New("party is not idle")
	ErrPartyUnfit    = errors.New("party is not fit to sortie")
)

// TablePrinter renders a party table.
type TablePrinter interface {
	Table(title string, headers []string, rows [][]string)
}

// Party is the local model of one party. It implements game.Team.
type Party struct {
	id      int
	name    string
	status  int
	members map[int]*Member
	out     TablePrinter
}

// NewParty creates a party from its members. out may be nil, in which case
// Render does nothing.
func NewParty(id int, name string, members []*Member, out TablePrinter) *Party {
	p := &Party{
		id:      id,
		name:    name,
		status:  PartyIdle,
		members: make(map[int]*Member, len(members)),
		out:     out,
	}
	for _, m := range members {
		if m != nil {
			p.members[m.Slot] = m
		}
	}
	return p
}

// PartyFromList builds party id from a party listing.
func PartyFromList(list *api.PartyList, id int, out TablePrinter) (*Party, error) {
	if list == nil {
		return nil, fmt.Errorf("party %d: %w", id, ErrPartyNotFound)
	}
	raw, ok := list.Party[strconv.Itoa(id)]
	if !ok {
		return nil, fmt.Errorf("party %d: %w", id, ErrPartyNotFound)
	}
	var members []*Member
	for key, slot := range raw.Slot {
		n, err := strconv.Atoi(key)
		if err != nil || n < 1 || n > MaxSlots || slot == nil || slot.SerialID == 0 {
			continue
		}
		members = append(members, NewMember(n, *slot))
	}
	p := NewParty(id, raw.PartyName, members, out)
	p.status = int(raw.Status)
	return p, nil
}

// ID returns the party number.
func (p *Party) ID() int { return p.id }

// Name returns the party name.
func (p *Party) Name() string { return p.name }

// Status returns the party status code.
func (p *Party) Status() int { return p.status }

// Member returns the member in slot, or nil for an empty slot.
func (p *Party) Member(slot int) *Member { return p.members[slot] }

// Members returns the members ordered by slot.
func (p *Party) Members() []*Member {
	out := make([]*Member, 0, len(p.members))
	for _, m := range p.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}

// CheckAvailable reports whether the party can start a sortie: it must be
// idle, every member battleable and at most one member exhausted.
func (p *Party) CheckAvailable() error {
	if p.status != PartyIdle {
		return fmt.Errorf("party %d: %w (status %d)", p.id, ErrPartyBusy, p.status)
	}
	if len(p.members) == 0 {
		return fmt.Errorf("party %d: %w: no members", p.id, ErrPartyUnfit)
	}
	exhausted := 0
	for _, m := range p.Members() {
		if !m.Battleable() {
			return fmt.Errorf("party %d: %w: %s is %s", p.id, ErrPartyUnfit, m.Name, m.Injury())
		}
		if m.CurrentFatigue() <= combat.FatigueRed {
			exhausted++
		}
	}
	if exhausted > 1 {
		return fmt.Errorf("party %d: %w: %d members exhausted", p.id, ErrPartyUnfit, exhausted)
	}
	return nil
}

// CanContinue reports whether every member can keep fighting.
func (p *Party) CanContinue() bool {
	for _, m := range p.members {
		if !m.Battleable() {
			return false
		}
	}
	return true
}

// AliveCombatantCount returns the number of battleable members.
func (p *Party) AliveCombatantCount() int {
	n := 0
	for _, m := range p.members {
		if m.Battleable() {
			n++
		}
	}
	return n
}

// MemberIsIncapacitated reports whether the member in slot cannot fight.
// An empty slot counts as incapacitated.
func (p *Party) MemberIsIncapacitated(slot int) bool {
	m := p.members[slot]
	return m == nil || !m.Battleable()
}

// OnSessionStart applies the sortie fatigue cost to every member.
func (p *Party) OnSessionStart() {
	for _, m := range p.members {
		m.beginSession()
	}
}

// OnSessionEnd writes the session fatigue back to every member.
func (p *Party) OnSessionEnd() {
	for _, m := range p.members {
		m.endSession()
	}
}

// ApplyBattleReport updates members from a battle report. Slot 1 is the
// leader; mvp is the serial id of the battle's MVP.
func (p *Party) ApplyBattleReport(rank combat.Rank, mvp int, slots map[int]api.SlotResult) {
	for slot, r := range slots {
		m := p.members[slot]
		if m == nil || m.SerialID != int(r.SerialID) {
			continue
		}
		m.applyBattle(r, rank, slot == 1, mvp != 0 && m.SerialID == mvp)
	}
}

// Render prints the party as a table.
func (p *Party) Render() {
	if p.out == nil {
		return
	}
	rows := make([][]string, 0, len(p.members))
	for _, m := range p.Members() {
		fatigue := m.CurrentFatigue()
		rows = append(rows, []string{
			strconv.Itoa(m.Slot),
			m.Name,
			strconv.Itoa(m.Level),
			fmt.Sprintf("%d/%d", m.HP, m.HPMax),
			m.Injury().String(),
			fmt.Sprintf("%d (%s)", fatigue, combat.FatigueLabel(fatigue)),
		})
	}
	title := fmt.Sprintf("Party %d", p.id)
	if p.name != "" {
		title += " " + p.name
	}
	p.out.Table(title, []string{"slot", "name", "lv", "hp", "status", "fatigue"}, rows)
}
