// Package entity holds the local model of a party and its members.
package entity

import (
	"github.com/samdwyer/sortie/internal/api"
	"github.com/samdwyer/sortie/internal/combat"
)

// Member is one sword in a party slot.
type Member struct {
	Slot     int
	SerialID int
	SwordID  int
	Name     string
	Level    int
	Exp      int
	HP       int
	HPMax    int
	Fatigue  int

	// Fatigue is tracked locally while a session runs and written back
	// when it ends.
	inSession      bool
	sessionFatigue int
}

// NewMember creates a member from a party listing slot.
func NewMember(slot int, s api.PartySlot) *Member {
	return &Member{
		Slot:     slot,
		SerialID: int(s.SerialID),
		SwordID:  int(s.SwordID),
		Name:     s.Name,
		Level:    int(s.Level),
		HP:       int(s.HP),
		HPMax:    int(s.HPMax),
		Fatigue:  int(s.Fatigue),
	}
}

// Injury returns the member's injury bucket.
func (m *Member) Injury() combat.Injury {
	return combat.InjuryFor(m.HP, m.HPMax)
}

// Battleable reports whether the member can keep fighting.
func (m *Member) Battleable() bool {
	return m.Injury().Battleable()
}

// CurrentFatigue returns the session fatigue while in a session, otherwise
// the last known value.
func (m *Member) CurrentFatigue() int {
	if m.inSession {
		return m.sessionFatigue
	}
	return m.Fatigue
}

func (m *Member) beginSession() {
	m.sessionFatigue = combat.FatigueAtSortie(m.Fatigue)
	m.inSession = true
}

func (m *Member) endSession() {
	if !m.inSession {
		return
	}
	m.Fatigue = m.sessionFatigue
	m.inSession = false
}

func (m *Member) applyBattle(r api.SlotResult, rank combat.Rank, leader, mvp bool) {
	m.HP = int(r.HP)
	if r.HPMax > 0 {
		m.HPMax = int(r.HPMax)
	}
	if r.Level > 0 {
		m.Level = int(r.Level)
	}
	m.Exp = int(r.Exp)
	if !m.inSession {
		m.sessionFatigue = m.Fatigue
		m.inSession = true
	}
	m.sessionFatigue = combat.FatigueAfterBattle(m.sessionFatigue, rank, leader, mvp)
}
