package game

import (
	"github.com/samdwyer/sortie/internal/api"
)

// Session is the mutable state of one run. The engine owns it; strategies
// update counters and the navigation cursor through it.
type Session struct {
	RunID   string
	Variant string
	TeamID  int

	// Counters. Each variant uses the ones that apply to it.
	Points      int // event points such as jewels, koban or keys
	Collected   int // collectibles such as dango or fireworks
	Fires       int // ghost fires drawn so far
	TicketsUsed int
	Steps       int
	Battles     int

	// Navigation cursor.
	Kind       PointKind
	Cell       int
	Candidates []int
	MovesLeft  int
	Trace      []int

	state    State
	finished bool
	status   Status
	started  bool
	online   bool
}

func newSession(runID, variant string, teamID int) *Session {
	return &Session{
		RunID:   runID,
		Variant: variant,
		TeamID:  teamID,
		online:  true,
	}
}

// State returns the lifecycle stage.
func (s *Session) State() State { return s.state }

// Finished reports whether the server has signalled the end of the map.
func (s *Session) Finished() bool { return s.finished }

// MarkFinished records a finished flag. Once set it stays set.
func (s *Session) MarkFinished(v bool) { s.finished = s.finished || v }

// Status returns the current status.
func (s *Session) Status() Status { return s.status }

// Settle moves the session to st unless it has already left StatusNormal.
func (s *Session) Settle(st Status) {
	if s.status == StatusNormal {
		s.status = st
	}
}

// Started reports whether the setup call succeeded.
func (s *Session) Started() bool { return s.started }

// Online reports whether remote calls may still be issued. It turns false
// after a connection failure.
func (s *Session) Online() bool { return s.online }

// Remote reports whether wrap-up may talk to the server.
func (s *Session) Remote() bool { return s.started && s.online }

func (s *Session) done() bool { return s.finished || s.status != StatusNormal }

// EventConfig is the event snapshot taken when a run is prepared. It is
// never updated; re-reading tickets means building a new one.
type EventConfig struct {
	eventID    int
	fieldID    int
	layerID    int
	ticketRest int
	ticketMax  int
	money      int
	points     int
}

// NewEventConfig builds a snapshot from explicit values.
func NewEventConfig(eventID, fieldID, layerID, ticketRest, ticketMax int) EventConfig {
	return EventConfig{
		eventID:    eventID,
		fieldID:    fieldID,
		layerID:    layerID,
		ticketRest: ticketRest,
		ticketMax:  ticketMax,
	}
}

func eventConfigFrom(info *api.SallyInfo, ev api.EventInfo, fieldID, layerID int) EventConfig {
	return EventConfig{
		eventID:    int(ev.EventID),
		fieldID:    fieldID,
		layerID:    layerID,
		ticketRest: int(ev.Cost.Rest),
		ticketMax:  int(ev.Cost.Max),
		money:      int(info.Currency.Money),
		points:     info.PointTotal(),
	}
}

func (c EventConfig) EventID() int { return c.eventID }
func (c EventConfig) FieldID() int { return c.fieldID }
func (c EventConfig) LayerID() int { return c.layerID }
func (c EventConfig) TicketsRest() int { return c.ticketRest }
func (c EventConfig) TicketsMax() int { return c.ticketMax }
func (c EventConfig) Money() int { return c.money }
func (c EventConfig) PointBalance() int { return c.points }

// withEventID returns a copy using a fixed event id.
func (c EventConfig) withEventID(id int) EventConfig {
	c.eventID = id
	return c
}
