package game

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/samdwyer/sortie/internal/gamedata"
	"github.com/samdwyer/sortie/internal/world"
)

// Strategy is the event-specific part of a run. The engine calls Prepare
// once, then Advance and one of the resolvers per step, and WrapUp exactly
// once at the end.
type Strategy interface {
	Name() string
	Gates() Gates
	Prepare(ctx context.Context, s *Session) error
	Advance(ctx context.Context, s *Session) (PointKind, error)
	ResolveBattle(ctx context.Context, s *Session) error
	ResolveReward(ctx context.Context, s *Session) error
	ExtraTermination(s *Session) bool
	WrapUp(ctx context.Context, s *Session) error
}

// Deps are the collaborators handed to a strategy.
type Deps struct {
	API        API
	Team       Team
	Out        Printer
	Classifier *gamedata.Classifier
	Cards      *gamedata.CardRegistry
	Catalog    *gamedata.Catalog // optional
	Planner    *world.Planner
	RNG        *rand.Rand
	Config     Config
	// Sleep replaces time.Sleep between steps.
	Sleep func(time.Duration)
}

// Options are per-run choices from the command line.
type Options struct {
	Episode int
	Field   int
	Sakura  bool
	// Layer overrides the event floor where the event has floors.
	Layer int
}

// Factory builds a strategy for one run.
type Factory func(d Deps, opts Options) (Strategy, error)

var registry = map[string]Factory{
	"common":      newCommon,
	"hitakara":    newHitakara,
	"tsuki":       newTsuki,
	"osakaji":     newOsakaji,
	"armament":    newArmament,
	"freesearch":  newFreesearch,
	"consecutive": newConsecutive,
	"firework":    newFirework,
}

// Lookup returns the factory registered for name.
func Lookup(name string) (Factory, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return f, nil
}

// Variants returns the registered variant names in order.
func Variants() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d Deps) withDefaults() Deps {
	if d.RNG == nil {
		d.RNG = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if d.Planner == nil {
		d.Planner = world.NewPlanner(world.ReferenceGraph(), d.RNG)
	}
	if d.Classifier == nil {
		d.Classifier = gamedata.MustLoadClassifier()
	}
	if d.Cards == nil {
		d.Cards = gamedata.MustLoadCardRegistry()
	}
	if d.Sleep == nil {
		d.Sleep = time.Sleep
	}
	return d
}
