package gamedata

import (
	"errors"
	"fmt"
)

// CardKind classifies a card drawn in the treasure village event.
type CardKind int

const (
	CardUnknown CardKind = iota
	CardJewel
	CardWeapon
	CardHazard
	CardGhostFire
	CardBoss
)

// String returns the kind name used in cards.json.
func (k CardKind) String() string {
	switch k {
	case CardJewel:
		return "jewel"
	case CardWeapon:
		return "weapon"
	case CardHazard:
		return "hazard"
	case CardGhostFire:
		return "ghost_fire"
	case CardBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// UnmarshalText parses a card kind name.
func (k *CardKind) UnmarshalText(text []byte) error {
	for _, kind := range []CardKind{CardUnknown, CardJewel, CardWeapon, CardHazard, CardGhostFire, CardBoss} {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown card kind %q", text)
}

// CardDef defines a card loaded from JSON.
type CardDef struct {
	ID   int      `json:"id"`
	Name string   `json:"name"`
	Kind CardKind `json:"kind"`
}

// JewelRange is the id range of jewel cards. A jewel is worth id-Offset points.
type JewelRange struct {
	Min    int `json:"min"`
	Max    int `json:"max"`
	Offset int `json:"offset"`
}

// InstrumentDef names one instrument collected in the treasure village event.
type InstrumentDef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CardsFile represents the structure of cards.json.
type CardsFile struct {
	Cards       []CardDef       `json:"cards"`
	Jewels      JewelRange      `json:"jewels"`
	Instruments []InstrumentDef `json:"instruments"`
}

// Card is a resolved card draw.
type Card struct {
	ID    int
	Name  string
	Kind  CardKind
	Value int // base jewel value, zero for other kinds
}

// CardRegistry holds card and instrument definitions and provides lookup.
type CardRegistry struct {
	cards       map[int]CardDef
	jewels      JewelRange
	instruments []InstrumentDef
}

// NewCardRegistry creates a registry from loaded card definitions.
func NewCardRegistry(file CardsFile) *CardRegistry {
	r := &CardRegistry{
		cards:       make(map[int]CardDef, len(file.Cards)),
		jewels:      file.Jewels,
		instruments: file.Instruments,
	}
	for _, c := range file.Cards {
		r.cards[c.ID] = c
	}
	return r
}

// LoadCardRegistry loads and creates a registry from the embedded cards.json.
func LoadCardRegistry() (*CardRegistry, error) {
	file, err := Load[CardsFile]("cards.json")
	if err != nil {
		return nil, err
	}
	if len(file.Cards) == 0 {
		return nil, errors.New("no cards loaded from cards.json")
	}
	return NewCardRegistry(file), nil
}

// MustLoadCardRegistry loads a registry, panicking on error.
func MustLoadCardRegistry() *CardRegistry {
	registry, err := LoadCardRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// Resolve returns the card with the given id. Unlisted ids resolve to a
// CardUnknown card.
func (r *CardRegistry) Resolve(id int) Card {
	if id >= r.jewels.Min && id <= r.jewels.Max {
		return Card{ID: id, Name: "Jewel", Kind: CardJewel, Value: id - r.jewels.Offset}
	}
	if def, ok := r.cards[id]; ok {
		return Card{ID: id, Name: def.Name, Kind: def.Kind}
	}
	return Card{ID: id, Name: "unknown", Kind: CardUnknown}
}

// JewelPoints returns the points a jewel card is worth after fires ghost
// fire cards have been drawn. Each ghost fire doubles the value.
func (c Card) JewelPoints(fires int) int {
	if c.Kind != CardJewel {
		return 0
	}
	if fires < 0 {
		fires = 0
	}
	return c.Value << uint(fires)
}

// Instruments returns the instrument definitions in display order.
func (r *CardRegistry) Instruments() []InstrumentDef {
	return r.instruments
}

// Count returns the number of named cards in the registry.
func (r *CardRegistry) Count() int {
	return len(r.cards)
}
