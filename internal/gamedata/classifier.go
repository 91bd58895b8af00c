package gamedata

import (
	"errors"
	"fmt"
)

// Category is the semantic class of a reward.
type Category int

const (
	// CategoryUnknown is any code missing from the tables.
	CategoryUnknown Category = iota
	CategoryCurrency
	CategoryForgeMaterial
	CategoryCollectible
	CategoryEquipment
)

// String returns the category name used in the data files.
func (c Category) String() string {
	switch c {
	case CategoryCurrency:
		return "currency"
	case CategoryForgeMaterial:
		return "forge_material"
	case CategoryCollectible:
		return "collectible"
	case CategoryEquipment:
		return "equipment"
	default:
		return "unknown"
	}
}

// UnmarshalText parses a category name.
func (c *Category) UnmarshalText(text []byte) error {
	switch string(text) {
	case "currency":
		*c = CategoryCurrency
	case "forge_material":
		*c = CategoryForgeMaterial
	case "collectible":
		*c = CategoryCollectible
	case "equipment":
		*c = CategoryEquipment
	case "unknown":
		*c = CategoryUnknown
	default:
		return fmt.Errorf("unknown reward category %q", text)
	}
	return nil
}

// Scheme selects which code the server used to describe a reward.
// Different events encode the same reward lists differently.
type Scheme int

const (
	// SchemeItemID classifies by item id alone.
	SchemeItemID Scheme = iota
	// SchemeResourceType classifies by item type alone.
	SchemeResourceType
	// SchemeRewardKind uses the item type as a reward kind. Resource kinds
	// then name the resource by item id.
	SchemeRewardKind
)

// ItemDef is one row of a reward table.
type ItemDef struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	// ByResourceType marks a reward kind whose item id is a resource type.
	ByResourceType bool `json:"byResourceType,omitempty"`
}

// RewardTables represents the structure of rewards.json.
type RewardTables struct {
	Items         []ItemDef `json:"items"`
	ResourceTypes []ItemDef `json:"resourceTypes"`
	RewardKinds   []ItemDef `json:"rewardKinds"`
}

// Classification is the result of classifying one reward code.
type Classification struct {
	Category Category
	Name     string
	Type     int
	ID       int
}

// Known reports whether the code was found in the tables.
func (c Classification) Known() bool { return c.Category != CategoryUnknown }

// Label returns the display name, falling back to the raw codes for
// unknown rewards.
func (c Classification) Label() string {
	if c.Known() {
		return c.Name
	}
	return fmt.Sprintf("unknown (type=%d id=%d)", c.Type, c.ID)
}

// Classifier maps reward codes to categories. It is a pure lookup and is
// safe for concurrent use.
type Classifier struct {
	items         map[int]ItemDef
	resourceTypes map[int]ItemDef
	kinds         map[int]ItemDef
}

// NewClassifier creates a classifier from loaded tables.
func NewClassifier(tables RewardTables) *Classifier {
	index := func(defs []ItemDef) map[int]ItemDef {
		m := make(map[int]ItemDef, len(defs))
		for _, d := range defs {
			m[d.ID] = d
		}
		return m
	}
	return &Classifier{
		items:         index(tables.Items),
		resourceTypes: index(tables.ResourceTypes),
		kinds:         index(tables.RewardKinds),
	}
}

// LoadClassifier creates a classifier from the embedded rewards.json.
func LoadClassifier() (*Classifier, error) {
	tables, err := Load[RewardTables]("rewards.json")
	if err != nil {
		return nil, err
	}
	if len(tables.Items) == 0 {
		return nil, errors.New("no items loaded from rewards.json")
	}
	return NewClassifier(tables), nil
}

// MustLoadClassifier loads a classifier, panicking on error.
func MustLoadClassifier() *Classifier {
	c, err := LoadClassifier()
	if err != nil {
		panic(err)
	}
	return c
}

// Classify returns the category of a reward code under scheme. Codes absent
// from the tables classify as CategoryUnknown; Classify never fails.
func (c *Classifier) Classify(scheme Scheme, itemType, itemID int) Classification {
	out := Classification{Type: itemType, ID: itemID}

	var def ItemDef
	var ok bool
	switch scheme {
	case SchemeItemID:
		def, ok = c.items[itemID]
	case SchemeResourceType:
		def, ok = c.resourceTypes[itemType]
	case SchemeRewardKind:
		def, ok = c.kinds[itemType]
		if ok && def.ByResourceType {
			res, found := c.resourceTypes[itemID]
			if !found {
				return out
			}
			def = ItemDef{ID: itemID, Name: res.Name, Category: def.Category}
		}
	}
	if !ok {
		return out
	}

	out.Category = def.Category
	out.Name = def.Name
	return out
}

// ItemName returns the name of an item id, or "" if unknown.
func (c *Classifier) ItemName(itemID int) string {
	return c.items[itemID].Name
}
