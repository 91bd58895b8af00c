package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/samdwyer/sortie/internal/codec"
)

// Int is an integer the server sends either as a JSON number or as a
// numeric string. Empty strings and null decode as zero.
type Int int

// UnmarshalJSON accepts 12, "12", "", and null.
func (i *Int) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*i = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*i = 0
			return nil
		}
		b = []byte(s)
	}
	n, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("api: %s is not an integer", b)
	}
	*i = Int(n)
	return nil
}

// Flag is a boolean the server sends as true/false, 0/1 or "0"/"1".
type Flag bool

// UnmarshalJSON accepts booleans, numbers and numeric strings.
func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case "true":
		*f = true
		return nil
	case "false", "null", `""`:
		*f = false
		return nil
	}
	var n Int
	if err := n.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("api: %s is not a flag", b)
	}
	*f = n != 0
	return nil
}

// Optional is an object member the server sends either as an object or,
// when there is nothing to report, as null, false or an empty array.
type Optional[T any] struct {
	Value T
	Valid bool
}

// UnmarshalJSON decodes the object, treating empty placeholders as absent.
func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	*o = Optional[T]{}
	if isEmptyJSON(b) {
		return nil
	}
	if err := json.Unmarshal(b, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// Get returns a pointer to the value, or nil when absent.
func (o *Optional[T]) Get() *T {
	if !o.Valid {
		return nil
	}
	return &o.Value
}

// subReports keeps every top-level member of a response so variant
// specific objects can be decoded on demand.
type subReports map[string]json.RawMessage

// Has reports whether the named member is present and not empty.
func (s subReports) Has(name string) bool {
	raw, ok := s[name]
	return ok && !isEmptyJSON(raw)
}

// Sub decodes the named member into v. A missing, null or empty member
// returns ErrMissingSubReport.
func (s subReports) Sub(name string, v any) error {
	if !s.Has(name) {
		return fmt.Errorf("%w: %q", ErrMissingSubReport, name)
	}
	if err := json.Unmarshal(s[name], v); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrBadResponse, name, err)
	}
	return nil
}

func isEmptyJSON(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "[]", "{}", "false", `""`, "0":
		return true
	}
	return false
}

// RewardItem is one entry of a reward list.
type RewardItem struct {
	ItemType Int `json:"item_type"`
	ItemID   Int `json:"item_id"`
	ItemNum  Int `json:"item_num"`
	Bonus    Int `json:"bonus"`
}

// Scout describes the enemy party found on a battle cell.
type Scout struct {
	FormationID Int `json:"formation_id"`
}

// ForwardResult is the response to an advance call.
type ForwardResult struct {
	SquareID Int          `json:"square_id"`
	IsFinish Flag         `json:"is_finish"`
	Reward   []RewardItem `json:"-"`
	subReports
}

// UnmarshalJSON decodes the common fields and keeps the rest as sub-reports.
func (r *ForwardResult) UnmarshalJSON(b []byte) error {
	var head struct {
		SquareID Int             `json:"square_id"`
		IsFinish Flag            `json:"is_finish"`
		Reward   json.RawMessage `json:"reward"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return err
	}
	var rest subReports
	if err := json.Unmarshal(b, &rest); err != nil {
		return err
	}
	r.SquareID = head.SquareID
	r.IsFinish = head.IsFinish
	r.subReports = rest
	r.Reward = nil
	if !isEmptyJSON(head.Reward) {
		if err := json.Unmarshal(head.Reward, &r.Reward); err != nil {
			return fmt.Errorf("reward: %w", err)
		}
	}
	return nil
}

// Encounter returns the scouted enemy, or false if the cell has no battle.
func (r *ForwardResult) Encounter() (Scout, bool) {
	var s Scout
	if err := r.Sub("scout", &s); err != nil {
		return Scout{}, false
	}
	return s, true
}

// SlotResult is one party slot after a battle.
type SlotResult struct {
	SerialID Int `json:"serial_id"`
	HP       Int `json:"hp"`
	HPMax    Int `json:"hp_max"`
	Level    Int `json:"level"`
	Exp      Int `json:"exp"`
	Fatigue  Int `json:"fatigue"`
	Status   Int `json:"status"`
}

// BattleResult is the "result" member of a decoded battle report.
type BattleResult struct {
	Rank       Int `json:"rank"`
	MVP        Int `json:"mvp"`
	GetSwordID Int `json:"get_sword_id"`
	Player     struct {
		Party struct {
			Slot map[string]*SlotResult `json:"slot"`
		} `json:"party"`
	} `json:"player"`
	DropReward []RewardItem `json:"drop_reward"`
	Reward     []RewardItem `json:"reward"`
}

// Slots returns the non-empty party slots keyed by slot number.
func (r *BattleResult) Slots() map[int]SlotResult {
	out := make(map[int]SlotResult, len(r.Player.Party.Slot))
	for key, slot := range r.Player.Party.Slot {
		n, err := strconv.Atoi(key)
		if err != nil || slot == nil || slot.SerialID == 0 {
			continue
		}
		out[n] = *slot
	}
	return out
}

// BattleReport is a decrypted battle report.
type BattleReport struct {
	Result *BattleResult
	Finish Flag
	subReports
}

// UnmarshalJSON decodes result and finish and keeps the rest as sub-reports.
func (r *BattleReport) UnmarshalJSON(b []byte) error {
	var head struct {
		Result json.RawMessage `json:"result"`
		Finish struct {
			IsFinish Flag `json:"is_finish"`
		} `json:"finish"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return err
	}
	var rest subReports
	if err := json.Unmarshal(b, &rest); err != nil {
		return err
	}
	r.Finish = head.Finish.IsFinish
	r.subReports = rest
	r.Result = nil
	if !isEmptyJSON(head.Result) {
		r.Result = &BattleResult{}
		if err := json.Unmarshal(head.Result, r.Result); err != nil {
			return fmt.Errorf("result: %w", err)
		}
	}
	return nil
}

// EncryptedReport is the response to a combat call.
type EncryptedReport struct {
	Data string `json:"data"`
	IV   string `json:"iv"`
}

// Decode decrypts and parses the report.
func (e *EncryptedReport) Decode() (*BattleReport, error) {
	var r BattleReport
	if err := codec.Unmarshal(e.Data, e.IV, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// EventField is one map of an event.
type EventField struct {
	FieldID  Int   `json:"field_id"`
	LayerNum Int   `json:"layer_num"`
	IsFinish *Flag `json:"is_finish"`
}

// Finished reports whether the map is cleared. A missing flag counts as cleared.
func (f EventField) Finished() bool {
	return f.IsFinish == nil || bool(*f.IsFinish)
}

// EventCost is the ticket balance of an event.
type EventCost struct {
	Rest Int `json:"rest"`
	Max  Int `json:"max"`
}

// AlloutInfo carries the consecutive-battle settings of an event.
type AlloutInfo struct {
	ModeChangeFieldID Int `json:"mode_change_field_id"`
}

// CollectionItem is the held count of one event collectible.
type CollectionItem struct {
	Num Int `json:"num"`
}

// EventInfo describes the running event as listed by the sally call.
type EventInfo struct {
	EventID        Int                       `json:"event_id"`
	RawFields      map[string]EventField     `json:"field"`
	Cost           EventCost                 `json:"cost"`
	Allout         AlloutInfo                `json:"allout"`
	CollectionItem map[string]CollectionItem `json:"collection_item"`
}

// Fields returns the event maps ordered by their numeric key.
func (e *EventInfo) Fields() []EventField {
	keys := sortedKeys(e.RawFields)
	out := make([]EventField, 0, len(keys))
	for _, k := range keys {
		out = append(out, e.RawFields[k])
	}
	return out
}

// sortedKeys returns the keys of m in numeric order. A pair involving a
// non-numeric key compares as text.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA != nil || errB != nil {
			return keys[i] < keys[j]
		}
		return a < b
	})
	return keys
}

// SallyInfo is the response to the sally call listing available maps and events.
type SallyInfo struct {
	Currency struct {
		Money Int `json:"money"`
	} `json:"currency"`
	Point map[string]Int  `json:"point"`
	Event json.RawMessage `json:"event"`
}

// CurrentEvent returns the running event. The server sends either the event
// object itself or an object keyed by event id; in the latter case the
// numerically lowest id wins. ok is false when no event is running.
func (s *SallyInfo) CurrentEvent() (EventInfo, bool, error) {
	if isEmptyJSON(s.Event) {
		return EventInfo{}, false, nil
	}

	var direct EventInfo
	if err := json.Unmarshal(s.Event, &direct); err == nil && (direct.EventID != 0 || len(direct.RawFields) > 0) {
		return direct, true, nil
	}

	var keyed map[string]EventInfo
	if err := json.Unmarshal(s.Event, &keyed); err != nil {
		return EventInfo{}, false, fmt.Errorf("%w: event: %v", ErrBadResponse, err)
	}
	if len(keyed) == 0 {
		return EventInfo{}, false, nil
	}
	return keyed[sortedKeys(keyed)[0]], true, nil
}

// PointTotal returns the first event point balance, or zero.
func (s *SallyInfo) PointTotal() int {
	keys := sortedKeys(s.Point)
	if len(keys) == 0 {
		return 0
	}
	return int(s.Point[keys[0]])
}

// EventSallyResult is the response to an event setup call.
type EventSallyResult struct {
	subReports
}

// UnmarshalJSON keeps every member as a sub-report.
func (r *EventSallyResult) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &r.subReports)
}

// EventReturnResult is the response to the abandon-event call.
type EventReturnResult struct {
	subReports
}

// UnmarshalJSON keeps every member as a sub-report.
func (r *EventReturnResult) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &r.subReports)
}

// PartySlot is one slot of a party listing.
type PartySlot struct {
	SerialID Int    `json:"serial_id"`
	SwordID  Int    `json:"sword_id"`
	Name     string `json:"name"`
	Level    Int    `json:"level"`
	HP       Int    `json:"hp"`
	HPMax    Int    `json:"hp_max"`
	Fatigue  Int    `json:"fatigue"`
	Status   Int    `json:"status"`
}

// Party is one party of a party listing.
type Party struct {
	PartyName string                `json:"party_name"`
	Status    Int                   `json:"status"`
	Slot      map[string]*PartySlot `json:"slot"`
}

// PartyList is the response to the party list call.
type PartyList struct {
	Party map[string]Party `json:"party"`
}
