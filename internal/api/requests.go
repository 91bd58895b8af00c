package api

import (
	"net/url"
	"strconv"
)

// EventSally is a typed event setup request. Each event has its own
// request type with the fields that event requires.
type EventSally interface {
	sallyForm() url.Values
}

// EventForward is a typed event advance request.
type EventForward interface {
	forwardForm() url.Values
}

func eventBase(eventID, partyNo, fieldID int) url.Values {
	v := url.Values{}
	v.Set("event_id", strconv.Itoa(eventID))
	v.Set("party_no", strconv.Itoa(partyNo))
	v.Set("event_field_id", strconv.Itoa(fieldID))
	return v
}

func setLayer(v url.Values, layer int) url.Values {
	if layer != 0 {
		v.Set("event_layer_id", strconv.Itoa(layer))
	}
	return v
}

// HitakaraSally starts the treasure village event.
type HitakaraSally struct {
	EventID       int
	PartyNo       int
	FieldID       int
	SwordSerialID int
}

func (r HitakaraSally) sallyForm() url.Values {
	v := eventBase(r.EventID, r.PartyNo, r.FieldID)
	v.Set("sword_serial_id", strconv.Itoa(r.SwordSerialID))
	return v
}

// TsukiSally starts the moon viewing event on a layer.
type TsukiSally struct {
	EventID int
	PartyNo int
	FieldID int
	LayerID int
}

func (r TsukiSally) sallyForm() url.Values {
	return setLayer(eventBase(r.EventID, r.PartyNo, r.FieldID), r.LayerID)
}

// OsakajiSally starts the Osaka castle event on a floor.
type OsakajiSally struct {
	EventID int
	PartyNo int
	FieldID int
	LayerID int
}

func (r OsakajiSally) sallyForm() url.Values {
	return setLayer(eventBase(r.EventID, r.PartyNo, r.FieldID), r.LayerID)
}

// ArmamentSally starts the armament expansion event.
type ArmamentSally struct {
	EventID int
	PartyNo int
	FieldID int
}

func (r ArmamentSally) sallyForm() url.Values {
	return eventBase(r.EventID, r.PartyNo, r.FieldID)
}

// FreesearchSally starts the free search infiltration event.
type FreesearchSally struct {
	EventID int
	PartyNo int
	FieldID int
}

func (r FreesearchSally) sallyForm() url.Values {
	return eventBase(r.EventID, r.PartyNo, r.FieldID)
}

// ConsecutiveSally starts the consecutive team battle event.
type ConsecutiveSally struct {
	EventID int
	PartyNo int
	FieldID int
	LayerID int
}

func (r ConsecutiveSally) sallyForm() url.Values {
	return setLayer(eventBase(r.EventID, r.PartyNo, r.FieldID), r.LayerID)
}

// FireworkSally starts the firework retake event.
type FireworkSally struct {
	EventID int
	PartyNo int
	FieldID int
	LayerID int
}

func (r FireworkSally) sallyForm() url.Values {
	return setLayer(eventBase(r.EventID, r.PartyNo, r.FieldID), r.LayerID)
}

// HitakaraForward moves to a square of the treasure village board.
type HitakaraForward struct {
	SquareID         int
	Direction        int
	TransferSquareID int
	UseItemID        int
}

func (r HitakaraForward) forwardForm() url.Values {
	v := url.Values{}
	v.Set("square_id", strconv.Itoa(r.SquareID))
	v.Set("direction", strconv.Itoa(r.Direction))
	v.Set("transfer_square_id", strconv.Itoa(r.TransferSquareID))
	v.Set("use_item_id", strconv.Itoa(r.UseItemID))
	return v
}

// DirectionForward moves in a direction. Direction 0 lets the server pick.
// Tsuki, Osakaji, Armament, Freesearch and Firework advance this way.
type DirectionForward struct {
	Direction int
}

func (r DirectionForward) forwardForm() url.Values {
	v := url.Values{}
	v.Set("direction", strconv.Itoa(r.Direction))
	return v
}
