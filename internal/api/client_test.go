package api

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSendsSessionAndRollsToken(t *testing.T) {
	m := NewMockServer()
	defer m.Close()
	c := m.Client()
	ctx := context.Background()

	require.NoError(t, c.Sortie(ctx, 2, 1, 3))
	assert.Equal(t, "t1", c.Token())
	require.NoError(t, c.Home(ctx))
	assert.Equal(t, "t2", c.Token())

	calls := m.Calls()
	require.Len(t, calls, 2)
	first := calls[0]
	assert.Equal(t, "sally/sally", first.Endpoint)
	assert.Equal(t, "1001", first.UID)
	assert.Equal(t, "cookie", first.Form.Get("sword"))
	assert.Equal(t, "t0", first.Form.Get("t"))
	assert.Equal(t, "2", first.Form.Get("party_no"))
	assert.Equal(t, "1", first.Form.Get("episode_id"))
	assert.Equal(t, "3", first.Form.Get("field_id"))
	assert.Equal(t, "t1", calls[1].Form.Get("t"))
}

func TestClientRejectedKeepsToken(t *testing.T) {
	m := NewMockServer()
	defer m.Close()
	c := m.Client()

	m.Reject("home", 3)
	err := c.Home(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRejected))
	assert.False(t, IsConnection(err))

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 3, apiErr.Code)
	assert.Equal(t, "home", apiErr.Endpoint)
	assert.Equal(t, "t0", c.Token())
}

func TestClientConnectionFailure(t *testing.T) {
	m := NewMockServer()
	defer m.Close()
	c := m.Client()

	m.Drop("sally/forward")
	_, err := c.Forward(context.Background())
	require.Error(t, err)
	assert.True(t, IsConnection(err))
	assert.Equal(t, 1, m.Count("sally/forward"), "connection failures are not retried")
}

func TestClientBadBody(t *testing.T) {
	m := NewMockServer()
	defer m.Close()
	c := m.Client()

	m.Queue("battle/battle", map[string]any{"data": "", "iv": ""})
	_, err := c.Battle(context.Background(), 6)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadResponse))
}

func TestRecoverEventCostBounds(t *testing.T) {
	m := NewMockServer()
	defer m.Close()
	c := m.Client()
	ctx := context.Background()

	assert.Error(t, c.RecoverEventCost(ctx, 90, 0))
	assert.Error(t, c.RecoverEventCost(ctx, 90, 4))
	assert.Empty(t, m.Calls())

	require.NoError(t, c.RecoverEventCost(ctx, 90, 3))
	call := m.Calls()[0]
	assert.Equal(t, "sally/recovercost", call.Endpoint)
	assert.Equal(t, "90", call.Form.Get("event_id"))
	assert.Equal(t, "3", call.Form.Get("num"))
}

func TestEventRequestForms(t *testing.T) {
	m := NewMockServer()
	defer m.Close()
	c := m.Client()
	ctx := context.Background()

	_, err := c.EventSally(ctx, HitakaraSally{EventID: 70, PartyNo: 1, FieldID: 2})
	require.NoError(t, err)
	_, err = c.EventSally(ctx, TsukiSally{EventID: 80, PartyNo: 2, FieldID: 1, LayerID: 3})
	require.NoError(t, err)
	_, err = c.EventSally(ctx, ArmamentSally{EventID: 90, PartyNo: 3, FieldID: 4})
	require.NoError(t, err)
	_, err = c.EventForward(ctx, HitakaraForward{SquareID: 2})
	require.NoError(t, err)
	_, err = c.EventForward(ctx, DirectionForward{Direction: 5})
	require.NoError(t, err)

	calls := m.Calls()
	require.Len(t, calls, 5)

	hitakara := calls[0].Form
	assert.Equal(t, "70", hitakara.Get("event_id"))
	assert.Equal(t, "2", hitakara.Get("event_field_id"))
	assert.Equal(t, "0", hitakara.Get("sword_serial_id"))
	assert.False(t, hitakara.Has("event_layer_id"))

	assert.Equal(t, "3", calls[1].Form.Get("event_layer_id"))
	assert.False(t, calls[2].Form.Has("event_layer_id"))
	assert.False(t, calls[2].Form.Has("sword_serial_id"))

	assert.Equal(t, "sally/eventforward", calls[3].Endpoint)
	assert.Equal(t, "2", calls[3].Form.Get("square_id"))
	assert.Equal(t, "0", calls[3].Form.Get("direction"))
	assert.Equal(t, "5", calls[4].Form.Get("direction"))
}

func TestForwardDecodesEncounter(t *testing.T) {
	m := NewMockServer()
	defer m.Close()
	c := m.Client()
	ctx := context.Background()

	m.Queue("sally/forward",
		`{"square_id":"4","is_finish":0,"scout":{"formation_id":"3"},"reward":[]}`,
		`{"square_id":5,"is_finish":"1","scout":[],"reward":[{"item_type":1,"item_id":3,"item_num":"20"}]}`,
	)

	first, err := c.Forward(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, first.SquareID)
	assert.False(t, bool(first.IsFinish))
	scout, ok := first.Encounter()
	require.True(t, ok)
	assert.EqualValues(t, 3, scout.FormationID)
	assert.Empty(t, first.Reward)

	second, err := c.Forward(ctx)
	require.NoError(t, err)
	assert.True(t, bool(second.IsFinish))
	_, ok = second.Encounter()
	assert.False(t, ok)
	require.Len(t, second.Reward, 1)
	assert.EqualValues(t, 20, second.Reward[0].ItemNum)
}

func TestBattleReportDecodes(t *testing.T) {
	m := NewMockServer()
	defer m.Close()
	c := m.Client()

	m.Queue("battle/battle", SealedReport(map[string]any{
		"result": map[string]any{
			"rank":         2,
			"mvp":          "11",
			"get_sword_id": 0,
			"player": map[string]any{"party": map[string]any{"slot": map[string]any{
				"1": map[string]any{"serial_id": 11, "hp": 30, "hp_max": 30},
				"2": map[string]any{"serial_id": 12, "hp": 8, "hp_max": 30},
				"3": nil,
			}}},
		},
		"finish": map[string]any{"is_finish": 1},
		"hanabi": map[string]any{"point": 40},
	}))

	enc, err := c.Battle(context.Background(), 6)
	require.NoError(t, err)
	report, err := enc.Decode()
	require.NoError(t, err)
	require.NotNil(t, report.Result)
	assert.EqualValues(t, 2, report.Result.Rank)
	assert.EqualValues(t, 11, report.Result.MVP)
	assert.True(t, bool(report.Finish))
	assert.Len(t, report.Result.Slots(), 2)
	assert.EqualValues(t, 8, report.Result.Slots()[2].HP)

	var hanabi struct {
		Point Int `json:"point"`
	}
	require.NoError(t, report.Sub("hanabi", &hanabi))
	assert.EqualValues(t, 40, hanabi.Point)
	assert.ErrorIs(t, report.Sub("gimmick", &hanabi), ErrMissingSubReport)

	assert.Equal(t, "6", m.Calls()[0].Form.Get("formation_id"))
}

func TestSallyCurrentEvent(t *testing.T) {
	tests := []struct {
		name   string
		event  string
		wantID int
		wantOK bool
	}{
		{"keyed", `{"91":{"event_id":91},"85":{"event_id":85,"field":{"2":{"field_id":2},"1":{"field_id":1}}}}`, 85, true},
		{"direct", `{"event_id":90,"field":{"1":{"field_id":1,"is_finish":1}}}`, 90, true},
		{"empty list", `[]`, 0, false},
		{"null", `null`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := SallyInfo{Event: []byte(tt.event)}
			ev, ok, err := info.CurrentEvent()
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.EqualValues(t, tt.wantID, ev.EventID)
		})
	}

	info := SallyInfo{Event: []byte(`{"85":{"event_id":85,"field":{"10":{"field_id":10},"2":{"field_id":2}}}}`)}
	ev, _, err := info.CurrentEvent()
	require.NoError(t, err)
	fields := ev.Fields()
	require.Len(t, fields, 2)
	assert.EqualValues(t, 2, fields[0].FieldID)
	assert.EqualValues(t, 10, fields[1].FieldID)
	assert.True(t, fields[0].Finished(), "missing is_finish counts as finished")
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New(Options{BaseURL: "game/"})
	assert.Error(t, err)
}
