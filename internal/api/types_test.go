package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntAndFlag(t *testing.T) {
	var v struct {
		A Int  `json:"a"`
		B Int  `json:"b"`
		C Int  `json:"c"`
		D Int  `json:"d"`
		E Flag `json:"e"`
		F Flag `json:"f"`
		G Flag `json:"g"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":12,"b":"7","c":"","d":null,"e":"1","f":0,"g":true}`), &v))
	assert.EqualValues(t, 12, v.A)
	assert.EqualValues(t, 7, v.B)
	assert.EqualValues(t, 0, v.C)
	assert.EqualValues(t, 0, v.D)
	assert.True(t, bool(v.E))
	assert.False(t, bool(v.F))
	assert.True(t, bool(v.G))

	assert.Error(t, json.Unmarshal([]byte(`{"a":"x"}`), &v))
}

func TestOptionalAcceptsPlaceholders(t *testing.T) {
	type takeout struct {
		Point Int `json:"point"`
	}
	var v struct {
		A Optional[takeout] `json:"a"`
		B Optional[takeout] `json:"b"`
		C Optional[takeout] `json:"c"`
		D Optional[takeout] `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":{"point":"40"},"b":[],"c":null,"d":false}`), &v))
	require.NotNil(t, v.A.Get())
	assert.EqualValues(t, 40, v.A.Get().Point)
	assert.Nil(t, v.B.Get())
	assert.Nil(t, v.C.Get())
	assert.Nil(t, v.D.Get())
}

func TestSubReportPlaceholdersAreMissing(t *testing.T) {
	var r ForwardResult
	require.NoError(t, json.Unmarshal([]byte(`{"square_id":3,"scout":[],"gimmick":{},"koban":null,"tsukimi":{"next":[4,5]}}`), &r))

	var out map[string]any
	for _, name := range []string{"scout", "gimmick", "koban", "absent"} {
		assert.ErrorIs(t, r.Sub(name, &out), ErrMissingSubReport, name)
	}
	assert.True(t, r.Has("tsukimi"))
	require.NoError(t, r.Sub("tsukimi", &out))
	assert.Len(t, out["next"], 2)
}

func TestCurrentEventPicksNumericallyLowestID(t *testing.T) {
	var s SallyInfo
	require.NoError(t, json.Unmarshal([]byte(`{
		"point": {"100": 5, "99": 7},
		"event": {
			"100": {"event_id": 100, "field": {"1": {"field_id": 1}}},
			"99": {"event_id": 99, "field": {"10": {"field_id": 10}, "2": {"field_id": 2}}}
		}
	}`), &s))

	ev, ok, err := s.CurrentEvent()
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 99, ev.EventID)
	assert.Equal(t, 7, s.PointTotal())

	fields := ev.Fields()
	require.Len(t, fields, 2)
	assert.EqualValues(t, 2, fields[0].FieldID)
	assert.EqualValues(t, 10, fields[1].FieldID)
}
