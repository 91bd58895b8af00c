package codec

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testIV = []byte("0123456789abcdef")

func TestDecodeRoundTrip(t *testing.T) {
	report := map[string]any{
		"result": map[string]any{
			"rank": "2",
			"mvp":  float64(1042),
			"player": map[string]any{
				"party": map[string]any{
					"slot": map[string]any{"1": map[string]any{"serial_id": float64(1042), "hp": float64(30)}},
				},
			},
		},
		"finish":  map[string]any{"is_finish": true},
		"gimmick": nil,
		"name":    "三日月宗近",
	}

	trailers := [][]byte{nil, []byte("   "), {0x00, 0x01, 0xff, 0xfe}, []byte("garbage\n\t")}
	for _, trailer := range trailers {
		data, iv, err := Seal(report, testIV, trailer)
		require.NoError(t, err)

		got, err := Decode(data, iv)
		require.NoError(t, err)
		if diff := cmp.Diff(report, got); diff != "" {
			t.Errorf("Decode() mismatch with trailer %q (-want +got):\n%s", trailer, diff)
		}
	}
}

func TestDecodeNoClosingBrace(t *testing.T) {
	data, iv, err := Seal("no braces at all", testIV, nil)
	require.NoError(t, err)

	got, err := Decode(data, iv)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, ErrNoClosingBrace))

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, "truncate", decErr.Step)
}

func TestDecodeOnlyObjectsSurviveTruncation(t *testing.T) {
	data := encryptRaw(t, []byte(`[1,{"a":2}]`))
	_, err := Decode(data, hex.EncodeToString(testIV))
	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, "json", decErr.Step)

	data, iv, err := Seal(map[string]any{"a": "}"}, testIV, nil)
	require.NoError(t, err)
	got, err := Decode(data, iv)
	require.NoError(t, err)
	assert.IsType(t, map[string]any{}, got)
}

func TestDecodeInvalidJSONAfterTruncation(t *testing.T) {
	plain := []byte(`{"rank": 2, }xx`)
	data := encryptRaw(t, plain)

	_, err := Decode(data, hex.EncodeToString(testIV))
	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, "json", decErr.Step)
}

func TestDecodeTruncatesAtLastBrace(t *testing.T) {
	plain := []byte(`{"a":{"b":1}}` + "\x03\x03\x03")
	data := encryptRaw(t, plain)

	got, err := Decode(data, hex.EncodeToString(testIV))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": map[string]any{"b": float64(1)}}, got)
}

func TestDecodeBadInput(t *testing.T) {
	valid, iv, err := Seal(map[string]any{"ok": true}, testIV, nil)
	require.NoError(t, err)

	tests := []struct {
		name string
		data string
		iv   string
		step string
	}{
		{"bad ciphertext hex", "zz", iv, "hex"},
		{"bad iv hex", valid, "not-hex", "hex"},
		{"short iv", valid, "0011", "decrypt"},
		{"partial block", valid[:len(valid)-2], iv, "decrypt"},
		{"empty ciphertext", "", iv, "decrypt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data, tt.iv)
			var decErr *DecodeError
			require.ErrorAs(t, err, &decErr)
			assert.Equal(t, tt.step, decErr.Step)
		})
	}
}

func TestUnmarshalIntoStruct(t *testing.T) {
	data, iv, err := Seal(map[string]any{"finish": map[string]any{"is_finish": true}}, testIV, []byte("~~"))
	require.NoError(t, err)

	var out struct {
		Finish struct {
			IsFinish bool `json:"is_finish"`
		} `json:"finish"`
	}
	require.NoError(t, Unmarshal(data, iv, &out))
	assert.True(t, out.Finish.IsFinish)
}

func TestSealRejectsBraceTrailer(t *testing.T) {
	_, _, err := Seal(map[string]any{}, testIV, []byte("}"))
	assert.Error(t, err)
}

// encryptRaw encrypts plain as-is after zero-padding it to a block boundary.
func encryptRaw(t *testing.T, plain []byte) string {
	t.Helper()
	if rem := len(plain) % aes.BlockSize; rem != 0 {
		plain = append(plain, bytes.Repeat([]byte{0}, aes.BlockSize-rem)...)
	}
	block, err := aes.NewCipher([]byte(reportKey))
	require.NoError(t, err)
	out := make([]byte, len(plain))
	cipher.NewCBCEncrypter(block, testIV).CryptBlocks(out, plain)
	return hex.EncodeToString(out)
}
