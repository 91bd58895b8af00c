// Package codec decrypts the encrypted battle reports returned by combat calls.
//
// Reports are AES-128-CBC ciphertexts under a fixed key, hex encoded together
// with their IV. The plaintext is a JSON object followed by filler bytes, so
// decoding truncates at the last closing brace before parsing.
package codec

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// reportKey is the fixed key the server encrypts every report with.
const reportKey = "9ij8pNKv7qVJnpj4"

// ErrNoClosingBrace is returned when the plaintext contains no '}'.
var ErrNoClosingBrace = errors.New("no closing brace in plaintext")

// DecodeError describes why a report could not be decoded.
type DecodeError struct {
	Step string // "hex", "decrypt", "truncate", "utf8" or "json"
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("codec: %s: %v", e.Step, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode decrypts a hex ciphertext with the given hex IV and parses the
// result into a generic JSON value. The body ends at its last '}', so only a
// top-level object can parse; anything else fails at the truncate or json
// step.
func Decode(cipherHex, ivHex string) (any, error) {
	var out any
	if err := Unmarshal(cipherHex, ivHex, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Unmarshal decrypts a report and unmarshals its JSON body into v.
func Unmarshal(cipherHex, ivHex string, v any) error {
	body, err := Open(cipherHex, ivHex)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &DecodeError{Step: "json", Err: err}
	}
	return nil
}

// Open decrypts a report and returns the JSON body truncated at the last
// closing brace.
func Open(cipherHex, ivHex string) ([]byte, error) {
	data, err := hex.DecodeString(cipherHex)
	if err != nil {
		return nil, &DecodeError{Step: "hex", Err: fmt.Errorf("ciphertext: %w", err)}
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return nil, &DecodeError{Step: "hex", Err: fmt.Errorf("iv: %w", err)}
	}
	if len(iv) != aes.BlockSize {
		return nil, &DecodeError{Step: "decrypt", Err: fmt.Errorf("iv is %d bytes, want %d", len(iv), aes.BlockSize)}
	}
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return nil, &DecodeError{Step: "decrypt", Err: fmt.Errorf("ciphertext length %d is not a positive multiple of %d", len(data), aes.BlockSize)}
	}

	block, err := aes.NewCipher([]byte(reportKey))
	if err != nil {
		return nil, &DecodeError{Step: "decrypt", Err: err}
	}
	plain := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, data)

	end := bytes.LastIndexByte(plain, '}')
	if end < 0 {
		return nil, &DecodeError{Step: "truncate", Err: ErrNoClosingBrace}
	}
	body := plain[:end+1]
	if !utf8.Valid(body) {
		return nil, &DecodeError{Step: "utf8", Err: errors.New("plaintext is not valid UTF-8")}
	}
	return body, nil
}

// Seal encrypts v the way the server does: JSON body, then trailer, then
// PKCS#7 padding. The trailer must not contain '}'. It returns the hex
// ciphertext and hex IV.
func Seal(v any, iv, trailer []byte) (cipherHex, ivHex string, err error) {
	if len(iv) != aes.BlockSize {
		return "", "", fmt.Errorf("codec: iv is %d bytes, want %d", len(iv), aes.BlockSize)
	}
	if bytes.IndexByte(trailer, '}') >= 0 {
		return "", "", errors.New("codec: trailer contains a closing brace")
	}
	body, err := json.Marshal(v)
	if err != nil {
		return "", "", fmt.Errorf("codec: marshal: %w", err)
	}

	plain := append(body, trailer...)
	pad := aes.BlockSize - len(plain)%aes.BlockSize
	plain = append(plain, bytes.Repeat([]byte{byte(pad)}, pad)...)

	block, err := aes.NewCipher([]byte(reportKey))
	if err != nil {
		return "", "", err
	}
	out := make([]byte, len(plain))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, plain)
	return hex.EncodeToString(out), hex.EncodeToString(iv), nil
}
