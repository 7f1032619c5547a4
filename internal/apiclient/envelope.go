package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// EnvelopeMode selects how successful bodies are unwrapped.
type EnvelopeMode string

const (
	// EnvelopeAuto unwraps bodies shaped like {success, data, ...}, or a
	// data-only envelope, and decodes anything else directly.
	EnvelopeAuto EnvelopeMode = "auto"
	// EnvelopeRequired rejects 2xx bodies that are not an envelope.
	EnvelopeRequired EnvelopeMode = "required"
	// EnvelopeNone never unwraps.
	EnvelopeNone EnvelopeMode = "none"
)

var (
	errNotEnvelope   = errors.New("response is not an envelope")
	errInvalidJSON   = errors.New("response is not valid json")
	errBadSuccessKey = errors.New("envelope success field is not a boolean")
)

// unwrap returns the payload to decode. A nil payload means there is nothing
// to decode. An envelope with success=false is reported through failed.
func unwrap(mode EnvelopeMode, raw []byte) (payload json.RawMessage, failed bool, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, false, nil
	}
	if !json.Valid(raw) {
		return nil, false, errInvalidJSON
	}
	if mode == EnvelopeNone {
		return raw, false, nil
	}

	var fields map[string]json.RawMessage
	if json.Unmarshal(raw, &fields) != nil {
		// arrays and scalars are never envelopes
		if mode == EnvelopeRequired {
			return nil, false, errNotEnvelope
		}
		return raw, false, nil
	}
	successRaw, hasSuccess := fields["success"]
	data, hasData := fields["data"]
	if hasData && !hasSuccess && envelopeOnly(fields) {
		return data, false, nil
	}
	if !hasSuccess || !hasData {
		if mode == EnvelopeRequired {
			return nil, false, errNotEnvelope
		}
		return raw, false, nil
	}
	var success bool
	if err := json.Unmarshal(successRaw, &success); err != nil {
		return nil, false, errBadSuccessKey
	}
	if !success {
		return nil, true, nil
	}
	return data, false, nil
}

var envelopeKeys = map[string]bool{
	"success":    true,
	"data":       true,
	"timestamp":  true,
	"message":    true,
	"statusCode": true,
}

// envelopeOnly reports whether every key belongs to the envelope, so a
// resource that merely has a data field is not mistaken for one.
func envelopeOnly(fields map[string]json.RawMessage) bool {
	for k := range fields {
		if !envelopeKeys[k] {
			return false
		}
	}
	return true
}

// errorMessage extracts a best-effort message from an error body such as
// {"statusCode":400,"message":["a","b"],"error":"Bad Request"}.
func errorMessage(raw []byte) string {
	var body struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Message) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(body.Message, &s) == nil {
		return strings.TrimSpace(s)
	}
	var list []string
	if json.Unmarshal(body.Message, &list) == nil {
		return strings.Join(list, ", ")
	}
	return ""
}

func decode(payload json.RawMessage, out any) error {
	if out == nil || len(payload) == 0 || string(payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
