package frame

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// maxPayloadBytes bounds the POST body read from clients.
const maxPayloadBytes = 64 << 10

// ErrInvalidPayload marks an action payload that cannot be trusted: it is
// malformed, unsigned, or the hub rejected it.
var ErrInvalidPayload = errors.New("frame: invalid frame payload")

// CastID identifies the cast the frame was embedded in.
type CastID struct {
	FID  uint64 `json:"fid"`
	Hash string `json:"hash"`
}

// UntrustedData is the client-reported half of the payload. It is only
// used directly when verification is disabled.
type UntrustedData struct {
	FID         uint64 `json:"fid"`
	URL         string `json:"url"`
	MessageHash string `json:"messageHash"`
	Timestamp   int64  `json:"timestamp"`
	Network     int    `json:"network"`
	ButtonIndex int64  `json:"buttonIndex"`
	InputText   string `json:"inputText,omitempty"`
	State       string `json:"state,omitempty"`
	CastID      CastID `json:"castId"`
}

// TrustedData carries the hex encoded, signed protobuf message.
type TrustedData struct {
	MessageBytes string `json:"messageBytes"`
}

// ActionPayload is the JSON body a client POSTs on a button press.
type ActionPayload struct {
	UntrustedData UntrustedData `json:"untrustedData"`
	TrustedData   TrustedData   `json:"trustedData"`
}

// ParseActionPayload decodes a POST body. An empty body yields (nil, nil):
// the caller renders the initial frame.
func ParseActionPayload(r io.Reader) (*ActionPayload, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxPayloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	if len(raw) > maxPayloadBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrInvalidPayload, maxPayloadBytes)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var p ActionPayload
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return &p, nil
}
