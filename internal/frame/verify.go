package frame

import (
	"context"
	"errors"
)

// ErrHubUnavailable is returned when the hub could not be asked at all.
// The payload may be fine; the request still cannot proceed.
var ErrHubUnavailable = errors.New("frame: hub unavailable")

// Message is a payload after verification.
type Message struct {
	FID    uint64
	URL    string
	Action Action
	// State is the previous-state token echoed by the client.
	State string
	// Verified is false only for messages accepted by InsecureVerifier.
	Verified bool
}

// Verifier authenticates an inbound action payload.
type Verifier interface {
	Verify(ctx context.Context, p *ActionPayload) (Message, error)
}

// InsecureVerifier trusts untrustedData as-is. Local debugging only.
type InsecureVerifier struct{}

func (InsecureVerifier) Verify(_ context.Context, p *ActionPayload) (Message, error) {
	if p == nil {
		return Message{}, ErrInvalidPayload
	}
	u := p.UntrustedData
	return Message{
		FID: u.FID,
		URL: u.URL,
		Action: Action{
			Button:    ParseButtonIndex(u.ButtonIndex),
			InputText: u.InputText,
		},
		State: u.State,
	}, nil
}
