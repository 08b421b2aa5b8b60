package frame

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// MaxStateLen is the largest fc:frame:state value clients accept.
const MaxStateLen = 4096

var ErrInvalidState = errors.New("frame: invalid state token")

// StateCodec turns page state into the opaque token carried by the frame
// and back. With a secret, tokens carry an HMAC-SHA256 tag and unsigned or
// altered tokens are rejected.
type StateCodec struct {
	secret []byte
}

func NewStateCodec(secret string) *StateCodec {
	return &StateCodec{secret: []byte(secret)}
}

// Signed reports whether tokens are authenticated.
func (c *StateCodec) Signed() bool { return c != nil && len(c.secret) > 0 }

// Encode serializes v into a state token.
func (c *StateCodec) Encode(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode state: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)
	if c.Signed() {
		token += "." + base64.RawURLEncoding.EncodeToString(c.sign(raw))
	}
	if len(token) > MaxStateLen {
		return "", fmt.Errorf("encode state: token is %d bytes, limit %d", len(token), MaxStateLen)
	}
	return token, nil
}

// Decode parses token into v.
func (c *StateCodec) Decode(token string, v any) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: empty token", ErrInvalidState)
	}
	if len(token) > MaxStateLen {
		return fmt.Errorf("%w: token too long", ErrInvalidState)
	}
	body, tag, hasTag := strings.Cut(token, ".")
	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if c.Signed() {
		if !hasTag {
			return fmt.Errorf("%w: missing signature", ErrInvalidState)
		}
		got, err := base64.RawURLEncoding.DecodeString(tag)
		if err != nil || !hmac.Equal(got, c.sign(raw)) {
			return fmt.Errorf("%w: bad signature", ErrInvalidState)
		}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return nil
}

func (c *StateCodec) sign(raw []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(raw)
	return mac.Sum(nil)
}
