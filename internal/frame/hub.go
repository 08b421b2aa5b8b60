package frame

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DefaultDebugHubURL is the hub served by the local frames debugger.
	DefaultDebugHubURL = "http://localhost:3010/hub"

	frameActionType = "MESSAGE_TYPE_FRAME_ACTION"
)

type HubConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	// CacheSize bounds the verified-message cache; <= 0 uses 1024.
	CacheSize int
}

// HubVerifier validates signed frame messages with a Farcaster hub's
// /v1/validateMessage endpoint.
type HubVerifier struct {
	baseURL string
	client  *http.Client
	cache   *lru.Cache[string, Message]
}

func NewHubVerifier(cfg HubConfig) (*HubVerifier, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if !isAbsoluteURL(base) {
		return nil, fmt.Errorf("hub url must be an absolute url, got %q", cfg.BaseURL)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = 1024
	}
	cache, err := lru.New[string, Message](size)
	if err != nil {
		return nil, err
	}
	return &HubVerifier{baseURL: base, client: client, cache: cache}, nil
}

type hubValidateResponse struct {
	Valid   bool `json:"valid"`
	Message struct {
		Data struct {
			Type            string `json:"type"`
			FID             uint64 `json:"fid"`
			FrameActionBody struct {
				URL         string `json:"url"`
				ButtonIndex int64  `json:"buttonIndex"`
				InputText   string `json:"inputText"`
				State       string `json:"state"`
			} `json:"frameActionBody"`
		} `json:"data"`
	} `json:"message"`
}

func (h *HubVerifier) Verify(ctx context.Context, p *ActionPayload) (Message, error) {
	if p == nil {
		return Message{}, ErrInvalidPayload
	}
	msgHex := strings.TrimPrefix(strings.TrimSpace(p.TrustedData.MessageBytes), "0x")
	if msgHex == "" {
		return Message{}, fmt.Errorf("%w: missing trustedData.messageBytes", ErrInvalidPayload)
	}
	msgBytes, err := hex.DecodeString(msgHex)
	if err != nil {
		return Message{}, fmt.Errorf("%w: messageBytes is not hex", ErrInvalidPayload)
	}
	sum := sha256.Sum256(msgBytes)
	key := hex.EncodeToString(sum[:])
	if m, ok := h.cache.Get(key); ok {
		return m, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/v1/validateMessage", bytes.NewReader(msgBytes))
	if err != nil {
		return Message{}, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	resp, err := h.client.Do(req)
	if err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrHubUnavailable, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Message{}, fmt.Errorf("%w: read response: %v", ErrHubUnavailable, err)
	}
	switch {
	case resp.StatusCode >= 500:
		return Message{}, fmt.Errorf("%w: status %d", ErrHubUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return Message{}, fmt.Errorf("%w: hub rejected message with status %d", ErrInvalidPayload, resp.StatusCode)
	}

	var out hubValidateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return Message{}, fmt.Errorf("%w: decode response: %v", ErrHubUnavailable, err)
	}
	if !out.Valid {
		return Message{}, fmt.Errorf("%w: hub reported message invalid", ErrInvalidPayload)
	}
	data := out.Message.Data
	if data.Type != frameActionType {
		return Message{}, fmt.Errorf("%w: unexpected message type %q", ErrInvalidPayload, data.Type)
	}
	fab := data.FrameActionBody
	m := Message{
		FID: data.FID,
		URL: decodeHubBytes(fab.URL),
		Action: Action{
			Button:    ParseButtonIndex(fab.ButtonIndex),
			InputText: decodeHubBytes(fab.InputText),
		},
		State:    decodeHubBytes(fab.State),
		Verified: true,
	}
	// Older clients leave the signed state empty and only echo it unsigned.
	if m.State == "" {
		m.State = p.UntrustedData.State
	}
	h.cache.Add(key, m)
	return m, nil
}

// decodeHubBytes decodes a protobuf bytes field rendered as base64 JSON.
// Values that are not base64 are returned unchanged.
func decodeHubBytes(s string) string {
	if s == "" {
		return ""
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return s
	}
	return string(raw)
}
