// Package frame implements the Farcaster Frame (vNext) surface the pages are
// served through: frame metadata and its HTML rendering, the inbound action
// payload, the opaque state token, and hub-backed message verification.
package frame

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// MaxButtons is the number of buttons a frame may carry.
const MaxButtons = 4

// MaxInputTextLen bounds the placeholder of the optional text input.
const MaxInputTextLen = 32

// ButtonIndex is a validated 1-based button position. ButtonNone means the
// action did not carry a usable index.
type ButtonIndex int

const ButtonNone ButtonIndex = 0

// ParseButtonIndex clamps a raw, untrusted index into the closed range
// 1..MaxButtons. Anything else becomes ButtonNone.
func ParseButtonIndex(raw int64) ButtonIndex {
	if raw < 1 || raw > MaxButtons {
		return ButtonNone
	}
	return ButtonIndex(raw)
}

// Valid reports whether b names a real button.
func (b ButtonIndex) Valid() bool { return b >= 1 && b <= MaxButtons }

func (b ButtonIndex) String() string {
	if !b.Valid() {
		return ""
	}
	return strconv.Itoa(int(b))
}

// Action is the verified user input that drives a page reducer.
type Action struct {
	Button    ButtonIndex
	InputText string
}

// ButtonAction is what the client does when a button is pressed.
type ButtonAction string

const (
	ActionPost         ButtonAction = "post"
	ActionPostRedirect ButtonAction = "post_redirect"
	ActionLink         ButtonAction = "link"
)

// Button is one actionable button of a frame.
type Button struct {
	Label  string
	Action ButtonAction
	Target string
}

// PostButton posts back to the frame's post_url.
func PostButton(label string) Button {
	return Button{Label: label, Action: ActionPost}
}

// LinkButton navigates to an external URL without posting.
func LinkButton(label, target string) Button {
	return Button{Label: label, Action: ActionLink, Target: target}
}

// Frame is the metadata of a single rendered frame.
type Frame struct {
	Image       string
	AspectRatio string
	PostURL     string
	Buttons     []Button
	InputText   string
	State       string
}

var ErrInvalidFrame = errors.New("frame: invalid frame")

// Validate checks the frame against the vNext limits before it is emitted.
func (f Frame) Validate() error {
	if !isAbsoluteURL(f.Image) {
		return fmt.Errorf("%w: image must be an absolute url", ErrInvalidFrame)
	}
	switch f.AspectRatio {
	case "", "1.91:1", "1:1":
	default:
		return fmt.Errorf("%w: unsupported aspect ratio %q", ErrInvalidFrame, f.AspectRatio)
	}
	if len(f.Buttons) > MaxButtons {
		return fmt.Errorf("%w: %d buttons, at most %d allowed", ErrInvalidFrame, len(f.Buttons), MaxButtons)
	}
	if len([]rune(f.InputText)) > MaxInputTextLen {
		return fmt.Errorf("%w: input text longer than %d characters", ErrInvalidFrame, MaxInputTextLen)
	}
	needsPost := false
	for i, b := range f.Buttons {
		if strings.TrimSpace(b.Label) == "" {
			return fmt.Errorf("%w: button %d has no label", ErrInvalidFrame, i+1)
		}
		switch b.Action {
		case "", ActionPost, ActionPostRedirect:
			needsPost = true
			if b.Target != "" && !isAbsoluteURL(b.Target) {
				return fmt.Errorf("%w: button %d target must be an absolute url", ErrInvalidFrame, i+1)
			}
		case ActionLink:
			if !isAbsoluteURL(b.Target) {
				return fmt.Errorf("%w: link button %d needs an absolute target", ErrInvalidFrame, i+1)
			}
		default:
			return fmt.Errorf("%w: button %d has unknown action %q", ErrInvalidFrame, i+1, b.Action)
		}
	}
	if needsPost && !isAbsoluteURL(f.PostURL) {
		return fmt.Errorf("%w: post_url must be an absolute url", ErrInvalidFrame)
	}
	if len(f.State) > MaxStateLen {
		return fmt.Errorf("%w: state exceeds %d bytes", ErrInvalidFrame, MaxStateLen)
	}
	return nil
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
