package frame

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseButtonIndexClampsUntrustedInput(t *testing.T) {
	cases := map[int64]ButtonIndex{
		-3: ButtonNone,
		0:  ButtonNone,
		1:  1,
		4:  4,
		5:  ButtonNone,
		99: ButtonNone,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseButtonIndex(raw), "raw=%d", raw)
	}
	assert.Equal(t, "", ButtonNone.String())
	assert.Equal(t, "3", ButtonIndex(3).String())
}

func validFrame() Frame {
	return Frame{
		Image:   "https://example.com/a.jpg",
		PostURL: "https://frames.example.com/",
		Buttons: []Button{
			PostButton("Love it!"),
			LinkButton("Music Link", "https://www.youtube.com/watch?v=7wtfhZwyrcc"),
		},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validFrame().Validate())

	tooMany := validFrame()
	tooMany.Buttons = []Button{PostButton("1"), PostButton("2"), PostButton("3"), PostButton("4"), PostButton("5")}

	noImage := validFrame()
	noImage.Image = "/relative.png"

	linkNoTarget := validFrame()
	linkNoTarget.Buttons = []Button{{Label: "go", Action: ActionLink}}

	noPostURL := validFrame()
	noPostURL.PostURL = ""

	emptyLabel := validFrame()
	emptyLabel.Buttons = []Button{PostButton("  ")}

	badAction := validFrame()
	badAction.Buttons = []Button{{Label: "x", Action: "mint"}}

	badRatio := validFrame()
	badRatio.AspectRatio = "4:3"

	for name, f := range map[string]Frame{
		"too many buttons": tooMany,
		"relative image":   noImage,
		"link no target":   linkNoTarget,
		"post no post_url": noPostURL,
		"empty label":      emptyLabel,
		"unknown action":   badAction,
		"aspect ratio":     badRatio,
	} {
		err := f.Validate()
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrInvalidFrame), name)
	}
}

func TestValidateLinkOnlyFrameNeedsNoPostURL(t *testing.T) {
	f := Frame{
		Image:   "https://example.com/a.jpg",
		Buttons: []Button{LinkButton("Go to playlist!", "https://youtube.com/x")},
	}
	require.NoError(t, f.Validate())
}

func TestRenderWritesFrameMetaTags(t *testing.T) {
	f := validFrame()
	f.State = "abc.def"
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Page{Title: "Songs", Frame: f, DebugURL: DebugURL("http://localhost:3010", "http://localhost:3000/")}))
	out := buf.String()

	for _, want := range []string{
		`<meta property="fc:frame" content="vNext">`,
		`<meta property="fc:frame:image" content="https://example.com/a.jpg">`,
		`<meta property="og:image" content="https://example.com/a.jpg">`,
		`<meta property="fc:frame:post_url" content="https://frames.example.com/">`,
		`<meta property="fc:frame:button:1" content="Love it!">`,
		`<meta property="fc:frame:button:1:action" content="post">`,
		`<meta property="fc:frame:button:2:action" content="link">`,
		`<meta property="fc:frame:button:2:target" content="https://www.youtube.com/watch?v=7wtfhZwyrcc">`,
		`<meta property="fc:frame:state" content="abc.def">`,
		`http://localhost:3010?url=http%3A%2F%2Flocalhost%3A3000%2F`,
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "fc:frame:button:3")
	assert.NotContains(t, out, "fc:frame:button:1:target")
}

func TestRenderEscapesAttributeValues(t *testing.T) {
	f := validFrame()
	f.Buttons = []Button{PostButton(`"><script>alert(1)</script>`)}
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Page{Title: "x", Frame: f}))
	assert.NotContains(t, buf.String(), "<script>")
}

func TestRenderRejectsInvalidFrame(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, Page{Frame: Frame{}})
	require.ErrorIs(t, err, ErrInvalidFrame)
	assert.Zero(t, buf.Len())
}

func TestParseActionPayload(t *testing.T) {
	p, err := ParseActionPayload(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = ParseActionPayload(strings.NewReader("{not json"))
	require.ErrorIs(t, err, ErrInvalidPayload)

	_, err = ParseActionPayload(strings.NewReader(strings.Repeat(" ", maxPayloadBytes+10) + "{}"))
	require.ErrorIs(t, err, ErrInvalidPayload)

	p, err = ParseActionPayload(strings.NewReader(`{
		"untrustedData": {"fid": 7, "buttonIndex": 3, "inputText": "hi", "state": "tok", "castId": {"fid": 1, "hash": "0xab"}},
		"trustedData": {"messageBytes": "0a0b"}
	}`))
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.EqualValues(t, 7, p.UntrustedData.FID)
	assert.EqualValues(t, 3, p.UntrustedData.ButtonIndex)
	assert.Equal(t, "tok", p.UntrustedData.State)
	assert.Equal(t, "0a0b", p.TrustedData.MessageBytes)
}

func TestInsecureVerifierTrustsUntrustedData(t *testing.T) {
	m, err := InsecureVerifier{}.Verify(t.Context(), &ActionPayload{UntrustedData: UntrustedData{FID: 9, ButtonIndex: 7, State: "s"}})
	require.NoError(t, err)
	assert.False(t, m.Verified)
	assert.Equal(t, ButtonNone, m.Action.Button)
	assert.Equal(t, "s", m.State)

	_, err = InsecureVerifier{}.Verify(t.Context(), nil)
	require.ErrorIs(t, err, ErrInvalidPayload)
}
