package frame

import (
	"fmt"
	"html/template"
	"io"
	"net/url"
)

// Page is a full HTML document carrying one frame.
type Page struct {
	Title string
	Frame Frame
	// DebugURL, when set, adds a link to the frames debugger in the body.
	DebugURL string
}

var pageTmpl = template.Must(template.New("frame").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"action": func(b Button) ButtonAction {
		if b.Action == "" {
			return ActionPost
		}
		return b.Action
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta property="fc:frame" content="vNext">
<meta property="fc:frame:image" content="{{.Frame.Image}}">
{{- with .Frame.AspectRatio}}
<meta property="fc:frame:image:aspect_ratio" content="{{.}}">
{{- end}}
<meta property="og:image" content="{{.Frame.Image}}">
<meta property="og:title" content="{{.Title}}">
{{- with .Frame.PostURL}}
<meta property="fc:frame:post_url" content="{{.}}">
{{- end}}
{{- with .Frame.InputText}}
<meta property="fc:frame:input:text" content="{{.}}">
{{- end}}
{{- range $i, $b := .Frame.Buttons}}
<meta property="fc:frame:button:{{inc $i}}" content="{{$b.Label}}">
<meta property="fc:frame:button:{{inc $i}}:action" content="{{action $b}}">
{{- with $b.Target}}
<meta property="fc:frame:button:{{inc $i}}:target" content="{{.}}">
{{- end}}
{{- end}}
{{- with .Frame.State}}
<meta property="fc:frame:state" content="{{.}}">
{{- end}}
</head>
<body>
<p>{{.Title}}. The frame is in the html meta tags (inspect source).
{{- with .DebugURL}} <a href="{{.}}">Debug</a>{{end}}</p>
</body>
</html>
`))

// Render validates the frame and writes the page to w.
func Render(w io.Writer, p Page) error {
	if err := p.Frame.Validate(); err != nil {
		return err
	}
	if err := pageTmpl.Execute(w, p); err != nil {
		return fmt.Errorf("render frame: %w", err)
	}
	return nil
}

// DebugURL builds the frames debugger link for a frame served at frameURL.
func DebugURL(debuggerBase, frameURL string) string {
	if debuggerBase == "" {
		return ""
	}
	return debuggerBase + "?url=" + url.QueryEscape(frameURL)
}
