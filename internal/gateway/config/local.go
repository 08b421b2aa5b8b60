package config

const (
	defaultPort        = ":3000"
	defaultGeminiModel = "gemini-2.5-flash"
	fakeModel          = "fake"

	defaultNothingLikedImage = "https://placehold.co/600x400/png?text=You+did+not+like+any+song"
	defaultUnavailableImage  = "https://placehold.co/600x400/png?text=No+suggestion+right+now"

	localHubURL      = "http://localhost:3010/hub"
	localDebuggerURL = "http://localhost:3010"
)

// applyLocalDefaults points a local run at the frames debugger, which also
// serves a hub.
func applyLocalDefaults(cfg *Config) {
	if cfg.Frame.HubURL == "" {
		cfg.Frame.HubURL = localHubURL
	}
	cfg.Frame.DebuggerURL = localDebuggerURL
}
