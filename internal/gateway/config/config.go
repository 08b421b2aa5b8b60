package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvTest  = "test"
)

type Config struct {
	Port      string
	Env       string
	PublicURL string

	Gemini     GeminiConfig
	Frame      FrameConfig
	HTTP       HTTPConfig
	Suggestion SuggestionConfig
	Images     ImageConfig
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	RPS     float64
	Burst   int
	Retries int
}

type FrameConfig struct {
	HubURL      string
	Verify      bool
	StateSecret string
	// DebuggerURL links rendered pages to the frames debugger; local only.
	DebuggerURL string
}

type HTTPConfig struct {
	RPS   float64
	Burst int
}

type SuggestionConfig struct {
	CacheTTL      time.Duration
	CacheMaxBytes int
	PostgresDSN   string
}

type ImageConfig struct {
	NothingLiked string
	Unavailable  string
}

// Overrides carries command-line values; non-empty fields win over the
// environment.
type Overrides struct {
	Port      string
	Env       string
	PublicURL string
}

// Load reads .env (if present), then the process environment, then o.
func Load(o Overrides) (*Config, error) {
	_ = godotenv.Load()

	env := strings.ToLower(firstNonEmpty(o.Env, os.Getenv("APP_ENV"), EnvLocal))
	port := normalizePort(firstNonEmpty(o.Port, os.Getenv("PORT"), defaultPort))

	var errs []error
	cfg := &Config{
		Port:      port,
		Env:       env,
		PublicURL: strings.TrimRight(firstNonEmpty(o.PublicURL, os.Getenv("PUBLIC_URL"), "http://localhost"+port), "/"),
		Gemini: GeminiConfig{
			APIKey:  firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("API_KEY")),
			Model:   firstNonEmpty(os.Getenv("GEMINI_MODEL"), defaultGeminiModel),
			Timeout: envDuration("SUGGEST_TIMEOUT", 10*time.Second, &errs),
			RPS:     envFloat("LLM_RPS", 1, &errs),
			Burst:   envInt("LLM_BURST", 2, &errs),
			Retries: envInt("LLM_RETRIES", 2, &errs),
		},
		Frame: FrameConfig{
			HubURL:      strings.TrimSpace(os.Getenv("HUB_URL")),
			Verify:      envBool("FRAME_VERIFY", true, &errs),
			StateSecret: strings.TrimSpace(os.Getenv("FRAME_STATE_SECRET")),
		},
		HTTP: HTTPConfig{
			RPS:   envFloat("HTTP_RPS", 5, &errs),
			Burst: envInt("HTTP_BURST", 10, &errs),
		},
		Suggestion: SuggestionConfig{
			CacheTTL:      envDuration("SUGGESTION_CACHE_TTL", 6*time.Hour, &errs),
			CacheMaxBytes: envInt("SUGGESTION_CACHE_MAX_BYTES", 256<<10, &errs),
			PostgresDSN:   strings.TrimSpace(os.Getenv("SUGGESTION_STORE_PG_DSN")),
		},
		Images: ImageConfig{
			NothingLiked: firstNonEmpty(os.Getenv("NOTHING_LIKED_IMAGE"), defaultNothingLikedImage),
			Unavailable:  firstNonEmpty(os.Getenv("UNAVAILABLE_IMAGE"), defaultUnavailableImage),
		},
	}
	if cfg.IsLocal() {
		applyLocalDefaults(cfg)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsLocal() bool { return c.Env == EnvLocal }

// Validate reports settings the app cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Gemini.APIKey == "" && c.Gemini.Model != fakeModel && c.Env != EnvTest {
		errs = append(errs, errors.New("GEMINI_API_KEY (or API_KEY) is required"))
	}
	if !c.Frame.Verify && !c.IsLocal() && c.Env != EnvTest {
		errs = append(errs, fmt.Errorf("FRAME_VERIFY=off is only allowed when APP_ENV=%s", EnvLocal))
	}
	if c.Frame.Verify && c.Frame.HubURL == "" {
		errs = append(errs, errors.New("HUB_URL is required when frame verification is on"))
	}
	for name, raw := range map[string]string{
		"PUBLIC_URL":          c.PublicURL,
		"NOTHING_LIKED_IMAGE": c.Images.NothingLiked,
		"UNAVAILABLE_IMAGE":   c.Images.Unavailable,
	} {
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s must be an absolute URL, got %q", name, raw))
		}
	}
	return errors.Join(errs...)
}

func normalizePort(p string) string {
	p = strings.TrimSpace(p)
	if strings.HasPrefix(p, ":") {
		return p
	}
	return ":" + p
}

func envDuration(key string, def time.Duration, errs *[]error) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		*errs = append(*errs, fmt.Errorf("%s: invalid duration %q", key, raw))
		return def
	}
	return d
}

func envFloat(key string, def float64, errs *[]error) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		*errs = append(*errs, fmt.Errorf("%s: invalid number %q", key, raw))
		return def
	}
	return v
}

func envInt(key string, def int, errs *[]error) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		*errs = append(*errs, fmt.Errorf("%s: invalid integer %q", key, raw))
		return def
	}
	return v
}

func envBool(key string, def bool, errs *[]error) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	switch strings.ToLower(raw) {
	case "":
		return def
	case "on":
		return true
	case "off":
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid boolean %q", key, raw))
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
