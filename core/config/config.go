// Package config holds the tunable settings for chatscribe.
// The convergence thresholds are empirically chosen against the current
// host UI timing and are deliberately configuration, not constants:
// every one of them can be overridden from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Selectors locates the pieces of the host page the pipeline reads.
// All values are CSS selectors; comma-separated alternatives are allowed.
type Selectors struct {
	// Scroller is the scrollable conversation root.
	Scroller string `yaml:"scroller"`
	// TurnContainer matches one conversation exchange.
	TurnContainer string `yaml:"turn_container"`
	// UserQuery and ModelResponse match the two sides inside a turn container.
	UserQuery     string `yaml:"user_query"`
	ModelResponse string `yaml:"model_response"`
	// Timestamp matches an optional author-supplied timestamp element
	// inside a turn container.
	Timestamp string `yaml:"timestamp"`
	// Report matches the optional long-form artifact panel.
	Report string `yaml:"report"`
	// ReportTitle matches an explicit title element inside the panel toolbar.
	ReportTitle string `yaml:"report_title"`
	// SidebarItem matches one conversation entry in the host sidebar.
	SidebarItem string `yaml:"sidebar_item"`
}

// Convergence controls the scroll perturbation loop.
type Convergence struct {
	// SettleMs is how long to wait after each scroll for the host UI to
	// prepend older content.
	SettleMs int `yaml:"settle_ms"`
	// StableRounds is how many consecutive probes without growth count
	// as convergence.
	StableRounds int `yaml:"stable_rounds"`
	// MaxAttempts bounds the perturbation loop; reaching it is a
	// soft-success, not an error.
	MaxAttempts int `yaml:"max_attempts"`
}

// Extraction controls assembly thresholds.
type Extraction struct {
	// DedupPrefix is how many leading characters of content take part in
	// the duplicate-turn fingerprint.
	DedupPrefix int `yaml:"dedup_prefix"`
	// ReportMinChars is the noise floor below which a detected report is
	// treated as absent.
	ReportMinChars int `yaml:"report_min_chars"`
	// TitleMaxChars bounds a report title derived from body text.
	TitleMaxChars int `yaml:"title_max_chars"`
}

// Browser controls how chatscribe reaches the host page.
type Browser struct {
	// DebuggerURL attaches to an already-running Chromium (DevTools
	// protocol). When empty, a new instance is launched.
	DebuggerURL string `yaml:"debugger_url"`
	Headless    bool   `yaml:"headless"`
	// PageURLPattern selects the conversation tab among open pages.
	PageURLPattern      string `yaml:"page_url_pattern"`
	NavigationTimeoutMs int    `yaml:"navigation_timeout_ms"`
}

// Config aggregates all tunables.
type Config struct {
	Convergence Convergence `yaml:"convergence"`
	Extraction  Extraction  `yaml:"extraction"`
	Browser     Browser     `yaml:"browser"`
	Selectors   Selectors   `yaml:"selectors"`
	// DefaultTitle is used when the page title is absent or only
	// reflects the host application's own branding.
	DefaultTitle string `yaml:"default_title"`
}

// Default returns the built-in settings for the Gemini web UI.
func Default() Config {
	return Config{
		Convergence: Convergence{
			SettleMs:     600,
			StableRounds: 3,
			MaxAttempts:  100,
		},
		Extraction: Extraction{
			DedupPrefix:    200,
			ReportMinChars: 50,
			TitleMaxChars:  80,
		},
		Browser: Browser{
			Headless:            false,
			PageURLPattern:      "gemini.google.com",
			NavigationTimeoutMs: 30000,
		},
		Selectors: Selectors{
			Scroller:      `infinite-scroller, [data-test-id="chat-history-container"], main`,
			TurnContainer: `div.conversation-container`,
			UserQuery:     `user-query`,
			ModelResponse: `model-response`,
			Timestamp:     `[data-timestamp]`,
			Report:        `immersive-panel, [data-test-id="immersive-panel"]`,
			ReportTitle:   `[data-test-id="artifact-title"], .toolbar-title`,
			SidebarItem:   `.conversation-items-container .conversation, [data-test-id="conversation"]`,
		},
		DefaultTitle: "Gemini Conversation",
	}
}

// Load reads a YAML file over the defaults. A missing path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// SettleInterval returns the settle wait as a duration.
func (c Convergence) SettleInterval() time.Duration {
	if c.SettleMs <= 0 {
		return 600 * time.Millisecond
	}
	return time.Duration(c.SettleMs) * time.Millisecond
}

// NavigationTimeout returns the navigation timeout as a duration.
func (b Browser) NavigationTimeout() time.Duration {
	if b.NavigationTimeoutMs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(b.NavigationTimeoutMs) * time.Millisecond
}
