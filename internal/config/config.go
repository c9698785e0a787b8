// Package config parses showcase.toml project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/LISSConsulting/LISSTech.Showcase/internal/pacing"
)

// FileName is the configuration file looked up by Load.
const FileName = "showcase.toml"

// DefaultAccentColor is the default TUI accent color (indigo).
const DefaultAccentColor = "#7D56F4"

// ErrNotFound is returned by Load when no showcase.toml exists in the
// working directory or any of its parents.
var ErrNotFound = errors.New("config: " + FileName + " not found")

// hexColorRe matches a 6-digit hex color string like "#7D56F4".
var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Config is the top-level showcase.toml configuration.
type Config struct {
	Project  ProjectConfig  `toml:"project"`
	Playback PlaybackConfig `toml:"playback"`
	Pacing   PacingConfig   `toml:"pacing"`
	Scripts  ScriptsConfig  `toml:"scripts"`
	TUI      TUIConfig      `toml:"tui"`
	History  HistoryConfig  `toml:"history"`

	Notifications NotificationsConfig `toml:"notifications"`

	// Dir is the project root: the directory holding showcase.toml, or the
	// working directory when running on defaults. Relative paths resolve
	// against it.
	Dir string `toml:"-"`
}

// ProjectConfig identifies the project.
type ProjectConfig struct {
	Name string `toml:"name"`
}

// PlaybackConfig controls the sequencer.
type PlaybackConfig struct {
	Loop            bool  `toml:"loop"`
	FreezeMS        int   `toml:"freeze_ms"`
	MaxVisibleLines int   `toml:"max_visible_lines"` // 0 = unbounded
	MaxInstantChain int   `toml:"max_instant_chain"` // 0 = unbounded
	MaxPasses       int   `toml:"max_passes"`        // headless only; 0 = until stopped
	Seed            int64 `toml:"seed"`              // 0 = random sample values every run
}

// Freeze returns the pause between passes.
func (p PlaybackConfig) Freeze() time.Duration {
	return time.Duration(p.FreezeMS) * time.Millisecond
}

// PacingConfig tunes the delay calculator. The per-class ranges live in
// [pacing.prompt], [pacing.status_working] and so on.
type PacingConfig struct {
	Jitter       float64  `toml:"jitter"`
	WorkingVerbs []string `toml:"working_verbs"`
	pacing.Ranges
}

// ScriptsConfig selects where demo scripts come from.
type ScriptsConfig struct {
	Dir     string `toml:"dir"`
	Builtin bool   `toml:"builtin"`
}

// TUIConfig controls the terminal UI appearance.
type TUIConfig struct {
	AccentColor   string `toml:"accent_color"`
	CursorBlinkMS int    `toml:"cursor_blink_ms"`
}

// CursorBlink returns the cursor blink interval.
func (t TUIConfig) CursorBlink() time.Duration {
	return time.Duration(t.CursorBlinkMS) * time.Millisecond
}

// HistoryConfig controls session logs.
type HistoryConfig struct {
	Enabled   bool   `toml:"enabled"`
	Dir       string `toml:"dir"`
	Retention int    `toml:"retention"` // number of session logs to keep; 0 = unlimited
}

// NotificationsConfig controls webhook/ntfy.sh notifications for headless
// playback.
type NotificationsConfig struct {
	URL    string `toml:"url"`
	OnPass bool   `toml:"on_pass"`
	OnDone bool   `toml:"on_done"`
	OnStop bool   `toml:"on_stop"`
}

// Validate checks the configuration for issues that would cause confusing
// runtime behaviour. It returns all found issues joined together.
func (c *Config) Validate() error {
	var errs []error

	if c.Playback.FreezeMS < 0 {
		errs = append(errs, fmt.Errorf("playback.freeze_ms must be >= 0"))
	} else if c.Playback.FreezeMS == 0 && c.Playback.Loop {
		errs = append(errs, fmt.Errorf("playback.freeze_ms must be > 0 when playback.loop is enabled"))
	}
	if c.Playback.MaxVisibleLines < 0 {
		errs = append(errs, fmt.Errorf("playback.max_visible_lines must be >= 0 (0 = unbounded)"))
	}
	if c.Playback.MaxInstantChain < 0 {
		errs = append(errs, fmt.Errorf("playback.max_instant_chain must be >= 0 (0 = unbounded)"))
	}
	if c.Playback.MaxPasses < 0 {
		errs = append(errs, fmt.Errorf("playback.max_passes must be >= 0 (0 = until stopped)"))
	}

	if c.Pacing.Jitter < 0 || c.Pacing.Jitter > 1 {
		errs = append(errs, fmt.Errorf("pacing.jitter must be between 0 and 1"))
	}
	for _, r := range []struct {
		key string
		r   pacing.Range
	}{
		{"prompt", c.Pacing.Prompt},
		{"status_working", c.Pacing.StatusWorking},
		{"status_simple", c.Pacing.StatusSimple},
		{"success", c.Pacing.Success},
		{"warning", c.Pacing.Warning},
		{"plain", c.Pacing.Plain},
	} {
		if r.r.Min < 0 {
			errs = append(errs, fmt.Errorf("pacing.%s.min must be >= 0", r.key))
		}
		if r.r.Min > r.r.Max {
			errs = append(errs, fmt.Errorf("pacing.%s.min must be <= max", r.key))
		}
	}
	for i, verb := range c.Pacing.WorkingVerbs {
		if strings.TrimSpace(verb) == "" {
			errs = append(errs, fmt.Errorf("pacing.working_verbs[%d] must not be empty", i))
		}
	}

	if !c.Scripts.Builtin && c.Scripts.Dir == "" {
		errs = append(errs, fmt.Errorf("scripts.dir must be set when scripts.builtin is false"))
	}

	if c.TUI.AccentColor != "" && !hexColorRe.MatchString(c.TUI.AccentColor) {
		errs = append(errs, fmt.Errorf("tui.accent_color must be a hex color (e.g. \"#7D56F4\")"))
	}
	if c.TUI.CursorBlinkMS < 0 {
		errs = append(errs, fmt.Errorf("tui.cursor_blink_ms must be >= 0 (0 = steady cursor)"))
	}

	if c.History.Enabled && c.History.Dir == "" {
		errs = append(errs, fmt.Errorf("history.dir must not be empty when history is enabled"))
	}
	if c.History.Retention < 0 {
		errs = append(errs, fmt.Errorf("history.retention must be >= 0 (0 = unlimited)"))
	}

	if c.Notifications.URL != "" {
		u, parseErr := url.ParseRequestURI(c.Notifications.URL)
		if parseErr != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Errorf("notifications.url must be a valid http or https URL"))
		}
	}

	return errors.Join(errs...)
}

// Defaults returns a Config with the stock playback and pacing values.
func Defaults() Config {
	verbs := make([]string, len(pacing.DefaultWorkingVerbs))
	copy(verbs, pacing.DefaultWorkingVerbs)
	return Config{
		Playback: PlaybackConfig{
			Loop:            true,
			FreezeMS:        5000,
			MaxVisibleLines: 15,
			MaxInstantChain: 256,
		},
		Pacing: PacingConfig{
			Jitter:       pacing.DefaultJitter,
			WorkingVerbs: verbs,
			Ranges:       pacing.DefaultRanges(),
		},
		Scripts: ScriptsConfig{
			Dir:     "demos",
			Builtin: true,
		},
		TUI: TUIConfig{
			AccentColor:   DefaultAccentColor,
			CursorBlinkMS: 530,
		},
		History: HistoryConfig{
			Enabled:   true,
			Dir:       ".showcase/sessions",
			Retention: 20,
		},
		Notifications: NotificationsConfig{
			OnPass: false,
			OnDone: true,
			OnStop: true,
		},
	}
}

// Load reads showcase.toml from the given path. If path is empty, it walks up
// from the current working directory looking for showcase.toml and returns
// an error wrapping ErrNotFound if there is none. Returns an error if the
// file contains unknown keys (likely typos).
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := findConfig()
		if err != nil {
			return nil, err
		}
		path = found
	}

	cfg := Defaults()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config: unknown keys in %s: %s (possible typos?)", path, joinKeys(keys))
	}

	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	cfg.Dir = abs
	if cfg.Project.Name == "" {
		cfg.Project.Name = DetectProjectName(cfg.Dir)
	}

	return &cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Defaults rooted at the
// working directory when no showcase.toml is found.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, ErrNotFound) {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return nil, fmt.Errorf("config: get working directory: %w", wdErr)
		}
		d := Defaults()
		d.Dir = wd
		d.Project.Name = DetectProjectName(wd)
		return &d, nil
	}
	return cfg, err
}

// Resolve returns p joined to the project root unless it is absolute.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// joinKeys formats a slice of key names for display.
func joinKeys(keys []string) string {
	return strings.Join(keys, ", ")
}

// findConfig walks up from the current directory looking for showcase.toml.
func findConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("config: get working directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w (searched up from %s)", ErrNotFound, dir)
		}
		dir = parent
	}
}

// InitFile writes a default showcase.toml template to the given directory.
func InitFile(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config: %s already exists at %s", FileName, path)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}

const configTemplate = `# showcase.toml — scripted demo playback configuration
# Place this file in the root of your project.

[project]
name = ""

[playback]
loop = true
freeze_ms = 5000          # pause after the last line before looping
max_visible_lines = 15    # trailing window; 0 = show every line
max_instant_chain = 256   # zero-delay lines revealed per burst; 0 = unbounded
max_passes = 0            # headless playback stops after N passes; 0 = until stopped
seed = 0                  # fixes the built-in demos' sample values; 0 = random

[pacing]
jitter = 0.1
working_verbs = [
  "processing", "analyzing", "executing", "generating", "training",
  "loading", "scanning", "building", "transcribing", "calculating",
  "correlating",
]

[pacing.prompt]
min = 500
max = 800

[pacing.status_working]
min = 2000
max = 3000

[pacing.status_simple]
min = 600
max = 1000

[pacing.success]
min = 700
max = 1200

[pacing.warning]
min = 900
max = 1500

[pacing.plain]
min = 600
max = 1000

[scripts]
dir = "demos"     # *.yaml demo scripts
builtin = true    # include the built-in recon, assistant and metrics demos

[tui]
accent_color = "#7D56F4"  # hex color for header/accent elements
cursor_blink_ms = 530

[history]
enabled = true
dir = ".showcase/sessions"
retention = 20            # number of session logs to keep; 0 = unlimited

[notifications]
url = ""           # ntfy.sh topic or any webhook; empty = disabled
on_pass = false    # notify after every headless pass
on_done = true     # notify when headless playback completes
on_stop = true     # notify when headless playback is interrupted
`
