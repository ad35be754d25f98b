package app

import (
	"flag"
	"strconv"
	"strings"
)

// Config captures the command-line options of the game binary.
type Config struct {
	Ruleset      string
	Seed         int64
	TPS          int
	Width        int
	Height       int
	HUDReserve   int
	SettingsPath string
	RecordPath   string
	Relays       string
	Leaderboard  bool
	Debug        bool
}

// NewConfig returns the defaults used when no flags are given.
func NewConfig() Config {
	return Config{
		TPS:          120,
		Width:        1280,
		Height:       720,
		HUDReserve:   60,
		SettingsPath: "settings.yaml",
		Leaderboard:  true,
	}
}

// Bind registers the options on fs.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Ruleset, "ruleset", c.Ruleset, "ruleset: classic or extended (default from the settings file)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "run seed; 0 picks a fresh seed per run")
	fs.IntVar(&c.TPS, "tps", c.TPS, "simulation ticks per second")
	fs.IntVar(&c.Width, "width", c.Width, "window width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "window height in pixels")
	fs.IntVar(&c.HUDReserve, "hud-reserve", c.HUDReserve, "pixels reserved for the gauge below the play area")
	fs.StringVar(&c.SettingsPath, "settings", c.SettingsPath, "settings file, reloaded on change")
	fs.StringVar(&c.RecordPath, "record", c.RecordPath, "write each finished run to this replay file")
	fs.StringVar(&c.Relays, "relay", c.Relays, "comma-separated relay URLs, overriding the settings file")
	fs.BoolVar(&c.Leaderboard, "leaderboard", c.Leaderboard, "query the relay ranking after each run")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "show the debug overlay and tuning panel")
}

// RelayList splits the relay flag, dropping empty entries.
func (c Config) RelayList() []string {
	var out []string
	for _, r := range strings.Split(c.Relays, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// SimConfig converts the options into the key/value map the ruleset
// factories accept.
func (c Config) SimConfig() map[string]string {
	cfg := map[string]string{
		"w":           strconv.Itoa(c.Width),
		"h":           strconv.Itoa(c.Height),
		"hud_reserve": strconv.Itoa(c.HUDReserve),
		"tick_rate":   strconv.Itoa(c.TPS),
	}
	if c.Seed != 0 {
		cfg["seed"] = strconv.FormatInt(c.Seed, 10)
	}
	return cfg
}
