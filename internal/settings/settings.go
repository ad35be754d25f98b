// Package settings loads the player-facing settings file. A settings.yaml on
// disk overrides the embedded defaults.
package settings

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"tether/internal/game"
)

// FileName is the settings file looked up next to the working directory.
const FileName = "settings.yaml"

// Score notations for scores of eight or more digits.
const (
	NotationKanji      = "kanji"
	NotationScientific = "scientific"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("settings: invalid")

//go:embed default.yaml
var defaultYAML []byte

// Leaderboard configures the global ranking.
type Leaderboard struct {
	Size   int      `yaml:"size"`
	Relays []string `yaml:"relays"`
}

// File is the decoded settings file.
type File struct {
	Ruleset       string        `yaml:"ruleset"`
	Physics       game.Settings `yaml:"physics"`
	ScoreNotation string        `yaml:"score_notation"`
	Debug         bool          `yaml:"debug"`
	Leaderboard   Leaderboard   `yaml:"leaderboard"`
}

// Default returns the embedded defaults.
func Default() File {
	f, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("settings: embedded default: %v", err))
	}
	return f
}

// Game returns the physics settings with the ruleset flag applied.
func (f File) Game() game.Settings {
	s := f.Physics
	s.Extended = f.Ruleset == game.RulesetExtended
	return s
}

// Validate checks every field.
func (f File) Validate() error {
	switch f.Ruleset {
	case game.RulesetClassic, game.RulesetExtended:
	default:
		return fmt.Errorf("%w: unknown ruleset %q", ErrInvalid, f.Ruleset)
	}
	switch f.ScoreNotation {
	case NotationKanji, NotationScientific:
	default:
		return fmt.Errorf("%w: unknown score notation %q", ErrInvalid, f.ScoreNotation)
	}
	if f.Leaderboard.Size <= 0 {
		return fmt.Errorf("%w: leaderboard size must be positive, got %d", ErrInvalid, f.Leaderboard.Size)
	}
	if err := f.Physics.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Parse decodes data over the defaults and validates the result. Keys missing
// from data keep their default values.
func Parse(data []byte) (File, error) {
	f := File{
		Ruleset:       game.RulesetExtended,
		Physics:       game.DefaultSettings(),
		ScoreNotation: NotationKanji,
		Leaderboard:   Leaderboard{Size: 50},
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("settings: unmarshal: %w", err)
	}
	f.Physics.Extended = f.Ruleset == game.RulesetExtended
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Load reads path, falling back to the embedded defaults when it does not
// exist. An empty path loads FileName.
func Load(path string) (File, error) {
	if path == "" {
		path = FileName
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return File{}, fmt.Errorf("settings: load %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("settings: load %s: %w", path, err)
	}
	return f, nil
}

// Save validates f and writes it to path.
func Save(path string, f File) error {
	if err := f.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("settings: marshal: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("settings: save %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("settings: save %s: %w", path, err)
	}
	return nil
}
