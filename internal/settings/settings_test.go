package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tether/internal/game"
)

func TestDefaultMatchesGameDefaults(t *testing.T) {
	f := Default()
	want := game.DefaultSettings()
	want.Extended = true
	if f.Game() != want {
		t.Fatalf("embedded physics %+v differ from game defaults %+v", f.Game(), want)
	}
	if f.Ruleset != game.RulesetExtended || f.ScoreNotation != NotationKanji || f.Leaderboard.Size != 50 {
		t.Fatalf("unexpected defaults %+v", f)
	}
}

func TestParseKeepsDefaultsForMissingKeys(t *testing.T) {
	f, err := Parse([]byte("ruleset: classic\nphysics:\n  gravity: 0.044\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.Physics.Gravity != 0.044 || f.Physics.SpringK != game.DefaultSettings().SpringK {
		t.Fatalf("unexpected physics %+v", f.Physics)
	}
	if f.Game().Extended {
		t.Fatal("classic ruleset must clear the extended flag")
	}
	if f.ScoreNotation != NotationKanji {
		t.Fatalf("expected default notation, got %q", f.ScoreNotation)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"ruleset":  "ruleset: arcade\n",
		"notation": "score_notation: roman\n",
		"physics":  "physics:\n  collision_damp: 1.5\n",
		"size":     "leaderboard:\n  size: 0\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
	if _, err := Parse([]byte("physics: [")); err == nil || errors.Is(err, ErrInvalid) {
		t.Fatalf("malformed yaml should surface a decode error, got %v", err)
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if f.Game() != Default().Game() {
		t.Fatalf("expected embedded defaults, got %+v", f)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	f := Default()
	f.Ruleset = game.RulesetClassic
	f.ScoreNotation = NotationScientific
	f.Physics.SpringK = 0.0018
	f.Leaderboard.Relays = []string{"wss://relay.example.test"}

	if err := Save(path, f); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Game() != f.Game() || got.ScoreNotation != NotationScientific {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if len(got.Leaderboard.Relays) != 1 || got.Leaderboard.Relays[0] != "wss://relay.example.test" {
		t.Fatalf("relays not preserved: %+v", got.Leaderboard.Relays)
	}

	f.ScoreNotation = "roman"
	if err := Save(path, f); !errors.Is(err, ErrInvalid) {
		t.Fatalf("saving invalid settings should fail, got %v", err)
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("ruleset: classic\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("ruleset: classic\nphysics:\n  gravity: 0.011\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case f := <-w.Updates:
		if f.Physics.Gravity != 0.011 {
			t.Fatalf("expected reloaded gravity, got %v", f.Physics.Gravity)
		}
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherWaitsForWritesToSettle(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("ruleset: classic\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer w.Close()

	// A half-written file followed by the rest of the save.
	if err := os.WriteFile(path, []byte("ruleset: classic\nphysics: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(debounce / 2)
	if err := os.WriteFile(path, []byte("ruleset: classic\nphysics:\n  gravity: 0.044\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case f := <-w.Updates:
		if f.Physics.Gravity != 0.044 {
			t.Fatalf("expected the completed save, got gravity %v", f.Physics.Gravity)
		}
	case err := <-w.Errors:
		t.Fatalf("partial write was loaded: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}
