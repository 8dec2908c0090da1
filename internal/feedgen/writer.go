package feedgen

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/okian/pitchfx/internal/domain/feed"
)

const filePermission = 0o600

// ManifestEntry describes one generated feed file.
type ManifestEntry struct {
	GameID  string `yaml:"game_id"`
	File    string `yaml:"file"`
	GamePk  int    `yaml:"game_pk"`
	Seed    uint64 `yaml:"seed"`
	AtBats  int    `yaml:"at_bats"`
	Pitches int    `yaml:"pitches"`
}

// Manifest lists every feed written in one run.
type Manifest struct {
	Games []ManifestEntry `yaml:"games"`
}

// Summarize counts the at-bats and pitch events of f.
func Summarize(f *feed.GameFeed) (atBats, pitches int) {
	for i := range f.LiveData.Plays.AllPlays {
		pitches += len(f.LiveData.Plays.AllPlays[i].PitchEvents())
	}
	return len(f.LiveData.Plays.AllPlays), pitches
}

// WriteFeed writes f as <dir>/<gameID>.json and returns the path.
func WriteFeed(dir, gameID string, f *feed.GameFeed) (string, error) {
	raw, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", gameID, err)
	}
	path := filepath.Join(dir, gameID+".json")
	if err := os.WriteFile(path, raw, filePermission); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// WriteManifest writes m as YAML to path.
func WriteManifest(path string, m Manifest) error {
	raw, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(path, raw, filePermission); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// ReadManifest reads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	raw, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return m, fmt.Errorf("read manifest: %w", err)
	}
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return m, fmt.Errorf("decode manifest: %w", err)
	}
	return m, nil
}
