// Command gen-feeds writes deterministic synthetic game feeds for local runs
// of the converter, plus a YAML manifest describing them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/pitchfx/internal/feedgen"
	"github.com/okian/pitchfx/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumGames = 15
	defaultSeed     = 1
	dirPermission   = 0o755
	manifestName    = "manifest.yaml"
)

var homeTeams = []string{
	"BOS", "NYA", "TOR", "BAL", "TBA",
	"CHN", "MIL", "SLN", "CIN", "PIT",
	"LAN", "SFN", "SDN", "ARI", "COL",
}

func main() {
	var (
		outDir   = flag.String("out", "./feeds", "Directory for generated feed files")
		numGames = flag.Int("games", defaultNumGames, "Number of games to generate")
		seed     = flag.Uint64("seed", defaultSeed, "Base seed; game i uses seed+i")
		date     = flag.String("date", "2019-04-01", "Date of the first game slate (YYYY-MM-DD)")
		away     = flag.String("away", "", "Visiting team code for every game (default varies by game)")
		missing  = flag.Float64("missing-play-ids", 0, "Share of pitches written without a play id")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()
	ctx := context.Background()

	first, err := time.Parse(time.DateOnly, *date)
	if err != nil {
		log.Error(ctx, "invalid date", logger.String("date", *date), logger.Error(err))
		os.Exit(1)
	}

	m, err := generate(*outDir, first, *numGames, *seed, *away, *missing)
	if err != nil {
		log.Error(ctx, "generation failed", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "feeds generated",
		logger.String("dir", *outDir),
		logger.Int("games", len(m.Games)),
	)
}

// gameIDs lays n games out as daily slates, one game per home team per day.
func gameIDs(first time.Time, n int) []string {
	ids := make([]string, 0, n)
	for i := range n {
		day := first.AddDate(0, 0, i/len(homeTeams))
		ids = append(ids, homeTeams[i%len(homeTeams)]+day.Format("20060102")+"0")
	}
	return ids
}

// visitor picks the away team for game i so no team hosts itself.
func visitor(i int) string {
	return strings.ToLower(homeTeams[(i+len(homeTeams)/2)%len(homeTeams)])
}

func generate(dir string, first time.Time, n int, seed uint64, away string, missing float64) (feedgen.Manifest, error) {
	var m feedgen.Manifest
	if n < 1 {
		return m, fmt.Errorf("games must be positive, got %d", n)
	}
	if err := os.MkdirAll(dir, dirPermission); err != nil {
		return m, fmt.Errorf("create %s: %w", dir, err)
	}

	for i, id := range gameIDs(first, n) {
		gameSeed := seed + uint64(i)
		awayTeam := away
		if awayTeam == "" {
			awayTeam = visitor(i)
		}
		f, err := feedgen.Generate(id,
			feedgen.WithSeed(gameSeed),
			feedgen.WithAwayTeam(awayTeam),
			feedgen.WithMissingPlayIDs(missing),
		)
		if err != nil {
			return m, err
		}
		path, err := feedgen.WriteFeed(dir, id, f)
		if err != nil {
			return m, err
		}
		atBats, pitches := feedgen.Summarize(f)
		m.Games = append(m.Games, feedgen.ManifestEntry{
			GameID:  id,
			File:    filepath.Base(path),
			GamePk:  f.MLBGameID(),
			Seed:    gameSeed,
			AtBats:  atBats,
			Pitches: pitches,
		})
	}

	if err := feedgen.WriteManifest(filepath.Join(dir, manifestName), m); err != nil {
		return m, err
	}
	return m, nil
}
