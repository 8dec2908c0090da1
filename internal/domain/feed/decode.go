package feed

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"time"
)

// Decode reads one game feed from r.
func Decode(r io.Reader) (*GameFeed, error) {
	var f GameFeed
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return &f, nil
}

// DecodeFile reads one game feed from path.
func DecodeFile(path string) (*GameFeed, error) {
	fh, err := os.Open(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer func() { _ = fh.Close() }()
	return Decode(fh)
}

// GameID is a parsed Baseball-Reference style game id such as BOS201904010:
// home team, date, and game number (0 for a single game, 1/2 for a doubleheader).
type GameID struct {
	Raw        string
	HomeTeam   string
	Date       time.Time
	GameNumber int
}

var gameIDPattern = regexp.MustCompile(`^([A-Z]{3})(\d{8})(\d)$`)

// ParseGameID parses id. The date is midnight UTC of the game date.
func ParseGameID(id string) (GameID, error) {
	m := gameIDPattern.FindStringSubmatch(id)
	if m == nil {
		return GameID{}, fmt.Errorf("%w: %q", ErrInvalidGameID, id)
	}
	date, err := time.Parse("20060102", m[2])
	if err != nil {
		return GameID{}, fmt.Errorf("%w: %q: %w", ErrInvalidGameID, id, err)
	}
	n, _ := strconv.Atoi(m[3])
	return GameID{Raw: id, HomeTeam: m[1], Date: date, GameNumber: n}, nil
}
