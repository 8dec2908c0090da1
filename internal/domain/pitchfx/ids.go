package pitchfx

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/pitchfx/internal/domain/feed"
)

// playIDNamespace scopes derived play ids so they never collide with
// tracking-system ids.
var playIDNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://statsapi.mlb.com/pitchfx/play"))

// fallbackPlayID derives a stable play id for a pitch whose feed event has
// none. pitchIndex is the pitch's position within its at-bat.
func fallbackPlayID(gameID string, atBatIndex, pitchIndex int) string {
	key := gameID + "/" + strconv.Itoa(atBatIndex) + "/" + strconv.Itoa(pitchIndex)
	return uuid.NewSHA1(playIDNamespace, []byte(key)).String()
}

// parkSvID formats a localized thrown time as YYMMDD_HHMMSS followed by the
// lowercase home team code.
func parkSvID(thrown time.Time, homeTeam string) string {
	return thrown.Format("060102_150405") + strings.ToLower(homeTeam)
}

func pitchAppID(gameID string, pitcherID int) string {
	return gameID + "_" + strconv.Itoa(pitcherID)
}

// bbGameID builds gid_YYYY_MM_DD_<away>mlb_<home>mlb_<N>. A feed without a
// game number is treated as the first game of the day.
func bbGameID(gameDate time.Time, f *feed.GameFeed) string {
	n := f.GameData.Game.GameNumber
	if n == 0 {
		n = 1
	}
	return fmt.Sprintf("gid_%04d_%02d_%02d_%smlb_%smlb_%d",
		gameDate.Year(), int(gameDate.Month()), gameDate.Day(),
		strings.ToLower(f.AwayTeamID()), strings.ToLower(f.HomeTeamID()), n)
}

func pitchFxURL(pitcherID, mlbGameID int) string {
	return fmt.Sprintf(
		"https://www.brooksbaseball.net/pfxVB/tabdel_expanded.php?pitchSel=%d&game=%d&s_type=3&h_size=700&v_size=500",
		pitcherID, mlbGameID)
}

func pitchLogURL(gameDate time.Time, mlbGameID, pitcherID int) string {
	return fmt.Sprintf(
		"https://www.brooksbaseball.net/pfxVB/pfx.php?s_type=2&sp_type=1&batterX=0&year=%d&month=%02d&day=%02d&pitchSel=%d&game=%d&prevGame=%d&prevDate=%02d%02d",
		gameDate.Year(), int(gameDate.Month()), gameDate.Day(),
		pitcherID, mlbGameID, mlbGameID, int(gameDate.Month()), gameDate.Day())
}
