package pitchfx

import (
	"time"

	"github.com/okian/pitchfx/internal/domain/classify"
)

// PitchRecord is one pitch with every derived field. ID is the game-global
// pitch index and the authoritative ordering key.
type PitchRecord struct {
	ID             int    `json:"id"`
	PlayGUID       string `json:"play_guid"`
	ParkSvID       string `json:"park_sv_id"`
	PitchAppID     string `json:"pitch_app_id"`
	BBGameID       string `json:"bb_game_id"`
	BBRefGameID    string `json:"bbref_game_id"`
	MLBGameID      int    `json:"mlb_game_id"`
	PitcherID      int    `json:"pitcher_id"`
	PitcherName    string `json:"pitcher_name"`
	BatterID       int    `json:"batter_id"`
	PitcherTeamID  string `json:"pitcher_team_id_bb"`
	OpponentTeamID string `json:"opponent_team_id_bb"`

	Inning      int    `json:"inning"`
	HalfInning  string `json:"half_inning"`
	AtBatID     int    `json:"ab_id"`
	AtBatTotal  int    `json:"ab_total"`
	AtBatCount  int    `json:"ab_count"`
	AtBatResult string `json:"des"`
	Stand       string `json:"stand"`
	PThrows     string `json:"p_throws"`
	Balls       int    `json:"balls"`
	Strikes     int    `json:"strikes"`

	Type        string `json:"type"`
	Description string `json:"pdes"`
	PitchType   string `json:"mlbam_pitch_name"`

	StartSpeed    float64 `json:"start_speed"`
	SzTop         float64 `json:"sz_top"`
	SzBot         float64 `json:"sz_bot"`
	PfxX          float64 `json:"pfx_x"`
	PfxZ          float64 `json:"pfx_z"`
	PX            float64 `json:"px"`
	PZ            float64 `json:"pz"`
	X0            float64 `json:"x0"`
	Y0            float64 `json:"y0"`
	Z0            float64 `json:"z0"`
	VX0           float64 `json:"vx0"`
	VY0           float64 `json:"vy0"`
	VZ0           float64 `json:"vz0"`
	AX            float64 `json:"ax"`
	AY            float64 `json:"ay"`
	AZ            float64 `json:"az"`
	PlateTime     float64 `json:"plate_time"`
	Extension     float64 `json:"extension"`
	BreakAngle    float64 `json:"break_angle"`
	BreakLength   float64 `json:"break_length"`
	BreakY        float64 `json:"break_y"`
	SpinRate      float64 `json:"spin_rate"`
	SpinDirection float64 `json:"spin_direction"`
	ZoneLocation  int     `json:"zone_location"`

	GameStartTime         time.Time `json:"game_start_time"`
	TimePitchThrown       time.Time `json:"time_pitch_thrown"`
	SecondsSinceGameStart int       `json:"seconds_since_game_start"`

	HasZoneLocation      bool `json:"has_zone_location"`
	HasPitchLocation     bool `json:"has_pitch_location"`
	BatterDidSwing       bool `json:"batter_did_swing"`
	BatterMadeContact    bool `json:"batter_made_contact"`
	CalledStrike         bool `json:"called_strike"`
	SwingingStrike       bool `json:"swinging_strike"`
	InsideStrikeZone     bool `json:"inside_strike_zone"`
	OutsideStrikeZone    bool `json:"outside_strike_zone"`
	SwingInsideZone      bool `json:"swing_inside_zone"`
	SwingOutsideZone     bool `json:"swing_outside_zone"`
	NoSwingInsideZone    bool `json:"no_swing_inside_zone"`
	NoSwingOutsideZone   bool `json:"no_swing_outside_zone"`
	ContactInsideZone    bool `json:"contact_inside_zone"`
	ContactOutsideZone   bool `json:"contact_outside_zone"`
	NoContactInsideZone  bool `json:"no_contact_inside_zone"`
	NoContactOutsideZone bool `json:"no_contact_outside_zone"`
	IsFinalPitchOfAB     bool `json:"is_final_pitch_of_ab"`

	// Populated only when IsInPlay.
	IsInPlay      bool                `json:"is_in_play"`
	LaunchSpeed   float64             `json:"launch_speed"`
	LaunchAngle   float64             `json:"launch_angle"`
	TotalDistance float64             `json:"total_distance"`
	Trajectory    classify.Trajectory `json:"trajectory"`
	RawTrajectory string              `json:"raw_trajectory"`
	Hardness      classify.Hardness   `json:"hardness"`
	RawHardness   string              `json:"raw_hardness"`
	Location      int                 `json:"location"`
	CoordX        float64             `json:"coord_x"`
	CoordY        float64             `json:"coord_y"`
	IsGroundBall  bool                `json:"is_ground_ball"`
	IsFlyBall     bool                `json:"is_fly_ball"`
	IsLineDrive   bool                `json:"is_line_drive"`
	IsPopup       bool                `json:"is_popup"`
	IsHardHit     bool                `json:"is_hard_hit"`
	IsMediumHit   bool                `json:"is_medium_hit"`
	IsSoftHit     bool                `json:"is_soft_hit"`
	IsBarreled    bool                `json:"is_barreled"`
}

// Appearance holds the identifiers shared by a PitchApplication and its
// PitchFxLog.
type Appearance struct {
	PitchAppID         string       `json:"pitch_app_id"`
	PitcherID          int          `json:"pitcher_id_mlb"`
	PitcherName        string       `json:"pitcher_name"`
	PitcherTeamID      string       `json:"pitcher_team_id_bb"`
	OpponentTeamID     string       `json:"opponent_team_id_bb"`
	MLBGameID          int          `json:"mlb_game_id"`
	BBGameID           string       `json:"bb_game_id"`
	BBRefGameID        string       `json:"bbref_game_id"`
	TotalPitchCount    int          `json:"total_pitch_count"`
	PitchCountByInning InningCounts `json:"pitch_count_by_inning"`
	GameDateYear       int          `json:"game_date_year"`
	GameDateMonth      int          `json:"game_date_month"`
	GameDateDay        int          `json:"game_date_day"`
	GameTimeHour       int          `json:"game_time_hour"`
	GameTimeMinute     int          `json:"game_time_minute"`
	TimeZoneName       string       `json:"time_zone_name"`
	PitchFxURL         string       `json:"pitchfx_url"`
}

// PitchApplication is one pitcher's aggregate for one game. It carries no
// raw pitch data.
type PitchApplication struct {
	Appearance
	PitchLogURL string `json:"pitch_log_url"`
}

// PitchFxLog is one pitcher's full ordered pitch list for one game.
type PitchFxLog struct {
	Appearance
	Pitches  []PitchRecord      `json:"pitchfx_log"`
	PitchMix []PitchTypeSummary `json:"pitch_mix"`
}

// SkippedAtBat records an at-bat whose pitches were dropped.
type SkippedAtBat struct {
	AtBatIndex  int    `json:"at_bat_index"`
	Inning      int    `json:"inning"`
	Reason      string `json:"reason"`
	PitchEvents int    `json:"pitch_events"`
}

// Skip reasons.
const (
	SkipMissingPitcher = "missing_pitcher"
	SkipMissingBatter  = "missing_batter"
)

// Result is everything produced from one game feed. Applications and Logs
// are parallel: index i of each describes the same pitcher, in the order
// pitchers were first seen.
type Result struct {
	GameID       string             `json:"bbref_game_id"`
	BBGameID     string             `json:"bb_game_id"`
	MLBGameID    int                `json:"mlb_game_id"`
	PitchCount   int                `json:"pitch_count"`
	Applications []PitchApplication `json:"pitch_applications"`
	Logs         []PitchFxLog       `json:"pitchfx_logs"`
	Skipped      []SkippedAtBat     `json:"skipped_at_bats,omitempty"`
}
