package classify

import "strings"

// Trajectory is the closed set of batted-ball types.
type Trajectory string

// Known trajectories.
const (
	TrajectoryUnknown    Trajectory = "unknown"
	TrajectoryGroundBall Trajectory = "ground_ball"
	TrajectoryFlyBall    Trajectory = "fly_ball"
	TrajectoryLineDrive  Trajectory = "line_drive"
	TrajectoryPopup      Trajectory = "popup"
)

var trajectories = map[string]Trajectory{
	"ground_ball":     TrajectoryGroundBall,
	"fly_ball":        TrajectoryFlyBall,
	"line_drive":      TrajectoryLineDrive,
	"bunt_line_drive": TrajectoryLineDrive,
	"popup":           TrajectoryPopup,
	"bunt_popup":      TrajectoryPopup,
}

// ParseTrajectory maps a feed trajectory string. Matching is exact after
// trimming and lower-casing; anything else is TrajectoryUnknown with ok=false.
func ParseTrajectory(s string) (t Trajectory, ok bool) {
	t, ok = trajectories[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return TrajectoryUnknown, false
	}
	return t, true
}

// Hardness is the closed set of contact-quality labels.
type Hardness string

// Known hardness labels.
const (
	HardnessUnknown Hardness = "unknown"
	HardnessHard    Hardness = "hard"
	HardnessMedium  Hardness = "medium"
	HardnessSoft    Hardness = "soft"
)

var hardnesses = map[string]Hardness{
	"hard":   HardnessHard,
	"medium": HardnessMedium,
	"soft":   HardnessSoft,
}

// ParseHardness maps a feed hardness string, HardnessUnknown with ok=false
// when unrecognized.
func ParseHardness(s string) (h Hardness, ok bool) {
	h, ok = hardnesses[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return HardnessUnknown, false
	}
	return h, true
}
