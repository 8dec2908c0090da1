package classify

// Pitch outcome descriptions as they appear in the feed.
const (
	DesBall                  = "Ball"
	DesBallInDirt            = "Ball In Dirt"
	DesCalledStrike          = "Called Strike"
	DesFoul                  = "Foul"
	DesFoulBunt              = "Foul Bunt"
	DesFoulTip               = "Foul Tip"
	DesFoulPitchout          = "Foul Pitchout"
	DesBuntFoulTip           = "Bunt Foul Tip"
	DesHitByPitch            = "Hit By Pitch"
	DesInPlayNoOut           = "In play, no out"
	DesInPlayOuts            = "In play, out(s)"
	DesInPlayRuns            = "In play, run(s)"
	DesMissedBunt            = "Missed Bunt"
	DesSwingingStrike        = "Swinging Strike"
	DesSwingingStrikeBlocked = "Swinging Strike (Blocked)"
	DesSwingingPitchout      = "Swinging Pitchout"
	DesIntentBall            = "Intent Ball"
	DesPitchout              = "Pitchout"
	DesAutomaticBall         = "Automatic Ball"
	DesAutomaticStrike       = "Automatic Strike"
)

var didSwing = map[string]struct{}{
	DesFoul:                  {},
	DesFoulBunt:              {},
	DesFoulTip:               {},
	DesFoulPitchout:          {},
	DesBuntFoulTip:           {},
	DesInPlayNoOut:           {},
	DesInPlayOuts:            {},
	DesInPlayRuns:            {},
	DesMissedBunt:            {},
	DesSwingingStrike:        {},
	DesSwingingStrikeBlocked: {},
	DesSwingingPitchout:      {},
}

var madeContact = map[string]struct{}{
	DesFoul:         {},
	DesFoulBunt:     {},
	DesFoulTip:      {},
	DesFoulPitchout: {},
	DesBuntFoulTip:  {},
	DesInPlayNoOut:  {},
	DesInPlayOuts:   {},
	DesInPlayRuns:   {},
}

var swingingStrike = map[string]struct{}{
	DesSwingingStrike:        {},
	DesSwingingStrikeBlocked: {},
	DesSwingingPitchout:      {},
	DesMissedBunt:            {},
}

// DidSwing reports whether the description implies the batter swung.
func DidSwing(description string) bool {
	_, ok := didSwing[description]
	return ok
}

// MadeContact reports whether the description implies bat-on-ball contact.
func MadeContact(description string) bool {
	_, ok := madeContact[description]
	return ok
}

// CalledStrike reports an exact "Called Strike" description.
func CalledStrike(description string) bool {
	return description == DesCalledStrike
}

// SwingingStrike reports a swing and a miss.
func SwingingStrike(description string) bool {
	_, ok := swingingStrike[description]
	return ok
}

// Pitch type codes.
const (
	TypeInPlay = "X"
	TypeStrike = "S"
	TypeBall   = "B"
	TypeOther  = "Z"
)

// TypeCode collapses the outcome flags into one code. In-play wins over
// strike, strike over ball.
func TypeCode(inPlay, strike, ball bool) string {
	switch {
	case inPlay:
		return TypeInPlay
	case strike:
		return TypeStrike
	case ball:
		return TypeBall
	default:
		return TypeOther
	}
}
