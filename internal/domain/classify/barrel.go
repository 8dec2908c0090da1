// Package classify holds the pure pitch and batted-ball classifiers.
// Nothing here returns an error: inputs outside a table or vocabulary
// classify as false or Unknown.
package classify

import "math"

type angleRange struct {
	min, max float64
}

// barrelTable maps a floored exit velocity (mph) to the inclusive launch
// angle band that makes a batted ball a barrel. Below 98 mph nothing is a
// barrel; the band widens with velocity until it stops at 8..50 degrees.
var barrelTable = map[int]angleRange{
	98:  {26, 30},
	99:  {23, 31},
	100: {20, 33},
	101: {17, 34},
	102: {14, 35},
	103: {11, 36},
	104: {8, 38},
	105: {8, 39},
	106: {8, 40},
	107: {8, 41},
	108: {8, 43},
	109: {8, 44},
	110: {8, 45},
	111: {8, 46},
	112: {8, 48},
	113: {8, 49},
	114: {8, 50},
	115: {8, 50},
	116: {8, 50},
}

// Barrel reports whether a batted ball with the given exit velocity (mph)
// and launch angle (degrees) is a barrel.
func Barrel(exitVelocity, launchAngle float64) bool {
	if math.IsNaN(exitVelocity) || math.IsInf(exitVelocity, 0) || math.IsNaN(launchAngle) {
		return false
	}
	band, ok := barrelTable[int(math.Floor(exitVelocity))]
	if !ok {
		return false
	}
	return launchAngle >= band.min && launchAngle <= band.max
}
