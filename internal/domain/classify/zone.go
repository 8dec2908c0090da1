package classify

// ZoneHalfWidth is half the width of home plate in feet (17 in / 2).
const ZoneHalfWidth = 0.70833

// InsideStrikeZone reports whether a pitch crossing the plate at (px, pz)
// is inside the zone. The vertical bounds belong to the individual pitch:
// they follow the batter and change within a game. Bounds are exclusive.
func InsideStrikeZone(px, pz, szTop, szBottom float64) bool {
	return px > -ZoneHalfWidth && px < ZoneHalfWidth && pz > szBottom && pz < szTop
}
