package pitchfx

// assemble emits one PitchApplication and one PitchFxLog per pitcher, in
// first-seen order.
func (cv *conversion) assemble() *Result {
	res := &Result{
		GameID:       cv.gameID,
		BBGameID:     cv.bbGameID,
		MLBGameID:    cv.mlbID,
		PitchCount:   cv.pitchCount,
		Applications: make([]PitchApplication, 0, len(cv.order)),
		Logs:         make([]PitchFxLog, 0, len(cv.order)),
		Skipped:      cv.skipped,
	}

	date := cv.gameDate
	if cv.hasGameStart {
		date = cv.gameStart
	}

	for _, pitcherID := range cv.order {
		records := cv.logs[pitcherID]
		if records == nil {
			records = []PitchRecord{}
		}
		pitcherTeam := cv.playerTeams[pitcherID]
		opponent := cv.home
		if pitcherTeam == cv.home {
			opponent = cv.away
		}

		app := Appearance{
			PitchAppID:         pitchAppID(cv.gameID, pitcherID),
			PitcherID:          pitcherID,
			PitcherName:        cv.pitcherNames[pitcherID],
			PitcherTeamID:      pitcherTeam,
			OpponentTeamID:     opponent,
			MLBGameID:          cv.mlbID,
			BBGameID:           cv.bbGameID,
			BBRefGameID:        cv.gameID,
			TotalPitchCount:    len(records),
			PitchCountByInning: pitchCountByInning(records),
			GameDateYear:       date.Year(),
			GameDateMonth:      int(date.Month()),
			GameDateDay:        date.Day(),
			TimeZoneName:       cv.c.loc.String(),
			PitchFxURL:         pitchFxURL(pitcherID, cv.mlbID),
		}
		if cv.hasGameStart {
			app.GameTimeHour = cv.gameStart.Hour()
			app.GameTimeMinute = cv.gameStart.Minute()
		}

		res.Applications = append(res.Applications, PitchApplication{
			Appearance:  app,
			PitchLogURL: pitchLogURL(date, cv.mlbID, pitcherID),
		})
		res.Logs = append(res.Logs, PitchFxLog{
			Appearance: app,
			Pitches:    records,
			PitchMix:   pitchMix(records),
		})
	}
	return res
}
