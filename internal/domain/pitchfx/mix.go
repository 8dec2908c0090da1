package pitchfx

import (
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// PitchTypeSummary describes how often and how hard one pitch type was
// thrown in one appearance. Pitches lacking a velocity or spin reading are
// left out of the corresponding mean.
type PitchTypeSummary struct {
	PitchType        string  `json:"mlbam_pitch_name"`
	Count            int     `json:"count"`
	Percent          float64 `json:"percent"`
	MeanStartSpeed   float64 `json:"avg_speed"`
	StdDevStartSpeed float64 `json:"std_speed"`
	MeanSpinRate     float64 `json:"avg_spin_rate"`
}

// pitchMix summarizes records per pitch type, most thrown first.
func pitchMix(records []PitchRecord) []PitchTypeSummary {
	if len(records) == 0 {
		return nil
	}
	type samples struct {
		count int
		speed []float64
		spin  []float64
	}
	byType := make(map[string]*samples)
	for i := range records {
		r := &records[i]
		s, ok := byType[r.PitchType]
		if !ok {
			s = &samples{}
			byType[r.PitchType] = s
		}
		s.count++
		if r.StartSpeed > 0 {
			s.speed = append(s.speed, r.StartSpeed)
		}
		if r.SpinRate > 0 {
			s.spin = append(s.spin, r.SpinRate)
		}
	}

	total := float64(len(records))
	out := make([]PitchTypeSummary, 0, len(byType))
	for pt, s := range byType {
		sum := PitchTypeSummary{
			PitchType: pt,
			Count:     s.count,
			Percent:   round(float64(s.count)/total*100, 1),
		}
		if len(s.speed) > 0 {
			sum.MeanStartSpeed = round(stat.Mean(s.speed, nil), 2)
		}
		if len(s.speed) > 1 {
			sum.StdDevStartSpeed = round(stat.StdDev(s.speed, nil), 2)
		}
		if len(s.spin) > 0 {
			sum.MeanSpinRate = round(stat.Mean(s.spin, nil), 1)
		}
		out = append(out, sum)
	}
	slices.SortFunc(out, func(a, b PitchTypeSummary) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.PitchType, b.PitchType)
	})
	return out
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
