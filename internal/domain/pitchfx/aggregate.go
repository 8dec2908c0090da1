package pitchfx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
)

// InningCount is the number of pitches thrown in one inning.
type InningCount struct {
	Inning int
	Count  int
}

// InningCounts is an inning-ascending pitch count mapping. It encodes as a
// JSON object whose keys keep that order, e.g. {"1":14,"2":9}.
type InningCounts []InningCount

// Total sums the counts.
func (ic InningCounts) Total() int {
	n := 0
	for _, c := range ic {
		n += c.Count
	}
	return n
}

// Map returns the counts keyed by inning.
func (ic InningCounts) Map() map[int]int {
	m := make(map[int]int, len(ic))
	for _, c := range ic {
		m[c.Inning] = c.Count
	}
	return m
}

// MarshalJSON implements json.Marshaler.
func (ic InningCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range ic {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strconv.Itoa(c.Inning))
		buf.WriteString(`":`)
		buf.WriteString(strconv.Itoa(c.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler. The result is sorted by inning.
func (ic *InningCounts) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(InningCounts, 0, len(raw))
	for k, v := range raw {
		inning, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("inning key %q: %w", k, err)
		}
		out = append(out, InningCount{Inning: inning, Count: v})
	}
	sortByInning(out)
	*ic = out
	return nil
}

// pitchCountByInning accumulates per-inning counts in one unordered pass,
// then sorts on the inning since innings need not arrive in order.
func pitchCountByInning(records []PitchRecord) InningCounts {
	counts := make(map[int]int)
	for i := range records {
		counts[records[i].Inning]++
	}
	out := make(InningCounts, 0, len(counts))
	for inning, n := range counts {
		out = append(out, InningCount{Inning: inning, Count: n})
	}
	sortByInning(out)
	return out
}

func sortByInning(ic InningCounts) {
	slices.SortFunc(ic, func(a, b InningCount) int { return a.Inning - b.Inning })
}
