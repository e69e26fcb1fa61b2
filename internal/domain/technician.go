package domain

import (
	"iter"
	"slices"
	"strings"
)

// Technician is a roster member. Points and demerits only ever grow;
// the net score is derived.
type Technician struct {
	Name       string   `json:"name"`
	Points     int      `json:"points"`
	Demerits   int      `json:"demerits"`
	Attendance bool     `json:"attendance"`
	Tasks      []string `json:"tasks"`
}

// NetScore is points minus demerits and may be negative
func (t *Technician) NetScore() int {
	return t.Points - t.Demerits
}

// Clone returns a copy that does not share the task slice
func (t *Technician) Clone() *Technician {
	c := *t
	c.Tasks = slices.Clone(t.Tasks)
	if c.Tasks == nil {
		c.Tasks = []string{}
	}
	return &c
}

// TaskIndex returns the position of task, matched exactly, or -1
func (t *Technician) TaskIndex(task string) int {
	return slices.Index(t.Tasks, task)
}

// NormalizeName trims a technician name and rejects blanks
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidTechnicianName
	}
	return name, nil
}

// RankedTechnician is one leaderboard row
type RankedTechnician struct {
	Rank       int    `json:"rank"`
	Name       string `json:"name"`
	Points     int    `json:"points"`
	Demerits   int    `json:"demerits"`
	NetScore   int    `json:"net_score"`
	Attendance bool   `json:"attendance"`
}

// Rank yields roster (given in roster order) sorted by net score descending.
// Equal scores keep roster order. The sort runs on each iteration, so the
// sequence can be ranged over any number of times and stopped early.
func Rank(roster []Technician) iter.Seq[RankedTechnician] {
	return func(yield func(RankedTechnician) bool) {
		ordered := slices.Clone(roster)
		slices.SortStableFunc(ordered, func(a, b Technician) int {
			return b.NetScore() - a.NetScore()
		})
		for i := range ordered {
			t := &ordered[i]
			row := RankedTechnician{
				Rank:       i + 1,
				Name:       t.Name,
				Points:     t.Points,
				Demerits:   t.Demerits,
				NetScore:   t.NetScore(),
				Attendance: t.Attendance,
			}
			if !yield(row) {
				return
			}
		}
	}
}

// Top collects at most n rows from seq
func Top(seq iter.Seq[RankedTechnician], n int) []RankedTechnician {
	out := make([]RankedTechnician, 0, max(n, 0))
	if n <= 0 {
		return out
	}
	for row := range seq {
		out = append(out, row)
		if len(out) == n {
			break
		}
	}
	return out
}

// EliteSize is the number of technicians shown as elite
const EliteSize = 3
