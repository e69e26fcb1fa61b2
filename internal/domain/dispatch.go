package domain

// ManualDispatchSentinel is assigned when nobody is attending. It is not a technician.
const ManualDispatchSentinel = "Manual Dispatch Required"

// Candidate is an attending technician offered to the assignment advisor
type Candidate struct {
	Name             string `json:"name"`
	CurrentTaskCount int    `json:"current_task_count"`
}

// Candidates returns attending technicians in roster order
func Candidates(roster []Technician) []Candidate {
	out := make([]Candidate, 0, len(roster))
	for i := range roster {
		if roster[i].Attendance {
			out = append(out, Candidate{Name: roster[i].Name, CurrentTaskCount: len(roster[i].Tasks)})
		}
	}
	return out
}

// LeastLoaded picks the candidate with the fewest tasks, first in roster order on ties.
// It returns false only for an empty set.
func LeastLoaded(candidates []Candidate) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].CurrentTaskCount < candidates[best].CurrentTaskCount {
			best = i
		}
	}
	return candidates[best].Name, true
}

// ContainsCandidate reports whether name is one of candidates
func ContainsCandidate(candidates []Candidate, name string) bool {
	for _, c := range candidates {
		if c.Name == name {
			return true
		}
	}
	return false
}

// AssignmentSource records how a ticket's assignee was chosen
type AssignmentSource string

const (
	AssignmentAdvisor  AssignmentSource = "advisor"
	AssignmentFallback AssignmentSource = "fallback"
	AssignmentManual   AssignmentSource = "manual"
)

// ChooseAssignee applies the dispatch rule: no candidates means manual dispatch;
// a suggestion outside the candidate set (or none) falls back to LeastLoaded.
func ChooseAssignee(candidates []Candidate, suggestion string, suggestionErr error) (string, AssignmentSource) {
	if len(candidates) == 0 {
		return ManualDispatchSentinel, AssignmentManual
	}
	if suggestionErr == nil && ContainsCandidate(candidates, suggestion) {
		return suggestion, AssignmentAdvisor
	}
	name, _ := LeastLoaded(candidates)
	return name, AssignmentFallback
}
