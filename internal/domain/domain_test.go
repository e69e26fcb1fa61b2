package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeAssets(n int) []Asset {
	out := make([]Asset, n)
	for i := range out {
		out[i] = Asset{ID: i + 1, Health: MaxHealth, Status: AssetStatusActive}
	}
	return out
}

func TestPartitionZones_Sizes(t *testing.T) {
	tests := []struct {
		n    int
		want [4]int
	}{
		{163, [4]int{41, 41, 41, 40}},
		{160, [4]int{40, 40, 40, 40}},
		{5, [4]int{2, 2, 1, 0}},
		{1, [4]int{1, 0, 0, 0}},
		{0, [4]int{0, 0, 0, 0}},
	}
	for _, tt := range tests {
		p := PartitionZones(makeAssets(tt.n))
		got := [4]int{len(p[ZoneA]), len(p[ZoneB]), len(p[ZoneC]), len(p[ZoneD])}
		assert.Equal(t, tt.want, got, "n=%d", tt.n)
	}
}

func TestPartitionZones_CoversDisjointAscending(t *testing.T) {
	assets := makeAssets(37)
	// reversed input
	for i, j := 0, len(assets)-1; i < j; i, j = i+1, j-1 {
		assets[i], assets[j] = assets[j], assets[i]
	}

	p := PartitionZones(assets)
	seen := map[int]bool{}
	last := 0
	for _, z := range Zones {
		for _, a := range p[z] {
			assert.False(t, seen[a.ID], "asset %d in two zones", a.ID)
			assert.Greater(t, a.ID, last)
			seen[a.ID] = true
			last = a.ID
		}
	}
	assert.Len(t, seen, 37)

	z, ok := p.ZoneOf(37)
	require.True(t, ok)
	assert.Equal(t, ZoneD, z)
	_, ok = p.ZoneOf(99)
	assert.False(t, ok)
}

func TestParseZone(t *testing.T) {
	for _, in := range []string{"a", "A", " zone a ", "Zone A"} {
		z, err := ParseZone(in)
		require.NoError(t, err, in)
		assert.Equal(t, ZoneA, z)
	}
	_, err := ParseZone("E")
	assert.ErrorIs(t, err, ErrInvalidZone)
}

func TestController(t *testing.T) {
	assert.Equal(t, "Bilal", Controller("Bilal", ""))
	assert.Equal(t, "Hamza", Controller("Bilal", "Hamza"))
}

func TestRecordComplaint_ClampsHealth(t *testing.T) {
	a := Asset{ID: 5, Health: 100}
	a.RecordComplaint()
	assert.Equal(t, 1, a.ComplaintCount)
	assert.Equal(t, 1, a.IssuesThisMonth)
	assert.Equal(t, 99.5, a.Health)

	low := Asset{ID: 6, Health: 0.25}
	low.RecordComplaint()
	assert.Equal(t, 0.0, low.Health)
}

func TestTicketLifecycle(t *testing.T) {
	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	_, err := NewTicket("t1", 1, SeverityMajor, "   ", "Asad", now)
	assert.ErrorIs(t, err, ErrInvalidIssue)
	_, err = NewTicket("t1", 1, Severity("Critical"), "leak", "Asad", now)
	assert.ErrorIs(t, err, ErrInvalidSeverity)

	tk, err := NewTicket("t1", 1, SeverityMajor, " compressor failure ", "Asad", now)
	require.NoError(t, err)
	assert.Equal(t, TicketStatusOpen, tk.Status)
	assert.Equal(t, "compressor failure", tk.Issue)

	later := now.Add(time.Hour)
	require.NoError(t, tk.Resolve("Bilal", later))
	assert.Equal(t, TicketStatusResolved, tk.Status)

	err = tk.Resolve("Asad", later.Add(time.Hour))
	assert.ErrorIs(t, err, ErrAlreadyResolved)
	assert.Equal(t, "Bilal", *tk.Resolver)
	assert.Equal(t, later, *tk.ResolvedAt)

	c := tk.Clone()
	*c.Resolver = "changed"
	assert.Equal(t, "Bilal", *tk.Resolver)

	anon, err := NewTicket("t2", 1, SeverityMinor, "noise", "Asad", now)
	require.NoError(t, err)
	require.NoError(t, anon.Resolve("", later))
	assert.Nil(t, anon.Resolver)
	assert.True(t, anon.IsResolved())
}

func TestParseSeverityAndStatus(t *testing.T) {
	s, err := ParseSeverity("major")
	require.NoError(t, err)
	assert.Equal(t, SeverityMajor, s)

	st, ok := ParseTicketStatus("in_progress")
	assert.True(t, ok)
	assert.Equal(t, TicketStatusInProgress, st)
	_, ok = ParseTicketStatus("closed")
	assert.False(t, ok)
}

func TestTicketFilter(t *testing.T) {
	tk := &Ticket{AssetID: 3, Status: TicketStatusOpen}
	assert.True(t, TicketFilter{}.Matches(tk))
	assert.True(t, TicketFilter{AssetID: 3, Status: TicketStatusOpen}.Matches(tk))
	assert.False(t, TicketFilter{AssetID: 4}.Matches(tk))
	assert.False(t, TicketFilter{Status: TicketStatusResolved}.Matches(tk))
}

func roster() []Technician {
	return []Technician{
		{Name: "Bilal", Points: 150, Attendance: true, Tasks: []string{"a", "b"}},
		{Name: "Asad", Points: 120, Demerits: 25, Attendance: true, Tasks: []string{"c"}},
		{Name: "Taimoor", Points: 180, Attendance: true, Tasks: []string{"d"}},
		{Name: "Saboor", Points: 90, Demerits: 50, Attendance: false, Tasks: []string{"e"}},
	}
}

func TestRank_OrderAndStability(t *testing.T) {
	r := roster()
	r = append(r, Technician{Name: "Hamza", Points: 95})   // ties with Asad (95)
	r = append(r, Technician{Name: "Zain", Points: 150})   // ties with Bilal (150)

	var names []string
	for row := range Rank(r) {
		names = append(names, row.Name)
	}
	assert.Equal(t, []string{"Taimoor", "Bilal", "Zain", "Asad", "Hamza", "Saboor"}, names)

	// restartable, and the input is untouched
	again := Top(Rank(r), 10)
	assert.Len(t, again, 6)
	assert.Equal(t, 1, again[0].Rank)
	assert.Equal(t, 180, again[0].NetScore)
	assert.Equal(t, "Bilal", r[0].Name)
}

func TestRank_NegativeScores(t *testing.T) {
	r := []Technician{{Name: "x", Demerits: 10}, {Name: "y", Points: 1}}
	top := Top(Rank(r), 2)
	assert.Equal(t, "y", top[0].Name)
	assert.Equal(t, -10, top[1].NetScore)
}

func TestTop(t *testing.T) {
	assert.Len(t, Top(Rank(roster()), EliteSize), 3)
	assert.Empty(t, Top(Rank(roster()), 0))
	assert.Len(t, Top(Rank(nil), 3), 0)
}

func TestCandidatesAndLeastLoaded(t *testing.T) {
	c := Candidates(roster())
	require.Len(t, c, 3)
	assert.Equal(t, Candidate{Name: "Bilal", CurrentTaskCount: 2}, c[0])

	name, ok := LeastLoaded(c)
	require.True(t, ok)
	assert.Equal(t, "Asad", name) // Asad and Taimoor both have 1; Asad comes first

	_, ok = LeastLoaded(nil)
	assert.False(t, ok)
}

func TestChooseAssignee(t *testing.T) {
	cands := []Candidate{{Name: "Bilal", CurrentTaskCount: 2}, {Name: "Asad", CurrentTaskCount: 0}}

	tests := []struct {
		name       string
		cands      []Candidate
		suggestion string
		err        error
		want       string
		source     AssignmentSource
	}{
		{"nobody attending", nil, "Bilal", nil, ManualDispatchSentinel, AssignmentManual},
		{"valid suggestion", cands, "Bilal", nil, "Bilal", AssignmentAdvisor},
		{"advisor error", cands, "", ErrAdvisorUnavailable, "Asad", AssignmentFallback},
		{"unknown name", cands, "Saboor", nil, "Asad", AssignmentFallback},
		{"error wins over a valid name", cands, "Bilal", errors.New("timeout"), "Asad", AssignmentFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, src := ChooseAssignee(tt.cands, tt.suggestion, tt.err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.source, src)
		})
	}
}

func TestLedger(t *testing.T) {
	entries := []LedgerEntry{
		{Kind: LedgerKindPoints, Delta: 120, Reason: ReasonOpeningBalance},
		{Kind: LedgerKindDemerits, Delta: 25, Reason: ReasonOpeningBalance},
		{Kind: LedgerKindPoints, Delta: 10, Reason: ReasonTaskCompleted},
		{Kind: LedgerKindDemerits, Delta: 15, Reason: "Tool Misplacement"},
	}
	tech := Technician{Name: "Asad"}
	for _, e := range entries {
		e.Apply(&tech)
	}
	assert.Equal(t, 130, tech.Points)
	assert.Equal(t, 40, tech.Demerits)
	assert.Equal(t, tech.NetScore(), NetScoreFromLedger(entries))
}

func TestDemeritReasons(t *testing.T) {
	r, ok := LookupDemeritReason("Safety Violation")
	require.True(t, ok)
	assert.Equal(t, 30, r.Points)
	_, ok = LookupDemeritReason("safety violation")
	assert.False(t, ok)

	table := DemeritReasons()
	table[0].Points = 0
	r, _ = LookupDemeritReason("Missed Checklist")
	assert.Equal(t, 25, r.Points)
}

func TestCompliance(t *testing.T) {
	assert.Equal(t, 0, CompliancePercentage(5, 0))
	assert.Equal(t, 100, CompliancePercentage(200, 163))
	assert.Equal(t, 1, CompliancePercentage(1, 163))  // 0.61 rounds up
	assert.Equal(t, 50, CompliancePercentage(1, 2))
	assert.Equal(t, 33, CompliancePercentage(1, 3))
	assert.Equal(t, 67, CompliancePercentage(2, 3))

	records := []ChecklistRecord{
		{Type: ChecklistDaily, AssetID: 1, Done: true},
		{Type: ChecklistDaily, AssetID: 1, Done: true}, // same asset counts once
		{Type: ChecklistDaily, AssetID: 2, Done: true},
		{Type: ChecklistDaily, AssetID: 3, Done: false},
		{Type: ChecklistMonthly, AssetID: 4, Done: true},
	}
	lines := ComputeCompliance(records, 4)
	require.Len(t, lines, 3)
	assert.Equal(t, ComplianceLine{Type: ChecklistDaily, Completed: 2, Total: 4, Percentage: 50}, lines[0])
	assert.Equal(t, 25, lines[1].Percentage)
	assert.Equal(t, 0, lines[2].Percentage)
}

func TestParseChecklistType(t *testing.T) {
	ct, err := ParseChecklistType("quarterly")
	require.NoError(t, err)
	assert.Equal(t, ChecklistQuarterly, ct)
	_, err = ParseChecklistType("weekly")
	assert.ErrorIs(t, err, ErrInvalidChecklist)
}

func TestErrorClassifiers(t *testing.T) {
	assert.True(t, IsNotFoundError(ErrTicketNotFound))
	assert.True(t, IsValidationError(ErrInvalidAsset))
	assert.True(t, IsConflictError(ErrAlreadyResolved))
	assert.False(t, IsConflictError(ErrAdvisorUnavailable))
}

func TestEventKey(t *testing.T) {
	assert.Equal(t, "t1", (&DispatchEvent{Ticket: &Ticket{ID: "t1"}}).Key())
	assert.Equal(t, "Asad", (&DispatchEvent{LedgerEntry: &LedgerEntry{Technician: "Asad"}}).Key())
	assert.Equal(t, "zone-B", (&DispatchEvent{ZoneTakeover: &ZoneTakeoverData{Zone: ZoneB}}).Key())
	assert.Equal(t, "e1", (&DispatchEvent{EventID: "e1"}).Key())
}
