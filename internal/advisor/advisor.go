// Package advisor holds the external oracles the dispatch engine consults:
// one suggests an assignee, the other writes a diagnostic checklist. Neither
// is trusted; callers validate or fall back.
package advisor

import (
	"context"

	"github.com/shamroze153/FM-Portal/internal/domain"
)

// AssignmentRequest is what the assignment advisor sees
type AssignmentRequest struct {
	Candidates []domain.Candidate `json:"candidates"`
	Severity   domain.Severity    `json:"severity"`
	Issue      string             `json:"issue"`
}

// AssignmentAdvisor suggests a technician name. The answer may be any string.
type AssignmentAdvisor interface {
	Suggest(ctx context.Context, req AssignmentRequest) (string, error)
}

// DiagnosticAdvisor turns an issue description into display text
type DiagnosticAdvisor interface {
	Diagnose(ctx context.Context, issue string) (string, error)
}

// NoDiagnostic is shown when the diagnostic advisor has nothing to say
const NoDiagnostic = "No diagnostic available."

// LeastLoadedAdvisor answers locally with the least-loaded candidate
type LeastLoadedAdvisor struct{}

func (LeastLoadedAdvisor) Suggest(_ context.Context, req AssignmentRequest) (string, error) {
	name, ok := domain.LeastLoaded(req.Candidates)
	if !ok {
		return "", domain.ErrAdvisorUnavailable
	}
	return name, nil
}

// UnavailableAdvisor always fails. It stands in when no advisor is configured.
type UnavailableAdvisor struct{}

func (UnavailableAdvisor) Suggest(context.Context, AssignmentRequest) (string, error) {
	return "", domain.ErrAdvisorUnavailable
}

func (UnavailableAdvisor) Diagnose(context.Context, string) (string, error) {
	return "", domain.ErrAdvisorUnavailable
}

// StaticDiagnostic always returns NoDiagnostic
type StaticDiagnostic struct{}

func (StaticDiagnostic) Diagnose(context.Context, string) (string, error) {
	return NoDiagnostic, nil
}
