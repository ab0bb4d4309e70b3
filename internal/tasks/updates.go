package tasks

import (
	"fmt"

	"github.com/k7t3/horzcv/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Prepare Phase = iota
	Resolve
	Complete
)

func (p Phase) String() string {
	switch p {
	case Prepare:
		return "prepare"
	case Resolve:
		return "resolve"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

func prepareUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Prepare,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Resolving %d stream(s)...", total),
	}
}

func resolvedUpdate(step, total int, r IdentityResult) ProgressUpdate {
	var msg string
	switch {
	case r.Error != nil:
		msg = fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, r.Identity.Identity, r.Error)
	case r.Info == nil:
		msg = fmt.Sprintf("[%d/%d] ✗ %s: not identified", step, total, r.Identity.Identity)
	default:
		msg = fmt.Sprintf("[%d/%d] ✓ %s → %s", step, total, r.Identity.Identity, r.Info.Name)
	}
	return ProgressUpdate{Phase: Resolve, Step: step, Total: total, Message: msg, Data: r}
}

func completeUpdate(res *ResolveResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		Step:    res.Total,
		Total:   res.Total,
		Message: fmt.Sprintf("Resolved %d of %d stream(s)", res.Resolved, res.Total),
		Data:    res,
	}
}

// names applies resolved display names to identities.
func names(results []IdentityResult, overwrite bool) []models.NamedIdentity {
	out := make([]models.NamedIdentity, len(results))
	for i, r := range results {
		out[i] = r.Identity
		if r.Info != nil && (overwrite || r.Identity.DisplayName == "") {
			out[i].DisplayName = r.Info.Name
		}
	}
	return out
}
