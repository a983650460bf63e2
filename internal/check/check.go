package check

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/posture/internal/models"
)

// Check is a single deterministic security rule.
//
// A Check holds only the service clients it reads, injected at construction.
// It must be stateless and safe to call concurrently, and it must never fetch
// provider state, mutate cached records, or touch global state: every input
// it needs is already in its service clients.
type Check interface {
	// Metadata returns the static description of the check. Metadata().ID is
	// the unique, stable identifier used for discovery and reporting.
	Metadata() models.CheckMetadata

	// Execute evaluates the cached resources and returns zero or more
	// findings. Two calls against unchanged caches return identical slices.
	//
	// A resource the check cannot evaluate produces a MANUAL finding or is
	// skipped; it is never reported as an error. A non-nil error means the
	// whole check is broken and its findings must be discarded.
	Execute() ([]models.Finding, error)
}

// NewFinding builds a finding for meta about res, enumerated under scope.
// Identity fields are copied out of res so the finding stays valid whatever
// later happens to the cached record.
func NewFinding(
	meta models.CheckMetadata,
	scope string,
	res models.ResourceRef,
	status models.Status,
	statusExtended string,
) models.Finding {
	return models.Finding{
		UID:            findingUID(meta, scope, res),
		CheckID:        meta.ID,
		Provider:       meta.Provider,
		Service:        meta.Service,
		Severity:       meta.Severity,
		Status:         status,
		StatusExtended: statusExtended,
		ResourceID:     res.ID,
		ResourceName:   res.Name,
		ResourceType:   meta.ResourceType,
		Location:       res.Location,
		Scope:          scope,
	}
}

// findingUID is stable across runs for the same check, scope, location, and
// resource, so consumers can diff findings between scans.
func findingUID(meta models.CheckMetadata, scope string, res models.ResourceRef) string {
	return fmt.Sprintf("posture-%s-%s-%s-%s-%s", meta.Provider, meta.ID, scope, res.Location, res.ID)
}
