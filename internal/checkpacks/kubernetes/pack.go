// Package kubernetes provides the Kubernetes check pack.
package kubernetes

import (
	"github.com/pankaj-dahiya-devops/posture/internal/check"
	checks "github.com/pankaj-dahiya-devops/posture/internal/checks/kubernetes"
	"github.com/pankaj-dahiya-devops/posture/internal/providers/kubernetes/core"
)

// New returns the Kubernetes checks wired to the core/v1 client.
func New(coreClient *core.Client) []check.Check {
	return []check.Check{
		checks.CoreMinimizePrivilegedContainers{Core: coreClient}, // HIGH
	}
}
