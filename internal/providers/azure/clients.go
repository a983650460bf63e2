// Package azure groups the Azure service clients of one scan.
package azure

import (
	"github.com/pankaj-dahiya-devops/posture/internal/providers/azure/compute"
	"github.com/pankaj-dahiya-devops/posture/internal/providers/azure/monitor"
	"github.com/pankaj-dahiya-devops/posture/internal/providers/azure/storage"
)

// Clients bundles the Azure service clients a check pack is built from.
// Any field may be nil; a nil client reads as a service with no resources.
type Clients struct {
	Monitor *monitor.Client
	Storage *storage.Client
	Compute *compute.Client
}
