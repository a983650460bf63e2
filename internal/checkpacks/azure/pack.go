// Package azure provides the Azure check pack.
//
// Convention: every check pack lives in internal/checkpacks/<provider>/pack.go
// and exposes a single New() func returning []check.Check built from that
// provider's service clients.
package azure

import (
	"github.com/pankaj-dahiya-devops/posture/internal/check"
	checks "github.com/pankaj-dahiya-devops/posture/internal/checks/azure"
	"github.com/pankaj-dahiya-devops/posture/internal/providers/azure"
)

// New returns the Azure checks wired to clients. A nil clients value yields
// checks that see no resources.
func New(clients *azure.Clients) []check.Check {
	if clients == nil {
		clients = &azure.Clients{}
	}
	return []check.Check{
		checks.MonitorStorageAccountWithActivityLogsIsPrivate{Monitor: clients.Monitor, Storage: clients.Storage}, // HIGH
		checks.StorageBlobPublicAccessLevelIsDisabled{Storage: clients.Storage},                                  // HIGH
		checks.VMEnsureUsingManagedDisks{Compute: clients.Compute},                                               // MEDIUM
	}
}
