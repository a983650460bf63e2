package azure

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/posture/internal/check"
	"github.com/pankaj-dahiya-devops/posture/internal/models"
	"github.com/pankaj-dahiya-devops/posture/internal/providers/azure/monitor"
	"github.com/pankaj-dahiya-devops/posture/internal/providers/azure/storage"
)

// MonitorStorageAccountWithActivityLogsIsPrivate flags storage accounts that
// receive subscription activity logs while allowing public blob access.
//
// The finding is about the storage account the diagnostic setting exports
// to, not the setting itself. Settings that export elsewhere, or that point
// at an account missing from the storage cache, produce no finding.
type MonitorStorageAccountWithActivityLogsIsPrivate struct {
	Monitor *monitor.Client
	Storage *storage.Client
}

func (c MonitorStorageAccountWithActivityLogsIsPrivate) Metadata() models.CheckMetadata {
	return models.CheckMetadata{
		ID:           "monitor_storage_account_with_activity_logs_is_private",
		Provider:     models.ProviderAzure,
		Service:      "monitor",
		Title:        "Ensure the storage account containing the container with activity logs is not publicly accessible",
		Severity:     models.SeverityHigh,
		ResourceType: "Microsoft.Storage/storageAccounts",
		Description:  "Activity logs exported to a storage account must not be readable anonymously.",
		Risk:         "Public blob access on the log account lets anyone read the audit trail of the subscription.",
		Remediation:  "Set allowBlobPublicAccess to false on the storage account receiving activity logs.",
		Compliance: map[string][]string{
			"CIS-2.0": {"5.1.3"},
		},
	}
}

func (c MonitorStorageAccountWithActivityLogsIsPrivate) Execute() ([]models.Finding, error) {
	meta := c.Metadata()
	settings := c.Monitor.Settings()
	accounts := c.Storage.AccountIndex()

	var findings []models.Finding
	for _, sub := range settings.Scopes() {
		for _, ds := range settings.Get(sub) {
			acct, ok := accounts[storage.NormalizeID(ds.StorageAccountID)]
			if !ok {
				continue
			}
			status := models.StatusPass
			msg := fmt.Sprintf("Blob public access disabled in storage account %s storing activity logs in subscription %s.", acct.Name, sub)
			if acct.AllowBlobPublicAccess {
				status = models.StatusFail
				msg = fmt.Sprintf("Blob public access enabled in storage account %s storing activity logs in subscription %s.", acct.Name, sub)
			}
			findings = append(findings, check.NewFinding(meta, sub, acct.Ref(), status, msg))
		}
	}
	return findings, nil
}
