package azure

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/posture/internal/check"
	"github.com/pankaj-dahiya-devops/posture/internal/models"
	"github.com/pankaj-dahiya-devops/posture/internal/providers/azure/storage"
)

// StorageBlobPublicAccessLevelIsDisabled reports every storage account and
// whether it allows anonymous blob access.
type StorageBlobPublicAccessLevelIsDisabled struct {
	Storage *storage.Client
}

func (c StorageBlobPublicAccessLevelIsDisabled) Metadata() models.CheckMetadata {
	return models.CheckMetadata{
		ID:           "storage_blob_public_access_level_is_disabled",
		Provider:     models.ProviderAzure,
		Service:      "storage",
		Title:        "Ensure that 'Public access level' is disabled for storage accounts with blob containers",
		Severity:     models.SeverityHigh,
		ResourceType: "Microsoft.Storage/storageAccounts",
		Description:  "Anonymous read access to blob containers should be disallowed at the account level.",
		Risk:         "Any container set to public in the account can be read without credentials.",
		Remediation:  "Set allowBlobPublicAccess to false on the storage account.",
		Compliance: map[string][]string{
			"CIS-2.0": {"3.7"},
		},
	}
}

func (c StorageBlobPublicAccessLevelIsDisabled) Execute() ([]models.Finding, error) {
	meta := c.Metadata()
	accounts := c.Storage.Accounts()

	var findings []models.Finding
	for _, sub := range accounts.Scopes() {
		for _, acct := range accounts.Get(sub) {
			status := models.StatusPass
			msg := fmt.Sprintf("Storage account %s from subscription %s has allow blob public access disabled.", acct.Name, sub)
			if acct.AllowBlobPublicAccess {
				status = models.StatusFail
				msg = fmt.Sprintf("Storage account %s from subscription %s has allow blob public access enabled.", acct.Name, sub)
			}
			findings = append(findings, check.NewFinding(meta, sub, acct.Ref(), status, msg))
		}
	}
	return findings, nil
}
