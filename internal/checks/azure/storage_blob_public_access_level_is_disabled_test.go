package azure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pankaj-dahiya-devops/posture/internal/models"
	"github.com/pankaj-dahiya-devops/posture/internal/providers/azure/storage"
)

func TestStorageBlobPublicAccessLevelIsDisabled(t *testing.T) {
	tests := []struct {
		name       string
		src        fakeSource[models.Account]
		wantStatus []models.Status
		wantMsg    []string
	}{
		{
			name: "no subscriptions",
			src:  fakeSource[models.Account]{},
		},
		{
			name: "empty subscription",
			src:  oneScope[models.Account](subscriptionID),
		},
		{
			name:       "public access enabled",
			src:        oneScope(subscriptionID, logAccount(account1ID, "storageaccountname1", true)),
			wantStatus: []models.Status{models.StatusFail},
			wantMsg: []string{
				"Storage account storageaccountname1 from subscription " + subscriptionID + " has allow blob public access enabled.",
			},
		},
		{
			name: "mixed keeps input order",
			src: oneScope(subscriptionID,
				logAccount(account2ID, "storageaccountname2", false),
				logAccount(account1ID, "storageaccountname1", true),
			),
			wantStatus: []models.Status{models.StatusPass, models.StatusFail},
			wantMsg: []string{
				"Storage account storageaccountname2 from subscription " + subscriptionID + " has allow blob public access disabled.",
				"Storage account storageaccountname1 from subscription " + subscriptionID + " has allow blob public access enabled.",
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := StorageBlobPublicAccessLevelIsDisabled{Storage: storage.NewClient(tc.src)}
			findings, err := c.Execute()
			require.NoError(t, err)
			require.Len(t, findings, len(tc.wantStatus))
			for i, f := range findings {
				assert.Equal(t, tc.wantStatus[i], f.Status)
				assert.Equal(t, tc.wantMsg[i], f.StatusExtended)
				assert.Equal(t, subscriptionID, f.Scope)
				assert.Equal(t, "euwest", f.Location)
				assert.Equal(t, "storage_blob_public_access_level_is_disabled", f.CheckID)
			}
		})
	}
}

func TestStorageBlobPublicAccessLevelIsDisabled_Idempotent(t *testing.T) {
	c := StorageBlobPublicAccessLevelIsDisabled{Storage: storage.NewClient(oneScope(subscriptionID,
		logAccount(account1ID, "storageaccountname1", true),
		logAccount(account2ID, "storageaccountname2", false),
	))}

	first, err := c.Execute()
	require.NoError(t, err)
	second, err := c.Execute()
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, first, second)
}
