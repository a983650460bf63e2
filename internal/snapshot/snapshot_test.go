package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pankaj-dahiya-devops/posture/internal/inventory"
	"github.com/pankaj-dahiya-devops/posture/internal/models"
)

func TestLoad_Testdata(t *testing.T) {
	set, err := Load(filepath.Join("testdata", "snapshot.json"))
	require.NoError(t, err)

	assert.Equal(t, []models.Provider{models.ProviderAzure, models.ProviderAWS, models.ProviderKubernetes}, set.Providers())

	sub := "00000000-0000-0000-0000-000000000000"
	accounts := set.Azure.Storage.Accounts().Get(sub)
	require.Len(t, accounts, 2)
	assert.Equal(t, "logsacct", accounts[0].Name)
	assert.True(t, accounts[0].AllowBlobPublicAccess)

	vms := set.Azure.Compute.VMs().Get(sub)
	require.Len(t, vms, 2)
	assert.Equal(t, "web-1", vms[0].Name)
	require.NotNil(t, vms[0].StorageProfile)
	require.NotNil(t, vms[0].StorageProfile.OSDisk)
	assert.NotNil(t, vms[0].StorageProfile.OSDisk.ManagedDisk)
	require.NotNil(t, vms[1].StorageProfile.OSDisk)
	assert.Nil(t, vms[1].StorageProfile.OSDisk.ManagedDisk)

	assert.Equal(t, 3, inventory.Count(set.IAM.PolicySource()))
	pods := set.Core.PodSource().Get("kind-dev")
	require.Len(t, pods, 2)
	assert.Equal(t, "node-agent", pods[1].Name)

	// 2 accounts, 1 setting, 2 VMs, 3 policies, 2 pods.
	assert.Equal(t, 10, set.ResourceCount())
}

func TestLoad_CachesAreFrozen(t *testing.T) {
	set, err := Load(filepath.Join("testdata", "snapshot.json"))
	require.NoError(t, err)

	cache, ok := set.Azure.Storage.StorageAccounts.(*inventory.Cache[models.Account])
	require.True(t, ok)
	assert.ErrorIs(t, cache.Put("other", models.Account{}), inventory.ErrFrozen)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestParse_PartialSnapshot(t *testing.T) {
	set, err := Parse([]byte(`{"aws": {"iam_policies": {}}}`))
	require.NoError(t, err)
	assert.Equal(t, []models.Provider{models.ProviderAWS}, set.Providers())
	assert.Nil(t, set.Azure)
	assert.Empty(t, set.IAM.PolicySource().Scopes())
}

func TestParse_Empty(t *testing.T) {
	set, err := Parse([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, set.Providers())
	assert.Zero(t, set.ResourceCount())
}

func TestRead_DoesNotValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"aws": {"iam_policies": {"1": [{"arn": "bogus"}]}}}`), 0o600))

	f, err := Read(path)
	require.NoError(t, err)
	assert.Len(t, f.Validate(), 2)
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{"azure": [`))
	assert.Error(t, err)
}

func TestFile_ValidateCollectsAllErrors(t *testing.T) {
	f := File{
		Azure: &AzureFile{
			StorageAccounts: map[string][]models.Account{
				"sub": {{ID: "not-an-arm-id", Name: "a"}},
			},
			DiagnosticSettings: map[string][]models.DiagnosticSetting{
				"sub": {{ID: "d", StorageAccountID: "bad"}, {ID: "ok"}},
			},
		},
		AWS: &AWSFile{
			IAMPolicies: map[string][]models.IAMPolicy{
				"123": {{ARN: "arn:aws:s3:::bucket", Name: "p", Scope: "Local"}, {ARN: "arn:aws:iam::123:policy/q", Name: "q", Scope: "Team"}},
			},
		},
	}
	errs := f.Validate()
	assert.Len(t, errs, 4)
}

func TestFile_ValidateStorageAccountSubscription(t *testing.T) {
	const sub = "00000000-0000-0000-0000-000000000000"
	f := File{
		Azure: &AzureFile{
			StorageAccounts: map[string][]models.Account{
				sub: {
					{ID: "/subscriptions/" + sub + "/resourceGroups/rg/providers/Microsoft.Storage/storageAccounts/ok", Name: "ok"},
					{ID: "/subscriptions/11111111-1111-1111-1111-111111111111/resourceGroups/rg/providers/Microsoft.Storage/storageAccounts/moved", Name: "moved"},
				},
			},
		},
	}

	errs := f.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), `belongs to subscription "11111111-1111-1111-1111-111111111111"`)
	assert.Contains(t, errs[0].Error(), "azure.storage_accounts."+sub+"[1]")
}

func TestParse_ReportsValidationErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"kubernetes": {"pods": {"c": [{"metadata": {}}]}}}`), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metadata.name is required")
}
