package check

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pankaj-dahiya-devops/posture/internal/models"
)

type stubCheck struct {
	meta models.CheckMetadata
}

func (s stubCheck) Metadata() models.CheckMetadata      { return s.meta }
func (s stubCheck) Execute() ([]models.Finding, error) { return nil, nil }

func stub(id string, p models.Provider) stubCheck {
	return stubCheck{meta: models.CheckMetadata{ID: id, Provider: p}}
}

func TestRegistry_DiscoveryIsSortedByID(t *testing.T) {
	r := NewRegistry()
	r.RegisterAll(
		stub("vm_ensure_using_managed_disks", models.ProviderAzure),
		stub("iam_policy_no_full_access_to_kms", models.ProviderAWS),
		stub("monitor_storage_account_with_activity_logs_is_private", models.ProviderAzure),
	)

	assert.Equal(t, []string{
		"iam_policy_no_full_access_to_kms",
		"monitor_storage_account_with_activity_logs_is_private",
		"vm_ensure_using_managed_disks",
	}, r.IDs())
	assert.Equal(t, 3, r.Len())
}

func TestRegistry_AddDuplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(stub("a", models.ProviderAWS)))

	err := r.Add(stub("a", models.ProviderAzure))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateID))
}

func TestRegistry_AddEmptyID(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Add(stub("", models.ProviderAWS)))
}

func TestRegistry_RegisterPanicsOnDuplicate(t *testing.T) {
	r := NewRegistry()
	r.Register(stub("a", models.ProviderAWS))
	assert.Panics(t, func() { r.Register(stub("a", models.ProviderAWS)) })
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()
	r.Register(stub("a", models.ProviderAWS))

	c, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", c.Metadata().ID)

	_, ok = r.Get("b")
	assert.False(t, ok)
}

func TestRegistry_DiscoverFilter(t *testing.T) {
	r := NewRegistry()
	r.RegisterAll(
		stub("c", models.ProviderAzure),
		stub("a", models.ProviderAzure),
		stub("b", models.ProviderAWS),
		stub("d", models.ProviderKubernetes),
	)

	ids := func(cs []Check) []string {
		var out []string
		for _, c := range cs {
			out = append(out, c.Metadata().ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"zero filter", Filter{}, []string{"a", "b", "c", "d"}},
		{"provider", Filter{Providers: []models.Provider{models.ProviderAzure}}, []string{"a", "c"}},
		{"include", Filter{Include: []string{"d", "b"}}, []string{"b", "d"}},
		{"exclude wins", Filter{Include: []string{"a", "b"}, Exclude: []string{"a"}}, []string{"b"}},
		{"enabled func", Filter{Enabled: func(m models.CheckMetadata) bool { return m.ID != "c" }}, []string{"a", "b", "d"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(r.Discover(tc.filter)))
		})
	}
}

func TestNewFinding_CopiesIdentity(t *testing.T) {
	meta := models.CheckMetadata{
		ID:           "storage_blob_public_access_level_is_disabled",
		Provider:     models.ProviderAzure,
		Service:      "storage",
		Severity:     models.SeverityHigh,
		ResourceType: "Microsoft.Storage/storageAccounts",
	}
	res := models.ResourceRef{ID: "/subscriptions/s/x", Name: "acct", Location: "westeurope"}

	f := NewFinding(meta, "sub-1", res, models.StatusFail, "msg")

	assert.Equal(t, "storage_blob_public_access_level_is_disabled", f.CheckID)
	assert.Equal(t, models.ProviderAzure, f.Provider)
	assert.Equal(t, models.SeverityHigh, f.Severity)
	assert.Equal(t, models.StatusFail, f.Status)
	assert.Equal(t, "msg", f.StatusExtended)
	assert.Equal(t, "/subscriptions/s/x", f.ResourceID)
	assert.Equal(t, "acct", f.ResourceName)
	assert.Equal(t, "westeurope", f.Location)
	assert.Equal(t, "sub-1", f.Scope)
	assert.Equal(t, "posture-azure-storage_blob_public_access_level_is_disabled-sub-1-westeurope-/subscriptions/s/x", f.UID)
	assert.False(t, f.Muted)

	res.Name = "changed"
	assert.Equal(t, "acct", f.ResourceName)
}
