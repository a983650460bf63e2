package azure

import (
	"encoding/json"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pankaj-dahiya-devops/posture/internal/models"
	"github.com/pankaj-dahiya-devops/posture/internal/providers/azure/compute"
)

const vmID = "/subscriptions/00000000-0000-0000-0000-000000000000/resourceGroups/rg/providers/Microsoft.Compute/virtualMachines/VMTest"

func managed() *armcompute.ManagedDiskParameters {
	return &armcompute.ManagedDiskParameters{ID: to.Ptr("/subscriptions/x/resourceGroups/rg/providers/Microsoft.Compute/disks/d")}
}

func TestVMEnsureUsingManagedDisks(t *testing.T) {
	tests := []struct {
		name    string
		profile *armcompute.StorageProfile
		want    models.Status
	}{
		{
			name: "managed os and data disks",
			profile: &armcompute.StorageProfile{
				OSDisk:    &armcompute.OSDisk{ManagedDisk: managed()},
				DataDisks: []*armcompute.DataDisk{{Lun: to.Ptr[int32](0), ManagedDisk: managed()}},
			},
			want: models.StatusPass,
		},
		{
			name:    "managed os disk without data disks",
			profile: &armcompute.StorageProfile{OSDisk: &armcompute.OSDisk{ManagedDisk: managed()}},
			want:    models.StatusPass,
		},
		{
			name: "unmanaged os disk",
			profile: &armcompute.StorageProfile{
				OSDisk: &armcompute.OSDisk{Vhd: &armcompute.VirtualHardDisk{URI: to.Ptr("https://acct.blob.core.windows.net/vhds/os.vhd")}},
			},
			want: models.StatusFail,
		},
		{
			name: "unmanaged data disk",
			profile: &armcompute.StorageProfile{
				OSDisk:    &armcompute.OSDisk{ManagedDisk: managed()},
				DataDisks: []*armcompute.DataDisk{{Lun: to.Ptr[int32](0), ManagedDisk: managed()}, {Lun: to.Ptr[int32](1)}},
			},
			want: models.StatusFail,
		},
		{
			name: "nil data disk entry",
			profile: &armcompute.StorageProfile{
				OSDisk:    &armcompute.OSDisk{ManagedDisk: managed()},
				DataDisks: []*armcompute.DataDisk{nil},
			},
			want: models.StatusFail,
		},
		{
			name:    "missing os disk",
			profile: &armcompute.StorageProfile{DataDisks: []*armcompute.DataDisk{{Lun: to.Ptr[int32](0), ManagedDisk: managed()}}},
			want:    models.StatusFail,
		},
		{
			name:    "missing storage profile",
			profile: nil,
			want:    models.StatusFail,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := VMEnsureUsingManagedDisks{Compute: compute.NewClient(oneScope(subscriptionID, models.VirtualMachine{
				ID:             vmID,
				Name:           "VMTest",
				Location:       "westeurope",
				StorageProfile: tc.profile,
			}))}
			findings, err := c.Execute()
			require.NoError(t, err)
			require.Len(t, findings, 1)
			f := findings[0]
			assert.Equal(t, tc.want, f.Status)
			assert.Equal(t, vmID, f.ResourceID)
			assert.Equal(t, "VMTest", f.ResourceName)
			assert.Equal(t, "westeurope", f.Location)
			assert.Equal(t, subscriptionID, f.Scope)
			if tc.want == models.StatusPass {
				assert.Equal(t, "VM VMTest is using managed disks in subscription "+subscriptionID, f.StatusExtended)
			} else {
				assert.Equal(t, "VM VMTest is not using managed disks in subscription "+subscriptionID, f.StatusExtended)
			}
		})
	}
}

func TestVMEnsureUsingManagedDisks_Empty(t *testing.T) {
	for _, c := range []VMEnsureUsingManagedDisks{
		{},
		{Compute: compute.NewClient(fakeSource[models.VirtualMachine]{})},
		{Compute: compute.NewClient(oneScope[models.VirtualMachine](subscriptionID))},
	} {
		findings, err := c.Execute()
		require.NoError(t, err)
		assert.Empty(t, findings)
	}
}

func TestVMEnsureUsingManagedDisks_NullDataDiskFromJSON(t *testing.T) {
	var profile armcompute.StorageProfile
	require.NoError(t, json.Unmarshal([]byte(`{"osDisk":{"managedDisk":{"id":"x"}},"dataDisks":[null]}`), &profile))
	require.Len(t, profile.DataDisks, 1)

	c := VMEnsureUsingManagedDisks{Compute: compute.NewClient(oneScope(subscriptionID, models.VirtualMachine{
		ID: vmID, Name: "VMTest", StorageProfile: &profile,
	}))}
	findings, err := c.Execute()
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, models.StatusFail, findings[0].Status)
}

func TestVMEnsureUsingManagedDisks_Idempotent(t *testing.T) {
	c := VMEnsureUsingManagedDisks{Compute: compute.NewClient(oneScope(subscriptionID,
		models.VirtualMachine{ID: vmID, Name: "VMTest", StorageProfile: &armcompute.StorageProfile{OSDisk: &armcompute.OSDisk{ManagedDisk: managed()}}},
		models.VirtualMachine{ID: vmID + "2", Name: "VMTest2"},
	))}

	first, err := c.Execute()
	require.NoError(t, err)
	second, err := c.Execute()
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, first, second)
}
