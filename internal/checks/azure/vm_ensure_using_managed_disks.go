package azure

import (
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute"

	"github.com/pankaj-dahiya-devops/posture/internal/check"
	"github.com/pankaj-dahiya-devops/posture/internal/models"
	"github.com/pankaj-dahiya-devops/posture/internal/providers/azure/compute"
)

// VMEnsureUsingManagedDisks fails any VM whose OS disk or data disks are
// unmanaged (VHD blobs in a storage account).
type VMEnsureUsingManagedDisks struct {
	Compute *compute.Client
}

func (c VMEnsureUsingManagedDisks) Metadata() models.CheckMetadata {
	return models.CheckMetadata{
		ID:           "vm_ensure_using_managed_disks",
		Provider:     models.ProviderAzure,
		Service:      "vm",
		Title:        "Ensure Virtual Machines are utilizing Managed Disks",
		Severity:     models.SeverityMedium,
		ResourceType: "Microsoft.Compute/virtualMachines",
		Description:  "Managed disks are encrypted at rest by default and isolated from storage account keys.",
		Risk:         "Unmanaged VHDs live in a storage account whose keys grant access to the disk contents.",
		Remediation:  "Convert the VM disks to managed disks.",
		Compliance: map[string][]string{
			"CIS-2.0": {"7.2"},
		},
	}
}

func (c VMEnsureUsingManagedDisks) Execute() ([]models.Finding, error) {
	meta := c.Metadata()
	vms := c.Compute.VMs()

	var findings []models.Finding
	for _, sub := range vms.Scopes() {
		for _, vm := range vms.Get(sub) {
			status := models.StatusPass
			msg := fmt.Sprintf("VM %s is using managed disks in subscription %s", vm.Name, sub)
			if !usesManagedDisks(vm.StorageProfile) {
				status = models.StatusFail
				msg = fmt.Sprintf("VM %s is not using managed disks in subscription %s", vm.Name, sub)
			}
			findings = append(findings, check.NewFinding(meta, sub, vm.Ref(), status, msg))
		}
	}
	return findings, nil
}

// usesManagedDisks requires a managed OS disk and a managed disk behind every
// data disk. A missing profile, OS disk, or data disk entry counts as
// unmanaged.
func usesManagedDisks(p *armcompute.StorageProfile) bool {
	if p == nil || p.OSDisk == nil || p.OSDisk.ManagedDisk == nil {
		return false
	}
	for _, d := range p.DataDisks {
		if d == nil || d.ManagedDisk == nil {
			return false
		}
	}
	return true
}
