// Package compute is the Azure Compute service client.
package compute

import (
	"github.com/pankaj-dahiya-devops/posture/internal/inventory"
	"github.com/pankaj-dahiya-devops/posture/internal/models"
)

// Client exposes the virtual machines collected per subscription.
type Client struct {
	VirtualMachines inventory.Source[models.VirtualMachine]
}

// NewClient returns a Client reading from vms.
func NewClient(vms inventory.Source[models.VirtualMachine]) *Client {
	return &Client{VirtualMachines: vms}
}

// VMs returns the virtual machine source; never nil.
func (c *Client) VMs() inventory.Source[models.VirtualMachine] {
	if c == nil {
		return inventory.Empty[models.VirtualMachine]{}
	}
	return inventory.OrEmpty(c.VirtualMachines)
}
