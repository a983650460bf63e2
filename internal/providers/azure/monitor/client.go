// Package monitor is the Azure Monitor service client: the cached
// subscription-level diagnostic settings of one scan.
package monitor

import (
	"github.com/pankaj-dahiya-devops/posture/internal/inventory"
	"github.com/pankaj-dahiya-devops/posture/internal/models"
)

// Client exposes the diagnostic settings collected per subscription.
type Client struct {
	DiagnosticSettings inventory.Source[models.DiagnosticSetting]
}

// NewClient returns a Client reading from settings.
func NewClient(settings inventory.Source[models.DiagnosticSetting]) *Client {
	return &Client{DiagnosticSettings: settings}
}

// Settings returns the diagnostic settings source; never nil.
func (c *Client) Settings() inventory.Source[models.DiagnosticSetting] {
	if c == nil {
		return inventory.Empty[models.DiagnosticSetting]{}
	}
	return inventory.OrEmpty(c.DiagnosticSettings)
}
