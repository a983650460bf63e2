// Package storage is the Azure Storage service client.
package storage

import (
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"

	"github.com/pankaj-dahiya-devops/posture/internal/inventory"
	"github.com/pankaj-dahiya-devops/posture/internal/models"
)

// Client exposes the storage accounts collected per subscription.
type Client struct {
	StorageAccounts inventory.Source[models.Account]
}

// NewClient returns a Client reading from accounts.
func NewClient(accounts inventory.Source[models.Account]) *Client {
	return &Client{StorageAccounts: accounts}
}

// Accounts returns the storage account source; never nil.
func (c *Client) Accounts() inventory.Source[models.Account] {
	if c == nil {
		return inventory.Empty[models.Account]{}
	}
	return inventory.OrEmpty(c.StorageAccounts)
}

// AccountIndex returns every cached account keyed by NormalizeID(account.ID),
// across all subscriptions. Other services reference storage accounts by ARM
// ID; checks resolve those references through this index.
func (c *Client) AccountIndex() map[string]models.Account {
	return inventory.Index(c.Accounts(), func(a models.Account) string {
		return NormalizeID(a.ID)
	})
}

// NormalizeID returns the canonical lookup key for an ARM resource ID.
// ARM IDs are case-insensitive and sometimes carry a trailing slash or
// surrounding whitespace; all of those compare equal after normalisation.
// An ID that does not parse is lower-cased as-is so lookups still work for
// exact matches.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	rid, err := arm.ParseResourceID(id)
	if err != nil {
		return strings.ToLower(strings.TrimSuffix(id, "/"))
	}
	return strings.ToLower(rid.String())
}

// SubscriptionOf returns the subscription ID embedded in an ARM resource ID.
func SubscriptionOf(id string) (string, error) {
	rid, err := arm.ParseResourceID(strings.TrimSpace(id))
	if err != nil {
		return "", err
	}
	return rid.SubscriptionID, nil
}
