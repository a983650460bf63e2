package models

import "github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute"

// ---------------------------------------------------------------------------
// Azure storage
// ---------------------------------------------------------------------------

// Account is an Azure storage account and the security-relevant properties
// collected for it. ID is the full ARM resource ID.
type Account struct {
	ID                         string          `json:"id"`
	Name                       string          `json:"name"`
	ResourceGroupName          string          `json:"resource_group_name"`
	Location                   string          `json:"location"`
	EnableHTTPSTrafficOnly     bool            `json:"enable_https_traffic_only"`
	InfrastructureEncryption   bool            `json:"infrastructure_encryption"`
	AllowBlobPublicAccess      bool            `json:"allow_blob_public_access"`
	NetworkRuleSet             NetworkRuleSet  `json:"network_rule_set"`
	EncryptionType             string          `json:"encryption_type"`
	MinimumTLSVersion          string          `json:"minimum_tls_version"`
	PrivateEndpointConnections []string        `json:"private_endpoint_connections,omitempty"`
	KeyExpirationPeriodInDays  int             `json:"key_expiration_period_in_days"`
	BlobProperties             *BlobProperties `json:"blob_properties,omitempty"`
}

// Ref returns the finding identity of the account.
func (a Account) Ref() ResourceRef {
	return ResourceRef{ID: a.ID, Name: a.Name, Location: a.Location}
}

// NetworkRuleSet is the firewall configuration of a storage account.
type NetworkRuleSet struct {
	Bypass        string `json:"bypass"`
	DefaultAction string `json:"default_action"`
}

// BlobProperties holds the blob service settings of a storage account.
type BlobProperties struct {
	ID                             string                `json:"id"`
	Name                           string                `json:"name"`
	Type                           string                `json:"type"`
	DefaultServiceVersion          string                `json:"default_service_version"`
	ContainerDeleteRetentionPolicy DeleteRetentionPolicy `json:"container_delete_retention_policy"`
	VersioningEnabled              bool                  `json:"versioning_enabled"`
}

// DeleteRetentionPolicy is a soft-delete retention setting.
type DeleteRetentionPolicy struct {
	Enabled bool `json:"enabled"`
	Days    int  `json:"days"`
}

// ---------------------------------------------------------------------------
// Azure monitor
// ---------------------------------------------------------------------------

// DiagnosticSetting is a subscription-level activity log export.
// StorageAccountID references an Account by ARM ID; it is empty when the
// setting exports only to Log Analytics or Event Hubs.
type DiagnosticSetting struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	StorageAccountID   string       `json:"storage_account_id,omitempty"`
	StorageAccountName string       `json:"storage_account_name,omitempty"`
	Logs               []LogSetting `json:"logs,omitempty"`
}

// LogSetting is one activity log category in a diagnostic setting.
type LogSetting struct {
	Category string `json:"category"`
	Enabled  bool   `json:"enabled"`
}

// ---------------------------------------------------------------------------
// Azure compute
// ---------------------------------------------------------------------------

// VirtualMachine is an Azure VM. StorageProfile keeps the ARM model as
// returned by the compute API so disk details survive untouched; it is nil
// when the API omitted it.
type VirtualMachine struct {
	ID             string                     `json:"id"`
	Name           string                     `json:"name"`
	Location       string                     `json:"location"`
	StorageProfile *armcompute.StorageProfile `json:"storage_profile,omitempty"`
}

// Ref returns the finding identity of the VM.
func (v VirtualMachine) Ref() ResourceRef {
	return ResourceRef{ID: v.ID, Name: v.Name, Location: v.Location}
}
