// Package snapshot populates the service clients of one scan from a JSON
// snapshot of previously collected provider state.
//
// Populating is the only write the caches ever see: every client in a Set is
// frozen before Load returns, and no check can trigger a reload.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	corev1 "k8s.io/api/core/v1"

	"github.com/pankaj-dahiya-devops/posture/internal/inventory"
	"github.com/pankaj-dahiya-devops/posture/internal/models"
	"github.com/pankaj-dahiya-devops/posture/internal/providers/aws/iam"
	"github.com/pankaj-dahiya-devops/posture/internal/providers/azure"
	"github.com/pankaj-dahiya-devops/posture/internal/providers/azure/compute"
	"github.com/pankaj-dahiya-devops/posture/internal/providers/azure/monitor"
	"github.com/pankaj-dahiya-devops/posture/internal/providers/azure/storage"
	"github.com/pankaj-dahiya-devops/posture/internal/providers/kubernetes/core"
)

// File is the on-disk snapshot layout. Every map is keyed by scope:
// subscription ID for Azure, account ID for AWS, cluster name for Kubernetes.
type File struct {
	Azure      *AzureFile      `json:"azure,omitempty"`
	AWS        *AWSFile        `json:"aws,omitempty"`
	Kubernetes *KubernetesFile `json:"kubernetes,omitempty"`
}

// AzureFile holds Azure records. Virtual machines are stored in the ARM
// representation returned by the Compute API.
type AzureFile struct {
	StorageAccounts    map[string][]models.Account            `json:"storage_accounts,omitempty"`
	DiagnosticSettings map[string][]models.DiagnosticSetting  `json:"diagnostic_settings,omitempty"`
	VirtualMachines    map[string][]armcompute.VirtualMachine `json:"virtual_machines,omitempty"`
}

// AWSFile holds AWS records.
type AWSFile struct {
	IAMPolicies map[string][]models.IAMPolicy `json:"iam_policies,omitempty"`
}

// KubernetesFile holds Kubernetes objects in their API JSON form.
type KubernetesFile struct {
	Pods map[string][]corev1.Pod `json:"pods,omitempty"`
}

// Set is the populated, read-only service clients of one scan. A provider
// absent from the snapshot has nil clients.
type Set struct {
	Azure *azure.Clients
	IAM   *iam.Client
	Core  *core.Client
}

// Providers returns the providers present in the snapshot, in a fixed order.
func (s *Set) Providers() []models.Provider {
	var out []models.Provider
	if s == nil {
		return out
	}
	if s.Azure != nil {
		out = append(out, models.ProviderAzure)
	}
	if s.IAM != nil {
		out = append(out, models.ProviderAWS)
	}
	if s.Core != nil {
		out = append(out, models.ProviderKubernetes)
	}
	return out
}

// Load reads, validates, and converts the snapshot at path.
func Load(path string) (*Set, error) {
	f, err := Read(path)
	if err != nil {
		return nil, err
	}
	if errs := f.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("load snapshot %q: %w", path, errors.Join(errs...))
	}
	return f.Build(), nil
}

// Parse decodes, validates, and converts a snapshot document. All validation
// errors are joined into the returned error.
func Parse(data []byte) (*Set, error) {
	f, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if errs := f.Validate(); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return f.Build(), nil
}

// Read decodes the snapshot at path without validating it.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %q: %w", path, err)
	}
	f, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %q: %w", path, err)
	}
	return f, nil
}

// Decode decodes a snapshot document without validating it.
func Decode(data []byte) (*File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &f, nil
}

// Validate checks every resource identifier in f and returns all problems
// found. An empty slice means the snapshot is usable.
//
// Checks performed:
//   - Azure storage account and VM IDs must be ARM resource IDs
//   - storage accounts must be listed under the subscription their ID names
//   - diagnostic setting storage account IDs, when set, must be ARM resource IDs
//   - IAM policy ARNs must parse and name the iam service
//   - IAM policy scope must be Local or AWS
//   - pods must have a name
func (f *File) Validate() []error {
	var errs []error
	if f.Azure != nil {
		for _, sub := range sortedKeys(f.Azure.StorageAccounts) {
			for i, a := range f.Azure.StorageAccounts[sub] {
				owner, err := storage.SubscriptionOf(a.ID)
				if err != nil {
					errs = append(errs, fmt.Errorf("azure.storage_accounts.%s[%d]: id %q: %w", sub, i, a.ID, err))
					continue
				}
				if !strings.EqualFold(owner, sub) {
					errs = append(errs, fmt.Errorf("azure.storage_accounts.%s[%d]: id %q belongs to subscription %q", sub, i, a.ID, owner))
				}
			}
		}
		for _, sub := range sortedKeys(f.Azure.DiagnosticSettings) {
			for i, ds := range f.Azure.DiagnosticSettings[sub] {
				if ds.StorageAccountID == "" {
					continue
				}
				if _, err := arm.ParseResourceID(ds.StorageAccountID); err != nil {
					errs = append(errs, fmt.Errorf("azure.diagnostic_settings.%s[%d]: storage_account_id %q: %w", sub, i, ds.StorageAccountID, err))
				}
			}
		}
		for _, sub := range sortedKeys(f.Azure.VirtualMachines) {
			for i, vm := range f.Azure.VirtualMachines[sub] {
				id := deref(vm.ID)
				if _, err := arm.ParseResourceID(id); err != nil {
					errs = append(errs, fmt.Errorf("azure.virtual_machines.%s[%d]: id %q: %w", sub, i, id, err))
				}
			}
		}
	}
	if f.AWS != nil {
		for _, acct := range sortedKeys(f.AWS.IAMPolicies) {
			for i, p := range f.AWS.IAMPolicies[acct] {
				if _, err := iam.AccountOf(p.ARN); err != nil {
					errs = append(errs, fmt.Errorf("aws.iam_policies.%s[%d]: %w", acct, i, err))
				}
				if !validScope(p) {
					errs = append(errs, fmt.Errorf("aws.iam_policies.%s[%d]: scope %q: must be Local or AWS", acct, i, p.Scope))
				}
			}
		}
	}
	if f.Kubernetes != nil {
		for _, cluster := range sortedKeys(f.Kubernetes.Pods) {
			for i, p := range f.Kubernetes.Pods[cluster] {
				if p.Name == "" {
					errs = append(errs, fmt.Errorf("kubernetes.pods.%s[%d]: metadata.name is required", cluster, i))
				}
			}
		}
	}
	return errs
}

func validScope(p models.IAMPolicy) bool {
	switch p.Scope {
	case iamtypes.PolicyScopeTypeLocal, iamtypes.PolicyScopeTypeAws:
		return true
	}
	return false
}

// ResourceCount returns the number of records across every client in s.
func (s *Set) ResourceCount() int {
	if s == nil {
		return 0
	}
	n := 0
	if s.Azure != nil {
		n += inventory.Count(s.Azure.Monitor.Settings())
		n += inventory.Count(s.Azure.Storage.Accounts())
		n += inventory.Count(s.Azure.Compute.VMs())
	}
	n += inventory.Count(s.IAM.PolicySource())
	n += inventory.Count(s.Core.PodSource())
	return n
}

// Build converts f into frozen service clients. It does not validate.
func (f *File) Build() *Set {
	set := &Set{}
	if f.Azure != nil {
		set.Azure = &azure.Clients{
			Monitor: monitor.NewClient(inventory.FromMap(f.Azure.DiagnosticSettings)),
			Storage: storage.NewClient(inventory.FromMap(f.Azure.StorageAccounts)),
			Compute: compute.NewClient(inventory.FromMap(convertVMs(f.Azure.VirtualMachines))),
		}
	}
	if f.AWS != nil {
		set.IAM = iam.NewClient(inventory.FromMap(f.AWS.IAMPolicies))
	}
	if f.Kubernetes != nil {
		set.Core = core.NewClient(inventory.FromMap(f.Kubernetes.Pods))
	}
	return set
}

func convertVMs(in map[string][]armcompute.VirtualMachine) map[string][]models.VirtualMachine {
	out := make(map[string][]models.VirtualMachine, len(in))
	for sub, vms := range in {
		recs := make([]models.VirtualMachine, 0, len(vms))
		for _, vm := range vms {
			rec := models.VirtualMachine{
				ID:       deref(vm.ID),
				Name:     deref(vm.Name),
				Location: deref(vm.Location),
			}
			if vm.Properties != nil {
				rec.StorageProfile = vm.Properties.StorageProfile
			}
			recs = append(recs, rec)
		}
		out[sub] = recs
	}
	return out
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// sortedKeys gives validation errors a stable order.
func sortedKeys[T any](m map[string][]T) []string {
	return slices.Sorted(maps.Keys(m))
}
