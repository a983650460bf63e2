package policy

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/pankaj-dahiya-devops/posture/internal/models"
)

const validSeverityList = "critical, high, medium, low, informational"

// Validate checks cfg for semantic correctness and returns all validation errors
// found. An empty slice means the config is valid.
//
// Checks performed:
//   - version must be 1
//   - provider names must be one of: azure, aws, kubernetes
//   - check IDs must appear in availableCheckIDs
//   - check severity overrides must be valid severity values if set
//   - mutelist entries must have a check pattern, and every pattern must compile
//   - enforcement fail_on_severity must be a valid severity value if set
//
// All errors are collected before returning; Validate never stops at the first error.
func Validate(cfg *Config, availableCheckIDs []string) []error {
	if cfg == nil {
		return []error{fmt.Errorf("policy config is nil")}
	}

	knownIDs := make(map[string]struct{}, len(availableCheckIDs))
	for _, id := range availableCheckIDs {
		knownIDs[id] = struct{}{}
	}

	var errs []error

	if cfg.Version != 1 {
		errs = append(errs, fmt.Errorf("version: unsupported value %d; must be 1", cfg.Version))
	}

	for _, name := range sortedKeys(cfg.Providers) {
		if _, ok := models.ParseProvider(name); !ok {
			errs = append(errs, fmt.Errorf("providers.%s: unknown provider; valid values: azure, aws, kubernetes", name))
		}
	}

	for _, id := range sortedKeys(cfg.Checks) {
		ccfg := cfg.Checks[id]
		if _, ok := knownIDs[id]; !ok {
			errs = append(errs, fmt.Errorf("checks.%s: unknown check ID", id))
		}
		if ccfg.Severity != "" {
			if _, ok := models.ParseSeverity(ccfg.Severity); !ok {
				errs = append(errs, fmt.Errorf("checks.%s.severity: invalid value %q; valid values: %s", id, ccfg.Severity, validSeverityList))
			}
		}
	}

	for i, rule := range cfg.Mutelist {
		if rule.Check == "" {
			errs = append(errs, fmt.Errorf("mutelist[%d].check: required", i))
		} else if _, err := anchored(rule.Check); err != nil {
			errs = append(errs, fmt.Errorf("mutelist[%d].check: %w", i, err))
		}
		for j, pat := range rule.Resources {
			if _, err := anchored(pat); err != nil {
				errs = append(errs, fmt.Errorf("mutelist[%d].resources[%d]: %w", i, j, err))
			}
		}
	}

	if sev := cfg.Enforcement.FailOnSeverity; sev != "" {
		if _, ok := models.ParseSeverity(sev); !ok {
			errs = append(errs, fmt.Errorf("enforcement.fail_on_severity: invalid value %q; valid values: %s", sev, validSeverityList))
		}
	}

	return errs
}

// anchored compiles pattern so that it must match the whole value.
func anchored(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("^(?:" + pattern + ")$")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
