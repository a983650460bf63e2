// Package policy applies a YAML scan policy to a run: which checks are
// enabled, severity overrides, muted findings, and the enforcement threshold
// that decides the exit status.
package policy

// Config is the decoded scan policy file.
type Config struct {
	Version     int                       `yaml:"version"`
	Providers   map[string]ProviderConfig `yaml:"providers"`
	Checks      map[string]CheckConfig    `yaml:"checks"`
	Mutelist    []MuteRule                `yaml:"mutelist"`
	Enforcement EnforcementConfig         `yaml:"enforcement"`
}

// ProviderConfig toggles every check of one provider. A nil Enabled means
// enabled.
type ProviderConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

// CheckConfig overrides a single check.
type CheckConfig struct {
	Enabled  *bool  `yaml:"enabled,omitempty"`
	Severity string `yaml:"severity,omitempty"`
}

// MuteRule marks matching findings as muted. Check and Resources are regular
// expressions matched against the whole value; Scopes are exact scope IDs.
// An empty Scopes or Resources list matches anything.
type MuteRule struct {
	Check     string   `yaml:"check"`
	Scopes    []string `yaml:"scopes,omitempty"`
	Resources []string `yaml:"resources,omitempty"`
	Reason    string   `yaml:"reason,omitempty"`
}

// EnforcementConfig sets the lowest severity of an unmuted FAIL finding that
// fails the run.
type EnforcementConfig struct {
	FailOnSeverity string `yaml:"fail_on_severity,omitempty"`
}
