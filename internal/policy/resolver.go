package policy

import (
	"regexp"
	"slices"
	"strings"

	"github.com/pankaj-dahiya-devops/posture/internal/models"
)

// Enabled reports whether the check described by meta should run under cfg.
// A check runs unless its provider or the check itself is disabled. It is
// safe to call with cfg == nil.
func Enabled(cfg *Config, meta models.CheckMetadata) bool {
	if cfg == nil {
		return true
	}
	for name, p := range cfg.Providers {
		if strings.EqualFold(name, string(meta.Provider)) && p.Enabled != nil && !*p.Enabled {
			return false
		}
	}
	if c, ok := cfg.Checks[meta.ID]; ok && c.Enabled != nil && !*c.Enabled {
		return false
	}
	return true
}

// Apply returns a copy of findings with severity overrides applied and
// mutelist matches marked Muted. Findings are never dropped and the input
// slice is not modified. Mutelist entries that fail to compile are ignored;
// Validate reports them.
func Apply(findings []models.Finding, cfg *Config) []models.Finding {
	out := slices.Clone(findings)
	if cfg == nil {
		return out
	}

	mutes := compileMutelist(cfg.Mutelist)
	for i := range out {
		f := &out[i]
		if c, ok := cfg.Checks[f.CheckID]; ok && c.Severity != "" {
			if sev, ok := models.ParseSeverity(c.Severity); ok {
				f.Severity = sev
			}
		}
		for _, m := range mutes {
			if m.matches(*f) {
				f.Muted = true
				f.MutedReason = m.reason
				break
			}
		}
	}
	return out
}

type muteMatcher struct {
	check     *regexp.Regexp
	scopes    []string
	resources []*regexp.Regexp
	reason    string
}

func compileMutelist(rules []MuteRule) []muteMatcher {
	var out []muteMatcher
RULES:
	for _, r := range rules {
		if r.Check == "" {
			continue
		}
		checkRE, err := anchored(r.Check)
		if err != nil {
			continue
		}
		m := muteMatcher{check: checkRE, scopes: r.Scopes, reason: r.Reason}
		for _, pat := range r.Resources {
			re, err := anchored(pat)
			if err != nil {
				continue RULES
			}
			m.resources = append(m.resources, re)
		}
		if m.reason == "" {
			m.reason = "muted by policy"
		}
		out = append(out, m)
	}
	return out
}

func (m muteMatcher) matches(f models.Finding) bool {
	if !m.check.MatchString(f.CheckID) {
		return false
	}
	if len(m.scopes) > 0 && !slices.Contains(m.scopes, f.Scope) && !slices.Contains(m.scopes, "*") {
		return false
	}
	if len(m.resources) == 0 {
		return true
	}
	for _, re := range m.resources {
		if re.MatchString(f.ResourceID) || re.MatchString(f.ResourceName) {
			return true
		}
	}
	return false
}
