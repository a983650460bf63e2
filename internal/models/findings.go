package models

import (
	"strings"
	"time"
)

// Status is the outcome of evaluating one check against one resource.
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
	// StatusManual marks a resource the check could not evaluate
	// automatically; a human has to review it.
	StatusManual Status = "MANUAL"
)

// Severity represents the impact level of a check.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "informational"
)

// severityRank orders severities for threshold comparisons.
var severityRank = map[Severity]int{
	SeverityCritical: 5,
	SeverityHigh:     4,
	SeverityMedium:   3,
	SeverityLow:      2,
	SeverityInfo:     1,
}

// Rank returns the ordering weight of s: critical 5 down to informational 1,
// and 0 for an unknown severity.
func (s Severity) Rank() int { return severityRank[s] }

// Severities lists every severity from most to least severe.
func Severities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}
}

// ParseSeverity accepts any casing of a severity name, plus "info" for
// informational.
func ParseSeverity(s string) (Severity, bool) {
	v := Severity(strings.ToLower(strings.TrimSpace(s)))
	if v == "info" {
		v = SeverityInfo
	}
	_, ok := severityRank[v]
	return v, ok
}

// Provider identifies the cloud or platform a check targets.
type Provider string

const (
	ProviderAzure      Provider = "azure"
	ProviderAWS        Provider = "aws"
	ProviderKubernetes Provider = "kubernetes"
)

// Providers lists every supported provider.
func Providers() []Provider {
	return []Provider{ProviderAzure, ProviderAWS, ProviderKubernetes}
}

// ParseProvider accepts any casing of a provider name.
func ParseProvider(s string) (Provider, bool) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Providers() {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// CheckMetadata is the static description of a check. It never changes
// between runs and is copied into every finding the check emits.
type CheckMetadata struct {
	// ID is the unique, stable identifier (e.g.
	// "monitor_storage_account_with_activity_logs_is_private"). It matches
	// the name of the file that implements the check.
	ID           string   `json:"check_id"`
	Provider     Provider `json:"provider"`
	Service      string   `json:"service"`
	Title        string   `json:"title"`
	Severity     Severity `json:"severity"`
	ResourceType string   `json:"resource_type"`
	Description  string   `json:"description,omitempty"`
	Risk         string   `json:"risk,omitempty"`
	Remediation  string   `json:"remediation,omitempty"`

	// Compliance maps a framework name to the requirement IDs this check
	// covers. Consumers group findings by it; the engine never reads it.
	Compliance map[string][]string `json:"compliance,omitempty"`
}

// ResourceRef is the identity of the resource a finding is about. Its fields
// are copied out of the resource record at evaluation time.
type ResourceRef struct {
	ID       string
	Name     string
	Location string
}

// Finding is a single pass/fail/manual result for one resource and one check.
// It is the atomic output unit of the check engine.
//
// A Finding holds only value fields so that copying it yields an independent
// record: nothing a later stage does to the source resource or to a copy can
// change a finding that was already emitted.
type Finding struct {
	UID            string   `json:"uid"`
	CheckID        string   `json:"check_id"`
	Provider       Provider `json:"provider"`
	Service        string   `json:"service"`
	Severity       Severity `json:"severity"`
	Status         Status   `json:"status"`
	StatusExtended string   `json:"status_extended"`
	ResourceID     string   `json:"resource_id"`
	ResourceName   string   `json:"resource_name"`
	ResourceType   string   `json:"resource_type"`
	Location       string   `json:"location"`

	// Scope is the subscription, account, or cluster the resource was
	// enumerated under.
	Scope string `json:"scope"`

	Muted       bool   `json:"muted"`
	MutedReason string `json:"muted_reason,omitempty"`
}

// CheckResult is the outcome of running one check: either its findings or
// the error that stopped it. Error is empty when the check completed; Err
// carries the same failure for errors.Is and is not serialised.
type CheckResult struct {
	CheckID  string        `json:"check_id"`
	Provider Provider      `json:"provider"`
	Findings []Finding     `json:"findings"`
	Error    string        `json:"error,omitempty"`
	Err      error         `json:"-"`
	Duration time.Duration `json:"duration_ns"`
}

// Failed reports whether the check could not run to completion.
func (r CheckResult) Failed() bool { return r.Err != nil || r.Error != "" }

// RunSummary aggregates counts across a run.
type RunSummary struct {
	TotalChecks   int `json:"total_checks"`
	ErroredChecks int `json:"errored_checks"`
	TotalFindings int `json:"total_findings"`
	Pass          int `json:"pass"`
	Fail          int `json:"fail"`
	Manual        int `json:"manual"`
	Muted         int `json:"muted"`

	// FailedBySeverity counts non-muted FAIL findings per severity.
	FailedBySeverity map[Severity]int `json:"failed_by_severity"`
}

// RunReport is the top-level output of one runner invocation.
type RunReport struct {
	ReportID    string        `json:"report_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Providers   []Provider    `json:"providers"`
	Summary     RunSummary    `json:"summary"`
	Results     []CheckResult `json:"results"`

	// Findings is every finding from Results, concatenated in check
	// discovery order.
	Findings []Finding `json:"findings"`
}
