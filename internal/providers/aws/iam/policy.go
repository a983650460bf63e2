package iam

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PolicyDocument is the subset of the IAM policy grammar the checks inspect.
type PolicyDocument struct {
	Version   string     `json:"Version"`
	Statement statements `json:"Statement"`
}

// Statement is a single policy statement. Action, NotAction, and Resource
// accept either a JSON string or an array of strings.
type Statement struct {
	Sid       string      `json:"Sid,omitempty"`
	Effect    string      `json:"Effect"`
	Action    stringOrSet `json:"Action,omitempty"`
	NotAction stringOrSet `json:"NotAction,omitempty"`
	Resource  stringOrSet `json:"Resource,omitempty"`
}

// ParsePolicyDocument decodes a JSON policy document. An empty document is an
// error: callers cannot tell what it grants.
func ParsePolicyDocument(doc string) (*PolicyDocument, error) {
	if strings.TrimSpace(doc) == "" {
		return nil, fmt.Errorf("parse policy document: empty document")
	}
	var pd PolicyDocument
	if err := json.Unmarshal([]byte(doc), &pd); err != nil {
		return nil, fmt.Errorf("parse policy document: %w", err)
	}
	return &pd, nil
}

// HasFullServiceAccess reports whether any Allow statement in doc grants every
// action of service (e.g. "kms") on every resource. An Action of "<service>:*"
// or "*" qualifies; so does a NotAction list that excludes nothing from the
// service.
func HasFullServiceAccess(service string, doc *PolicyDocument) bool {
	if doc == nil {
		return false
	}
	wildcard := service + ":*"
	for _, st := range doc.Statement {
		if !strings.EqualFold(st.Effect, "Allow") {
			continue
		}
		if !st.Resource.has("*") {
			continue
		}
		if len(st.Action) > 0 {
			if st.Action.has(wildcard) || st.Action.has("*") {
				return true
			}
			continue
		}
		if len(st.NotAction) > 0 && !st.NotAction.touchesService(service) {
			return true
		}
	}
	return false
}

// stringOrSet unmarshals from either "x" or ["x", "y"].
type stringOrSet []string

func (s *stringOrSet) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*s = stringOrSet{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("expected string or array of strings: %w", err)
	}
	*s = many
	return nil
}

// has matches case-insensitively; IAM action names are case-insensitive.
func (s stringOrSet) has(v string) bool {
	for _, x := range s {
		if strings.EqualFold(x, v) {
			return true
		}
	}
	return false
}

func (s stringOrSet) touchesService(service string) bool {
	prefix := strings.ToLower(service) + ":"
	for _, x := range s {
		if x == "*" || strings.HasPrefix(strings.ToLower(x), prefix) {
			return true
		}
	}
	return false
}

// statements unmarshals from either a single statement object or an array.
type statements []Statement

func (s *statements) UnmarshalJSON(b []byte) error {
	var many []Statement
	if err := json.Unmarshal(b, &many); err == nil {
		*s = many
		return nil
	}
	var one Statement
	if err := json.Unmarshal(b, &one); err != nil {
		return fmt.Errorf("expected statement object or array: %w", err)
	}
	*s = statements{one}
	return nil
}
