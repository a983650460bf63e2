package models

import iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"

// IAMPolicy represents a managed IAM policy and its default version document.
// Scope is Local for customer-managed policies and AWS for AWS-managed ones.
// Document is the decoded JSON policy document of the default version; it is
// empty when the collector could not read it.
type IAMPolicy struct {
	ARN      string                   `json:"arn"`
	Name     string                   `json:"name"`
	Scope    iamtypes.PolicyScopeType `json:"scope"`
	Attached bool                     `json:"attached"`
	Document string                   `json:"document,omitempty"`
}

// Custom reports whether the policy is customer managed.
func (p IAMPolicy) Custom() bool {
	return p.Scope == iamtypes.PolicyScopeTypeLocal
}
