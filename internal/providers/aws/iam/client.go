// Package iam is the AWS IAM service client. IAM is a global service: records
// are keyed by account ID and findings are attributed to the partition's
// global region.
package iam

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws/arn"

	"github.com/pankaj-dahiya-devops/posture/internal/inventory"
	"github.com/pankaj-dahiya-devops/posture/internal/models"
)

// Client exposes the managed policies collected per account.
type Client struct {
	Policies inventory.Source[models.IAMPolicy]
}

// NewClient returns a Client reading from policies.
func NewClient(policies inventory.Source[models.IAMPolicy]) *Client {
	return &Client{Policies: policies}
}

// PolicySource returns the policy source; never nil.
func (c *Client) PolicySource() inventory.Source[models.IAMPolicy] {
	if c == nil {
		return inventory.Empty[models.IAMPolicy]{}
	}
	return inventory.OrEmpty(c.Policies)
}

// globalRegions maps each AWS partition to the region its global services
// (IAM, Organizations) are homed in.
var globalRegions = map[string]string{
	"aws":        "us-east-1",
	"aws-cn":     "cn-north-1",
	"aws-us-gov": "us-gov-west-1",
}

// GlobalRegion returns the home region of IAM for the partition in policyARN.
// Unknown or unparseable ARNs fall back to us-east-1.
func GlobalRegion(policyARN string) string {
	a, err := arn.Parse(policyARN)
	if err != nil {
		return globalRegions["aws"]
	}
	if r, ok := globalRegions[a.Partition]; ok {
		return r
	}
	return globalRegions["aws"]
}

// AccountOf returns the account ID in an IAM ARN. AWS-managed policies carry
// the literal "aws" in place of an account ID.
func AccountOf(resourceARN string) (string, error) {
	a, err := arn.Parse(resourceARN)
	if err != nil {
		return "", fmt.Errorf("parse ARN %q: %w", resourceARN, err)
	}
	if a.Service != "iam" {
		return "", fmt.Errorf("parse ARN %q: service %q is not iam", resourceARN, a.Service)
	}
	return a.AccountID, nil
}
