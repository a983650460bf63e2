// Package aws provides the AWS check pack.
package aws

import (
	"github.com/pankaj-dahiya-devops/posture/internal/check"
	checks "github.com/pankaj-dahiya-devops/posture/internal/checks/aws"
	"github.com/pankaj-dahiya-devops/posture/internal/providers/aws/iam"
)

// New returns the AWS checks wired to the IAM client.
func New(iamClient *iam.Client) []check.Check {
	return []check.Check{
		checks.IAMPolicyNoFullAccessToKMS{IAM: iamClient}, // MEDIUM
	}
}
