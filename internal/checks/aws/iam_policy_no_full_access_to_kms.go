package aws

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/posture/internal/check"
	"github.com/pankaj-dahiya-devops/posture/internal/models"
	"github.com/pankaj-dahiya-devops/posture/internal/providers/aws/iam"
)

const kmsService = "kms"

// IAMPolicyNoFullAccessToKMS fails customer-managed policies that grant
// kms:* on every resource. AWS-managed policies are out of the customer's
// control and are not reported.
type IAMPolicyNoFullAccessToKMS struct {
	IAM *iam.Client
}

func (c IAMPolicyNoFullAccessToKMS) Metadata() models.CheckMetadata {
	return models.CheckMetadata{
		ID:           "iam_policy_no_full_access_to_kms",
		Provider:     models.ProviderAWS,
		Service:      "iam",
		Title:        "Ensure IAM policies that allow full \"kms:*\" privileges are not created",
		Severity:     models.SeverityMedium,
		ResourceType: "AwsIamPolicy",
		Description:  "Customer-managed policies should grant only the KMS actions a principal needs.",
		Risk:         "kms:* lets a principal disable, delete, or re-key every customer master key in the account.",
		Remediation:  "Replace kms:* with the specific KMS actions required, scoped to specific key ARNs.",
		Compliance: map[string][]string{
			"AWS-Foundational-Security-Best-Practices": {"KMS.1"},
		},
	}
}

func (c IAMPolicyNoFullAccessToKMS) Execute() ([]models.Finding, error) {
	meta := c.Metadata()
	policies := c.IAM.PolicySource()

	var findings []models.Finding
	for _, account := range policies.Scopes() {
		for _, p := range policies.Get(account) {
			if !p.Custom() {
				continue
			}
			res := models.ResourceRef{ID: p.ARN, Name: p.Name, Location: iam.GlobalRegion(p.ARN)}
			status, msg := evaluateKMS(p)
			findings = append(findings, check.NewFinding(meta, account, res, status, msg))
		}
	}
	return findings, nil
}

// evaluateKMS returns the status and message for one policy. A policy with
// no document grants nothing and passes; one whose document does not parse
// needs a human to look at it.
func evaluateKMS(p models.IAMPolicy) (models.Status, string) {
	if p.Document == "" {
		return models.StatusPass, fmt.Sprintf("Custom Policy %s does not allow '%s:*' privileges.", p.Name, kmsService)
	}
	doc, err := iam.ParsePolicyDocument(p.Document)
	if err != nil {
		return models.StatusManual, fmt.Sprintf("Custom Policy %s has a policy document that could not be parsed.", p.Name)
	}
	if iam.HasFullServiceAccess(kmsService, doc) {
		return models.StatusFail, fmt.Sprintf("Custom Policy %s allows '%s:*' privileges.", p.Name, kmsService)
	}
	return models.StatusPass, fmt.Sprintf("Custom Policy %s does not allow '%s:*' privileges.", p.Name, kmsService)
}
