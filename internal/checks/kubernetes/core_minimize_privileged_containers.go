package kubernetes

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"

	"github.com/pankaj-dahiya-devops/posture/internal/check"
	"github.com/pankaj-dahiya-devops/posture/internal/models"
	"github.com/pankaj-dahiya-devops/posture/internal/providers/kubernetes/core"
)

// CoreMinimizePrivilegedContainers reports one finding per pod: FAIL when any
// of its containers (init and ephemeral included) runs privileged.
type CoreMinimizePrivilegedContainers struct {
	Core *core.Client
}

func (c CoreMinimizePrivilegedContainers) Metadata() models.CheckMetadata {
	return models.CheckMetadata{
		ID:           "core_minimize_privileged_containers",
		Provider:     models.ProviderKubernetes,
		Service:      "core",
		Title:        "Minimize the admission of privileged containers",
		Severity:     models.SeverityHigh,
		ResourceType: "Pod",
		Description:  "Privileged containers have all host capabilities and device access.",
		Risk:         "A compromised privileged container can take over the node it runs on.",
		Remediation:  "Remove securityContext.privileged from the pod spec and enforce the baseline Pod Security Standard.",
		Compliance: map[string][]string{
			"CIS-1.8": {"5.2.2"},
		},
	}
}

func (c CoreMinimizePrivilegedContainers) Execute() ([]models.Finding, error) {
	meta := c.Metadata()
	pods := c.Core.PodSource()

	var findings []models.Finding
	for _, cluster := range pods.Scopes() {
		for _, pod := range pods.Get(cluster) {
			res := models.ResourceRef{ID: podID(pod), Name: pod.Name, Location: pod.Namespace}
			if name, ok := privilegedContainer(pod.Spec); ok {
				msg := fmt.Sprintf("Pod %s contains privileged container %s.", pod.Name, name)
				findings = append(findings, check.NewFinding(meta, cluster, res, models.StatusFail, msg))
				continue
			}
			msg := fmt.Sprintf("Pod %s does not contain a privileged container.", pod.Name)
			findings = append(findings, check.NewFinding(meta, cluster, res, models.StatusPass, msg))
		}
	}
	return findings, nil
}

// podID prefers the API server UID; snapshots taken from manifests may lack
// one, so fall back to namespace/name.
func podID(pod corev1.Pod) string {
	if pod.UID != "" {
		return string(pod.UID)
	}
	return pod.Namespace + "/" + pod.Name
}

// privilegedContainer returns the name of the first privileged container in
// spec order: init containers, containers, then ephemeral containers.
func privilegedContainer(spec corev1.PodSpec) (string, bool) {
	for _, ctr := range spec.InitContainers {
		if isPrivileged(ctr.SecurityContext) {
			return ctr.Name, true
		}
	}
	for _, ctr := range spec.Containers {
		if isPrivileged(ctr.SecurityContext) {
			return ctr.Name, true
		}
	}
	for _, ctr := range spec.EphemeralContainers {
		if isPrivileged(ctr.SecurityContext) {
			return ctr.Name, true
		}
	}
	return "", false
}

func isPrivileged(sc *corev1.SecurityContext) bool {
	return sc != nil && sc.Privileged != nil && *sc.Privileged
}
