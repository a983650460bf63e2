package kubernetes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"

	"github.com/pankaj-dahiya-devops/posture/internal/inventory"
	"github.com/pankaj-dahiya-devops/posture/internal/models"
	"github.com/pankaj-dahiya-devops/posture/internal/providers/kubernetes/core"
)

const cluster = "kind-test"

func boolPtr(b bool) *bool { return &b }

func pod(name string, uid types.UID, containers ...corev1.Container) corev1.Pod {
	return corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "default", UID: uid},
		Spec:       corev1.PodSpec{Containers: containers},
	}
}

func container(name string, privileged *bool) corev1.Container {
	c := corev1.Container{Name: name, Image: "nginx:1.27"}
	if privileged != nil {
		c.SecurityContext = &corev1.SecurityContext{Privileged: privileged}
	}
	return c
}

func run(t *testing.T, pods ...corev1.Pod) []models.Finding {
	t.Helper()
	c := CoreMinimizePrivilegedContainers{
		Core: core.NewClient(inventory.FromMap(map[string][]corev1.Pod{cluster: pods})),
	}
	findings, err := c.Execute()
	require.NoError(t, err)
	return findings
}

func TestCoreMinimizePrivilegedContainers_Privileged(t *testing.T) {
	findings := run(t, pod("web", "uid-1",
		container("app", boolPtr(false)),
		container("debug", boolPtr(true)),
	))
	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, models.StatusFail, f.Status)
	assert.Equal(t, "Pod web contains privileged container debug.", f.StatusExtended)
	assert.Equal(t, "uid-1", f.ResourceID)
	assert.Equal(t, "web", f.ResourceName)
	assert.Equal(t, "default", f.Location)
	assert.Equal(t, cluster, f.Scope)
}

func TestCoreMinimizePrivilegedContainers_NotPrivileged(t *testing.T) {
	findings := run(t,
		pod("web", "uid-1", container("app", nil)),
		pod("api", "", container("app", boolPtr(false))),
	)
	require.Len(t, findings, 2)
	assert.Equal(t, models.StatusPass, findings[0].Status)
	assert.Equal(t, "Pod web does not contain a privileged container.", findings[0].StatusExtended)
	assert.Equal(t, models.StatusPass, findings[1].Status)
	assert.Equal(t, "default/api", findings[1].ResourceID)
}

func TestCoreMinimizePrivilegedContainers_InitContainer(t *testing.T) {
	p := pod("setup", "uid-2", container("app", nil))
	p.Spec.InitContainers = []corev1.Container{container("sysctl", boolPtr(true))}
	findings := run(t, p)
	require.Len(t, findings, 1)
	assert.Equal(t, "Pod setup contains privileged container sysctl.", findings[0].StatusExtended)
}

func TestCoreMinimizePrivilegedContainers_Empty(t *testing.T) {
	assert.Empty(t, run(t))

	findings, err := CoreMinimizePrivilegedContainers{}.Execute()
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestCoreMinimizePrivilegedContainers_EphemeralContainer(t *testing.T) {
	p := pod("web", "uid-3", container("app", boolPtr(false)))
	p.Spec.EphemeralContainers = []corev1.EphemeralContainer{{
		EphemeralContainerCommon: corev1.EphemeralContainerCommon{
			Name:            "debugger",
			Image:           "busybox:1.36",
			SecurityContext: &corev1.SecurityContext{Privileged: boolPtr(true)},
		},
	}}
	findings := run(t, p)
	require.Len(t, findings, 1)
	assert.Equal(t, models.StatusFail, findings[0].Status)
	assert.Equal(t, "Pod web contains privileged container debugger.", findings[0].StatusExtended)
}

func TestCoreMinimizePrivilegedContainers_Idempotent(t *testing.T) {
	c := CoreMinimizePrivilegedContainers{
		Core: core.NewClient(inventory.FromMap(map[string][]corev1.Pod{cluster: {
			pod("web", "uid-1", container("app", nil)),
			pod("agent", "uid-2", container("agent", boolPtr(true))),
		}})),
	}

	first, err := c.Execute()
	require.NoError(t, err)
	second, err := c.Execute()
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, first, second)
}
