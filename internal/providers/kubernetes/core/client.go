// Package core is the Kubernetes core/v1 service client. Records are the
// upstream corev1 types, keyed by cluster name.
package core

import (
	corev1 "k8s.io/api/core/v1"

	"github.com/pankaj-dahiya-devops/posture/internal/inventory"
)

// Client exposes the pods collected per cluster.
type Client struct {
	Pods inventory.Source[corev1.Pod]
}

// NewClient returns a Client reading from pods.
func NewClient(pods inventory.Source[corev1.Pod]) *Client {
	return &Client{Pods: pods}
}

// PodSource returns the pod source; never nil.
func (c *Client) PodSource() inventory.Source[corev1.Pod] {
	if c == nil {
		return inventory.Empty[corev1.Pod]{}
	}
	return inventory.OrEmpty(c.Pods)
}
