// Package checkpacks assembles every provider check pack into one registry.
package checkpacks

import (
	"github.com/pankaj-dahiya-devops/posture/internal/check"
	"github.com/pankaj-dahiya-devops/posture/internal/checkpacks/aws"
	"github.com/pankaj-dahiya-devops/posture/internal/checkpacks/azure"
	"github.com/pankaj-dahiya-devops/posture/internal/checkpacks/kubernetes"
	"github.com/pankaj-dahiya-devops/posture/internal/snapshot"
)

// All returns a registry holding every known check, wired to the clients in
// set. Checks for providers missing from set are still registered; they see
// no resources and report nothing. A nil set is valid and is how the CLI
// lists checks without loading a snapshot.
func All(set *snapshot.Set) *check.Registry {
	if set == nil {
		set = &snapshot.Set{}
	}
	reg := check.NewRegistry()
	reg.RegisterAll(azure.New(set.Azure)...)
	reg.RegisterAll(aws.New(set.IAM)...)
	reg.RegisterAll(kubernetes.New(set.Core)...)
	return reg
}
