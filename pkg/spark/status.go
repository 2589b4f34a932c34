package spark

import (
	"context"

	kubecore "k8s.io/api/core/v1"

	"github.com/sparkdock/sparkdock/pkg/cluster"
)

// AppStatus is the lifecycle status of a submitted application,
// projected from the phase of its driver pod.
type AppStatus string

const (
	// the driver pod exists but has not started.
	StatusWaiting AppStatus = "Waiting"

	StatusRunning   AppStatus = "Running"
	StatusSucceeded AppStatus = "Succeeded"
	StatusFailed    AppStatus = "Failed"

	// the driver pod is in a phase this package does not recognize.
	//
	// Unknown is NOT terminal; the pod may still settle into a known phase.
	StatusUnknown AppStatus = "Unknown"

	// no driver pod exists for the application.
	StatusNotFound AppStatus = "NotFound"
)

func (s AppStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status can no longer change.
func (s AppStatus) IsTerminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusNotFound:
		return true
	default:
		return false
	}
}

// StatusOf projects a driver pod phase onto AppStatus.
//
// Pure and idempotent. The same phase always maps to the same status.
func StatusOf(phase kubecore.PodPhase) AppStatus {
	switch phase {
	case kubecore.PodPending:
		return StatusWaiting
	case kubecore.PodRunning:
		return StatusRunning
	case kubecore.PodSucceeded:
		return StatusSucceeded
	case kubecore.PodFailed:
		return StatusFailed
	default:
		return StatusUnknown
	}
}

// Observation is a point-in-time view of one application.
type Observation struct {
	ID        string
	Namespace string
	Status    AppStatus
}

// Observe takes an Observation of the application `appID`.
//
// The driver pod is resolved by labels, not by name, so applications
// submitted by older releases are found too. A missing driver pod is a
// valid Observation (StatusNotFound), not an error.
func Observe(ctx context.Context, c cluster.Cluster, namespace string, appID string) (Observation, error) {
	obs := Observation{ID: appID, Namespace: namespace}

	pods, err := c.FindPods(ctx, namespace, DriverSelector(appID))
	if err != nil {
		return obs, err
	}
	if len(pods) == 0 {
		obs.Status = StatusNotFound
		return obs, nil
	}

	obs.Status = StatusOf(pods[0].Status.Phase)
	return obs, nil
}
