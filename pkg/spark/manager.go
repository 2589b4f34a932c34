package spark

import (
	"context"
	"fmt"
	"io"

	"github.com/sparkdock/sparkdock/pkg/cluster"
)

// AppSummary is one row of a listing.
type AppSummary struct {
	ID      string
	Status  AppStatus
	UIProxy bool
}

// AppManager drives the lifecycle of already-submitted applications.
type AppManager struct {
	cluster  cluster.Cluster
	streamer *LogStreamer
	waiter   *AppWaiter
}

type AppManagerOption func(*AppManager) *AppManager

// WithManagerStreamer replaces the log streamer.
func WithManagerStreamer(s *LogStreamer) AppManagerOption {
	return func(m *AppManager) *AppManager {
		m.streamer = s
		return m
	}
}

// WithManagerWaiter replaces the waiter used by Wait.
func WithManagerWaiter(w *AppWaiter) AppManagerOption {
	return func(m *AppManager) *AppManager {
		m.waiter = w
		return m
	}
}

func NewAppManager(c cluster.Cluster, options ...AppManagerOption) *AppManager {
	m := &AppManager{
		cluster:  c,
		streamer: NewLogStreamer(c),
		waiter:   NewAppWaiter(c),
	}
	for _, opt := range options {
		m = opt(m)
	}
	return m
}

// Status observes the application `appID`.
//
// A missing application is StatusNotFound, not an error.
func (m *AppManager) Status(ctx context.Context, namespace string, appID string) (Observation, error) {
	return Observe(ctx, m.cluster, namespace, appID)
}

// Logs opens the driver log of the application `appID`.
//
// Returns cluster.ErrMissing when no driver pod exists.
func (m *AppManager) Logs(ctx context.Context, namespace string, appID string) (io.ReadCloser, error) {
	return m.streamer.Stream(ctx, namespace, appID)
}

// FollowLogs copies the driver log of the application `appID` to w until
// the stream ends.
func (m *AppManager) FollowLogs(ctx context.Context, namespace string, appID string, w io.Writer) error {
	return m.streamer.Follow(ctx, namespace, appID, w)
}

// Wait blocks until the application `appID` reaches a terminal status.
func (m *AppManager) Wait(ctx context.Context, namespace string, appID string) (Observation, error) {
	return m.waiter.WaitFor(ctx, namespace, appID, Wait)
}

// Kill stops the application `appID` by deleting its driver pod.
//
// The headless service is left behind; it is owned by the driver pod, so
// the cluster collects it once the pod is gone.
//
// Returns cluster.ErrMissing when no driver pod exists.
func (m *AppManager) Kill(ctx context.Context, namespace string, appID string) error {
	pods, err := m.cluster.FindPods(ctx, namespace, DriverSelector(appID))
	if err != nil {
		return err
	}
	if len(pods) == 0 {
		return cluster.NewMissing(fmt.Sprintf(
			"no driver pod of application %s in namespace %s", appID, namespace,
		))
	}

	for _, p := range pods {
		if err := m.cluster.DeletePod(ctx, namespace, p.Name); err != nil {
			if cluster.AsMissingError(err) {
				continue // someone else was faster. fine.
			}
			return err
		}
	}
	return nil
}

// Delete removes all resources of the application `appID`.
//
// A non-terminal application is protected: without force, Delete refuses
// with ErrPrecondition. Returns cluster.ErrMissing when the application
// does not exist at all.
func (m *AppManager) Delete(ctx context.Context, namespace string, appID string, force bool) error {
	pods, err := m.cluster.FindPods(ctx, namespace, DriverSelector(appID))
	if err != nil {
		return err
	}
	if len(pods) == 0 {
		return cluster.NewMissing(fmt.Sprintf(
			"no application %s in namespace %s", appID, namespace,
		))
	}

	status := StatusOf(pods[0].Status.Phase)
	if !force && !status.IsTerminal() {
		return NewPrecondition(fmt.Sprintf(
			"application %s is %s; use force to delete it anyway", appID, status,
		))
	}

	for _, p := range pods {
		if err := m.cluster.DeletePod(ctx, namespace, p.Name); err != nil {
			if !cluster.AsMissingError(err) {
				return err
			}
		}
	}
	if err := m.cluster.DeleteService(ctx, namespace, appID); err != nil {
		// the owner reference may have collected the service already.
		if !cluster.AsMissingError(err) {
			return err
		}
	}
	return nil
}

// List observes all applications in the namespace.
func (m *AppManager) List(ctx context.Context, namespace string) ([]AppSummary, error) {
	pods, err := m.cluster.FindPods(ctx, namespace, DriversSelector())
	if err != nil {
		return nil, err
	}

	summaries := make([]AppSummary, 0, len(pods))
	for _, p := range pods {
		labels := p.GetLabels()
		id := labels[LabelAppID]
		if id == "" {
			continue // not one of ours
		}
		summaries = append(summaries, AppSummary{
			ID:      id,
			Status:  StatusOf(p.Status.Phase),
			UIProxy: labels[LabelUIProxy] == "true",
		})
	}
	return summaries, nil
}
