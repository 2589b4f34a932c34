package spark

import (
	"context"
	"time"

	"github.com/sparkdock/sparkdock/pkg/cluster"
	"github.com/sparkdock/sparkdock/pkg/utils/retry"
)

const defaultSubmitBackoffInterval = 500 * time.Millisecond

// SubmissionClient submits new applications to the cluster.
type SubmissionClient struct {
	cluster cluster.Cluster
	waiter  *AppWaiter
	backoff func() retry.Backoff
}

type SubmissionClientOption func(*SubmissionClient) *SubmissionClient

// WithSubmitBackoff sets the backoff used while waiting for created
// resources to be acknowledged.
func WithSubmitBackoff(b func() retry.Backoff) SubmissionClientOption {
	return func(s *SubmissionClient) *SubmissionClient {
		s.backoff = b
		return s
	}
}

// WithWaiter replaces the waiter handling the post-submit wait modes.
func WithWaiter(w *AppWaiter) SubmissionClientOption {
	return func(s *SubmissionClient) *SubmissionClient {
		s.waiter = w
		return s
	}
}

func NewSubmissionClient(c cluster.Cluster, options ...SubmissionClientOption) *SubmissionClient {
	s := &SubmissionClient{
		cluster: c,
		waiter:  NewAppWaiter(c),
		backoff: func() retry.Backoff {
			return retry.StaticBackoff(defaultSubmitBackoffInterval)
		},
	}
	for _, opt := range options {
		s = opt(s)
	}
	return s
}

// Submit runs one application on the cluster.
//
// The driver pod is created first; the headless service, when needed,
// is created after and owned by the pod. Then Submit waits (or not) as
// opts.Mode dictates.
//
// The returned Identity is valid as soon as the driver pod exists, also
// when a later step fails; callers can Kill or Delete with it.
//
// # Errors
//
// - ErrValidation: opts do not describe a submittable application.
//
// - cluster.ErrConflict: an application with the same ID is already
// there. Nothing has been created; retrying with a fresh suffix is safe.
func (s *SubmissionClient) Submit(ctx context.Context, opts SubmissionOptions) (Identity, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return Identity{}, err
	}

	id := ResolveIdentity(opts.AppName, opts.Suffix)
	manifest := BuildManifest(opts, id)

	var driver cluster.Pod
	select {
	case <-ctx.Done():
		return id, ctx.Err()
	case res := <-s.cluster.NewPod(ctx, s.backoff(), opts.Namespace, manifest.Pod):
		if res.Err != nil {
			return id, res.Err
		}
		driver = res.Value
	}

	if manifest.Service != nil {
		OwnService(manifest.Service, id.ID, driver.UID())
		select {
		case <-ctx.Done():
			return id, ctx.Err()
		case res := <-s.cluster.NewService(ctx, s.backoff(), opts.Namespace, manifest.Service):
			if res.Err != nil {
				return id, res.Err
			}
		}
	}

	if _, err := s.waiter.WaitFor(ctx, opts.Namespace, id.ID, opts.Mode); err != nil {
		return id, err
	}
	return id, nil
}
