package spark

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sparkdock/sparkdock/pkg/cluster"
	"github.com/sparkdock/sparkdock/pkg/utils/retry"
)

const defaultPollInterval = 3 * time.Second

// AppWaiter blocks until a submitted application settles.
type AppWaiter struct {
	cluster  cluster.Cluster
	streamer *LogStreamer
	backoff  func() retry.Backoff
	out      io.Writer
}

type AppWaiterOption func(*AppWaiter) *AppWaiter

// WithPollBackoff sets the backoff between status polls.
func WithPollBackoff(b func() retry.Backoff) AppWaiterOption {
	return func(w *AppWaiter) *AppWaiter {
		w.backoff = b
		return w
	}
}

// WithOutput sets where followed logs and the final status line go.
// Default is os.Stdout.
func WithOutput(out io.Writer) AppWaiterOption {
	return func(w *AppWaiter) *AppWaiter {
		w.out = out
		return w
	}
}

// WithStreamer replaces the log streamer used in PrintLogs mode.
func WithStreamer(s *LogStreamer) AppWaiterOption {
	return func(w *AppWaiter) *AppWaiter {
		w.streamer = s
		return w
	}
}

func NewAppWaiter(c cluster.Cluster, options ...AppWaiterOption) *AppWaiter {
	w := &AppWaiter{
		cluster:  c,
		streamer: NewLogStreamer(c),
		backoff: func() retry.Backoff {
			return retry.StaticBackoff(defaultPollInterval)
		},
		out: os.Stdout,
	}
	for _, opt := range options {
		w = opt(w)
	}
	return w
}

// WaitFor waits for the application `appID` as `mode` dictates.
//
// - NoWait: return at once, touching no cluster state.
//
// - Wait: poll the application status until it is terminal.
//
// - PrintLogs: follow the driver log to the output, then report the
// terminal status.
//
// An application whose driver pod vanishes mid-wait terminates the wait
// with StatusNotFound; that is an Observation, not an error.
func (w *AppWaiter) WaitFor(ctx context.Context, namespace string, appID string, mode WaitMode) (Observation, error) {
	switch mode {
	case "", NoWait:
		return Observation{ID: appID, Namespace: namespace, Status: StatusWaiting}, nil

	case PrintLogs:
		if err := w.streamer.Follow(ctx, namespace, appID, w.out); err != nil {
			return Observation{ID: appID, Namespace: namespace, Status: StatusUnknown}, err
		}
		obs, err := Observe(ctx, w.cluster, namespace, appID)
		if err != nil {
			return obs, err
		}
		fmt.Fprintf(w.out, "application %s is %s\n", appID, obs.Status)
		return obs, nil

	case Wait:
		obs, err := retry.Blocking(ctx, w.backoff(), func() (Observation, error) {
			obs, err := Observe(ctx, w.cluster, namespace, appID)
			if err != nil {
				return obs, err
			}
			if !obs.Status.IsTerminal() {
				return obs, retry.ErrRetry
			}
			return obs, nil
		})
		if err != nil {
			return obs, err
		}
		fmt.Fprintf(w.out, "application %s is %s\n", appID, obs.Status)
		return obs, nil

	default:
		return Observation{ID: appID, Namespace: namespace, Status: StatusUnknown},
			NewValidation(fmt.Sprintf("unknown wait mode: %s", mode))
	}
}
