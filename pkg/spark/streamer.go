package spark

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sparkdock/sparkdock/pkg/cluster"
	"github.com/sparkdock/sparkdock/pkg/utils/retry"
)

const defaultStreamBackoffInterval = 1 * time.Second

// LogStreamer reads the log of a driver container.
type LogStreamer struct {
	cluster cluster.Cluster
	backoff func() retry.Backoff
}

type LogStreamerOption func(*LogStreamer) *LogStreamer

// WithStreamBackoff sets the backoff used while waiting for the driver
// container to start.
func WithStreamBackoff(b func() retry.Backoff) LogStreamerOption {
	return func(s *LogStreamer) *LogStreamer {
		s.backoff = b
		return s
	}
}

func NewLogStreamer(c cluster.Cluster, options ...LogStreamerOption) *LogStreamer {
	s := &LogStreamer{
		cluster: c,
		backoff: func() retry.Backoff {
			return retry.StaticBackoff(defaultStreamBackoffInterval)
		},
	}
	for _, opt := range options {
		s = opt(s)
	}
	return s
}

// Stream opens the log of the driver of application `appID`.
//
// It blocks until the driver container has started (or already
// finished); a driver stuck in Pending yields no stream, only waiting.
// Lines come in the order the driver wrote them.
//
// Returns cluster.ErrMissing when no driver pod exists.
func (s *LogStreamer) Stream(ctx context.Context, namespace string, appID string) (io.ReadCloser, error) {
	promise := s.cluster.GetPod(
		ctx, s.backoff(), namespace, DriverPodName(appID),
		cluster.PodHasBeenRunning,
	)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-promise:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Value.Log(ctx, driverContainerName)
	}
}

// Follow copies the driver log of application `appID` to w, line by line,
// until the stream ends.
//
// When the stream drops while the application has not reached a terminal
// status, Follow returns ErrStreamInterrupted. It does not reconnect;
// re-requesting the log is the caller's call.
func (s *LogStreamer) Follow(ctx context.Context, namespace string, appID string, w io.Writer) error {
	stream, err := s.Stream(ctx, namespace, appID)
	if err != nil {
		return err
	}
	defer stream.Close()

	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if _, err := fmt.Fprintln(w, scanner.Text()); err != nil {
			return err
		}
	}

	if serr := scanner.Err(); serr != nil {
		obs, oerr := Observe(ctx, s.cluster, namespace, appID)
		if oerr == nil && !obs.Status.IsTerminal() {
			return NewStreamInterruptedCausedBy(
				fmt.Sprintf("log stream of application %s dropped while it is %s", appID, obs.Status),
				serr,
			)
		}
		return serr
	}
	return nil
}
