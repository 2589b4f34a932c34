package spark_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	kubecore "k8s.io/api/core/v1"

	"github.com/sparkdock/sparkdock/pkg/cluster"
	"github.com/sparkdock/sparkdock/pkg/cluster/mock"
	"github.com/sparkdock/sparkdock/pkg/spark"
	"github.com/sparkdock/sparkdock/pkg/utils/retry"
)

func fastPoll() retry.Backoff {
	return retry.StaticBackoff(1 * time.Millisecond)
}

func driverPodInPhase(appID string, phase kubecore.PodPhase) kubecore.Pod {
	pod := kubecore.Pod{}
	pod.Name = spark.DriverPodName(appID)
	pod.Labels = map[string]string{
		"spark-app-name": appID,
		"spark-app-id":   appID,
		"spark-role":     "driver",
	}
	pod.Status.Phase = phase
	return pod
}

func TestAppWaiterWaitFor(t *testing.T) {
	ctx := context.Background()

	t.Run("when the mode is NoWait, it returns without touching the cluster", func(t *testing.T) {
		cl, client := mock.NewCluster()
		testee := spark.NewAppWaiter(cl, spark.WithPollBackoff(fastPoll))

		actual, err := testee.WaitFor(ctx, "ns-1", "app-x", spark.NoWait)
		if err != nil {
			t.Fatalf("unexpected error: %+v", err)
		}

		if actual.Status != spark.StatusWaiting {
			t.Errorf("unmatch status: (actual, expected) = (%s, %s)", actual.Status, spark.StatusWaiting)
		}
		if client.Called.FindPods != 0 || client.Called.GetPod != 0 {
			t.Errorf(
				"cluster was touched: (FindPods, GetPod) = (%d, %d)",
				client.Called.FindPods, client.Called.GetPod,
			)
		}
	})

	t.Run("when the mode is Wait, it polls until the application is terminal", func(t *testing.T) {
		cl, client := mock.NewCluster()

		phases := []kubecore.PodPhase{kubecore.PodPending, kubecore.PodRunning, kubecore.PodSucceeded}
		poll := 0
		client.Impl.FindPods = func(context.Context, string, cluster.LabelSelector) ([]kubecore.Pod, error) {
			phase := phases[poll]
			if poll < len(phases)-1 {
				poll += 1
			}
			return []kubecore.Pod{driverPodInPhase("app-x", phase)}, nil
		}

		out := &bytes.Buffer{}
		testee := spark.NewAppWaiter(cl, spark.WithPollBackoff(fastPoll), spark.WithOutput(out))

		actual, err := testee.WaitFor(ctx, "ns-1", "app-x", spark.Wait)
		if err != nil {
			t.Fatalf("unexpected error: %+v", err)
		}

		if actual.Status != spark.StatusSucceeded {
			t.Errorf("unmatch status: (actual, expected) = (%s, %s)", actual.Status, spark.StatusSucceeded)
		}
		if client.Called.FindPods != 3 {
			t.Errorf("unmatch poll count: (actual, expected) = (%d, 3)", client.Called.FindPods)
		}
		if !strings.Contains(out.String(), "app-x is Succeeded") {
			t.Errorf("terminal status is not reported: %s", out.String())
		}
	})

	t.Run("when the driver pod vanishes mid-wait, the wait ends with NotFound", func(t *testing.T) {
		cl, client := mock.NewCluster()

		poll := 0
		client.Impl.FindPods = func(context.Context, string, cluster.LabelSelector) ([]kubecore.Pod, error) {
			poll += 1
			if poll == 1 {
				return []kubecore.Pod{driverPodInPhase("app-x", kubecore.PodRunning)}, nil
			}
			return []kubecore.Pod{}, nil
		}

		testee := spark.NewAppWaiter(
			cl, spark.WithPollBackoff(fastPoll), spark.WithOutput(&bytes.Buffer{}),
		)

		actual, err := testee.WaitFor(ctx, "ns-1", "app-x", spark.Wait)
		if err != nil {
			t.Fatalf("unexpected error: %+v", err)
		}
		if actual.Status != spark.StatusNotFound {
			t.Errorf("unmatch status: (actual, expected) = (%s, %s)", actual.Status, spark.StatusNotFound)
		}
	})

	t.Run("when the context is canceled mid-wait, the wait aborts", func(t *testing.T) {
		cl, client := mock.NewCluster()
		client.Impl.FindPods = func(context.Context, string, cluster.LabelSelector) ([]kubecore.Pod, error) {
			return []kubecore.Pod{driverPodInPhase("app-x", kubecore.PodRunning)}, nil
		}

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		testee := spark.NewAppWaiter(cl, spark.WithPollBackoff(fastPoll))
		if _, err := testee.WaitFor(cctx, "ns-1", "app-x", spark.Wait); err == nil {
			t.Error("expected an error, got nil")
		}
	})
}
