package spark_test

import (
	"context"
	"testing"

	kubecore "k8s.io/api/core/v1"

	"github.com/sparkdock/sparkdock/pkg/cluster"
	"github.com/sparkdock/sparkdock/pkg/cluster/mock"
	"github.com/sparkdock/sparkdock/pkg/spark"
)

func TestAppManagerKill(t *testing.T) {
	ctx := context.Background()

	t.Run("when the driver pod exists, it is deleted", func(t *testing.T) {
		cl, client := mock.NewCluster()
		client.Impl.FindPods = func(context.Context, string, cluster.LabelSelector) ([]kubecore.Pod, error) {
			return []kubecore.Pod{driverPodInPhase("app-x", kubecore.PodRunning)}, nil
		}
		deleted := []string{}
		client.Impl.DeletePod = func(_ context.Context, namespace string, name string) error {
			if namespace != "ns-1" {
				t.Errorf("unmatch namespace: (actual, expected) = (%s, ns-1)", namespace)
			}
			deleted = append(deleted, name)
			return nil
		}

		testee := spark.NewAppManager(cl)
		if err := testee.Kill(ctx, "ns-1", "app-x"); err != nil {
			t.Fatalf("unexpected error: %+v", err)
		}

		if len(deleted) != 1 || deleted[0] != "app-x-driver" {
			t.Errorf("unmatch deleted pods: (actual, expected) = (%v, [app-x-driver])", deleted)
		}
		if client.Called.DeleteService != 0 {
			t.Errorf("kill should leave the service alone: DeleteService called %d times", client.Called.DeleteService)
		}
	})

	t.Run("when no driver pod exists, it reports missing without deleting", func(t *testing.T) {
		cl, client := mock.NewCluster()
		client.Impl.FindPods = func(context.Context, string, cluster.LabelSelector) ([]kubecore.Pod, error) {
			return []kubecore.Pod{}, nil
		}

		testee := spark.NewAppManager(cl)
		err := testee.Kill(ctx, "ns-1", "app-x")
		if err == nil {
			t.Fatal("expected an error, got nil")
		}
		if !cluster.AsMissingError(err) {
			t.Errorf("not a missing error: %+v", err)
		}
		if client.Called.DeletePod != 0 {
			t.Errorf("unmatch DeletePod calls: (actual, expected) = (%d, 0)", client.Called.DeletePod)
		}
	})
}

func TestAppManagerDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("when the application is running and force is off, it refuses", func(t *testing.T) {
		cl, client := mock.NewCluster()
		client.Impl.FindPods = func(context.Context, string, cluster.LabelSelector) ([]kubecore.Pod, error) {
			return []kubecore.Pod{driverPodInPhase("app-x", kubecore.PodRunning)}, nil
		}

		testee := spark.NewAppManager(cl)
		err := testee.Delete(ctx, "ns-1", "app-x", false)
		if err == nil {
			t.Fatal("expected an error, got nil")
		}
		if !spark.AsPreconditionError(err) {
			t.Errorf("not a precondition error: %+v", err)
		}
		if client.Called.DeletePod != 0 || client.Called.DeleteService != 0 {
			t.Errorf(
				"deletions happened despite refusal: (DeletePod, DeleteService) = (%d, %d)",
				client.Called.DeletePod, client.Called.DeleteService,
			)
		}
	})

	t.Run("when the application is running and force is on, pod and service go away", func(t *testing.T) {
		cl, client := mock.NewCluster()
		client.Impl.FindPods = func(context.Context, string, cluster.LabelSelector) ([]kubecore.Pod, error) {
			return []kubecore.Pod{driverPodInPhase("app-x", kubecore.PodRunning)}, nil
		}
		client.Impl.DeletePod = func(_ context.Context, _ string, name string) error {
			if name != "app-x-driver" {
				t.Errorf("unmatch pod name: (actual, expected) = (%s, app-x-driver)", name)
			}
			return nil
		}
		client.Impl.DeleteService = func(_ context.Context, _ string, name string) error {
			if name != "app-x" {
				t.Errorf("unmatch service name: (actual, expected) = (%s, app-x)", name)
			}
			return nil
		}

		testee := spark.NewAppManager(cl)
		if err := testee.Delete(ctx, "ns-1", "app-x", true); err != nil {
			t.Fatalf("unexpected error: %+v", err)
		}
		if client.Called.DeletePod != 1 || client.Called.DeleteService != 1 {
			t.Errorf(
				"unmatch deletions: (DeletePod, DeleteService) = (%d, %d), expected (1, 1)",
				client.Called.DeletePod, client.Called.DeleteService,
			)
		}
	})

	t.Run("when the application has finished, force is not needed", func(t *testing.T) {
		cl, client := mock.NewCluster()
		client.Impl.FindPods = func(context.Context, string, cluster.LabelSelector) ([]kubecore.Pod, error) {
			return []kubecore.Pod{driverPodInPhase("app-x", kubecore.PodSucceeded)}, nil
		}
		client.Impl.DeletePod = func(context.Context, string, string) error { return nil }
		// the owner reference may have collected the service already.
		client.Impl.DeleteService = func(context.Context, string, string) error {
			return cluster.NewMissing("fake: already gone")
		}

		testee := spark.NewAppManager(cl)
		if err := testee.Delete(ctx, "ns-1", "app-x", false); err != nil {
			t.Fatalf("unexpected error: %+v", err)
		}
	})

	t.Run("when the driver pod carries an unexpected name, the found pod goes away", func(t *testing.T) {
		cl, client := mock.NewCluster()
		client.Impl.FindPods = func(context.Context, string, cluster.LabelSelector) ([]kubecore.Pod, error) {
			pod := driverPodInPhase("app-x", kubecore.PodSucceeded)
			pod.Name = "app-x-drv-0"
			return []kubecore.Pod{pod}, nil
		}
		deleted := []string{}
		client.Impl.DeletePod = func(_ context.Context, _ string, name string) error {
			deleted = append(deleted, name)
			return nil
		}
		client.Impl.DeleteService = func(context.Context, string, string) error { return nil }

		testee := spark.NewAppManager(cl)
		if err := testee.Delete(ctx, "ns-1", "app-x", false); err != nil {
			t.Fatalf("unexpected error: %+v", err)
		}

		if len(deleted) != 1 || deleted[0] != "app-x-drv-0" {
			t.Errorf("unmatch deleted pods: (actual, expected) = (%v, [app-x-drv-0])", deleted)
		}
		if client.Called.DeleteService != 1 {
			t.Errorf("unmatch DeleteService calls: (actual, expected) = (%d, 1)", client.Called.DeleteService)
		}
	})

	t.Run("when the application does not exist, it reports missing", func(t *testing.T) {
		cl, client := mock.NewCluster()
		client.Impl.FindPods = func(context.Context, string, cluster.LabelSelector) ([]kubecore.Pod, error) {
			return []kubecore.Pod{}, nil
		}

		testee := spark.NewAppManager(cl)
		err := testee.Delete(ctx, "ns-1", "app-x", false)
		if !cluster.AsMissingError(err) {
			t.Errorf("not a missing error: %+v", err)
		}
		if client.Called.DeletePod != 0 {
			t.Errorf("unmatch DeletePod calls: (actual, expected) = (%d, 0)", client.Called.DeletePod)
		}
	})
}

func TestAppManagerList(t *testing.T) {
	ctx := context.Background()

	t.Run("it lists one summary per driver pod, with the UI proxy mark", func(t *testing.T) {
		cl, client := mock.NewCluster()
		client.Impl.FindPods = func(_ context.Context, namespace string, _ cluster.LabelSelector) ([]kubecore.Pod, error) {
			if namespace != "ns-1" {
				t.Errorf("unmatch namespace: (actual, expected) = (%s, ns-1)", namespace)
			}

			running := driverPodInPhase("app-a", kubecore.PodRunning)
			running.Labels["spark-ui-proxy"] = "true"

			done := driverPodInPhase("app-b", kubecore.PodSucceeded)

			unrelated := kubecore.Pod{} // driver-labeled but foreign, without app id
			unrelated.Labels = map[string]string{"spark-role": "driver"}

			return []kubecore.Pod{running, done, unrelated}, nil
		}

		testee := spark.NewAppManager(cl)
		actual, err := testee.List(ctx, "ns-1")
		if err != nil {
			t.Fatalf("unexpected error: %+v", err)
		}

		expected := []spark.AppSummary{
			{ID: "app-a", Status: spark.StatusRunning, UIProxy: true},
			{ID: "app-b", Status: spark.StatusSucceeded, UIProxy: false},
		}
		if len(actual) != len(expected) {
			t.Fatalf("unmatch length: (actual, expected) = (%d, %d)", len(actual), len(expected))
		}
		for i := range expected {
			if actual[i] != expected[i] {
				t.Errorf("unmatch [%d]: (actual, expected) = (%+v, %+v)", i, actual[i], expected[i])
			}
		}
	})
}
