package status_test

import (
	"bytes"
	"context"
	"log"
	"testing"

	kubecore "k8s.io/api/core/v1"

	"github.com/sparkdock/sparkdock/cmd/sparkdock/subcommands/common"
	"github.com/sparkdock/sparkdock/cmd/sparkdock/subcommands/internal/commandline"
	"github.com/sparkdock/sparkdock/cmd/sparkdock/subcommands/status"
	"github.com/sparkdock/sparkdock/pkg/cluster"
	"github.com/sparkdock/sparkdock/pkg/cluster/mock"
)

func TestStatusTask(t *testing.T) {
	ctx := context.Background()

	t.Run("when the application runs, it prints Running", func(t *testing.T) {
		cl, client := mock.NewCluster()
		client.Impl.FindPods = func(_ context.Context, namespace string, _ cluster.LabelSelector) ([]kubecore.Pod, error) {
			if namespace != "team-a" {
				t.Errorf("unmatch namespace: (actual, expected) = (%s, team-a)", namespace)
			}
			pod := kubecore.Pod{}
			pod.Labels = map[string]string{"spark-app-id": "app-x", "spark-role": "driver"}
			pod.Status.Phase = kubecore.PodRunning
			return []kubecore.Pod{pod}, nil
		}

		stdout := &bytes.Buffer{}
		cmdline := commandline.MockCommandline[struct{}]{
			Fullname_: "sparkdock status",
			Stdout_:   stdout,
			Stderr_:   &bytes.Buffer{},
			Args_:     map[string][]string{status.ARG_APP_ID: {"app-x"}},
		}

		testee := status.Task()
		err := testee(
			ctx, log.New(stdout, "", log.LstdFlags),
			common.Flags{Namespace: "team-a"}, cl, cmdline, nil,
		)
		if err != nil {
			t.Fatalf("unexpected error: %+v", err)
		}

		if actual := stdout.String(); actual != "Running\n" {
			t.Errorf("unmatch output: (actual, expected) = (%q, %q)", actual, "Running\n")
		}
	})

	t.Run("when the application does not exist, it prints NotFound", func(t *testing.T) {
		cl, client := mock.NewCluster()
		client.Impl.FindPods = func(context.Context, string, cluster.LabelSelector) ([]kubecore.Pod, error) {
			return []kubecore.Pod{}, nil
		}

		stdout := &bytes.Buffer{}
		cmdline := commandline.MockCommandline[struct{}]{
			Fullname_: "sparkdock status",
			Stdout_:   stdout,
			Stderr_:   &bytes.Buffer{},
			Args_:     map[string][]string{status.ARG_APP_ID: {"app-x"}},
		}

		testee := status.Task()
		err := testee(
			ctx, log.New(stdout, "", log.LstdFlags),
			common.Flags{Namespace: "team-a"}, cl, cmdline, nil,
		)
		if err != nil {
			t.Fatalf("unexpected error: %+v", err)
		}

		if actual := stdout.String(); actual != "NotFound\n" {
			t.Errorf("unmatch output: (actual, expected) = (%q, %q)", actual, "NotFound\n")
		}
	})
}
