package common

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/youta-t/flarc"

	"github.com/sparkdock/sparkdock/pkg/cluster"
	"github.com/sparkdock/sparkdock/pkg/kubeutil"
)

// Flags shared by all subcommands.
type Flags struct {
	Kubeconfig string `flag:"kubeconfig" help:"path to kubeconfig file. default: inherit environment"`
	Namespace  string `flag:"namespace" alias:"n" help:"kubernetes namespace holding the applications"`
}

func DefaultFlags() Flags {
	return Flags{Namespace: "default"}
}

// Task is a subcommand body, given a connected cluster.
type Task[T any] func(
	ctx context.Context,
	logger *log.Logger,
	flags Flags,
	c cluster.Cluster,
	cl flarc.Commandline[T],
	params []any,
) error

// Connector builds a Cluster from common flags.
type Connector func(Flags) (cluster.Cluster, error)

func ConnectWithKubeconfig(flags Flags) (cluster.Cluster, error) {
	clientset, err := kubeutil.ConnectToK8s(kubeutil.FindKubeconfig(flags.Kubeconfig))
	if err != nil {
		return nil, fmt.Errorf("%w: can not connect to kubernetes", err)
	}
	return cluster.AttachCluster(cluster.WrapK8sClient(clientset), ""), nil
}

// NewTask adapts a Task into a flarc task, connecting to the cluster
// named by the common flags.
func NewTask[T any](task Task[T]) flarc.Task[T] {
	return NewTaskWithConnector(task, ConnectWithKubeconfig)
}

func NewTaskWithConnector[T any](task Task[T], connect Connector) flarc.Task[T] {
	return func(ctx context.Context, cl flarc.Commandline[T], pos []any) error {
		var flags Flags
		found := false
		newpos := make([]any, 0, len(pos))
		for _, p := range pos {
			switch v := p.(type) {
			case Flags:
				flags = v
				found = true
			default:
				newpos = append(newpos, p)
			}
		}
		if !found {
			return errors.New("programming error: common flags not found")
		}

		logger := log.New(cl.Stderr(), "", log.LstdFlags)
		logger.SetPrefix(fmt.Sprintf("[%s] ", cl.Fullname()))

		c, err := connect(flags)
		if err != nil {
			return err
		}

		return task(ctx, logger, flags, c, cl, newpos)
	}
}
