package wait

import (
	"context"
	"log"

	"github.com/youta-t/flarc"

	"github.com/sparkdock/sparkdock/cmd/sparkdock/subcommands/common"
	"github.com/sparkdock/sparkdock/pkg/cluster"
	"github.com/sparkdock/sparkdock/pkg/spark"
)

const ARG_APP_ID = "APP_ID"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Wait for an application to finish.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_APP_ID, Required: true,
				Help: "Id of the application, as reported by submit",
			},
		},
		common.NewTask(Task()),
		flarc.WithDescription(`
Block until the application reaches a terminal status, and report it.

An application whose driver pod has gone is reported as NotFound.
`),
	)
}

func Task() common.Task[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		flags common.Flags,
		c cluster.Cluster,
		cl flarc.Commandline[struct{}],
		params []any,
	) error {
		appID := cl.Args()[ARG_APP_ID][0]

		waiter := spark.NewAppWaiter(c, spark.WithOutput(cl.Stdout()))
		manager := spark.NewAppManager(c, spark.WithManagerWaiter(waiter))
		_, err := manager.Wait(ctx, flags.Namespace, appID)
		return err
	}
}
