package rm

import (
	"context"
	"log"

	"github.com/youta-t/flarc"

	"github.com/sparkdock/sparkdock/cmd/sparkdock/subcommands/common"
	"github.com/sparkdock/sparkdock/pkg/cluster"
	"github.com/sparkdock/sparkdock/pkg/spark"
)

type Flag struct {
	Force bool `flag:"force" alias:"f" help:"delete the application even if it has not finished"`
}

const ARG_APP_ID = "APP_ID"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Delete all resources of an application.",
		Flag{},
		flarc.Args{
			{
				Name: ARG_APP_ID, Required: true,
				Help: "Id of the application, as reported by submit",
			},
		},
		common.NewTask(Task()),
		flarc.WithDescription(`
Delete the driver pod and the service of the application.

An application that has not finished is protected; pass --force to
delete it anyway.
`),
	)
}

func Task() common.Task[Flag] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		flags common.Flags,
		c cluster.Cluster,
		cl flarc.Commandline[Flag],
		params []any,
	) error {
		appID := cl.Args()[ARG_APP_ID][0]

		manager := spark.NewAppManager(c)
		if err := manager.Delete(ctx, flags.Namespace, appID, cl.Flags().Force); err != nil {
			return err
		}

		logger.Printf("deleted: %s", appID)
		return nil
	}
}
