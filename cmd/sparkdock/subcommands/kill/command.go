package kill

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
		"Stop a running application.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_APP_ID, Required: true,
				Help: "Id of the application, as reported by submit",
			},
		},
		common.NewTask(Task()),
		flarc.WithDescription(`
Stop the application by deleting its driver pod.

Resources owned by the driver pod go away with it.
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

		manager := spark.NewAppManager(c)
		if err := manager.Kill(ctx, flags.Namespace, appID); err != nil {
			return err
		}

		logger.Printf("killed: %s", appID)
		return nil
	}
}
