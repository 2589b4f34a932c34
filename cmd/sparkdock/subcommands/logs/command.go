package logs

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
		"Follow the driver log of an application.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_APP_ID, Required: true,
				Help: "Id of the application, as reported by submit",
			},
		},
		common.NewTask(Task()),
		flarc.WithDescription(`
Follow the driver log of the application to stdout.

It blocks until the driver container starts, then prints lines in the
order the driver wrote them, until the log ends.
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
		return manager.FollowLogs(ctx, flags.Namespace, appID, cl.Stdout())
	}
}
