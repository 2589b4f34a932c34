package status

import (
	"context"
	"fmt"
	"log"

	"github.com/youta-t/flarc"

	"github.com/sparkdock/sparkdock/cmd/sparkdock/subcommands/common"
	"github.com/sparkdock/sparkdock/pkg/cluster"
	"github.com/sparkdock/sparkdock/pkg/spark"
)

const ARG_APP_ID = "APP_ID"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Show the status of an application.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_APP_ID, Required: true,
				Help: "Id of the application, as reported by submit",
			},
		},
		common.NewTask(Task()),
		flarc.WithDescription(`
Show the status of the application.

One of: Waiting, Running, Succeeded, Failed, Unknown or NotFound.
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
		obs, err := manager.Status(ctx, flags.Namespace, appID)
		if err != nil {
			return err
		}

		fmt.Fprintln(cl.Stdout(), obs.Status)
		return nil
	}
}
