package list

import (
	"context"
	"encoding/json"
	"log"

	"github.com/youta-t/flarc"

	"github.com/sparkdock/sparkdock/cmd/sparkdock/subcommands/common"
	apiapps "github.com/sparkdock/sparkdock/pkg/api/apps"
	"github.com/sparkdock/sparkdock/pkg/cluster"
	"github.com/sparkdock/sparkdock/pkg/spark"
)

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"List applications in the namespace.",
		struct{}{},
		flarc.Args{},
		common.NewTask(Task()),
		flarc.WithDescription(`
List all applications in the namespace, as JSON.
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
		manager := spark.NewAppManager(c)
		summaries, err := manager.List(ctx, flags.Namespace)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		return enc.Encode(apiapps.ComposeSummaries(summaries))
	}
}
