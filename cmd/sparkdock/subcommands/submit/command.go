package submit

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/youta-t/flarc"

	"github.com/sparkdock/sparkdock/cmd/sparkdock/subcommands/common"
	"github.com/sparkdock/sparkdock/pkg/cluster"
	"github.com/sparkdock/sparkdock/pkg/spark"
)

type Flag struct {
	Image          string   `flag:"image" help:"container image running driver and executors. Required."`
	Name           string   `flag:"name" help:"application name. default: a generic one"`
	Class          string   `flag:"class" help:"entry class, for JVM applications"`
	ServiceAccount string   `flag:"service-account" help:"service account of the driver pod. default: spark"`
	Conf           []string `flag:"conf" alias:"c" help:"spark configuration override in the form key=value. Repeatable."`

	DriverCPU            int   `flag:"driver-cpu" help:"cpu cores of the driver"`
	DriverMemory         int64 `flag:"driver-memory" help:"heap memory of the driver, in MiB"`
	DriverMemoryOverhead int64 `flag:"driver-memory-overhead" help:"off-heap memory of the driver, in MiB. default: max(384, a tenth of the heap)"`

	ExecutorCPU            int   `flag:"executor-cpu" help:"cpu cores per executor"`
	ExecutorMemory         int64 `flag:"executor-memory" help:"heap memory per executor, in MiB"`
	ExecutorMemoryOverhead int64 `flag:"executor-memory-overhead" help:"off-heap memory per executor, in MiB"`

	ExecutorsMin     int `flag:"executors-min" help:"lower bound of dynamic executor allocation"`
	ExecutorsMax     int `flag:"executors-max" help:"upper bound of dynamic executor allocation. Passing this enables dynamic allocation."`
	ExecutorsInitial int `flag:"executors-initial" help:"executors requested at start. default: same as --executors-min"`

	PullPolicy string `flag:"pull-policy" help:"image pull policy. Always|Never|IfNotPresent. default: IfNotPresent"`
	UIProxy    bool   `flag:"ui-reverse-proxy" help:"expose the Spark UI via the reverse proxy"`

	Wait bool `flag:"wait" help:"block until the application reaches a terminal status"`
	Logs bool `flag:"logs" help:"follow the driver log to stdout, then report the terminal status"`
}

const (
	ARG_APP_PATH = "APP_PATH"
	ARG_APP_ARGS = "ARGS"
)

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Submit a Spark application to the cluster.",
		Flag{
			ServiceAccount: "spark",
			PullPolicy:     string(spark.PullIfNotPresent),
		},
		flarc.Args{
			{
				Name: ARG_APP_PATH, Required: true,
				Help: "path of the application entrypoint inside the image, like local:///opt/spark/examples/jars/spark-examples.jar",
			},
			{
				Name: ARG_APP_ARGS, Repeatable: true,
				Help: "arguments passed to the application",
			},
		},
		common.NewTask(Task()),
		flarc.WithDescription(`
Submit a Spark application and, optionally, wait for it.

The application gets an ID derived from --name (sanitized for kubernetes,
suffixed with a timestamp). All resources of the application carry that ID,
and other subcommands address the application with it.

For example,

    {{ .Command }} --image spark:3.5.0 --name pi --class org.apache.spark.examples.SparkPi local:///opt/spark/examples/jars/spark-examples.jar 1000

Passing --executors-max enables dynamic executor allocation and gives the
driver a stable address (a headless service named as the application ID).

By default {{ .Command }} returns as soon as the driver pod is accepted.
Pass --wait to block until the application finishes, or --logs to also
follow the driver log.
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
		f := cl.Flags()
		args := cl.Args()

		conf := make([]spark.Conf, 0, len(f.Conf))
		for _, kv := range f.Conf {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				return fmt.Errorf("%w: --conf should be formatted as key=value: %s", flarc.ErrUsage, kv)
			}
			conf = append(conf, spark.Conf{Key: strings.TrimSpace(k), Value: strings.TrimSpace(v)})
		}

		if f.Wait && f.Logs {
			return fmt.Errorf("%w: --wait and --logs can not be passed at once", flarc.ErrUsage)
		}
		mode := spark.NoWait
		if f.Wait {
			mode = spark.Wait
		}
		if f.Logs {
			mode = spark.PrintLogs
		}

		var scale *spark.ExecutorScale
		if 0 < f.ExecutorsMax {
			initial := f.ExecutorsInitial
			if initial == 0 {
				initial = f.ExecutorsMin
			}
			scale = &spark.ExecutorScale{
				Min:     int32(f.ExecutorsMin),
				Max:     int32(f.ExecutorsMax),
				Initial: int32(initial),
			}
		}

		opts := spark.SubmissionOptions{
			Image:          f.Image,
			AppPath:        args[ARG_APP_PATH][0],
			AppArgs:        args[ARG_APP_ARGS],
			Class:          f.Class,
			Namespace:      flags.Namespace,
			ServiceAccount: f.ServiceAccount,
			AppName:        f.Name,
			Conf:           conf,
			Driver: spark.Resources{
				CPU:               f.DriverCPU,
				MemoryMiB:         f.DriverMemory,
				MemoryOverheadMiB: f.DriverMemoryOverhead,
			},
			Executor: spark.Resources{
				CPU:               f.ExecutorCPU,
				MemoryMiB:         f.ExecutorMemory,
				MemoryOverheadMiB: f.ExecutorMemoryOverhead,
			},
			Scale:          scale,
			PullPolicy:     spark.PullPolicy(f.PullPolicy),
			UIReverseProxy: f.UIProxy,
			Mode:           mode,
		}

		client := spark.NewSubmissionClient(
			c,
			spark.WithWaiter(spark.NewAppWaiter(c, spark.WithOutput(cl.Stdout()))),
		)

		id, err := client.Submit(ctx, opts)
		if err != nil {
			if spark.AsValidationError(err) {
				return fmt.Errorf("%w: %s", flarc.ErrUsage, err)
			}
			if id.ID != "" {
				logger.Printf("application id: %s", id.ID)
			}
			return err
		}

		fmt.Fprintln(cl.Stdout(), id.ID)
		return nil
	}
}
