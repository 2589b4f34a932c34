package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path"

	"github.com/youta-t/flarc"

	"github.com/sparkdock/sparkdock/cmd/sparkdock/subcommands/common"
	subkill "github.com/sparkdock/sparkdock/cmd/sparkdock/subcommands/kill"
	sublist "github.com/sparkdock/sparkdock/cmd/sparkdock/subcommands/list"
	sublogs "github.com/sparkdock/sparkdock/cmd/sparkdock/subcommands/logs"
	subrm "github.com/sparkdock/sparkdock/cmd/sparkdock/subcommands/rm"
	substatus "github.com/sparkdock/sparkdock/cmd/sparkdock/subcommands/status"
	subsubmit "github.com/sparkdock/sparkdock/cmd/sparkdock/subcommands/submit"
	subver "github.com/sparkdock/sparkdock/cmd/sparkdock/subcommands/version"
	subwait "github.com/sparkdock/sparkdock/cmd/sparkdock/subcommands/wait"
	"github.com/sparkdock/sparkdock/pkg/utils/try"
)

func main() {
	name := path.Base(os.Args[0])
	logger := log.Default()
	logger.SetPrefix(fmt.Sprintf("[%s] ", name))

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill,
	)
	defer cancel()

	submit := try.To(subsubmit.New()).OrFatal(logger)
	status := try.To(substatus.New()).OrFatal(logger)
	logs := try.To(sublogs.New()).OrFatal(logger)
	wait := try.To(subwait.New()).OrFatal(logger)
	kill := try.To(subkill.New()).OrFatal(logger)
	rm := try.To(subrm.New()).OrFatal(logger)
	list := try.To(sublist.New()).OrFatal(logger)
	version := try.To(subver.New()).OrFatal(logger)

	sparkdock := try.To(
		flarc.NewCommandGroup(
			"Submit and manage Spark applications on Kubernetes",
			common.DefaultFlags(),
			flarc.WithSubcommand("submit", submit),
			flarc.WithSubcommand("status", status),
			flarc.WithSubcommand("logs", logs),
			flarc.WithSubcommand("wait", wait),
			flarc.WithSubcommand("kill", kill),
			flarc.WithSubcommand("rm", rm),
			flarc.WithSubcommand("list", list),
			flarc.WithSubcommand("version", version),
		),
	).OrFatal(logger)

	os.Exit(flarc.Run(ctx, sparkdock, flarc.WithHelp(true)))
}
