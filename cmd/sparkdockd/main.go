package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sparkdock/sparkdock/cmd/sparkdockd/handlers"
	"github.com/sparkdock/sparkdock/pkg/cluster"
	configs "github.com/sparkdock/sparkdock/pkg/configs/server"
	"github.com/sparkdock/sparkdock/pkg/kubeutil"
	"github.com/sparkdock/sparkdock/pkg/spark"
	"github.com/sparkdock/sparkdock/pkg/utils/echoutil"
	"github.com/sparkdock/sparkdock/pkg/utils/filewatch"
	"github.com/sparkdock/sparkdock/pkg/utils/try"
)

func main() {
	configPath := flag.String("config-path", "", "server config path")
	loglevel := flag.String("loglevel", "", "log level. debug|info|warn|error|off (overrides config)")
	kubeconfig := flag.String("kubeconfig", "", "path to kubeconfig file. default: inherit environment")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	flag.Parse()

	conf := try.To(configs.Load(*configPath)).OrFatal(log.Default())
	if *loglevel == "" {
		*loglevel = conf.LogLevel
	}

	e := echo.New()
	e.Pre(middleware.AddTrailingSlash())

	echoutil.SetLevel(e, *loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)

	// restart (by the environment) when the config is updated.
	ctx, cancel, err := filewatch.UntilModifyContext(context.Background(), *configPath)
	if err != nil {
		log.Fatalf("can not watch configration: %s", err)
	}
	defer cancel()
	context.AfterFunc(ctx, func() {
		log.Println("config file is updated. quit to restart server.")
		graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := e.Shutdown(graceful); err != nil {
			log.Printf("error on shutdown by config update: %s", err)
		}
	})

	clientset := try.To(
		kubeutil.ConnectToK8s(kubeutil.FindKubeconfig(*kubeconfig)),
	).OrFatal(log.Default())
	cl := cluster.AttachCluster(cluster.WrapK8sClient(clientset), conf.Cluster.Domain)
	manager := spark.NewAppManager(cl)

	getApps := handlers.GetAppsHandler(manager, "namespace", conf.Cluster.Namespace)
	e.GET("/api/apps/", getApps)
	e.GET("/api/apps/:namespace/", getApps)

	listen := fmt.Sprintf(":%d", conf.Port)
	if *pcert != "" && *pkey != "" {
		log.Fatal(e.StartTLS(listen, *pcert, *pkey))
	} else {
		log.Fatal(e.Start(listen))
	}
}
