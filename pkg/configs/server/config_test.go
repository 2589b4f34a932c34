package server_test

import (
	"testing"

	"github.com/sparkdock/sparkdock/pkg/configs/server"
)

func TestLoadConfig(t *testing.T) {
	t.Run("it can be created from a config file", func(t *testing.T) {
		result, err := server.Load("./testdata/config.yaml")
		if err != nil {
			t.Fatalf("failed to parse config: %v", err)
		}

		if result.Port != 8080 {
			t.Errorf("unmatch port: (actual, expected) = (%d, 8080)", result.Port)
		}
		if result.LogLevel != "debug" {
			t.Errorf("unmatch loglevel: (actual, expected) = (%s, debug)", result.LogLevel)
		}
		if result.Cluster.Namespace != "spark-apps" {
			t.Errorf("unmatch namespace: (actual, expected) = (%s, spark-apps)", result.Cluster.Namespace)
		}
		if result.Cluster.Domain != "cluster.local" {
			t.Errorf("unmatch domain: (actual, expected) = (%s, cluster.local)", result.Cluster.Domain)
		}
	})

	t.Run("when the cluster section is omitted, the namespace defaults", func(t *testing.T) {
		result, err := server.Unmarshal([]byte("port: 9090\n"))
		if err != nil {
			t.Fatalf("failed to parse config: %v", err)
		}
		if result.Cluster.Namespace != "default" {
			t.Errorf("unmatch namespace: (actual, expected) = (%s, default)", result.Cluster.Namespace)
		}
	})
}
