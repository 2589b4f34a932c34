package server

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config of the sparkdock API server.
type Config struct {
	Port     int32          `yaml:"port"`
	LogLevel string         `yaml:"loglevel,omitempty"`
	Cluster  *ClusterConfig `yaml:"cluster"`
}

type ClusterConfig struct {
	// namespace applications land in when a request names none.
	Namespace string `yaml:"namespace"`

	// k8s-internal domain name. Empty means "cluster.local".
	Domain string `yaml:"domain,omitempty"`
}

func Load(filepath string) (*Config, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

func Unmarshal(conf []byte) (*Config, error) {
	var out Config
	if err := yaml.Unmarshal(conf, &out); err != nil {
		return nil, err
	}
	if out.Cluster == nil {
		out.Cluster = &ClusterConfig{}
	}
	if out.Cluster.Namespace == "" {
		out.Cluster.Namespace = "default"
	}
	return &out, nil
}
