package kubeutil

import (
	"os"
	"path/filepath"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// FindKubeconfig detects the kubeconfig file to be used.
//
// It searches, in increasing priority:
//
// - `~/.kube/config`
//
// - environmental variable `KUBECONFIG`
//
// - `explicit` (command line flag value; pass "" when not given)
//
// When no file is found at the detected path, it returns "",
// which means "use in-cluster config".
func FindKubeconfig(explicit string) string {
	kubeconfig := ""

	if home := homedir.HomeDir(); home != "" {
		kubeconfig = filepath.Join(home, ".kube", "config")
	}

	if k := os.Getenv("KUBECONFIG"); k != "" {
		kubeconfig = k
	}

	if explicit != "" {
		kubeconfig = explicit
	}

	if kubeconfig != "" {
		stat, err := os.Stat(kubeconfig)
		if os.IsNotExist(err) || (err == nil && stat.IsDir()) {
			kubeconfig = ""
		}
	}

	return kubeconfig
}

// ConnectToK8s builds *kubernetes.Clientset from the kubeconfig path
// detected by FindKubeconfig.
//
// When the path is empty, it falls back to in-cluster config.
func ConnectToK8s(kubeconfig string) (*kubernetes.Clientset, error) {
	var config *rest.Config
	var err error
	if kubeconfig == "" {
		config, err = rest.InClusterConfig()
	} else {
		config, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
	}
	if err != nil {
		return nil, err
	}

	return kubernetes.NewForConfig(config)
}
