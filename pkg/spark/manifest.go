package spark

import (
	"fmt"
	"strconv"

	kubecore "k8s.io/api/core/v1"
	kubeapiresource "k8s.io/apimachinery/pkg/api/resource"
	kubeapimeta "k8s.io/apimachinery/pkg/apis/meta/v1"
	kubetypes "k8s.io/apimachinery/pkg/types"
)

const (
	// in-cluster API server endpoint passed to spark-submit.
	masterURL = "k8s://https://kubernetes.default.svc.cluster.local:443"

	DriverPort = 7077
	UIPort     = 4040

	driverContainerName = "driver"
)

// Manifest is everything needed to run one application on the cluster.
type Manifest struct {
	// spark-submit invocation, passed as container args of the driver pod.
	Argv []string

	Pod *kubecore.Pod

	// headless service giving the driver its stable address.
	//
	// nil when no executors are expected; then nothing needs to reach
	// the driver and the service is omitted entirely.
	Service *kubecore.Service
}

// BuildManifest renders the submit arguments, driver pod and (maybe)
// headless service for the application `id`.
//
// Pure; it touches no cluster state. Call opts.Validate() first.
func BuildManifest(opts SubmissionOptions, id Identity) Manifest {
	argv := buildArgv(opts, id)

	labels := AppLabels(id, opts.UIReverseProxy)

	pod := buildDriverPod(opts, id, labels, argv)

	var svc *kubecore.Service
	if opts.expectsExecutors() {
		svc = buildHeadlessService(id, opts.Namespace, labels)
	}

	return Manifest{Argv: argv, Pod: pod, Service: svc}
}

func buildArgv(opts SubmissionOptions, id Identity) []string {
	argv := []string{driverContainerName, "--master", masterURL}

	conf := func(key, value string) {
		argv = append(argv, "--conf", key+"="+value)
	}

	conf("spark.app.name", id.Name)
	conf("spark.app.id", id.ID)
	conf("spark.kubernetes.namespace", opts.Namespace)
	conf("spark.kubernetes.authenticate.driver.serviceAccountName", opts.ServiceAccount)
	conf("spark.kubernetes.container.image", opts.Image)
	conf("spark.driver.host", id.ID)
	conf("spark.driver.port", strconv.Itoa(DriverPort))
	conf("spark.kubernetes.driver.pod.name", DriverPodName(id.ID))
	conf("spark.kubernetes.executor.podNamePrefix", id.ID)
	conf("spark.kubernetes.container.image.pullPolicy", string(opts.PullPolicy))

	if opts.Driver.MemoryMiB > 0 {
		conf("spark.driver.memory", fmt.Sprintf("%dm", opts.Driver.MemoryMiB))
	}
	if opts.Executor.CPU > 0 {
		conf("spark.executor.cores", strconv.Itoa(opts.Executor.CPU))
	}
	if opts.Executor.MemoryMiB > 0 {
		conf("spark.executor.memory", fmt.Sprintf("%dm", opts.Executor.MemoryMiB))
		conf("spark.executor.memoryOverhead", fmt.Sprintf("%dm", opts.Executor.Overhead()))
	}

	if opts.UIReverseProxy {
		conf("spark.ui.proxyBase", fmt.Sprintf("/ui/%s/%s", opts.Namespace, id.ID))
		conf("spark.ui.proxyRedirectUri", "/")
	}

	if s := opts.Scale; s != nil {
		conf("spark.dynamicAllocation.enabled", "true")
		conf("spark.dynamicAllocation.shuffleTracking.enabled", "true")
		conf("spark.dynamicAllocation.minExecutors", strconv.Itoa(int(s.Min)))
		conf("spark.dynamicAllocation.maxExecutors", strconv.Itoa(int(s.Max)))
		conf("spark.dynamicAllocation.initialExecutors", strconv.Itoa(int(s.Initial)))
	}

	for _, c := range opts.Conf {
		conf(c.Key, c.Value)
	}

	if opts.Class != "" {
		argv = append(argv, "--class", opts.Class)
	}

	argv = append(argv, opts.AppPath)
	argv = append(argv, opts.AppArgs...)

	return argv
}

func driverResources(r Resources) kubecore.ResourceRequirements {
	rl := kubecore.ResourceList{}
	if r.CPU > 0 {
		rl[kubecore.ResourceCPU] = kubeapiresource.MustParse(strconv.Itoa(r.CPU))
	}
	if r.MemoryMiB > 0 {
		rl[kubecore.ResourceMemory] = kubeapiresource.MustParse(
			fmt.Sprintf("%dMi", r.MemoryMiB+r.Overhead()),
		)
	}
	if len(rl) == 0 {
		return kubecore.ResourceRequirements{}
	}
	return kubecore.ResourceRequirements{Requests: rl, Limits: rl}
}

func buildDriverPod(opts SubmissionOptions, id Identity, labels map[string]string, argv []string) *kubecore.Pod {
	return &kubecore.Pod{
		ObjectMeta: kubeapimeta.ObjectMeta{
			Name:      DriverPodName(id.ID),
			Namespace: opts.Namespace,
			Labels:    labels,
		},
		Spec: kubecore.PodSpec{
			ServiceAccountName: opts.ServiceAccount,
			RestartPolicy:      kubecore.RestartPolicyNever,
			Containers: []kubecore.Container{
				{
					Name:            driverContainerName,
					Image:           opts.Image,
					ImagePullPolicy: kubecore.PullPolicy(opts.PullPolicy),
					Args:            argv,
					Env: []kubecore.EnvVar{
						{
							// Spark binds to the pod IP, not to the service address.
							Name: "SPARK_DRIVER_BIND_ADDRESS",
							ValueFrom: &kubecore.EnvVarSource{
								FieldRef: &kubecore.ObjectFieldSelector{
									FieldPath: "status.podIP",
								},
							},
						},
					},
					Resources: driverResources(opts.Driver),
					Ports: []kubecore.ContainerPort{
						{Name: "driver-port", ContainerPort: DriverPort},
						{Name: "ui-port", ContainerPort: UIPort},
					},
				},
			},
		},
	}
}

func buildHeadlessService(id Identity, namespace string, labels map[string]string) *kubecore.Service {
	return &kubecore.Service{
		ObjectMeta: kubeapimeta.ObjectMeta{
			Name:      id.ID,
			Namespace: namespace,
			Labels:    labels,
		},
		Spec: kubecore.ServiceSpec{
			Selector: labels,
			Type:     kubecore.ServiceTypeClusterIP,
			// headless; executors resolve the driver pod IP directly.
			ClusterIP: kubecore.ClusterIPNone,
			Ports: []kubecore.ServicePort{
				{Name: "driver-port", Port: DriverPort},
				{Name: "ui-port", Port: UIPort},
			},
		},
	}
}

// OwnService points the service at its driver pod, so that deleting the
// pod cascades to the service.
func OwnService(svc *kubecore.Service, appID string, podUID string) {
	if svc == nil || podUID == "" {
		return
	}
	svc.ObjectMeta.OwnerReferences = []kubeapimeta.OwnerReference{
		{
			APIVersion: "v1",
			Kind:       "Pod",
			Name:       DriverPodName(appID),
			UID:        kubetypes.UID(podUID),
		},
	}
}
