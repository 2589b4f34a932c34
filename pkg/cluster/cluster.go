package cluster

import (
	"context"
	"errors"
	"io"

	kubecore "k8s.io/api/core/v1"
	kubeerr "k8s.io/apimachinery/pkg/api/errors"
	kubeapimeta "k8s.io/apimachinery/pkg/apis/meta/v1"
	k8s "k8s.io/client-go/kubernetes"

	"github.com/sparkdock/sparkdock/pkg/utils/retry"
)

// subset of k8s.Clientset.
//
// All operations take the namespace explicitly; a single client serves
// applications living in different namespaces.
type K8sClient interface {
	CreatePod(ctx context.Context, namespace string, spec *kubecore.Pod) (*kubecore.Pod, error)
	GetPod(ctx context.Context, namespace string, name string) (*kubecore.Pod, error)
	DeletePod(ctx context.Context, namespace string, name string) error
	FindPods(ctx context.Context, namespace string, labelSelector LabelSelector) ([]kubecore.Pod, error)

	GetService(ctx context.Context, namespace string, svcname string) (*kubecore.Service, error)
	CreateService(ctx context.Context, namespace string, svc *kubecore.Service) (*kubecore.Service, error)
	DeleteService(ctx context.Context, namespace string, svcname string) error

	Log(ctx context.Context, namespace string, podname string, container string) (io.ReadCloser, error)
}

// A wrapper for the type k8s.Clientset; because it does not prefer method chain-style invocations of that type.
type k8sClient struct {
	client *k8s.Clientset
}

// type check: k8sClient implements K8sClient
var _ K8sClient = &k8sClient{}

func WrapK8sClient(c *k8s.Clientset) K8sClient {
	return &k8sClient{client: c}
}

func (k *k8sClient) CreatePod(ctx context.Context, namespace string, pod *kubecore.Pod) (*kubecore.Pod, error) {
	return k.client.CoreV1().Pods(namespace).Create(ctx, pod, kubeapimeta.CreateOptions{})
}

func (k *k8sClient) GetPod(ctx context.Context, namespace string, name string) (*kubecore.Pod, error) {
	return k.client.CoreV1().Pods(namespace).Get(ctx, name, kubeapimeta.GetOptions{})
}

func (k *k8sClient) DeletePod(ctx context.Context, namespace string, podname string) error {
	return k.client.CoreV1().Pods(namespace).Delete(ctx, podname, *kubeapimeta.NewDeleteOptions(0))
}

func (k *k8sClient) FindPods(ctx context.Context, namespace string, labels LabelSelector) ([]kubecore.Pod, error) {
	resp, err := k.client.CoreV1().Pods(namespace).List(ctx, kubeapimeta.ListOptions{
		LabelSelector: labels.QueryString(),
	})
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (k *k8sClient) CreateService(ctx context.Context, namespace string, svc *kubecore.Service) (*kubecore.Service, error) {
	return k.client.CoreV1().Services(namespace).Create(ctx, svc, kubeapimeta.CreateOptions{})
}

func (k *k8sClient) GetService(ctx context.Context, namespace string, svcname string) (*kubecore.Service, error) {
	return k.client.CoreV1().Services(namespace).Get(ctx, svcname, kubeapimeta.GetOptions{})
}

func (k *k8sClient) DeleteService(ctx context.Context, namespace string, svcname string) error {
	return k.client.CoreV1().Services(namespace).Delete(ctx, svcname, *kubeapimeta.NewDeleteOptions(0))
}

func (k *k8sClient) Log(ctx context.Context, namespace string, podname string, container string) (io.ReadCloser, error) {
	return k.client.
		CoreV1().
		Pods(namespace).
		GetLogs(podname, &kubecore.PodLogOptions{Container: container, Follow: true}).
		Stream(ctx)
}

// Abstraction of a k8s Pod created or found via Cluster.
type Pod interface {
	Name() string
	Namespace() string

	// UID of the pod, usable as owner reference target.
	UID() string

	// the phase of the pod, as a SNAPSHOT taken when this instance was obtained.
	//
	// To refresh, get a new instance with Cluster.GetPod.
	Phase() kubecore.PodPhase

	Labels() map[string]string

	// get log stream of the named container.
	Log(ctx context.Context, container string) (io.ReadCloser, error)

	// release resources.
	//
	// Delete the pod.
	Close() error
}

type pod struct {
	description kubecore.Pod
	client      K8sClient
	onClose     func() error
}

var _ Pod = &pod{}

func (p *pod) Name() string {
	return p.description.Name
}

func (p *pod) Namespace() string {
	return p.description.Namespace
}

func (p *pod) UID() string {
	return string(p.description.UID)
}

func (p *pod) Phase() kubecore.PodPhase {
	return p.description.Status.Phase
}

func (p *pod) Labels() map[string]string {
	return p.description.Labels
}

func (p *pod) Log(ctx context.Context, container string) (io.ReadCloser, error) {
	return p.client.Log(ctx, p.Namespace(), p.Name(), container)
}

func (p *pod) Close() error {
	if p.onClose == nil {
		return nil
	}
	return p.onClose()
}

// Abstraction of a k8s Service created via Cluster.
type Service interface {
	Name() string
	Namespace() string

	// get service domain name.
	Host() string

	// release resources.
	//
	// Delete the service.
	Close() error
}

type service struct {
	resource *kubecore.Service
	domain   string
	onClose  func() error
}

func (s *service) Name() string {
	return s.resource.GetName()
}

func (s *service) Namespace() string {
	return s.resource.GetNamespace()
}

func (s *service) Host() string {
	return s.Name() + "." + s.Namespace() + ".svc." + s.domain
}

func (s *service) Close() error {
	if s.onClose == nil {
		return nil
	}
	return s.onClose()
}

// Requirement is a function that checks if a k8s resource satisfies the requirement.
//
// # Return
//
// - error: When the value satisfies the requirement, return nil.
// If it is waiting to satisfy the requirement, return `retry.ErrRetry`.
// Otherwise, return error.
type Requirement[T any] func(value T) error

func satisfyAll[T any](value T, req []Requirement[T]) error {
	for _, r := range req {
		if err := r(value); err != nil {
			return err
		}
	}
	return nil
}

var PodHasBeenCreated Requirement[*kubecore.Pod] = func(p *kubecore.Pod) error {
	return nil
}

var PodHasBeenRunning Requirement[*kubecore.Pod] = func(p *kubecore.Pod) error {
	switch p.Status.Phase {
	case kubecore.PodRunning, kubecore.PodFailed, kubecore.PodSucceeded:
		return nil
	default:
		return retry.ErrRetry
	}
}

var ServiceIsReady Requirement[*kubecore.Service] = func(value *kubecore.Service) error {
	// headless services have ClusterIP "None"; that is ready, too.
	if value.Spec.ClusterIP != "" {
		return nil
	}
	return retry.ErrRetry
}

// Cluster is the gate to a kubernetes cluster.
type Cluster interface {
	// k8s-internal domain name, like "cluster.local".
	Domain() string

	// Create a new Pod and wait for it to satisfy all requirements.
	//
	// # Args
	//
	// - ctx context.Context
	//
	// - backoff retry.Backoff: backoff policy used while waiting for requirements.
	//
	// - namespace string
	//
	// - spec *kubecore.Pod
	//
	// - requirements ...Requirement[*kubecore.Pod]: if not given, PodHasBeenCreated is used.
	//
	// # Return
	//
	// retry.Promise[Pod], resolved when the Pod is created & satisfies requirements.
	//
	// The Promise may hold errors below:
	//
	// - ErrConflict: a pod with the same name is already there.
	//
	// - ErrMissing: the pod vanished after creation, before meeting requirements.
	//
	// - other errors from requirements or context.Context
	NewPod(ctx context.Context, backoff retry.Backoff, namespace string, spec *kubecore.Pod, requirements ...Requirement[*kubecore.Pod]) retry.Promise[Pod]

	// Get an existing Pod, waiting until it satisfies all requirements.
	//
	// The Promise holds ErrMissing when no such pod exists; it is NOT retried.
	GetPod(ctx context.Context, backoff retry.Backoff, namespace string, name string, requirements ...Requirement[*kubecore.Pod]) retry.Promise[Pod]

	// Delete the named Pod.
	//
	// Returns ErrMissing when no such pod exists.
	DeletePod(ctx context.Context, namespace string, name string) error

	// List pods matching the label selector. The snapshot is not watched.
	FindPods(ctx context.Context, namespace string, selector LabelSelector) ([]kubecore.Pod, error)

	// Create a new Service and wait for it to satisfy all requirements.
	//
	// Error semantics are the same as NewPod.
	NewService(ctx context.Context, backoff retry.Backoff, namespace string, spec *kubecore.Service, requirements ...Requirement[*kubecore.Service]) retry.Promise[Service]

	// Delete the named Service.
	//
	// Returns ErrMissing when no such service exists.
	DeleteService(ctx context.Context, namespace string, name string) error

	// Log opens a follow-mode log stream of the named container.
	//
	// It blocks until data arrive or the stream ends; lines come in the
	// order the container wrote them.
	Log(ctx context.Context, namespace string, podname string, container string) (io.ReadCloser, error)
}

type k8sCluster struct {
	client K8sClient
	domain string
}

// type check: k8sCluster implements Cluster
var _ Cluster = &k8sCluster{}

// Attach kubernetes cluster.
//
// args:
//   - client: k8s clientset (wrapped)
//   - domain: k8s-internal domain name. If empty string is passed, it uses `"cluster.local"` as default.
func AttachCluster(client K8sClient, domain string) Cluster {
	if domain == "" {
		domain = "cluster.local"
	}
	return &k8sCluster{client: client, domain: domain}
}

func (c *k8sCluster) Domain() string {
	return c.domain
}

func (c *k8sCluster) NewPod(
	ctx context.Context, backoff retry.Backoff, namespace string, spec *kubecore.Pod,
	requirements ...Requirement[*kubecore.Pod],
) retry.Promise[Pod] {
	if len(requirements) == 0 {
		requirements = []Requirement[*kubecore.Pod]{PodHasBeenCreated}
	}

	select {
	case <-ctx.Done():
		return retry.Failed[Pod](ctx.Err())
	default:
	}

	_close := func() error {
		// close should run even if the given ctx has closed.
		return c.client.DeletePod(context.Background(), namespace, spec.ObjectMeta.Name)
	}

	_pod, err := c.client.CreatePod(ctx, namespace, spec)
	if err != nil {
		if kubeerr.IsAlreadyExists(err) {
			return retry.Failed[Pod](NewConflictCausedBy("", err))
		}
		return retry.Failed[Pod](err)
	}
	if err := satisfyAll(_pod, requirements); err == nil {
		return retry.Ok[Pod](&pod{description: *_pod, client: c.client, onClose: _close})
	} else if !errors.Is(err, retry.ErrRetry) {
		return retry.Failed[Pod](err)
	}

	return c.GetPod(ctx, backoff, namespace, _pod.ObjectMeta.Name, requirements...)
}

func (c *k8sCluster) GetPod(
	ctx context.Context, backoff retry.Backoff, namespace string, name string,
	requirements ...Requirement[*kubecore.Pod],
) retry.Promise[Pod] {
	if len(requirements) == 0 {
		requirements = []Requirement[*kubecore.Pod]{PodHasBeenCreated}
	}
	_close := func() error {
		return c.client.DeletePod(context.Background(), namespace, name)
	}

	return retry.Go(ctx, backoff, func() (Pod, error) {
		_pod, err := c.client.GetPod(ctx, namespace, name)
		if err != nil {
			if kubeerr.IsNotFound(err) {
				return nil, NewMissingCausedBy("", err)
			}
			return nil, err
		}
		ret := &pod{description: *_pod, client: c.client, onClose: _close}
		return ret, satisfyAll(_pod, requirements)
	})
}

func (c *k8sCluster) DeletePod(ctx context.Context, namespace string, name string) error {
	if err := c.client.DeletePod(ctx, namespace, name); err != nil {
		if kubeerr.IsNotFound(err) {
			return NewMissingCausedBy("", err)
		}
		return err
	}
	return nil
}

func (c *k8sCluster) FindPods(ctx context.Context, namespace string, selector LabelSelector) ([]kubecore.Pod, error) {
	return c.client.FindPods(ctx, namespace, selector)
}

func (c *k8sCluster) NewService(
	ctx context.Context, backoff retry.Backoff, namespace string, spec *kubecore.Service,
	requirements ...Requirement[*kubecore.Service],
) retry.Promise[Service] {
	if len(requirements) == 0 {
		requirements = []Requirement[*kubecore.Service]{ServiceIsReady}
	}

	select {
	case <-ctx.Done():
		return retry.Failed[Service](ctx.Err())
	default:
	}

	_close := func() error {
		return c.client.DeleteService(context.Background(), namespace, spec.ObjectMeta.Name)
	}

	svc, err := c.client.CreateService(ctx, namespace, spec)
	if err != nil {
		if kubeerr.IsAlreadyExists(err) {
			return retry.Failed[Service](NewConflictCausedBy("", err))
		}
		return retry.Failed[Service](err)
	}
	if err := satisfyAll(svc, requirements); err == nil {
		return retry.Ok[Service](&service{resource: svc, domain: c.domain, onClose: _close})
	} else if !errors.Is(err, retry.ErrRetry) {
		return retry.Failed[Service](err)
	}

	return retry.Go(ctx, backoff, func() (Service, error) {
		svc, err := c.client.GetService(ctx, namespace, spec.ObjectMeta.Name)
		if err != nil {
			if kubeerr.IsNotFound(err) {
				return nil, NewMissingCausedBy("", err)
			}
			return nil, err
		}
		ret := &service{resource: svc, domain: c.domain, onClose: _close}
		return ret, satisfyAll(svc, requirements)
	})
}

func (c *k8sCluster) DeleteService(ctx context.Context, namespace string, name string) error {
	if err := c.client.DeleteService(ctx, namespace, name); err != nil {
		if kubeerr.IsNotFound(err) {
			return NewMissingCausedBy("", err)
		}
		return err
	}
	return nil
}

func (c *k8sCluster) Log(ctx context.Context, namespace string, podname string, container string) (io.ReadCloser, error) {
	return c.client.Log(ctx, namespace, podname, container)
}
