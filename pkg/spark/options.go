package spark

import (
	"fmt"

	"github.com/google/go-containerregistry/pkg/name"
	kubecore "k8s.io/api/core/v1"
)

type PullPolicy string

const (
	PullAlways       PullPolicy = PullPolicy(kubecore.PullAlways)
	PullNever        PullPolicy = PullPolicy(kubecore.PullNever)
	PullIfNotPresent PullPolicy = PullPolicy(kubecore.PullIfNotPresent)
)

// WaitMode tells Submit what to do after the driver pod is created.
type WaitMode string

const (
	// return as soon as the create call is acknowledged. No polling.
	NoWait WaitMode = "no_wait"

	// poll until the application reaches a terminal status.
	Wait WaitMode = "wait"

	// follow the driver log to the caller's output, then report the
	// terminal status.
	PrintLogs WaitMode = "print"
)

// Conf is one free-form `--conf` override. Order of a []Conf is
// the order the flags appear on the command line.
type Conf struct {
	Key   string
	Value string
}

// Resources of one Spark process (driver or executor).
//
// Zero values mean "unset"; unset resources are omitted from both the
// submit arguments and the pod spec.
type Resources struct {
	CPU       int
	MemoryMiB int64

	// extra off-heap memory. When 0, max(384, MemoryMiB/10) applies.
	MemoryOverheadMiB int64
}

func (r Resources) isZero() bool {
	return r.CPU == 0 && r.MemoryMiB == 0 && r.MemoryOverheadMiB == 0
}

// Overhead is the effective memory overhead in MiB.
func (r Resources) Overhead() int64 {
	if r.MemoryOverheadMiB > 0 {
		return r.MemoryOverheadMiB
	}
	if r.MemoryMiB == 0 {
		return 0
	}
	tenth := r.MemoryMiB / 10
	if tenth < 384 {
		return 384
	}
	return tenth
}

// ExecutorScale bounds dynamic executor allocation.
type ExecutorScale struct {
	Min     int32
	Max     int32
	Initial int32
}

// SubmissionOptions describe one application to submit.
type SubmissionOptions struct {
	// container image running both driver and executors. Required.
	Image string

	// path of the application entrypoint inside the image. Required.
	AppPath string

	AppArgs []string

	// entry class, for JVM applications.
	Class string

	Namespace      string
	ServiceAccount string

	// raw application name. Sanitized by ResolveIdentity; empty falls
	// back to a generic base name.
	AppName string

	// suffix generator for the application ID. nil means timestamp suffix.
	Suffix SuffixFn

	// free-form spark conf overrides, kept in caller order.
	Conf []Conf

	Driver   Resources
	Executor Resources

	// executor scaling bounds. nil disables dynamic allocation.
	Scale *ExecutorScale

	PullPolicy PullPolicy

	// expose the Spark UI via the reverse proxy.
	UIReverseProxy bool

	Mode WaitMode
}

// WithDefaults fills unset optional fields.
func (o SubmissionOptions) WithDefaults() SubmissionOptions {
	if o.Namespace == "" {
		o.Namespace = "default"
	}
	if o.ServiceAccount == "" {
		o.ServiceAccount = "spark"
	}
	if o.PullPolicy == "" {
		o.PullPolicy = PullIfNotPresent
	}
	if o.Mode == "" {
		o.Mode = NoWait
	}
	if o.Suffix == nil {
		o.Suffix = DefaultAppIDSuffix
	}
	return o
}

// Validate checks that the options describe a submittable application.
//
// All violations are reported as ErrValidation.
func (o SubmissionOptions) Validate() error {
	if o.Image == "" {
		return NewValidation("image is required")
	}
	if _, err := name.ParseReference(o.Image); err != nil {
		return NewValidationCausedBy(fmt.Sprintf("invalid image reference: %s", o.Image), err)
	}
	if o.AppPath == "" {
		return NewValidation("app path is required")
	}

	switch o.PullPolicy {
	case "", PullAlways, PullNever, PullIfNotPresent:
	default:
		return NewValidation(fmt.Sprintf("unknown image pull policy: %s", o.PullPolicy))
	}

	switch o.Mode {
	case "", NoWait, Wait, PrintLogs:
	default:
		return NewValidation(fmt.Sprintf("unknown wait mode: %s", o.Mode))
	}

	for _, r := range []struct {
		role string
		res  Resources
	}{
		{role: "driver", res: o.Driver},
		{role: "executor", res: o.Executor},
	} {
		if r.res.CPU < 0 {
			return NewValidation(fmt.Sprintf("%s cpu must not be negative", r.role))
		}
		if r.res.MemoryMiB < 0 {
			return NewValidation(fmt.Sprintf("%s memory must not be negative", r.role))
		}
		if r.res.MemoryOverheadMiB < 0 {
			return NewValidation(fmt.Sprintf("%s memory overhead must not be negative", r.role))
		}
	}

	if s := o.Scale; s != nil {
		if s.Min < 0 {
			return NewValidation("executor scale min must not be negative")
		}
		if s.Max < s.Min {
			return NewValidation(fmt.Sprintf(
				"executor scale max (%d) must not be less than min (%d)", s.Max, s.Min,
			))
		}
		if s.Initial < s.Min || s.Max < s.Initial {
			return NewValidation(fmt.Sprintf(
				"executor scale initial (%d) must be within [%d, %d]", s.Initial, s.Min, s.Max,
			))
		}
	}

	return nil
}

// expectsExecutors reports whether the application will run executors,
// and so whether the driver needs a stable network address.
func (o SubmissionOptions) expectsExecutors() bool {
	return o.Scale != nil || !o.Executor.isZero()
}
