package spark

import (
	"regexp"
	"strings"
	"time"
)

// base name used when no application name is given.
const defaultAppBase = "spark-app"

// k8s object names and label values may be 63 characters at most.
const maxNameLength = 63

// Identity addresses all resources of one submitted application.
type Identity struct {
	// human-readable application name. Not unique.
	Name string

	// cluster-legal identifier, used as label value and resource name prefix.
	//
	// Matches `[a-z0-9]([-a-z0-9]*[a-z0-9])?` and is at most 63 characters long.
	ID string
}

// SuffixFn generates the suffix appended to an application ID.
//
// It is injectable so tests can fix the suffix.
type SuffixFn func() string

// DefaultAppIDSuffix returns the current timestamp prefixed with a dash,
// like "-20240114225118".
func DefaultAppIDSuffix() string {
	return "-" + time.Now().Format("20060102150405")
}

// NoSuffix makes ResolveIdentity yield ID == Name.
var NoSuffix SuffixFn = func() string { return "" }

var (
	reIllegalNameChar = regexp.MustCompile(`[^a-z0-9-]`)
	reDashRuns        = regexp.MustCompile(`-+`)
)

func sanitizeName(raw string) string {
	name := strings.ToLower(raw)
	name = reIllegalNameChar.ReplaceAllString(name, "-")
	name = reDashRuns.ReplaceAllString(name, "-")
	return strings.Trim(name, "-")
}

func truncateName(name string, limit int) string {
	if limit < 0 {
		limit = 0
	}
	if len(name) > limit {
		name = name[:limit]
	}
	return strings.TrimRight(name, "-")
}

// ResolveIdentity derives the Identity of an application from a raw name.
//
// The raw name is sanitized into a k8s-legal value; the ID gets `suffix()`
// appended, and the base is truncated BEFORE suffixing so that the suffixed
// ID also stays within the 63 character bound.
//
// Same (rawName, suffix value) always yields the same Identity.
func ResolveIdentity(rawName string, suffix SuffixFn) Identity {
	if suffix == nil {
		suffix = DefaultAppIDSuffix
	}

	base := sanitizeName(rawName)
	if base == "" {
		base = defaultAppBase
	}

	name := truncateName(base, maxNameLength)

	sfx := suffix()
	id := truncateName(base, maxNameLength-len(sfx)) + sfx

	return Identity{Name: name, ID: id}
}

// DriverPodName is the name of the driver pod of the application `appID`.
func DriverPodName(appID string) string {
	return appID + "-driver"
}
