// Package schedule evaluates time-based scaling policies. Everything in
// this package is pure: the same policy and instant always produce the
// same result, and no call touches the cluster.
package schedule

import (
	"fmt"
	"time"
)

// Kind enumerates the workload types a policy can target.
type Kind string

const (
	KindDeployment  Kind = "Deployment"
	KindStatefulSet Kind = "StatefulSet"
)

// Identity uniquely names a managed resource. It is the sole key used for
// state lookups and per-resource locking.
type Identity struct {
	Kind      Kind
	Namespace string
	Name      string
}

func (id Identity) String() string {
	return fmt.Sprintf("%s/%s/%s", id.Kind, id.Namespace, id.Name)
}

// ClockTime is a time of day with minute precision.
type ClockTime struct {
	Hour   int
	Minute int
}

// Minutes returns the time as minutes since midnight.
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Window is one named time-based condition with an associated replica
// count and priority. Instances are built by the config layer and never
// mutated afterwards.
type Window struct {
	Name string

	// Days of week the window applies on. Optional.
	Days []time.Weekday

	// Dates lists specific calendar dates in YYYY-MM-DD form. Optional.
	Dates []string

	// Start is inclusive, End is exclusive. Either may be nil. Ranges
	// never span midnight; two windows express that.
	Start *ClockTime
	End   *ClockTime

	Replicas int32
	Priority int32

	// Timezone is the IANA identifier the window is evaluated in.
	Timezone string
}

// Limits bound every replica count a policy may produce.
type Limits struct {
	Min int32
	Max int32
}

// Policy is the full set of windows plus default and limits for one
// target resource. Built once per validated input and immutable
// thereafter; a reload replaces the whole value.
type Policy struct {
	Name      string
	Namespace string

	Target Identity

	// Windows in declaration order. Order matters: it breaks priority ties.
	Windows []Window

	DefaultReplicas int32
	Limits          *Limits
}
