// Package scaling turns schedule evaluations into cluster changes. The
// engine gates every change on the target's cooldown and serializes
// work per resource identity so two concurrent cycles cannot
// double-scale the same workload.
package scaling

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/migalsp/easyscale-operator/internal/metrics"
	"github.com/migalsp/easyscale-operator/internal/schedule"
	"github.com/migalsp/easyscale-operator/internal/state"
)

// ResourceClient is the cluster capability the engine consumes. The
// production implementation lives in internal/kube.
type ResourceClient interface {
	Exists(ctx context.Context, id schedule.Identity) (bool, error)
	CurrentReplicas(ctx context.Context, id schedule.Identity) (int32, error)
	SetReplicas(ctx context.Context, id schedule.Identity, replicas int32) error
}

// Decision is the outcome of one decide call. It is ephemeral and never
// persisted; only the operation record derived from it is.
type Decision struct {
	ShouldScale     bool
	CurrentReplicas int32
	DesiredReplicas int32
	Reason          string
	WindowName      string
	InCooldown      bool
	TargetMissing   bool
}

// Engine combines evaluation results, observed replica counts and the
// state store's cooldown status into scaling decisions.
type Engine struct {
	Store     *state.Store
	Resources ResourceClient

	// DryRun computes and records decisions without writing to the
	// cluster. The cooldown is armed as if the apply had happened.
	DryRun bool

	mu    sync.Mutex
	locks map[schedule.Identity]*sync.Mutex
}

// NewEngine creates an engine over the given store and cluster capability.
func NewEngine(store *state.Store, resources ResourceClient, dryRun bool) *Engine {
	return &Engine{
		Store:     store,
		Resources: resources,
		DryRun:    dryRun,
		locks:     make(map[schedule.Identity]*sync.Mutex),
	}
}

// Decide applies the decision ladder in order: absent target, already at
// desired, cooldown, scale. It never touches the cluster itself; the
// caller reports existence and the current replica count.
func (e *Engine) Decide(id schedule.Identity, res schedule.Result, current int32, exists bool, now time.Time) Decision {
	windowName := ""
	if res.Window != nil {
		windowName = res.Window.Name
	}

	if !exists {
		return Decision{
			DesiredReplicas: res.DesiredReplicas,
			Reason:          fmt.Sprintf("target %s absent", id),
			TargetMissing:   true,
		}
	}

	if current == res.DesiredReplicas {
		return Decision{
			CurrentReplicas: current,
			DesiredReplicas: res.DesiredReplicas,
			Reason:          fmt.Sprintf("already at desired replicas (%d)", current),
			WindowName:      windowName,
		}
	}

	if e.Store.InCooldown(id, now) {
		return Decision{
			CurrentReplicas: current,
			DesiredReplicas: res.DesiredReplicas,
			Reason:          "cooldown active",
			WindowName:      windowName,
			InCooldown:      true,
		}
	}

	return Decision{
		ShouldScale:     true,
		CurrentReplicas: current,
		DesiredReplicas: res.DesiredReplicas,
		Reason:          res.Reason,
		WindowName:      windowName,
	}
}

// Record appends an operation record for the decision. The identity's
// cooldown state is updated only when the apply succeeded (dry-run
// applies always count as succeeded); a failed apply is recorded but
// does not block a retry on the next cycle.
func (e *Engine) Record(id schedule.Identity, d Decision, applyErr error, now time.Time) {
	rec := state.Record{
		Timestamp:        now,
		Identity:         id,
		WindowName:       d.WindowName,
		PreviousReplicas: d.CurrentReplicas,
		DesiredReplicas:  d.DesiredReplicas,
		Reason:           d.Reason,
		Success:          applyErr == nil,
	}
	if applyErr != nil {
		rec.Error = applyErr.Error()
	}
	e.Store.RecordScaling(rec, applyErr == nil)
}

// Run performs one full cycle for a policy: evaluate, observe, decide,
// apply, record. The whole cycle holds the identity's lock, so
// concurrent runs for the same identity serialize while distinct
// identities proceed in parallel. Apply failures are recorded, not
// returned; only read failures surface as errors.
func (e *Engine) Run(ctx context.Context, p *schedule.Policy, now time.Time) (schedule.Result, Decision, error) {
	l := log.FromContext(ctx).WithValues("target", p.Target.String())
	timer := time.Now()
	defer func() {
		metrics.EvaluationDuration.Observe(time.Since(timer).Seconds())
	}()

	lock := e.lockFor(p.Target)
	lock.Lock()
	defer lock.Unlock()

	res := schedule.Evaluate(p, now)
	for _, warning := range res.Warnings {
		l.Info("schedule evaluation warning", "warning", warning)
	}

	id := p.Target
	labels := []string{string(id.Kind), id.Namespace, id.Name}
	metrics.DesiredReplicas.WithLabelValues(labels...).Set(float64(res.DesiredReplicas))

	exists, err := e.Resources.Exists(ctx, id)
	if err != nil {
		return res, Decision{}, fmt.Errorf("checking %s: %w", id, err)
	}

	var current int32
	if exists {
		current, err = e.Resources.CurrentReplicas(ctx, id)
		if err != nil {
			return res, Decision{}, fmt.Errorf("reading replicas of %s: %w", id, err)
		}
	}

	d := e.Decide(id, res, current, exists, now)
	if !d.ShouldScale {
		if d.InCooldown {
			metrics.CooldownSkips.WithLabelValues(labels...).Inc()
		}
		l.V(1).Info("no scaling needed", "reason", d.Reason)
		return res, d, nil
	}

	var applyErr error
	if e.DryRun {
		l.Info("dry-run: would scale", "from", d.CurrentReplicas, "to", d.DesiredReplicas, "reason", d.Reason)
	} else {
		applyErr = e.Resources.SetReplicas(ctx, id, d.DesiredReplicas)
	}

	e.Record(id, d, applyErr, now)

	outcome := "success"
	switch {
	case applyErr != nil:
		outcome = "failure"
		l.Error(applyErr, "failed to apply replicas", "from", d.CurrentReplicas, "to", d.DesiredReplicas)
	case e.DryRun:
		outcome = "dry_run"
	default:
		l.Info("scaled target", "from", d.CurrentReplicas, "to", d.DesiredReplicas, "reason", d.Reason)
	}
	metrics.ScalingOperations.WithLabelValues(append(labels, outcome)...).Inc()

	return res, d, nil
}

func (e *Engine) lockFor(id schedule.Identity) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, ok := e.locks[id]
	if !ok {
		l = &sync.Mutex{}
		e.locks[id] = l
	}
	return l
}
