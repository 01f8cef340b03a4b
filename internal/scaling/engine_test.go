package scaling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/migalsp/easyscale-operator/internal/schedule"
	"github.com/migalsp/easyscale-operator/internal/state"
)

type fakeResources struct {
	exists    bool
	replicas  int32
	applyErr  error
	existsErr error
	applied   []int32
}

func (f *fakeResources) Exists(ctx context.Context, id schedule.Identity) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeResources) CurrentReplicas(ctx context.Context, id schedule.Identity) (int32, error) {
	return f.replicas, nil
}

func (f *fakeResources) SetReplicas(ctx context.Context, id schedule.Identity, replicas int32) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = append(f.applied, replicas)
	f.replicas = replicas
	return nil
}

var webID = schedule.Identity{Kind: schedule.KindDeployment, Namespace: "default", Name: "web"}

func alwaysOnPolicy(replicas int32) *schedule.Policy {
	return &schedule.Policy{
		Name:      "test-rule",
		Namespace: "default",
		Target:    webID,
		Windows: []schedule.Window{{
			Name: "always",
			Days: []time.Weekday{
				time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
				time.Thursday, time.Friday, time.Saturday,
			},
			Replicas: replicas,
			Timezone: "UTC",
		}},
		DefaultReplicas: replicas,
	}
}

func matchedResult(desired int32, at time.Time) schedule.Result {
	p := alwaysOnPolicy(desired)
	return schedule.Evaluate(p, at)
}

func TestDecideTargetAbsent(t *testing.T) {
	e := NewEngine(state.NewStore(time.Minute), &fakeResources{}, false)
	t0 := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	d := e.Decide(webID, matchedResult(2, t0), 0, false, t0)
	if d.ShouldScale {
		t.Error("must not scale an absent target")
	}
	if d.InCooldown {
		t.Error("absent target is not a cooldown case")
	}
}

func TestDecideAlreadyAtDesired(t *testing.T) {
	e := NewEngine(state.NewStore(time.Minute), &fakeResources{}, false)
	t0 := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	d := e.Decide(webID, matchedResult(3, t0), 3, true, t0)
	if d.ShouldScale {
		t.Errorf("must not scale when already at desired, reason %q", d.Reason)
	}
	if d.WindowName != "always" {
		t.Errorf("decision should carry the matched window, got %q", d.WindowName)
	}
}

func TestDecideScale(t *testing.T) {
	e := NewEngine(state.NewStore(time.Minute), &fakeResources{}, false)
	t0 := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	d := e.Decide(webID, matchedResult(5, t0), 2, true, t0)
	if !d.ShouldScale || d.DesiredReplicas != 5 || d.CurrentReplicas != 2 {
		t.Errorf("unexpected decision %+v", d)
	}
}

func TestCooldownBlocksSecondScale(t *testing.T) {
	store := state.NewStore(60 * time.Second)
	resources := &fakeResources{exists: true, replicas: 1}
	e := NewEngine(store, resources, false)
	ctx := context.Background()
	t0 := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	// First cycle scales 1 -> 2 and arms the cooldown.
	_, d, err := e.Run(ctx, alwaysOnPolicy(2), t0)
	if err != nil {
		t.Fatal(err)
	}
	if !d.ShouldScale || resources.replicas != 2 {
		t.Fatalf("first cycle should scale to 2, got %+v replicas=%d", d, resources.replicas)
	}

	// 30s later a differing desired count is held back by the cooldown.
	_, d, err = e.Run(ctx, alwaysOnPolicy(4), t0.Add(30*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if d.ShouldScale || !d.InCooldown {
		t.Errorf("expected cooldown to block, got %+v", d)
	}
	if resources.replicas != 2 {
		t.Errorf("replicas changed during cooldown: %d", resources.replicas)
	}

	// After the cooldown expired the divergence is acted on.
	_, d, err = e.Run(ctx, alwaysOnPolicy(4), t0.Add(90*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if !d.ShouldScale || resources.replicas != 4 {
		t.Errorf("expected scale after cooldown expiry, got %+v replicas=%d", d, resources.replicas)
	}
}

func TestFailedApplyDoesNotBlockRetry(t *testing.T) {
	store := state.NewStore(60 * time.Second)
	resources := &fakeResources{exists: true, replicas: 1, applyErr: errors.New("apiserver unavailable")}
	e := NewEngine(store, resources, false)
	ctx := context.Background()
	t0 := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	_, d, err := e.Run(ctx, alwaysOnPolicy(2), t0)
	if err != nil {
		t.Fatalf("apply failures must not surface as cycle errors: %v", err)
	}
	if !d.ShouldScale {
		t.Fatalf("unexpected decision %+v", d)
	}

	history := store.History(state.Filter{})
	if len(history) != 1 || history[0].Success || history[0].Error == "" {
		t.Errorf("failed apply must be recorded with its error, got %v", history)
	}

	// The retry one second later is not in cooldown.
	resources.applyErr = nil
	_, d, err = e.Run(ctx, alwaysOnPolicy(2), t0.Add(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if !d.ShouldScale || resources.replicas != 2 {
		t.Errorf("retry after failed apply should scale, got %+v replicas=%d", d, resources.replicas)
	}
}

func TestDryRunRecordsWithoutApplying(t *testing.T) {
	store := state.NewStore(60 * time.Second)
	resources := &fakeResources{exists: true, replicas: 1}
	e := NewEngine(store, resources, true)
	ctx := context.Background()
	t0 := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	_, d, err := e.Run(ctx, alwaysOnPolicy(3), t0)
	if err != nil {
		t.Fatal(err)
	}
	if !d.ShouldScale {
		t.Fatalf("unexpected decision %+v", d)
	}
	if len(resources.applied) != 0 || resources.replicas != 1 {
		t.Error("dry-run must not write to the cluster")
	}
	if got := store.History(state.Filter{}); len(got) != 1 || !got[0].Success {
		t.Errorf("dry-run should record a successful operation, got %v", got)
	}
	if !store.InCooldown(webID, t0.Add(time.Second)) {
		t.Error("dry-run should arm the cooldown like a real apply")
	}
}

func TestRunSurfacesReadErrors(t *testing.T) {
	resources := &fakeResources{existsErr: errors.New("connection refused")}
	e := NewEngine(state.NewStore(time.Minute), resources, false)

	_, _, err := e.Run(context.Background(), alwaysOnPolicy(2), time.Now())
	if err == nil {
		t.Error("expected an error when the existence check fails")
	}
}

func TestRunSerializesPerIdentity(t *testing.T) {
	store := state.NewStore(time.Hour)
	resources := &fakeResources{exists: true, replicas: 0}
	e := NewEngine(store, resources, false)
	ctx := context.Background()
	t0 := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	done := make(chan struct{})
	for range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			e.Run(ctx, alwaysOnPolicy(2), t0)
		}()
	}
	for range 8 {
		<-done
	}

	// The first cycle through the lock scales and arms the cooldown;
	// every later cycle observes current == desired and stays idle.
	if len(resources.applied) != 1 {
		t.Errorf("expected exactly one apply, got %d", len(resources.applied))
	}
	if st := store.GetState(webID); st.ScaleCount != 1 {
		t.Errorf("ScaleCount = %d; want 1", st.ScaleCount)
	}
}
