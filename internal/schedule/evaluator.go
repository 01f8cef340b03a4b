package schedule

import (
	"fmt"
	"time"
)

// Result of evaluating a policy at one instant.
type Result struct {
	// DesiredReplicas after limit clamping.
	DesiredReplicas int32

	// Window that won the evaluation, nil when the default applied.
	Window *Window

	Reason      string
	EvaluatedAt time.Time

	// Warnings collects evaluation anomalies (unknown timezones).
	// The evaluation itself continues past them.
	Warnings []string
}

// IsDefault reports whether the default replica count applied.
func (r *Result) IsDefault() bool {
	return r.Window == nil
}

// Evaluate matches every window of the policy against the instant and
// resolves conflicts: the highest priority wins, ties go to the window
// declared first. Without a match the default replicas apply. The
// returned count always satisfies the policy limits.
func Evaluate(p *Policy, at time.Time) Result {
	var warnings []string
	var matched []*Window

	for i := range p.Windows {
		w := &p.Windows[i]
		ok, err := w.Matches(at)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		if ok {
			matched = append(matched, w)
		}
	}

	if len(matched) == 0 {
		desired, clamped := clamp(p.DefaultReplicas, p.Limits)
		reason := "no window matched, using default"
		if clamped {
			reason += clampNote(p.DefaultReplicas, p.Limits)
		}
		return Result{
			DesiredReplicas: desired,
			Reason:          reason,
			EvaluatedAt:     at,
			Warnings:        warnings,
		}
	}

	// Strictly-greater comparison keeps the first-declared window on
	// priority ties.
	best := matched[0]
	for _, w := range matched[1:] {
		if w.Priority > best.Priority {
			best = w
		}
	}

	desired, clamped := clamp(best.Replicas, p.Limits)
	reason := fmt.Sprintf("matched window %q", best.Name)
	if clamped {
		reason += clampNote(best.Replicas, p.Limits)
	}

	return Result{
		DesiredReplicas: desired,
		Window:          best,
		Reason:          reason,
		EvaluatedAt:     at,
		Warnings:        warnings,
	}
}

func clamp(replicas int32, limits *Limits) (int32, bool) {
	if limits == nil {
		return replicas, false
	}
	clamped := min(max(replicas, limits.Min), limits.Max)
	return clamped, clamped != replicas
}

func clampNote(original int32, limits *Limits) string {
	return fmt.Sprintf(", clamped from %d to limits [%d, %d]", original, limits.Min, limits.Max)
}
