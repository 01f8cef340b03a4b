// Package config converts admitted ScalingRule objects into the
// immutable domain policies the evaluator consumes. Everything the
// evaluator sees has passed through here, so malformed rules never
// reach the core.
package config

import (
	"fmt"
	"strings"
	"time"

	easyscalev1 "github.com/migalsp/easyscale-operator/api/v1"
	"github.com/migalsp/easyscale-operator/internal/schedule"
)

var weekdays = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// BuildPolicy validates the rule and builds the domain policy. Warnings
// flag suspicious but legal configurations (duplicate priorities, rules
// that only ever fire on fixed dates); errors reject the rule outright.
func BuildPolicy(rule *easyscalev1.ScalingRule) (*schedule.Policy, []string, error) {
	var errs, warnings []string

	spec := rule.Spec

	kind := schedule.Kind(spec.Target.Kind)
	if kind != schedule.KindDeployment && kind != schedule.KindStatefulSet {
		errs = append(errs, fmt.Sprintf("unsupported target kind %q", spec.Target.Kind))
	}

	targetNamespace := spec.Target.Namespace
	if targetNamespace == "" {
		targetNamespace = rule.Namespace
	}
	if targetNamespace == "" {
		targetNamespace = "default"
	}

	var limits *schedule.Limits
	if spec.Limits != nil {
		if spec.Limits.MinReplicas > spec.Limits.MaxReplicas {
			errs = append(errs, fmt.Sprintf(
				"minReplicas (%d) cannot be greater than maxReplicas (%d)",
				spec.Limits.MinReplicas, spec.Limits.MaxReplicas))
		}
		limits = &schedule.Limits{Min: spec.Limits.MinReplicas, Max: spec.Limits.MaxReplicas}

		if spec.Default.Replicas < spec.Limits.MinReplicas || spec.Default.Replicas > spec.Limits.MaxReplicas {
			errs = append(errs, fmt.Sprintf(
				"default replicas (%d) outside limits [%d, %d]",
				spec.Default.Replicas, spec.Limits.MinReplicas, spec.Limits.MaxReplicas))
		}
	}

	if len(spec.Schedule) == 0 {
		errs = append(errs, "at least one schedule window is required")
	}

	windows := make([]schedule.Window, 0, len(spec.Schedule))
	priorities := make(map[int32][]string)
	defaultMatchesAWindow := false

	for _, sw := range spec.Schedule {
		w, windowErrs, windowWarnings := buildWindow(sw)
		errs = append(errs, windowErrs...)
		warnings = append(warnings, windowWarnings...)

		if spec.Limits != nil && (sw.Replicas < spec.Limits.MinReplicas || sw.Replicas > spec.Limits.MaxReplicas) {
			errs = append(errs, fmt.Sprintf(
				"window %q: replicas (%d) outside limits [%d, %d]",
				sw.Name, sw.Replicas, spec.Limits.MinReplicas, spec.Limits.MaxReplicas))
		}

		priorities[sw.Priority] = append(priorities[sw.Priority], sw.Name)
		if sw.Replicas == spec.Default.Replicas {
			defaultMatchesAWindow = true
		}
		windows = append(windows, w)
	}

	for priority, names := range priorities {
		if len(names) > 1 {
			warnings = append(warnings, fmt.Sprintf(
				"multiple windows with priority %d (%s); the first-declared one wins on overlap",
				priority, strings.Join(names, ", ")))
		}
	}
	if len(spec.Schedule) > 0 && !defaultMatchesAWindow {
		warnings = append(warnings, fmt.Sprintf(
			"default replicas (%d) differs from every window; ensure this is intentional",
			spec.Default.Replicas))
	}

	if len(errs) > 0 {
		return nil, warnings, fmt.Errorf("invalid scaling rule %s/%s: %s",
			rule.Namespace, rule.Name, strings.Join(errs, "; "))
	}

	return &schedule.Policy{
		Name:      rule.Name,
		Namespace: rule.Namespace,
		Target: schedule.Identity{
			Kind:      kind,
			Namespace: targetNamespace,
			Name:      spec.Target.Name,
		},
		Windows:         windows,
		DefaultReplicas: spec.Default.Replicas,
		Limits:          limits,
	}, warnings, nil
}

func buildWindow(sw easyscalev1.ScheduleWindow) (schedule.Window, []string, []string) {
	var errs, warnings []string

	w := schedule.Window{
		Name:     sw.Name,
		Replicas: sw.Replicas,
		Priority: sw.Priority,
		Timezone: sw.Timezone,
	}
	if w.Timezone == "" {
		w.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(w.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf(
			"window %q: invalid timezone %q, use IANA names like \"UTC\" or \"America/New_York\"",
			sw.Name, w.Timezone))
	}

	for _, day := range sw.Days {
		wd, ok := weekdays[day]
		if !ok {
			errs = append(errs, fmt.Sprintf("window %q: unknown weekday %q", sw.Name, day))
			continue
		}
		w.Days = append(w.Days, wd)
	}

	for _, date := range sw.Dates {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			errs = append(errs, fmt.Sprintf("window %q: invalid date %q, expected YYYY-MM-DD", sw.Name, date))
			continue
		}
		w.Dates = append(w.Dates, date)
	}

	if len(sw.Days) == 0 && len(sw.Dates) == 0 {
		errs = append(errs, fmt.Sprintf("window %q: at least one of days or dates must be set", sw.Name))
	} else if len(sw.Dates) > 0 && len(sw.Days) == 0 {
		warnings = append(warnings, fmt.Sprintf(
			"window %q uses specific dates without recurring days and only applies on those dates", sw.Name))
	}

	if sw.TimeStart != "" {
		start, err := parseClock(sw.TimeStart)
		if err != nil {
			errs = append(errs, fmt.Sprintf("window %q: invalid timeStart %q", sw.Name, sw.TimeStart))
		} else {
			w.Start = start
		}
	}
	if sw.TimeEnd != "" {
		end, err := parseClock(sw.TimeEnd)
		if err != nil {
			errs = append(errs, fmt.Sprintf("window %q: invalid timeEnd %q", sw.Name, sw.TimeEnd))
		} else {
			w.End = end
		}
	}
	if w.Start != nil && w.End != nil && w.Start.Minutes() >= w.End.Minutes() {
		errs = append(errs, fmt.Sprintf(
			"window %q: timeStart (%s) must be before timeEnd (%s); use two windows for ranges spanning midnight",
			sw.Name, w.Start, w.End))
	}

	return w, errs, warnings
}

func parseClock(value string) (*schedule.ClockTime, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(value, "%d:%d", &hour, &minute); err != nil {
		return nil, err
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("time %q out of range", value)
	}
	return &schedule.ClockTime{Hour: hour, Minute: minute}, nil
}
