/*
Copyright 2026 migalsp.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package controller

import (
	"context"
	"time"

	"k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	easyscalev1 "github.com/migalsp/easyscale-operator/api/v1"
	"github.com/migalsp/easyscale-operator/internal/cloud"
	"github.com/migalsp/easyscale-operator/internal/config"
	"github.com/migalsp/easyscale-operator/internal/scaling"
	"github.com/migalsp/easyscale-operator/internal/schedule"
)

// ScalingRuleReconciler reconciles a ScalingRule object
type ScalingRuleReconciler struct {
	client.Client
	Scheme *runtime.Scheme
	Engine *scaling.Engine

	// RDS is optional; when nil, rdsInstances in rule specs are ignored.
	RDS *cloud.Pauser

	// Interval between evaluation cycles for a healthy rule.
	Interval time.Duration
}

// +kubebuilder:rbac:groups=easyscale.io,resources=scalingrules,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=easyscale.io,resources=scalingrules/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=easyscale.io,resources=scalingrules/finalizers,verbs=update
// +kubebuilder:rbac:groups=apps,resources=deployments;statefulsets,verbs=get;list;watch;update;patch

func (r *ScalingRuleReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	l := logf.FromContext(ctx)
	now := time.Now()

	// 1. Fetch the ScalingRule
	rule := &easyscalev1.ScalingRule{}
	if err := r.Get(ctx, req.NamespacedName, rule); err != nil {
		if errors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, err
	}

	// 2. Validate and build the evaluation policy
	policy, warnings, err := config.BuildPolicy(rule)
	if err != nil {
		l.Info("Rejecting invalid ScalingRule", "error", err.Error())
		rule.Status.Phase = "Invalid"
		rule.Status.LastEvaluation = metav1.NewTime(now)
		meta.SetStatusCondition(&rule.Status.Conditions, metav1.Condition{
			Type:    "Ready",
			Status:  metav1.ConditionFalse,
			Reason:  "InvalidSpec",
			Message: err.Error(),
		})
		if err := r.Status().Update(ctx, rule); err != nil {
			return ctrl.Result{}, err
		}
		// A spec change retriggers reconciliation, no point requeueing.
		return ctrl.Result{}, nil
	}
	for _, w := range warnings {
		l.Info("ScalingRule configuration warning", "warning", w)
	}

	// 3. Run one evaluate/decide/apply cycle
	res, decision, err := r.Engine.Run(ctx, policy, now)
	if err != nil {
		l.Error(err, "evaluation cycle failed")
		rule.Status.Phase = "Error"
		rule.Status.LastEvaluation = metav1.NewTime(now)
		meta.SetStatusCondition(&rule.Status.Conditions, metav1.Condition{
			Type:    "Ready",
			Status:  metav1.ConditionFalse,
			Reason:  "CycleFailed",
			Message: err.Error(),
		})
		if serr := r.Status().Update(ctx, rule); serr != nil {
			return ctrl.Result{}, serr
		}
		return ctrl.Result{RequeueAfter: r.interval()}, err
	}

	// 4. Keep linked RDS instances aligned with the workload, best effort
	if r.RDS != nil && len(rule.Spec.RDSInstances) > 0 {
		active := res.DesiredReplicas > 0
		if err := r.RDS.Sync(ctx, rule.Spec.RDSInstances, active); err != nil {
			l.Error(err, "failed to sync RDS instances")
		}
	}

	// 5. Update status
	phase, applied := r.phaseFor(policy.Target, decision, now)

	rule.Status.Phase = phase
	rule.Status.DesiredReplicas = &res.DesiredReplicas
	rule.Status.MatchedWindow = decision.WindowName
	rule.Status.LastEvaluation = metav1.NewTime(now)
	if applied {
		rule.Status.LastScaleTime = metav1.NewTime(now)
	}
	meta.SetStatusCondition(&rule.Status.Conditions, metav1.Condition{
		Type:    "Ready",
		Status:  metav1.ConditionTrue,
		Reason:  phase,
		Message: decision.Reason,
	})

	if err := r.Status().Update(ctx, rule); err != nil {
		return ctrl.Result{}, err
	}

	return ctrl.Result{RequeueAfter: r.interval()}, nil
}

// phaseFor maps a decision to the status phase. A ShouldScale decision
// only counts as Scaled when the store confirms the apply landed; the
// engine records apply failures instead of returning them.
func (r *ScalingRuleReconciler) phaseFor(id schedule.Identity, d scaling.Decision, now time.Time) (string, bool) {
	switch {
	case d.TargetMissing:
		return "TargetMissing", false
	case d.InCooldown:
		return "Cooldown", false
	case !d.ShouldScale:
		return "Steady", false
	}

	st := r.Engine.Store.GetState(id)
	if st.LastScaleTime != nil && st.LastScaleTime.Equal(now) {
		return "Scaled", true
	}
	return "Error", false
}

func (r *ScalingRuleReconciler) interval() time.Duration {
	if r.Interval > 0 {
		return r.Interval
	}
	return time.Minute
}

// SetupWithManager sets up the controller with the Manager.
func (r *ScalingRuleReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&easyscalev1.ScalingRule{}).
		Named("scalingrule").
		Complete(r)
}
