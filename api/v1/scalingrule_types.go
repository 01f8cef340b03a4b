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

package v1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// TargetRef identifies the workload a ScalingRule manages.
type TargetRef struct {
	// Kind of the target resource
	// +kubebuilder:validation:Enum=Deployment;StatefulSet
	Kind string `json:"kind"`

	// Name of the target resource
	// +kubebuilder:validation:Required
	// +kubebuilder:validation:MaxLength=253
	Name string `json:"name"`

	// Namespace of the target resource
	// +kubebuilder:default=default
	// +optional
	Namespace string `json:"namespace,omitempty"`
}

// ScheduleWindow defines one time-based condition and the replica count
// to apply while it holds.
type ScheduleWindow struct {
	// Name is a human-readable identifier for this window
	// +kubebuilder:validation:Required
	Name string `json:"name"`

	// Days of week when this window applies
	// +optional
	// +listType=atomic
	// +kubebuilder:validation:items:Enum=Monday;Tuesday;Wednesday;Thursday;Friday;Saturday;Sunday
	Days []string `json:"days,omitempty"`

	// Dates lists specific calendar dates (YYYY-MM-DD) when this window applies
	// +optional
	// +listType=atomic
	// +kubebuilder:validation:items:Pattern=`^\d{4}-\d{2}-\d{2}$`
	Dates []string `json:"dates,omitempty"`

	// TimeStart in HH:MM format, inclusive
	// +kubebuilder:validation:Pattern=`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`
	// +optional
	TimeStart string `json:"timeStart,omitempty"`

	// TimeEnd in HH:MM format, exclusive
	// +kubebuilder:validation:Pattern=`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`
	// +optional
	TimeEnd string `json:"timeEnd,omitempty"`

	// Replicas to apply while this window is active
	// +kubebuilder:validation:Minimum=0
	Replicas int32 `json:"replicas"`

	// Priority for conflict resolution, higher wins. Ties are broken by
	// declaration order.
	// +optional
	Priority int32 `json:"priority,omitempty"`

	// Timezone is the IANA timezone the window is evaluated in
	// (e.g. "UTC", "America/New_York")
	// +kubebuilder:default=UTC
	// +optional
	Timezone string `json:"timezone,omitempty"`
}

// DefaultConfig is applied when no schedule window matches.
type DefaultConfig struct {
	// Replicas when no window matches
	// +kubebuilder:validation:Minimum=0
	Replicas int32 `json:"replicas"`
}

// ScalingLimits bound every replica count this rule may produce.
type ScalingLimits struct {
	// MinReplicas is the lowest replica count ever applied
	// +kubebuilder:validation:Minimum=0
	MinReplicas int32 `json:"minReplicas"`

	// MaxReplicas is the highest replica count ever applied
	// +kubebuilder:validation:Minimum=1
	MaxReplicas int32 `json:"maxReplicas"`
}

// ScalingRuleSpec defines the desired state of ScalingRule
type ScalingRuleSpec struct {
	// Target resource to scale
	// +kubebuilder:validation:Required
	Target TargetRef `json:"target"`

	// Schedule lists the windows evaluated each cycle
	// +kubebuilder:validation:MinItems=1
	// +listType=atomic
	Schedule []ScheduleWindow `json:"schedule"`

	// Default configuration when no window matches
	// +kubebuilder:validation:Required
	Default DefaultConfig `json:"default"`

	// Limits clamp every computed replica count
	// +optional
	Limits *ScalingLimits `json:"limits,omitempty"`

	// RDSInstances lists AWS RDS instance identifiers that are stopped
	// while the schedule holds the workload at zero replicas and started
	// again otherwise.
	// +optional
	// +listType=atomic
	RDSInstances []string `json:"rdsInstances,omitempty"`
}

// ScalingRuleStatus defines the observed state of ScalingRule.
type ScalingRuleStatus struct {
	// Phase is the outcome of the last cycle
	// (Scaled, Steady, Cooldown, TargetMissing, Invalid, Error)
	// +optional
	Phase string `json:"phase,omitempty"`

	// DesiredReplicas computed by the last evaluation
	// +optional
	DesiredReplicas *int32 `json:"desiredReplicas,omitempty"`

	// MatchedWindow is the name of the window that won the last evaluation,
	// empty when the default applied
	// +optional
	MatchedWindow string `json:"matchedWindow,omitempty"`

	// LastEvaluation is when the schedule was last evaluated
	// +optional
	LastEvaluation metav1.Time `json:"lastEvaluation,omitempty"`

	// LastScaleTime is when a scaling operation last succeeded
	// +optional
	LastScaleTime metav1.Time `json:"lastScaleTime,omitempty"`

	// Conditions represent the current state of the ScalingRule resource.
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Target",type=string,JSONPath=`.spec.target.name`
// +kubebuilder:printcolumn:name="Desired",type=integer,JSONPath=`.status.desiredReplicas`
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`

// ScalingRule is the Schema for the scalingrules API
type ScalingRule struct {
	metav1.TypeMeta `json:",inline"`

	// metadata is a standard object metadata
	// +optional
	metav1.ObjectMeta `json:"metadata,omitzero"`

	// spec defines the desired state of ScalingRule
	// +required
	Spec ScalingRuleSpec `json:"spec"`

	// status defines the observed state of ScalingRule
	// +optional
	Status ScalingRuleStatus `json:"status,omitzero"`
}

// +kubebuilder:object:root=true

// ScalingRuleList contains a list of ScalingRule
type ScalingRuleList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitzero"`
	Items           []ScalingRule `json:"items"`
}

func init() {
	SchemeBuilder.Register(&ScalingRule{}, &ScalingRuleList{})
}
