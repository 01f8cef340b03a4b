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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	easyscalev1 "github.com/migalsp/easyscale-operator/api/v1"
	"github.com/migalsp/easyscale-operator/internal/kube"
	"github.com/migalsp/easyscale-operator/internal/scaling"
	"github.com/migalsp/easyscale-operator/internal/state"
)

var _ = Describe("ScalingRule Controller", func() {
	Context("When reconciling a rule over its lifecycle", func() {
		const ruleName = "web-hours"

		ctx := context.Background()

		ruleKey := types.NamespacedName{Name: ruleName, Namespace: "default"}
		targetKey := types.NamespacedName{Name: "web", Namespace: "default"}

		var k8sClient client.Client
		var reconciler *ScalingRuleReconciler

		BeforeEach(func() {
			scheme := runtime.NewScheme()
			utilruntime.Must(clientgoscheme.AddToScheme(scheme))
			utilruntime.Must(easyscalev1.AddToScheme(scheme))

			replicas := int32(5)
			deployment := &appsv1.Deployment{
				ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "default"},
				Spec:       appsv1.DeploymentSpec{Replicas: &replicas},
			}
			rule := &easyscalev1.ScalingRule{
				ObjectMeta: metav1.ObjectMeta{Name: ruleName, Namespace: "default"},
				Spec: easyscalev1.ScalingRuleSpec{
					Target: easyscalev1.TargetRef{Kind: "Deployment", Name: "web", Namespace: "default"},
					Schedule: []easyscalev1.ScheduleWindow{
						{Name: "always", Days: allDays, Replicas: 2},
					},
					Default: easyscalev1.DefaultConfig{Replicas: 1},
					Limits:  &easyscalev1.ScalingLimits{MinReplicas: 1, MaxReplicas: 10},
				},
			}

			k8sClient = fake.NewClientBuilder().
				WithScheme(scheme).
				WithObjects(deployment, rule).
				WithStatusSubresource(&easyscalev1.ScalingRule{}).
				Build()

			store := state.NewStore(time.Minute)
			reconciler = &ScalingRuleReconciler{
				Client: k8sClient,
				Scheme: scheme,
				Engine: scaling.NewEngine(store, &kube.ResourceManager{Client: k8sClient}, false),
			}
		})

		It("should scale the target into its window and report status", func() {
			By("Reconciling the created rule")
			_, err := reconciler.Reconcile(ctx, reconcile.Request{NamespacedName: ruleKey})
			Expect(err).NotTo(HaveOccurred())

			By("Checking the target replicas")
			deployment := &appsv1.Deployment{}
			Expect(k8sClient.Get(ctx, targetKey, deployment)).To(Succeed())
			Expect(*deployment.Spec.Replicas).To(Equal(int32(2)))

			By("Checking the rule status")
			rule := &easyscalev1.ScalingRule{}
			Expect(k8sClient.Get(ctx, ruleKey, rule)).To(Succeed())
			Expect(rule.Status.Phase).To(Equal("Scaled"))
			Expect(rule.Status.MatchedWindow).To(Equal("always"))
			Expect(rule.Status.DesiredReplicas).To(HaveValue(Equal(int32(2))))
			Expect(rule.Status.Conditions).To(HaveLen(1))
			Expect(rule.Status.Conditions[0].Status).To(Equal(metav1.ConditionTrue))
		})

		It("should hold the cooldown after a scale and settle afterwards", func() {
			By("Scaling on the first cycle")
			_, err := reconciler.Reconcile(ctx, reconcile.Request{NamespacedName: ruleKey})
			Expect(err).NotTo(HaveOccurred())

			By("Drifting the target away from its desired count")
			deployment := &appsv1.Deployment{}
			Expect(k8sClient.Get(ctx, targetKey, deployment)).To(Succeed())
			drift := int32(9)
			deployment.Spec.Replicas = &drift
			Expect(k8sClient.Update(ctx, deployment)).To(Succeed())

			By("Reconciling again within the cooldown")
			_, err = reconciler.Reconcile(ctx, reconcile.Request{NamespacedName: ruleKey})
			Expect(err).NotTo(HaveOccurred())

			rule := &easyscalev1.ScalingRule{}
			Expect(k8sClient.Get(ctx, ruleKey, rule)).To(Succeed())
			Expect(rule.Status.Phase).To(Equal("Cooldown"))

			Expect(k8sClient.Get(ctx, targetKey, deployment)).To(Succeed())
			Expect(*deployment.Spec.Replicas).To(Equal(drift))
		})

		It("should report a missing target without erroring", func() {
			By("Deleting the target")
			deployment := &appsv1.Deployment{}
			Expect(k8sClient.Get(ctx, targetKey, deployment)).To(Succeed())
			Expect(k8sClient.Delete(ctx, deployment)).To(Succeed())

			By("Reconciling the rule")
			_, err := reconciler.Reconcile(ctx, reconcile.Request{NamespacedName: ruleKey})
			Expect(err).NotTo(HaveOccurred())

			rule := &easyscalev1.ScalingRule{}
			Expect(k8sClient.Get(ctx, ruleKey, rule)).To(Succeed())
			Expect(rule.Status.Phase).To(Equal("TargetMissing"))
		})
	})
})
