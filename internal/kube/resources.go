// Package kube implements the cluster capability the scaling engine
// consumes: existence checks, replica reads and replica writes for
// Deployments and StatefulSets.
package kube

import (
	"context"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/migalsp/easyscale-operator/internal/schedule"
)

// ResourceManager reads and writes workload replica counts through the
// controller-runtime client.
type ResourceManager struct {
	Client client.Client
}

func (m *ResourceManager) object(kind schedule.Kind) (client.Object, error) {
	switch kind {
	case schedule.KindDeployment:
		return &appsv1.Deployment{}, nil
	case schedule.KindStatefulSet:
		return &appsv1.StatefulSet{}, nil
	}
	return nil, fmt.Errorf("unsupported resource kind %q", kind)
}

func (m *ResourceManager) get(ctx context.Context, id schedule.Identity) (client.Object, error) {
	obj, err := m.object(id.Kind)
	if err != nil {
		return nil, err
	}
	key := client.ObjectKey{Namespace: id.Namespace, Name: id.Name}
	if err := m.Client.Get(ctx, key, obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// Exists reports whether the target resource is present in the cluster.
func (m *ResourceManager) Exists(ctx context.Context, id schedule.Identity) (bool, error) {
	_, err := m.get(ctx, id)
	if apierrors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CurrentReplicas returns the spec replica count of the target. A nil
// replicas field reads as zero.
func (m *ResourceManager) CurrentReplicas(ctx context.Context, id schedule.Identity) (int32, error) {
	obj, err := m.get(ctx, id)
	if err != nil {
		return 0, err
	}
	switch v := obj.(type) {
	case *appsv1.Deployment:
		if v.Spec.Replicas != nil {
			return *v.Spec.Replicas, nil
		}
	case *appsv1.StatefulSet:
		if v.Spec.Replicas != nil {
			return *v.Spec.Replicas, nil
		}
	}
	return 0, nil
}

// SetReplicas updates the spec replica count of the target.
func (m *ResourceManager) SetReplicas(ctx context.Context, id schedule.Identity, replicas int32) error {
	obj, err := m.get(ctx, id)
	if err != nil {
		return err
	}
	switch v := obj.(type) {
	case *appsv1.Deployment:
		v.Spec.Replicas = &replicas
	case *appsv1.StatefulSet:
		v.Spec.Replicas = &replicas
	}
	return m.Client.Update(ctx, obj)
}
