// Package cloud stops and starts AWS RDS instances linked to a scaling
// rule, so databases follow their workload into off-hours.
package cloud

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

// RDSAPI is the subset of the RDS client the pauser uses.
type RDSAPI interface {
	DescribeDBInstances(ctx context.Context, params *rds.DescribeDBInstancesInput, optFns ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error)
	StopDBInstance(ctx context.Context, params *rds.StopDBInstanceInput, optFns ...func(*rds.Options)) (*rds.StopDBInstanceOutput, error)
	StartDBInstance(ctx context.Context, params *rds.StartDBInstanceInput, optFns ...func(*rds.Options)) (*rds.StartDBInstanceOutput, error)
}

// Pauser reconciles linked RDS instances against the schedule outcome.
type Pauser struct {
	api RDSAPI
}

// NewPauser builds a pauser from the ambient AWS configuration
// (environment, shared config, instance role).
func NewPauser(ctx context.Context) (*Pauser, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &Pauser{api: rds.NewFromConfig(cfg)}, nil
}

// NewPauserWithAPI builds a pauser over an existing client.
func NewPauserWithAPI(api RDSAPI) *Pauser {
	return &Pauser{api: api}
}

// Sync stops every listed instance when active is false and starts it
// again when active is true. Instances in transitional states are left
// alone; the next cycle picks them up. Per-instance failures are
// collected, not fatal.
func (p *Pauser) Sync(ctx context.Context, instances []string, active bool) error {
	l := log.FromContext(ctx)
	var errs []error

	for _, id := range instances {
		out, err := p.api.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{
			DBInstanceIdentifier: aws.String(id),
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("describing %s: %w", id, err))
			continue
		}
		if len(out.DBInstances) == 0 {
			errs = append(errs, fmt.Errorf("instance %s not found", id))
			continue
		}
		status := aws.ToString(out.DBInstances[0].DBInstanceStatus)

		switch {
		case !active && status == "available":
			l.Info("Stopping RDS instance", "instance", id)
			if _, err := p.api.StopDBInstance(ctx, &rds.StopDBInstanceInput{
				DBInstanceIdentifier: aws.String(id),
			}); err != nil {
				errs = append(errs, fmt.Errorf("stopping %s: %w", id, err))
			}
		case active && status == "stopped":
			l.Info("Starting RDS instance", "instance", id)
			if _, err := p.api.StartDBInstance(ctx, &rds.StartDBInstanceInput{
				DBInstanceIdentifier: aws.String(id),
			}); err != nil {
				errs = append(errs, fmt.Errorf("starting %s: %w", id, err))
			}
		default:
			l.V(1).Info("RDS instance already in desired or transitional state", "instance", id, "status", status)
		}
	}

	return errors.Join(errs...)
}
