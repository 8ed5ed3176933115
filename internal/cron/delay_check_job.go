package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/mirsal-ops/mirsal-backend/internal/shipments"
	"github.com/mirsal-ops/mirsal-backend/pkg/db/models"
	"github.com/mirsal-ops/mirsal-backend/pkg/logger"
)

// DelayCheckJobParams configure the scheduled delay sweep.
type DelayCheckJobParams struct {
	Logger    *logger.Logger
	Tenants   tenantLister
	Shipments delayChecker
}

type tenantLister interface {
	ListActive(ctx context.Context) ([]models.Tenant, error)
}

type delayChecker interface {
	CheckDelays(ctx context.Context, tenantID uuid.UUID) (*shipments.DelayCheckResult, error)
}

// NewDelayCheckJob constructs the delay detection cron job. It sweeps every
// active tenant's open shipments and enqueues delayed_order triggers for the
// ones past a delay threshold.
func NewDelayCheckJob(params DelayCheckJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Tenants == nil {
		return nil, fmt.Errorf("tenant repository required")
	}
	if params.Shipments == nil {
		return nil, fmt.Errorf("shipments service required")
	}
	return &delayCheckJob{
		logg:      params.Logger,
		tenants:   params.Tenants,
		shipments: params.Shipments,
	}, nil
}

type delayCheckJob struct {
	logg      *logger.Logger
	tenants   tenantLister
	shipments delayChecker
}

func (j *delayCheckJob) Name() string { return "delay-check" }

// Run sweeps each active tenant independently. One tenant failing never
// stops the sweep for the rest; failures are combined into the job error.
func (j *delayCheckJob) Run(ctx context.Context) error {
	tenants, err := j.tenants.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("listing active tenants: %w", err)
	}

	var errs []error
	for _, tenant := range tenants {
		tenantCtx := j.logg.WithTenantID(ctx, tenant.ID.String())
		result, err := j.shipments.CheckDelays(tenantCtx, tenant.ID)
		if err != nil {
			j.logg.Error(tenantCtx, "delay sweep failed for tenant", err)
			errs = append(errs, fmt.Errorf("tenant %s: %w", tenant.ID, err))
			continue
		}
		logCtx := j.logg.WithFields(tenantCtx, map[string]any{
			"checked":   result.Checked,
			"delayed":   result.Delayed,
			"triggered": result.Triggered,
		})
		j.logg.Info(logCtx, "delay sweep complete")
	}
	return multierr.Combine(errs...)
}
