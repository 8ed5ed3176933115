package webhooks

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mirsal-ops/mirsal-backend/api/responses"
	"github.com/mirsal-ops/mirsal-backend/internal/carriers"
	"github.com/mirsal-ops/mirsal-backend/internal/shipments"
	"github.com/mirsal-ops/mirsal-backend/pkg/config"
	"github.com/mirsal-ops/mirsal-backend/pkg/db/models"
	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
	pkgerrors "github.com/mirsal-ops/mirsal-backend/pkg/errors"
	"github.com/mirsal-ops/mirsal-backend/pkg/logger"
	"github.com/mirsal-ops/mirsal-backend/pkg/metrics"
	"github.com/mirsal-ops/mirsal-backend/pkg/types"
)

const (
	secretHeader    = "X-Webhook-Secret"
	signatureHeader = "X-Webhook-Signature"
	timestampHeader = "X-Webhook-Timestamp"
	eventIDHeader   = "X-Event-Id"
)

type trackingService interface {
	RecordEvent(ctx context.Context, input shipments.RecordEventInput) (*shipments.RecordEventResult, error)
}

type tenantFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
}

type idempotencyGuard interface {
	CheckAndMark(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// CarrierWebhookParams wire the inbound carrier webhook handler.
type CarrierWebhookParams struct {
	Tracking trackingService
	Tenants  tenantFinder
	Registry *carriers.Registry
	Guard    idempotencyGuard
	Metrics  *metrics.TrackingMetrics
	Webhook  config.WebhookConfig
	Logger   *logger.Logger
	Now      func() time.Time
}

// CarrierWebhook ingests carrier status notifications. Each tenant's
// integration posts to /webhooks/{carrier}/{tenantID} with the per-carrier
// shared secret; an optional HMAC signature header adds replay protection
// with an exact ±tolerance timestamp window.
func CarrierWebhook(params CarrierWebhookParams) http.HandlerFunc {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	logg := params.Logger

	reject := func(ctx context.Context, w http.ResponseWriter, carrier, reason string, err error) {
		if params.Metrics != nil {
			params.Metrics.IncWebhookRejected(carrier, reason)
		}
		responses.WriteError(ctx, logg, w, err)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		carrier := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "carrier")))
		if logg != nil {
			ctx = logg.WithCarrier(ctx, carrier)
		}

		tenantID, err := uuid.Parse(chi.URLParam(r, "tenantID"))
		if err != nil {
			reject(ctx, w, carrier, "bad_tenant", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tenant id"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			reject(ctx, w, carrier, "body_read", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		tenant, err := params.Tenants.FindByID(ctx, tenantID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			reject(ctx, w, carrier, "tenant_store", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolving tenant"))
			return
		}
		if err != nil || tenant == nil || !tenant.Active {
			// Unknown and revoked tenants read the same as a bad secret.
			reject(ctx, w, carrier, "unknown_tenant", pkgerrors.New(pkgerrors.CodeUnauthorized, "webhook not authorized"))
			return
		}
		if logg != nil {
			ctx = logg.WithTenantID(ctx, tenant.ID.String())
		}

		secret := tenant.WebhookSecret(carrier)
		if secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(r.Header.Get(secretHeader))) != 1 {
			reject(ctx, w, carrier, "bad_secret", pkgerrors.New(pkgerrors.CodeUnauthorized, "webhook not authorized"))
			return
		}

		if sig := r.Header.Get(signatureHeader); sig != "" {
			if err := verifySignature(payload, secret, sig, r.Header.Get(timestampHeader), now(), params.Webhook.SignatureTolerance); err != nil {
				reject(ctx, w, carrier, "bad_signature", err)
				return
			}
		}

		eventID := strings.TrimSpace(r.Header.Get(eventIDHeader))
		if eventID == "" {
			sum := sha256.Sum256(payload)
			eventID = hex.EncodeToString(sum[:])
		}
		eventID = carrier + ":" + tenant.ID.String() + ":" + eventID

		if params.Guard != nil {
			seen, err := params.Guard.CheckAndMark(ctx, eventID)
			if err != nil {
				reject(ctx, w, carrier, "guard", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				return
			}
			if seen {
				responses.WriteSuccess(w, map[string]string{"status": "duplicate"})
				return
			}
		}

		inbound, err := params.Registry.Resolve(carrier).ParseWebhook(payload)
		if err != nil {
			unmark(ctx, params.Guard, eventID)
			reject(ctx, w, carrier, "bad_payload", err)
			return
		}

		result, err := params.Tracking.RecordEvent(ctx, shipments.RecordEventInput{
			TenantID:       tenant.ID,
			OrderReference: inbound.OrderReference,
			Carrier:        carrier,
			TrackingNumber: inbound.TrackingNumber,
			RawStatus:      inbound.RawStatus,
			Location:       inbound.Location,
			Description:    inbound.Description,
			Source:         enums.EventSourceWebhook,
			OccurredAt:     inbound.OccurredAt,
			RawPayload:     rawPayloadMap(payload),
		})
		if err != nil {
			unmark(ctx, params.Guard, eventID)
			reject(ctx, w, carrier, "record", err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// rawPayloadMap keeps the original payload on the ledger event when it is
// a JSON object; anything else is dropped, never rejected.
func rawPayloadMap(payload []byte) types.JSONMap {
	var m types.JSONMap
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil
	}
	return m
}

func unmark(ctx context.Context, guard idempotencyGuard, eventID string) {
	if guard == nil {
		return
	}
	_ = guard.Delete(ctx, eventID)
}

// verifySignature checks an HMAC-SHA256 over "<timestamp>.<body>". The
// timestamp is unix seconds and must sit inside the tolerance window.
func verifySignature(payload []byte, secret, signature, timestamp string, now time.Time, tolerance time.Duration) error {
	if timestamp == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "signature timestamp missing")
	}
	unix, err := strconv.ParseInt(strings.TrimSpace(timestamp), 10, 64)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid signature timestamp")
	}
	sent := time.Unix(unix, 0)
	drift := now.Sub(sent)
	if drift < 0 {
		drift = -drift
	}
	if drift > tolerance {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "signature timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature))) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "signature mismatch")
	}
	return nil
}
