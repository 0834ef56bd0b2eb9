// Package httptransport is the thin HTTP layer over the recall lifecycle
// service. It parses and validates request shapes, attributes an actor per
// route, and translates coded domain errors into HTTP statuses. No business
// logic lives here.
package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"guardian/internal/platform/metrics"
	"guardian/internal/platform/middleware"
	platformredis "guardian/internal/platform/redis"
	"guardian/internal/recall"
	recallservice "guardian/internal/recall/service"
	dErrors "guardian/pkg/domain-errors"
	"guardian/pkg/platform/httputil"
	"guardian/pkg/requestcontext"
)

// Actor attribution per command surface, mirroring the upstream callers of
// each route.
const (
	actorNotificationsService = "notifications-service"
	actorDistributorPortal    = "distributor-portal"
	actorWarehouse            = "warehouse"
	actorRecallManager        = "recall-manager"
)

// Service defines the lifecycle operations the handler needs.
type Service interface {
	Initiate(ctx context.Context, productName, batchID, reason, initiatedBy string, distributors []recallservice.ObligationInput) (*recall.Recall, error)
	MarkNotificationsSent(ctx context.Context, recallID, actor string) (*recall.Recall, error)
	AcknowledgeDistributor(ctx context.Context, recallID, distributorID, actor string) (*recall.Recall, error)
	UpdateReturns(ctx context.Context, recallID, distributorID string, quantityReturned int64, actor string) (*recall.Recall, error)
	TryClose(ctx context.Context, recallID, actor string) (*recall.Recall, error)
	Get(ctx context.Context, recallID string) (*recall.Recall, error)
	List(ctx context.Context) ([]*recall.Recall, error)
}

// Handler handles the recall command and query endpoints.
type Handler struct {
	logger  *slog.Logger
	recalls Service
	metrics *metrics.Metrics
	redis   *platformredis.Client
	// rateLimitPerMinute caps command requests per client IP when redis is
	// configured.
	rateLimitPerMinute int
}

func New(recalls Service, logger *slog.Logger, m *metrics.Metrics, redis *platformredis.Client, rateLimitPerMinute int) *Handler {
	return &Handler{
		logger:             logger,
		recalls:            recalls,
		metrics:            m,
		redis:              redis,
		rateLimitPerMinute: rateLimitPerMinute,
	}
}

// Register mounts the recall routes with the shared middleware chain.
func (h *Handler) Register(r chi.Router) {
	recallRouter := chi.NewRouter()
	recallRouter.Use(middleware.Recovery(h.logger))
	recallRouter.Use(middleware.RequestID)
	recallRouter.Use(middleware.RequestTime)
	recallRouter.Use(middleware.Tracing)
	recallRouter.Use(middleware.Logger(h.logger))
	recallRouter.Use(middleware.Timeout(30 * time.Second))
	recallRouter.Use(middleware.ContentTypeJSON)
	recallRouter.Use(middleware.Latency(h.metrics))
	recallRouter.Use(middleware.RateLimit(h.redis, h.rateLimitPerMinute, h.logger))

	recallRouter.Get("/", h.handleList)
	recallRouter.Get("/{recallID}", h.handleGet)
	recallRouter.Post("/initiate", h.handleInitiate)
	recallRouter.Post("/{recallID}/notifications/sent", h.handleNotificationsSent)
	recallRouter.Post("/{recallID}/acknowledge", h.handleAcknowledge)
	recallRouter.Post("/{recallID}/returns", h.handleReturns)
	recallRouter.Post("/{recallID}/close", h.handleClose)

	r.Mount("/api/recalls", recallRouter)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	recalls, err := h.recalls.List(r.Context())
	if err != nil {
		h.writeError(r.Context(), w, "list recalls", err)
		return
	}
	if recalls == nil {
		recalls = []*recall.Recall{}
	}
	httputil.WriteJSON(w, http.StatusOK, recalls)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	aggregate, err := h.recalls.Get(r.Context(), chi.URLParam(r, "recallID"))
	if err != nil {
		h.writeError(r.Context(), w, "get recall", err)
		return
	}
	if aggregate == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "recall not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, aggregate)
}

func (h *Handler) handleInitiate(w http.ResponseWriter, r *http.Request) {
	var req InitiateRecallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	distributors := make([]recallservice.ObligationInput, len(req.Distributors))
	for i, d := range req.Distributors {
		distributors[i] = recallservice.ObligationInput{
			DistributorID:       d.DistributorID,
			DistributorName:     d.DistributorName,
			ContactEmail:        d.ContactEmail,
			QuantityDistributed: d.QuantityDistributed,
		}
	}

	aggregate, err := h.recalls.Initiate(r.Context(), req.ProductName, req.BatchID, req.Reason, req.InitiatedBy, distributors)
	if err != nil {
		h.writeError(r.Context(), w, "initiate recall", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, aggregate)
}

func (h *Handler) handleNotificationsSent(w http.ResponseWriter, r *http.Request) {
	aggregate, err := h.recalls.MarkNotificationsSent(r.Context(), chi.URLParam(r, "recallID"), actorNotificationsService)
	if err != nil {
		h.writeError(r.Context(), w, "mark notifications sent", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, aggregate)
}

func (h *Handler) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	var req AcknowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	aggregate, err := h.recalls.AcknowledgeDistributor(r.Context(), chi.URLParam(r, "recallID"), req.DistributorID, actorDistributorPortal)
	if err != nil {
		h.writeError(r.Context(), w, "acknowledge distributor", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, aggregate)
}

func (h *Handler) handleReturns(w http.ResponseWriter, r *http.Request) {
	var req ReturnsUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	aggregate, err := h.recalls.UpdateReturns(r.Context(), chi.URLParam(r, "recallID"), req.DistributorID, req.QuantityReturned, actorWarehouse)
	if err != nil {
		h.writeError(r.Context(), w, "update returns", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, aggregate)
}

func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request) {
	aggregate, err := h.recalls.TryClose(r.Context(), chi.URLParam(r, "recallID"), actorRecallManager)
	if err != nil {
		h.writeError(r.Context(), w, "close recall", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, aggregate)
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, op+" failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}
