package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/lead-intake/internal/observability/metrics"
	"github.com/wolfman30/lead-intake/pkg/logging"
)

var tracer = otel.Tracer("leadintake.internal.leads")

// DefaultMaxLeadsPerAddress is the cumulative lead cap per source address.
const DefaultMaxLeadsPerAddress = 2

// Notifier delivers a formatted message to the operator channel.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Request is a transport-neutral inbound request.
type Request struct {
	Method  string
	Headers map[string]string
	Body    []byte
}

// Response is a transport-neutral outbound response.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

// Config holds handler policy.
type Config struct {
	MaxLeadsPerAddress int
}

// Deps are the handler collaborators. Nil stores disable the step that uses them;
// a nil Notifier means the operator channel is not configured.
type Deps struct {
	Notifier   Notifier
	RateLimits RateLimitStore
	Records    RecordStore
	Guard      AddressGuard
	Metrics    *metrics.LeadMetrics
	Logger     *logging.Logger
}

// Handler accepts lead form submissions.
type Handler struct {
	maxPerAddress int
	notifier      Notifier
	rateLimits    RateLimitStore
	records       RecordStore
	guard         AddressGuard
	metrics       *metrics.LeadMetrics
	logger        *logging.Logger
}

// NewHandler creates a new lead intake handler
func NewHandler(cfg Config, deps Deps) *Handler {
	if cfg.MaxLeadsPerAddress <= 0 {
		cfg.MaxLeadsPerAddress = DefaultMaxLeadsPerAddress
	}
	if deps.Logger == nil {
		deps.Logger = logging.Default()
	}
	return &Handler{
		maxPerAddress: cfg.MaxLeadsPerAddress,
		notifier:      deps.Notifier,
		rateLimits:    deps.RateLimits,
		records:       deps.Records,
		guard:         deps.Guard,
		metrics:       deps.Metrics,
		logger:        deps.Logger,
	}
}

type successBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Handle runs one submission through preflight, validation, rate limiting,
// notification and persistence.
func (h *Handler) Handle(ctx context.Context, req Request) Response {
	method := strings.ToUpper(strings.TrimSpace(req.Method))

	ctx, span := tracer.Start(ctx, "leads.submit")
	defer span.End()
	span.SetAttributes(attribute.String("http.method", method))

	switch method {
	case http.MethodOptions:
		return preflightResponse()
	case http.MethodPost:
	default:
		h.metrics.ObserveSubmission(OutcomeMethodNotAllowed, false)
		return jsonResponse(http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed"})
	}

	lead, err := h.submit(ctx, req)
	spam := lead != nil && lead.IsSpam
	if err != nil {
		status, message := statusFor(err)
		h.metrics.ObserveSubmission(outcomeFor(err), spam)
		span.RecordError(err)
		span.SetStatus(codes.Error, message)
		span.SetAttributes(attribute.Int("http.status_code", status))
		return jsonResponse(status, errorBody{Error: message})
	}

	h.metrics.ObserveSubmission(OutcomeAccepted, spam)
	span.SetAttributes(attribute.Int("http.status_code", http.StatusOK), attribute.Bool("leadintake.spam", spam))
	return jsonResponse(http.StatusOK, successBody{Success: true, Message: "Lead submitted successfully"})
}

func (h *Handler) submit(ctx context.Context, req Request) (*Lead, error) {
	body, err := decodeSubmitRequest(req.Body)
	if err != nil {
		h.logger.Warn("failed to decode request", "error", err)
		return nil, err
	}

	lead := ExtractLead(body, req.Headers)
	log := h.logger.With("ip", lead.IPAddress)
	log.Info("lead received",
		"country_code", lead.CountryCode,
		"platform", lead.Platform,
		"is_spam", lead.IsSpam,
	)
	if lead.IsSpam {
		log.Info("lead flagged as spam", "reason", lead.SpamReason)
	}

	if err := lead.Validate(); err != nil {
		log.Info("lead rejected", "error", err)
		return lead, err
	}

	if h.notifier == nil {
		log.Error("operator channel credentials missing")
		return lead, ErrConfiguration
	}

	release, err := h.reserveAddress(ctx, log, lead.IPAddress)
	if err != nil {
		return lead, err
	}
	defer release()

	if err := h.checkRateLimit(ctx, log, lead.IPAddress); err != nil {
		return lead, err
	}

	start := time.Now()
	err = h.notifier.Send(ctx, FormatNotification(lead))
	h.metrics.ObserveNotifyLatency(time.Since(start).Seconds())
	if err != nil {
		log.Error("failed to notify operator", "error", err)
		return lead, &DeliveryError{Err: err}
	}
	log.Info("operator notified")

	h.persist(ctx, log, lead)
	return lead, nil
}

// reserveAddress takes the in-flight guard for address. Guard failures fail open.
func (h *Handler) reserveAddress(ctx context.Context, log *logging.Logger, address string) (func(), error) {
	noop := func() {}
	if h.guard == nil || h.rateLimits == nil || address == UnknownAddress {
		return noop, nil
	}
	token, ok, err := h.guard.Acquire(ctx, address)
	if err != nil {
		log.Warn("inflight guard unavailable, continuing", "error", err)
		return noop, nil
	}
	if !ok {
		log.Info("concurrent submission from address rejected")
		return noop, ErrRateLimitExceeded
	}
	return func() {
		// The request context may already be cancelled; release on a fresh one.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := h.guard.Release(releaseCtx, address, token); err != nil {
			log.Warn("failed to release inflight guard", "error", err)
		}
	}, nil
}

// checkRateLimit enforces the cumulative per-address cap. Unknown addresses are not limited
// and store failures fail open.
func (h *Handler) checkRateLimit(ctx context.Context, log *logging.Logger, address string) error {
	if h.rateLimits == nil || address == UnknownAddress {
		return nil
	}
	count, err := h.rateLimits.CountByAddress(ctx, address)
	if err != nil {
		h.metrics.ObserveStoreError("count")
		log.Error("rate limit check failed, continuing", "error", &StoreError{Op: "count", Err: err})
		return nil
	}
	log.Info("leads already stored for address", "count", count, "max", h.maxPerAddress)
	if count >= h.maxPerAddress {
		log.Warn("address lead cap reached")
		return ErrRateLimitExceeded
	}
	return nil
}

// persist stores the lead on a best-effort basis; the operator has already been notified.
func (h *Handler) persist(ctx context.Context, log *logging.Logger, lead *Lead) {
	if h.records == nil {
		return
	}
	if err := h.records.Insert(ctx, lead); err != nil {
		h.metrics.ObserveStoreError("insert")
		log.Error("failed to save lead", "error", &StoreError{Op: "insert", Err: err})
		return
	}
	log.Info("lead saved", "id", lead.ID)
}

func decodeSubmitRequest(body []byte) (SubmitRequest, error) {
	var req SubmitRequest
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return req, nil
}

// Submission outcomes reported to metrics.
const (
	OutcomeAccepted         = "accepted"
	OutcomeInvalid          = "invalid"
	OutcomeBadRequest       = "bad_request"
	OutcomeRateLimited      = "rate_limited"
	OutcomeMisconfigured    = "misconfigured"
	OutcomeDeliveryFailed   = "delivery_failed"
	OutcomeMethodNotAllowed = "method_not_allowed"
)

func statusFor(err error) (int, string) {
	var deliveryErr *DeliveryError
	switch {
	case errors.Is(err, ErrInvalidBody):
		return http.StatusBadRequest, "Invalid request body"
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, "Missing required fields"
	case errors.Is(err, ErrRateLimitExceeded):
		return http.StatusTooManyRequests, "Too many requests from this IP address"
	case errors.Is(err, ErrConfiguration):
		return http.StatusInternalServerError, "Telegram credentials not configured"
	case errors.As(err, &deliveryErr):
		return http.StatusInternalServerError, "Failed to send message: " + deliveryErr.Err.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func outcomeFor(err error) string {
	var deliveryErr *DeliveryError
	switch {
	case errors.Is(err, ErrInvalidBody):
		return OutcomeBadRequest
	case errors.Is(err, ErrValidation):
		return OutcomeInvalid
	case errors.Is(err, ErrRateLimitExceeded):
		return OutcomeRateLimited
	case errors.Is(err, ErrConfiguration):
		return OutcomeMisconfigured
	case errors.As(err, &deliveryErr):
		return OutcomeDeliveryFailed
	default:
		return "error"
	}
}

func preflightResponse() Response {
	return Response{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Access-Control-Allow-Origin":  "*",
			"Access-Control-Allow-Methods": "POST, OPTIONS",
			"Access-Control-Allow-Headers": "Content-Type",
			"Access-Control-Max-Age":       "86400",
		},
	}
}

func jsonResponse(status int, payload any) Response {
	body, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"Internal server error"}`)
	}
	return Response{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}
}
