// Package handler exposes the intake flow over HTTP.
package handler

import (
	"errors"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/remedytax/intake-engine/internal/audit"
	"github.com/remedytax/intake-engine/internal/expense"
	"github.com/remedytax/intake-engine/internal/model"
	"github.com/remedytax/intake-engine/internal/payment"
	"github.com/remedytax/intake-engine/internal/wizard"
)

// timeNow is swapped in tests.
var timeNow = time.Now

// Handler routes session and step requests.
type Handler struct {
	store     *Store
	engine    *wizard.Engine
	collector *payment.Collector
	sink      *audit.Sink
	log       *zap.Logger
}

// New wires the HTTP surface.
func New(engine *wizard.Engine, collector *payment.Collector, sink *audit.Sink, log *zap.Logger) *Handler {
	return &Handler{
		store:     NewStore(),
		engine:    engine,
		collector: collector,
		sink:      sink,
		log:       log,
	}
}

type errorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type stepResponse struct {
	SessionID   string          `json:"sessionId"`
	CurrentStep model.StepID    `json:"currentStep"`
	Advanced    bool            `json:"advanced"`
	Messages    []model.Message `json:"messages"`

	// Extra content for specific screens.
	Programs                []wizard.Program `json:"programs,omitempty"`
	IRSFormsDescription     string           `json:"irsFormsDescription,omitempty"`
	TotalExpenses           string           `json:"totalExpenses,omitempty"`
	EstimatedResolutionDate string           `json:"estimatedResolutionDate,omitempty"`

	Form *model.FormState `json:"form"`
}

type paymentRequest struct {
	SourceID string `json:"sourceId"`
}

type paymentResponse struct {
	SessionID   string          `json:"sessionId"`
	CurrentStep model.StepID    `json:"currentStep"`
	Outcome     payment.Outcome `json:"outcome"`
	Message     string          `json:"message,omitempty"`
	FailedStage payment.Stage   `json:"failedStage,omitempty"`
	PaymentID   string          `json:"paymentId,omitempty"`
	ScheduledID string          `json:"scheduledPaymentId,omitempty"`
}

// Serve is the fasthttp request handler.
func (h *Handler) Serve(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	method := string(ctx.Method())

	if path == "/sessions" && method == fasthttp.MethodPost {
		h.createSession(ctx)
		return
	}

	rest, ok := strings.CutPrefix(path, "/sessions/")
	if !ok {
		h.writeError(ctx, fasthttp.StatusNotFound, "not found")
		return
	}
	id, action, _ := strings.Cut(rest, "/")
	sess, err := h.store.Get(id)
	if err != nil {
		h.writeError(ctx, fasthttp.StatusNotFound, "session not found")
		return
	}

	switch {
	case action == "" && method == fasthttp.MethodGet:
		h.snapshot(ctx, sess)
	case action == "" && method == fasthttp.MethodDelete:
		h.store.Delete(sess.ID)
		ctx.SetStatusCode(fasthttp.StatusNoContent)
	case action == "next" && method == fasthttp.MethodPost:
		h.next(ctx, sess)
	case action == "previous" && method == fasthttp.MethodPost:
		h.previous(ctx, sess)
	case action == "payment" && method == fasthttp.MethodPost:
		h.payment(ctx, sess)
	default:
		h.writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) createSession(ctx *fasthttp.RequestCtx) {
	sess := h.store.Create(h.engine.First())
	h.log.Info("session started", zap.String("session", sess.ID))
	h.writeJSON(ctx, fasthttp.StatusCreated, h.stepView(sess, false, nil))
}

func (h *Handler) snapshot(ctx *fasthttp.RequestCtx, sess *Session) {
	sess.Lock()
	defer sess.Unlock()
	msgs, err := h.engine.Gate(sess.Step, sess.Form)
	if err != nil {
		h.writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, h.stepView(sess, false, msgs))
}

func (h *Handler) next(ctx *fasthttp.RequestCtx, sess *Session) {
	sess.Lock()
	defer sess.Unlock()

	from := sess.Step
	nextStep, msgs, err := h.engine.Next(from, sess.Form, ctx.PostBody())
	if err != nil {
		if errors.Is(err, wizard.ErrTerminalStep) {
			h.writeError(ctx, fasthttp.StatusConflict, err.Error())
			return
		}
		h.writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	advanced := nextStep != from
	if advanced && from == model.StepSubmit {
		// The processing sequence runs between Submit and the eligibility
		// result. Cancelled when the client goes away.
		if err := wizard.RunProcessing(ctx, wizard.ProcessingPhases, nil); err != nil {
			h.log.Info("processing cancelled", zap.String("session", sess.ID), zap.Error(err))
			return
		}
		h.sink.Record(sess.ID, sess.Form)
	}
	sess.Step = nextStep
	h.log.Info("step submitted",
		zap.String("session", sess.ID),
		zap.String("from", string(from)),
		zap.String("to", string(nextStep)),
		zap.Bool("advanced", advanced))
	h.writeJSON(ctx, fasthttp.StatusOK, h.stepView(sess, advanced, msgs))
}

func (h *Handler) previous(ctx *fasthttp.RequestCtx, sess *Session) {
	sess.Lock()
	defer sess.Unlock()

	prev, err := h.engine.Previous(sess.Step, sess.Form)
	if err != nil {
		h.writeError(ctx, fasthttp.StatusConflict, err.Error())
		return
	}
	sess.Step = prev
	h.writeJSON(ctx, fasthttp.StatusOK, h.stepView(sess, false, nil))
}

func (h *Handler) payment(ctx *fasthttp.RequestCtx, sess *Session) {
	sess.Lock()
	defer sess.Unlock()

	if sess.Step != model.StepPaymentCollection {
		h.writeError(ctx, fasthttp.StatusConflict, "session is not at payment collection")
		return
	}
	var req paymentRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.SourceID == "" {
		h.writeError(ctx, fasthttp.StatusBadRequest, "sourceId is required")
		return
	}

	res := h.collector.Collect(ctx, sess.Form, req.SourceID)
	resp := paymentResponse{
		SessionID:   sess.ID,
		CurrentStep: sess.Step,
		Outcome:     res.Outcome,
		FailedStage: res.FailedStage,
	}
	if res.First != nil {
		resp.PaymentID = res.First.PaymentID
	}
	if res.Scheduled != nil {
		resp.ScheduledID = res.Scheduled.PaymentID
	}
	if res.Err != nil {
		resp.Message = res.Err.Error()
	}

	switch res.Outcome {
	case payment.OutcomeSucceeded:
		sess.Step = model.StepConfirmation
		resp.CurrentStep = sess.Step
		h.writeJSON(ctx, fasthttp.StatusOK, resp)
	case payment.OutcomePartial:
		// The first charge went through; the session stays on the payment
		// step so the client sees the partial state, with entered data kept.
		h.writeJSON(ctx, fasthttp.StatusOK, resp)
	default:
		h.writeJSON(ctx, fasthttp.StatusPaymentRequired, resp)
	}
}

// stepView assembles the response for the session's current step, attaching
// screen-specific derived content.
func (h *Handler) stepView(sess *Session, advanced bool, msgs []model.Message) stepResponse {
	if msgs == nil {
		msgs = []model.Message{}
	}
	resp := stepResponse{
		SessionID:   sess.ID,
		CurrentStep: sess.Step,
		Advanced:    advanced,
		Messages:    msgs,
		Form:        sess.Form,
	}
	switch sess.Step {
	case model.StepEligibilityResult:
		resp.Programs = wizard.ReliefPrograms(sess.Form)
	case model.StepAgreementSigning:
		resp.IRSFormsDescription = wizard.IRSFormsDescription(sess.Form)
		if d, err := wizard.EstimatedResolutionDate(sess.Form, timeNow()); err == nil {
			resp.EstimatedResolutionDate = d.Format("2006-01-02")
		}
	case model.StepAssetDetails, model.StepReviewAndConfirm:
		if total, err := expense.TotalExpenses(sess.Form); err == nil {
			resp.TotalExpenses = total.StringFixed(2)
		}
	}
	return resp
}

func (h *Handler) writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	if err := json.NewEncoder(ctx).Encode(v); err != nil {
		h.log.Error("response encoding failed", zap.Error(err))
	}
}

func (h *Handler) writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	h.writeJSON(ctx, status, errorResponse{Status: status, Message: message})
}
