// Package exchange implements the user-submission-to-bot-reply cycle.
//
// A Handler owns no display state of its own: it appends to and removes from
// the conversation.Log injected by its caller. Every accepted submission adds
// one user message and one pending indicator; the indicator is always removed
// before the terminal message (reply or apology) is appended.
package exchange

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/diogo/relaychat/internal/conversation"
	apierrors "github.com/diogo/relaychat/internal/errors"
	"github.com/diogo/relaychat/internal/logging"
	"github.com/diogo/relaychat/internal/models"
)

// Responder produces the bot side of one exchange
type Responder interface {
	Respond(ctx context.Context, req models.ExchangeRequest) models.ExchangeResult
}

// Greeter is implemented by responders that open the conversation themselves
type Greeter interface {
	Greeting() string
}

// ResponderFunc adapts a function to Responder
type ResponderFunc func(ctx context.Context, req models.ExchangeRequest) models.ExchangeResult

func (f ResponderFunc) Respond(ctx context.Context, req models.ExchangeRequest) models.ExchangeResult {
	return f(ctx, req)
}

// Handler runs exchanges against a Responder and records them in a Log
type Handler struct {
	log       conversation.Log
	responder Responder
	logger    logging.Logger
	inFlight  atomic.Bool
}

// HandlerOption configures a Handler
type HandlerOption func(*Handler)

// WithLogger sets the diagnostic logger
func WithLogger(logger logging.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler creates a Handler writing to log
func NewHandler(log conversation.Log, responder Responder, opts ...HandlerOption) *Handler {
	h := &Handler{
		log:       log,
		responder: responder,
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Log returns the conversation log the handler writes to
func (h *Handler) Log() conversation.Log {
	return h.log
}

// InFlight reports whether an exchange is outstanding
func (h *Handler) InFlight() bool {
	return h.inFlight.Load()
}

// Greet appends the opening bot message
func (h *Handler) Greet() {
	text := models.WelcomeText
	if g, ok := h.responder.(Greeter); ok {
		if greeting := g.Greeting(); greeting != "" {
			text = greeting
		}
	}
	h.log.Append(models.NewBotMessage(text))
}

// Submit runs one exchange for text.
//
// Empty input returns ErrEmptyInput and an overlapping call returns
// ErrExchangeInProgress; neither touches the log. Exchange failures are not
// returned as errors: they are already resolved into the apology message, and
// the returned result carries the details.
func (h *Handler) Submit(ctx context.Context, text string) (models.ExchangeResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ExchangeResult{}, apierrors.ErrEmptyInput
	}
	if !h.inFlight.CompareAndSwap(false, true) {
		return models.ExchangeResult{}, apierrors.ErrExchangeInProgress
	}
	defer h.inFlight.Store(false)

	h.log.Append(models.NewUserMessage(text))
	pendingID := h.log.Append(models.NewPendingMessage())

	start := time.Now()
	result := h.responder.Respond(ctx, models.ExchangeRequest{Message: text})

	h.log.Remove(pendingID)

	if result.OK() {
		h.log.Append(models.NewBotMessage(result.Reply))
		h.logger.Debug("exchange completed",
			logging.DurationField("duration", time.Since(start)),
			logging.IntField("reply_length", len(result.Reply)),
		)
		return result, nil
	}

	fields := []logging.Field{
		logging.StringField("kind", result.Kind.String()),
		logging.StringField("message", result.Message),
		logging.DurationField("duration", time.Since(start)),
	}
	if result.StatusCode > 0 {
		fields = append(fields, logging.IntField("status", result.StatusCode))
	}
	if result.Err != nil {
		fields = append(fields, logging.ErrorField(result.Err))
	}
	h.logger.Error("error connecting to the backend", fields...)

	h.log.Append(models.NewBotMessage(models.ApologyText))
	return result, nil
}
