// Package bot routes inbound user events to extraction, the context store,
// and the completion client, and renders every result as a fixed user-facing
// reply string.
package bot

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/hyperjump/kiku/internal/ai"
	"github.com/hyperjump/kiku/internal/store"
)

// Extractor extracts text from an uploaded attachment.
type Extractor interface {
	Supported(filename string) bool
	ExtractUpload(filename string, content []byte, tempDir string) (string, error)
}

// Responder answers a query against document text with a classified outcome.
type Responder interface {
	Respond(ctx context.Context, documentText, userQuery string, maxTextLength int) ai.Outcome
}

// Orchestrator handles one inbound event at a time per call. It holds no
// per-user state itself; all state lives in the context store, so each user
// is in one of two states: no context, or has context.
type Orchestrator struct {
	store         store.Store
	extractor     Extractor
	responder     Responder
	maxTextLength int
	tempDir       string
	logger        *zap.Logger
}

// NewOrchestrator creates an orchestrator with the given collaborators.
func NewOrchestrator(
	st store.Store,
	extractor Extractor,
	responder Responder,
	maxTextLength int,
	tempDir string,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		store:         st,
		extractor:     extractor,
		responder:     responder,
		maxTextLength: maxTextLength,
		tempDir:       tempDir,
		logger:        logger,
	}
}

// HandleUpload processes an attachment upload. On success the extracted text
// (truncated to the cap) replaces any previous context for the user. On
// rejection or failure no context is mutated. The reply is always a fixed or
// templated message; stored reports whether a context was created.
func (o *Orchestrator) HandleUpload(ctx context.Context, userID, filename string, data []byte) (reply string, stored bool) {
	// Nothing in the upload path may take down the event handler; unexpected
	// panics become a generic failure reply.
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("upload handling panicked",
				zap.String("user_id", userID),
				zap.String("filename", filename),
				zap.Any("panic", r),
			)
			reply = msgUnexpectedError
			stored = false
		}
	}()

	if !o.extractor.Supported(filename) {
		return unsupportedFormatMessage(), false
	}

	text, err := o.extractor.ExtractUpload(filename, data, o.tempDir)
	if err != nil {
		o.logger.Warn("extraction failed",
			zap.String("user_id", userID),
			zap.String("filename", filename),
			zap.Error(err),
		)
		return fmt.Sprintf(msgExtractionFailed, filename), false
	}
	// A zero-length extraction is treated as failure: an empty context could
	// never answer a question, so the user is told up front.
	if text == "" {
		o.logger.Warn("extraction produced no text",
			zap.String("user_id", userID),
			zap.String("filename", filename),
		)
		return fmt.Sprintf(msgExtractionFailed, filename), false
	}

	truncated := utf8.RuneCountInString(text) > o.maxTextLength
	if err := o.store.Put(ctx, userID, text, filename); err != nil {
		o.logger.Error("context store put failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return msgUnexpectedError, false
	}

	o.logger.Info("context stored",
		zap.String("user_id", userID),
		zap.String("filename", filename),
		zap.Bool("truncated", truncated),
	)
	reply = fmt.Sprintf(msgUploadSuccess, filename)
	if truncated {
		reply = fmt.Sprintf(msgUploadTruncated, o.maxTextLength) + reply
	}
	return reply, true
}

// HandleMessage answers a question against the user's stored context. With
// no context stored, it returns the onboarding prompt without calling the
// completion service.
func (o *Orchestrator) HandleMessage(ctx context.Context, userID, content string) string {
	dc, ok, err := o.store.Get(ctx, userID)
	if err != nil {
		o.logger.Error("context store get failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return msgUnexpectedError
	}
	if !ok {
		return onboardingMessage()
	}

	out := o.responder.Respond(ctx, dc.Text, content, o.maxTextLength)
	o.logger.Debug("completion outcome",
		zap.String("user_id", userID),
		zap.String("outcome", out.Kind.String()),
	)
	return renderOutcome(out)
}

// HandleReset clears the user's context. cleared reports whether anything
// was removed.
func (o *Orchestrator) HandleReset(ctx context.Context, userID string) (reply string, cleared bool) {
	cleared, err := o.store.Clear(ctx, userID)
	if err != nil {
		o.logger.Error("context store clear failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return msgUnexpectedError, false
	}
	if !cleared {
		return msgNothingToReset, false
	}
	return msgReset, true
}

// HandleStatus reports the loaded document without changing state.
func (o *Orchestrator) HandleStatus(ctx context.Context, userID string) string {
	sourceName, length, ok, err := o.store.Status(ctx, userID)
	if err != nil {
		o.logger.Error("context store status failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return msgUnexpectedError
	}
	if !ok {
		return msgStatusEmpty
	}
	return fmt.Sprintf(msgStatusLoaded, sourceName, length)
}

// renderOutcome maps each completion outcome to its fixed user-facing
// message. Answered text passes through verbatim.
func renderOutcome(out ai.Outcome) string {
	switch out.Kind {
	case ai.OutcomeAnswered:
		return out.Text
	case ai.OutcomeBlocked:
		return fmt.Sprintf(msgAIBlocked, out.Reason)
	case ai.OutcomeEmptyResponse:
		return msgAIEmpty
	case ai.OutcomeRateLimited:
		return msgAIRateLimited
	case ai.OutcomeAuthError:
		return msgAIAuthError
	case ai.OutcomeNotConfigured:
		return msgAINotConfigured
	case ai.OutcomeNoContext:
		return onboardingMessage()
	default:
		return msgAIUnknownError
	}
}
