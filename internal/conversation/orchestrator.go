package conversation

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/campus-guide-ai/internal/retrieval"
	"github.com/wolfman30/campus-guide-ai/pkg/logging"
)

// MessageRouter classifies one message against the session state.
type MessageRouter interface {
	Route(message string, state ConversationState) RouteDecision
}

// Retriever assembles a context block for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, lang retrieval.Language) retrieval.Result
}

// TurnObserver receives one call per completed turn.
type TurnObserver interface {
	ObserveTurn(intent, path string)
}

// Turn paths reported to the TurnObserver.
const (
	pathAnswer  = "answer"
	pathClarify = "clarify"
	pathReview  = "review"
	pathError   = "error"
)

// sessionLockStripes bounds the lock table; unrelated sessions may share a stripe.
const sessionLockStripes = 256

// OrchestratorDeps are the collaborators of a turn. Router and Places are optional.
type OrchestratorDeps struct {
	Store       StateStore
	Router      MessageRouter
	Retriever   Retriever
	Synthesizer Synthesizer
	Reviews     ReviewService
	Places      PlaceLookup
}

type OrchestratorOption func(*Orchestrator)

func WithTurnObserver(o TurnObserver) OrchestratorOption {
	return func(orc *Orchestrator) {
		orc.observer = o
	}
}

func WithOrchestratorTracer(t trace.Tracer) OrchestratorOption {
	return func(orc *Orchestrator) {
		if t != nil {
			orc.tracer = t
		}
	}
}

// Orchestrator runs a turn: route, then either the review side-channel or
// retrieve-and-synthesize, then persist state. Turns for the same session are serialized.
type Orchestrator struct {
	store       StateStore
	router      MessageRouter
	retriever   Retriever
	synthesizer Synthesizer
	reviews     ReviewService
	places      PlaceLookup
	observer    TurnObserver
	tracer      trace.Tracer
	logger      *logging.Logger

	locks [sessionLockStripes]sync.Mutex
}

func NewOrchestrator(deps OrchestratorDeps, logger *logging.Logger, opts ...OrchestratorOption) *Orchestrator {
	if deps.Store == nil {
		panic("conversation: state store cannot be nil")
	}
	if deps.Retriever == nil {
		panic("conversation: retriever cannot be nil")
	}
	if deps.Synthesizer == nil {
		panic("conversation: synthesizer cannot be nil")
	}
	if deps.Reviews == nil {
		panic("conversation: review service cannot be nil")
	}
	if deps.Router == nil {
		deps.Router = NewRouter()
	}
	if logger == nil {
		logger = logging.Default()
	}
	o := &Orchestrator{
		store:       deps.Store,
		router:      deps.Router,
		retriever:   deps.Retriever,
		synthesizer: deps.Synthesizer,
		reviews:     deps.Reviews,
		places:      deps.Places,
		tracer:      otel.Tracer("campus.internal.conversation"),
		logger:      logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// GenerateResponse answers one message. Only ErrEmptyMessage and ErrModelUnavailable
// are returned; every other failure degrades into a reply.
func (o *Orchestrator) GenerateResponse(ctx context.Context, message, sessionID string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	ctx, span := o.tracer.Start(ctx, "conversation.turn")
	defer span.End()

	lock := o.lockForSession(sessionID)
	lock.Lock()
	defer lock.Unlock()

	state := o.loadState(ctx, sessionID)
	decision := o.router.Route(message, state)
	span.SetAttributes(
		attribute.String("conversation.intent", string(decision.Intent)),
		attribute.String("conversation.response_lang", string(decision.ResponseLang)),
	)
	o.logger.Debug("message routed",
		"session_id", sessionID,
		"intent", decision.Intent,
		"lang", decision.Lang,
		"response_lang", decision.ResponseLang,
	)

	switch decision.Intent {
	case IntentReviewSubmit:
		o.observe(decision.Intent, pathReview)
		return o.handleReviewSubmit(ctx, sessionID, message, decision, state), nil
	case IntentReviewQuery:
		o.observe(decision.Intent, pathReview)
		return o.handleReviewQuery(ctx, sessionID, message, decision, state), nil
	}

	state.LastLang = decision.ResponseLang
	if decision.PlaceQuery != "" {
		state.LastPlaceQuery = decision.PlaceQuery
	}

	if decision.NeedsClarification {
		state.Pending = pendingFor(decision, message)
		state.LastIntent = decision.Intent
		o.saveState(ctx, sessionID, state)
		o.observe(decision.Intent, pathClarify)
		return decision.ClarificationQuestion, nil
	}

	// The built-in Router always attaches a query to non-clarify turns, so only custom
	// routers reach the resume path.
	if state.Pending != nil {
		if decision.PlaceQuery == "" && decision.OriginQuery == "" && decision.DestinationQuery == "" {
			o.logger.Info("resuming pending clarification", "session_id", sessionID, "intent", state.Pending.Intent)
			decision.Intent = state.Pending.Intent
			decision.PlaceQuery = state.Pending.Query
		}
		state.Pending = nil
	}

	var contextBlock string
	if decision.Intent.needsRetrieval() {
		query := decision.PlaceQuery
		if decision.Intent == IntentDirections || query == "" {
			query = message
		}
		result := o.retriever.Retrieve(ctx, query, decision.ResponseLang.retrievalLanguage())
		contextBlock = result.Context
		span.SetAttributes(
			attribute.String("retrieval.tier", string(result.Tier)),
			attribute.Bool("retrieval.degraded", result.Degraded),
		)
		recordRetrievedPlace(&state, decision.Intent, result.Documents)
		if decision.Intent == IntentDirections {
			o.resolveDirections(ctx, &state, decision)
		}
	}

	answer, err := o.synthesizer.Generate(ctx, SynthesisRequest{
		Question: message,
		Context:  contextBlock,
		Lang:     decision.ResponseLang,
	})
	if err != nil {
		span.RecordError(err)
		o.observe(decision.Intent, pathError)
		return "", fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}

	state.LastIntent = decision.Intent
	o.saveState(ctx, sessionID, state)
	o.observe(decision.Intent, pathAnswer)
	return answer, nil
}

// ClearSession forgets everything stored for a session.
func (o *Orchestrator) ClearSession(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	lock := o.lockForSession(sessionID)
	lock.Lock()
	defer lock.Unlock()

	if err := o.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("conversation: clear session: %w", err)
	}
	o.logger.Info("session cleared", "session_id", sessionID)
	return nil
}

func pendingFor(decision RouteDecision, message string) *PendingClarification {
	intent := decision.Intent
	if intent == IntentClarify {
		intent = IntentPlaceQuery
	}
	query := decision.PlaceQuery
	if query == "" {
		query = message
	}
	return &PendingClarification{Intent: intent, Query: query}
}

// recordRetrievedPlace anchors follow-ups on the first document that names a place.
func recordRetrievedPlace(state *ConversationState, intent Intent, docs []retrieval.Document) {
	if len(docs) == 0 {
		return
	}
	for _, d := range docs {
		if id := d.PlaceID(); id != "" {
			state.LastPlaceID = id
			break
		}
	}
	if state.LastPlaceQuery == "" && docs[0].Name() != "" {
		state.LastPlaceQuery = docs[0].Name()
	}
	if intent == IntentBootcampQuery {
		for _, d := range docs {
			if id := d.Meta(retrieval.MetaBootcampID); id != "" {
				state.LastBootcampID = id
				break
			}
		}
	}
}

func (o *Orchestrator) resolveDirections(ctx context.Context, state *ConversationState, decision RouteDecision) {
	state.LastOriginQuery = decision.OriginQuery
	state.LastDestinationQuery = decision.DestinationQuery
	state.LastOriginID = ""
	state.LastDestinationID = ""
	if o.places == nil {
		return
	}
	if place, ok := o.places.Lookup(ctx, decision.OriginQuery, decision.ResponseLang); ok {
		state.LastOriginID = place.ID
	}
	if place, ok := o.places.Lookup(ctx, decision.DestinationQuery, decision.ResponseLang); ok {
		state.LastDestinationID = place.ID
	}
}

func (o *Orchestrator) loadState(ctx context.Context, sessionID string) ConversationState {
	state, err := o.store.Get(ctx, sessionID)
	if err != nil {
		o.logger.Error("failed to load conversation state, starting fresh", "session_id", sessionID, "error", err)
		return ConversationState{}
	}
	return state
}

func (o *Orchestrator) saveState(ctx context.Context, sessionID string, state ConversationState) {
	if err := o.store.Set(ctx, sessionID, state); err != nil {
		o.logger.Error("failed to persist conversation state", "session_id", sessionID, "error", err)
	}
}

func (o *Orchestrator) observe(intent Intent, path string) {
	if o.observer != nil {
		o.observer.ObserveTurn(string(intent), path)
	}
}

func (o *Orchestrator) lockForSession(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return &o.locks[h.Sum32()%sessionLockStripes]
}
