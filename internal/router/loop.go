package router

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"tokbot/internal/domain"
	"tokbot/internal/format"
)

const (
	defaultConcurrency = 3
	defaultTimeout     = 60 * time.Second
)

// DecisionRecorder persists routing outcomes for later inspection. Recording
// is best-effort; the loop never blocks a reply on it.
type DecisionRecorder interface {
	LogDecision(ctx context.Context, chatID, kind, responderName string, latencyMs int64)
}

// Metrics counts routing outcomes and generation latency.
type Metrics interface {
	IncMessages(channel string)
	IncDecision(kind string)
	ObserveHandleSeconds(seconds float64)
}

// Loop consumes inbound messages from the bus, routes each one, and sends
// the formatted, chunked reply back out. One message's panic or failure
// never takes the loop down.
type Loop struct {
	router      *Router
	bus         domain.MessageBus
	recorder    DecisionRecorder
	metrics     Metrics
	logger      *slog.Logger
	concurrency int
	timeout     time.Duration
	chunkBudget int
	ready       atomic.Bool
	handlers    sync.WaitGroup
}

// LoopConfig holds the loop's dependencies and tuning parameters.
type LoopConfig struct {
	Router      *Router
	Bus         domain.MessageBus
	Recorder    DecisionRecorder // optional
	Metrics     Metrics          // optional
	Logger      *slog.Logger
	Concurrency int           // max parallel messages (default 3)
	Timeout     time.Duration // per-message generation budget (default 60s)
	ChunkBudget int           // outbound chunk size (default 4000)
}

func NewLoop(cfg LoopConfig) *Loop {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.ChunkBudget <= 0 {
		cfg.ChunkBudget = format.DefaultBudget
	}
	return &Loop{
		router:      cfg.Router,
		bus:         cfg.Bus,
		recorder:    cfg.Recorder,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
		concurrency: cfg.Concurrency,
		timeout:     cfg.Timeout,
		chunkBudget: cfg.ChunkBudget,
	}
}

// Ready reports whether the loop has started consuming messages. The
// liveness endpoint keys off this, independent of provider availability.
func (l *Loop) Ready() bool { return l.ready.Load() }

// Run consumes inbound messages with bounded concurrency until the context
// is cancelled or the bus closes, then joins every in-flight handler before
// returning. Handlers run under their own per-message deadline, so shutdown
// lets them finish instead of cancelling them; Run does not return while a
// reply is still being generated.
func (l *Loop) Run(ctx context.Context) {
	l.logger.Info("router loop started", "concurrency", l.concurrency, "mode", l.router.mode)
	l.ready.Store(true)
	defer l.ready.Store(false)
	defer l.handlers.Wait()

	sem := make(chan struct{}, l.concurrency)
	inbound := l.bus.Subscribe()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("router loop stopping")
			return
		case msg, ok := <-inbound:
			if !ok {
				l.logger.Info("inbound channel closed, router loop stopping")
				return
			}
			sem <- struct{}{}
			l.handlers.Add(1)
			go func(m domain.InboundMessage) {
				defer l.handlers.Done()
				defer func() { <-sem }()
				l.processMessage(m)
			}(msg)
		}
	}
}

// processMessage handles one inbound message end to end. Panics are
// contained here; the user sees only a fixed apology.
func (l *Loop) processMessage(msg domain.InboundMessage) {
	defer func() {
		if rec := recover(); rec != nil {
			l.logger.Error("message handler panicked", "channel", msg.Channel, "chat", msg.ChatID, "panic", rec)
			l.send(msg, domain.MarkupPlain, []string{fallbackReply})
		}
	}()

	if l.metrics != nil {
		l.metrics.IncMessages(msg.Channel)
	}

	// The loop context is not used here: shutdown lets in-flight messages
	// finish under their own deadline instead of cancelling them.
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	start := time.Now()
	decision := l.router.Route(ctx, msg)
	elapsed := time.Since(start)

	if l.metrics != nil {
		l.metrics.IncDecision(decision.Kind)
		l.metrics.ObserveHandleSeconds(elapsed.Seconds())
	}
	if l.recorder != nil {
		l.recorder.LogDecision(ctx, msg.ChatID, decision.Kind, decision.Responder, elapsed.Milliseconds())
	}

	if decision.Reply == "" {
		return
	}

	markup, chunks := l.render(msg.Channel, decision.Reply)
	l.send(msg, markup, chunks)

	l.logger.Info("reply sent",
		"channel", msg.Channel,
		"chat", msg.ChatID,
		"kind", decision.Kind,
		"responder", decision.Responder,
		"chunks", len(chunks),
		"latency_ms", elapsed.Milliseconds(),
	)
}

// render formats reply text for the channel's markup capability and splits
// it into transport-sized chunks.
func (l *Loop) render(channel, reply string) (domain.MarkupMode, []string) {
	switch channel {
	case "telegram":
		return domain.MarkupHTML, format.Chunk(format.Format(reply), l.chunkBudget)
	default:
		return domain.MarkupPlain, format.Chunk(format.Plain(reply), l.chunkBudget)
	}
}

func (l *Loop) send(msg domain.InboundMessage, markup domain.MarkupMode, chunks []string) {
	l.bus.SendOutbound(domain.OutboundMessage{
		Channel:          msg.Channel,
		ChatID:           msg.ChatID,
		Chunks:           chunks,
		ReplyToMessageID: msg.MessageID,
		Markup:           markup,
	})
}

// ProcessDirect routes a message synchronously and returns the plain-text
// reply. Used by the CLI channel, where every line is directed at the bot
// and a blocking answer is wanted.
func (l *Loop) ProcessDirect(ctx context.Context, content string) string {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	decision := l.router.RouteDirect(ctx, content)
	if decision.Reply == "" {
		return ""
	}
	return format.Plain(decision.Reply)
}
