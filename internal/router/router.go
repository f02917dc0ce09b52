// Package router decides, per inbound message, which path a message takes:
// a canned reply, a single specialist, the synthesizer, or no reply at all.
package router

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"log/slog"

	"tokbot/internal/domain"
	"tokbot/internal/mention"
	"tokbot/internal/responder"
	"tokbot/internal/trivial"
)

// Routing modes. Bestmatch answers with the single highest-scoring
// specialist; synthesize sends every non-trivial question to the
// synthesizer and additionally picks up unaddressed question-like
// group messages.
const (
	ModeBestMatch  = "bestmatch"
	ModeSynthesize = "synthesize"
)

// Decision kinds, recorded per message for the audit store and metrics.
const (
	KindIgnored    = "ignored"
	KindPrompt     = "prompt"
	KindTrivial    = "trivial"
	KindSpecialist = "specialist"
	KindSynthesis  = "synthesis"
	KindCommand    = "command"
	KindFallback   = "fallback"
)

// Fixed user-visible strings. Raw error text never reaches users; every
// outcome maps to one of these or to generated answer text.
const (
	promptReply = "Ya, saya di sini. Apa yang boleh saya bantu?"

	fallbackReply = "Maaf, saya tidak pasti bagaimana hendak membantu dengan soalan itu. " +
		"Cuba ungkapkan semula, atau gunakan arahan seperti /fatwa, /ibadah atau /tanya."

	emptyCommandReply = "Sila berikan soalan selepas arahan."
)

// questionTriggers is the broad trigger-word list used by synthesize mode to
// pick up unaddressed group messages that look like questions. Malay first,
// then the English equivalents seen in mixed-language chats.
var questionTriggers = []string{
	"apa", "apakah", "adakah", "bagaimana", "macam mana", "macamana",
	"kenapa", "mengapa", "bila", "bilakah", "siapa", "siapakah",
	"boleh", "bolehkah", "hukum", "halal", "haram",
	"what", "how", "why", "when", "who", "can", "should", "is it",
}

// Decision is the outcome of routing one inbound message.
type Decision struct {
	Kind      string
	Responder string // responder name when Kind is specialist, synthesis or command
	Reply     string // empty means no reply is sent
}

// Router owns the responder set, the trivial matcher and the mention
// detector. It holds no per-message mutable state: the detector is resolved
// once before the loop starts, so concurrent Route calls are safe.
type Router struct {
	detector    *mention.Detector
	trivial     *trivial.Matcher
	specialists []responder.Responder
	synthesizer responder.Responder
	byCommand   map[string]responder.Responder
	mode        string
	logger      *slog.Logger
}

func New(detector *mention.Detector, matcher *trivial.Matcher, specialists []responder.Responder, synthesizer responder.Responder, mode string, logger *slog.Logger) *Router {
	byCommand := make(map[string]responder.Responder, len(specialists)+1)
	for _, sp := range specialists {
		if cmd := sp.Command(); cmd != "" {
			byCommand[cmd] = sp
		}
	}
	if synthesizer != nil {
		byCommand[synthesizer.Command()] = synthesizer
	}
	if mode == "" {
		mode = ModeBestMatch
	}
	return &Router{
		detector:    detector,
		trivial:     matcher,
		specialists: specialists,
		synthesizer: synthesizer,
		byCommand:   byCommand,
		mode:        mode,
		logger:      logger,
	}
}

// Route evaluates the decision branches in strict order; the first matching
// branch wins and there is no fallthrough.
func (r *Router) Route(ctx context.Context, msg domain.InboundMessage) Decision {
	if msg.FromSelf {
		return Decision{Kind: KindIgnored}
	}

	text := msg.Content

	// Replies: answer only when the quoted message is ours or the reply
	// itself mentions us; otherwise stay silent. The quoted text becomes
	// context for the question.
	if msg.IsReply() {
		if !msg.ReplyToSelf && !r.detector.IsAddressed(text) {
			return Decision{Kind: KindIgnored}
		}
		if msg.ReplyToText != "" {
			text = "Konteks: «" + msg.ReplyToText + "»\n\n" + text
		}
		return r.answer(ctx, text)
	}

	if cmd := ParseCommand(text); cmd != nil {
		return r.handleCommand(ctx, cmd)
	}

	if !r.detector.IsAddressed(text) {
		// Synthesize mode also picks up unaddressed messages that look
		// like questions; bestmatch mode ignores them.
		if r.mode == ModeSynthesize && looksLikeQuestion(text) {
			return r.synthesize(ctx, text)
		}
		return Decision{Kind: KindIgnored}
	}

	return r.answer(ctx, text)
}

// RouteDirect answers text that is already known to be directed at the bot
// (typed at a CLI prompt), skipping the mention gate.
func (r *Router) RouteDirect(ctx context.Context, text string) Decision {
	if cmd := ParseCommand(text); cmd != nil {
		return r.handleCommand(ctx, cmd)
	}
	return r.answer(ctx, text)
}

// answer handles an addressed (or reply-context) message: strip the address,
// try the canned table, then route to generation.
func (r *Router) answer(ctx context.Context, text string) Decision {
	residual := r.detector.Strip(text)
	if residual == "" {
		return Decision{Kind: KindPrompt, Reply: promptReply}
	}

	if reply, ok := r.trivial.Match(residual); ok {
		r.logger.Debug("trivial match", "category", reply.Category)
		return Decision{Kind: KindTrivial, Responder: string(reply.Category), Reply: reply.Text}
	}

	if r.mode == ModeSynthesize {
		return r.synthesize(ctx, residual)
	}
	return r.bestMatch(ctx, residual)
}

// bestMatch scores every specialist concurrently and picks the strictly
// highest score at or above that specialist's own threshold. Ties keep the
// first-declared specialist. Results are recombined by declared index, not
// arrival order.
func (r *Router) bestMatch(ctx context.Context, question string) Decision {
	scores := make([]float64, len(r.specialists))
	var wg sync.WaitGroup
	for i, sp := range r.specialists {
		wg.Add(1)
		go func(i int, sp responder.Responder) {
			defer wg.Done()
			scores[i] = sp.ScoreRelevance(ctx, question)
		}(i, sp)
	}
	wg.Wait()

	winner := -1
	best := 0.0
	for i, sp := range r.specialists {
		if scores[i] < sp.Threshold() {
			continue
		}
		if winner == -1 || scores[i] > best {
			winner = i
			best = scores[i]
		}
	}

	if winner == -1 {
		r.logger.Info("no specialist qualified", "question_len", len(question))
		return Decision{Kind: KindFallback, Reply: fallbackReply}
	}

	sp := r.specialists[winner]
	r.logger.Info("specialist selected", "responder", sp.Name(), "score", best)
	return Decision{Kind: KindSpecialist, Responder: sp.Name(), Reply: sp.Generate(ctx, question)}
}

func (r *Router) synthesize(ctx context.Context, question string) Decision {
	return Decision{
		Kind:      KindSynthesis,
		Responder: r.synthesizer.Name(),
		Reply:     r.synthesizer.Generate(ctx, question),
	}
}

// looksLikeQuestion reports whether raw unaddressed text is question-like:
// it carries a question mark or one of the broad trigger words. Punctuation
// is stripped before matching so "Apa, betul ke?" style commas and trailing
// periods do not hide a trigger word.
func looksLikeQuestion(text string) bool {
	if strings.Contains(text, "?") {
		return true
	}
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	joined := " " + strings.Join(words, " ") + " "
	for _, w := range questionTriggers {
		if strings.Contains(joined, " "+w+" ") {
			return true
		}
	}
	return false
}
