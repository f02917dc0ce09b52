package responder

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"tokbot/internal/domain"
)

const (
	synthMaxTokens = 2048

	// additionalLabel names any responder without a declared source label.
	additionalLabel = "Additional Perspective"
)

// Synthesizer is the catch-all responder: instead of answering directly it
// fans the question out to every specialist concurrently and merges their
// answers into one structured composite.
type Synthesizer struct {
	specialists []Responder
	completer   domain.Completer
	logger      *slog.Logger
}

func NewSynthesizer(specialists []Responder, completer domain.Completer, logger *slog.Logger) *Synthesizer {
	return &Synthesizer{specialists: specialists, completer: completer, logger: logger}
}

func (s *Synthesizer) Name() string       { return "synthesizer" }
func (s *Synthesizer) Label() string      { return "Sintesis" }
func (s *Synthesizer) Command() string    { return SynthesisCommand }
func (s *Synthesizer) Topics() []string   { return nil }
func (s *Synthesizer) Keywords() []string { return nil }
func (s *Synthesizer) Threshold() float64 { return 0 }

// ScoreRelevance is fixed at 1: the synthesizer accepts anything.
func (s *Synthesizer) ScoreRelevance(ctx context.Context, text string) float64 { return 1 }

// ShouldRespond is unconditionally true; the synthesizer is the catch-all
// for broad or ambiguous questions no single specialist owns.
func (s *Synthesizer) ShouldRespond(ctx context.Context, text string) bool { return true }

// Generate fans the question out to every specialist concurrently, joins on
// all of them, and issues one further completion over the combined labeled
// answers. A failed specialist degrades to its own apology text (per the
// specialist contract) rather than aborting the fan-out, so the synthesis
// step always sees one answer per specialist. Only a failure of the final
// merge call degrades the whole synthesis to the apology.
func (s *Synthesizer) Generate(ctx context.Context, question string) string {
	answers := make([]string, len(s.specialists))
	var wg sync.WaitGroup
	for i, sp := range s.specialists {
		wg.Add(1)
		go func(i int, sp Responder) {
			defer wg.Done()
			answers[i] = sp.Generate(ctx, question)
		}(i, sp)
	}
	wg.Wait()

	var sb strings.Builder
	for i, sp := range s.specialists {
		label := sp.Label()
		if label == "" {
			label = additionalLabel
		}
		sb.WriteString("=== ")
		sb.WriteString(label)
		sb.WriteString(" ===\n")
		sb.WriteString(cleanAnswer(answers[i]))
		sb.WriteString("\n\n")
	}

	user := "Soalan: " + question + "\n\nJawapan pakar:\n\n" + sb.String()
	out, err := s.completer.Complete(ctx, synthesisPrompt, user, genTemperature, synthMaxTokens)
	if err != nil {
		s.logger.Error("synthesis failed", "responder", s.Name(), "err", err)
		return ApologyReply
	}
	return out
}

// cleanAnswer strips header lines the specialist may have emitted and drops
// blank lines, leaving compact content for the perspectives document.
func cleanAnswer(answer string) string {
	var lines []string
	for _, line := range strings.Split(answer, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		lines = append(lines, trimmed)
	}
	return strings.Join(lines, "\n")
}
