package responder

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"tokbot/internal/domain"
)

const (
	scoreTemperature = 0.0
	scoreMaxTokens   = 8
	genTemperature   = 0.7
	genMaxTokens     = 1024
)

// Specialist answers questions in one declared domain. All specializations
// share this implementation and differ only in their Profile.
type Specialist struct {
	profile   Profile
	completer domain.Completer
	logger    *slog.Logger
}

func NewSpecialist(p Profile, completer domain.Completer, logger *slog.Logger) *Specialist {
	return &Specialist{profile: p, completer: completer, logger: logger}
}

func (s *Specialist) Name() string       { return s.profile.Name }
func (s *Specialist) Label() string      { return s.profile.Label }
func (s *Specialist) Command() string    { return s.profile.Command }
func (s *Specialist) Topics() []string   { return s.profile.Topics }
func (s *Specialist) Keywords() []string { return s.profile.Keywords }
func (s *Specialist) Threshold() float64 { return s.profile.Threshold }

// ScoreRelevance asks the completion service for a bare relevance number.
// It never fails upward: parse and transport errors log and score 0.0, so a
// broken service only makes this specialist drop out of the running.
func (s *Specialist) ScoreRelevance(ctx context.Context, text string) float64 {
	out, err := s.completer.Complete(ctx, scoringPrompt(s.profile), text, scoreTemperature, scoreMaxTokens)
	if err != nil {
		s.logger.Warn("relevance scoring failed", "responder", s.profile.Name, "err", err)
		return 0.0
	}
	score, err := parseScore(out)
	if err != nil {
		s.logger.Warn("relevance score unparseable", "responder", s.profile.Name, "raw", out)
		return 0.0
	}
	return score
}

func (s *Specialist) ShouldRespond(ctx context.Context, text string) bool {
	return s.ScoreRelevance(ctx, text) >= s.profile.Threshold
}

// Generate answers the question with this specialist's domain prompt and
// returns the model's text verbatim. Failures are terminal here: logged and
// converted to the fixed apology, never propagated.
func (s *Specialist) Generate(ctx context.Context, text string) string {
	sys := s.profile.Prompt + "\n\n" + formattingRules
	out, err := s.completer.Complete(ctx, sys, text, genTemperature, genMaxTokens)
	if err != nil {
		s.logger.Error("generation failed", "responder", s.profile.Name, "err", err)
		return ApologyReply
	}
	return out
}

var scorePattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// parseScore extracts the first number from the model's reply and clamps it
// into [0,1]. Models occasionally decorate the number despite instructions.
func parseScore(raw string) (float64, error) {
	match := scorePattern.FindString(raw)
	if match == "" {
		return 0, fmt.Errorf("no number in %q", raw)
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v, nil
}
