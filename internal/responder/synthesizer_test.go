package responder

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tokbot/internal/domain"
)

// buildSpecialists wires every builtin profile to its own stub completer.
func buildSpecialists(fns map[string]func(sys, user string) (string, error)) []Responder {
	var out []Responder
	for _, p := range Builtins() {
		fn, ok := fns[p.Name]
		if !ok {
			name := p.Name
			fn = func(_, _ string) (string, error) { return "answer from " + name, nil }
		}
		out = append(out, NewSpecialist(p, &stubCompleter{fn: fn}, discardLogger()))
	}
	return out
}

func TestSynthesizer_AlwaysResponds(t *testing.T) {
	s := NewSynthesizer(nil, &stubCompleter{fn: func(_, _ string) (string, error) { return "", nil }}, discardLogger())
	if !s.ShouldRespond(context.Background(), "anything") {
		t.Fatal("synthesizer must always respond")
	}
	if s.ScoreRelevance(context.Background(), "anything") != 1 {
		t.Fatal("synthesizer relevance is fixed at 1")
	}
}

func TestSynthesizer_CombinesLabeledAnswers(t *testing.T) {
	var combined string
	merge := &stubCompleter{fn: func(_, user string) (string, error) {
		combined = user
		return "jawapan sintesis", nil
	}}

	s := NewSynthesizer(buildSpecialists(nil), merge, discardLogger())
	got := s.Generate(context.Background(), "soalan luas")

	if got != "jawapan sintesis" {
		t.Fatalf("expected merged answer, got %q", got)
	}
	for _, label := range []string{
		"Perspektif Fatwa", "Perspektif Ibadah", "Perspektif Muamalat",
		"Perspektif Kekeluargaan", "Perspektif Sirah",
	} {
		if !strings.Contains(combined, label) {
			t.Fatalf("combined document missing label %q", label)
		}
	}
	if !strings.Contains(combined, "soalan luas") {
		t.Fatal("combined document should carry the question")
	}
}

func TestSynthesizer_OneFailedSpecialistDegrades(t *testing.T) {
	fns := map[string]func(sys, user string) (string, error){
		"muamalat": func(_, _ string) (string, error) {
			return "", &domain.GenerationError{Provider: "stub", Stage: "generate", Err: errors.New("down")}
		},
	}

	var combined string
	merge := &stubCompleter{fn: func(_, user string) (string, error) {
		combined = user
		return "masih berjaya", nil
	}}

	s := NewSynthesizer(buildSpecialists(fns), merge, discardLogger())
	got := s.Generate(context.Background(), "soalan")

	if got == "" || got == ApologyReply {
		t.Fatalf("synthesis must survive one failed specialist, got %q", got)
	}
	// The failed specialist contributes its apology text, not an absence.
	if !strings.Contains(combined, ApologyReply) {
		t.Fatal("degraded specialist's fallback text missing from document")
	}
}

func TestSynthesizer_MergeFailureIsApology(t *testing.T) {
	merge := &stubCompleter{fn: func(_, _ string) (string, error) {
		return "", &domain.GenerationError{Provider: "stub", Stage: "synthesize", Err: errors.New("http 429")}
	}}

	s := NewSynthesizer(buildSpecialists(nil), merge, discardLogger())
	if got := s.Generate(context.Background(), "soalan"); got != ApologyReply {
		t.Fatalf("expected apology on merge failure, got %q", got)
	}
}

func TestSynthesizer_StripsSpecialistHeaders(t *testing.T) {
	fns := map[string]func(sys, user string) (string, error){
		"fatwa": func(_, _ string) (string, error) {
			return "## Tajuk Besar\n\nisi pertama\n\n\nisi kedua", nil
		},
	}

	var combined string
	merge := &stubCompleter{fn: func(_, user string) (string, error) {
		combined = user
		return "ok", nil
	}}

	s := NewSynthesizer(buildSpecialists(fns), merge, discardLogger())
	s.Generate(context.Background(), "soalan")

	if strings.Contains(combined, "## Tajuk Besar") {
		t.Fatal("specialist headers must be stripped from the document")
	}
	if !strings.Contains(combined, "isi pertama\nisi kedua") {
		t.Fatal("blank lines should be dropped between content lines")
	}
}

func TestSynthesizer_UnlabeledGetsAdditionalPerspective(t *testing.T) {
	p := Builtins()[0]
	p.Name = "custom"
	p.Label = ""
	extra := NewSpecialist(p, &stubCompleter{fn: func(_, _ string) (string, error) { return "extra view", nil }}, discardLogger())

	var combined string
	merge := &stubCompleter{fn: func(_, user string) (string, error) {
		combined = user
		return "ok", nil
	}}

	s := NewSynthesizer([]Responder{extra}, merge, discardLogger())
	s.Generate(context.Background(), "q")

	if !strings.Contains(combined, additionalLabel) {
		t.Fatalf("expected %q label, got %q", additionalLabel, combined)
	}
}
