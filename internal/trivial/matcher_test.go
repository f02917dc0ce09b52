package trivial

import (
	"testing"
	"time"
)

func fixedClock(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2025, 3, 10, hour, 0, 0, 0, time.UTC)
	}
}

func TestMatch_TimeGreetingMirrorsInput(t *testing.T) {
	m := New()

	reply, ok := m.Match("Selamat pagi semua")
	if !ok {
		t.Fatal("expected match")
	}
	if reply.Category != CategoryTimeGreeting {
		t.Fatalf("expected time_greeting, got %s", reply.Category)
	}
	if reply.Text == "" {
		t.Fatal("expected non-empty reply")
	}
}

func TestMatch_GenericGreetingUsesClock(t *testing.T) {
	morning := NewWithClock(fixedClock(9))
	night := NewWithClock(fixedClock(23))

	r1, ok := morning.Match("hi")
	if !ok || r1.Category != CategoryGreeting {
		t.Fatalf("expected greeting match, got %+v ok=%v", r1, ok)
	}
	r2, _ := night.Match("hi")
	if r1.Text == r2.Text {
		t.Fatal("expected different greetings for morning vs night")
	}
}

func TestMatch_Salam(t *testing.T) {
	m := NewWithClock(fixedClock(10))

	reply, ok := m.Match("Assalamualaikum tok")
	if !ok || reply.Category != CategoryGreeting {
		t.Fatalf("expected greeting for salam, got %+v ok=%v", reply, ok)
	}
}

func TestMatch_Thanks(t *testing.T) {
	m := New()

	for _, in := range []string{"thanks", "terima kasih banyak", "tq", "Thank you!"} {
		reply, ok := m.Match(in)
		if !ok || reply.Category != CategoryThanks {
			t.Fatalf("expected thanks for %q, got %+v ok=%v", in, reply, ok)
		}
	}
}

func TestMatch_PingExactOnly(t *testing.T) {
	m := New()

	if reply, ok := m.Match("test"); !ok || reply.Category != CategoryPing {
		t.Fatalf("expected ping for 'test', got %+v ok=%v", reply, ok)
	}
	// "test" embedded in a real question must not short-circuit.
	if _, ok := m.Match("what is the test for valid prayer"); ok {
		t.Fatal("embedded 'test' must not match ping")
	}
}

func TestMatch_IdentityVariants(t *testing.T) {
	m := New()

	for _, in := range []string{"who are you", "who r u", "siapa awak", "awak siapa?"} {
		reply, ok := m.Match(in)
		if !ok || reply.Category != CategoryIdentity {
			t.Fatalf("expected identity for %q, got %+v ok=%v", in, reply, ok)
		}
	}
}

func TestMatch_Capability(t *testing.T) {
	m := New()

	reply, ok := m.Match("what can you do")
	if !ok || reply.Category != CategoryCapability {
		t.Fatalf("expected capability, got %+v ok=%v", reply, ok)
	}
}

func TestMatch_Status(t *testing.T) {
	m := New()

	reply, ok := m.Match("tok ayah ada tak")
	if !ok || reply.Category != CategoryStatus {
		t.Fatalf("expected status, got %+v ok=%v", reply, ok)
	}
}

func TestMatch_PriorityOrder(t *testing.T) {
	m := New()

	// Contains both a time greeting and thanks; time greeting is checked first.
	reply, ok := m.Match("good morning and thanks")
	if !ok || reply.Category != CategoryTimeGreeting {
		t.Fatalf("expected time_greeting to win, got %+v ok=%v", reply, ok)
	}
}

func TestMatch_TopicalQuestionsPassThrough(t *testing.T) {
	m := New()

	for _, in := range []string{
		"apa hukum solat jumaat",
		"is cryptocurrency trading halal",
		"macam mana nak kira zakat emas",
		"",
	} {
		if _, ok := m.Match(in); ok {
			t.Fatalf("expected no match for topical input %q", in)
		}
	}
}
