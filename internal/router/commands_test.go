package router

import (
	"context"
	"testing"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		in        string
		name      string
		remainder string
	}{
		{"/fatwa apa hukum riba", "fatwa", "apa hukum riba"},
		{"/tanya", "tanya", ""},
		{"/FATWA soalan", "fatwa", "soalan"},
		{"/fatwa@TokAyahBot hukum qurban", "fatwa", "hukum qurban"},
		{"  /ibadah   cara solat musafir  ", "ibadah", "cara solat musafir"},
	}
	for _, tc := range cases {
		cmd := ParseCommand(tc.in)
		if cmd == nil {
			t.Fatalf("ParseCommand(%q) = nil", tc.in)
		}
		if cmd.Name != tc.name || cmd.Remainder != tc.remainder {
			t.Fatalf("ParseCommand(%q) = %+v", tc.in, cmd)
		}
	}
}

func TestParseCommand_NotACommand(t *testing.T) {
	for _, in := range []string{"fatwa soalan", "tok ayah /fatwa", "", "/", "  hello"} {
		if cmd := ParseCommand(in); cmd != nil {
			t.Fatalf("ParseCommand(%q) = %+v, want nil", in, cmd)
		}
	}
}

func TestHandleCommand_DispatchesToResponder(t *testing.T) {
	r, specialists, _ := testRouter(ModeBestMatch, 0, 0, 0)

	d := r.Route(context.Background(), inbound("/fatwa apa hukum riba"))
	if d.Kind != KindCommand || d.Responder != "fatwa" {
		t.Fatalf("expected fatwa command dispatch, got %+v", d)
	}
	if specialists[0].genCalls.Load() != 1 {
		t.Fatal("command must generate without scoring")
	}
	if specialists[0].scoreCalls.Load() != 0 {
		t.Fatal("commands bypass relevance scoring")
	}
	if got := specialists[0].lastQuestion(); got != "apa hukum riba" {
		t.Fatalf("remainder should be the question, got %q", got)
	}
}

func TestHandleCommand_SynthesisCommand(t *testing.T) {
	r, _, synth := testRouter(ModeBestMatch, 0, 0, 0)

	d := r.Route(context.Background(), inbound("/tanya macam mana nak mula belajar agama"))
	if d.Kind != KindCommand || d.Reply != "synthesized" {
		t.Fatalf("expected synthesis command, got %+v", d)
	}
	if synth.genCalls.Load() != 1 {
		t.Fatal("synthesizer should generate once")
	}
}

func TestHandleCommand_EmptyRemainderPrompts(t *testing.T) {
	r, specialists, _ := testRouter(ModeBestMatch, 0, 0, 0)

	d := r.Route(context.Background(), inbound("/fatwa"))
	if d.Kind != KindCommand || d.Reply != emptyCommandReply {
		t.Fatalf("expected please-provide-a-question reply, got %+v", d)
	}
	if specialists[0].genCalls.Load() != 0 {
		t.Fatal("empty command must not generate")
	}
}

func TestHandleCommand_UnknownCommandIgnored(t *testing.T) {
	r, _, _ := testRouter(ModeBestMatch, 0, 0, 0)

	d := r.Route(context.Background(), inbound("/weather kuala lumpur"))
	if d.Kind != KindIgnored || d.Reply != "" {
		t.Fatalf("unknown command must stay silent, got %+v", d)
	}
}
