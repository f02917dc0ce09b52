package mention

import "testing"

func TestIsAddressed_Handle(t *testing.T) {
	d := New("TokAyahBot")

	if !d.IsAddressed("@tokayahbot apa khabar") {
		t.Fatal("expected @handle to match")
	}
	if !d.IsAddressed("TOKAYAHBOT tolong jawab") {
		t.Fatal("expected bare handle to match case-insensitively")
	}
}

func TestIsAddressed_AliasVariants(t *testing.T) {
	d := New("TokAyahBot")

	cases := []string{
		"tok ayah, apa hukum solat jumaat",
		"Tok Ayah boleh tolong?",
		"TOKAYAH ada tak",
		"tok ayoh what is riba",
		"tuk ayah assalamualaikum",
		"soalan untuk tok  ayah ni",
	}
	for _, c := range cases {
		if !d.IsAddressed(c) {
			t.Fatalf("expected addressed: %q", c)
		}
	}
}

func TestIsAddressed_NoSubstringMatch(t *testing.T) {
	d := New("TokAyahBot")

	// "tok" inside other words must not trigger.
	cases := []string{
		"the stock market dropped today",
		"bertokok tambah pula",
		"random chatter with no mention",
	}
	for _, c := range cases {
		if d.IsAddressed(c) {
			t.Fatalf("expected not addressed: %q", c)
		}
	}
}

func TestStrip_Residual(t *testing.T) {
	d := New("TokAyahBot")

	got := d.Strip("tok ayah, apa hukum solat jumaat")
	if got != "apa hukum solat jumaat" {
		t.Fatalf("expected residual question, got %q", got)
	}
}

func TestStrip_MidSentence(t *testing.T) {
	d := New("TokAyahBot")

	got := d.Strip("boleh tak tok ayah terangkan zakat")
	if got != "boleh tak terangkan zakat" {
		t.Fatalf("got %q", got)
	}
}

func TestStrip_EmptyResidual(t *testing.T) {
	d := New("TokAyahBot")

	if got := d.Strip("tok ayah"); got != "" {
		t.Fatalf("expected empty residual, got %q", got)
	}
	if got := d.Strip("@tokayahbot"); got != "" {
		t.Fatalf("expected empty residual for bare handle, got %q", got)
	}
}

func TestStrip_Idempotent(t *testing.T) {
	d := New("TokAyahBot")

	inputs := []string{
		"tok ayah, apa hukum solat jumaat",
		"no mention here at all",
		"tokayah tokayah double mention",
	}
	for _, in := range inputs {
		once := d.Strip(in)
		twice := d.Strip(once)
		if once != twice {
			t.Fatalf("strip not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNew_EmptyHandle(t *testing.T) {
	d := New("")

	// Aliases still work without a resolved handle.
	if !d.IsAddressed("tok ayah salam") {
		t.Fatal("aliases should match with empty handle")
	}
	if d.IsAddressed("plain text") {
		t.Fatal("empty handle must not match everything")
	}
}
