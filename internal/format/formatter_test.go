package format

import (
	"strings"
	"testing"
)

func TestFormat_Headers(t *testing.T) {
	got := Format("### Ringkasan\n\nIsi kandungan.")
	if !strings.Contains(got, "<b>Ringkasan</b>") {
		t.Fatalf("expected bold header, got %q", got)
	}
}

func TestFormat_BoldAndItalic(t *testing.T) {
	got := Format("ini **penting** dan *perlu diingat* ya")
	if !strings.Contains(got, "<b>penting</b>") {
		t.Fatalf("expected bold span, got %q", got)
	}
	if !strings.Contains(got, "<i>perlu diingat</i>") {
		t.Fatalf("expected italic span, got %q", got)
	}
}

func TestFormat_Blockquote(t *testing.T) {
	got := Format("> sabda Nabi SAW\nketerangan di bawah")
	if !strings.Contains(got, "<blockquote>sabda Nabi SAW</blockquote>") {
		t.Fatalf("expected blockquote, got %q", got)
	}
}

func TestFormat_EscapesAngleBrackets(t *testing.T) {
	got := Format("nilai x < y dan a > b serta 5 & 6")
	if strings.Contains(got, "x < y") {
		t.Fatalf("raw angle bracket leaked: %q", got)
	}
	if !strings.Contains(got, "&lt;") || !strings.Contains(got, "&amp;") {
		t.Fatalf("expected escaped entities, got %q", got)
	}
}

func TestFormat_UntrustedTagsNeverSurvive(t *testing.T) {
	got := Format("<script>alert(1)</script> dan <b>palsu</b>")
	if strings.Contains(got, "<script>") || strings.Contains(got, "<b>palsu") {
		t.Fatalf("injected tags must be escaped, got %q", got)
	}
}

func TestFormat_UnbalancedFallsBackToPlain(t *testing.T) {
	// Improper interleaving rewrites to crossed tags; the validator must
	// reject it and the output must carry no tags at all.
	got := Format("**bold *mix** tail*")
	if strings.ContainsAny(got, "<>") {
		t.Fatalf("fallback output must be tag-free, got %q", got)
	}
}

func TestFormat_UnclosedBoldStaysLiteral(t *testing.T) {
	got := Format("**bold without close")
	if err := ValidateTags(got); err != nil {
		t.Fatalf("output must validate: %v (%q)", err, got)
	}
}

func TestFormat_CollapsesBlankRuns(t *testing.T) {
	got := Format("satu\n\n\n\n\ndua")
	if strings.Contains(got, "\n\n\n") {
		t.Fatalf("blank runs not collapsed: %q", got)
	}
}

func TestFormat_ListMarkers(t *testing.T) {
	got := Format("- pertama\n- kedua\n1. ketiga")
	if !strings.Contains(got, "• pertama") || !strings.Contains(got, "• kedua") {
		t.Fatalf("expected bullets, got %q", got)
	}
	if !strings.Contains(got, "1. ketiga") {
		t.Fatalf("numbered item should survive, got %q", got)
	}
}

func TestFormat_NumberedListNormalized(t *testing.T) {
	got := Format("1. pertama\n  2) kedua\n3) ketiga")
	for _, want := range []string{"1. pertama", "2. kedua", "3. ketiga"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
	if strings.Contains(got, ")") {
		t.Fatalf("paren markers should be normalized, got %q", got)
	}

	plain := Plain("  2) kedua")
	if !strings.Contains(plain, "2. kedua") {
		t.Fatalf("plain rendering should normalize numbered items, got %q", plain)
	}
}

func TestPlain_Markers(t *testing.T) {
	got := Plain("## Tajuk\n\n**tegas** dan *condong*\n> petikan\n- senarai")
	if !strings.Contains(got, "► Tajuk") {
		t.Fatalf("expected header marker, got %q", got)
	}
	if !strings.Contains(got, "«tegas»") {
		t.Fatalf("expected guillemets, got %q", got)
	}
	if !strings.Contains(got, "» petikan") {
		t.Fatalf("expected quote marker, got %q", got)
	}
	if strings.ContainsAny(got, "<>") {
		t.Fatalf("plain rendering must be tag-free, got %q", got)
	}
}

func TestValidateTags(t *testing.T) {
	valid := []string{
		"",
		"no tags at all",
		"<b>x</b>",
		"<b>x <i>y</i></b>",
		"<blockquote>q</blockquote> <b>z</b>",
	}
	for _, s := range valid {
		if err := ValidateTags(s); err != nil {
			t.Fatalf("expected valid %q: %v", s, err)
		}
	}

	invalid := []string{
		"<b>x",
		"x</b>",
		"<b><i>x</b></i>",
		"<u>under</u>",
	}
	for _, s := range invalid {
		if err := ValidateTags(s); err == nil {
			t.Fatalf("expected invalid: %q", s)
		}
	}
}
