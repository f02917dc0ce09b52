package format

import (
	"strings"
	"testing"
)

// reassemble strips continuation markers and concatenates chunk cores.
func reassemble(chunks []string) string {
	var sb strings.Builder
	for i, c := range chunks {
		if i > 0 {
			c = strings.TrimPrefix(c, ContinuationPrefix)
		}
		if i < len(chunks)-1 {
			c = strings.TrimSuffix(c, ContinuationSuffix)
		}
		sb.WriteString(c)
	}
	return sb.String()
}

func TestChunk_WithinBudgetVerbatim(t *testing.T) {
	in := "short answer"
	chunks := Chunk(in, 4000)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != in {
		t.Fatalf("expected verbatim, got %q", chunks[0])
	}
}

func TestChunk_Empty(t *testing.T) {
	if chunks := Chunk("", 4000); chunks != nil {
		t.Fatalf("expected nil for empty input, got %v", chunks)
	}
}

func TestChunk_LongAnswerThreeChunks(t *testing.T) {
	// A 9,000-char answer must produce 3 chunks, each within budget, with
	// reciprocal continuation markers between neighbours.
	para := strings.Repeat("Ayat penerangan yang agak panjang untuk ujian. ", 10)
	var sb strings.Builder
	for sb.Len() < 9000 {
		sb.WriteString(para)
		sb.WriteString("\n\n")
	}
	in := sb.String()[:9000]

	chunks := Chunk(in, 4000)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 4000 {
			t.Fatalf("chunk %d exceeds budget: %d bytes", i, len(c))
		}
	}
	if !strings.HasSuffix(chunks[0], ContinuationSuffix) {
		t.Fatal("chunk 1 must end with continuation marker")
	}
	if !strings.HasPrefix(chunks[1], ContinuationPrefix) {
		t.Fatal("chunk 2 must start with reciprocal marker")
	}
	if strings.HasSuffix(chunks[2], ContinuationSuffix) {
		t.Fatal("final chunk must not carry a continuation marker")
	}
}

func TestChunk_RoundTrip(t *testing.T) {
	inputs := []string{
		strings.Repeat("perkataan rawak tanpa sempadan jelas ", 300),
		strings.Repeat("Satu ayat lengkap di sini. ", 400),
		strings.Repeat("perenggan pendek.\n\n", 500),
	}
	for _, in := range inputs {
		chunks := Chunk(in, 1000)
		if got := reassemble(chunks); got != in {
			t.Fatalf("round trip mismatch: len(got)=%d len(want)=%d", len(got), len(in))
		}
	}
}

func TestChunk_CountBound(t *testing.T) {
	in := strings.Repeat("a", 10_000)
	budget := 1000
	chunks := Chunk(in, budget)
	// ceil(L/B) = 10; boundary search and markers may shift by one.
	if len(chunks) < 10 || len(chunks) > 11 {
		t.Fatalf("expected 10±1 chunks, got %d", len(chunks))
	}
}

func TestChunk_PrefersBlankLineBoundary(t *testing.T) {
	first := strings.Repeat("x", 700)
	second := strings.Repeat("y", 600)
	in := first + "\n\n" + second

	chunks := Chunk(in, 1000)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	core := strings.TrimSuffix(chunks[0], ContinuationSuffix)
	if !strings.HasSuffix(core, "\n\n") {
		t.Fatalf("expected split at blank line, first chunk ends %q", core[len(core)-10:])
	}
	if strings.Contains(chunks[0], "y") {
		t.Fatal("second paragraph leaked into first chunk")
	}
}

func TestChunk_NeverSplitsTagPair(t *testing.T) {
	// One bold span straddling the naive cut position.
	prefix := strings.Repeat("z", 900)
	in := prefix + " <b>" + strings.Repeat("w", 200) + "</b> tail"

	chunks := Chunk(in, 1000)
	for i, c := range chunks {
		core := strings.TrimSuffix(strings.TrimPrefix(c, ContinuationPrefix), ContinuationSuffix)
		if err := ValidateTags(core); err != nil {
			t.Fatalf("chunk %d not independently valid: %v", i, err)
		}
	}
	if got := reassemble(chunks); got != in {
		t.Fatal("round trip mismatch with tags")
	}
}

func TestChunk_UTF8SafeHardCut(t *testing.T) {
	in := strings.Repeat("世界和平与发展", 200) // multibyte, no break points
	chunks := Chunk(in, 500)
	for i, c := range chunks {
		if !strings.HasPrefix(c, ContinuationPrefix) && i > 0 {
			t.Fatalf("chunk %d missing prefix", i)
		}
		for _, r := range c {
			if r == '�' {
				t.Fatalf("chunk %d contains replacement rune (split mid-character)", i)
			}
		}
	}
	if got := reassemble(chunks); got != in {
		t.Fatal("round trip mismatch for multibyte input")
	}
}
