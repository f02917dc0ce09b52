package channel

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
)

type scriptedHandler struct {
	replies map[string]string
	seen    []string
}

func (s *scriptedHandler) ProcessDirect(ctx context.Context, content string) string {
	s.seen = append(s.seen, content)
	return s.replies[content]
}

func newTestCLI(input string, h DirectHandler) (*CLI, *bytes.Buffer) {
	out := &bytes.Buffer{}
	c := NewCLI(CLIConfig{
		Handler: h,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		In:      strings.NewReader(input),
		Out:     out,
	})
	return c, out
}

func TestCLI_AnswersEachLine(t *testing.T) {
	h := &scriptedHandler{replies: map[string]string{"apa hukum riba": "Riba adalah haram."}}
	c, out := newTestCLI("apa hukum riba\n", h)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(h.seen) != 1 || h.seen[0] != "apa hukum riba" {
		t.Fatalf("handler saw %v", h.seen)
	}
	if !strings.Contains(out.String(), "Riba adalah haram.") {
		t.Fatalf("reply missing from output: %q", out.String())
	}
}

func TestCLI_QuitStopsBeforeHandling(t *testing.T) {
	h := &scriptedHandler{}
	c, _ := newTestCLI("/quit\nnever seen\n", h)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(h.seen) != 0 {
		t.Fatalf("nothing should reach the handler after /quit, saw %v", h.seen)
	}
}

func TestCLI_BlankLinesSkipped(t *testing.T) {
	h := &scriptedHandler{replies: map[string]string{"soalan": "jawapan"}}
	c, _ := newTestCLI("\n   \nsoalan\n", h)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(h.seen) != 1 {
		t.Fatalf("blank lines must be skipped, handler saw %v", h.seen)
	}
}

func TestCLI_EmptyReplyPlaceholder(t *testing.T) {
	h := &scriptedHandler{}
	c, out := newTestCLI("ignored chatter\n", h)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !strings.Contains(out.String(), "(tiada jawapan)") {
		t.Fatalf("expected placeholder for empty reply, got %q", out.String())
	}
}
