package channel

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// DirectHandler answers one line of input synchronously. The router loop
// satisfies this; the CLI needs a blocking reply rather than bus delivery.
type DirectHandler interface {
	ProcessDirect(ctx context.Context, content string) string
}

// CLI is an interactive terminal REPL. Every line is treated as directed at
// the bot, so no mention phrase is needed.
type CLI struct {
	handler   DirectHandler
	logger    *slog.Logger
	in        io.Reader
	out       io.Writer
	thinking  bool
	thinkMu   sync.Mutex
	thinkStop chan struct{}
}

type CLIConfig struct {
	Handler DirectHandler
	Logger  *slog.Logger
	In      io.Reader
	Out     io.Writer
}

func NewCLI(cfg CLIConfig) *CLI {
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	return &CLI{
		handler: cfg.Handler,
		logger:  cfg.Logger,
		in:      cfg.In,
		out:     cfg.Out,
	}
}

func (c *CLI) Name() string { return "cli" }

// Start runs the REPL and blocks until the context is cancelled or input
// reaches EOF.
func (c *CLI) Start(ctx context.Context) error {
	_, _ = fmt.Fprintln(c.out, "Tok Ayah CLI. Taip soalan anda dan tekan Enter. /quit untuk keluar.")
	_, _ = fmt.Fprint(c.out, "Anda> ")

	scanner := bufio.NewScanner(c.in)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return nil // EOF
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			_, _ = fmt.Fprint(c.out, "Anda> ")
			continue
		}
		if line == "/quit" || line == "/exit" || line == "/q" {
			c.logger.Info("user requested quit")
			return nil
		}

		c.startThinking()
		reply := c.handler.ProcessDirect(ctx, line)
		c.stopThinking()

		_, _ = fmt.Fprint(c.out, "\r\033[K")
		if reply == "" {
			reply = "(tiada jawapan)"
		}
		_, _ = fmt.Fprintln(c.out, "--- Tok Ayah ---")
		_, _ = fmt.Fprintln(c.out, reply)
		_, _ = fmt.Fprintln(c.out, "----------------")
		_, _ = fmt.Fprint(c.out, "Anda> ")
	}
}

func (c *CLI) startThinking() {
	c.thinkMu.Lock()
	defer c.thinkMu.Unlock()
	if c.thinking {
		return
	}
	c.thinking = true
	c.thinkStop = make(chan struct{})
	go func() {
		frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		i := 0
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-c.thinkStop:
				return
			case <-ticker.C:
				fmt.Fprintf(c.out, "\r%s Sedang berfikir...", frames[i%len(frames)])
				i++
			}
		}
	}()
}

func (c *CLI) stopThinking() {
	c.thinkMu.Lock()
	defer c.thinkMu.Unlock()
	if !c.thinking {
		return
	}
	c.thinking = false
	close(c.thinkStop)
}
