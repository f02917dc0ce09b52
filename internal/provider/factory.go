package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"tokbot/internal/config"
	"tokbot/internal/domain"
)

// Constructor builds a completer from a config entry.
type Constructor func(name string, pc config.ProviderConfig, logger *slog.Logger) domain.Completer

// Factory creates and caches completers from config.
type Factory struct {
	cfg          *config.Config
	logger       *slog.Logger
	constructors map[string]Constructor
	cache        map[string]domain.Completer
	mu           sync.RWMutex
}

// NewFactory creates a factory with the built-in constructors registered.
func NewFactory(cfg *config.Config, logger *slog.Logger) *Factory {
	f := &Factory{
		cfg:          cfg,
		logger:       logger,
		constructors: make(map[string]Constructor),
		cache:        make(map[string]domain.Completer),
	}
	f.registerDefaults()
	return f
}

// RegisterConstructor adds (or replaces) a constructor by name.
func (f *Factory) RegisterConstructor(name string, ctor Constructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.constructors[name] = ctor
}

func (f *Factory) registerDefaults() {
	// Ollama exposes an OpenAI-compatible surface at /v1; no API key.
	f.constructors["ollama"] = func(name string, pc config.ProviderConfig, logger *slog.Logger) domain.Completer {
		base := pc.APIBase
		if base == "" {
			base = "http://localhost:11434/v1"
		}
		model := pc.DefaultModel
		if model == "" {
			model = "llama3.1:8b"
		}
		return NewOpenAI(OpenAIConfig{Name: name, APIBase: base, Model: model, Logger: logger})
	}

	f.constructors["openai"] = func(name string, pc config.ProviderConfig, logger *slog.Logger) domain.Completer {
		return NewOpenAI(OpenAIConfig{Name: name, APIKey: pc.APIKey, APIBase: pc.APIBase, Model: pc.DefaultModel, Logger: logger})
	}
}

// Get returns the completer with the given name, or the default if name is
// empty. Created completers are cached so the same instance is reused.
// Double-check locking avoids TOCTOU races between concurrent callers.
func (f *Factory) Get(name string) (domain.Completer, error) {
	if name == "" {
		name = f.cfg.General.DefaultProvider
	}

	f.mu.RLock()
	if cached, ok := f.cache[name]; ok {
		f.mu.RUnlock()
		return cached, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()

	if cached, ok := f.cache[name]; ok {
		return cached, nil
	}

	pc, ok := f.cfg.Providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
	if !pc.Enabled {
		return nil, fmt.Errorf("provider %s is disabled", name)
	}

	ctor, found := f.constructors[name]

	var c domain.Completer
	if found {
		c = ctor(name, pc, f.logger)
	} else if pc.APIBase != "" {
		// Unknown providers with an API base are treated as
		// OpenAI-compatible.
		c = NewOpenAI(OpenAIConfig{Name: name, APIKey: pc.APIKey, APIBase: pc.APIBase, Model: pc.DefaultModel, Logger: f.logger})
	} else {
		return nil, fmt.Errorf("provider %s: no constructor registered and no API base configured", name)
	}

	f.cache[name] = c
	return c, nil
}

// Default returns the configured default completer.
func (f *Factory) Default() (domain.Completer, error) {
	return f.Get("")
}

// FirstHealthy returns the first completer that passes a health check, or nil.
func (f *Factory) FirstHealthy(ctx context.Context) domain.Completer {
	for name := range f.cfg.Providers {
		c, err := f.Get(name)
		if err != nil || c == nil {
			continue
		}
		if c.Healthy(ctx) == nil {
			return c
		}
	}
	return nil
}
