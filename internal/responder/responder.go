// Package responder implements the topic-specialized answer generators and
// the synthesizer that merges their answers.
package responder

import (
	"context"
	"fmt"
	"strings"
)

// ApologyReply is the only user-visible text a generation failure can
// produce. Raw error text never reaches end users.
const ApologyReply = "Maaf, saya menghadapi masalah teknikal buat masa ini. Sila cuba sebentar lagi."

// Responder is the capability every answer generator exposes. Scoring and
// generation never return errors: failures are logged and degraded to 0.0
// or ApologyReply at this boundary.
type Responder interface {
	Name() string
	Label() string
	Command() string
	Topics() []string
	Keywords() []string
	Threshold() float64
	ScoreRelevance(ctx context.Context, text string) float64
	ShouldRespond(ctx context.Context, text string) bool
	Generate(ctx context.Context, text string) string
}

// Profile declares one specialist: its topical identity, its generation
// prompt, and the relevance threshold the router compares scores against.
// Profiles are created at startup and immutable thereafter.
type Profile struct {
	Name      string   `yaml:"name" json:"name"`
	Label     string   `yaml:"label" json:"label"`
	Command   string   `yaml:"command" json:"command"`
	Topics    []string `yaml:"topics" json:"topics"`
	Keywords  []string `yaml:"keywords" json:"keywords"`
	Prompt    string   `yaml:"prompt" json:"prompt"`
	Threshold float64  `yaml:"threshold" json:"threshold"`
}

func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	if strings.TrimSpace(p.Prompt) == "" {
		return fmt.Errorf("profile %s: prompt is required", p.Name)
	}
	if len(p.Keywords) == 0 {
		return fmt.Errorf("profile %s: at least one keyword is required", p.Name)
	}
	if p.Threshold < 0 || p.Threshold > 1 {
		return fmt.Errorf("profile %s: threshold must be in [0,1], got %g", p.Name, p.Threshold)
	}
	return nil
}
