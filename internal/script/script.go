// Package script provides an offline responder that walks a fixed list of
// questions and summarizes the answers.
package script

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/diogo/relaychat/internal/models"
)

// CompleteText is returned for any input after the summary was produced
const CompleteText = "This conversation is complete. Type /reset to start over."

// Script is an ordered questionnaire
type Script struct {
	Intro     string   `yaml:"intro"`
	Questions []string `yaml:"questions"`
	Closing   string   `yaml:"closing"`
}

// DefaultScript returns the built-in questionnaire
func DefaultScript() Script {
	return Script{
		Intro: "Hello! I'm your AI assistant. Let's get a few details first.",
		Questions: []string{
			"What's your name?",
			"What would you like help with today?",
			"How urgent is it (low, medium, high)?",
		},
		Closing: "Thanks! Here's what I collected:",
	}
}

// LoadScript reads a YAML script from path
func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("failed to read script file: %w", err)
	}

	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("failed to parse script file: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Script{}, fmt.Errorf("invalid script %s: %w", path, err)
	}
	return s, nil
}

// Validate checks that the script has at least one non-blank question
func (s Script) Validate() error {
	if len(s.Questions) == 0 {
		return fmt.Errorf("no questions")
	}
	for i, q := range s.Questions {
		if strings.TrimSpace(q) == "" {
			return fmt.Errorf("question %d is empty", i+1)
		}
	}
	return nil
}

// Responder answers each submission with the next scripted question
type Responder struct {
	script  Script
	mu      sync.Mutex
	index   int
	answers []string
}

// NewResponder creates a Responder for s
func NewResponder(s Script) *Responder {
	return &Responder{script: s}
}

// Greeting returns the intro followed by the first question
func (r *Responder) Greeting() string {
	parts := make([]string, 0, 2)
	if r.script.Intro != "" {
		parts = append(parts, r.script.Intro)
	}
	if len(r.script.Questions) > 0 {
		parts = append(parts, r.script.Questions[0])
	}
	return strings.Join(parts, "\n\n")
}

// Respond records the answer to the current question
func (r *Responder) Respond(_ context.Context, req models.ExchangeRequest) models.ExchangeResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.index >= len(r.script.Questions) {
		return models.Success(CompleteText)
	}

	r.answers = append(r.answers, strings.TrimSpace(req.Message))
	r.index++

	if r.index < len(r.script.Questions) {
		return models.Success(r.script.Questions[r.index])
	}
	return models.Success(r.summary())
}

func (r *Responder) summary() string {
	var b strings.Builder
	if r.script.Closing != "" {
		b.WriteString(r.script.Closing)
		b.WriteString("\n\n")
	}
	for i, q := range r.script.Questions {
		fmt.Fprintf(&b, "- %s: %s\n", q, r.answers[i])
	}
	return strings.TrimRight(b.String(), "\n")
}

// Done reports whether every question was answered
func (r *Responder) Done() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index >= len(r.script.Questions)
}

// Answers returns a copy of the collected answers
func (r *Responder) Answers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.answers))
	copy(out, r.answers)
	return out
}

// Reset starts the questionnaire over
func (r *Responder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.index = 0
	r.answers = nil
}
