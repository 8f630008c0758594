package assistant

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"plaque-gateway/internal/config"
	"plaque-gateway/internal/metrics"
)

// Prompt is the body of an /ask request.
type Prompt struct {
	Context      string `json:"context"`
	Instructions string `json:"instructions"`
}

// Text is the single prompt string handed to the model.
func (p Prompt) Text() string {
	return fmt.Sprintf("Contexte : %s Instructions : %s", p.Context, p.Instructions)
}

// Runner invokes a local model through its command-line client, e.g.
// "ollama run gemma3:270m <prompt>".
type Runner struct {
	args    []string
	model   string
	timeout time.Duration
	metrics *metrics.Metrics
	log     zerolog.Logger
}

func NewRunner(cfg config.AssistantConfig, m *metrics.Metrics, log zerolog.Logger) (*Runner, error) {
	args, err := cfg.AssistantArgs()
	if err != nil {
		return nil, err
	}
	return &Runner{
		args:    args,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		metrics: m,
		log:     log.With().Str("component", "assistant").Logger(),
	}, nil
}

// Ask runs the model and returns its trimmed stdout, or its trimmed stderr
// when stdout is blank. A non-zero exit status is not an error: whatever the
// command printed is the answer. Only failing to run the command is.
func (r *Runner) Ask(ctx context.Context, p Prompt) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	argv := append([]string{}, r.args[1:]...)
	if r.model != "" {
		argv = append(argv, r.model)
	}
	argv = append(argv, p.Text())

	cmd := exec.CommandContext(ctx, r.args[0], argv...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		r.metrics.ObserveAssistant("error")
		r.log.Error().Err(err).Str("command", r.args[0]).Msg("failed to run assistant command")
		return "", fmt.Errorf("run %s: %w", r.args[0], err)
	}

	response := strings.TrimSpace(stdout.String())
	if response == "" {
		response = strings.TrimSpace(stderr.String())
	}

	outcome := "ok"
	if exitErr != nil {
		outcome = "exit_status"
	}
	r.metrics.ObserveAssistant(outcome)
	r.log.Info().
		Str("model", r.model).
		Int("prompt_len", len(p.Text())).
		Int("response_len", len(response)).
		Dur("duration", time.Since(start)).
		Bool("exit_error", exitErr != nil).
		Msg("assistant answered")

	return response, nil
}
