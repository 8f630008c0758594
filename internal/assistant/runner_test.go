package assistant

import (
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"plaque-gateway/internal/config"
)

func newRunner(t *testing.T, command, model string) *Runner {
	t.Helper()
	r, err := NewRunner(config.AssistantConfig{Command: command, Model: model, Timeout: 5 * time.Second}, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	return r
}

func requireSh(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestPromptText(t *testing.T) {
	p := Prompt{Context: "flotte de 12 camions", Instructions: "résume"}
	if got := p.Text(); got != "Contexte : flotte de 12 camions Instructions : résume" {
		t.Errorf("Text() = %q", got)
	}
}

func TestAskReturnsStdout(t *testing.T) {
	requireSh(t)
	// $1 is the model, $2 the prompt
	r := newRunner(t, `sh -c 'echo "  [$1] $2  "' sh`, "gemma3:270m")

	got, err := r.Ask(context.Background(), Prompt{Context: "c", Instructions: "i"})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if got != "[gemma3:270m] Contexte : c Instructions : i" {
		t.Errorf("Ask() = %q", got)
	}
}

func TestAskFallsBackToStderr(t *testing.T) {
	requireSh(t)
	tests := []struct {
		name    string
		command string
		want    string
	}{
		{name: "stderr only", command: `sh -c 'echo "model missing" >&2' sh`, want: "model missing"},
		{name: "non-zero exit", command: `sh -c 'echo boom >&2; exit 3' sh`, want: "boom"},
		{name: "blank stdout", command: `sh -c 'echo "   "; echo warn >&2' sh`, want: "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newRunner(t, tt.command, "m").Ask(context.Background(), Prompt{})
			if err != nil {
				t.Fatalf("Ask() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Ask() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAskMissingCommand(t *testing.T) {
	r := newRunner(t, "definitely-not-a-model-runner-7f3a", "m")
	_, err := r.Ask(context.Background(), Prompt{Context: "x"})
	if err == nil || !strings.Contains(err.Error(), "definitely-not-a-model-runner-7f3a") {
		t.Errorf("Ask() error = %v, want start failure", err)
	}
}

func TestNewRunnerRejectsEmptyCommand(t *testing.T) {
	if _, err := NewRunner(config.AssistantConfig{Command: "  "}, nil, zerolog.Nop()); err == nil {
		t.Error("NewRunner() should reject an empty command")
	}
}
