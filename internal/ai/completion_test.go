package ai

import (
	"context"
	"strings"
	"testing"

	"elasti/internal/config"
)

func TestCompleteUnknownProvider(t *testing.T) {
	client := NewLLMClient(&config.Config{LLMProvider: "carrier-pigeon"})
	defer client.Close()

	_, err := client.Complete(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if !strings.Contains(err.Error(), "unknown LLM provider") {
		t.Errorf("got %q, want unknown provider error", err)
	}
}

func TestCompleteCancelledContext(t *testing.T) {
	client := NewLLMClient(&config.Config{LLMProvider: "gemini"})
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Complete(ctx, "hello"); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
