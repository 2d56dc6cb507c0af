package textgen

import (
	"context"
	"testing"

	"hamsafar/internal/config"
)

func TestNew_DisabledWithoutKey(t *testing.T) {
	g, err := New(context.Background(), config.TextGenConfig{Model: "gemini-2.5-flash"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if g != nil {
		t.Error("Expected nil generator without an API key")
	}
}
