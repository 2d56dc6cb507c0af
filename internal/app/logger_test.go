package app

import "testing"

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"production", "development", ""} {
		logger := NewLogger(env)
		if logger == nil {
			t.Fatalf("env %q: expected a logger", env)
		}
		logger.Info("logger ready")
	}
}
