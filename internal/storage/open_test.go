package storage

import (
	"context"
	"testing"

	"hamsafar/internal/config"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.StorageConfig{Driver: "memory"})
	if err != nil {
		t.Fatalf("Open memory failed: %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("Expected *MemoryStore, got %T", s)
	}

	s, err = Open(ctx, config.StorageConfig{Driver: "file", Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open file failed: %v", err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("Expected *FileStore, got %T", s)
	}

	if _, err := Open(ctx, config.StorageConfig{Driver: "tape"}); err == nil {
		t.Error("Expected error for unknown driver")
	}
}
