package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// minPlaceLength is the shortest pickup or destination worth asking about.
const minPlaceLength = 4

// TipsService produces a few lines of travel advice for a trip. Every failure
// path yields an empty string.
type TipsService struct {
	generator TextGenerator
	timeout   time.Duration
	logger    *zap.Logger
}

// NewTipsService accepts a nil generator, which disables tips.
func NewTipsService(generator TextGenerator, timeout time.Duration, logger *zap.Logger) *TipsService {
	return &TipsService{
		generator: generator,
		timeout:   timeout,
		logger:    logger,
	}
}

func (s *TipsService) Tips(ctx context.Context, from, to string) string {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if s.generator == nil || len([]rune(from)) < minPlaceLength || len([]rune(to)) < minPlaceLength {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := fmt.Sprintf("Provide 2-3 short, helpful travel tips or estimated travel duration for a trip from %s to %s in the context of Pakistan/local travel. Keep it very brief.", from, to)
	tips, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Debug("travel tips unavailable", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(tips)
}
