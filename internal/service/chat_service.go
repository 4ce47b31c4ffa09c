package service

import (
	"context"
	"fmt"

	"milamart/internal/model"
	"milamart/internal/search"

	"github.com/rs/zerolog"
)

// chatService implements ChatService.
type chatService struct {
	catalog CatalogLoader
	matcher *search.Matcher
	logger  zerolog.Logger
}

// NewChatService creates a new chat service.
func NewChatService(loader CatalogLoader, matcher *search.Matcher, logger zerolog.Logger) ChatService {
	return &chatService{
		catalog: loader,
		matcher: matcher,
		logger:  logger.With().Str("service", "chat").Logger(),
	}
}

// Reply matches req.Message against the catalogue. An empty message is not an
// error and yields suggestions.
func (s *chatService) Reply(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error) {
	cat, err := s.catalog.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load catalog")
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	history := req.RecentHistory()
	reply, products := s.matcher.Match(cat.Products(), req.Message, history)

	s.logger.Debug().
		Int("message_length", len(req.Message)).
		Int("history", len(history)).
		Int("products", len(products)).
		Msg("chat reply built")

	return &model.ChatResponse{
		Reply:    reply,
		Products: products,
	}, nil
}
