package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNameRequired    = errors.New("session name is required")
	ErrPrefixRequired  = errors.New("session prefix is required")
	ErrInvalidCapacity = errors.New("max tokens must be at least 1")
	ErrInvalidWindow   = errors.New("session end time must be after start time")
)

type Service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, sess *Session) (*Session, error) {
	sess.Name = strings.TrimSpace(sess.Name)
	sess.Prefix = strings.ToUpper(strings.TrimSpace(sess.Prefix))

	if sess.Name == "" {
		return nil, ErrNameRequired
	}
	if sess.Prefix == "" {
		return nil, ErrPrefixRequired
	}
	if sess.MaxTokens < 1 {
		return nil, ErrInvalidCapacity
	}
	if !sess.EndTime.After(sess.StartTime) {
		return nil, ErrInvalidWindow
	}

	created, err := s.repo.Create(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("session created",
		zap.String("session_id", created.ID.String()),
		zap.String("prefix", created.Prefix),
		zap.Int("max_tokens", created.MaxTokens))

	return created, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByDate(ctx context.Context, date time.Time) ([]Session, error) {
	sessions, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*Session, error) {
	updated, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return nil, err
	}

	s.logger.Info("session active flag changed",
		zap.String("session_id", id.String()),
		zap.Bool("active", active))

	return updated, nil
}
