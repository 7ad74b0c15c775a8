package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/xchange/skill-exchange/internal/core/domain"
	"github.com/xchange/skill-exchange/internal/core/ports"
)

type ConnectionService struct {
	repo   ports.UserRepository
	serial ports.Serializer
	logger zerolog.Logger
}

func NewConnectionService(repo ports.UserRepository, serial ports.Serializer, logger zerolog.Logger) *ConnectionService {
	return &ConnectionService{repo: repo, serial: serial, logger: logger}
}

// Connect adds a one-directional edge userID -> targetID. Both users must
// exist. Connecting twice leaves a single edge.
func (s *ConnectionService) Connect(ctx context.Context, userID, targetID string) (*domain.User, error) {
	if targetID == "" {
		return nil, domain.ErrUserNotFound
	}

	var result *domain.User
	err := s.serial.Do(ctx, userID, func(ctx context.Context) error {
		user, err := s.repo.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		target, err := s.repo.FindByID(ctx, targetID)
		if err != nil {
			return err
		}

		if user.Connect(target.ID) {
			if err := s.repo.Save(ctx, user); err != nil {
				return fmt.Errorf("save connections: %w", err)
			}
			s.logger.Debug().Str("user_id", userID).Str("target_id", target.ID).Msg("connection added")
		}
		result = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Disconnect removes every userID -> targetID edge. The target is not
// required to exist and removing a missing edge still succeeds.
func (s *ConnectionService) Disconnect(ctx context.Context, userID, targetID string) (*domain.User, error) {
	var result *domain.User
	err := s.serial.Do(ctx, userID, func(ctx context.Context) error {
		user, err := s.repo.FindByID(ctx, userID)
		if err != nil {
			return err
		}

		removed := user.Disconnect(targetID)
		if err := s.repo.Save(ctx, user); err != nil {
			return fmt.Errorf("save connections: %w", err)
		}
		s.logger.Debug().Str("user_id", userID).Str("target_id", targetID).Int("removed", removed).Msg("connection removed")
		result = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListConnections resolves the user's connection list into full users, in
// list order. References to users that no longer exist are skipped.
func (s *ConnectionService) ListConnections(ctx context.Context, userID string) ([]*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.Connections) == 0 {
		return []*domain.User{}, nil
	}

	found, err := s.repo.FindByIDs(ctx, user.Connections)
	if err != nil {
		return nil, fmt.Errorf("resolve connections: %w", err)
	}

	byID := make(map[string]*domain.User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}

	out := make([]*domain.User, 0, len(user.Connections))
	for _, id := range user.Connections {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}
