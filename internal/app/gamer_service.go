package app

import (
	"context"

	"github.com/ishaanJ91/NiteOut/internal/clock"
	"github.com/ishaanJ91/NiteOut/internal/domain"
)

// GamerRepository is the storage contract for gamer and publican records.
type GamerRepository interface {
	CreateGamer(ctx context.Context, gamer domain.Gamer) error
	GetGamer(ctx context.Context, gamerID string) (domain.Gamer, error)
	ListHostedGameIDs(ctx context.Context, gamerID string) ([]string, error)
	ListJoinedGameIDs(ctx context.Context, gamerID string) ([]string, error)
	CreatePublican(ctx context.Context, publican domain.Publican) error
	GetPublican(ctx context.Context, pubID string) (domain.Publican, error)
}

type GamerService struct {
	repo  GamerRepository
	clock clock.Clock
}

func NewGamerService(repo GamerRepository, clk clock.Clock) *GamerService {
	return &GamerService{
		repo:  repo,
		clock: clk,
	}
}

type RegisterGamerInput struct {
	ID    string
	Email string
	Name  string
}

// RegisterGamer stores a gamer record. The id comes from the identity
// provider, so the caller supplies it rather than the service minting one.
func (s *GamerService) RegisterGamer(ctx context.Context, in RegisterGamerInput) (domain.Gamer, error) {
	if in.ID == "" {
		return domain.Gamer{}, domain.ErrGamerIDRequired
	}
	gamer := domain.Gamer{
		ID:        in.ID,
		Email:     in.Email,
		Name:      in.Name,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.CreateGamer(ctx, gamer); err != nil {
		return domain.Gamer{}, err
	}
	return gamer, nil
}

// GamerProfile is a gamer with hosted and joined game back-references.
type GamerProfile struct {
	Gamer       domain.Gamer
	HostedGames []string
	JoinedGames []string
}

func (s *GamerService) GetProfile(ctx context.Context, gamerID string) (GamerProfile, error) {
	gamer, err := s.repo.GetGamer(ctx, gamerID)
	if err != nil {
		return GamerProfile{}, err
	}
	hosted, err := s.repo.ListHostedGameIDs(ctx, gamerID)
	if err != nil {
		return GamerProfile{}, err
	}
	joined, err := s.repo.ListJoinedGameIDs(ctx, gamerID)
	if err != nil {
		return GamerProfile{}, err
	}
	return GamerProfile{Gamer: gamer, HostedGames: hosted, JoinedGames: joined}, nil
}

type RegisterPublicanInput struct {
	PubName string
}

func (s *GamerService) RegisterPublican(ctx context.Context, in RegisterPublicanInput) (domain.Publican, error) {
	if in.PubName == "" {
		return domain.Publican{}, domain.ErrPubNameRequired
	}
	publican := domain.Publican{
		ID:        newID(),
		PubName:   in.PubName,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.CreatePublican(ctx, publican); err != nil {
		return domain.Publican{}, err
	}
	return publican, nil
}
