package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/padel-ladder-system/models"
	"github.com/Dosada05/padel-ladder-system/repositories"
)

type CreateLadderInput struct {
	ClubID int
	Name   string
}

type CreateCategoryInput struct {
	LadderID       int
	Name           string
	ChallengeRange int
	EntryFee       *float64
}

type LadderService interface {
	CreateLadder(ctx context.Context, input CreateLadderInput) (*models.Ladder, error)
	GetLadder(ctx context.Context, id int) (*models.Ladder, error)
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.LadderCategory, error)
	GetCategory(ctx context.Context, id int) (*models.LadderCategory, error)
	ListCategories(ctx context.Context, ladderID int) ([]*models.LadderCategory, error)
}

type ladderService struct {
	ladderRepo repositories.LadderRepository
	logger     *slog.Logger
}

func NewLadderService(ladderRepo repositories.LadderRepository, logger *slog.Logger) LadderService {
	return &ladderService{
		ladderRepo: ladderRepo,
		logger:     logger,
	}
}

func (s *ladderService) CreateLadder(ctx context.Context, input CreateLadderInput) (*models.Ladder, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: ladder name is required", ErrValidationFailed)
	}
	if input.ClubID <= 0 {
		return nil, fmt.Errorf("%w: club_id is required", ErrValidationFailed)
	}

	ladder := &models.Ladder{
		ClubID: input.ClubID,
		Name:   name,
		Status: models.LadderStatusActive,
	}
	if err := s.ladderRepo.CreateLadder(ctx, ladder); err != nil {
		return nil, fmt.Errorf("failed to create ladder: %w", err)
	}
	return ladder, nil
}

func (s *ladderService) GetLadder(ctx context.Context, id int) (*models.Ladder, error) {
	ladder, err := s.ladderRepo.GetLadderByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrLadderNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ladder, nil
}

func (s *ladderService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.LadderCategory, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidationFailed)
	}
	if input.ChallengeRange < 1 {
		return nil, fmt.Errorf("%w: challenge_range must be at least 1", ErrValidationFailed)
	}
	if _, err := s.ladderRepo.GetLadderByID(ctx, input.LadderID); err != nil {
		if errors.Is(err, repositories.ErrLadderNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	category := &models.LadderCategory{
		LadderID:       input.LadderID,
		Name:           name,
		ChallengeRange: input.ChallengeRange,
		EntryFee:       input.EntryFee,
	}
	if err := s.ladderRepo.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *ladderService) GetCategory(ctx context.Context, id int) (*models.LadderCategory, error) {
	category, err := s.ladderRepo.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *ladderService) ListCategories(ctx context.Context, ladderID int) ([]*models.LadderCategory, error) {
	return s.ladderRepo.ListCategoriesByLadder(ctx, ladderID)
}
