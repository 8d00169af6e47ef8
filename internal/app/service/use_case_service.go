package service

import (
	"errors"

	"github.com/hazique/iotstore-backend/internal/app/model"
	"github.com/hazique/iotstore-backend/internal/app/repository"
	"github.com/hazique/iotstore-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrUseCaseNotFound = errors.New("use case not found")

// DefaultUseCasePageSize is the landing page testimonial grid size.
const DefaultUseCasePageSize = 4

type UseCaseListResult struct {
	UseCases   []model.UseCase `json:"use_cases"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
}

type UseCaseService interface {
	CreateUseCase(useCase *model.UseCase) error
	GetUseCaseByID(id uint) (*model.UseCase, error)
	ListUseCases(page int) (*UseCaseListResult, error)
	UpdateUseCase(id uint, updates *model.UseCase) (*model.UseCase, error)
	DeleteUseCase(id uint) error
}

type useCaseService struct {
	useCaseRepo repository.UseCaseRepository
}

func NewUseCaseService(useCaseRepo repository.UseCaseRepository) UseCaseService {
	return &useCaseService{useCaseRepo: useCaseRepo}
}

func (s *useCaseService) CreateUseCase(useCase *model.UseCase) error {
	logger.Info("Creating use case", map[string]interface{}{
		"company": useCase.Company,
	})
	return s.useCaseRepo.Create(useCase)
}

func (s *useCaseService) GetUseCaseByID(id uint) (*model.UseCase, error) {
	useCase, err := s.useCaseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUseCaseNotFound
		}
		return nil, err
	}
	return useCase, nil
}

func (s *useCaseService) ListUseCases(page int) (*UseCaseListResult, error) {
	if page < 1 {
		page = 1
	}

	useCases, total, err := s.useCaseRepo.FindAll(page, DefaultUseCasePageSize)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + DefaultUseCasePageSize - 1) / DefaultUseCasePageSize)

	return &UseCaseListResult{
		UseCases:   useCases,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

func (s *useCaseService) UpdateUseCase(id uint, updates *model.UseCase) (*model.UseCase, error) {
	useCase, err := s.useCaseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUseCaseNotFound
		}
		return nil, err
	}

	useCase.Company = updates.Company
	useCase.Quote = updates.Quote
	useCase.Name = updates.Name
	useCase.Position = updates.Position
	if updates.LogoURL != "" {
		useCase.LogoURL = updates.LogoURL
	}

	if err := s.useCaseRepo.Update(useCase); err != nil {
		return nil, err
	}

	return useCase, nil
}

func (s *useCaseService) DeleteUseCase(id uint) error {
	if _, err := s.useCaseRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUseCaseNotFound
		}
		return err
	}
	return s.useCaseRepo.Delete(id)
}
