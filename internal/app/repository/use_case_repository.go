package repository

import (
	"github.com/hazique/iotstore-backend/internal/app/model"
	"github.com/hazique/iotstore-backend/pkg/logger"
	"gorm.io/gorm"
)

type UseCaseRepository interface {
	Create(useCase *model.UseCase) error
	FindByID(id uint) (*model.UseCase, error)
	FindAll(page, pageSize int) ([]model.UseCase, int64, error)
	Update(useCase *model.UseCase) error
	Delete(id uint) error
}

type useCaseRepository struct {
	db *gorm.DB
}

func NewUseCaseRepository(db *gorm.DB) UseCaseRepository {
	return &useCaseRepository{db: db}
}

func (r *useCaseRepository) Create(useCase *model.UseCase) error {
	logger.Debug("Creating use case in database", map[string]interface{}{
		"company": useCase.Company,
	})

	if err := r.db.Create(useCase).Error; err != nil {
		logger.Error("Failed to create use case in database", err, map[string]interface{}{
			"company": useCase.Company,
		})
		return err
	}

	return nil
}

func (r *useCaseRepository) FindByID(id uint) (*model.UseCase, error) {
	var useCase model.UseCase
	if err := r.db.First(&useCase, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find use case by ID in database", err, map[string]interface{}{
				"use_case_id": id,
			})
		}
		return nil, err
	}
	return &useCase, nil
}

func (r *useCaseRepository) FindAll(page, pageSize int) ([]model.UseCase, int64, error) {
	logger.Debug("Finding use cases in database", map[string]interface{}{
		"page":      page,
		"page_size": pageSize,
	})

	var total int64
	if err := r.db.Model(&model.UseCase{}).Count(&total).Error; err != nil {
		logger.Error("Failed to count use cases in database", err, nil)
		return nil, 0, err
	}

	var useCases []model.UseCase
	offset := (page - 1) * pageSize
	if err := r.db.Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&useCases).Error; err != nil {
		logger.Error("Failed to find use cases in database", err, map[string]interface{}{
			"page": page,
		})
		return nil, 0, err
	}

	return useCases, total, nil
}

func (r *useCaseRepository) Update(useCase *model.UseCase) error {
	logger.Debug("Updating use case in database", map[string]interface{}{
		"use_case_id": useCase.ID,
	})

	if err := r.db.Save(useCase).Error; err != nil {
		logger.Error("Failed to update use case in database", err, map[string]interface{}{
			"use_case_id": useCase.ID,
		})
		return err
	}

	return nil
}

func (r *useCaseRepository) Delete(id uint) error {
	logger.Debug("Deleting use case from database", map[string]interface{}{
		"use_case_id": id,
	})

	if err := r.db.Delete(&model.UseCase{}, id).Error; err != nil {
		logger.Error("Failed to delete use case from database", err, map[string]interface{}{
			"use_case_id": id,
		})
		return err
	}

	return nil
}
