package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hazique/iotstore-backend/internal/app/model"
	"github.com/hazique/iotstore-backend/internal/app/service"
	apperrors "github.com/hazique/iotstore-backend/internal/errors"
	"github.com/hazique/iotstore-backend/internal/middleware"
)

type UseCaseController struct {
	useCaseService service.UseCaseService
}

func NewUseCaseController(useCaseService service.UseCaseService) *UseCaseController {
	return &UseCaseController{
		useCaseService: useCaseService,
	}
}

type UseCaseRequest struct {
	Company  string `json:"company" binding:"required"`
	LogoURL  string `json:"logo_url"`
	Quote    string `json:"quote" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Position string `json:"position"`
}

// ListUseCases returns a page of testimonials
// GET /api/usecases?page=
func (ctrl *UseCaseController) ListUseCases(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result, err := ctrl.useCaseService.ListUseCases(page)
	if err != nil {
		log.Error("Failed to list use cases", err, map[string]interface{}{
			"page": page,
		})
		apperrors.InternalError(c, "Failed to fetch use cases")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"use_cases":   result.UseCases,
		"total":       result.Total,
		"page":        result.Page,
		"total_pages": result.TotalPages,
	})
}

// GetUseCaseByID returns one testimonial
// GET /api/usecases/:id
func (ctrl *UseCaseController) GetUseCaseByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid use case ID")
		return
	}

	useCase, err := ctrl.useCaseService.GetUseCaseByID(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrUseCaseNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Use case not found")
			return
		}
		log.Error("Failed to fetch use case", err, map[string]interface{}{
			"use_case_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch use case")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"use_case": useCase,
	})
}

// CreateUseCase adds a testimonial (Admin only)
// POST /api/usecases
func (ctrl *UseCaseController) CreateUseCase(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req UseCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	useCase := &model.UseCase{
		Company:  req.Company,
		LogoURL:  req.LogoURL,
		Quote:    req.Quote,
		Name:     req.Name,
		Position: req.Position,
	}

	if err := ctrl.useCaseService.CreateUseCase(useCase); err != nil {
		log.Error("Failed to create use case", err, map[string]interface{}{
			"company": req.Company,
		})
		apperrors.InternalError(c, "Failed to create use case")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Use case created successfully",
		"use_case": useCase,
	})
}

// UpdateUseCase edits a testimonial (Admin only)
// PUT /api/usecases/:id
func (ctrl *UseCaseController) UpdateUseCase(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid use case ID")
		return
	}

	var req UseCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	useCase, err := ctrl.useCaseService.UpdateUseCase(uint(id), &model.UseCase{
		Company:  req.Company,
		LogoURL:  req.LogoURL,
		Quote:    req.Quote,
		Name:     req.Name,
		Position: req.Position,
	})
	if err != nil {
		if errors.Is(err, service.ErrUseCaseNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Use case not found")
			return
		}
		log.Error("Failed to update use case", err, map[string]interface{}{
			"use_case_id": id,
		})
		apperrors.InternalError(c, "Failed to update use case")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Use case updated successfully",
		"use_case": useCase,
	})
}

// DeleteUseCase removes a testimonial (Admin only)
// DELETE /api/usecases/:id
func (ctrl *UseCaseController) DeleteUseCase(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid use case ID")
		return
	}

	if err := ctrl.useCaseService.DeleteUseCase(uint(id)); err != nil {
		if errors.Is(err, service.ErrUseCaseNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Use case not found")
			return
		}
		log.Error("Failed to delete use case", err, map[string]interface{}{
			"use_case_id": id,
		})
		apperrors.InternalError(c, "Failed to delete use case")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Use case deleted successfully",
	})
}
