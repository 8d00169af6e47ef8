package service

import (
	"fmt"
	"testing"

	"github.com/hazique/iotstore-backend/internal/app/model"
	"github.com/hazique/iotstore-backend/internal/app/repository"
	"github.com/hazique/iotstore-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUseCaseServiceTest(t *testing.T) UseCaseService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	useCaseRepo := repository.NewUseCaseRepository(testDB)
	return NewUseCaseService(useCaseRepo)
}

func TestUseCaseService_CreateAndGet(t *testing.T) {
	useCaseService := setupUseCaseServiceTest(t)

	useCase := &model.UseCase{
		Company:  "Acme Logistics",
		LogoURL:  "https://cdn.example.com/acme.png",
		Quote:    "The sensors cut our cold-chain losses in half.",
		Name:     "Dana Kim",
		Position: "Operations Lead",
	}
	require.NoError(t, useCaseService.CreateUseCase(useCase))
	assert.NotZero(t, useCase.ID)

	found, err := useCaseService.GetUseCaseByID(useCase.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Logistics", found.Company)
	assert.Equal(t, "Dana Kim", found.Name)
	assert.Equal(t, "Operations Lead", found.Position)

	_, err = useCaseService.GetUseCaseByID(9999)
	assert.ErrorIs(t, err, ErrUseCaseNotFound)
}

func TestUseCaseService_ListUseCases_Paginated(t *testing.T) {
	useCaseService := setupUseCaseServiceTest(t)

	for i := 0; i < 6; i++ {
		require.NoError(t, useCaseService.CreateUseCase(&model.UseCase{
			Company: fmt.Sprintf("Company %d", i),
			Quote:   "Great devices.",
			Name:    fmt.Sprintf("Person %d", i),
		}))
	}

	result, err := useCaseService.ListUseCases(1)
	require.NoError(t, err)
	assert.Len(t, result.UseCases, DefaultUseCasePageSize)
	assert.Equal(t, int64(6), result.Total)
	assert.Equal(t, 2, result.TotalPages)

	result, err = useCaseService.ListUseCases(2)
	require.NoError(t, err)
	assert.Len(t, result.UseCases, 2)
}

func TestUseCaseService_UpdateUseCase(t *testing.T) {
	useCaseService := setupUseCaseServiceTest(t)

	useCase := &model.UseCase{
		Company: "Acme Logistics",
		LogoURL: "https://cdn.example.com/acme.png",
		Quote:   "Old quote",
		Name:    "Dana Kim",
	}
	require.NoError(t, useCaseService.CreateUseCase(useCase))

	updated, err := useCaseService.UpdateUseCase(useCase.ID, &model.UseCase{
		Company:  "Acme Logistics",
		Quote:    "New quote",
		Name:     "Dana Kim",
		Position: "VP Operations",
	})
	require.NoError(t, err)
	assert.Equal(t, "New quote", updated.Quote)
	assert.Equal(t, "VP Operations", updated.Position)
	// Empty logo in the update keeps the stored one
	assert.Equal(t, "https://cdn.example.com/acme.png", updated.LogoURL)

	_, err = useCaseService.UpdateUseCase(9999, &model.UseCase{Company: "X"})
	assert.ErrorIs(t, err, ErrUseCaseNotFound)
}

func TestUseCaseService_DeleteUseCase(t *testing.T) {
	useCaseService := setupUseCaseServiceTest(t)

	useCase := &model.UseCase{
		Company: "Acme Logistics",
		Quote:   "Great devices.",
		Name:    "Dana Kim",
	}
	require.NoError(t, useCaseService.CreateUseCase(useCase))

	require.NoError(t, useCaseService.DeleteUseCase(useCase.ID))

	_, err := useCaseService.GetUseCaseByID(useCase.ID)
	assert.ErrorIs(t, err, ErrUseCaseNotFound)

	err = useCaseService.DeleteUseCase(9999)
	assert.ErrorIs(t, err, ErrUseCaseNotFound)
}
