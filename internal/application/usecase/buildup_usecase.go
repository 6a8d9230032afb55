package usecase

import (
	"github.com/henn-dt/carbonitor-v2/internal/application/dto"
	"github.com/henn-dt/carbonitor-v2/internal/domain"
	"github.com/henn-dt/carbonitor-v2/internal/domain/entity"
	"github.com/henn-dt/carbonitor-v2/internal/domain/repository"
	"github.com/henn-dt/carbonitor-v2/pkg/logger"
	"github.com/shopspring/decimal"
)

// BuildupUseCase manages buildups. Deleting a buildup also drops every
// category association that points at it.
type BuildupUseCase struct {
	repo         repository.BuildupRepository
	associations repository.CategoryAssociationRepository
	log          *logger.Logger
}

// NewBuildupUseCase builds the use case.
func NewBuildupUseCase(repo repository.BuildupRepository, associations repository.CategoryAssociationRepository, log *logger.Logger) *BuildupUseCase {
	return &BuildupUseCase{repo: repo, associations: associations, log: log}
}

// GetByID fetches one buildup. Returns (nil, nil) when absent.
func (uc *BuildupUseCase) GetByID(id int) (*dto.BuildupResponse, error) {
	buildup, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return toBuildupResponse(buildup), nil
}

// List pages through buildups.
func (uc *BuildupUseCase) List(limit, offset int) (*dto.BuildupListResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	buildups, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BuildupResponse, 0, len(buildups))
	for _, b := range buildups {
		items = append(items, *toBuildupResponse(b))
	}
	return &dto.BuildupListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Create stores a new buildup. Quantity defaults to 1 when zero.
func (uc *BuildupUseCase) Create(in dto.CreateBuildupRequest, userID *int) (*dto.BuildupResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	quantity := in.Quantity
	if quantity.IsZero() {
		quantity = decimal.NewFromInt(1)
	}
	status := in.Status
	if status == "" {
		status = entity.BuildupStatusActive
	}
	created, err := uc.repo.Create(&entity.Buildup{
		UserIDCreated:  userID,
		UserIDUpdated:  userID,
		Name:           in.Name,
		Status:         status,
		Classification: in.Classification,
		Comment:        in.Comment,
		Description:    in.Description,
		Quantity:       quantity,
		Unit:           in.Unit,
		MetaData:       in.MetaData,
		Products:       in.Products,
		Results:        in.Results,
	})
	if err != nil {
		return nil, err
	}
	return toBuildupResponse(created), nil
}

// Update applies a partial update. Returns (nil, nil) when the buildup does
// not exist.
func (uc *BuildupUseCase) Update(id int, in dto.UpdateBuildupRequest, userID *int) (*dto.BuildupResponse, error) {
	buildup, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if buildup == nil {
		return nil, nil
	}
	if in.Name != nil {
		buildup.Name = *in.Name
	}
	if in.Status != nil {
		buildup.Status = *in.Status
	}
	if in.Classification != nil {
		buildup.Classification = in.Classification
	}
	if in.Comment != nil {
		buildup.Comment = *in.Comment
	}
	if in.Description != nil {
		buildup.Description = *in.Description
	}
	if in.Quantity != nil {
		buildup.Quantity = *in.Quantity
	}
	if in.Unit != nil {
		buildup.Unit = *in.Unit
	}
	if in.MetaData != nil {
		buildup.MetaData = in.MetaData
	}
	if in.Products != nil {
		buildup.Products = in.Products
	}
	if in.Results != nil {
		buildup.Results = in.Results
	}
	buildup.UserIDUpdated = userID
	updated, err := uc.repo.Update(buildup)
	if err != nil {
		return nil, err
	}
	return toBuildupResponse(updated), nil
}

// Delete removes a buildup and its category associations. Returns false
// when the buildup does not exist.
func (uc *BuildupUseCase) Delete(id int) (bool, error) {
	buildup, err := uc.repo.GetByID(id)
	if err != nil {
		return false, err
	}
	if buildup == nil {
		return false, nil
	}
	removed, err := uc.associations.RemoveEntityFromAllCategories(entity.EntityTypeBuildup, id)
	if err != nil {
		return false, err
	}
	if removed > 0 {
		uc.log.Info().Int("buildup_id", id).Int("associations", removed).Msg("buildup associations removed")
	}
	if err := uc.repo.Delete(id); err != nil {
		return false, err
	}
	return true, nil
}

func toBuildupResponse(b *entity.Buildup) *dto.BuildupResponse {
	if b == nil {
		return nil
	}
	return &dto.BuildupResponse{
		ID:             b.ID,
		Name:           b.Name,
		Status:         b.Status,
		Classification: b.Classification,
		Comment:        b.Comment,
		Description:    b.Description,
		Quantity:       b.Quantity,
		Unit:           b.Unit,
		MetaData:       b.MetaData,
		Products:       b.Products,
		Results:        b.Results,
	}
}
