package usecase

import (
	"github.com/henn-dt/carbonitor-v2/internal/application/dto"
	"github.com/henn-dt/carbonitor-v2/internal/domain"
	"github.com/henn-dt/carbonitor-v2/internal/domain/entity"
	"github.com/henn-dt/carbonitor-v2/internal/domain/repository"
	"github.com/henn-dt/carbonitor-v2/pkg/logger"
)

// ProductUseCase manages the EPD product catalog. Deleting a product also
// drops every category association that points at it.
type ProductUseCase struct {
	repo         repository.ProductRepository
	associations repository.CategoryAssociationRepository
	log          *logger.Logger
}

// NewProductUseCase builds the use case.
func NewProductUseCase(repo repository.ProductRepository, associations repository.CategoryAssociationRepository, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, associations: associations, log: log}
}

// GetByID fetches one product. Returns (nil, nil) when absent.
func (uc *ProductUseCase) GetByID(id int) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByEPDID fetches the product holding a given source EPD id.
func (uc *ProductUseCase) GetByEPDID(epdID string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByEPDID(epdID)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List pages through products.
func (uc *ProductUseCase) List(limit, offset int) (*dto.ProductListResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	products, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Create stores a new EPD snapshot. A registered epd_id returns
// domain.ErrDuplicate.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest, userID *int) (*dto.ProductResponse, error) {
	if in.EPDID == "" || in.EPDName == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByEPDID(in.EPDID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	status := in.Status
	if status == "" {
		status = entity.ProductStatusActive
	}
	created, err := uc.repo.Create(&entity.Product{
		UserIDCreated:     userID,
		UserIDUpdated:     userID,
		Status:            status,
		EPDName:           in.EPDName,
		EPDDeclaredUnit:   in.EPDDeclaredUnit,
		EPDVersion:        in.EPDVersion,
		EPDPublishedDate:  in.EPDPublishedDate,
		EPDValidUntil:     in.EPDValidUntil,
		EPDStandard:       in.EPDStandard,
		EPDComment:        in.EPDComment,
		EPDLocation:       in.EPDLocation,
		EPDFormatVersion:  in.EPDFormatVersion,
		EPDID:             in.EPDID,
		EPDx:              in.EPDx,
		EPDSourceName:     in.EPDSourceName,
		EPDSourceURL:      in.EPDSourceURL,
		EPDLinearDensity:  in.EPDLinearDensity,
		EPDGrossDensity:   in.EPDGrossDensity,
		EPDGrammage:       in.EPDGrammage,
		EPDLayerThickness: in.EPDLayerThickness,
		EPDBulkDensity:    in.EPDBulkDensity,
		EPDSubtype:        in.EPDSubtype,
		EPDDescription:    in.EPDDescription,
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(created), nil
}

// Update applies a partial update. Returns (nil, nil) when the product does
// not exist.
func (uc *ProductUseCase) Update(id int, in dto.UpdateProductRequest, userID *int) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Status != nil {
		product.Status = *in.Status
	}
	if in.EPDName != nil {
		product.EPDName = *in.EPDName
	}
	if in.EPDComment != nil {
		product.EPDComment = *in.EPDComment
	}
	if in.EPDValidUntil != nil {
		product.EPDValidUntil = *in.EPDValidUntil
	}
	if in.EPDx != nil {
		product.EPDx = in.EPDx
	}
	if in.EPDDescription != nil {
		product.EPDDescription = *in.EPDDescription
	}
	product.UserIDUpdated = userID
	updated, err := uc.repo.Update(product)
	if err != nil {
		return nil, err
	}
	return toProductResponse(updated), nil
}

// Delete removes a product and its category associations. Returns false
// when the product does not exist.
func (uc *ProductUseCase) Delete(id int) (bool, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return false, err
	}
	if product == nil {
		return false, nil
	}
	removed, err := uc.associations.RemoveEntityFromAllCategories(entity.EntityTypeProduct, id)
	if err != nil {
		return false, err
	}
	if removed > 0 {
		uc.log.Info().Int("product_id", id).Int("associations", removed).Msg("product associations removed")
	}
	if err := uc.repo.Delete(id); err != nil {
		return false, err
	}
	return true, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:                p.ID,
		Status:            p.Status,
		EPDName:           p.EPDName,
		EPDDeclaredUnit:   p.EPDDeclaredUnit,
		EPDVersion:        p.EPDVersion,
		EPDPublishedDate:  p.EPDPublishedDate,
		EPDValidUntil:     p.EPDValidUntil,
		EPDStandard:       p.EPDStandard,
		EPDComment:        p.EPDComment,
		EPDLocation:       p.EPDLocation,
		EPDFormatVersion:  p.EPDFormatVersion,
		EPDID:             p.EPDID,
		EPDx:              p.EPDx,
		EPDSourceName:     p.EPDSourceName,
		EPDSourceURL:      p.EPDSourceURL,
		EPDLinearDensity:  p.EPDLinearDensity,
		EPDGrossDensity:   p.EPDGrossDensity,
		EPDGrammage:       p.EPDGrammage,
		EPDLayerThickness: p.EPDLayerThickness,
		EPDBulkDensity:    p.EPDBulkDensity,
		EPDSubtype:        p.EPDSubtype,
		EPDDescription:    p.EPDDescription,
	}
}
