package usecase

import (
	"sort"
	"strconv"

	"github.com/henn-dt/carbonitor-v2/internal/application/dto"
	"github.com/henn-dt/carbonitor-v2/internal/domain"
	"github.com/henn-dt/carbonitor-v2/internal/domain/entity"
	"github.com/henn-dt/carbonitor-v2/internal/domain/repository"
	"github.com/henn-dt/carbonitor-v2/pkg/logger"
)

// CategoryUseCase manages category definitions: CRUD plus incremental
// property add/update/remove within a category's schema. The schema is read,
// modified and written back as a whole.
type CategoryUseCase struct {
	repo repository.CategoryRepository
	log  *logger.Logger
}

// NewCategoryUseCase builds the use case.
func NewCategoryUseCase(repo repository.CategoryRepository, log *logger.Logger) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, log: log}
}

// GetByID fetches a category. Returns (nil, nil) when absent.
func (uc *CategoryUseCase) GetByID(id int) (*dto.CategoryResponse, error) {
	category, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// GetByNameAndType fetches a category by its unique (name, type) pair.
func (uc *CategoryUseCase) GetByNameAndType(name string, entityType entity.EntityType) (*dto.CategoryResponse, error) {
	category, err := uc.repo.GetByNameAndType(name, entityType)
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// ListByType lists the categories scoped to one entity type.
func (uc *CategoryUseCase) ListByType(entityType entity.EntityType) (*dto.CategoryListResponse, error) {
	categories, err := uc.repo.ListByType(entityType)
	if err != nil {
		return nil, err
	}
	return toCategoryListResponse(categories), nil
}

// List lists all categories.
func (uc *CategoryUseCase) List() (*dto.CategoryListResponse, error) {
	categories, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	return toCategoryListResponse(categories), nil
}

// Create registers a new category. A registered (name, type) pair returns
// domain.ErrDuplicate; an unknown entity type domain.ErrInvalidInput.
func (uc *CategoryUseCase) Create(in dto.CreateCategoryRequest, userID *int) (*dto.CategoryResponse, error) {
	if !in.Type.Valid() {
		return nil, domain.ErrInvalidInput
	}
	exists, err := uc.repo.ExistsByNameAndType(in.Name, in.Type)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicate
	}
	status := in.Status
	if status == "" {
		status = entity.CategoryStatusActive
	}
	created, err := uc.repo.Create(&entity.Category{
		UserIDCreated:  userID,
		UserIDUpdated:  userID,
		Name:           in.Name,
		Type:           in.Type,
		Status:         status,
		Description:    in.Description,
		PropertySchema: in.PropertySchema,
	})
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(created), nil
}

// CreateList registers many categories, attempting each independently.
// Existing and failing entries are skipped and accounted for; the batch
// returns whatever subset succeeded.
func (uc *CategoryUseCase) CreateList(in []dto.CreateCategoryRequest, userID *int) (*dto.CategoryListResponse, error) {
	var (
		created  []dto.CategoryResponse
		existing int
		failed   int
	)
	for _, req := range in {
		resp, err := uc.Create(req, userID)
		switch {
		case err == domain.ErrDuplicate:
			existing++
		case err != nil:
			uc.log.Error().Err(err).Str("name", req.Name).Str("type", string(req.Type)).Msg("create category failed")
			failed++
		default:
			created = append(created, *resp)
		}
	}
	uc.log.Info().
		Int("requested", len(in)).
		Int("created", len(created)).
		Int("existing", existing).
		Int("failed", failed).
		Msg("category batch create")
	return &dto.CategoryListResponse{Items: created}, nil
}

// Update applies a partial update. Returns (nil, nil) when the category does
// not exist.
func (uc *CategoryUseCase) Update(id int, in dto.UpdateCategoryRequest, userID *int) (*dto.CategoryResponse, error) {
	category, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, nil
	}
	if in.Name != nil {
		category.Name = *in.Name
	}
	if in.Status != nil {
		category.Status = *in.Status
	}
	if in.Description != nil {
		category.Description = *in.Description
	}
	if in.PropertySchema != nil {
		category.PropertySchema = in.PropertySchema
	}
	category.UserIDUpdated = userID
	updated, err := uc.repo.Update(category)
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(updated), nil
}

// Delete removes a category. Returns false when it does not exist;
// associations referencing it cascade at the storage layer.
func (uc *CategoryUseCase) Delete(id int) (bool, error) {
	category, err := uc.repo.GetByID(id)
	if err != nil {
		return false, err
	}
	if category == nil {
		return false, nil
	}
	if err := uc.repo.Delete(id); err != nil {
		return false, err
	}
	return true, nil
}

// AddProperty adds one property to a category's schema under a freshly
// allocated id. Returns (nil, nil) when the category does not exist.
func (uc *CategoryUseCase) AddProperty(categoryID int, in dto.CategoryPropertyRequest) (*dto.CategoryResponse, error) {
	category, err := uc.repo.GetByID(categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, nil
	}
	schema := category.PropertySchema.Clone()
	if schema == nil {
		schema = entity.PropertySchemaMap{}
	}
	schema[allocatePropertyID(schema)] = in.Schema()
	category.PropertySchema = schema
	updated, err := uc.repo.Update(category)
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(updated), nil
}

// UpdateProperty replaces one property's schema under its existing id.
// Returns (nil, nil) when the category or the property does not exist.
func (uc *CategoryUseCase) UpdateProperty(categoryID int, in dto.CategoryPropertyRequest) (*dto.CategoryResponse, error) {
	if in.ID == "" {
		return nil, domain.ErrInvalidInput
	}
	category, err := uc.repo.GetByID(categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, nil
	}
	if _, ok := category.PropertySchema[in.ID]; !ok {
		return nil, nil
	}
	schema := category.PropertySchema.Clone()
	schema[in.ID] = in.Schema()
	category.PropertySchema = schema
	updated, err := uc.repo.Update(category)
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(updated), nil
}

// RemoveProperty deletes one property from a category's schema. Returns
// false when the category or the property does not exist.
func (uc *CategoryUseCase) RemoveProperty(categoryID int, propertyID string) (bool, error) {
	category, err := uc.repo.GetByID(categoryID)
	if err != nil {
		return false, err
	}
	if category == nil {
		return false, nil
	}
	if _, ok := category.PropertySchema[propertyID]; !ok {
		return false, nil
	}
	schema := category.PropertySchema.Clone()
	delete(schema, propertyID)
	category.PropertySchema = schema
	if _, err := uc.repo.Update(category); err != nil {
		return false, err
	}
	return true, nil
}

// allocatePropertyID scans the numeric-looking ids already in the schema and
// takes max+1 ("1" for an empty schema). Uniqueness within the category
// needs no global counter.
func allocatePropertyID(schema entity.PropertySchemaMap) string {
	max := 0
	for id := range schema {
		if n, err := strconv.Atoi(id); err == nil && n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	if c == nil {
		return nil
	}
	return &dto.CategoryResponse{
		ID:             c.ID,
		Name:           c.Name,
		Type:           c.Type,
		Status:         c.Status,
		Description:    c.Description,
		PropertySchema: c.PropertySchema,
		Properties:     flattenProperties(c.PropertySchema),
	}
}

func toCategoryListResponse(categories []*entity.Category) *dto.CategoryListResponse {
	items := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		items = append(items, *toCategoryResponse(c))
	}
	return &dto.CategoryListResponse{Items: items}
}

// flattenProperties turns the schema map into the flat list UIs iterate
// over, numeric ids first in numeric order.
func flattenProperties(schema entity.PropertySchemaMap) []dto.CategoryPropertyResponse {
	out := make([]dto.CategoryPropertyResponse, 0, len(schema))
	for id, prop := range schema {
		out = append(out, dto.CategoryPropertyResponse{
			ID:          id,
			Name:        prop.Name,
			Description: prop.Description,
			Format:      prop.Format,
			Default:     prop.Default,
			Required:    prop.Required,
			Enum:        prop.Enum,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		ni, ei := strconv.Atoi(out[i].ID)
		nj, ej := strconv.Atoi(out[j].ID)
		if ei == nil && ej == nil {
			return ni < nj
		}
		if ei == nil || ej == nil {
			return ei == nil
		}
		return out[i].ID < out[j].ID
	})
	return out
}
