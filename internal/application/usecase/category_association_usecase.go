package usecase

import (
	"errors"
	"sort"

	"github.com/henn-dt/carbonitor-v2/internal/application/dto"
	"github.com/henn-dt/carbonitor-v2/internal/domain"
	"github.com/henn-dt/carbonitor-v2/internal/domain/catprops"
	"github.com/henn-dt/carbonitor-v2/internal/domain/entity"
	"github.com/henn-dt/carbonitor-v2/internal/domain/repository"
	"github.com/henn-dt/carbonitor-v2/pkg/logger"
)

// TxRunner runs a closure against repositories bound to a single
// transaction. Verification and insertion of a batch commit or roll back
// together.
type TxRunner interface {
	Run(fn func(repository.CategoryRepository, repository.CategoryAssociationRepository) error) error
}

// CategoryAssociationUseCase manages the links between categories and
// entities, including schema verification of the values stored on each link.
//
// Single assignments report a rejected request as a nil result: handlers
// translate that into a 4xx without the engine distinguishing callers.
// Batch assignments keep going past rejected items and report the subset
// that succeeded.
type CategoryAssociationUseCase struct {
	categories   repository.CategoryRepository
	associations repository.CategoryAssociationRepository
	tx           TxRunner
	log          *logger.Logger
}

// NewCategoryAssociationUseCase builds the use case. tx may be nil, in which
// case batch operations run without transactional grouping (useful in tests).
func NewCategoryAssociationUseCase(
	categories repository.CategoryRepository,
	associations repository.CategoryAssociationRepository,
	tx TxRunner,
	log *logger.Logger,
) *CategoryAssociationUseCase {
	return &CategoryAssociationUseCase{
		categories:   categories,
		associations: associations,
		tx:           tx,
		log:          log,
	}
}

func (uc *CategoryAssociationUseCase) runInTx(fn func(repository.CategoryRepository, repository.CategoryAssociationRepository) error) error {
	if uc.tx == nil {
		return fn(uc.categories, uc.associations)
	}
	return uc.tx.Run(fn)
}

// GetByID fetches one association. Returns (nil, nil) when absent.
func (uc *CategoryAssociationUseCase) GetByID(id int) (*dto.CategoryAssociationResponse, error) {
	assoc, err := uc.associations.GetByID(id)
	if err != nil {
		return nil, err
	}
	return toAssociationResponse(assoc), nil
}

// GetByEntity lists the associations one entity carries.
func (uc *CategoryAssociationUseCase) GetByEntity(entityType entity.EntityType, entityID int) ([]dto.CategoryAssociationResponse, error) {
	assocs, err := uc.associations.GetByEntity(entityType, entityID)
	if err != nil {
		return nil, err
	}
	return toAssociationResponses(assocs), nil
}

// GetByCategory lists the associations of one category, optionally narrowed
// to one entity type (empty type means all).
func (uc *CategoryAssociationUseCase) GetByCategory(categoryID int, entityType entity.EntityType) ([]dto.CategoryAssociationResponse, error) {
	assocs, err := uc.associations.GetByCategory(categoryID, entityType)
	if err != nil {
		return nil, err
	}
	return toAssociationResponses(assocs), nil
}

// GetEntityIDsByCategory returns the distinct, sorted ids of the entities a
// category is attached to.
func (uc *CategoryAssociationUseCase) GetEntityIDsByCategory(categoryID int, entityType entity.EntityType) ([]int, error) {
	assocs, err := uc.associations.GetByCategory(categoryID, entityType)
	if err != nil {
		return nil, err
	}
	seen := make(map[int]struct{}, len(assocs))
	ids := make([]int, 0, len(assocs))
	for _, a := range assocs {
		if _, ok := seen[a.EntityID]; ok {
			continue
		}
		seen[a.EntityID] = struct{}{}
		ids = append(ids, a.EntityID)
	}
	sort.Ints(ids)
	return ids, nil
}

// GetCategoriesByEntity returns the category definitions an entity is tagged
// with.
func (uc *CategoryAssociationUseCase) GetCategoriesByEntity(entityType entity.EntityType, entityID int) ([]dto.CategoryResponse, error) {
	assocs, err := uc.associations.GetByEntity(entityType, entityID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(assocs))
	for _, a := range assocs {
		category, err := uc.categories.GetByID(a.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			continue // association outlived its category
		}
		out = append(out, *toCategoryResponse(category))
	}
	return out, nil
}

// verifyAssignment checks one prospective association against the category
// registry and the existing links: the category must exist, its type must
// match the entity's, the values must pass the category's schema, and the
// pairing must not already exist. Returns the category so callers can apply
// its defaults.
func (uc *CategoryAssociationUseCase) verifyAssignment(
	categories repository.CategoryRepository,
	associations repository.CategoryAssociationRepository,
	key repository.AssociationKey,
	values entity.PropertyValues,
) (*entity.Category, error) {
	if !key.EntityType.Valid() {
		return nil, domain.ErrInvalidInput
	}
	category, err := categories.GetByID(key.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	if category.Type != key.EntityType {
		return nil, domain.ErrTypeMismatch
	}
	for id, value := range values {
		schema, ok := category.PropertySchema[id]
		if !ok || !catprops.VerifyValue(schema, value) {
			return nil, domain.ErrSchemaViolation
		}
	}
	if len(values) > 0 {
		// Required properties without a default must be supplied up front;
		// defaults fill the rest later.
		for id, schema := range category.PropertySchema {
			if schema.Required && schema.Default == nil {
				if _, ok := values[id]; !ok {
					return nil, domain.ErrSchemaViolation
				}
			}
		}
	}
	existing, err := associations.GetByKeys(key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrConflict
	}
	return category, nil
}

// rejected reports whether an assignment error is a rejection of the request
// rather than an infrastructure failure. A duplicate key from the store is a
// concurrent-assignment race and counts as a rejection too.
func rejected(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrTypeMismatch) ||
		errors.Is(err, domain.ErrSchemaViolation) ||
		errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrDuplicate)
}

// AssignCategoryToEntity attaches one category to one entity, filling value
// defaults from the schema. A rejected assignment (unknown category, type
// mismatch, schema violation, existing pairing) returns (nil, nil).
func (uc *CategoryAssociationUseCase) AssignCategoryToEntity(entityID int, entityType entity.EntityType, categoryID int, values entity.PropertyValues) (*dto.CategoryAssociationResponse, error) {
	key := repository.AssociationKey{CategoryID: categoryID, EntityID: entityID, EntityType: entityType}
	category, err := uc.verifyAssignment(uc.categories, uc.associations, key, values)
	if err != nil {
		if rejected(err) {
			uc.log.Warn().Err(err).
				Int("category_id", categoryID).
				Int("entity_id", entityID).
				Str("entity_type", string(entityType)).
				Msg("assignment rejected")
			return nil, nil
		}
		return nil, err
	}
	assoc, err := uc.associations.AssociateEntityWithCategory(key, catprops.EnsureDefaults(values, category))
	if err != nil {
		if rejected(err) {
			uc.log.Warn().Err(err).
				Int("category_id", categoryID).
				Int("entity_id", entityID).
				Msg("assignment lost race")
			return nil, nil
		}
		return nil, err
	}
	return toAssociationResponse(assoc), nil
}

// AssignCategoryToEntityList attaches one category to many entities.
// EntityTypes and ValuesList are aligned with EntityIDs: a single element
// broadcasts, a longer list is truncated, an empty values list means no
// values. A type list that neither broadcasts nor matches aborts the whole
// batch. Rejected entities are skipped and reported in Failed.
func (uc *CategoryAssociationUseCase) AssignCategoryToEntityList(in dto.AssignCategoryToListRequest) (*dto.BatchAssignResponse, error) {
	types, ok := alignTypes(in.EntityTypes, len(in.EntityIDs))
	if !ok {
		uc.log.Error().
			Int("entities", len(in.EntityIDs)).
			Int("types", len(in.EntityTypes)).
			Msg("entity type list does not align with entity list, batch aborted")
		return &dto.BatchAssignResponse{Failed: append([]int(nil), in.EntityIDs...)}, nil
	}
	valuesList := alignValues(in.ValuesList, len(in.EntityIDs))
	if len(in.ValuesList) > len(in.EntityIDs) {
		uc.log.Warn().
			Int("entities", len(in.EntityIDs)).
			Int("values", len(in.ValuesList)).
			Msg("values list longer than entity list, extra values dropped")
	}

	resp := &dto.BatchAssignResponse{}
	for i, entityID := range in.EntityIDs {
		created, err := uc.AssignCategoryToEntity(entityID, types[i], in.CategoryID, valuesList[i])
		if err != nil {
			return nil, err
		}
		if created == nil {
			resp.Failed = append(resp.Failed, entityID)
			continue
		}
		resp.Created = append(resp.Created, *created)
	}
	uc.log.Info().
		Int("category_id", in.CategoryID).
		Int("requested", len(in.EntityIDs)).
		Int("created", len(resp.Created)).
		Int("failed", len(resp.Failed)).
		Msg("category batch assignment")
	return resp, nil
}

// AssignCategoriesToEntity attaches several categories to one entity in a
// single transaction. Each category is verified independently; rejected ones
// are dropped with a diagnostic and the surviving set is inserted as one
// atomic batch.
func (uc *CategoryAssociationUseCase) AssignCategoriesToEntity(entityID int, entityType entity.EntityType, data []dto.CategoryValuesRequest) ([]dto.CategoryAssociationResponse, error) {
	var created []*entity.CategoryAssociation
	err := uc.runInTx(func(categories repository.CategoryRepository, associations repository.CategoryAssociationRepository) error {
		rows := make([]repository.CategoryValues, 0, len(data))
		for _, item := range data {
			key := repository.AssociationKey{CategoryID: item.CategoryID, EntityID: entityID, EntityType: entityType}
			category, err := uc.verifyAssignment(categories, associations, key, item.Values)
			if err != nil {
				if rejected(err) {
					uc.log.Warn().Err(err).
						Int("category_id", item.CategoryID).
						Int("entity_id", entityID).
						Msg("category dropped from batch")
					continue
				}
				return err
			}
			rows = append(rows, repository.CategoryValues{
				CategoryID: item.CategoryID,
				Values:     catprops.EnsureDefaults(item.Values, category),
			})
		}
		if len(rows) == 0 {
			return nil
		}
		var err error
		created, err = associations.BatchAssociateEntityWithCategories(entityID, entityType, rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toAssociationResponses(created), nil
}

// AssignCategoriesToEntityList applies the same category/value set to each
// entity in the list, one transaction per entity.
func (uc *CategoryAssociationUseCase) AssignCategoriesToEntityList(in dto.AssignCategoriesToListRequest) ([]dto.CategoryAssociationResponse, error) {
	var out []dto.CategoryAssociationResponse
	for _, entityID := range in.EntityIDs {
		created, err := uc.AssignCategoriesToEntity(entityID, in.EntityType, in.Categories)
		if err != nil {
			return nil, err
		}
		out = append(out, created...)
	}
	return out, nil
}

// UpdateValues replaces the values stored on one association after schema
// verification. Returns (nil, nil) when the association does not exist or
// the values are rejected.
func (uc *CategoryAssociationUseCase) UpdateValues(entityID int, entityType entity.EntityType, categoryID int, values entity.PropertyValues) (*dto.CategoryAssociationResponse, error) {
	key := repository.AssociationKey{CategoryID: categoryID, EntityID: entityID, EntityType: entityType}
	category, err := uc.categories.GetByID(categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, nil
	}
	for id, value := range values {
		schema, ok := category.PropertySchema[id]
		if !ok || !catprops.VerifyValue(schema, value) {
			uc.log.Warn().
				Int("category_id", categoryID).
				Int("entity_id", entityID).
				Str("property_id", id).
				Msg("value update rejected by schema")
			return nil, nil
		}
	}
	assoc, err := uc.associations.UpdateEntityCategoryValues(key, catprops.EnsureDefaults(values, category))
	if err != nil {
		return nil, err
	}
	return toAssociationResponse(assoc), nil
}

// SetPropertyValue sets one property on one association. Returns false when
// the association or the property does not exist, or the value fails the
// property's schema.
func (uc *CategoryAssociationUseCase) SetPropertyValue(entityID int, entityType entity.EntityType, categoryID int, propertyID string, value entity.PropertyValue) (bool, error) {
	key := repository.AssociationKey{CategoryID: categoryID, EntityID: entityID, EntityType: entityType}
	assoc, err := uc.associations.GetByKeys(key)
	if err != nil {
		return false, err
	}
	if assoc == nil {
		return false, nil
	}
	category, err := uc.categories.GetByID(categoryID)
	if err != nil {
		return false, err
	}
	if category == nil {
		return false, nil
	}
	schema, ok := category.PropertySchema[propertyID]
	if !ok || !catprops.VerifyValue(schema, value) {
		uc.log.Warn().
			Int("category_id", categoryID).
			Int("entity_id", entityID).
			Str("property_id", propertyID).
			Msg("property value rejected by schema")
		return false, nil
	}
	values := assoc.Values.Clone()
	if values == nil {
		values = entity.PropertyValues{}
	}
	values[propertyID] = value
	if _, err := uc.associations.UpdateEntityCategoryValues(key, values); err != nil {
		return false, err
	}
	return true, nil
}

// DeletePropertyValue removes one property from one association's values.
// Returns false when the association does not exist or the property is not
// set on it.
func (uc *CategoryAssociationUseCase) DeletePropertyValue(entityID int, entityType entity.EntityType, categoryID int, propertyID string) (bool, error) {
	key := repository.AssociationKey{CategoryID: categoryID, EntityID: entityID, EntityType: entityType}
	assoc, err := uc.associations.GetByKeys(key)
	if err != nil {
		return false, err
	}
	if assoc == nil {
		return false, nil
	}
	if _, ok := assoc.Values[propertyID]; !ok {
		return false, nil
	}
	values := assoc.Values.Clone()
	delete(values, propertyID)
	if _, err := uc.associations.UpdateEntityCategoryValues(key, values); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteAssociation removes one association. Returns false when it does not
// exist; removing twice is not an error.
func (uc *CategoryAssociationUseCase) DeleteAssociation(entityID int, entityType entity.EntityType, categoryID int) (bool, error) {
	return uc.associations.RemoveEntityFromCategory(repository.AssociationKey{
		CategoryID: categoryID,
		EntityID:   entityID,
		EntityType: entityType,
	})
}

// RemoveEntityFromAllCategories drops every association an entity carries
// and returns how many were removed. Typically called when the entity itself
// is deleted.
func (uc *CategoryAssociationUseCase) RemoveEntityFromAllCategories(entityType entity.EntityType, entityID int) (int, error) {
	return uc.associations.RemoveEntityFromAllCategories(entityType, entityID)
}

// RemoveAllForCategory drops every association of one category and returns
// how many were removed.
func (uc *CategoryAssociationUseCase) RemoveAllForCategory(categoryID int) (int, error) {
	return uc.associations.RemoveAllForCategory(categoryID)
}

// GetValuesByProperty returns associationID -> value for one property across
// a category's associations. Associations without the property are omitted.
func (uc *CategoryAssociationUseCase) GetValuesByProperty(categoryID int, entityType entity.EntityType, propertyID string) (map[int]entity.PropertyValue, error) {
	assocs, err := uc.associations.GetByCategory(categoryID, entityType)
	if err != nil {
		return nil, err
	}
	out := make(map[int]entity.PropertyValue)
	for _, a := range assocs {
		if v, ok := a.Values[propertyID]; ok {
			out[a.ID] = v
		}
	}
	return out, nil
}

// GetValuesForEntity returns categoryID -> values for one entity, optionally
// narrowed to a single category.
func (uc *CategoryAssociationUseCase) GetValuesForEntity(entityType entity.EntityType, entityID int, categoryID *int) (map[int]entity.PropertyValues, error) {
	return uc.associations.GetValuesForEntity(entityType, entityID, categoryID)
}

// GetCategoryPropertiesForEntity joins category definitions with the values
// one entity stores for them.
func (uc *CategoryAssociationUseCase) GetCategoryPropertiesForEntity(entityID int, categoryID *int) ([]dto.CategoryPropertiesResponse, error) {
	records, err := uc.associations.GetCategoryPropertiesForEntity(entityID, categoryID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryPropertiesResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.CategoryPropertiesResponse{
			CategoryID:          r.CategoryID,
			CategoryName:        r.CategoryName,
			CategoryType:        r.CategoryType,
			CategoryDescription: r.CategoryDescription,
			PropertySchema:      r.PropertySchema,
			Values:              r.Values,
		})
	}
	return out, nil
}

// GetEntityListByCategoryProperties returns entities grouped with their
// per-category values, keeping only entities whose values match every filter
// exactly.
func (uc *CategoryAssociationUseCase) GetEntityListByCategoryProperties(categoryIDs []int, filters map[int]entity.PropertyValues) (map[int]map[int]entity.PropertyValues, error) {
	return uc.associations.GetEntityListByCategoryProperties(categoryIDs, filters)
}

// alignTypes expands the type list to one entry per entity: a single type
// broadcasts, a matching length passes through, anything else fails.
func alignTypes(types []entity.EntityType, n int) ([]entity.EntityType, bool) {
	switch {
	case len(types) == n:
		return types, true
	case len(types) == 1:
		out := make([]entity.EntityType, n)
		for i := range out {
			out[i] = types[0]
		}
		return out, true
	default:
		return nil, false
	}
}

// alignValues expands the values list to one entry per entity: empty means
// no values anywhere, a single set broadcasts, a longer list truncates, a
// shorter one is padded with nil.
func alignValues(valuesList []entity.PropertyValues, n int) []entity.PropertyValues {
	out := make([]entity.PropertyValues, n)
	switch {
	case len(valuesList) == 0:
		return out
	case len(valuesList) == 1:
		for i := range out {
			out[i] = valuesList[0]
		}
		return out
	default:
		copy(out, valuesList)
		return out
	}
}

func toAssociationResponse(a *entity.CategoryAssociation) *dto.CategoryAssociationResponse {
	if a == nil {
		return nil
	}
	return &dto.CategoryAssociationResponse{
		ID:         a.ID,
		CategoryID: a.CategoryID,
		EntityID:   a.EntityID,
		EntityType: a.EntityType,
		Values:     a.Values,
	}
}

func toAssociationResponses(assocs []*entity.CategoryAssociation) []dto.CategoryAssociationResponse {
	out := make([]dto.CategoryAssociationResponse, 0, len(assocs))
	for _, a := range assocs {
		out = append(out, *toAssociationResponse(a))
	}
	return out
}
