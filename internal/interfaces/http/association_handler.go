package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/henn-dt/carbonitor-v2/internal/application/dto"
	"github.com/henn-dt/carbonitor-v2/internal/application/usecase"
	"github.com/henn-dt/carbonitor-v2/internal/domain/entity"
)

// AssociationHandler serves category-to-entity assignment, the stored value
// updates and the association queries.
type AssociationHandler struct {
	uc *usecase.CategoryAssociationUseCase
}

// NewAssociationHandler builds the handler.
func NewAssociationHandler(uc *usecase.CategoryAssociationUseCase) *AssociationHandler {
	return &AssociationHandler{uc: uc}
}

// entityParams reads the :type/:id pair shared by the entity-scoped routes.
func entityParams(c *fiber.Ctx) (entity.EntityType, int, *dto.ErrorResponse) {
	entityType := entity.EntityType(c.Params("type"))
	if !entityType.Valid() {
		return "", 0, &dto.ErrorResponse{Code: "VALIDATION", Message: "unknown entity type"}
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return "", 0, &dto.ErrorResponse{Code: "INVALID_ID", Message: "id must be an integer"}
	}
	return entityType, id, nil
}

func (h *AssociationHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id must be an integer"})
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "association not found"})
	}
	return c.JSON(out)
}

func (h *AssociationHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	out, err := h.uc.AssignCategoryToEntity(in.EntityID, in.EntityType, in.CategoryID, in.Values)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "REJECTED", Message: "assignment rejected: unknown category, type mismatch, invalid values or existing association"})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *AssociationHandler) AssignToList(c *fiber.Ctx) error {
	var in dto.AssignCategoryToListRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	out, err := h.uc.AssignCategoryToEntityList(in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *AssociationHandler) AssignCategories(c *fiber.Ctx) error {
	var in dto.AssignCategoriesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	if !in.EntityType.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "unknown entity type"})
	}
	out, err := h.uc.AssignCategoriesToEntity(in.EntityID, in.EntityType, in.Categories)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *AssociationHandler) AssignCategoriesToList(c *fiber.Ctx) error {
	var in dto.AssignCategoriesToListRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	if !in.EntityType.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "unknown entity type"})
	}
	out, err := h.uc.AssignCategoriesToEntityList(in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *AssociationHandler) ListByEntity(c *fiber.Ctx) error {
	entityType, id, errResp := entityParams(c)
	if errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(*errResp)
	}
	out, err := h.uc.GetByEntity(entityType, id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

func (h *AssociationHandler) ListCategoriesByEntity(c *fiber.Ctx) error {
	entityType, id, errResp := entityParams(c)
	if errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(*errResp)
	}
	out, err := h.uc.GetCategoriesByEntity(entityType, id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ListByCategory returns a category's associations, optionally narrowed to
// one entity type via the type query parameter.
func (h *AssociationHandler) ListByCategory(c *fiber.Ctx) error {
	categoryID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id must be an integer"})
	}
	entityType := entity.EntityType(c.Query("type"))
	if entityType != "" && !entityType.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "unknown entity type"})
	}
	out, err := h.uc.GetByCategory(categoryID, entityType)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

func (h *AssociationHandler) ListEntityIDsByCategory(c *fiber.Ctx) error {
	categoryID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id must be an integer"})
	}
	entityType := entity.EntityType(c.Query("type"))
	if entityType != "" && !entityType.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "unknown entity type"})
	}
	out, err := h.uc.GetEntityIDsByCategory(categoryID, entityType)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// PropertyValues returns associationID -> value for one property across a
// category's associations.
func (h *AssociationHandler) PropertyValues(c *fiber.Ctx) error {
	categoryID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id must be an integer"})
	}
	entityType := entity.EntityType(c.Query("type"))
	if entityType != "" && !entityType.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "unknown entity type"})
	}
	out, err := h.uc.GetValuesByProperty(categoryID, entityType, c.Params("propertyId"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// EntityValues returns categoryID -> stored values for one entity,
// optionally narrowed via the category_id query parameter.
func (h *AssociationHandler) EntityValues(c *fiber.Ctx) error {
	entityType, id, errResp := entityParams(c)
	if errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(*errResp)
	}
	var categoryID *int
	if v := c.QueryInt("category_id", -1); v >= 0 {
		categoryID = &v
	}
	out, err := h.uc.GetValuesForEntity(entityType, id, categoryID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// EntityCategoryProperties joins category definitions with the values one
// entity stores for them.
func (h *AssociationHandler) EntityCategoryProperties(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id must be an integer"})
	}
	var categoryID *int
	if v := c.QueryInt("category_id", -1); v >= 0 {
		categoryID = &v
	}
	out, err := h.uc.GetCategoryPropertiesForEntity(id, categoryID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// QueryEntities filters entities by their per-category property values.
func (h *AssociationHandler) QueryEntities(c *fiber.Ctx) error {
	var in dto.EntityQueryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	out, err := h.uc.GetEntityListByCategoryProperties(in.CategoryIDs, in.Filters)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

func (h *AssociationHandler) UpdateValues(c *fiber.Ctx) error {
	entityType, id, errResp := entityParams(c)
	if errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(*errResp)
	}
	categoryID, err := c.ParamsInt("categoryId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "category id must be an integer"})
	}
	var values entity.PropertyValues
	if err := c.BodyParser(&values); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	out, err := h.uc.UpdateValues(id, entityType, categoryID, values)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "REJECTED", Message: "association not found or values rejected by schema"})
	}
	return c.JSON(out)
}

func (h *AssociationHandler) SetPropertyValue(c *fiber.Ctx) error {
	entityType, id, errResp := entityParams(c)
	if errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(*errResp)
	}
	categoryID, err := c.ParamsInt("categoryId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "category id must be an integer"})
	}
	var in dto.SetPropertyValueRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	ok, err := h.uc.SetPropertyValue(id, entityType, categoryID, c.Params("propertyId"), in.Value)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if !ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "REJECTED", Message: "association or property not found, or value rejected by schema"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AssociationHandler) DeletePropertyValue(c *fiber.Ctx) error {
	entityType, id, errResp := entityParams(c)
	if errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(*errResp)
	}
	categoryID, err := c.ParamsInt("categoryId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "category id must be an integer"})
	}
	ok, err := h.uc.DeletePropertyValue(id, entityType, categoryID, c.Params("propertyId"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "association or property not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AssociationHandler) Delete(c *fiber.Ctx) error {
	entityType, id, errResp := entityParams(c)
	if errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(*errResp)
	}
	categoryID, err := c.ParamsInt("categoryId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "category id must be an integer"})
	}
	ok, err := h.uc.DeleteAssociation(id, entityType, categoryID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "association not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AssociationHandler) DeleteAllForEntity(c *fiber.Ctx) error {
	entityType, id, errResp := entityParams(c)
	if errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(*errResp)
	}
	removed, err := h.uc.RemoveEntityFromAllCategories(entityType, id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"removed": removed})
}
