package usecase_test

import (
	"sort"

	"github.com/henn-dt/carbonitor-v2/internal/domain"
	"github.com/henn-dt/carbonitor-v2/internal/domain/entity"
	"github.com/henn-dt/carbonitor-v2/internal/domain/repository"
)

// In-memory repositories backing the use case tests.

type fakeCategoryRepo struct {
	nextID int
	items  map[int]*entity.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{items: map[int]*entity.Category{}}
}

func (r *fakeCategoryRepo) Create(category *entity.Category) (*entity.Category, error) {
	for _, c := range r.items {
		if c.Name == category.Name && c.Type == category.Type {
			return nil, domain.ErrDuplicate
		}
	}
	r.nextID++
	stored := *category
	stored.ID = r.nextID
	r.items[stored.ID] = &stored
	return &stored, nil
}

func (r *fakeCategoryRepo) GetByID(id int) (*entity.Category, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCategoryRepo) GetByNameAndType(name string, entityType entity.EntityType) (*entity.Category, error) {
	for _, c := range r.items {
		if c.Name == name && c.Type == entityType {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) ExistsByNameAndType(name string, entityType entity.EntityType) (bool, error) {
	c, _ := r.GetByNameAndType(name, entityType)
	return c != nil, nil
}

func (r *fakeCategoryRepo) ListByType(entityType entity.EntityType) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range r.sorted() {
		if c.Type == entityType {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) List() ([]*entity.Category, error) {
	return r.sorted(), nil
}

func (r *fakeCategoryRepo) Update(category *entity.Category) (*entity.Category, error) {
	if _, ok := r.items[category.ID]; !ok {
		return nil, nil
	}
	stored := *category
	r.items[stored.ID] = &stored
	return &stored, nil
}

func (r *fakeCategoryRepo) Delete(id int) error {
	delete(r.items, id)
	return nil
}

func (r *fakeCategoryRepo) sorted() []*entity.Category {
	ids := make([]int, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]*entity.Category, 0, len(ids))
	for _, id := range ids {
		copied := *r.items[id]
		out = append(out, &copied)
	}
	return out
}

type fakeAssociationRepo struct {
	nextID int
	items  map[int]*entity.CategoryAssociation
}

func newFakeAssociationRepo() *fakeAssociationRepo {
	return &fakeAssociationRepo{items: map[int]*entity.CategoryAssociation{}}
}

func (r *fakeAssociationRepo) GetByID(id int) (*entity.CategoryAssociation, error) {
	a, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAssociationRepo) GetByKeys(key repository.AssociationKey) (*entity.CategoryAssociation, error) {
	for _, a := range r.items {
		if a.CategoryID == key.CategoryID && a.EntityID == key.EntityID && a.EntityType == key.EntityType {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeAssociationRepo) GetByEntity(entityType entity.EntityType, entityID int) ([]*entity.CategoryAssociation, error) {
	var out []*entity.CategoryAssociation
	for _, a := range r.sorted() {
		if a.EntityType == entityType && a.EntityID == entityID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAssociationRepo) GetByCategory(categoryID int, entityType entity.EntityType) ([]*entity.CategoryAssociation, error) {
	var out []*entity.CategoryAssociation
	for _, a := range r.sorted() {
		if a.CategoryID != categoryID {
			continue
		}
		if entityType != "" && a.EntityType != entityType {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAssociationRepo) GetValuesForEntity(entityType entity.EntityType, entityID int, categoryID *int) (map[int]entity.PropertyValues, error) {
	out := map[int]entity.PropertyValues{}
	for _, a := range r.items {
		if a.EntityType != entityType || a.EntityID != entityID {
			continue
		}
		if categoryID != nil && a.CategoryID != *categoryID {
			continue
		}
		out[a.CategoryID] = a.Values.Clone()
	}
	return out, nil
}

func (r *fakeAssociationRepo) GetCategoryPropertiesForEntity(int, *int) ([]*entity.CategoryProperties, error) {
	return nil, nil
}

func (r *fakeAssociationRepo) GetEntityListByCategoryProperties([]int, map[int]entity.PropertyValues) (map[int]map[int]entity.PropertyValues, error) {
	return nil, nil
}

func (r *fakeAssociationRepo) AssociateEntityWithCategory(key repository.AssociationKey, values entity.PropertyValues) (*entity.CategoryAssociation, error) {
	if existing, _ := r.GetByKeys(key); existing != nil {
		return nil, domain.ErrDuplicate
	}
	r.nextID++
	stored := &entity.CategoryAssociation{
		ID:         r.nextID,
		CategoryID: key.CategoryID,
		EntityID:   key.EntityID,
		EntityType: key.EntityType,
		Values:     values.Clone(),
	}
	r.items[stored.ID] = stored
	copied := *stored
	return &copied, nil
}

func (r *fakeAssociationRepo) BatchAssociateEntityWithCategories(entityID int, entityType entity.EntityType, data []repository.CategoryValues) ([]*entity.CategoryAssociation, error) {
	out := make([]*entity.CategoryAssociation, 0, len(data))
	for _, item := range data {
		key := repository.AssociationKey{CategoryID: item.CategoryID, EntityID: entityID, EntityType: entityType}
		a, err := r.AssociateEntityWithCategory(key, item.Values)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAssociationRepo) UpdateEntityCategoryValues(key repository.AssociationKey, values entity.PropertyValues) (*entity.CategoryAssociation, error) {
	for _, a := range r.items {
		if a.CategoryID == key.CategoryID && a.EntityID == key.EntityID && a.EntityType == key.EntityType {
			a.Values = values.Clone()
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeAssociationRepo) RemoveEntityFromCategory(key repository.AssociationKey) (bool, error) {
	for id, a := range r.items {
		if a.CategoryID == key.CategoryID && a.EntityID == key.EntityID && a.EntityType == key.EntityType {
			delete(r.items, id)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAssociationRepo) RemoveEntityFromAllCategories(entityType entity.EntityType, entityID int) (int, error) {
	removed := 0
	for id, a := range r.items {
		if a.EntityType == entityType && a.EntityID == entityID {
			delete(r.items, id)
			removed++
		}
	}
	return removed, nil
}

func (r *fakeAssociationRepo) RemoveAllForCategory(categoryID int) (int, error) {
	removed := 0
	for id, a := range r.items {
		if a.CategoryID == categoryID {
			delete(r.items, id)
			removed++
		}
	}
	return removed, nil
}

func (r *fakeAssociationRepo) sorted() []*entity.CategoryAssociation {
	ids := make([]int, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]*entity.CategoryAssociation, 0, len(ids))
	for _, id := range ids {
		copied := *r.items[id]
		out = append(out, &copied)
	}
	return out
}
