package repository

import "github.com/henn-dt/carbonitor-v2/internal/domain/entity"

// CategoryRepository is the persistence port for Category (DIP). Not-found
// reads return (nil, nil); a (Name, Type) collision on Create surfaces as
// domain.ErrDuplicate.
type CategoryRepository interface {
	Create(category *entity.Category) (*entity.Category, error)
	GetByID(id int) (*entity.Category, error)
	GetByNameAndType(name string, entityType entity.EntityType) (*entity.Category, error)
	ExistsByNameAndType(name string, entityType entity.EntityType) (bool, error)
	ListByType(entityType entity.EntityType) ([]*entity.Category, error)
	List() ([]*entity.Category, error)
	Update(category *entity.Category) (*entity.Category, error)
	Delete(id int) error
}
