package repository

import "github.com/henn-dt/carbonitor-v2/internal/domain/entity"

// ProductRepository is the persistence port for EPD products.
type ProductRepository interface {
	Create(product *entity.Product) (*entity.Product, error)
	GetByID(id int) (*entity.Product, error)
	GetByEPDID(epdID string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) (*entity.Product, error)
	Delete(id int) error
}
