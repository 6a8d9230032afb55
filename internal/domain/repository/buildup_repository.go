package repository

import "github.com/henn-dt/carbonitor-v2/internal/domain/entity"

// BuildupRepository is the persistence port for buildups.
type BuildupRepository interface {
	Create(buildup *entity.Buildup) (*entity.Buildup, error)
	GetByID(id int) (*entity.Buildup, error)
	List(limit, offset int) ([]*entity.Buildup, error)
	Update(buildup *entity.Buildup) (*entity.Buildup, error)
	Delete(id int) error
}
