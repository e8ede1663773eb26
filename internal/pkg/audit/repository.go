package audit

import (
	"gorm.io/gorm"

	"github.com/FelixBrandt/PressPass/app/models"
)

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates an audit repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(entry *models.AuditEntry) error {
	return r.db.Create(entry).Error
}
