package repositories

import (
	"context"

	"github.com/Rakhulsr/mellomelt/app/models"
	"gorm.io/gorm"
)

type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}
