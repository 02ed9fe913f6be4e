// internal/repository/category_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pujaya/auction-backend/internal/models"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByName(ctx context.Context, name string) (*models.Category, error)
	Seed(ctx context.Context, names []string) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("category_name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		First(&category, "LOWER(category_name) = LOWER(?)", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &category, nil
}

func (r *categoryRepository) Seed(ctx context.Context, names []string) error {
	for _, name := range names {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Category{}).
			Where("category_name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check category %s: %w", name, err)
		}
		if count == 0 {
			if err := r.db.WithContext(ctx).Create(&models.Category{CategoryName: name}).Error; err != nil {
				return fmt.Errorf("failed to seed category %s: %w", name, err)
			}
		}
	}
	return nil
}
