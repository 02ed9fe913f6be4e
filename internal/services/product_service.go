// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"math"
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"github.com/pujaya/auction-backend/internal/models"
	"github.com/pujaya/auction-backend/internal/repository"
	"github.com/pujaya/auction-backend/internal/utils"
)

type ProductService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	storage    *StorageService
}

type CreateProductRequest struct {
	Name         string   `json:"name" validate:"required,min=3,max=50"`
	Description  string   `json:"description" validate:"required,min=10"`
	InitialPrice float64  `json:"initial_price" validate:"required,min=1"`
	Images       []string `json:"images,omitempty"`
	Category     string   `json:"category,omitempty"`
}

type UpdateProductRequest struct {
	Name        string   `json:"name,omitempty" validate:"omitempty,min=3,max=50"`
	Description string   `json:"description,omitempty" validate:"omitempty,min=10"`
	Images      []string `json:"images,omitempty"`
	Category    string   `json:"category,omitempty"`
}

func NewProductService(products repository.ProductRepository, categories repository.CategoryRepository, storage *StorageService) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		storage:    storage,
	}
}

func (s *ProductService) Create(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:         req.Name,
		Description:  req.Description,
		InitialPrice: int64(math.Trunc(req.InitialPrice)),
		Images:       req.Images,
		IsActive:     true,
	}

	if req.Category != "" {
		category, err := s.categories.FindByName(ctx, req.Category)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, errors.New("category not found")
			}
			return nil, err
		}
		product.CategoryID = &category.ID
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	return s.products.FindByID(ctx, product.ID)
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context, limit, page int) ([]models.Product, int64, error) {
	return s.products.List(ctx, limit, page)
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.Category != "" {
		category, err := s.categories.FindByName(ctx, req.Category)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, errors.New("category not found")
			}
			return nil, err
		}
		product.CategoryID = &category.ID
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	return s.products.FindByID(ctx, id)
}

// Remove soft-deletes the product. The row survives until the purge sweep's
// grace window elapses.
func (s *ProductService) Remove(ctx context.Context, id uuid.UUID) error {
	product, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	product.Deactivate(time.Now())
	return s.products.Save(ctx, product)
}

func (s *ProductService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

func (s *ProductService) UploadImage(file multipart.File, header *multipart.FileHeader) (*UploadResult, error) {
	options := s.storage.GetDefaultUploadOptions("products")
	return s.storage.UploadFile(file, header, options)
}
