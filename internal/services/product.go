package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/glowist/glowist-backend/internal/logger"
	"github.com/glowist/glowist-backend/internal/repos"
	"github.com/glowist/glowist-backend/internal/types"
)

type ProductInput struct {
	Name            string     `json:"name"`
	Brand           string     `json:"brand"`
	Category        string     `json:"category"`
	CompanyID       *uuid.UUID `json:"company_id"`
	IngredientsText string     `json:"ingredients_text"`
	Barcode         string     `json:"barcode"`
	ImageURL        string     `json:"image_url"`
}

type ProductService interface {
	List(ctx context.Context, filter repos.ProductFilter) ([]*types.Product, error)
	// Get returns (nil, nil) for an unknown id.
	Get(ctx context.Context, id uuid.UUID) (*types.Product, error)
	Create(ctx context.Context, input ProductInput) (*types.Product, error)
	Companies(ctx context.Context) ([]*types.Company, error)
}

type productService struct {
	db          *gorm.DB
	log         *logger.Logger
	productRepo repos.ProductRepo
	companyRepo repos.CompanyRepo
}

func NewProductService(db *gorm.DB, log *logger.Logger, productRepo repos.ProductRepo, companyRepo repos.CompanyRepo) ProductService {
	return &productService{
		db:          db,
		log:         log.With("service", "ProductService"),
		productRepo: productRepo,
		companyRepo: companyRepo,
	}
}

func (s *productService) List(ctx context.Context, filter repos.ProductFilter) ([]*types.Product, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	products, err := s.productRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*types.Product, error) {
	product, err := s.productRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	return product, nil
}

func (s *productService) Create(ctx context.Context, input ProductInput) (*types.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	product := &types.Product{
		ID:              uuid.New(),
		CompanyID:       input.CompanyID,
		Name:            name,
		Brand:           strings.TrimSpace(input.Brand),
		Category:        input.Category,
		IngredientsText: input.IngredientsText,
		Barcode:         strings.TrimSpace(input.Barcode),
		ImageURL:        input.ImageURL,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if _, err := s.productRepo.Create(ctx, nil, []*types.Product{product}); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (s *productService) Companies(ctx context.Context) ([]*types.Company, error) {
	companies, err := s.companyRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return companies, nil
}
