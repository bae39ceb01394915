package service

import (
	"context"
	"errors"

	"dukapos/internal/dto"
	"dukapos/internal/model"
	"dukapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var ErrProductInUse = errors.New("product is referenced by recorded sales")

type ProductService struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	log       zerolog.Logger
}

func NewProductService(products repository.ProductRepository, movements repository.StockMovementRepository, log zerolog.Logger) *ProductService {
	return &ProductService{
		products:  products,
		movements: movements,
		log:       log.With().Str("component", "product_service").Logger(),
	}
}

func (s *ProductService) Create(ctx context.Context, req dto.ProductRequest) (*model.Product, error) {
	p := &model.Product{
		Name:          req.Name,
		Category:      req.Category,
		Price:         req.Price,
		CostPrice:     req.CostPrice,
		StockQuantity: req.StockQuantity,
		ReorderLevel:  req.ReorderLevel,
		SupplierID:    req.SupplierID,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Find(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (s *ProductService) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	return s.products.List(ctx, filter)
}

func (s *ProductService) ListLowStock(ctx context.Context) ([]model.Product, error) {
	return s.products.ListLowStock(ctx)
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req dto.ProductUpdateRequest) (*model.Product, error) {
	p, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.CostPrice != nil {
		p.CostPrice = *req.CostPrice
	}
	if req.ReorderLevel != nil {
		p.ReorderLevel = *req.ReorderLevel
	}
	if req.SupplierID != nil {
		p.SupplierID = req.SupplierID
	}

	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a product. The sale_items foreign key is RESTRICT, so a
// product with recorded sales cannot be removed; such deletes surface as
// ErrProductInUse.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.products.Delete(ctx, id)
	if err != nil && errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrProductInUse
	}
	return err
}

// AdjustStock applies a signed manual correction and records it in the
// movement ledger.
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, req dto.StockAdjustRequest) (*model.Product, error) {
	newQty, err := s.products.AdjustStock(ctx, id, req.Delta)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	movement := &model.StockMovement{
		ProductID:   id,
		Type:        model.MovementManualAdjust,
		Quantity:    req.Delta,
		StockBefore: newQty - req.Delta,
		StockAfter:  newQty,
		Note:        req.Note,
	}
	if err := s.movements.Create(ctx, movement); err != nil {
		s.log.Error().Err(err).Str("product_id", id.String()).Msg("could not record manual stock movement")
	}

	return s.Find(ctx, id)
}

func (s *ProductService) ListMovements(ctx context.Context, filter dto.StockMovementFilter) ([]model.StockMovement, int64, error) {
	return s.movements.List(ctx, filter)
}
