package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/glowist/glowist-backend/internal/logger"
	"github.com/glowist/glowist-backend/internal/realtime"
	"github.com/glowist/glowist-backend/internal/realtime/bus"
	"github.com/glowist/glowist-backend/internal/repos"
	"github.com/glowist/glowist-backend/internal/types"
)

// ShelfItem is a user product with its display badge attached.
type ShelfItem struct {
	*types.UserProduct
	Badge ShelfBadge `json:"badge"`
}

type ShelfAddInput struct {
	ProductID      uuid.UUID  `json:"product_id"`
	Status         string     `json:"status"`
	DateOpened     *time.Time `json:"date_opened"`
	ExpirationDate *time.Time `json:"expiration_date"`
}

type ShelfPatch struct {
	Status         *string    `json:"status"`
	DateOpened     *time.Time `json:"date_opened"`
	ExpirationDate *time.Time `json:"expiration_date"`
	Price          *float64   `json:"price"`
	Rating         *int       `json:"rating"`
	Review         *string    `json:"review"`
}

type ShelfService interface {
	List(ctx context.Context, userID uuid.UUID, status string) ([]ShelfItem, error)
	Add(ctx context.Context, userID uuid.UUID, input ShelfAddInput) (*ShelfItem, error)
	// Update returns (nil, nil) when the item does not exist or belongs to
	// another user.
	Update(ctx context.Context, userID, itemID uuid.UUID, patch ShelfPatch) (*ShelfItem, error)
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
}

type shelfService struct {
	db          *gorm.DB
	log         *logger.Logger
	shelfRepo   repos.UserProductRepo
	productRepo repos.ProductRepo
	bus         bus.Bus
}

func NewShelfService(db *gorm.DB, log *logger.Logger, shelfRepo repos.UserProductRepo, productRepo repos.ProductRepo, b bus.Bus) ShelfService {
	return &shelfService{
		db:          db,
		log:         log.With("service", "ShelfService"),
		shelfRepo:   shelfRepo,
		productRepo: productRepo,
		bus:         b,
	}
}

func (s *shelfService) List(ctx context.Context, userID uuid.UUID, status string) ([]ShelfItem, error) {
	if status != "" && !types.ValidShelfStatus(status) {
		return nil, fmt.Errorf("invalid shelf status %q", status)
	}
	rows, err := s.shelfRepo.GetByUserID(ctx, nil, userID, status)
	if err != nil {
		return nil, fmt.Errorf("load shelf: %w", err)
	}
	now := time.Now()
	items := make([]ShelfItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, ShelfItem{
			UserProduct: row,
			Badge:       GetShelfBadge(row.ExpirationDate, row.DateOpened, row.Status, now),
		})
	}
	return items, nil
}

func (s *shelfService) Add(ctx context.Context, userID uuid.UUID, input ShelfAddInput) (*ShelfItem, error) {
	if !types.ValidShelfStatus(input.Status) {
		return nil, fmt.Errorf("invalid shelf status %q", input.Status)
	}
	product, err := s.productRepo.GetByID(ctx, nil, input.ProductID)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if product == nil {
		return nil, ErrNotFound
	}
	row := &types.UserProduct{
		ID:             uuid.New(),
		UserID:         userID,
		ProductID:      input.ProductID,
		Status:         input.Status,
		DateOpened:     input.DateOpened,
		ExpirationDate: input.ExpirationDate,
	}
	if _, err := s.shelfRepo.Create(ctx, nil, row); err != nil {
		return nil, fmt.Errorf("add shelf item: %w", err)
	}
	row.Product = product
	s.publishShelfChange(ctx, userID)
	return &ShelfItem{
		UserProduct: row,
		Badge:       GetShelfBadge(row.ExpirationDate, row.DateOpened, row.Status, time.Now()),
	}, nil
}

func (s *shelfService) Update(ctx context.Context, userID, itemID uuid.UUID, patch ShelfPatch) (*ShelfItem, error) {
	existing, err := s.shelfRepo.GetByID(ctx, nil, itemID)
	if err != nil {
		return nil, fmt.Errorf("load shelf item: %w", err)
	}
	if existing == nil || existing.UserID != userID {
		return nil, nil
	}
	fields := map[string]interface{}{}
	if patch.Status != nil {
		if !types.ValidShelfStatus(*patch.Status) {
			return nil, fmt.Errorf("invalid shelf status %q", *patch.Status)
		}
		fields["status"] = *patch.Status
	}
	if patch.DateOpened != nil {
		fields["date_opened"] = *patch.DateOpened
	}
	if patch.ExpirationDate != nil {
		fields["expiration_date"] = *patch.ExpirationDate
	}
	if patch.Price != nil {
		fields["price"] = *patch.Price
	}
	if patch.Rating != nil {
		fields["rating"] = *patch.Rating
	}
	if patch.Review != nil {
		fields["review"] = *patch.Review
	}
	if len(fields) > 0 {
		fields["updated_at"] = time.Now()
		if err := s.shelfRepo.UpdateFields(ctx, nil, itemID, fields); err != nil {
			return nil, fmt.Errorf("update shelf item: %w", err)
		}
	}
	updated, err := s.shelfRepo.GetByID(ctx, nil, itemID)
	if err != nil {
		return nil, fmt.Errorf("reload shelf item: %w", err)
	}
	s.publishShelfChange(ctx, userID)
	return &ShelfItem{
		UserProduct: updated,
		Badge:       GetShelfBadge(updated.ExpirationDate, updated.DateOpened, updated.Status, time.Now()),
	}, nil
}

func (s *shelfService) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	existing, err := s.shelfRepo.GetByID(ctx, nil, itemID)
	if err != nil {
		return fmt.Errorf("load shelf item: %w", err)
	}
	if existing == nil || existing.UserID != userID {
		return ErrNotFound
	}
	if err := s.shelfRepo.DeleteByIDs(ctx, nil, []uuid.UUID{itemID}); err != nil {
		return fmt.Errorf("remove shelf item: %w", err)
	}
	s.publishShelfChange(ctx, userID)
	return nil
}

func (s *shelfService) publishShelfChange(ctx context.Context, userID uuid.UUID) {
	msg := realtime.SSEMessage{
		Channel: realtime.UserChannel(userID.String()),
		Event:   realtime.SSEEventShelfUpdated,
	}
	if err := s.bus.Publish(ctx, msg); err != nil {
		s.log.Warn("Failed to publish shelf change", "userID", userID, "error", err)
	}
}
