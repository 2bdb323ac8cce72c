package service

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/domain"
	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/repository"
)

var (
	ErrMenuItemNotFound   = repository.ErrMenuItemNotFound
	ErrInvalidMenuItem    = repository.ErrInvalidMenuItem
	ErrStorageUnavailable = repository.ErrStorageUnavailable
)

type MenuItemRepository interface {
	FindAll(ctx context.Context) ([]domain.MenuItem, error)
	Create(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error)
	Update(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error)
	Delete(ctx context.Context, id uint) error
}

// EventPublisher receives every committed change. Publishing is best effort:
// a failure is logged and never fails the write.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.MenuItemEvent) error
}

type MenuItemService struct {
	repo      MenuItemRepository
	publisher EventPublisher
}

func NewMenuItemService(repo MenuItemRepository, publisher EventPublisher) *MenuItemService {
	return &MenuItemService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *MenuItemService) ListMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return items, nil
}

func (s *MenuItemService) CreateMenuItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	price, err := roundToCents(item.Price)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("roundToCents -> %w", err)
	}
	item.ID = 0
	item.Price = price

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.publish(ctx, domain.MenuItemEvent{Type: domain.MenuItemCreated, Item: created})

	return created, nil
}

// UpdateMenuItem replaces every field of the item with the given ID. Writes
// from concurrent editors are last-write-wins.
func (s *MenuItemService) UpdateMenuItem(ctx context.Context, id uint, item domain.MenuItem) (domain.MenuItem, error) {
	price, err := roundToCents(item.Price)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("roundToCents -> %w", err)
	}
	item.ID = id
	item.Price = price

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	s.publish(ctx, domain.MenuItemEvent{Type: domain.MenuItemUpdated, Item: updated})

	return updated, nil
}

func (s *MenuItemService) DeleteMenuItem(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	s.publish(ctx, domain.MenuItemEvent{Type: domain.MenuItemDeleted, Item: domain.MenuItem{ID: id}})

	return nil
}

func (s *MenuItemService) publish(ctx context.Context, event domain.MenuItemEvent) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		zap.L().Warn("failed to publish menu item event",
			zap.String("type", string(event.Type)),
			zap.Uint("menu_item_id", event.Item.ID),
			zap.Error(err),
		)
	}
}

// roundToCents keeps prices on the two decimal places the column stores.
// Anything the column cannot hold is rejected as ErrInvalidMenuItem.
func roundToCents(price float64) (float64, error) {
	rounded := math.Round(price*100) / 100
	if math.IsNaN(rounded) || math.IsInf(rounded, 0) || rounded < 0 || rounded > domain.MaxPrice {
		return 0, fmt.Errorf("%w -> price %v out of range", ErrInvalidMenuItem, price)
	}

	return rounded, nil
}
