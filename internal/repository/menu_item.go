package repository

import (
	"context"
	"fmt"

	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/domain"
	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/repository/dao"
)

var (
	ErrMenuItemNotFound   = dao.ErrMenuItemNotFound
	ErrInvalidMenuItem    = dao.ErrInvalidMenuItem
	ErrStorageUnavailable = dao.ErrStorageUnavailable
)

type MenuItemDAO interface {
	FindAll(ctx context.Context) ([]dao.MenuItem, error)
	Insert(ctx context.Context, item dao.MenuItem) (dao.MenuItem, error)
	Update(ctx context.Context, item dao.MenuItem) (dao.MenuItem, error)
	Delete(ctx context.Context, id uint) error
}

type MenuItemRepository struct {
	dao MenuItemDAO
}

func NewMenuItemRepository(dao MenuItemDAO) *MenuItemRepository {
	return &MenuItemRepository{
		dao: dao,
	}
}

func (r *MenuItemRepository) FindAll(ctx context.Context) ([]domain.MenuItem, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	items := make([]domain.MenuItem, 0, len(found))
	for _, item := range found {
		items = append(items, r.daoToDomain(item))
	}

	return items, nil
}

func (r *MenuItemRepository) Create(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(item))
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *MenuItemRepository) Update(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(item))
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *MenuItemRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *MenuItemRepository) domainToDao(item domain.MenuItem) dao.MenuItem {
	return dao.MenuItem{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
	}
}

func (r *MenuItemRepository) daoToDomain(item dao.MenuItem) domain.MenuItem {
	return domain.MenuItem{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
	}
}
