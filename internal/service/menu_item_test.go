package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/domain"
)

type fakeRepo struct {
	items  map[uint]domain.MenuItem
	nextID uint
	err    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[uint]domain.MenuItem{}, nextID: 1}
}

func (r *fakeRepo) FindAll(_ context.Context) ([]domain.MenuItem, error) {
	if r.err != nil {
		return nil, r.err
	}
	items := []domain.MenuItem{}
	for id := uint(1); id < r.nextID; id++ {
		if item, ok := r.items[id]; ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *fakeRepo) Create(_ context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	if r.err != nil {
		return domain.MenuItem{}, r.err
	}
	item.ID = r.nextID
	r.nextID++
	r.items[item.ID] = item
	return item, nil
}

func (r *fakeRepo) Update(_ context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	if r.err != nil {
		return domain.MenuItem{}, r.err
	}
	if _, ok := r.items[item.ID]; !ok {
		return domain.MenuItem{}, ErrMenuItemNotFound
	}
	r.items[item.ID] = item
	return item, nil
}

func (r *fakeRepo) Delete(_ context.Context, id uint) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.items[id]; !ok {
		return ErrMenuItemNotFound
	}
	delete(r.items, id)
	return nil
}

type recordingPublisher struct {
	events []domain.MenuItemEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.MenuItemEvent) error {
	p.events = append(p.events, event)
	return p.err
}

func TestMenuItemService_CreateRoundsPriceAndPublishes(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewMenuItemService(newFakeRepo(), pub)

	created, err := svc.CreateMenuItem(context.Background(), domain.MenuItem{
		ID:          77,
		Name:        "Burger",
		Description: "Beef burger",
		Price:       5.987,
	})
	require.NoError(t, err)

	assert.EqualValues(t, 1, created.ID)
	assert.Equal(t, 5.99, created.Price)
	require.Len(t, pub.events, 1)
	assert.Equal(t, domain.MenuItemCreated, pub.events[0].Type)
	assert.Equal(t, created, pub.events[0].Item)
}

func TestMenuItemService_UpdateAndDelete(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewMenuItemService(newFakeRepo(), pub)
	ctx := context.Background()

	created, err := svc.CreateMenuItem(ctx, domain.MenuItem{Name: "Burger", Description: "Beef burger", Price: 5.99})
	require.NoError(t, err)

	updated, err := svc.UpdateMenuItem(ctx, created.ID, domain.MenuItem{ID: 500, Name: "Burger", Description: "Beef burger", Price: 6.49})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 6.49, updated.Price)

	require.NoError(t, svc.DeleteMenuItem(ctx, created.ID))

	items, err := svc.ListMenuItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	require.Len(t, pub.events, 3)
	assert.Equal(t, domain.MenuItemUpdated, pub.events[1].Type)
	assert.Equal(t, domain.MenuItemDeleted, pub.events[2].Type)
	assert.Equal(t, created.ID, pub.events[2].Item.ID)
}

func TestMenuItemService_NotFoundPublishesNothing(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewMenuItemService(newFakeRepo(), pub)

	_, err := svc.UpdateMenuItem(context.Background(), 9, domain.MenuItem{Name: "a", Description: "b"})
	assert.ErrorIs(t, err, ErrMenuItemNotFound)

	err = svc.DeleteMenuItem(context.Background(), 9)
	assert.ErrorIs(t, err, ErrMenuItemNotFound)

	assert.Empty(t, pub.events)
}

func TestMenuItemService_PublishFailureDoesNotFailWrite(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewMenuItemService(newFakeRepo(), pub)

	_, err := svc.CreateMenuItem(context.Background(), domain.MenuItem{Name: "Tea", Description: "Green", Price: 1})
	assert.NoError(t, err)
	assert.Len(t, pub.events, 1)
}

func TestMenuItemService_NilPublisher(t *testing.T) {
	svc := NewMenuItemService(newFakeRepo(), nil)

	_, err := svc.CreateMenuItem(context.Background(), domain.MenuItem{Name: "Tea", Description: "Green", Price: 1})
	assert.NoError(t, err)
}

func TestMenuItemService_StorageErrorsAreWrapped(t *testing.T) {
	repo := newFakeRepo()
	repo.err = ErrStorageUnavailable
	svc := NewMenuItemService(repo, nil)

	_, err := svc.ListMenuItems(context.Background())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Contains(t, err.Error(), "s.repo.FindAll")
}

func TestRoundToCents(t *testing.T) {
	tests := []struct {
		price float64
		want  float64
	}{
		{5.99, 5.99},
		{6.49, 6.49},
		{0.005, 0.01},
		{9.999, 10.0},
		{0, 0},
		{domain.MaxPrice, domain.MaxPrice},
	}
	for _, tt := range tests {
		got, err := roundToCents(tt.price)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestRoundToCents_OutOfRange(t *testing.T) {
	for _, price := range []float64{1e307, math.MaxFloat64, math.Inf(1), math.NaN(), 123456789012.34, -1} {
		_, err := roundToCents(price)
		assert.ErrorIs(t, err, ErrInvalidMenuItem, "price %v", price)
	}
}

func TestMenuItemService_RejectsUnstorablePrice(t *testing.T) {
	repo := newFakeRepo()
	pub := &recordingPublisher{}
	svc := NewMenuItemService(repo, pub)

	_, err := svc.CreateMenuItem(context.Background(), domain.MenuItem{Name: "Gold", Description: "Leaf", Price: 1e307})
	assert.ErrorIs(t, err, ErrInvalidMenuItem)

	created, err := svc.CreateMenuItem(context.Background(), domain.MenuItem{Name: "Tea", Description: "Green", Price: 1})
	require.NoError(t, err)

	_, err = svc.UpdateMenuItem(context.Background(), created.ID, domain.MenuItem{Name: "Tea", Description: "Green", Price: 123456789012.34})
	assert.ErrorIs(t, err, ErrInvalidMenuItem)

	assert.Len(t, repo.items, 1)
	assert.Equal(t, 1.0, repo.items[created.ID].Price)
	assert.Len(t, pub.events, 1)
}
