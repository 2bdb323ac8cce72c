package dao

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrMenuItemNotFound   = errors.New("menu item not found")
	ErrInvalidMenuItem    = errors.New("invalid menu item")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

type MenuItem struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"not null"`
	Description string  `gorm:"not null"`
	Price       float64 `gorm:"type:decimal(10,2);not null;check:price >= 0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (MenuItem) TableName() string {
	return "menu_items"
}

type MenuItemDAO struct {
	db *gorm.DB
}

func NewMenuItemDAO(db *gorm.DB) *MenuItemDAO {
	return &MenuItemDAO{
		db: db,
	}
}

func (d *MenuItemDAO) FindAll(ctx context.Context) ([]MenuItem, error) {
	items := []MenuItem{}

	result := d.db.WithContext(ctx).Order("id ASC").Find(&items)
	if result.Error != nil {
		return nil, classify(result.Error)
	}

	return items, nil
}

func (d *MenuItemDAO) Insert(ctx context.Context, item MenuItem) (MenuItem, error) {
	item.ID = 0

	result := d.db.WithContext(ctx).Create(&item)
	if result.Error != nil {
		return MenuItem{}, classify(result.Error)
	}

	return item, nil
}

// Update overwrites name, description and price of the row identified by
// item.ID and returns the stored row.
func (d *MenuItemDAO) Update(ctx context.Context, item MenuItem) (MenuItem, error) {
	var updated MenuItem

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&MenuItem{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
			"name":        item.Name,
			"description": item.Description,
			"price":       item.Price,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrMenuItemNotFound
		}

		return tx.First(&updated, item.ID).Error
	})
	if err != nil {
		return MenuItem{}, classify(err)
	}

	return updated, nil
}

func (d *MenuItemDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&MenuItem{}, id)
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMenuItemNotFound
	}

	return nil
}

// sqliteError is implemented by the sqlite driver's error type. Code returns
// the extended result code; its low byte is the primary code.
type sqliteError interface {
	error
	Code() int
}

// Primary sqlite result codes, see https://www.sqlite.org/rescode.html.
const (
	sqliteBusy       = 5
	sqliteLocked     = 6
	sqliteNoMem      = 7
	sqliteReadOnly   = 8
	sqliteIOErr      = 10
	sqliteFull       = 13
	sqliteCantOpen   = 14
	sqliteTooBig     = 18
	sqliteConstraint = 19
	sqliteMismatch   = 20
)

// classify folds driver errors into the package sentinels so callers can
// tell a missing row or a rejected value from an outage.
func classify(err error) error {
	if errors.Is(err, ErrMenuItemNotFound) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrMenuItemNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgerrcode.IsIntegrityConstraintViolation(pgErr.Code),
			pgerrcode.IsDataException(pgErr.Code):
			return fmt.Errorf("%w -> %w", ErrInvalidMenuItem, err)
		case pgerrcode.IsConnectionException(pgErr.Code),
			pgerrcode.IsInsufficientResources(pgErr.Code),
			pgerrcode.IsOperatorIntervention(pgErr.Code):
			return fmt.Errorf("%w -> %w", ErrStorageUnavailable, err)
		}

		return err
	}

	var liteErr sqliteError
	if errors.As(err, &liteErr) {
		switch liteErr.Code() & 0xff {
		case sqliteConstraint, sqliteMismatch, sqliteTooBig:
			return fmt.Errorf("%w -> %w", ErrInvalidMenuItem, err)
		case sqliteBusy, sqliteLocked, sqliteNoMem, sqliteReadOnly, sqliteIOErr, sqliteFull, sqliteCantOpen:
			return fmt.Errorf("%w -> %w", ErrStorageUnavailable, err)
		}
	}

	var connectErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connectErr) ||
		errors.As(err, &netErr) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) ||
		pgconn.Timeout(err) {
		return fmt.Errorf("%w -> %w", ErrStorageUnavailable, err)
	}

	return err
}
