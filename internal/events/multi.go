package events

import (
	"context"
	"errors"

	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/domain"
)

type Publisher interface {
	Publish(ctx context.Context, event domain.MenuItemEvent) error
}

// Multi hands every event to all publishers, even when one of them fails.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event domain.MenuItemEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
