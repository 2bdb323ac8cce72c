package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/domain"
)

// MenuItemRequest is the body of both create and update. Every field is
// required; an update replaces all three.
type MenuItemRequest struct {
	Name        string   `json:"name" example:"Burger"`
	Description string   `json:"description" example:"Beef burger"`
	Price       *float64 `json:"price" example:"5.99"`
}

func (req *MenuItemRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required.Error("Name is required")),
		validation.Field(&req.Description, validation.Required.Error("Description is required")),
		validation.Field(&req.Price,
			validation.NotNil.Error("Price is required"),
			validation.Min(0.0).Error("Price must be a positive number"),
			validation.Max(domain.MaxPrice).Error("Price must not exceed 99999999.99"),
		),
	)
}

func (req *MenuItemRequest) ToDomain() domain.MenuItem {
	item := domain.MenuItem{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Price != nil {
		item.Price = *req.Price
	}

	return item
}
