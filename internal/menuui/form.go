package menuui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/domain"
)

var ErrInvalidForm = errors.New("menu item form is invalid")

// Form holds the raw values of the add/edit form. Price stays a string until
// submission, as typed by the user.
type Form struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	Price       string `json:"price" form:"price"`
}

func DefaultForm() Form {
	return Form{Price: "0"}
}

func FormFromItem(item domain.MenuItem) Form {
	return Form{
		Name:        item.Name,
		Description: item.Description,
		Price:       strconv.FormatFloat(item.Price, 'f', -1, 64),
	}
}

func (f *Form) Validate() error {
	return validation.ValidateStruct(
		f,
		validation.Field(&f.Name, validation.Required.Error("Name is required")),
		validation.Field(&f.Description, validation.Required.Error("Description is required")),
		validation.Field(&f.Price,
			validation.Required.Error("Price is required"),
			validation.By(nonNegativeNumber),
		),
	)
}

// FieldErrors flattens a Validate error into field name -> message.
func FieldErrors(err error) map[string]string {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return nil
	}

	fields := make(map[string]string, len(errs))
	for field, fieldErr := range errs {
		fields[field] = fieldErr.Error()
	}

	return fields
}

// MenuItem converts a validated form.
func (f *Form) MenuItem() (domain.MenuItem, error) {
	price, err := parsePrice(f.Price)
	if err != nil {
		return domain.MenuItem{}, err
	}

	return domain.MenuItem{
		Name:        f.Name,
		Description: f.Description,
		Price:       price,
	}, nil
}

func nonNegativeNumber(value interface{}) error {
	s, _ := value.(string)

	price, err := parsePrice(s)
	if err != nil {
		return errors.New("Price must be a number")
	}
	if price < 0 {
		return errors.New("Price must be a positive number")
	}
	if price > domain.MaxPrice {
		return errors.New("Price must not exceed 99999999.99")
	}

	return nil
}

func parsePrice(s string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q -> %w", s, err)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("invalid price %q", s)
	}

	return price, nil
}
