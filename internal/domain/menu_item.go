package domain

// MaxPrice is the largest price a decimal(10,2) column holds.
const MaxPrice = 99999999.99

type MenuItem struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type MenuItemEventType string

const (
	MenuItemCreated MenuItemEventType = "created"
	MenuItemUpdated MenuItemEventType = "updated"
	MenuItemDeleted MenuItemEventType = "deleted"
)

// MenuItemEvent is emitted after a write has been committed. For deletions
// Item only carries the ID.
type MenuItemEvent struct {
	Type MenuItemEventType `json:"type"`
	Item MenuItem          `json:"item"`
}
