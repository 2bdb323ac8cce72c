package response

type MessageResponse struct {
	Message string `json:"message"`
}

const MenuItemDeleted = "Menu item deleted successfully"
