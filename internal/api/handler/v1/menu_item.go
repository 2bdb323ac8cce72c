package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/domain"
	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/service"
)

type MenuItemService interface {
	ListMenuItems(ctx context.Context) ([]domain.MenuItem, error)
	CreateMenuItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id uint, item domain.MenuItem) (domain.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id uint) error
}

type MenuItemHandler struct {
	svc MenuItemService
}

func NewMenuItemHandler(svc MenuItemService) *MenuItemHandler {
	return &MenuItemHandler{
		svc: svc,
	}
}

// HandleListMenuItems godoc
// @Summary      List menu items
// @Tags         menu-items
// @Produce      json
// @Success      200  {array}   domain.MenuItem
// @Failure      500  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Router       /menu-items [get]
func (h *MenuItemHandler) HandleListMenuItems(ctx *gin.Context) {
	items, err := h.svc.ListMenuItems(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("HandleListMenuItems -> h.svc.ListMenuItems -> %w", err)
		response.RenderErr(ctx, serviceErr(err, 0))
		return
	}

	ctx.JSON(http.StatusOK, items)
}

// HandleCreateMenuItem godoc
// @Summary      Create a menu item
// @Tags         menu-items
// @Accept       json
// @Produce      json
// @Param        input  body      request.MenuItemRequest  true  "Menu item"
// @Success      201    {object}  domain.MenuItem
// @Failure      400    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Failure      503    {object}  response.Err
// @Router       /menu-items [post]
func (h *MenuItemHandler) HandleCreateMenuItem(ctx *gin.Context) {
	var req request.MenuItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.CreateMenuItem(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		err = fmt.Errorf("HandleCreateMenuItem -> h.svc.CreateMenuItem -> %w", err)
		response.RenderErr(ctx, serviceErr(err, 0))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleUpdateMenuItem godoc
// @Summary      Replace a menu item
// @Description  Overwrites name, description and price of the item.
// @Tags         menu-items
// @Accept       json
// @Produce      json
// @Param        id     path      int                      true  "Menu item ID"
// @Param        input  body      request.MenuItemRequest  true  "Menu item"
// @Success      200    {object}  domain.MenuItem
// @Failure      400    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Failure      503    {object}  response.Err
// @Router       /menu-items/{id} [put]
func (h *MenuItemHandler) HandleUpdateMenuItem(ctx *gin.Context) {
	id, respErr := parseMenuItemID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.MenuItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdateMenuItem(ctx.Request.Context(), id, req.ToDomain())
	if err != nil {
		err = fmt.Errorf("HandleUpdateMenuItem -> h.svc.UpdateMenuItem -> %w", err)
		response.RenderErr(ctx, serviceErr(err, id))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteMenuItem godoc
// @Summary      Delete a menu item
// @Tags         menu-items
// @Produce      json
// @Param        id   path      int  true  "Menu item ID"
// @Success      200  {object}  response.MessageResponse
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Router       /menu-items/{id} [delete]
func (h *MenuItemHandler) HandleDeleteMenuItem(ctx *gin.Context) {
	id, respErr := parseMenuItemID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeleteMenuItem(ctx.Request.Context(), id); err != nil {
		err = fmt.Errorf("HandleDeleteMenuItem -> h.svc.DeleteMenuItem -> %w", err)
		response.RenderErr(ctx, serviceErr(err, id))
		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: response.MenuItemDeleted})
}

// parseMenuItemID accepts only positive integers that fit the ID column.
func parseMenuItemID(ctx *gin.Context) (uint, *response.Err) {
	raw := ctx.Param("id")

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid menu item ID: %q is not a positive integer", raw))
	}

	return uint(id), nil
}

func serviceErr(err error, id uint) *response.Err {
	switch {
	case errors.Is(err, service.ErrMenuItemNotFound):
		return response.ErrNotFound("menu item", "ID", id)
	case errors.Is(err, service.ErrInvalidMenuItem):
		return response.ErrBadRequest(service.ErrInvalidMenuItem)
	case errors.Is(err, service.ErrStorageUnavailable):
		return response.ErrServiceUnavailable(err)
	default:
		return response.ErrInternalServerError(err)
	}
}
