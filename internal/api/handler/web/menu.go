package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/domain"
	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/menuui"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const menuTemplate = "menu.tmpl"

// Templates parses the page templates for gin's HTML renderer.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))
}

type menuPage struct {
	Items        []domain.MenuItem
	Form         menuui.Form
	FieldErrors  map[string]string
	Editing      bool
	EditingID    uint
	Loading      bool
	DeletePrompt string
}

// MenuPageHandler serves the Menu Manager page. Edit mode travels in the URL
// (?edit=ID) and in a hidden form field, so no state is kept between requests.
type MenuPageHandler struct {
	api  menuui.API
	opts []menuui.Option
}

func NewMenuPageHandler(api menuui.API, opts ...menuui.Option) *MenuPageHandler {
	return &MenuPageHandler{
		api:  api,
		opts: opts,
	}
}

func (h *MenuPageHandler) HandleShowMenu(ctx *gin.Context) {
	m := menuui.NewManager(h.api, h.opts...)

	status := http.StatusOK
	if err := m.Load(ctx.Request.Context()); err != nil {
		status = http.StatusInternalServerError
	}

	if raw := ctx.Query("edit"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			m.EditByID(uint(id))
		}
	}

	h.render(ctx, status, m)
}

func (h *MenuPageHandler) HandleSubmitMenu(ctx *gin.Context) {
	m := menuui.NewManager(h.api, h.opts...)

	var form menuui.Form
	if err := ctx.ShouldBind(&form); err != nil {
		zap.L().Info("invalid menu form", zap.Error(err))
	}

	if raw := ctx.PostForm("editing_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			ctx.Redirect(http.StatusSeeOther, "/menu")
			return
		}
		m.Edit(domain.MenuItem{ID: uint(id)})
	}

	err := m.Submit(ctx.Request.Context(), form)
	if err == nil {
		ctx.Redirect(http.StatusSeeOther, "/menu")
		return
	}

	status := http.StatusInternalServerError
	if errors.Is(err, menuui.ErrInvalidForm) {
		status = http.StatusBadRequest
	}

	_ = m.Load(ctx.Request.Context())
	h.render(ctx, status, m)
}

func (h *MenuPageHandler) HandleDeleteMenuItem(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		ctx.Redirect(http.StatusSeeOther, "/menu")
		return
	}

	m := menuui.NewManager(h.api, h.opts...)
	confirmed := func(string) bool {
		return ctx.PostForm("confirmed") == "yes"
	}

	// Failures are logged by the manager; the page just reloads.
	_, _ = m.Delete(ctx.Request.Context(), uint(id), confirmed)

	ctx.Redirect(http.StatusSeeOther, "/menu")
}

func (h *MenuPageHandler) render(ctx *gin.Context, status int, m *menuui.Manager) {
	page := menuPage{
		Items:        m.Items(),
		Form:         m.Form(),
		FieldErrors:  m.FieldErrors(),
		Loading:      m.Loading(),
		DeletePrompt: menuui.DeletePrompt,
	}
	if item, ok := m.Editing(); ok {
		page.Editing = true
		page.EditingID = item.ID
	}
	if page.FieldErrors == nil {
		page.FieldErrors = map[string]string{}
	}

	ctx.HTML(status, menuTemplate, page)
}
