package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/domain"
	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/service"
)

type fakeMenuItemService struct {
	err       error
	updatedID uint
	deletedID uint
	calls     int
}

func (f *fakeMenuItemService) ListMenuItems(context.Context) ([]domain.MenuItem, error) {
	f.calls++
	return []domain.MenuItem{}, f.err
}

func (f *fakeMenuItemService) CreateMenuItem(_ context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	f.calls++
	item.ID = 1
	return item, f.err
}

func (f *fakeMenuItemService) UpdateMenuItem(_ context.Context, id uint, item domain.MenuItem) (domain.MenuItem, error) {
	f.calls++
	f.updatedID = id
	item.ID = id
	return item, f.err
}

func (f *fakeMenuItemService) DeleteMenuItem(_ context.Context, id uint) error {
	f.calls++
	f.deletedID = id
	return f.err
}

func newTestRouter(svc MenuItemService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewMenuItemHandler(svc)

	r := gin.New()
	r.GET("/menu-items", h.HandleListMenuItems)
	r.POST("/menu-items", h.HandleCreateMenuItem)
	r.PUT("/menu-items/:id", h.HandleUpdateMenuItem)
	r.DELETE("/menu-items/:id", h.HandleDeleteMenuItem)

	return r
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

const validBody = `{"name":"Burger","description":"Beef burger","price":5.99}`

func TestMenuItemHandler_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "not found",
			err:        fmt.Errorf("UpdateMenuItem -> %w", service.ErrMenuItemNotFound),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"menu item with ID 7 not found"}`,
		},
		{
			name:       "constraint violation",
			err:        fmt.Errorf("UpdateMenuItem -> %w", service.ErrInvalidMenuItem),
			wantStatus: http.StatusBadRequest,
			wantBody:   fmt.Sprintf(`{"error":%q}`, service.ErrInvalidMenuItem.Error()),
		},
		{
			name:       "storage unavailable",
			err:        fmt.Errorf("UpdateMenuItem -> %w", service.ErrStorageUnavailable),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"error":"Service Unavailable"}`,
		},
		{
			name:       "unexpected",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal Server Error"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&fakeMenuItemService{err: tt.err})

			rec := serve(r, http.MethodPut, "/menu-items/7", validBody)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestMenuItemHandler_ListUnavailable(t *testing.T) {
	r := newTestRouter(&fakeMenuItemService{err: service.ErrStorageUnavailable})

	rec := serve(r, http.MethodGet, "/menu-items", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMenuItemHandler_Create(t *testing.T) {
	svc := &fakeMenuItemService{}
	r := newTestRouter(svc)

	rec := serve(r, http.MethodPost, "/menu-items", validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"Burger","description":"Beef burger","price":5.99}`, rec.Body.String())
}

func TestMenuItemHandler_InvalidInputNeverReachesService(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"non numeric id", http.MethodPut, "/menu-items/abc", validBody},
		{"zero id", http.MethodPut, "/menu-items/0", validBody},
		{"overflowing id", http.MethodDelete, "/menu-items/18446744073709551616", ""},
		{"fractional id", http.MethodDelete, "/menu-items/1.5", ""},
		{"malformed json", http.MethodPost, "/menu-items", `{`},
		{"missing description", http.MethodPost, "/menu-items", `{"name":"a","price":1}`},
		{"null price", http.MethodPut, "/menu-items/1", `{"name":"a","description":"b","price":null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeMenuItemService{}
			r := newTestRouter(svc)

			rec := serve(r, tt.method, tt.path, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, svc.calls)
		})
	}
}

func TestMenuItemHandler_IDBeyond32Bits(t *testing.T) {
	svc := &fakeMenuItemService{}
	r := newTestRouter(svc)

	rec := serve(r, http.MethodPut, "/menu-items/4294967296", validBody)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(4294967296), svc.updatedID)
}

func TestMenuItemHandler_Delete(t *testing.T) {
	svc := &fakeMenuItemService{}
	r := newTestRouter(svc)

	rec := serve(r, http.MethodDelete, "/menu-items/3", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Menu item deleted successfully"}`, rec.Body.String())
	assert.Equal(t, uint(3), svc.deletedID)
}
