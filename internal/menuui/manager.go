package menuui

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/domain"
)

const DeletePrompt = "Are you sure you want to delete this item?"

// API is the subset of the Menu Items API the manager drives. Both the HTTP
// client and the service satisfy it.
type API interface {
	ListMenuItems(ctx context.Context) ([]domain.MenuItem, error)
	CreateMenuItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id uint, item domain.MenuItem) (domain.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id uint) error
}

// Confirmer asks the user a yes/no question.
type Confirmer func(prompt string) bool

type Option func(*Manager)

// WithRefetch reloads the whole list after every successful write instead of
// patching the local copy with the returned record.
func WithRefetch() Option {
	return func(m *Manager) {
		m.refetch = true
	}
}

// Manager is the state behind the menu item form and table.
type Manager struct {
	api     API
	refetch bool

	mu          sync.Mutex
	items       []domain.MenuItem
	loading     bool
	editing     *domain.MenuItem
	form        Form
	fieldErrors map[string]string
}

func NewManager(api API, opts ...Option) *Manager {
	m := &Manager{
		api:  api,
		form: DefaultForm(),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *Manager) Items() []domain.MenuItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]domain.MenuItem, len(m.items))
	copy(items, m.items)

	return items
}

func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.loading
}

func (m *Manager) Editing() (domain.MenuItem, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.editing == nil {
		return domain.MenuItem{}, false
	}

	return *m.editing, true
}

func (m *Manager) Form() Form {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.form
}

func (m *Manager) FieldErrors() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.fieldErrors
}

// Load replaces the local list with the server's.
func (m *Manager) Load(ctx context.Context) error {
	m.setLoading(true)
	defer m.setLoading(false)

	return m.load(ctx)
}

func (m *Manager) load(ctx context.Context) error {
	items, err := m.api.ListMenuItems(ctx)
	if err != nil {
		zap.L().Error("Error fetching menu items", zap.Error(err))
		return fmt.Errorf("m.api.ListMenuItems -> %w", err)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	m.mu.Lock()
	m.items = items
	m.mu.Unlock()

	return nil
}

// Edit switches the form to edit mode, pre-filled with item.
func (m *Manager) Edit(item domain.MenuItem) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.editing = &item
	m.form = FormFromItem(item)
	m.fieldErrors = nil
}

// EditByID enters edit mode for a loaded item. It reports false when the
// item is not in the list.
func (m *Manager) EditByID(id uint) bool {
	m.mu.Lock()
	i, found := m.indexOf(id)
	var item domain.MenuItem
	if found {
		item = m.items[i]
	}
	m.mu.Unlock()

	if found {
		m.Edit(item)
	}

	return found
}

// Reset returns to add mode with an empty form.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.editing = nil
	m.form = DefaultForm()
	m.fieldErrors = nil
}

// Submit validates form and creates or, in edit mode, updates the item. A
// form that fails validation never reaches the API.
func (m *Manager) Submit(ctx context.Context, form Form) error {
	m.mu.Lock()
	m.form = form
	editing := m.editing
	m.mu.Unlock()

	if err := form.Validate(); err != nil {
		m.mu.Lock()
		m.fieldErrors = FieldErrors(err)
		m.mu.Unlock()
		return fmt.Errorf("%w -> %w", ErrInvalidForm, err)
	}

	m.mu.Lock()
	m.fieldErrors = nil
	m.mu.Unlock()

	item, err := form.MenuItem()
	if err != nil {
		return fmt.Errorf("%w -> %w", ErrInvalidForm, err)
	}

	m.setLoading(true)
	defer m.setLoading(false)

	var saved domain.MenuItem
	if editing != nil {
		saved, err = m.api.UpdateMenuItem(ctx, editing.ID, item)
	} else {
		saved, err = m.api.CreateMenuItem(ctx, item)
	}
	if err != nil {
		zap.L().Error("Error saving menu item", zap.Error(err))
		return fmt.Errorf("save menu item -> %w", err)
	}

	if m.refetch {
		// A failed reload is logged; the write itself went through.
		_ = m.load(ctx)
	} else {
		m.upsert(saved)
	}

	m.Reset()

	return nil
}

// Delete asks confirm before removing the item. It reports whether the item
// was deleted; a declined confirmation is not an error.
func (m *Manager) Delete(ctx context.Context, id uint, confirm Confirmer) (bool, error) {
	if confirm == nil || !confirm(DeletePrompt) {
		return false, nil
	}

	m.setLoading(true)
	defer m.setLoading(false)

	if err := m.api.DeleteMenuItem(ctx, id); err != nil {
		zap.L().Error("Error deleting menu item", zap.Uint("menu_item_id", id), zap.Error(err))
		return false, fmt.Errorf("m.api.DeleteMenuItem -> %w", err)
	}

	if m.refetch {
		_ = m.load(ctx)
	} else {
		m.remove(id)
	}

	return true, nil
}

func (m *Manager) setLoading(loading bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.loading = loading
}

// indexOf expects m.mu to be held. items are kept sorted by ID.
func (m *Manager) indexOf(id uint) (int, bool) {
	i := sort.Search(len(m.items), func(i int) bool { return m.items[i].ID >= id })

	return i, i < len(m.items) && m.items[i].ID == id
}

func (m *Manager) upsert(item domain.MenuItem) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, found := m.indexOf(item.ID)
	if found {
		m.items[i] = item
		return
	}

	m.items = append(m.items, domain.MenuItem{})
	copy(m.items[i+1:], m.items[i:])
	m.items[i] = item
}

func (m *Manager) remove(id uint) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i, found := m.indexOf(id); found {
		m.items = append(m.items[:i], m.items[i+1:]...)
	}
}
