package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/AlekseyZapadovnikov/org-chart/internal/domain"
	"github.com/AlekseyZapadovnikov/org-chart/internal/models"
)

// MemoryStorage: заглушка источника данных: отдаёт исходный набор и подтверждает любые
// изменения, не сохраняя их, если не включён режим persist.
type MemoryStorage struct {
	mu        sync.RWMutex
	employees []models.Employee
	persist   bool

	listHook   func() error
	updateHook func(employeeID, managerID int64) error
}

// MemoryOption настраивает MemoryStorage.
type MemoryOption func(*MemoryStorage)

// WithPersist включает сохранение изменений в памяти.
func WithPersist(persist bool) MemoryOption {
	return func(m *MemoryStorage) {
		m.persist = persist
	}
}

// WithListHook позволяет имитировать сбой загрузки коллекции.
func WithListHook(hook func() error) MemoryOption {
	return func(m *MemoryStorage) {
		m.listHook = hook
	}
}

// WithUpdateHook позволяет имитировать сетевой сбой при сохранении.
func WithUpdateHook(hook func(employeeID, managerID int64) error) MemoryOption {
	return func(m *MemoryStorage) {
		m.updateHook = hook
	}
}

// NewMemoryStorage создаёт заглушку с переданным набором сотрудников.
func NewMemoryStorage(employees []models.Employee, opts ...MemoryOption) *MemoryStorage {
	m := &MemoryStorage{employees: models.CloneEmployees(employees)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ListEmployees возвращает копию всего набора.
func (m *MemoryStorage) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.listHook != nil {
		if err := m.listHook(); err != nil {
			return nil, err
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return models.CloneEmployees(m.employees), nil
}

// UpdateEmployeeManager возвращает сотрудника с новым руководителем.
func (m *MemoryStorage) UpdateEmployeeManager(ctx context.Context, employeeID, managerID int64) (*models.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.updateHook != nil {
		if err := m.updateHook(employeeID, managerID); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.employees {
		if m.employees[i].ID != employeeID {
			continue
		}
		updated := m.employees[i].Clone()
		updated.ManagerID = models.ManagerRef(managerID)
		if m.persist {
			m.employees[i] = updated.Clone()
		}
		return &updated, nil
	}
	return nil, domain.NewNotFoundError(fmt.Sprintf("employee %d", employeeID))
}

// ReplaceEmployees заменяет набор целиком.
func (m *MemoryStorage) ReplaceEmployees(_ context.Context, employees []models.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees = models.CloneEmployees(employees)
	return nil
}
