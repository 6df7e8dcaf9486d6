package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/AlekseyZapadovnikov/org-chart/internal/domain"
	"github.com/AlekseyZapadovnikov/org-chart/internal/hierarchy"
	"github.com/AlekseyZapadovnikov/org-chart/internal/models"
)

// Тексты уведомлений о переназначении.
const (
	msgMoving        = "Moving %s..."
	msgReportsTo     = "%s now reports to %s"
	msgPersistFailed = "Failed to update employee. Please refresh the page to see current data"
	msgCycle         = "Cannot create circular reporting structure!"
)

// EmployeeSource описывает внешний источник истины о сотрудниках.
type EmployeeSource interface {
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	UpdateEmployeeManager(ctx context.Context, employeeID, managerID int64) (*models.Employee, error)
}

// Notifier принимает сигналы о ходе переназначения. Итог приходит с тем же ключом, что и pending.
type Notifier interface {
	Pending(key, message string)
	Success(key, message string)
	Failure(key, message string)
}

// ChartManager является единственным владельцем коллекции сотрудников. Смена руководителя применяется
// сразу, затем сохраняется во внешнем источнике; при сбое коллекция перезагружается целиком.
type ChartManager struct {
	source   EmployeeSource
	notifier Notifier
	newKey   func() string

	// writeMu упорядочивает изменения: применение, сохранение и перезагрузка одной попытки
	// не перемежаются с другими попытками и перезагрузками.
	writeMu sync.Mutex

	mu         sync.RWMutex
	employees  []models.Employee
	index      *hierarchy.Index
	team       string
	projection *hierarchy.Index
	loadErr    error
	last       *domain.ReassignResult
}

// NewChartManager создаёт менеджер с пустой коллекцией. До первого Load представление пустое.
func NewChartManager(source EmployeeSource, notifier Notifier) *ChartManager {
	cm := &ChartManager{
		source:   source,
		notifier: notifier,
		newKey:   uuid.NewString,
	}
	cm.replaceLocked(nil)
	return cm
}

// Load загружает всю коллекцию и заменяет текущее состояние.
func (cm *ChartManager) Load(ctx context.Context) error {
	cm.writeMu.Lock()
	defer cm.writeMu.Unlock()
	return cm.load(ctx)
}

// load выполняется под writeMu, поэтому снимок источника не может устареть до замены.
func (cm *ChartManager) load(ctx context.Context) error {
	employees, err := cm.source.ListEmployees(ctx)

	cm.mu.Lock()
	defer cm.mu.Unlock()

	if err != nil {
		loadTotal.WithLabelValues(resultError).Inc()
		cm.loadErr = domain.NewLoadError(err)
		slog.Error("Failed to load employees", "error", err)
		return cm.loadErr
	}

	loadTotal.WithLabelValues(resultOK).Inc()
	cm.loadErr = nil
	cm.replaceLocked(employees)
	slog.Info("Employees loaded", "count", len(employees))
	return nil
}

// SelectTeam задаёт активный фильтр по команде. Пустая строка снимает фильтр.
func (cm *ChartManager) SelectTeam(team string) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.loadErr != nil {
		return cm.loadErr
	}
	if team != "" && len(hierarchy.FilterByTeam(cm.employees, team)) == 0 {
		return domain.NewInvalidTeamError(team)
	}

	cm.team = team
	cm.projection = hierarchy.NewIndex(hierarchy.ProjectTeam(cm.employees, team))
	return nil
}

// View возвращает лес текущей проекции.
func (cm *ChartManager) View() (*models.ChartView, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.loadErr != nil {
		return nil, cm.loadErr
	}
	return &models.ChartView{
		Team:  cm.team,
		Size:  cm.projection.Len(),
		Roots: hierarchy.BuildForest(cm.projection, cm.team),
	}, nil
}

// Employees возвращает копию всей коллекции.
func (cm *ChartManager) Employees() []models.Employee {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return models.CloneEmployees(cm.employees)
}

// Teams возвращает отсортированный список команд.
func (cm *ChartManager) Teams() []string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return hierarchy.Teams(cm.employees)
}

// List возвращает список для боковой панели: сначала фильтр по команде, затем поиск.
func (cm *ChartManager) List(team, query string) []models.Employee {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return models.CloneEmployees(hierarchy.Search(hierarchy.FilterByTeam(cm.employees, team), query))
}

// Suggest подбирает сотрудников по нечёткому совпадению имени.
func (cm *ChartManager) Suggest(query string, limit int) []models.Employee {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return models.CloneEmployees(hierarchy.Suggest(cm.employees, query, limit))
}

// LastAttempt возвращает результат последней попытки переназначения.
func (cm *ChartManager) LastAttempt() (domain.ReassignResult, bool) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	if cm.last == nil {
		return domain.ReassignResult{}, false
	}
	return cloneResult(cm.last), true
}

// Reassign назначает сотруднику нового руководителя. Попытки выполняются по очереди:
// следующая начинается после подтверждения или отката предыдущей.
func (cm *ChartManager) Reassign(ctx context.Context, employeeID, newManagerID int64) (*domain.ReassignResult, error) {
	cm.writeMu.Lock()
	defer cm.writeMu.Unlock()

	cm.mu.Lock()
	if cm.loadErr != nil {
		err := cm.loadErr
		cm.mu.Unlock()
		return nil, err
	}

	err := hierarchy.ValidateMove(cm.index, employeeID, newManagerID)
	if errors.Is(err, domain.ErrSelfDrop) {
		result := &domain.ReassignResult{
			EmployeeID:   employeeID,
			NewManagerID: newManagerID,
			State:        domain.ReassignIdle,
		}
		if e, ok := cm.index.Get(employeeID); ok {
			result.PreviousManagerID = e.Clone().ManagerID
		}
		cm.mu.Unlock()
		reassignTotal.WithLabelValues(resultNoop).Inc()
		return result, nil
	}
	if err != nil {
		cm.mu.Unlock()
		reassignTotal.WithLabelValues(resultRejected).Inc()
		message := err.Error()
		if errors.Is(err, domain.ErrCycle) {
			message = msgCycle
		}
		cm.notifier.Failure(cm.newKey(), message)
		return nil, err
	}

	employee, _ := cm.index.Get(employeeID)
	manager, _ := cm.index.Get(newManagerID)
	result := &domain.ReassignResult{
		EmployeeID:        employeeID,
		PreviousManagerID: employee.Clone().ManagerID,
		NewManagerID:      newManagerID,
		State:             domain.ReassignApplying,
		NotificationKey:   cm.newKey(),
	}
	cm.applyLocked(employeeID, newManagerID)
	cm.recordLocked(result)
	cm.mu.Unlock()

	cm.notifier.Pending(result.NotificationKey, fmt.Sprintf(msgMoving, employee.Name))

	// Клиент мог уйти, но начатое сохранение нужно довести до итога.
	persistCtx := context.WithoutCancel(ctx)
	if _, err := cm.source.UpdateEmployeeManager(persistCtx, employeeID, newManagerID); err != nil {
		slog.Warn("Failed to persist reassignment, reloading",
			"employee_id", employeeID, "manager_id", newManagerID, "error", err)
		reassignTotal.WithLabelValues(resultRolledBack).Inc()

		result.State = domain.ReassignRolledBack
		cm.record(result)
		cm.notifier.Failure(result.NotificationKey, msgPersistFailed)

		persistErr := domain.NewPersistError(employeeID, err)
		if loadErr := cm.load(persistCtx); loadErr != nil {
			return result, errors.Join(persistErr, loadErr)
		}
		return result, persistErr
	}

	reassignTotal.WithLabelValues(resultConfirmed).Inc()
	result.State = domain.ReassignConfirmed
	cm.record(result)
	cm.notifier.Success(result.NotificationKey, fmt.Sprintf(msgReportsTo, employee.Name, manager.Name))
	slog.Info("Employee reassigned", "employee_id", employeeID, "manager_id", newManagerID)
	return result, nil
}

// applyLocked меняет руководителя в новой копии коллекции и перестраивает индексы.
func (cm *ChartManager) applyLocked(employeeID, newManagerID int64) {
	next := models.CloneEmployees(cm.employees)
	for i := range next {
		if next[i].ID == employeeID {
			next[i].ManagerID = models.ManagerRef(newManagerID)
			break
		}
	}
	cm.replaceLocked(next)
}

func (cm *ChartManager) replaceLocked(employees []models.Employee) {
	if employees == nil {
		employees = []models.Employee{}
	}
	cm.employees = employees
	cm.index = hierarchy.NewIndex(employees)
	if cm.team != "" && len(hierarchy.FilterByTeam(employees, cm.team)) == 0 {
		cm.team = ""
	}
	cm.projection = hierarchy.NewIndex(hierarchy.ProjectTeam(employees, cm.team))
	chartSize.Set(float64(len(employees)))
}

func (cm *ChartManager) record(result *domain.ReassignResult) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.recordLocked(result)
}

func (cm *ChartManager) recordLocked(result *domain.ReassignResult) {
	last := cloneResult(result)
	cm.last = &last
}

func cloneResult(r *domain.ReassignResult) domain.ReassignResult {
	out := *r
	if r.PreviousManagerID != nil {
		out.PreviousManagerID = models.ManagerRef(*r.PreviousManagerID)
	}
	return out
}
