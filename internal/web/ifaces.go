package web

import (
	"context"

	"github.com/AlekseyZapadovnikov/org-chart/internal/domain"
	"github.com/AlekseyZapadovnikov/org-chart/internal/models"
)

// EmployeeStore описывает внешний API сотрудников, который отдаёт HTTP-слой.
type EmployeeStore interface {
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	UpdateEmployeeManager(ctx context.Context, employeeID, managerID int64) (*models.Employee, error)
}

// ChartService описывает операции над оргструктурой, которые нужны HTTP-слою.
type ChartService interface {
	Load(ctx context.Context) error
	SelectTeam(team string) error
	View() (*models.ChartView, error)
	Teams() []string
	List(team, query string) []models.Employee
	Suggest(query string, limit int) []models.Employee
	Reassign(ctx context.Context, employeeID, newManagerID int64) (*domain.ReassignResult, error)
	LastAttempt() (domain.ReassignResult, bool)
}

// NotificationLister отдаёт ленту уведомлений.
type NotificationLister interface {
	List() []models.Notification
}
