package models

import (
	"fmt"
	"net/url"
)

const placeholderAvatarURL = "https://ui-avatars.com/api/?name=%s&background=667eea&color=fff&size=48"

// Employee описывает сотрудника в формате внешнего API.
type Employee struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Designation string `json:"designation" yaml:"designation"`
	Team        string `json:"team" yaml:"team"`
	// ManagerID равен nil у корня иерархии.
	ManagerID *int64 `json:"managerId" yaml:"managerId"`
	Avatar    string `json:"avatar" yaml:"avatar"`
}

// IsRoot сообщает, что у сотрудника нет руководителя.
func (e Employee) IsRoot() bool {
	return e.ManagerID == nil
}

// ReportsTo проверяет, что сотрудник подчиняется указанному руководителю.
func (e Employee) ReportsTo(managerID int64) bool {
	return e.ManagerID != nil && *e.ManagerID == managerID
}

// Clone возвращает копию сотрудника с собственным указателем на руководителя.
func (e Employee) Clone() Employee {
	if e.ManagerID != nil {
		id := *e.ManagerID
		e.ManagerID = &id
	}
	return e
}

// CloneEmployees копирует коллекцию, чтобы читатели не делили память с владельцем.
func CloneEmployees(employees []Employee) []Employee {
	if employees == nil {
		return nil
	}
	out := make([]Employee, len(employees))
	for i, e := range employees {
		out[i] = e.Clone()
	}
	return out
}

// ManagerRef создаёт указатель на идентификатор руководителя.
func ManagerRef(id int64) *int64 {
	return &id
}

// PlaceholderAvatar формирует запасную ссылку на аватар, если основная не загрузилась.
func PlaceholderAvatar(name string) string {
	return fmt.Sprintf(placeholderAvatarURL, url.QueryEscape(name))
}

// EmployeesResponse описывает ответ загрузки коллекции.
type EmployeesResponse struct {
	Employees []Employee `json:"employees"`
}

// EmployeeResponse описывает ответ на смену руководителя.
type EmployeeResponse struct {
	Employee *Employee `json:"employee"`
}

// PatchEmployeeJSONBody описывает тело запроса смены руководителя во внешнем API.
type PatchEmployeeJSONBody struct {
	ManagerID *int64 `json:"managerId" validate:"required,gt=0"`
}
