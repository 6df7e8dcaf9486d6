package domain

import (
	"errors"
	"fmt"
)

// Сентинельные ошибки домена, используемые сервисами, репозиториями и веб-слоем.
var (
	ErrNotFound      = errors.New("NOT_FOUND")
	ErrCycle         = errors.New("CYCLE_DETECTED")
	ErrSelfDrop      = errors.New("SELF_DROP")
	ErrLoadFailed    = errors.New("LOAD_FAILED")
	ErrPersistFailed = errors.New("PERSIST_FAILED")
	ErrInvalidTeam   = errors.New("INVALID_TEAM")
)

// NewNotFoundError возвращает ошибку отсутствия переданного ресурса.
func NewNotFoundError(resource string) error {
	return fmt.Errorf("%w: %s not found", ErrNotFound, resource)
}

// NewCycleError сообщает, что новый руководитель находится в подчинении перемещаемого сотрудника.
func NewCycleError(employeeID, managerID int64) error {
	return fmt.Errorf("%w: employee %d cannot report to its subordinate %d", ErrCycle, employeeID, managerID)
}

// NewSelfDropError используется, когда сотрудника пытаются назначить руководителем самому себе.
func NewSelfDropError(employeeID int64) error {
	return fmt.Errorf("%w: employee %d dropped onto itself", ErrSelfDrop, employeeID)
}

// NewLoadError оборачивает сбой загрузки коллекции из источника.
func NewLoadError(cause error) error {
	return fmt.Errorf("%w: %w", ErrLoadFailed, cause)
}

// NewPersistError оборачивает сбой сохранения смены руководителя.
func NewPersistError(employeeID int64, cause error) error {
	return fmt.Errorf("%w: employee %d: %w", ErrPersistFailed, employeeID, cause)
}

// NewInvalidTeamError сообщает о фильтре по команде, которой нет в коллекции.
func NewInvalidTeamError(team string) error {
	return fmt.Errorf("%w: team %q has no employees", ErrInvalidTeam, team)
}
