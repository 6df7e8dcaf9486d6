package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/AlekseyZapadovnikov/org-chart/internal/domain"
	"github.com/AlekseyZapadovnikov/org-chart/internal/models"
)

const pgForeignKeyViolation = "23503"

// ListEmployees возвращает всю коллекцию сотрудников.
func (s *Storage) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	const q = `
	SELECT id, name, designation, team, manager_id, avatar
	FROM employees
	ORDER BY id
	`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query ListEmployees: %w", err)
	}
	defer rows.Close()

	result := make([]models.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ListEmployees: %w", err)
		}
		result = append(result, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error ListEmployees: %w", err)
	}
	return result, nil
}

// UpdateEmployeeManager назначает сотруднику нового руководителя и возвращает обновлённую запись.
func (s *Storage) UpdateEmployeeManager(ctx context.Context, employeeID, managerID int64) (*models.Employee, error) {
	const q = `
	UPDATE employees
	SET manager_id = $2
	WHERE id = $1
	RETURNING id, name, designation, team, manager_id, avatar
	`
	rows, err := s.pool.Query(ctx, q, employeeID, managerID)
	if err != nil {
		return nil, mapDatabaseError(fmt.Errorf("query UpdateEmployeeManager: %w", err))
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, mapDatabaseError(fmt.Errorf("update employee %d: %w", employeeID, err))
		}
		return nil, domain.NewNotFoundError(fmt.Sprintf("employee %d", employeeID))
	}

	e, err := scanEmployee(rows)
	if err != nil {
		return nil, fmt.Errorf("scan UpdateEmployeeManager: %w", err)
	}
	return &e, nil
}

// ReplaceEmployees заменяет всю коллекцию одной транзакцией.
func (s *Storage) ReplaceEmployees(ctx context.Context, employees []models.Employee) (err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = errors.Join(err, fmt.Errorf("rollback tx: %w", rollbackErr))
			}
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM employees`); err != nil {
		return fmt.Errorf("delete employees: %w", err)
	}

	const insertEmployee = `
	INSERT INTO employees (id, name, designation, team, manager_id, avatar)
	VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, e := range employees {
		if _, err := tx.Exec(ctx, insertEmployee, e.ID, e.Name, e.Designation, e.Team, e.ManagerID, e.Avatar); err != nil {
			return mapDatabaseError(fmt.Errorf("insert employee %d: %w", e.ID, err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return mapDatabaseError(fmt.Errorf("commit tx: %w", err))
	}
	committed = true
	return nil
}

// scanEmployee читает одну строку выборки сотрудников.
func scanEmployee(rows pgx.Rows) (models.Employee, error) {
	var (
		e         models.Employee
		managerID *int64 // может быть NULL
	)
	if err := rows.Scan(&e.ID, &e.Name, &e.Designation, &e.Team, &managerID, &e.Avatar); err != nil {
		return models.Employee{}, err
	}
	e.ManagerID = managerID
	return e, nil
}

// mapDatabaseError переводит ошибки ограничений PostgreSQL в доменные.
func mapDatabaseError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgForeignKeyViolation {
			return fmt.Errorf("%w (%s)", domain.NewNotFoundError("manager"), pgErr.ConstraintName)
		}
	}
	return err
}
