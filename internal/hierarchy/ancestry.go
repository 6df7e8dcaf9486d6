package hierarchy

import "github.com/AlekseyZapadovnikov/org-chart/internal/domain"

// IsAncestor поднимается от nodeID по цепочке руководителей и сообщает, встретился ли candidateID.
// Отсутствующая запись в цепочке завершает обход без ошибки.
func IsAncestor(candidateID, nodeID int64, idx *Index) bool {
	visited := make(map[int64]struct{})
	current, ok := idx.Get(nodeID)
	for ok && current.ManagerID != nil {
		managerID := *current.ManagerID
		if managerID == candidateID {
			return true
		}
		if _, seen := visited[managerID]; seen {
			// Цикл во входных данных.
			return false
		}
		visited[managerID] = struct{}{}
		current, ok = idx.Get(managerID)
	}
	return false
}

// ValidateMove проверяет, можно ли назначить newManagerID руководителем employeeID.
func ValidateMove(idx *Index, employeeID, newManagerID int64) error {
	if employeeID == newManagerID {
		return domain.NewSelfDropError(employeeID)
	}
	if _, ok := idx.Get(employeeID); !ok {
		return domain.NewNotFoundError("employee")
	}
	if _, ok := idx.Get(newManagerID); !ok {
		return domain.NewNotFoundError("manager")
	}
	if IsAncestor(employeeID, newManagerID, idx) {
		return domain.NewCycleError(employeeID, newManagerID)
	}
	return nil
}
