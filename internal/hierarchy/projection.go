package hierarchy

import "github.com/AlekseyZapadovnikov/org-chart/internal/models"

// ProjectTeam возвращает участников команды вместе со всеми их руководителями вверх по цепочке,
// чтобы подмножество оставалось связным лесом с теми же корнями. Пустое имя команды
// возвращает коллекцию без изменений.
func ProjectTeam(employees []models.Employee, team string) []models.Employee {
	if team == "" {
		return employees
	}

	idx := NewIndex(employees)
	included := make(map[int64]struct{})
	for _, e := range employees {
		if e.Team != team {
			continue
		}
		included[e.ID] = struct{}{}
	}

	for _, e := range employees {
		if e.Team != team {
			continue
		}
		managerID := e.ManagerID
		for managerID != nil {
			if _, done := included[*managerID]; done {
				break
			}
			manager, ok := idx.Get(*managerID)
			if !ok {
				break
			}
			included[manager.ID] = struct{}{}
			managerID = manager.ManagerID
		}
	}

	result := make([]models.Employee, 0, len(included))
	for _, e := range employees {
		if _, ok := included[e.ID]; ok {
			result = append(result, e)
		}
	}
	return result
}
