package hierarchy

import "github.com/AlekseyZapadovnikov/org-chart/internal/models"

// Index хранит коллекцию сотрудников и производные связи руководитель -> подчинённые.
// Записи не изменяются: при любой смене коллекции индекс строится заново.
type Index struct {
	employees []models.Employee
	byID      map[int64]int
	children  map[int64][]int64
	roots     []int64
	orphans   []int64
}

// NewIndex строит индекс по плоскому списку сотрудников.
func NewIndex(employees []models.Employee) *Index {
	idx := &Index{
		employees: employees,
		byID:      make(map[int64]int, len(employees)),
		children:  make(map[int64][]int64),
	}
	for i, e := range employees {
		idx.byID[e.ID] = i
	}

	for _, e := range employees {
		switch {
		case e.IsRoot():
			idx.roots = append(idx.roots, e.ID)
		case idx.has(*e.ManagerID):
			idx.children[*e.ManagerID] = append(idx.children[*e.ManagerID], e.ID)
		default:
			// Руководитель отсутствует в коллекции.
			idx.orphans = append(idx.orphans, e.ID)
		}
	}
	return idx
}

func (idx *Index) has(id int64) bool {
	_, ok := idx.byID[id]
	return ok
}

// Get возвращает сотрудника по идентификатору.
func (idx *Index) Get(id int64) (models.Employee, bool) {
	i, ok := idx.byID[id]
	if !ok {
		return models.Employee{}, false
	}
	return idx.employees[i], true
}

// Children возвращает прямых подчинённых в порядке исходной коллекции.
func (idx *Index) Children(id int64) []models.Employee {
	ids := idx.children[id]
	out := make([]models.Employee, 0, len(ids))
	for _, childID := range ids {
		out = append(out, idx.employees[idx.byID[childID]])
	}
	return out
}

// Roots возвращает сотрудников без руководителя.
func (idx *Index) Roots() []models.Employee {
	return idx.collect(idx.roots)
}

// Orphans возвращает сотрудников, чей руководитель отсутствует в коллекции.
func (idx *Index) Orphans() []models.Employee {
	return idx.collect(idx.orphans)
}

// Len возвращает размер коллекции.
func (idx *Index) Len() int {
	return len(idx.employees)
}

// Employees возвращает коллекцию в исходном порядке.
func (idx *Index) Employees() []models.Employee {
	return idx.employees
}

func (idx *Index) collect(ids []int64) []models.Employee {
	out := make([]models.Employee, 0, len(ids))
	for _, id := range ids {
		out = append(out, idx.employees[idx.byID[id]])
	}
	return out
}
