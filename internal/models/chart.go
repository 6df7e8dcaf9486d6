package models

// TreeNode описывает карточку сотрудника в дереве для отрисовки.
type TreeNode struct {
	Employee
	FallbackAvatar string      `json:"fallbackAvatar"`
	Highlighted    bool        `json:"highlighted"`
	Dimmed         bool        `json:"dimmed"`
	Children       []*TreeNode `json:"children"`
}

// ChartView описывает текущее представление оргструктуры.
type ChartView struct {
	Team  string      `json:"team"`
	Size  int         `json:"size"`
	Roots []*TreeNode `json:"roots"`
}

// PostChartMoveJSONBody описывает перетаскивание карточки на нового руководителя.
type PostChartMoveJSONBody struct {
	EmployeeID   int64 `json:"employeeId" validate:"required,gt=0"`
	NewManagerID int64 `json:"newManagerId" validate:"required,gt=0"`
}

// PostChartTeamJSONBody задаёт фильтр по команде; пустая строка снимает фильтр.
type PostChartTeamJSONBody struct {
	Team string `json:"team" validate:"max=200"`
}
