package domain

// ReassignState описывает состояние попытки смены руководителя.
type ReassignState string

// Возможные значения ReassignState.
const (
	ReassignIdle       ReassignState = "idle"
	ReassignApplying   ReassignState = "applying"
	ReassignConfirmed  ReassignState = "confirmed"
	ReassignRolledBack ReassignState = "rolled_back"
)

// ReassignResult описывает результат переназначения в доменной модели.
type ReassignResult struct {
	EmployeeID        int64         `json:"employeeId"`
	PreviousManagerID *int64        `json:"previousManagerId"`
	NewManagerID      int64         `json:"newManagerId"`
	State             ReassignState `json:"state"`
	NotificationKey   string        `json:"notificationKey,omitempty"`
}
