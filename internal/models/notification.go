package models

import "time"

// NotificationKind задаёт тип уведомления.
type NotificationKind string

// Возможные значения NotificationKind.
const (
	NotificationPending NotificationKind = "pending"
	NotificationSuccess NotificationKind = "success"
	NotificationFailure NotificationKind = "failure"
)

// Notification описывает уведомление для пользователя. Pending заменяется итогом по тому же ключу.
type Notification struct {
	Key       string           `json:"key"`
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	UpdatedAt time.Time        `json:"updatedAt"`
}
