package service

import (
	"sync"
	"time"

	"github.com/AlekseyZapadovnikov/org-chart/internal/models"
)

const defaultNotificationLimit = 50

var _ Notifier = (*NotificationFeed)(nil)

// NotificationFeed хранит последние уведомления. Итог операции заменяет pending с тем же ключом.
type NotificationFeed struct {
	mu    sync.RWMutex
	items []models.Notification
	limit int
	now   func() time.Time
}

// NewNotificationFeed создаёт ленту, хранящую не больше limit записей.
func NewNotificationFeed(limit int) *NotificationFeed {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	return &NotificationFeed{
		items: make([]models.Notification, 0, limit),
		limit: limit,
		now:   time.Now,
	}
}

func (f *NotificationFeed) Pending(key, message string) {
	f.put(key, models.NotificationPending, message)
}

func (f *NotificationFeed) Success(key, message string) {
	f.put(key, models.NotificationSuccess, message)
}

func (f *NotificationFeed) Failure(key, message string) {
	f.put(key, models.NotificationFailure, message)
}

// List возвращает уведомления, начиная с самого нового.
func (f *NotificationFeed) List() []models.Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]models.Notification, 0, len(f.items))
	for i := len(f.items) - 1; i >= 0; i-- {
		out = append(out, f.items[i])
	}
	return out
}

// Get возвращает уведомление по ключу.
func (f *NotificationFeed) Get(key string) (models.Notification, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, n := range f.items {
		if n.Key == key {
			return n, true
		}
	}
	return models.Notification{}, false
}

func (f *NotificationFeed) put(key string, kind models.NotificationKind, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := models.Notification{Key: key, Kind: kind, Message: message, UpdatedAt: f.now()}
	for i := range f.items {
		if f.items[i].Key == key {
			f.items[i] = n
			return
		}
	}

	f.items = append(f.items, n)
	if over := len(f.items) - f.limit; over > 0 {
		f.items = append(f.items[:0], f.items[over:]...)
	}
}
