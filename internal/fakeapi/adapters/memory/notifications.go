package memory

import (
	"cmp"
	"slices"

	"aitsclient/internal/client/domain/entities"
)

// ListNotifications возвращает уведомления пользователя, новые первыми.
func (r *Repository) ListNotifications(userID int64) []entities.Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entities.Notification, 0)
	for _, n := range r.notifications {
		if n.User == userID {
			out = append(out, *n)
		}
	}
	slices.SortFunc(out, func(a, b entities.Notification) int { return cmp.Compare(b.ID, a.ID) })
	return out
}

// MarkNotificationRead отмечает уведомление прочитанным. Чужие уведомления не видны.
func (r *Repository) MarkNotificationRead(userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok || n.User != userID {
		return ErrNotFound
	}
	n.IsRead = true
	return nil
}

// MarkAllNotificationsRead отмечает прочитанными все уведомления пользователя.
func (r *Repository) MarkAllNotificationsRead(userID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	marked := 0
	for _, n := range r.notifications {
		if n.User == userID && !n.IsRead {
			n.IsRead = true
			marked++
		}
	}
	return marked
}

func (r *Repository) unreadCount(userID int64) int {
	count := 0
	for _, n := range r.notifications {
		if n.User == userID && !n.IsRead {
			count++
		}
	}
	return count
}
