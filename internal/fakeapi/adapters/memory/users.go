package memory

import (
	"cmp"
	"slices"

	"aitsclient/internal/client/domain/entities"
)

// CreateUser добавляет пользователя с уже захэшированным паролем.
func (r *Repository) CreateUser(reg *entities.Registration, passwordHash string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[reg.Username]; exists {
		return nil, ErrUsernameTaken
	}

	r.nextUserID++
	rec := &userRecord{
		user: entities.User{
			ID:            r.nextUserID,
			Username:      reg.Username,
			Email:         reg.Email,
			FirstName:     reg.FirstName,
			LastName:      reg.LastName,
			Role:          reg.Role,
			PhoneNumber:   reg.PhoneNumber,
			StudentNumber: reg.StudentNumber,
			College:       reg.College,
		},
		passwordHash: passwordHash,
	}
	r.users[rec.user.ID] = rec
	r.byUsername[reg.Username] = rec.user.ID

	user := rec.user
	return &user, nil
}

// UserByUsername возвращает пользователя и хэш его пароля.
func (r *Repository) UserByUsername(username string) (*entities.User, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, "", ErrUserNotFound
	}
	rec := r.users[id]
	user := rec.user
	return &user, rec.passwordHash, nil
}

// UserByID возвращает пользователя по идентификатору.
func (r *Repository) UserByID(id int64) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	user := rec.user
	return &user, nil
}

// UpdateUser применяет частичное обновление профиля.
func (r *Repository) UpdateUser(id int64, patch *entities.ProfileUpdate) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&rec.user.Email, patch.Email)
	apply(&rec.user.FirstName, patch.FirstName)
	apply(&rec.user.LastName, patch.LastName)
	apply(&rec.user.PhoneNumber, patch.PhoneNumber)
	apply(&rec.user.StudentNumber, patch.StudentNumber)
	apply(&rec.user.College, patch.College)

	user := rec.user
	return &user, nil
}

// ListUsers возвращает пользователей, при непустой role - только с этой ролью.
func (r *Repository) ListUsers(role entities.Role) []entities.UserSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entities.UserSummary, 0, len(r.users))
	for _, rec := range r.users {
		if role != "" && rec.user.Role != role {
			continue
		}
		out = append(out, entities.UserSummary{
			ID:       rec.user.ID,
			Username: rec.user.Username,
			Email:    rec.user.Email,
			FullName: rec.user.FullName(),
			Role:     rec.user.Role,
			College:  rec.user.College,
		})
	}
	slices.SortFunc(out, func(a, b entities.UserSummary) int { return cmp.Compare(a.ID, b.ID) })
	return out
}
