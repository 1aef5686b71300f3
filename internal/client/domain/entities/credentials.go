package entities

// CredentialPair - пара токенов текущей сессии.
// Пара либо полная, либо отсутствует: неполная пара считается отсутствующей.
type CredentialPair struct {
	AccessToken  string
	RefreshToken string
}

// IsComplete сообщает, что оба токена заданы.
func (p *CredentialPair) IsComplete() bool {
	return p != nil && p.AccessToken != "" && p.RefreshToken != ""
}

// TokenResponse - ответ POST /token/ с необязательными полями пользователя.
type TokenResponse struct {
	Access    string `json:"access"`
	Refresh   string `json:"refresh"`
	ID        int64  `json:"id,omitempty"`
	Username  string `json:"username,omitempty"`
	Role      Role   `json:"role,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	College   string `json:"college,omitempty"`
}

// Pair возвращает пару токенов из ответа.
func (r *TokenResponse) Pair() *CredentialPair {
	return &CredentialPair{AccessToken: r.Access, RefreshToken: r.Refresh}
}

// User возвращает пользователя, если ответ содержит id и role.
func (r *TokenResponse) User() (*User, bool) {
	if r.ID == 0 || r.Role == "" {
		return nil, false
	}
	return &User{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Role:      r.Role,
		College:   r.College,
	}, true
}

// RefreshRequest - тело POST /token/refresh/.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse - ответ POST /token/refresh/. Refresh заполнен, только если сервер ротирует токен.
type RefreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}
