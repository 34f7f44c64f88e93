package model

// Sessionはリクエスト単位の認証状態。未ログインはゼロ値。
type Session struct {
	UserID  string `json:"user_id,omitempty"`
	Email   string `json:"email,omitempty"`
	Role    Role   `json:"role,omitempty"`
	IsAdmin bool   `json:"is_admin"`
}

func (s Session) Authenticated() bool {
	return s.UserID != ""
}
