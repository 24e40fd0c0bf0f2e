package entity

// Principal - проверенная личность запроса, кладется в контекст middleware
type Principal struct {
	UserID string
	Email  string
	Role   string
	Token  string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// HasRole проверяет, что роль входит в список разрешенных
func (p Principal) HasRole(roles ...string) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
