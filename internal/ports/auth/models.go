package auth

// Claims representa la identidad del owner extraída del token de sesión.
type Claims struct {
	UserID string
	Email  string
}
