package auth

// Claims representa la identidad autenticada.
// El rol NO viene en el token: se elige después del login (ver session).
type Claims struct {
	UserID   string
	Email    string
	TenantID string
}
