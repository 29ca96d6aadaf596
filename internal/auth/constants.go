package auth

const (
	ContextKeyAdminEmail = "admin_email"
	ContextKeyIsAdmin    = "is_admin"

	headerAuthorization = "Authorization"

	bearerScheme    = "bearer"
	authHeaderParts = 2

	msgMissingAuthorization    = "missing authorization token"
	msgInvalidOrExpiredToken   = "invalid or expired token"
	msgUnexpectedSigningMethod = "unexpected signing method: %v"
	msgTokenParseFailed        = "failed to parse token: %w"
	msgInvalidTokenClaims      = "invalid token claims"
)
