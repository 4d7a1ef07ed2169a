package auth

// Service verifies identity tokens for WebSocket hello messages and the REST
// surface. It implements core.IdentityVerifier.
type Service struct {
	jwtConfig *JWTConfig
}

// NewService creates a new token verification service.
func NewService(jwtConfig *JWTConfig) *Service {
	return &Service{jwtConfig: jwtConfig}
}

// Verify checks the token and returns the user it identifies.
func (s *Service) Verify(token string) (int64, error) {
	claims, err := s.ValidateToken(token)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// ValidateToken parses and validates a token, returning its claims.
func (s *Service) ValidateToken(token string) (*Claims, error) {
	return ValidateToken(s.jwtConfig, token)
}

// Mint issues a token for the user. Only the dev tooling uses this; in
// production tokens come from the platform's auth service.
func (s *Service) Mint(userID int64, name string) (string, error) {
	return GenerateToken(s.jwtConfig, userID, name)
}
