package database

import (
	"strings"

	"github.com/wpendl99/jwt-pizza-service/apperr"
	"github.com/wpendl99/jwt-pizza-service/models"
)

// TokenSignature extracts the third dot-delimited segment of a token.
// Anything without the three-segment shape yields "", which can never
// match a stored session.
func TokenSignature(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ""
	}
	return parts[2]
}

// LoginUser records the token's signature as an active session.
func (s *Store) LoginUser(userID uint, token string) error {
	sig := TokenSignature(token)
	if sig == "" {
		return apperr.Validation("malformed token")
	}
	session := models.AuthSession{Signature: sig, UserID: userID}
	if err := s.db.Create(&session).Error; err != nil {
		return apperr.Internal("failed to record session", err)
	}
	return nil
}

// LogoutUser removes the session for the token's signature. Removing a
// session that does not exist is not an error at this layer.
func (s *Store) LogoutUser(token string) error {
	sig := TokenSignature(token)
	if sig == "" {
		return nil
	}
	if err := s.db.Delete(&models.AuthSession{}, "signature = ?", sig).Error; err != nil {
		return apperr.Internal("failed to remove session", err)
	}
	return nil
}

// IsLoggedIn reports whether the token's signature has an active session.
func (s *Store) IsLoggedIn(token string) bool {
	sig := TokenSignature(token)
	if sig == "" {
		return false
	}
	var count int64
	s.db.Model(&models.AuthSession{}).Where("signature = ?", sig).Count(&count)
	return count > 0
}
