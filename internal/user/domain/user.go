package domain

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserID = uuid.UUID

type User struct {
	ID        UserID
	Name      string
	Username  string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UserFilter struct {
	Username string
}

// Session records one issued token pair. Revoked sessions stay around as an
// audit trail.
type Session struct {
	UserID       UserID
	AccessToken  string
	RefreshToken string
	Active       bool
	CreatedAt    time.Time
	RevokedAt    time.Time
}

func UserIDFromString(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	return string(bytes), err
}

// CheckPassword reports whether the plaintext password matches the user's
// stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
