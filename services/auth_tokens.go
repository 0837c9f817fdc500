package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/godocompany/roomboard/models"
	"gorm.io/gorm"
)

// ErrInvalidToken is returned when a session token cannot be verified
var ErrInvalidToken = errors.New("invalid auth token")

// AuthTokensService issues and verifies the signed session tokens that
// identify a logged in user
type AuthTokensService struct {
	DB            *gorm.DB
	SigningPepper string
}

// CreateToken creates a signed token for the user, valid between the two dates
func (s *AuthTokensService) CreateToken(
	user *models.User,
	issuedAt time.Time,
	expiresAt time.Time,
) (string, error) {

	// Return an error if the user is nil
	if user == nil {
		return "", errors.New("cannot create a token without a user")
	}

	// Create the claims for the token
	claims := jwt.StandardClaims{
		Subject:   strconv.FormatUint(user.ID, 10),
		IssuedAt:  issuedAt.Unix(),
		NotBefore: issuedAt.Unix(),
		ExpiresAt: expiresAt.Unix(),
	}

	// Sign the token with the pepper
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.SigningPepper))

}

// GetUserForToken verifies the token and returns the user it was issued to.
// It returns ErrInvalidToken for bad signatures, expired tokens and tokens
// whose user no longer exists.
func (s *AuthTokensService) GetUserForToken(tokenStr string) (*models.User, error) {

	// Parse and verify the token
	var claims jwt.StandardClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.SigningPepper), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	// Get the user id from the subject
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// Find the user
	var user models.User
	err = s.DB.
		Where("deleted_date IS NULL").
		Where("id = ?", userID).
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return &user, nil

}
