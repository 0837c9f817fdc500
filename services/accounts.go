package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/godocompany/roomboard/models"
	"gorm.io/gorm"
)

const (
	maxUsernameLength = 150
	minPasswordLength = 8
)

var validUsername = regexp.MustCompile(`^[\w.@+-]+$`)

// AccountsService manages registration and credential checks for site users
type AccountsService struct {
	DB *gorm.DB

	// BcryptCost overrides the bcrypt work factor. Zero means the library default.
	BcryptCost int
}

// NormalizeUsername returns the stored form of a username
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// GetUserByID gets the user with the provided id
func (s *AccountsService) GetUserByID(id uint64) (*models.User, error) {
	var user models.User
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("id = ?", id).
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername gets the user with the provided username, after normalizing it
func (s *AccountsService) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("username = ?", NormalizeUsername(username)).
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindByLogin finds a user with the provided login credentials. It returns nil
// when the user does not exist or the password is wrong.
func (s *AccountsService) FindByLogin(username, password string) (*models.User, error) {

	// Find the user with the username
	user, err := s.GetUserByUsername(username)
	if err != nil || user == nil {
		return nil, err
	}

	// Verify the password
	if !user.VerifyPassword(password) {
		return nil, nil
	}

	return user, nil

}

// Register creates a new user. The username is stored lowercase, and
// password2 must repeat password1.
func (s *AccountsService) Register(username, password1, password2 string) (*models.User, error) {

	username = NormalizeUsername(username)

	// Validate the form fields
	verr := &ValidationError{}
	switch {
	case len(username) == 0:
		verr.add("Username is required.")
	case len(username) > maxUsernameLength:
		verr.add(fmt.Sprintf("Username must be %d characters or fewer.", maxUsernameLength))
	case !validUsername.MatchString(username):
		verr.add("Username may contain only letters, numbers, and @/./+/-/_ characters.")
	}
	if len(password1) < minPasswordLength {
		verr.add(fmt.Sprintf("Password must contain at least %d characters.", minPasswordLength))
	}
	if password1 != password2 {
		verr.add("The two password fields didn't match.")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	// Check whether the username is taken
	existing, err := s.GetUserByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &ValidationError{Problems: []string{"A user with that username already exists."}}
	}

	// Create the user
	user := models.User{
		Username:    username,
		CreatedDate: time.Now(),
	}
	if err := user.SetPassword(password1, s.BcryptCost); err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	if err := s.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ValidationError{Problems: []string{"A user with that username already exists."}}
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &user, nil

}
