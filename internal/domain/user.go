package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// User validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 12 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered user of the application.
// It contains essential user information and authentication details.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext password, used temporarily during registration/updates
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given email and password.
// It generates a new UUID for the user ID and sets the creation/update timestamps.
// Returns an error if validation fails.
//
// NOTE: This function only sets up the user structure with the plaintext password.
// The caller is responsible for hashing the password before storing the user.
func NewUser(email, password string) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		Email:     email,
		Password:  password, // Plaintext password - must be hashed before storage
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Password != "" {
		// When a plaintext password is provided, validate its length.
		if !validatePasswordLength(u.Password) {
			if len(u.Password) < 12 {
				return ErrPasswordTooShort
			}
			return ErrPasswordTooLong
		}
	} else {
		// Without a plaintext password the user must carry a hash
		// (the case for users loaded from the database).
		if u.HashedPassword == "" {
			return ErrEmptyPassword
		}
	}

	return nil
}

// TODO: Replace this basic email validation with a more robust library
// that follows RFC 5322 and handles edge cases properly.
//
// validateEmailFormat performs basic validation of email format.
// Returns true if the email appears to be in a valid format.
func validateEmailFormat(email string) bool {
	atIndex := -1
	for i, char := range email {
		if char == '@' {
			atIndex = i
			break
		}
	}

	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	// The domain part needs at least "a.b" with an interior dot.
	domainPart := email[atIndex+1:]
	if len(domainPart) < 3 {
		return false
	}

	dotIndex := -1
	for i, char := range domainPart {
		if char == '.' {
			dotIndex = i
			break
		}
	}

	return dotIndex > 0 && dotIndex < len(domainPart)-1
}

// validatePasswordLength checks if a password is between 12 and 72
// characters. 72 is bcrypt's practical limit; length matters more for
// security than character-class rules.
func validatePasswordLength(password string) bool {
	passLen := len(password)
	return passLen >= 12 && passLen <= 72
}
