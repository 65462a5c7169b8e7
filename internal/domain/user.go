package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	BloodType    BloodType `json:"blood_type" db:"blood_type"`
	IsAvailable  bool      `json:"is_available" db:"is_available"`
	MatchStatus  string    `json:"match_status" db:"match_status"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	Location     *string   `json:"location,omitempty" db:"location"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserRole is an explicit tagged option: a fresh signup carries RoleUnset
// until the user picks a side.
type UserRole string

const (
	RoleUnset     UserRole = ""
	RoleDonor     UserRole = "donor"
	RoleRequester UserRole = "requester"
	RoleAdmin     UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleDonor, RoleRequester, RoleAdmin:
		return true
	default:
		return false
	}
}

// Match-status labels shown on the donor profile. A donor only enters match
// detection while available with MatchStatusAvailable.
const (
	MatchStatusAvailable   = "Available"
	MatchStatusUnavailable = "Unavailable"
	MatchStatusMatched     = "Matched"
)

func (u *User) IsMatchableDonor() bool {
	return u.Role == RoleDonor && u.IsAvailable && u.MatchStatus == MatchStatusAvailable
}

type CreateUserInput struct {
	Username  string    `json:"username" validate:"required,min=3"`
	Email     string    `json:"email" validate:"required,email"`
	Password  string    `json:"password" validate:"required,min=6"`
	BloodType BloodType `json:"blood_type" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Phone     *string   `json:"phone,omitempty"`
	Location  *string   `json:"location,omitempty"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ChooseRoleInput struct {
	Role      UserRole   `json:"role" validate:"required,oneof=donor requester"`
	BloodType *BloodType `json:"blood_type,omitempty" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
}

type UpdateAvailabilityInput struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
