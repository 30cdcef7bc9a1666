package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the stored account document. Relations to other users are by id only.
type User struct {
	Id            primitive.ObjectID  `json:"_id,omitempty" bson:"_id,omitempty"`
	Name          string              `json:"name" bson:"name"`
	Email         string              `json:"email" bson:"email"`
	Password      string              `json:"-" bson:"password"`
	Role          Role                `json:"role" bson:"role"`
	Status        Status              `json:"status" bson:"status"`
	EmailVerified bool                `json:"emailVerified" bson:"emailVerified"`
	CompanyId     *primitive.ObjectID `json:"companyId,omitempty" bson:"companyId,omitempty"`
	Position      string              `json:"position,omitempty" bson:"position"`
	ApprovedBy    *primitive.ObjectID `json:"approvedBy,omitempty" bson:"approvedBy,omitempty"`
	CreatedAt     time.Time           `json:"createdAt" bson:"createdAt"`
}

// NewUser builds an account with the defaults of its role applied.
func NewUser(name, email, passwordHash string, role Role) User {
	return User{
		Name:          strings.TrimSpace(name),
		Email:         NormalizeEmail(email),
		Password:      passwordHash,
		Role:          role,
		Status:        role.DefaultStatus(),
		EmailVerified: role.DefaultEmailVerified(),
		CreatedAt:     time.Now().UTC(),
	}
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserView is the redacted representation returned to callers.
type UserView struct {
	Id            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Role          Role    `json:"role"`
	Status        Status  `json:"status"`
	EmailVerified bool    `json:"emailVerified"`
	CompanyId     *string `json:"companyId,omitempty"`
	Position      string  `json:"position,omitempty"`
	ApprovedBy    *string `json:"approvedBy,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

func (u *User) View() UserView {
	v := UserView{
		Id:            u.Id.Hex(),
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role,
		Status:        u.Status,
		EmailVerified: u.EmailVerified,
		Position:      u.Position,
		CreatedAt:     u.CreatedAt.Format(time.RFC3339),
	}
	if u.CompanyId != nil {
		s := u.CompanyId.Hex()
		v.CompanyId = &s
	}
	if u.ApprovedBy != nil {
		s := u.ApprovedBy.Hex()
		v.ApprovedBy = &s
	}
	return v
}

// Views redacts a list of users.
func Views(users []*User) []UserView {
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, u.View())
	}
	return out
}

// OwnerSummary is the identity attached to listed jobs.
type OwnerSummary struct {
	Id    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u *User) Summary() OwnerSummary {
	return OwnerSummary{Id: u.Id.Hex(), Name: u.Name, Email: u.Email, Role: u.Role}
}

// UserFilter selects users for listings. Zero fields do not constrain.
type UserFilter struct {
	Ids         []primitive.ObjectID
	Role        Role
	ExcludeRole Role
	Status      Status
	CompanyId   *primitive.ObjectID
}

// UserScope addresses a single user document and the conditions it must meet
// for a scoped update or delete to apply.
type UserScope struct {
	Id        primitive.ObjectID
	Role      Role
	CompanyId *primitive.ObjectID
	NotStatus Status
}

// UserUpdate lists the fields to set; nil fields are left untouched.
type UserUpdate struct {
	Name          *string
	Email         *string
	Password      *string
	Position      *string
	Status        *Status
	EmailVerified *bool
	ApprovedBy    *primitive.ObjectID
}

func (u UserUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Password == nil && u.Position == nil &&
		u.Status == nil && u.EmailVerified == nil && u.ApprovedBy == nil
}

// Apply copies the set fields onto a user.
func (u UserUpdate) Apply(user *User) {
	if u.Name != nil {
		user.Name = *u.Name
	}
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.Password != nil {
		user.Password = *u.Password
	}
	if u.Position != nil {
		user.Position = *u.Position
	}
	if u.Status != nil {
		user.Status = *u.Status
	}
	if u.EmailVerified != nil {
		user.EmailVerified = *u.EmailVerified
	}
	if u.ApprovedBy != nil {
		id := *u.ApprovedBy
		user.ApprovedBy = &id
	}
}
