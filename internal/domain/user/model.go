package user

import (
	"encoding/json"
	"fmt"
	"time"
)

type Role string

const (
	RoleAdmin        Role = "Admin"
	RoleManager      Role = "Manager"
	RoleDeveloper    Role = "Developer"
	RoleDesigner     Role = "Designer"
	RoleQA           Role = "QA Engineer"
	RoleProductOwner Role = "Product Owner"
	RoleScrumMaster  Role = "Scrum Master"
	RoleViewer       Role = "Viewer"
)

var Roles = []Role{
	RoleAdmin, RoleManager, RoleDeveloper, RoleDesigner,
	RoleQA, RoleProductOwner, RoleScrumMaster, RoleViewer,
}

func (r Role) Valid() bool {
	for _, v := range Roles {
		if r == v {
			return true
		}
	}
	return false
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("role must be a string: %w", err)
	}
	if !Role(raw).Valid() {
		return fmt.Errorf("invalid role %q", raw)
	}
	*r = Role(raw)
	return nil
}

// User is a board member. ManagerID is a weak reference resolved by lookup.
type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Username   string    `json:"username" gorm:"size:50;not null;uniqueIndex"`
	Email      string    `json:"email" gorm:"size:100;not null;uniqueIndex"`
	FullName   string    `json:"full_name" gorm:"size:100"`
	Role       Role      `json:"role" gorm:"size:20;not null;default:'Developer'"`
	AvatarURL  *string   `json:"avatar_url"`
	JobTitle   *string   `json:"job_title"`
	Department *string   `json:"department"`
	Phone      *string   `json:"phone"`
	Location   *string   `json:"location"`
	Bio        *string   `json:"bio" gorm:"type:text"`
	ManagerID  *uint     `json:"manager_id" gorm:"index"`
	DateJoined time.Time `json:"date_joined"`
	IsActive   bool      `json:"is_active" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName prefers the full name and falls back to the username.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// Directory resolves user ids, including manager references, without
// embedding users in one another.
type Directory map[uint]User

func NewDirectory(users []User) Directory {
	d := make(Directory, len(users))
	for _, u := range users {
		d[u.ID] = u
	}
	return d
}

// Manager returns the manager of id, if both are known.
func (d Directory) Manager(id uint) (User, bool) {
	u, ok := d[id]
	if !ok || u.ManagerID == nil {
		return User{}, false
	}
	m, ok := d[*u.ManagerID]
	return m, ok
}
