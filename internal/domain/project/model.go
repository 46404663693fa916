package project

import (
	"strings"
	"time"
	"unicode"
)

const (
	MaxKeyLen     = 10
	derivedKeyLen = 5
)

// Project groups tickets. Deleting a project removes its tickets.
type Project struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Key         string    `json:"key" gorm:"size:10;not null;uniqueIndex"`
	Description *string   `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Project) TableName() string {
	return "projects"
}

// DeriveKey uppercases name, strips whitespace and keeps the first five runes.
func DeriveKey(name string) string {
	var b strings.Builder
	n := 0
	for _, r := range strings.ToUpper(name) {
		if unicode.IsSpace(r) {
			continue
		}
		if n == derivedKeyLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

// ValidKey reports whether key is non-empty, uppercase, whitespace free and
// at most MaxKeyLen runes long.
func ValidKey(key string) bool {
	n := 0
	for _, r := range key {
		if unicode.IsSpace(r) || unicode.IsLower(r) {
			return false
		}
		n++
	}
	return n > 0 && n <= MaxKeyLen
}
