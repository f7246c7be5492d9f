package store

import (
	"fmt"
	"time"

	"uk.co.dudmesh.noticeboard/internal/boot"
	"uk.co.dudmesh.noticeboard/internal/model"
)

// Store is the persistence boundary for users and posts. Implementations
// must enforce username/email uniqueness themselves; callers never rely on
// a read-then-write check.
type Store interface {
	CreateUser(user *model.User) error
	UserByID(id model.UserID) (*model.User, error)
	UserByEmail(email string) (*model.User, error)
	UserByUsername(username string) (*model.User, error)
	UserByVerificationToken(token string) (*model.User, error)
	UserByResetToken(token string, now time.Time) (*model.User, error)
	UpdateUser(user *model.User) error

	CreatePost(post *model.Post) error
	PostByID(id model.PostID) (*model.Post, error)
	Posts() ([]model.Post, error)
	UpdatePost(post *model.Post) error
	DeletePost(id model.PostID) error

	Close() error
}

func Open(config *boot.Config) (Store, error) {
	switch config.Store.Driver {
	case "memory":
		return NewMemory(), nil
	case "sqlite":
		return NewSqlite(config.Store.DSN)
	default:
		return nil, fmt.Errorf("unknown store driver: %s", config.Store.Driver)
	}
}
