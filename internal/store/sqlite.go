package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"uk.co.dudmesh.noticeboard/internal/model"
)

type sqliteStore struct {
	db *sqlx.DB
}

// NewSqlite opens (or creates) the database at dsn. The connection is
// reused for the process lifetime.
func NewSqlite(dsn string) (*sqliteStore, error) {
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	datastore := &sqliteStore{db}
	if err := datastore.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return datastore, nil
}

func newSqliteWithDB(db *sqlx.DB) *sqliteStore {
	return &sqliteStore{db}
}

func (d *sqliteStore) Close() error {
	return d.db.Close()
}

func (d *sqliteStore) createTables() error {
	_, err := d.db.Exec(`create table if not exists user(
		ID                     text not null primary key,
		CreatedAt              DATETIME not null,
		UpdatedAt              DATETIME null,
		Username               text not null unique,
		Email                  text not null unique,
		PasswordHash           text not null,
		Role                   text not null default 'user',
		IsEmailVerified        boolean not null default false,
		EmailVerificationToken text null,
		PasswordResetToken     text null,
		PasswordResetExpires   DATETIME null
	)`)
	if err != nil {
		return fmt.Errorf("creating user table: %w", err)
	}

	_, err = d.db.Exec(`create table if not exists post(
		ID         text not null primary key,
		CreatedAt  DATETIME not null,
		UpdatedAt  DATETIME not null,
		Content    text not null,
		AuthorID   text not null,
		AuthorName text not null
	)`)
	if err != nil {
		return fmt.Errorf("creating post table: %w", err)
	}

	return nil
}

func (d *sqliteStore) CreateUser(user *model.User) error {
	res, err := d.db.NamedExec(`insert into user
		(ID, CreatedAt, Username, Email, PasswordHash, Role, IsEmailVerified, EmailVerificationToken, PasswordResetToken, PasswordResetExpires)
		values(:ID, :CreatedAt, :Username, :Email, :PasswordHash, :Role, :IsEmailVerified, :EmailVerificationToken, :PasswordResetToken, :PasswordResetExpires)`, user)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrorDuplicateUser
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	if rows, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	} else if rows != 1 {
		return fmt.Errorf("expected 1 row to be affected, got %d", rows)
	}
	return nil
}

func (d *sqliteStore) UserByID(id model.UserID) (*model.User, error) {
	return d.userWhere(`ID = ?`, id)
}

func (d *sqliteStore) UserByEmail(email string) (*model.User, error) {
	return d.userWhere(`Email = ?`, email)
}

func (d *sqliteStore) UserByUsername(username string) (*model.User, error) {
	return d.userWhere(`Username = ?`, username)
}

func (d *sqliteStore) UserByVerificationToken(token string) (*model.User, error) {
	return d.userWhere(`EmailVerificationToken = ? and IsEmailVerified = false`, token)
}

func (d *sqliteStore) UserByResetToken(token string, now time.Time) (*model.User, error) {
	return d.userWhere(`PasswordResetToken = ? and PasswordResetExpires > ?`, token, now)
}

func (d *sqliteStore) userWhere(clause string, args ...interface{}) (*model.User, error) {
	user := &model.User{}
	err := d.db.Get(user, `select * from user where `+clause, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrorUserNotFound
		}
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return user, nil
}

func (d *sqliteStore) UpdateUser(user *model.User) error {
	now := time.Now().UTC()
	user.UpdatedAt = &now

	res, err := d.db.NamedExec(`update user set
		UpdatedAt = :UpdatedAt,
		Username = :Username,
		Email = :Email,
		PasswordHash = :PasswordHash,
		Role = :Role,
		IsEmailVerified = :IsEmailVerified,
		EmailVerificationToken = :EmailVerificationToken,
		PasswordResetToken = :PasswordResetToken,
		PasswordResetExpires = :PasswordResetExpires
		where ID = :ID`, user)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrorDuplicateUser
		}
		return fmt.Errorf("updating user: %w", err)
	}
	if rows, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	} else if rows != 1 {
		return model.ErrorUserNotFound
	}
	return nil
}

const postColumns = `ID, CreatedAt, UpdatedAt, Content,
	AuthorID as "author.userid", AuthorName as "author.username"`

func (d *sqliteStore) CreatePost(post *model.Post) error {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	_, err := d.db.Exec(`insert into post (ID, CreatedAt, UpdatedAt, Content, AuthorID, AuthorName) values (?, ?, ?, ?, ?, ?)`,
		post.ID, post.CreatedAt, post.UpdatedAt, post.Content, post.Author.UserID, post.Author.Username)
	if err != nil {
		return fmt.Errorf("inserting post: %w", err)
	}
	return nil
}

func (d *sqliteStore) PostByID(id model.PostID) (*model.Post, error) {
	post := &model.Post{}
	err := d.db.Get(post, `select `+postColumns+` from post where ID = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrorPostNotFound
		}
		return nil, fmt.Errorf("fetching post: %w", err)
	}
	return post, nil
}

func (d *sqliteStore) Posts() ([]model.Post, error) {
	posts := []model.Post{}
	err := d.db.Select(&posts, `select `+postColumns+` from post order by CreatedAt desc`)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

func (d *sqliteStore) UpdatePost(post *model.Post) error {
	post.UpdatedAt = time.Now().UTC()

	res, err := d.db.Exec(`update post set UpdatedAt = ?, Content = ? where ID = ?`,
		post.UpdatedAt, post.Content, post.ID)
	if err != nil {
		return fmt.Errorf("updating post: %w", err)
	}
	if rows, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	} else if rows != 1 {
		return model.ErrorPostNotFound
	}
	return nil
}

func (d *sqliteStore) DeletePost(id model.PostID) error {
	res, err := d.db.Exec(`delete from post where ID = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	if rows, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	} else if rows != 1 {
		return model.ErrorPostNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
