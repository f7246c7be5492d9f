package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"uk.co.dudmesh.noticeboard/internal/model"
)

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemory())
}

func TestSqliteStore(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", model.CreateID())
	datastore, err := NewSqlite(dsn)
	if err != nil {
		t.Fatalf("opening sqlite store: %+v", err)
	}
	defer datastore.Close()

	testStore(t, datastore)
}

func newUser(username, email string) *model.User {
	return &model.User{
		ID:           model.UserID(model.CreateID()),
		CreatedAt:    time.Now().UTC(),
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
		Role:         model.RoleUser,
	}
}

func testStore(t *testing.T, datastore Store) {
	assert := assert.New(t)

	verificationToken := "verification-token"
	alice := newUser("alice", "alice@testdomain.com")
	alice.EmailVerificationToken = &verificationToken

	t.Run("create and fetch user", func(t *testing.T) {
		assert.Nil(datastore.CreateUser(alice))

		byID, err := datastore.UserByID(alice.ID)
		assert.Nil(err)
		assert.Equal(alice.Username, byID.Username)

		byEmail, err := datastore.UserByEmail("alice@testdomain.com")
		assert.Nil(err)
		assert.Equal(alice.ID, byEmail.ID)

		byUsername, err := datastore.UserByUsername("alice")
		assert.Nil(err)
		assert.Equal(alice.ID, byUsername.ID)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := datastore.UserByID(model.UserID("missing"))
		assert.Equal(model.ErrorUserNotFound, err)
		_, err = datastore.UserByEmail("nobody@testdomain.com")
		assert.Equal(model.ErrorUserNotFound, err)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		err := datastore.CreateUser(newUser("alice2", "alice@testdomain.com"))
		assert.Equal(model.ErrorDuplicateUser, err)
	})

	t.Run("duplicate username rejected", func(t *testing.T) {
		err := datastore.CreateUser(newUser("alice", "alice2@testdomain.com"))
		assert.Equal(model.ErrorDuplicateUser, err)
	})

	t.Run("verification token lookup", func(t *testing.T) {
		found, err := datastore.UserByVerificationToken(verificationToken)
		assert.Nil(err)
		assert.Equal(alice.ID, found.ID)

		found.IsEmailVerified = true
		found.EmailVerificationToken = nil
		assert.Nil(datastore.UpdateUser(found))

		// verified users never match, even with the original token
		_, err = datastore.UserByVerificationToken(verificationToken)
		assert.Equal(model.ErrorUserNotFound, err)
	})

	t.Run("reset token honours expiry", func(t *testing.T) {
		resetToken := "reset-token"
		expires := time.Now().UTC().Add(time.Hour)

		subject, err := datastore.UserByID(alice.ID)
		assert.Nil(err)
		subject.PasswordResetToken = &resetToken
		subject.PasswordResetExpires = &expires
		assert.Nil(datastore.UpdateUser(subject))

		found, err := datastore.UserByResetToken(resetToken, time.Now().UTC())
		assert.Nil(err)
		assert.Equal(alice.ID, found.ID)

		_, err = datastore.UserByResetToken(resetToken, expires.Add(time.Minute))
		assert.Equal(model.ErrorUserNotFound, err)
	})

	t.Run("update missing user", func(t *testing.T) {
		missing := newUser("ghost", "ghost@testdomain.com")
		assert.Equal(model.ErrorUserNotFound, datastore.UpdateUser(missing))
	})

	var first, second *model.Post

	t.Run("create and fetch post", func(t *testing.T) {
		first = &model.Post{
			ID:      model.PostID(model.CreateID()),
			Content: "hello",
			Author:  model.Author{UserID: alice.ID, Username: alice.Username},
		}
		assert.Nil(datastore.CreatePost(first))
		assert.False(first.CreatedAt.IsZero())

		fetched, err := datastore.PostByID(first.ID)
		assert.Nil(err)
		assert.Equal("hello", fetched.Content)
		assert.Equal(alice.ID, fetched.Author.UserID)
		assert.Equal(alice.Username, fetched.Author.Username)
	})

	t.Run("posts are newest first", func(t *testing.T) {
		time.Sleep(10 * time.Millisecond)
		second = &model.Post{
			ID:      model.PostID(model.CreateID()),
			Content: "second",
			Author:  model.Author{UserID: alice.ID, Username: alice.Username},
		}
		assert.Nil(datastore.CreatePost(second))

		posts, err := datastore.Posts()
		assert.Nil(err)
		assert.Len(posts, 2)
		assert.Equal(second.ID, posts[0].ID)
		assert.Equal(first.ID, posts[1].ID)
	})

	t.Run("update post", func(t *testing.T) {
		first.Content = "hi"
		assert.Nil(datastore.UpdatePost(first))

		fetched, err := datastore.PostByID(first.ID)
		assert.Nil(err)
		assert.Equal("hi", fetched.Content)
		assert.True(fetched.UpdatedAt.After(fetched.CreatedAt))
	})

	t.Run("delete post", func(t *testing.T) {
		assert.Nil(datastore.DeletePost(second.ID))
		_, err := datastore.PostByID(second.ID)
		assert.Equal(model.ErrorPostNotFound, err)

		assert.Equal(model.ErrorPostNotFound, datastore.DeletePost(second.ID))
	})

	t.Run("update missing post", func(t *testing.T) {
		missing := &model.Post{ID: model.PostID(model.CreateID()), Content: "x"}
		assert.Equal(model.ErrorPostNotFound, datastore.UpdatePost(missing))
	})
}
