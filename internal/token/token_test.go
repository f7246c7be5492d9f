package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"uk.co.dudmesh.noticeboard/internal/model"
)

func testUser() *model.User {
	return &model.User{
		ID:       model.UserID(model.CreateID()),
		Username: "testuser",
		Email:    "testuser@testdomain.com",
		Role:     model.RoleUser,
	}
}

func TestSessionTokens(t *testing.T) {
	assert := assert.New(t)

	issuer := NewIssuer("test-signing-key", time.Hour)
	user := testUser()

	t.Run("issue and verify roundtrip", func(t *testing.T) {
		signed, err := issuer.Issue(user)
		assert.Nil(err)
		assert.NotEmpty(signed)

		session, err := issuer.Verify(signed)
		assert.Nil(err)
		assert.Equal(user.ID, session.UserID)
		assert.Equal(user.Username, session.Username)
		assert.Equal(user.Email, session.Email)
		assert.Equal(user.Role, session.Role)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired := NewIssuer("test-signing-key", -time.Minute)
		signed, err := expired.Issue(user)
		assert.Nil(err)

		_, err = issuer.Verify(signed)
		assert.Equal(model.ErrorInvalidSession, err)
	})

	t.Run("rejects token signed with another key", func(t *testing.T) {
		other := NewIssuer("other-signing-key", time.Hour)
		signed, err := other.Issue(user)
		assert.Nil(err)

		_, err = issuer.Verify(signed)
		assert.Equal(model.ErrorInvalidSession, err)
	})

	t.Run("rejects tampered token", func(t *testing.T) {
		signed, err := issuer.Issue(user)
		assert.Nil(err)

		_, err = issuer.Verify(signed + "x")
		assert.Equal(model.ErrorInvalidSession, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := issuer.Verify("not-a-token")
		assert.Equal(model.ErrorInvalidSession, err)
	})
}

func TestOpaque(t *testing.T) {
	assert := assert.New(t)

	first, err := Opaque()
	assert.Nil(err)
	assert.Len(first, 64)

	second, err := Opaque()
	assert.Nil(err)
	assert.NotEqual(first, second)
}
