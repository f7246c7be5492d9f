package post

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/labstack/gommon/log"
	"uk.co.dudmesh.noticeboard/internal/mailer"
	"uk.co.dudmesh.noticeboard/internal/model"
	"uk.co.dudmesh.noticeboard/internal/token"
)

type Store interface {
	CreatePost(post *model.Post) error
	PostByID(id model.PostID) (*model.Post, error)
	Posts() ([]model.Post, error)
	UpdatePost(post *model.Post) error
	DeletePost(id model.PostID) error
}

type service struct {
	store  Store
	mailer mailer.Mailer
}

func New(store Store, m mailer.Mailer) *service {
	return &service{
		store:  store,
		mailer: m,
	}
}

func (s *service) Create(session *token.SessionClaims, content string) (*model.Post, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		ID:      model.PostID(model.CreateID()),
		Content: content,
		Author: model.Author{
			UserID:   session.UserID,
			Username: session.Username,
		},
	}
	if err := s.store.CreatePost(post); err != nil {
		return nil, err
	}

	// fire and forget, a mail failure never reaches the poster
	go func() {
		subject := "New post by " + post.Author.Username
		if err := s.mailer.SendAdminNotification(subject, post.Content); err != nil {
			log.Errorf("sending admin notification: %+v", err)
		}
	}()

	return post, nil
}

func (s *service) List() ([]model.Post, error) {
	return s.store.Posts()
}

func (s *service) Fetch(id string) (*model.Post, error) {
	if !model.IsValidID(id) {
		return nil, model.ErrorInvalidID
	}
	return s.store.PostByID(model.PostID(id))
}

func (s *service) Update(session *token.SessionClaims, id string, content string) (*model.Post, error) {
	post, err := s.Fetch(id)
	if err != nil {
		return nil, err
	}
	if !canMutate(session, post) {
		return nil, model.ErrorForbidden
	}

	content, err = validateContent(content)
	if err != nil {
		return nil, err
	}

	post.Content = content
	if err := s.store.UpdatePost(post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *service) Delete(session *token.SessionClaims, id string) error {
	post, err := s.Fetch(id)
	if err != nil {
		return err
	}
	if !canMutate(session, post) {
		return model.ErrorForbidden
	}
	return s.store.DeletePost(post.ID)
}

// canMutate is the access policy for mutating posts: the author or an
// admin, nobody else.
func canMutate(session *token.SessionClaims, post *model.Post) bool {
	if session.Role == model.RoleAdmin {
		return true
	}
	return session.UserID == post.Author.UserID
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("%w: content is required", model.ErrorValidation)
	}
	if utf8.RuneCountInString(content) > model.MaxPostContentLength {
		return "", fmt.Errorf("%w: content must be at most %d characters", model.ErrorValidation, model.MaxPostContentLength)
	}
	return content, nil
}
