package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"uk.co.dudmesh.noticeboard/internal/model"
	"uk.co.dudmesh.noticeboard/internal/token"
)

type PostService interface {
	Create(session *token.SessionClaims, content string) (*model.Post, error)
	List() ([]model.Post, error)
	Fetch(id string) (*model.Post, error)
	Update(session *token.SessionClaims, id string, content string) (*model.Post, error)
	Delete(session *token.SessionClaims, id string) error
}

func ListPosts(posts PostService) echo.HandlerFunc {
	return func(c echo.Context) error {
		all, err := posts.List()
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, all)
	}
}

func CreatePost(posts PostService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := &model.CreatePostParams{}
		if err := c.Bind(params); err != nil {
			return respondError(c, fmt.Errorf("%w: malformed request body", model.ErrorValidation))
		}

		created, err := posts.Create(SessionFrom(c), params.Content)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusCreated, created)
	}
}

func FetchPost(posts PostService) echo.HandlerFunc {
	return func(c echo.Context) error {
		post, err := posts.Fetch(c.Param("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, post)
	}
}

func UpdatePost(posts PostService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := &model.CreatePostParams{}
		if err := c.Bind(params); err != nil {
			return respondError(c, fmt.Errorf("%w: malformed request body", model.ErrorValidation))
		}

		updated, err := posts.Update(SessionFrom(c), c.Param("id"), params.Content)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, updated)
	}
}

func DeletePost(posts PostService) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := posts.Delete(SessionFrom(c), c.Param("id")); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, messageResponse{Message: "post deleted"})
	}
}
