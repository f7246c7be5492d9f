package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"uk.co.dudmesh.noticeboard/internal/model"
	"uk.co.dudmesh.noticeboard/internal/service/user"
)

type UserService interface {
	Register(params *model.CreateUserParams) (*user.RegisterResult, error)
	Login(params *model.LoginParams) (*model.User, string, error)
	VerifyEmail(token string) (*model.User, error)
	ForgotPassword(email string) error
	ResetPassword(token, password string) error
}

type authResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user,omitempty"`
	Token   string      `json:"token,omitempty"`
	Warning string      `json:"warning,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func Register(users UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := &model.CreateUserParams{}
		if err := c.Bind(params); err != nil {
			return respondError(c, fmt.Errorf("%w: malformed request body", model.ErrorValidation))
		}

		result, err := users.Register(params)
		if err != nil {
			return respondError(c, err)
		}

		response := authResponse{
			Message: "registration complete, check your email for a verification link",
			User:    result.User,
			Token:   result.SessionToken,
		}
		if result.EmailError != nil {
			// the account is persisted either way, only the email failed
			c.Logger().Errorf("verification email: %+v", result.EmailError)
			response.Warning = "the verification email could not be sent"
		}
		return c.JSON(http.StatusCreated, response)
	}
}

func Login(users UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := &model.LoginParams{}
		if err := c.Bind(params); err != nil {
			return respondError(c, fmt.Errorf("%w: malformed request body", model.ErrorValidation))
		}

		loggedIn, sessionToken, err := users.Login(params)
		if err != nil {
			return respondError(c, err)
		}

		return c.JSON(http.StatusOK, authResponse{
			Message: "login successful",
			User:    loggedIn,
			Token:   sessionToken,
		})
	}
}

func VerifyEmail(users UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		verified, err := users.VerifyEmail(c.QueryParam("token"))
		if err != nil {
			return respondError(c, err)
		}

		return c.JSON(http.StatusOK, authResponse{
			Message: "email address confirmed",
			User:    verified,
		})
	}
}

func ForgotPassword(users UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := &struct {
			Email string `json:"email"`
		}{}
		if err := c.Bind(params); err != nil {
			return respondError(c, fmt.Errorf("%w: malformed request body", model.ErrorValidation))
		}

		if err := users.ForgotPassword(params.Email); err != nil {
			return respondError(c, err)
		}

		// same response whether or not the email is registered
		return c.JSON(http.StatusOK, messageResponse{
			Message: "if the email address is registered, a password reset link has been sent",
		})
	}
}

func ResetPassword(users UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := &struct {
			Token    string `json:"token"`
			Password string `json:"password"`
		}{}
		if err := c.Bind(params); err != nil {
			return respondError(c, fmt.Errorf("%w: malformed request body", model.ErrorValidation))
		}

		if err := users.ResetPassword(params.Token, params.Password); err != nil {
			return respondError(c, err)
		}

		return c.JSON(http.StatusOK, messageResponse{Message: "password updated"})
	}
}
