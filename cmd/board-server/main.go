package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/nrednav/cuid2"
	"golang.org/x/crypto/bcrypt"
	"uk.co.dudmesh.noticeboard/internal/boot"
	"uk.co.dudmesh.noticeboard/internal/handlers"
	"uk.co.dudmesh.noticeboard/internal/mailer"
	"uk.co.dudmesh.noticeboard/internal/model"
	"uk.co.dudmesh.noticeboard/internal/service/post"
	"uk.co.dudmesh.noticeboard/internal/service/user"
	"uk.co.dudmesh.noticeboard/internal/store"
	"uk.co.dudmesh.noticeboard/internal/token"
)

func main() {
	config, err := boot.Load()
	if err != nil {
		log.Fatalf("boot: %+v", err)
	}

	datastore, err := store.Open(config)
	if err != nil {
		log.Fatalf("opening store: %+v", err)
	}
	defer datastore.Close()

	if config.IsDevelopment() && config.Store.Driver == "memory" {
		seedDevUsers(datastore)
	}

	notifier, err := mailer.New(config)
	if err != nil {
		log.Fatalf("creating mailer: %+v", err)
	}

	issuer := token.NewIssuer(config.Auth.SigningKey, config.Auth.SessionTTL)
	userService := user.New(config, datastore, issuer, notifier)
	postService := post.New(datastore, notifier)

	server := echo.New()
	server.Use(middleware.BodyLimit("1M"))
	server.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return cuid2.Generate()
		},
	}))
	server.Use(echoprometheus.NewMiddleware("noticeboard"))
	server.Use(middleware.Recover())

	server.Logger.SetLevel(log.INFO)

	headers := []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization}
	server.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(config.Server.Origins, ","),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: headers,
	}))

	server.POST("/auth/register", handlers.Register(userService))
	server.POST("/auth/login", handlers.Login(userService))
	server.GET("/auth/verify", handlers.VerifyEmail(userService))
	server.POST("/auth/forgot-password", handlers.ForgotPassword(userService))
	server.POST("/auth/reset-password", handlers.ResetPassword(userService))

	posts := server.Group("/posts", handlers.Authenticate(issuer))
	posts.GET("", handlers.ListPosts(postService))
	posts.POST("", handlers.CreatePost(postService))
	posts.GET("/:id", handlers.FetchPost(postService))
	posts.PUT("/:id", handlers.UpdatePost(postService))
	posts.DELETE("/:id", handlers.DeletePost(postService))

	go func() {
		metrics := echo.New()
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(":" + config.Server.MetricsPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	go func() {
		if err := server.Start(":" + config.Server.Port); err != nil && err != http.ErrServerClosed {
			server.Logger.Fatal("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		server.Logger.Fatal(err)
	}
}

// seedDevUsers mirrors the fixed accounts the memory store is expected to
// have in development.
func seedDevUsers(datastore store.Store) {
	seeds := []struct {
		username string
		email    string
		password string
		role     model.Role
	}{
		{"testuser", "test@example.com", "password123", model.RoleUser},
		{"admin", "admin@example.com", "admin123", model.RoleAdmin},
	}

	for _, seed := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), 10)
		if err != nil {
			log.Fatalf("hashing seed password: %+v", err)
		}
		err = datastore.CreateUser(&model.User{
			ID:              model.UserID(model.CreateID()),
			CreatedAt:       time.Now().UTC(),
			Username:        seed.username,
			Email:           seed.email,
			PasswordHash:    string(hash),
			Role:            seed.role,
			IsEmailVerified: true,
		})
		if err != nil {
			log.Errorf("seeding user %s: %+v", seed.username, err)
		}
	}
}
