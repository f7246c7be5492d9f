package store

import (
	"sort"
	"sync"
	"time"

	"uk.co.dudmesh.noticeboard/internal/model"
)

// memoryStore is a mutex-guarded in-memory Store used for tests and local
// development. Uniqueness checks run under the write lock, so the
// check-then-insert race of a naive two-step lookup cannot occur here.
type memoryStore struct {
	mu    sync.RWMutex
	users map[model.UserID]*model.User
	posts map[model.PostID]*model.Post
}

func NewMemory() *memoryStore {
	return &memoryStore{
		users: make(map[model.UserID]*model.User),
		posts: make(map[model.PostID]*model.Post),
	}
}

func (m *memoryStore) Close() error {
	return nil
}

func (m *memoryStore) CreateUser(user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return model.ErrorDuplicateUser
		}
	}

	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memoryStore) UserByID(id model.UserID) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, model.ErrorUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *memoryStore) UserByEmail(email string) (*model.User, error) {
	return m.findUser(func(u *model.User) bool {
		return u.Email == email
	})
}

func (m *memoryStore) UserByUsername(username string) (*model.User, error) {
	return m.findUser(func(u *model.User) bool {
		return u.Username == username
	})
}

func (m *memoryStore) UserByVerificationToken(token string) (*model.User, error) {
	return m.findUser(func(u *model.User) bool {
		return !u.IsEmailVerified &&
			u.EmailVerificationToken != nil && *u.EmailVerificationToken == token
	})
}

func (m *memoryStore) UserByResetToken(token string, now time.Time) (*model.User, error) {
	return m.findUser(func(u *model.User) bool {
		return u.PasswordResetToken != nil && *u.PasswordResetToken == token &&
			u.PasswordResetExpires != nil && u.PasswordResetExpires.After(now)
	})
}

func (m *memoryStore) findUser(match func(*model.User) bool) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if match(user) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, model.ErrorUserNotFound
}

func (m *memoryStore) UpdateUser(user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; !ok {
		return model.ErrorUserNotFound
	}
	for id, existing := range m.users {
		if id == user.ID {
			continue
		}
		if existing.Email == user.Email || existing.Username == user.Username {
			return model.ErrorDuplicateUser
		}
	}

	now := time.Now().UTC()
	user.UpdatedAt = &now
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memoryStore) CreatePost(post *model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	clone := *post
	m.posts[post.ID] = &clone
	return nil
}

func (m *memoryStore) PostByID(id model.PostID) (*model.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	post, ok := m.posts[id]
	if !ok {
		return nil, model.ErrorPostNotFound
	}
	clone := *post
	return &clone, nil
}

func (m *memoryStore) Posts() ([]model.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	posts := make([]model.Post, 0, len(m.posts))
	for _, post := range m.posts {
		posts = append(posts, *post)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (m *memoryStore) UpdatePost(post *model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.posts[post.ID]
	if !ok {
		return model.ErrorPostNotFound
	}

	existing.Content = post.Content
	existing.UpdatedAt = time.Now().UTC()
	post.CreatedAt = existing.CreatedAt
	post.UpdatedAt = existing.UpdatedAt
	return nil
}

func (m *memoryStore) DeletePost(id model.PostID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[id]; !ok {
		return model.ErrorPostNotFound
	}
	delete(m.posts, id)
	return nil
}
