package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/linskybing/taskflow/internal/domain/event"
	"github.com/linskybing/taskflow/internal/domain/user"
	"github.com/linskybing/taskflow/internal/repository"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserConflict       = errors.New("username or email already exists")
	ErrInvalidManager     = errors.New("a user cannot be their own manager")
	ErrAvatarStoreMissing = errors.New("avatar storage is not configured")
)

// AvatarStore persists profile images and returns their public URL.
type AvatarStore interface {
	PutAvatar(ctx context.Context, userID uint, filename string, r io.Reader, size int64, contentType string) (string, error)
}

type UserService struct {
	Repos   *repository.Repos
	events  EventPublisher
	avatars AvatarStore
	now     func() time.Time
}

func NewUserService(repos *repository.Repos, events EventPublisher, avatars AvatarStore) *UserService {
	if events == nil {
		events = nopPublisher{}
	}
	return &UserService{
		Repos:   repos,
		events:  events,
		avatars: avatars,
		now:     time.Now,
	}
}

func (s *UserService) ListUsers(ctx context.Context) ([]user.User, error) {
	users, err := s.Repos.User.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*user.User, error) {
	u, err := s.Repos.User.GetUserByID(id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &u, nil
}

func (s *UserService) CreateUser(ctx context.Context, input user.CreateUserDTO) (*user.User, error) {
	u := &user.User{
		Username:   strings.TrimSpace(input.Username),
		Email:      strings.TrimSpace(input.Email),
		FullName:   strings.TrimSpace(input.FullName),
		Role:       input.Role,
		JobTitle:   input.JobTitle,
		Department: input.Department,
		Phone:      input.Phone,
		Location:   input.Location,
		Bio:        input.Bio,
		ManagerID:  input.ManagerID,
		DateJoined: s.now(),
		IsActive:   true,
	}
	if u.Role == "" {
		u.Role = user.RoleDeveloper
	}

	n, err := s.Repos.User.CountConflicts(u.Username, u.Email, 0)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrUserConflict
	}
	if err := s.checkManager(0, u.ManagerID); err != nil {
		return nil, err
	}

	if err := s.Repos.User.CreateUser(u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	publish(ctx, s.events, event.UserChanged, 0, 0)
	return u, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uint, input user.UpdateUserDTO) (*user.User, error) {
	u, err := s.Repos.User.GetUserByID(id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	if input.Email != nil && *input.Email != u.Email {
		n, err := s.Repos.User.CountConflicts(u.Username, *input.Email, u.ID)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, ErrUserConflict
		}
		u.Email = *input.Email
	}
	if input.FullName != nil {
		u.FullName = *input.FullName
	}
	if input.Role != nil {
		u.Role = *input.Role
	}
	if input.JobTitle != nil {
		u.JobTitle = input.JobTitle
	}
	if input.Department != nil {
		u.Department = input.Department
	}
	if input.Phone != nil {
		u.Phone = input.Phone
	}
	if input.Location != nil {
		u.Location = input.Location
	}
	if input.Bio != nil {
		u.Bio = input.Bio
	}
	if input.ManagerID != nil {
		if err := s.checkManager(u.ID, input.ManagerID); err != nil {
			return nil, err
		}
		u.ManagerID = input.ManagerID
	}
	if input.IsActive != nil {
		u.IsActive = *input.IsActive
	}

	if err := s.Repos.User.SaveUser(&u); err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}

	publish(ctx, s.events, event.UserChanged, 0, 0)
	return &u, nil
}

// UpdateAvatar uploads the image and stores its URL on the user.
func (s *UserService) UpdateAvatar(ctx context.Context, id uint, filename string, r io.Reader, size int64, contentType string) (*user.User, error) {
	if s.avatars == nil {
		return nil, ErrAvatarStoreMissing
	}
	u, err := s.Repos.User.GetUserByID(id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	url, err := s.avatars.PutAvatar(ctx, id, filename, r, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	u.AvatarURL = &url

	if err := s.Repos.User.SaveUser(&u); err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}

	publish(ctx, s.events, event.UserChanged, 0, 0)
	return &u, nil
}

// checkManager only rejects self-references and unknown ids; longer cycles
// are allowed since managers are resolved by lookup.
func (s *UserService) checkManager(self uint, managerID *uint) error {
	if managerID == nil {
		return nil
	}
	if self != 0 && *managerID == self {
		return ErrInvalidManager
	}
	if _, err := s.Repos.User.GetUserByID(*managerID); err != nil {
		return notFound(err, ErrUserNotFound)
	}
	return nil
}
