package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"kemstore/internal/domain"
	"kemstore/internal/kv"
	"kemstore/internal/repos"
	"kemstore/internal/validate"
)

type AuthService struct {
	Users *repos.UserRepo
	Cost  int
	Now   func() time.Time
}

func NewAuthService(users *repos.UserRepo, cost int) *AuthService {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{Users: users, Cost: cost, Now: time.Now}
}

// Restore builds the session for sid. A pointer to a user that no longer
// exists leaves the session anonymous.
func (s *AuthService) Restore(ctx context.Context, sid string) *Session {
	sess := &Session{ID: sid}
	uid := s.Users.SessionUserID(ctx, sid)
	if uid == "" {
		return sess
	}
	if u, ok := s.Users.ByID(ctx, uid); ok {
		p := u.UserProfile
		sess.User = &p
	}
	return sess
}

func (s *AuthService) Login(ctx context.Context, sess *Session, email, password string) (domain.UserProfile, error) {
	if len(s.Users.List(ctx)) == 0 {
		return domain.UserProfile{}, ErrNoUsers
	}
	u, ok := s.Users.ByEmail(ctx, strings.TrimSpace(email))
	if !ok {
		return domain.UserProfile{}, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return domain.UserProfile{}, ErrBadCreds
	}
	if err := s.bind(ctx, sess, u.UserProfile); err != nil {
		return domain.UserProfile{}, err
	}
	return u.UserProfile, nil
}

// Register creates a user and logs the session in as that user.
func (s *AuthService) Register(ctx context.Context, sess *Session, email, password string) (domain.UserProfile, error) {
	var problems []string
	email, ok := validate.Email(email)
	if !ok {
		problems = append(problems, "有効なメールアドレスを入力してください。")
	}
	if !validate.Password(password) {
		problems = append(problems, "パスワードは8文字以上72文字以内で入力してください。")
	}
	if len(problems) > 0 {
		return domain.UserProfile{}, invalid(problems...)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.Cost)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("hash password: %w", err)
	}
	now := s.Now()
	name, _, _ := strings.Cut(email, "@")
	u, err := s.Users.Create(ctx, repos.StoredUser{
		UserProfile: domain.UserProfile{
			Name:      name,
			Email:     email,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PasswordHash: string(hash),
	})
	if err != nil {
		return domain.UserProfile{}, err
	}
	if err := s.bind(ctx, sess, u.UserProfile); err != nil {
		return domain.UserProfile{}, err
	}
	return u.UserProfile, nil
}

func (s *AuthService) Logout(ctx context.Context, sess *Session) error {
	sess.User = nil
	if !s.Users.UnbindSession(ctx, sess.ID) {
		return fmt.Errorf("logout: %w", kv.ErrNotPersisted)
	}
	return nil
}

// RecordView pushes productID onto the user's recently viewed list.
// Anonymous sessions are ignored.
func (s *AuthService) RecordView(ctx context.Context, sess *Session, productID string) error {
	if !sess.Authenticated() {
		return nil
	}
	p, err := s.Users.Update(ctx, sess.User.ID, func(p *domain.UserProfile) error {
		p.RecentlyViewedProducts = p.PushRecentlyViewed(productID)
		p.UpdatedAt = s.Now()
		return nil
	})
	if errors.Is(err, repos.ErrUserNotFound) {
		sess.User = nil
		return ErrNotAuthenticated
	}
	if err != nil {
		return err
	}
	sess.User = &p
	return nil
}

func (s *AuthService) bind(ctx context.Context, sess *Session, p domain.UserProfile) error {
	if !s.Users.BindSession(ctx, sess.ID, p.ID) {
		return fmt.Errorf("bind session: %w", kv.ErrNotPersisted)
	}
	sess.User = &p
	return nil
}
