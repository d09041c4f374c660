package repos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"kemstore/internal/domain"
	"kemstore/internal/kv"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
)

// StoredUser is the persisted user record: the profile plus its password hash.
type StoredUser struct {
	domain.UserProfile
	PasswordHash string `json:"passwordHash"`
}

type legacyUser struct {
	domain.UserProfile
	Password string `json:"password"`
}

type UserRepo struct {
	s     *kv.Storage
	codec kv.Codec[[]StoredUser]
}

// NewUserRepo stores users under KeyUsers. cost is the bcrypt cost used when
// legacy plaintext records are upgraded.
func NewUserRepo(s *kv.Storage, cost int) *UserRepo {
	return &UserRepo{s: s, codec: kv.Codec[[]StoredUser]{
		Version: 1,
		Upgrade: func(schema int, raw json.RawMessage) ([]StoredUser, error) {
			var legacy []legacyUser
			if err := json.Unmarshal(raw, &legacy); err != nil {
				return nil, err
			}
			out := make([]StoredUser, 0, len(legacy))
			for _, u := range legacy {
				hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), cost)
				if err != nil {
					return nil, fmt.Errorf("user %s: %w", u.ID, err)
				}
				out = append(out, StoredUser{UserProfile: u.UserProfile, PasswordHash: string(hash)})
			}
			return out, nil
		},
	}}
}

func noUsers() []StoredUser { return []StoredUser{} }

// Exists reports whether a user list has ever been written.
func (r *UserRepo) Exists(ctx context.Context) bool { return r.s.Exists(ctx, KeyUsers) }

func (r *UserRepo) List(ctx context.Context) []StoredUser {
	return r.codec.Load(ctx, r.s, KeyUsers, noUsers())
}

func (r *UserRepo) SaveAll(ctx context.Context, users []StoredUser) bool {
	return r.codec.Save(ctx, r.s, KeyUsers, users)
}

// Migrate rewrites the user list in the current schema.
func (r *UserRepo) Migrate(ctx context.Context) error {
	if !r.Exists(ctx) {
		return nil
	}
	_, err := r.codec.Mutate(ctx, r.s, KeyUsers, noUsers, func(us []StoredUser) ([]StoredUser, error) {
		return us, nil
	})
	return err
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (StoredUser, bool) {
	for _, u := range r.List(ctx) {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return StoredUser{}, false
}

func (r *UserRepo) ByID(ctx context.Context, id string) (StoredUser, bool) {
	for _, u := range r.List(ctx) {
		if u.ID == id {
			return u, true
		}
	}
	return StoredUser{}, false
}

// Create appends u with the next sequential user-NNN id. The duplicate
// email check and the write happen in one atomic update.
func (r *UserRepo) Create(ctx context.Context, u StoredUser) (StoredUser, error) {
	_, err := r.codec.Mutate(ctx, r.s, KeyUsers, noUsers, func(us []StoredUser) ([]StoredUser, error) {
		for _, x := range us {
			if strings.EqualFold(x.Email, u.Email) {
				return nil, ErrEmailTaken
			}
		}
		u.ID = nextUserID(us)
		return append(us, u), nil
	})
	if err != nil {
		return StoredUser{}, err
	}
	return u, nil
}

// Update applies fn to the profile of user id and persists the result.
func (r *UserRepo) Update(ctx context.Context, id string, fn func(*domain.UserProfile) error) (domain.UserProfile, error) {
	var out domain.UserProfile
	_, err := r.codec.Mutate(ctx, r.s, KeyUsers, noUsers, func(us []StoredUser) ([]StoredUser, error) {
		for i := range us {
			if us[i].ID != id {
				continue
			}
			next := append([]StoredUser(nil), us...)
			if err := fn(&next[i].UserProfile); err != nil {
				return nil, err
			}
			out = next[i].UserProfile
			return next, nil
		}
		return nil, ErrUserNotFound
	})
	return out, err
}

func nextUserID(us []StoredUser) string {
	n := len(us)
	for _, u := range us {
		if v, err := strconv.Atoi(strings.TrimPrefix(u.ID, "user-")); err == nil && v > n {
			n = v
		}
	}
	return fmt.Sprintf("user-%03d", n+1)
}

// BindSession points the session's current-user key at userID.
func (r *UserRepo) BindSession(ctx context.Context, sid, userID string) bool {
	return r.s.Set(ctx, CurrentUserKey(sid), userID)
}

func (r *UserRepo) SessionUserID(ctx context.Context, sid string) string {
	return kv.Get(ctx, r.s, CurrentUserKey(sid), "")
}

func (r *UserRepo) UnbindSession(ctx context.Context, sid string) bool {
	return r.s.Remove(ctx, CurrentUserKey(sid))
}
