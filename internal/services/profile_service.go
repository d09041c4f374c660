package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"kemstore/internal/domain"
	"kemstore/internal/repos"
	"kemstore/internal/validate"
)

type ProfileService struct {
	Users *repos.UserRepo
	Now   func() time.Time
}

func NewProfileService(users *repos.UserRepo) *ProfileService {
	return &ProfileService{Users: users, Now: time.Now}
}

// ContactUpdate replaces the contact fields of a profile.
type ContactUpdate struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	CompanyName string `json:"companyName"`
	Department  string `json:"department"`
	Position    string `json:"position"`
}

func (c ContactUpdate) problems() []string {
	var out []string
	if _, ok := validate.Name(c.Name); !ok {
		out = append(out, "お名前は1文字以上100文字以内で入力してください。")
	}
	if c.PhoneNumber != "" {
		if _, ok := validate.Phone(c.PhoneNumber); !ok {
			out = append(out, "有効な電話番号を入力してください。")
		}
	}
	if !validate.Length(c.CompanyName, 0, 100) {
		out = append(out, "会社名は100文字以内で入力してください。")
	}
	if !validate.Length(c.Department, 0, 50) {
		out = append(out, "部署名は50文字以内で入力してください。")
	}
	if !validate.Length(c.Position, 0, 50) {
		out = append(out, "役職は50文字以内で入力してください。")
	}
	return out
}

func addressProblems(a domain.SavedAddress) []string {
	var out []string
	if !validate.Length(strings.TrimSpace(a.Name), 1, 50) {
		out = append(out, "住所名は1文字以上50文字以内で入力してください。")
	}
	if _, ok := validate.PostalCode(a.PostalCode); !ok {
		out = append(out, "郵便番号は123-4567または1234567の形式で入力してください。")
	}
	if !validate.Length(strings.TrimSpace(a.Prefecture), 1, 10) {
		out = append(out, "都道府県を選択してください。")
	}
	if !validate.Length(strings.TrimSpace(a.City), 1, 50) {
		out = append(out, "市区町村を入力してください。")
	}
	if !validate.Length(strings.TrimSpace(a.AddressLine1), 1, 100) {
		out = append(out, "住所を入力してください。")
	}
	if !validate.Length(a.AddressLine2, 0, 100) {
		out = append(out, "建物名は100文字以内で入力してください。")
	}
	if a.PhoneNumber != "" {
		if _, ok := validate.Phone(a.PhoneNumber); !ok {
			out = append(out, "有効な電話番号を入力してください。")
		}
	}
	return out
}

func (s *ProfileService) update(ctx context.Context, sess *Session, fn func(*domain.UserProfile) error) (domain.UserProfile, error) {
	uid, err := sess.requireUser()
	if err != nil {
		return domain.UserProfile{}, err
	}
	p, err := s.Users.Update(ctx, uid, func(p *domain.UserProfile) error {
		if err := fn(p); err != nil {
			return err
		}
		p.UpdatedAt = s.Now()
		return nil
	})
	if errors.Is(err, repos.ErrUserNotFound) {
		sess.User = nil
		return domain.UserProfile{}, ErrNotAuthenticated
	}
	if err != nil {
		return domain.UserProfile{}, err
	}
	sess.User = &p
	return p, nil
}

func (s *ProfileService) UpdateContact(ctx context.Context, sess *Session, c ContactUpdate) (domain.UserProfile, error) {
	if problems := c.problems(); len(problems) > 0 {
		return domain.UserProfile{}, invalid(problems...)
	}
	return s.update(ctx, sess, func(p *domain.UserProfile) error {
		p.Name = strings.TrimSpace(c.Name)
		p.PhoneNumber = domain.FormatPhone(strings.TrimSpace(c.PhoneNumber))
		p.CompanyName = strings.TrimSpace(c.CompanyName)
		p.Department = strings.TrimSpace(c.Department)
		p.Position = strings.TrimSpace(c.Position)
		return nil
	})
}

// AddAddress stores a new address under a fresh id. The first address, or
// one flagged default, becomes the only default.
func (s *ProfileService) AddAddress(ctx context.Context, sess *Session, a domain.SavedAddress) (domain.SavedAddress, error) {
	if problems := addressProblems(a); len(problems) > 0 {
		return domain.SavedAddress{}, invalid(problems...)
	}
	a.ID = "addr-" + uuid.NewString()
	a.PostalCode = domain.FormatPostalCode(a.PostalCode)
	_, err := s.update(ctx, sess, func(p *domain.UserProfile) error {
		if len(p.SavedAddresses) == 0 {
			a.IsDefault = true
		}
		if a.IsDefault {
			for i := range p.SavedAddresses {
				p.SavedAddresses[i].IsDefault = false
			}
		}
		p.SavedAddresses = append(p.SavedAddresses, a)
		return nil
	})
	if err != nil {
		return domain.SavedAddress{}, err
	}
	return a, nil
}

// RemoveAddress deletes an address. Removing the default hands the flag to
// the first remaining address.
func (s *ProfileService) RemoveAddress(ctx context.Context, sess *Session, id string) (domain.UserProfile, error) {
	return s.update(ctx, sess, func(p *domain.UserProfile) error {
		i := indexAddress(p.SavedAddresses, id)
		if i < 0 {
			return ErrAddressNotFound
		}
		wasDefault := p.SavedAddresses[i].IsDefault
		rest := append(append([]domain.SavedAddress(nil), p.SavedAddresses[:i]...), p.SavedAddresses[i+1:]...)
		if wasDefault && len(rest) > 0 {
			rest[0].IsDefault = true
		}
		p.SavedAddresses = rest
		return nil
	})
}

func (s *ProfileService) SetDefaultAddress(ctx context.Context, sess *Session, id string) (domain.UserProfile, error) {
	return s.update(ctx, sess, func(p *domain.UserProfile) error {
		if indexAddress(p.SavedAddresses, id) < 0 {
			return ErrAddressNotFound
		}
		for i := range p.SavedAddresses {
			p.SavedAddresses[i].IsDefault = p.SavedAddresses[i].ID == id
		}
		return nil
	})
}

func indexAddress(as []domain.SavedAddress, id string) int {
	for i, a := range as {
		if a.ID == id {
			return i
		}
	}
	return -1
}
