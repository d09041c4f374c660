package domain

import "time"

// RecentlyViewedLimit caps UserProfile.RecentlyViewedProducts.
const RecentlyViewedLimit = 20

// UserProfile is what callers get to see of a user. The password hash lives
// only on the persisted record (repos.StoredUser).
type UserProfile struct {
	ID                     string         `json:"id"` // user-001
	Name                   string         `json:"name"`
	Email                  string         `json:"email"`
	PhoneNumber            string         `json:"phoneNumber,omitempty"`
	CompanyName            string         `json:"companyName,omitempty"`
	Department             string         `json:"department,omitempty"`
	Position               string         `json:"position,omitempty"`
	FavoriteCategories     []string       `json:"favoriteCategories,omitempty"`
	RecentlyViewedProducts []string       `json:"recentlyViewedProducts,omitempty"`
	SavedAddresses         []SavedAddress `json:"savedAddresses,omitempty"`
	CreatedAt              time.Time      `json:"createdAt"`
	UpdatedAt              time.Time      `json:"updatedAt"`
}

type SavedAddress struct {
	ID           string `json:"id"`   // addr-<uuid>
	Name         string `json:"name"` // label: 本社, 現場事務所 ...
	PostalCode   string `json:"postalCode"`
	Prefecture   string `json:"prefecture"`
	City         string `json:"city"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	IsDefault    bool   `json:"isDefault"`
}

// DefaultAddress returns the address flagged default, else the first one.
func (u UserProfile) DefaultAddress() (SavedAddress, bool) {
	for _, a := range u.SavedAddresses {
		if a.IsDefault {
			return a, true
		}
	}
	if len(u.SavedAddresses) > 0 {
		return u.SavedAddresses[0], true
	}
	return SavedAddress{}, false
}

func (u UserProfile) Address(id string) (SavedAddress, bool) {
	for _, a := range u.SavedAddresses {
		if a.ID == id {
			return a, true
		}
	}
	return SavedAddress{}, false
}

// PushRecentlyViewed moves productID to the front of the recently viewed
// list, dropping duplicates and anything past RecentlyViewedLimit.
func (u UserProfile) PushRecentlyViewed(productID string) []string {
	out := make([]string, 0, RecentlyViewedLimit)
	out = append(out, productID)
	for _, id := range u.RecentlyViewedProducts {
		if len(out) == RecentlyViewedLimit {
			break
		}
		if id != productID {
			out = append(out, id)
		}
	}
	return out
}
