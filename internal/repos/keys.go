package repos

import "kemstore/internal/kv"

const (
	KeyUsers       = kv.Prefix + "USERS"
	KeyCurrentUser = kv.Prefix + "CURRENT_USER_ID"
)

// CurrentUserKey is the current-user pointer of one session. An empty sid
// addresses the shared pointer.
func CurrentUserKey(sid string) string {
	if sid == "" {
		return KeyCurrentUser
	}
	return KeyCurrentUser + "_" + sid
}

func CartKey(userID string) string      { return kv.Prefix + "CART_" + userID }
func FavoritesKey(userID string) string { return kv.Prefix + "FAVORITES_" + userID }
func OrdersKey(userID string) string    { return kv.Prefix + "ORDERS_" + userID }
