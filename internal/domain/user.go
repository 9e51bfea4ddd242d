package domain

import "time"

// User represents a customer account.
//
// The user document exclusively owns its embedded cart, wishlist, and order
// history; no other component writes them. Orders are append-only.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash,omitempty"` // Stored hashed, filter from API responses

	// Password reset state. Token is single-use and expires.
	ResetToken       string     `json:"reset_token,omitempty"`
	ResetTokenExpiry *time.Time `json:"reset_token_expiry,omitempty"`

	Cart     []CartItem `json:"cart"`
	Wishlist []string   `json:"wishlist"` // book IDs
	Orders   []Order    `json:"orders"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp to the current time.
func (u *User) Touch() {
	u.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
func (u *User) InitTimestamps() {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
}

// CartItem is one stored cart line: a catalog key and a quantity.
// Slug normally holds a book slug; stale clients may hand back an internal
// book ID, which reconciliation resolves.
type CartItem struct {
	Slug     string `json:"slug"`
	Quantity int    `json:"quantity"`
}

// PruneCart removes the cart lines whose slug appears in the given set,
// leaving all other lines untouched. Used post-checkout so only the ordered
// items leave the cart.
func (u *User) PruneCart(slugs map[string]bool) {
	kept := u.Cart[:0]
	for _, item := range u.Cart {
		if !slugs[item.Slug] {
			kept = append(kept, item)
		}
	}
	u.Cart = kept
}

// InWishlist reports whether the book ID is already wishlisted.
func (u *User) InWishlist(bookID string) bool {
	for _, id := range u.Wishlist {
		if id == bookID {
			return true
		}
	}
	return false
}

// AddToWishlist appends the book ID if not present. Returns true if added.
func (u *User) AddToWishlist(bookID string) bool {
	if u.InWishlist(bookID) {
		return false
	}
	u.Wishlist = append(u.Wishlist, bookID)
	return true
}

// RemoveFromWishlist removes the book ID. Returns true if it was present.
func (u *User) RemoveFromWishlist(bookID string) bool {
	for i, id := range u.Wishlist {
		if id == bookID {
			u.Wishlist = append(u.Wishlist[:i], u.Wishlist[i+1:]...)
			return true
		}
	}
	return false
}
