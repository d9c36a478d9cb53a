package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type ConversationState string

const (
	StateIdle         ConversationState = "idle"
	StateAwaitingName ConversationState = "awaiting_name"
)

// CartLine snapshots name and unit price at add time so the cart stays
// readable even if the menu changes mid-conversation.
type CartLine struct {
	ItemID    int64           `json:"item_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Session is the per-customer conversational state, keyed by phone number.
// It is serialized as JSON into the session store and expires on TTL.
type Session struct {
	Phone        string            `json:"phone"`
	CustomerName string            `json:"customer_name,omitempty"`
	State        ConversationState `json:"state"`
	Cart         []CartLine        `json:"cart,omitempty"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// NewSession returns a fresh idle session for the given phone number.
func NewSession(phone string) *Session {
	return &Session{
		Phone:     phone,
		State:     StateIdle,
		UpdatedAt: time.Now().UTC(),
	}
}

// CartTotal sums quantity times unit price across the cart.
func (s *Session) CartTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Cart {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// AddToCart merges the quantity into an existing line for the same item or
// appends a new line.
func (s *Session) AddToCart(line CartLine) {
	for i := range s.Cart {
		if s.Cart[i].ItemID == line.ItemID {
			s.Cart[i].Quantity += line.Quantity
			return
		}
	}
	s.Cart = append(s.Cart, line)
}

// ClearCart drops every line and returns the session to idle.
func (s *Session) ClearCart() {
	s.Cart = nil
	s.State = StateIdle
}
