// Package conversation turns inbound WhatsApp text into data operations and
// reply text. It is a small keyword state machine, not an NLU layer: every
// understood input is either a command, a "qty item" order line, or an FAQ
// lookup, in that order.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Rajath2005/whatsapp-food-agent/internal/core/domain/entity"
	"github.com/Rajath2005/whatsapp-food-agent/internal/core/ports"
)

// Engine handles one message at a time per customer. State between
// messages lives in the session store; the engine itself is stateless and
// safe for concurrent use.
type Engine struct {
	store    ports.DataStore
	sessions ports.SessionStore
	events   ports.OrderEvents
}

var _ ports.ConversationHandler = (*Engine)(nil)

// New wires the engine. events may be nil; order placement then simply
// skips publishing.
func New(store ports.DataStore, sessions ports.SessionStore, events ports.OrderEvents) *Engine {
	return &Engine{store: store, sessions: sessions, events: events}
}

// HandleMessage loads the customer's session, reacts to the text, and saves
// the session back. Data-layer failures never escape as errors; the
// customer gets an apology and the failure is already logged downstream.
func (e *Engine) HandleMessage(ctx context.Context, from, profileName, text string) ([]string, error) {
	session, err := e.sessions.Get(ctx, from)
	if err != nil {
		slog.WarnContext(ctx, "session load failed, starting fresh", "phone", from, "error", err)
	}
	if session == nil {
		session = entity.NewSession(from)
	}
	if session.CustomerName == "" && profileName != "" {
		session.CustomerName = profileName
	}

	replies := e.dispatch(ctx, session, strings.TrimSpace(text))

	session.UpdatedAt = time.Now().UTC()
	if err := e.sessions.Save(ctx, session); err != nil {
		slog.WarnContext(ctx, "session save failed", "phone", from, "error", err)
	}
	return replies, nil
}

func (e *Engine) dispatch(ctx context.Context, session *entity.Session, text string) []string {
	if text == "" {
		return []string{msgUnknown}
	}
	if session.State == entity.StateAwaitingName {
		return e.handleName(ctx, session, text)
	}

	switch normalize(text) {
	case "menu":
		return e.showMenu(ctx)
	case "cart":
		return []string{formatCart(session)}
	case "clear":
		session.ClearCart()
		return []string{msgCartCleared}
	case "checkout", "confirm":
		return e.checkout(ctx, session)
	case "orders", "status":
		return e.showOrders(ctx, session)
	case "cancel":
		return []string{msgNothingToCancel}
	case "help":
		return []string{msgHelp}
	}

	if isGreeting(text) {
		// Greet, then show the menu right away so the first exchange is
		// already actionable.
		return append([]string{greeting(session.CustomerName)}, e.showMenu(ctx)...)
	}
	return e.addToCart(ctx, session, text)
}

// handleName consumes the reply to "what name should the order be under?".
func (e *Engine) handleName(ctx context.Context, session *entity.Session, text string) []string {
	if normalize(text) == "cancel" {
		session.State = entity.StateIdle
		return []string{msgCheckoutCancelled}
	}
	session.CustomerName = strings.TrimSpace(text)
	session.State = entity.StateIdle
	return e.placeOrder(ctx, session)
}

func (e *Engine) checkout(ctx context.Context, session *entity.Session) []string {
	if len(session.Cart) == 0 {
		return []string{msgCartEmpty}
	}
	if session.CustomerName == "" {
		session.State = entity.StateAwaitingName
		return []string{msgAskName}
	}
	return e.placeOrder(ctx, session)
}

func (e *Engine) placeOrder(ctx context.Context, session *entity.Session) []string {
	items := make([]entity.OrderItem, 0, len(session.Cart))
	for _, line := range session.Cart {
		items = append(items, entity.OrderItem{ItemID: line.ItemID, Quantity: line.Quantity})
	}

	order, err := e.store.CreateOrder(ctx, entity.OrderDraft{
		CustomerPhone: session.Phone,
		CustomerName:  session.CustomerName,
		Items:         items,
		TotalAmount:   session.CartTotal(),
	})
	if err != nil {
		// Cart stays intact so the customer can retry with "checkout".
		return []string{msgBackendTrouble}
	}

	e.adjustStock(ctx, session.Cart)

	if e.events != nil {
		if err := e.events.OrderCreated(ctx, order); err != nil {
			slog.WarnContext(ctx, "order event not published", "order_id", order.ID, "error", err)
		}
	}

	session.ClearCart()
	return []string{fmt.Sprintf(
		"Order %s placed! Total: $%s. We'll message you when it's on its way. Type 'orders' to check on it.",
		order.ID, order.TotalAmount.StringFixed(2))}
}

// adjustStock decrements inventory after an order. Best-effort: backends
// without inventory writes skip it silently, and a failed decrement never
// unwinds the order.
func (e *Engine) adjustStock(ctx context.Context, lines []entity.CartLine) {
	inventory, err := e.store.GetInventory(ctx)
	if err != nil {
		slog.WarnContext(ctx, "stock adjustment skipped", "error", err)
		return
	}
	byID := make(map[int64]entity.InventoryItem, len(inventory))
	for _, item := range inventory {
		byID[item.ID] = item
	}

	for _, line := range lines {
		item, ok := byID[line.ItemID]
		if !ok {
			continue
		}
		next := item.Quantity - line.Quantity
		if next < 0 {
			next = 0
		}
		if _, err := e.store.UpdateInventoryQuantity(ctx, line.ItemID, next); err != nil {
			slog.WarnContext(ctx, "stock adjustment failed", "item_id", line.ItemID, "error", err)
		}
	}
}

func (e *Engine) showMenu(ctx context.Context) []string {
	items, err := e.store.GetInventory(ctx)
	if err != nil {
		return []string{msgBackendTrouble}
	}
	if len(items) == 0 {
		return []string{msgMenuEmpty}
	}
	return []string{formatMenu(items)}
}

func (e *Engine) showOrders(ctx context.Context, session *entity.Session) []string {
	orders, err := e.store.GetOrdersByPhone(ctx, session.Phone)
	if err != nil {
		return []string{msgBackendTrouble}
	}
	if len(orders) == 0 {
		return []string{msgNoOrders}
	}
	return []string{formatOrders(orders)}
}

// addToCart interprets free text as "qty item" and falls back to FAQ search
// when no menu item matches.
func (e *Engine) addToCart(ctx context.Context, session *entity.Session, text string) []string {
	qty, name := parseOrderRequest(text)

	item, err := e.store.GetItemByName(ctx, name)
	switch {
	case err == nil:
		if qty > item.Quantity {
			return []string{fmt.Sprintf("Sorry, only %d of %s left right now.", item.Quantity, item.Name)}
		}
		session.AddToCart(entity.CartLine{
			ItemID:    item.ID,
			Name:      item.Name,
			Quantity:  qty,
			UnitPrice: item.Price,
		})
		return []string{fmt.Sprintf("Added %d x %s. Cart total: $%s. Type 'checkout' when you're ready.",
			qty, item.Name, session.CartTotal().StringFixed(2))}
	case errors.Is(err, entity.ErrNotFound):
		return e.tryFAQ(ctx, text)
	default:
		return []string{msgBackendTrouble}
	}
}

func (e *Engine) tryFAQ(ctx context.Context, text string) []string {
	faq, err := e.store.SearchFAQ(ctx, text)
	if err != nil {
		return []string{msgUnknown}
	}
	return []string{faq.Answer}
}

// parseOrderRequest splits "2 pizza" into quantity and item name. Without a
// leading number the quantity is one.
func parseOrderRequest(text string) (int, string) {
	fields := strings.Fields(text)
	if len(fields) >= 2 {
		if n, err := strconv.Atoi(fields[0]); err == nil && n > 0 {
			return n, strings.Join(fields[1:], " ")
		}
	}
	return 1, strings.TrimSpace(text)
}

func normalize(text string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(text)), "!?. ")
}

var greetings = map[string]struct{}{
	"hi": {}, "hello": {}, "hola": {}, "hey": {}, "start": {}, "good morning": {}, "buenas": {},
}

func isGreeting(text string) bool {
	_, ok := greetings[normalize(text)]
	return ok
}
