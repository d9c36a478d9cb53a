package conversation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Rajath2005/whatsapp-food-agent/internal/core/domain/entity"
)

const (
	msgHelp = "Here's what I understand:\n" +
		"- 'menu' shows what we're serving\n" +
		"- '2 pizza' adds two pizzas to your cart\n" +
		"- 'cart' shows your cart, 'clear' empties it\n" +
		"- 'checkout' places the order\n" +
		"- 'orders' shows your recent orders\n" +
		"Anything else and I'll check our FAQ for you."

	msgUnknown = "Sorry, I didn't catch that. Type 'help' to see what I can do."

	msgBackendTrouble = "We're having trouble reaching our kitchen systems right now. " +
		"Please try again in a few minutes."

	msgCartCleared = "Cart cleared. Type 'menu' to start again."

	msgCartEmpty = "Your cart is empty. Add something first, for example '2 pizza'."

	msgAskName = "Almost done! What name should the order be under? (Type 'cancel' to go back.)"

	msgCheckoutCancelled = "No problem, checkout cancelled. Your cart is untouched."

	msgNothingToCancel = "Nothing to cancel right now."

	msgMenuEmpty = "The menu is empty right now. Please check back soon."

	// Also covers backends that cannot list past orders, so it must not
	// claim the customer has none.
	msgNoOrders = "I don't see any past orders to show here. If you just placed one, " +
		"don't worry, the kitchen has it. Type 'menu' to order."
)

func greeting(name string) string {
	if name != "" {
		return fmt.Sprintf("Hi %s! I can take your order right here. Here's today's menu; type 'help' anytime.", name)
	}
	return "Hi! I can take your order right here. Here's today's menu; type 'help' anytime."
}

func formatMenu(items []entity.InventoryItem) string {
	var b strings.Builder
	b.WriteString("Here's our menu today:\n")
	for i, item := range items {
		fmt.Fprintf(&b, "%d) %s  $%s\n", i+1, item.Name, item.Price.StringFixed(2))
	}
	b.WriteString("Reply like '2 pizza' to add something to your cart.")
	return b.String()
}

func formatCart(session *entity.Session) string {
	if len(session.Cart) == 0 {
		return msgCartEmpty
	}
	var b strings.Builder
	b.WriteString("Your cart:\n")
	for _, line := range session.Cart {
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		fmt.Fprintf(&b, "%d x %s  $%s\n", line.Quantity, line.Name, lineTotal.StringFixed(2))
	}
	fmt.Fprintf(&b, "Total: $%s. Type 'checkout' to place the order.", session.CartTotal().StringFixed(2))
	return b.String()
}

func formatOrders(orders []entity.Order) string {
	// Newest first, capped so the reply stays a readable chat message.
	const maxShown = 5

	var b strings.Builder
	b.WriteString("Your recent orders:\n")
	for i, order := range orders {
		if i == maxShown {
			break
		}
		fmt.Fprintf(&b, "%s  %s  $%s  (%s)\n",
			order.ID, order.Status, order.TotalAmount.StringFixed(2),
			order.CreatedAt.Format("Jan 2, 15:04"))
	}
	b.WriteString("Ask us here if anything looks off.")
	return b.String()
}
