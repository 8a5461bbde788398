package console

import (
	"context"
	"fmt"
	"strings"

	"pizza-store/internal/domain"
	"pizza-store/internal/service"
)

func (a *App) register(ctx context.Context) {
	fmt.Fprintln(a.out, "\n=== USER REGISTRATION ===")
	login, ok := a.readLine("Enter your login: ")
	if !ok {
		return
	}
	password, ok := a.readLine("Enter your password: ")
	if !ok {
		return
	}
	phone, ok := a.readLine("Enter your phone number: ")
	if !ok {
		return
	}
	if err := a.svc.Users.Register(ctx, login, password, phone); err != nil {
		a.fail(err)
		return
	}
	fmt.Fprintf(a.out, "\nSuccess! User %q has been registered as a customer.\n", login)
	fmt.Fprintln(a.out, "You can now log in with your credentials.")
}

func (a *App) login(ctx context.Context) (domain.Actor, bool) {
	fmt.Fprintln(a.out, "\nLogin")
	fmt.Fprintln(a.out, "-----")
	login, ok := a.readLine("Enter username: ")
	if !ok {
		return domain.Actor{}, false
	}
	password, ok := a.readLine("Enter password: ")
	if !ok {
		return domain.Actor{}, false
	}
	actor, err := a.svc.Users.Login(ctx, login, password)
	if err != nil {
		a.fail(err)
		return domain.Actor{}, false
	}
	fmt.Fprintf(a.out, "Welcome, %s! (Role: %s)\n", actor.Login, actor.Role)
	return actor, true
}

func (a *App) viewProfile(ctx context.Context, actor domain.Actor) {
	u, err := a.svc.Users.Profile(ctx, actor)
	if err != nil {
		a.fail(err)
		return
	}
	fmt.Fprintln(a.out, "\nUser Profile")
	fmt.Fprintln(a.out, "------------")
	fmt.Fprintf(a.out, "Username: %s\n", u.Login)
	fmt.Fprintf(a.out, "Role: %s\n", u.Role)
	fav := "None"
	if u.FavoriteItem != nil && *u.FavoriteItem != "" {
		fav = *u.FavoriteItem
	}
	fmt.Fprintf(a.out, "Favorite Item: %s\n", fav)
	fmt.Fprintf(a.out, "Phone Number: %s\n", u.Phone)
}

func (a *App) updateProfile(ctx context.Context, actor domain.Actor) {
	fmt.Fprintln(a.out, "\nUpdate Profile")
	fmt.Fprintln(a.out, "1. Password  2. Favorite Item  3. Phone Number  4. Go back")
	choice, ok := a.readChoice()
	if !ok {
		return
	}
	switch choice {
	case 1:
		current, ok := a.readLine("Current password: ")
		if !ok {
			return
		}
		next, ok := a.readLine("New password (three characters or longer): ")
		if !ok {
			return
		}
		if err := a.svc.Users.UpdatePassword(ctx, actor, current, next); err != nil {
			a.fail(err)
			return
		}
		fmt.Fprintln(a.out, "Password updated successfully.")
	case 2:
		item, ok := a.readLine("Enter your favorite item: ")
		if !ok {
			return
		}
		if err := a.svc.Users.UpdateFavoriteItem(ctx, actor, item); err != nil {
			a.fail(err)
			return
		}
		fmt.Fprintln(a.out, "Favorite item updated successfully.")
	case 3:
		phone, ok := a.readLine("New phone number: ")
		if !ok {
			return
		}
		if err := a.svc.Users.UpdatePhone(ctx, actor, phone); err != nil {
			a.fail(err)
			return
		}
		fmt.Fprintln(a.out, "Phone number updated successfully.")
	case 4:
		return
	default:
		fmt.Fprintln(a.out, "Not a valid choice.")
	}
}

func (a *App) viewMenu(ctx context.Context) {
	fmt.Fprintln(a.out, "\nMenu Viewing Options")
	fmt.Fprintln(a.out, "--------------------")
	fmt.Fprintln(a.out, "1. View full menu")
	fmt.Fprintln(a.out, "2. Filter by item type")
	fmt.Fprintln(a.out, "3. Filter by price range")
	fmt.Fprintln(a.out, "4. Sort by price (low to high)")
	fmt.Fprintln(a.out, "5. Sort by price (high to low)")
	fmt.Fprintln(a.out, "6. Go back")

	choice, ok := a.readChoice()
	if !ok {
		return
	}
	var f domain.ItemFilter
	switch choice {
	case 1:
		// full menu, default ordering
	case 2:
		types, err := a.svc.Menu.ItemTypes(ctx)
		if err != nil {
			a.fail(err)
			return
		}
		fmt.Fprintln(a.out, "Available item types:")
		for _, t := range types {
			fmt.Fprintf(a.out, "  %s\n", t)
		}
		t, ok := a.readLine("Enter type to filter by: ")
		if !ok {
			return
		}
		f.Type = t
	case 3:
		min, ok := a.readDecimal("Enter minimum price: ")
		if !ok {
			return
		}
		max, ok := a.readDecimal("Enter maximum price: ")
		if !ok {
			return
		}
		f.MinPrice, f.MaxPrice = &min, &max
		f.Sort = domain.SortPriceAsc
	case 4:
		f.Sort = domain.SortPriceAsc
	case 5:
		f.Sort = domain.SortPriceDesc
	case 6:
		return
	default:
		fmt.Fprintln(a.out, "Not a valid choice!")
		return
	}

	items, err := a.svc.Menu.ListItems(ctx, f)
	if err != nil {
		a.fail(err)
		return
	}
	a.renderItems(items)
}

func (a *App) placeOrder(ctx context.Context, actor domain.Actor) {
	fmt.Fprintln(a.out, "\nPlace New Order")
	fmt.Fprintln(a.out, "---------------")
	a.viewStores(ctx)

	storeID, ok := a.readInt("Enter the store ID you want to order from: ")
	if !ok {
		return
	}

	items, err := a.svc.Menu.ListItems(ctx, domain.ItemFilter{})
	if err != nil {
		a.fail(err)
		return
	}
	fmt.Fprintln(a.out, "\nMenu:")
	a.renderItems(items)

	var lines []domain.CartLine
	for {
		name, ok := a.readLine("Enter item name (or type 'done' to finish): ")
		if !ok || name == "" || strings.EqualFold(name, "done") {
			break
		}
		qty, ok := a.readInt("Enter quantity: ")
		if !ok {
			continue
		}
		lines = append(lines, domain.CartLine{ItemName: name, Quantity: qty})
		if !a.confirm("Add another item?") {
			break
		}
	}

	receipt, err := a.svc.Orders.PlaceOrder(ctx, actor, service.PlaceOrderRequest{
		StoreID: storeID,
		Lines:   lines,
		ConfirmClosedStore: func(s domain.Store) bool {
			fmt.Fprintf(a.out, "WARNING: store %d (%s, %s) appears to be closed.\n", s.ID, s.Address, s.City)
			return a.confirm("Do you still want to place the order?")
		},
		ReportLineError: func(l domain.CartLine, lineErr error) {
			fmt.Fprintf(a.out, "Skipping %q: %v\n", l.ItemName, lineErr)
		},
	})
	if err != nil {
		a.fail(err)
		return
	}
	fmt.Fprintln(a.out, "\nOrder placed successfully!")
	fmt.Fprintf(a.out, "Order ID: %d\n", receipt.OrderID)
	fmt.Fprintf(a.out, "Total: $%s\n", receipt.Total.StringFixed(2))
	fmt.Fprintf(a.out, "Status: %s\n", receipt.Status)
}

func (a *App) viewOrders(ctx context.Context, actor domain.Actor) {
	all := false
	if actor.Role.CanManageOrders() {
		fmt.Fprintln(a.out, "1. View all orders in the system")
		fmt.Fprintln(a.out, "2. View only my orders")
		choice, ok := a.readChoice()
		if !ok {
			return
		}
		all = choice == 1
	}
	orders, err := a.svc.Orders.ListOrders(ctx, actor, all)
	if err != nil {
		a.fail(err)
		return
	}
	if all {
		fmt.Fprintln(a.out, "\n===== ALL ORDERS IN SYSTEM =====")
	} else {
		fmt.Fprintln(a.out, "\n===== YOUR ORDERS =====")
	}
	a.renderOrders(orders)
}

func (a *App) viewRecentOrders(ctx context.Context, actor domain.Actor) {
	orders, err := a.svc.Orders.RecentOrders(ctx, actor, 5)
	if err != nil {
		a.fail(err)
		return
	}
	fmt.Fprintln(a.out, "\n===== Your 5 most recent orders =====")
	a.renderOrders(orders)
}

func (a *App) viewOrderInfo(ctx context.Context, actor domain.Actor) {
	orderID, ok := a.readInt("Enter the Order ID to look up: ")
	if !ok {
		return
	}
	detail, err := a.svc.Orders.GetOrder(ctx, actor, orderID)
	if err != nil {
		a.fail(err)
		return
	}
	o := detail.Order
	fmt.Fprintln(a.out, "\n===== Order Details =====")
	fmt.Fprintf(a.out, "Order ID: %d\n", o.ID)
	fmt.Fprintf(a.out, "Timestamp: %s\n", o.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(a.out, "Total Price: $%s\n", o.Total.StringFixed(2))
	fmt.Fprintf(a.out, "Status: %s\n", o.Status)
	fmt.Fprintln(a.out, "\n===== Order Items =====")
	if len(detail.Lines) == 0 {
		fmt.Fprintln(a.out, "No items found for this order.")
		return
	}
	for _, l := range detail.Lines {
		fmt.Fprintf(a.out, "  %-30s x%d\n", l.ItemName, l.Quantity)
	}
}

func (a *App) viewStores(ctx context.Context) {
	stores, err := a.svc.Stores.ListStores(ctx)
	if err != nil {
		a.fail(err)
		return
	}
	fmt.Fprintln(a.out, "\n===== STORES =====")
	if len(stores) == 0 {
		fmt.Fprintln(a.out, "No stores found.")
		return
	}
	for _, s := range stores {
		open := "open"
		if !s.IsOpen {
			open = "closed"
		}
		fmt.Fprintf(a.out, "  #%d  %s, %s, %s  [%s]  score %.1f\n",
			s.ID, s.Address, s.City, s.State, open, s.ReviewScore)
	}
}

func (a *App) updateOrderStatus(ctx context.Context, actor domain.Actor) {
	orderID, ok := a.readInt("Enter order ID: ")
	if !ok {
		return
	}
	fmt.Fprintln(a.out, "Status options: 1-Placed, 2-Preparing, 3-Ready, 4-Delivering, 5-Delivered")
	choice, ok := a.readInt("New status (1-5): ")
	if !ok {
		return
	}
	statuses := []domain.OrderStatus{
		domain.StatusPlaced, domain.StatusPreparing, domain.StatusReady,
		domain.StatusDelivering, domain.StatusDelivered,
	}
	if choice < 1 || choice > len(statuses) {
		fmt.Fprintln(a.out, "Invalid status.")
		return
	}
	if err := a.svc.Orders.UpdateStatus(ctx, actor, orderID, statuses[choice-1]); err != nil {
		a.fail(err)
		return
	}
	fmt.Fprintln(a.out, "Status updated successfully.")
}

func (a *App) updateMenu(ctx context.Context, actor domain.Actor) {
	fmt.Fprintln(a.out, "\n1. Add item")
	fmt.Fprintln(a.out, "2. Update item price")
	fmt.Fprintln(a.out, "3. Delete item")
	choice, ok := a.readChoice()
	if !ok {
		return
	}
	switch choice {
	case 1:
		name, ok := a.readLine("Name: ")
		if !ok {
			return
		}
		typ, ok := a.readLine("Type: ")
		if !ok {
			return
		}
		ingredients, ok := a.readLine("Ingredients: ")
		if !ok {
			return
		}
		price, ok := a.readDecimal("Price: ")
		if !ok {
			return
		}
		desc, ok := a.readLine("Description: ")
		if !ok {
			return
		}
		if err := a.svc.Menu.AddItem(ctx, actor, domain.Item{
			Name: name, Type: typ, Price: price, Description: desc, Ingredients: ingredients,
		}); err != nil {
			a.fail(err)
			return
		}
		fmt.Fprintln(a.out, "Item added.")
	case 2:
		name, ok := a.readLine("Item to update: ")
		if !ok {
			return
		}
		price, ok := a.readDecimal("New price: ")
		if !ok {
			return
		}
		if err := a.svc.Menu.UpdatePrice(ctx, actor, name, price); err != nil {
			a.fail(err)
			return
		}
		fmt.Fprintln(a.out, "Price updated.")
	case 3:
		name, ok := a.readLine("Item to delete: ")
		if !ok {
			return
		}
		if !a.confirm("Confirm delete?") {
			return
		}
		if err := a.svc.Menu.DeleteItem(ctx, actor, name); err != nil {
			a.fail(err)
			return
		}
		fmt.Fprintln(a.out, "Item deleted.")
	default:
		fmt.Fprintln(a.out, "Not a valid choice.")
	}
}

func (a *App) updateUser(ctx context.Context, actor domain.Actor) {
	users, err := a.svc.Users.ListUsers(ctx, actor)
	if err != nil {
		a.fail(err)
		return
	}
	fmt.Fprintln(a.out, "\nUsers:")
	for _, u := range users {
		fmt.Fprintf(a.out, "  %-20s %s\n", u.Login, u.Role)
	}

	target, ok := a.readLine("Username to modify: ")
	if !ok {
		return
	}
	fmt.Fprintln(a.out, "1. Change role")
	fmt.Fprintln(a.out, "2. Reset password")
	choice, ok := a.readChoice()
	if !ok {
		return
	}
	switch choice {
	case 1:
		role, ok := a.readLine("New role (customer/driver/manager): ")
		if !ok {
			return
		}
		if err := a.svc.Users.SetRole(ctx, actor, target, domain.Role(role)); err != nil {
			a.fail(err)
			return
		}
		fmt.Fprintln(a.out, "Role updated.")
	case 2:
		pass, ok := a.readLine("New password: ")
		if !ok {
			return
		}
		if err := a.svc.Users.ResetPassword(ctx, actor, target, pass); err != nil {
			a.fail(err)
			return
		}
		fmt.Fprintln(a.out, "Password reset.")
	default:
		fmt.Fprintln(a.out, "Not a valid choice.")
	}
}

func (a *App) renderItems(items []domain.Item) {
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No items found.")
		return
	}
	for _, it := range items {
		fmt.Fprintf(a.out, "  %-30s %-12s $%-8s %s\n", it.Name, it.Type, it.Price.StringFixed(2), it.Description)
	}
}

func (a *App) renderOrders(orders []domain.OrderSummary) {
	if len(orders) == 0 {
		fmt.Fprintln(a.out, "No orders found.")
		return
	}
	for _, o := range orders {
		fmt.Fprintf(a.out, "  #%-6d %-15s store %-4d $%-9s %s  %s\n",
			o.OrderID, o.Login, o.StoreID, o.Total.StringFixed(2),
			o.Timestamp.Format("2006-01-02 15:04"), o.Status)
	}
	fmt.Fprintf(a.out, "\nTotal orders: %d\n", len(orders))
}
