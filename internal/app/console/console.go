package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"pizza-store/internal/common/logger"
	"pizza-store/internal/domain"
	"pizza-store/internal/service"
)

// App is the interactive session driver: it owns the terminal, renders
// menus and hands every operation to the services with an explicit
// actor. No policy lives here.
type App struct {
	svc *service.Services
	lg  *logger.Logger
	in  *bufio.Scanner
	out io.Writer
}

func New(svc *service.Services, lg *logger.Logger, in io.Reader, out io.Writer) *App {
	return &App{svc: svc, lg: lg, in: bufio.NewScanner(in), out: out}
}

// Run drives the outer register/login loop until the operator exits or
// the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "*******************************************************")
	fmt.Fprintln(a.out, "               Pizza Store Ordering System")
	fmt.Fprintln(a.out, "*******************************************************")

	for ctx.Err() == nil {
		fmt.Fprintln(a.out, "\nMAIN MENU")
		fmt.Fprintln(a.out, "---------")
		fmt.Fprintln(a.out, "1. Create user")
		fmt.Fprintln(a.out, "2. Log in")
		fmt.Fprintln(a.out, "9. < EXIT")

		choice, ok := a.readChoice()
		if !ok {
			return nil // stdin closed
		}
		switch choice {
		case 1:
			a.register(ctx)
		case 2:
			actor, ok := a.login(ctx)
			if ok {
				a.session(ctx, actor)
			}
		case 9:
			return nil
		default:
			fmt.Fprintln(a.out, "Unrecognized choice!")
		}
	}
	return ctx.Err()
}

// session runs the per-login menu loop. Options are rendered for the
// actor's role; the services enforce the same gates regardless.
func (a *App) session(ctx context.Context, actor domain.Actor) {
	for ctx.Err() == nil {
		fmt.Fprintf(a.out, "\nMAIN MENU  (logged in as %s, %s)\n", actor.Login, actor.Role)
		fmt.Fprintln(a.out, "---------")
		fmt.Fprintln(a.out, "1. View Profile")
		fmt.Fprintln(a.out, "2. Update Profile")
		fmt.Fprintln(a.out, "3. View Menu")
		fmt.Fprintln(a.out, "4. Place Order")
		fmt.Fprintln(a.out, "5. View Full Order History")
		fmt.Fprintln(a.out, "6. View Past 5 Orders")
		fmt.Fprintln(a.out, "7. View Order Information")
		fmt.Fprintln(a.out, "8. View Stores")
		if actor.Role.CanManageOrders() {
			fmt.Fprintln(a.out, "9. Update Order Status")
		}
		if actor.Role == domain.RoleManager {
			fmt.Fprintln(a.out, "10. Update Menu")
			fmt.Fprintln(a.out, "11. Update User")
		}
		fmt.Fprintln(a.out, ".........................")
		fmt.Fprintln(a.out, "20. Log out")

		choice, ok := a.readChoice()
		if !ok {
			return
		}
		switch choice {
		case 1:
			a.viewProfile(ctx, actor)
		case 2:
			a.updateProfile(ctx, actor)
		case 3:
			a.viewMenu(ctx)
		case 4:
			a.placeOrder(ctx, actor)
		case 5:
			a.viewOrders(ctx, actor)
		case 6:
			a.viewRecentOrders(ctx, actor)
		case 7:
			a.viewOrderInfo(ctx, actor)
		case 8:
			a.viewStores(ctx)
		case 9:
			a.updateOrderStatus(ctx, actor)
		case 10:
			a.updateMenu(ctx, actor)
		case 11:
			a.updateUser(ctx, actor)
		case 20:
			fmt.Fprintln(a.out, "Logged out.")
			return
		default:
			fmt.Fprintln(a.out, "Unrecognized choice!")
		}
	}
}

// fail renders a service error in operator terms. Cancelled outcomes
// are informational, not errors.
func (a *App) fail(err error) {
	switch {
	case domain.IsCancelled(err):
		fmt.Fprintf(a.out, "%s\n", cancelledMessage(err))
	case errors.Is(err, domain.ErrPermissionDenied):
		fmt.Fprintln(a.out, "Permission denied.")
	case errors.Is(err, domain.ErrNotAuthenticated):
		fmt.Fprintln(a.out, "Error: you must be logged in for that.")
	case errors.Is(err, domain.ErrNotFound):
		fmt.Fprintf(a.out, "Error: %v\n", err)
	case errors.Is(err, domain.ErrInvalidArgument):
		fmt.Fprintf(a.out, "Error: %v\n", err)
	default:
		fmt.Fprintf(a.out, "Error: %v\n", err)
		a.lg.Error("operation_failed", err, nil)
	}
}

func cancelledMessage(err error) string {
	return "Order cancelled - " + strings.TrimPrefix(err.Error(), "cancelled: ")
}
