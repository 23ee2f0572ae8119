package assistant

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"heavyhaul-assistant/internal/db"
	"heavyhaul-assistant/internal/models"
)

// UserStore verifies session logins.
type UserStore interface {
	UserByEmail(ctx context.Context, email string) (*models.UserInfo, error)
}

// Login prompts for a role and, for drivers and clients, a verified email.
// Admins get full order-book access without an account lookup.
func Login(ctx context.Context, store UserStore, in io.Reader, out io.Writer) (*models.UserInfo, error) {
	reader := bufio.NewReader(in)

	var role models.UserRole
	for {
		fmt.Fprint(out, "Please enter your role (Admin/Client/Driver): ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "admin":
			role = models.RoleAdmin
		case "client":
			role = models.RoleClient
		case "driver":
			role = models.RoleDriver
		default:
			fmt.Fprintln(out, "Invalid role. Please enter Admin, Client, or Driver.")
			continue
		}
		break
	}
	fmt.Fprintf(out, "\nRole set as: %s\n", strings.ToUpper(string(role)[:1])+string(role)[1:])

	if role == models.RoleAdmin {
		fmt.Fprintln(out, "\nAdmin mode: Access any order by mentioning its ID")
		fmt.Fprintln(out, "Example: 'Show me order 2892' or 'Tell me about #2892'")
		return &models.UserInfo{Email: "admin", Name: "admin", Role: models.RoleAdmin}, nil
	}

	for {
		fmt.Fprintf(out, "Please provide your email ID (%s): ", role)
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		email := strings.TrimSpace(line)
		if email == "" {
			continue
		}

		user, err := store.UserByEmail(ctx, email)
		if errors.Is(err, db.ErrUserNotFound) {
			fmt.Fprintln(out, "Email not found. Please provide a valid email ID.")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to verify email: %w", err)
		}
		if user.Role != role {
			fmt.Fprintf(out, "That email belongs to a %s account. Please provide a %s email.\n", user.Role, role)
			continue
		}

		fmt.Fprintf(out, "\nEmail verified for %s: %s\n", role, email)
		return user, nil
	}
}
