package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"storefront/internal/models"
	"storefront/internal/store"
)

// AdminStore is what EnsureAdmin needs.
type AdminStore interface {
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUserRole(ctx context.Context, id uint, role models.Role) (models.User, error)
}

// EnsureAdmin promotes an existing user or creates a new admin. The
// password is required only when the user does not exist yet.
func EnsureAdmin(ctx context.Context, st AdminStore, email, name, password string) (models.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return models.User{}, false, errors.New("email is required")
	}
	u, err := st.FindUserByEmail(ctx, email)
	if err == nil {
		if u.IsAdmin() {
			return u, false, nil
		}
		u, err = st.UpdateUserRole(ctx, u.ID, models.RoleAdmin)
		return u, false, err
	}
	if !errors.Is(err, store.ErrNotFound) {
		return u, false, err
	}
	if len(password) < 6 {
		return u, false, errors.New("password of at least 6 characters is required for a new admin")
	}
	hash, err := models.HashPassword(password)
	if err != nil {
		return u, false, err
	}
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	u = models.User{Name: name, Email: email, PasswordHash: hash, Role: models.RoleAdmin}
	if err := st.CreateUser(ctx, &u); err != nil {
		return u, false, err
	}
	return u, true, nil
}

var (
	adminEmail    string
	adminName     string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a dashboard admin or promote an existing user",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer closeDB(st.DB())
		u, created, err := EnsureAdmin(cmd.Context(), st, adminEmail, adminName, adminPassword)
		if err != nil {
			return err
		}
		verb := "promoted"
		if created {
			verb = "created"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s admin %s (id %d)\n", verb, u.Email, u.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email")
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "Display name")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Password for a new admin")
	_ = createAdminCmd.MarkFlagRequired("email")
}
