// seed prepara una base de datos nueva: crea el primer administrador o
// promueve a un usuario existente.
//
// Uso:
//
//	go run ./cmd/seed create-admin --email admin@example.com --phone +447700900000 --password ...
//	go run ./cmd/seed promote --email nurse@example.com
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
	"github.com/whizkidefos/employee-management-api/internal/infrastructure/persistence"
	"github.com/whizkidefos/employee-management-api/pkg/config"
	"github.com/whizkidefos/employee-management-api/pkg/logger"
	"github.com/whizkidefos/employee-management-api/pkg/textnorm"
)

type adminFlags struct {
	email     string
	phone     string
	username  string
	password  string
	firstName string
	lastName  string
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "seed",
		Short:        "Inicialización de datos",
		Long:         `Crea el administrador inicial o promueve usuarios contra el backend configurado (STORE_DRIVER).`,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(createAdminCmd())
	rootCmd.AddCommand(promoteCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func createAdminCmd() *cobra.Command {
	var f adminFlags
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Crea un administrador verificado",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepos(cmd.Context(), func(ctx context.Context, repos *persistence.Repositories) error {
				user, err := newAdmin(f, time.Now().UTC())
				if err != nil {
					return err
				}
				if err := repos.Users.Create(ctx, user); err != nil {
					return fmt.Errorf("crear administrador: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "administrador creado: %s (%s)\n", user.Email, user.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&f.email, "email", "", "correo del administrador")
	cmd.Flags().StringVar(&f.phone, "phone", "", "teléfono en formato internacional")
	cmd.Flags().StringVar(&f.username, "username", "admin", "nombre de usuario")
	cmd.Flags().StringVar(&f.password, "password", "", "contraseña (mínimo 8 caracteres)")
	cmd.Flags().StringVar(&f.firstName, "first-name", "System", "nombre")
	cmd.Flags().StringVar(&f.lastName, "last-name", "Admin", "apellido")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func promoteCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Concede permisos de administrador a un usuario existente",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepos(cmd.Context(), func(ctx context.Context, repos *persistence.Repositories) error {
				user, err := repos.Users.GetByEmail(ctx, textnorm.Email(email))
				if err != nil {
					return err
				}
				if user == nil {
					return fmt.Errorf("no existe usuario con email %q", email)
				}
				if user.IsAdmin {
					fmt.Fprintf(cmd.OutOrStdout(), "%s ya es administrador\n", user.Email)
					return nil
				}
				user.IsAdmin = true
				user.IsVerified = true
				user.UpdatedAt = time.Now().UTC()
				if err := repos.Users.Update(ctx, user); err != nil {
					return fmt.Errorf("promover usuario: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s promovido a administrador\n", user.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "correo del usuario")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// withRepos abre el backend configurado, ejecuta fn y cierra la conexión.
func withRepos(ctx context.Context, fn func(context.Context, *persistence.Repositories) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	repos, err := persistence.Open(ctx, cfg, log.Component("store"))
	if err != nil {
		return err
	}
	defer repos.Close(context.Background())
	return fn(ctx, repos)
}

func newAdmin(f adminFlags, now time.Time) (*entity.User, error) {
	if len(f.password) < 8 {
		return nil, fmt.Errorf("la contraseña debe tener al menos 8 caracteres")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(f.password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash de contraseña: %w", err)
	}
	return &entity.User{
		ID:                 uuid.New().String(),
		FirstName:          f.firstName,
		LastName:           f.lastName,
		Email:              textnorm.Email(f.email),
		PhoneNumber:        textnorm.Phone(f.phone),
		Username:           textnorm.Key(f.username),
		PasswordHash:       string(hash),
		IsAdmin:            true,
		IsVerified:         true,
		Consent:            true,
		References:         []entity.Reference{},
		WorkHistory:        []entity.WorkHistoryEntry{},
		Trainings:          []entity.TrainingRecord{},
		PreferredLocations: []string{},
		DeviceTokens:       []string{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}
