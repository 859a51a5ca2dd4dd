package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-ledger-api/internal/application/auth"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/postgres"
)

func newUserCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Administración de usuarios",
	}
	cmd.AddCommand(newUserCreateCmd(e))
	return cmd
}

// newUserCreateCmd es la única vía para crear administradores: el registro HTTP solo crea usuarios.
func newUserCreateCmd(e *env) *cobra.Command {
	var in dto.RegisterRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Crea un usuario (por defecto admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := dto.Validate(in); err != nil {
				return err
			}
			pool, err := e.pool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			uc := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{})
			user, err := uc.Register(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("crear usuario: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "usuario %s creado (id %s, rol %s)\n", user.Username, user.ID, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Username, "username", "", "nombre de usuario")
	cmd.Flags().StringVar(&in.Password, "password", "", "contraseña (mínimo 8 caracteres)")
	cmd.Flags().StringVar(&in.Role, "role", entity.RoleAdmin, "admin | user")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
