package adminctl

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/book2resell/server/internal/server/repository"
)

// NewPromoteCmd создаёт CLI-команду выдачи флага админа существующему пользователю.
//
// Пример использования:
//
//	adminctl promote --email user@example.com
func NewPromoteCmd(app *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Выдать пользователю флаг админа",
		Long: `Повышение существующего пользователя до админа.

Пример:
  adminctl promote --email user@example.com
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			users := repository.NewUsersRepository(app.DB)
			if err := users.SetAdmin(cmd.Context(), email); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "пользователь %s теперь админ\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email пользователя")
	cmd.MarkFlagRequired("email")

	return cmd
}
