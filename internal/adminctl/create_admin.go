package adminctl

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/book2resell/server/internal/server/crypto"
	"github.com/book2resell/server/internal/server/models"
	"github.com/book2resell/server/internal/server/repository"
)

// Параметры argon2id для adminctl. Совпадают с дефолтами server.yaml,
// но для проверки пароля это не обязательно: формат самоописывающий.
var defaultPass = crypto.PasswordParams{
	Hasher: crypto.HasherArgon2id,
	Argon2: crypto.Argon2Params{
		Time:      3,
		MemoryKiB: 64 * 1024,
		Threads:   2,
		KeyLen:    32,
		SaltLen:   16,
	},
}

// NewCreateAdminCmd создаёт CLI-команду создания админской учётки.
//
// Пароль не принимается флагом (чтобы не светился в истории шелла
// и ps) — команда дважды спрашивает его с терминала.
//
// Пример использования:
//
//	adminctl create-admin --email admin@book2resell.com --name "Admin User"
func NewCreateAdminCmd(app *App) *cobra.Command {
	var email, name string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Создать админскую учётку",
		Long: `Создание нового пользователя с флагом админа.

Пример:
  adminctl create-admin --email admin@book2resell.com --name "Admin User"
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword(cmd)
			if err != nil {
				return err
			}

			hash, err := crypto.HashPassword(password, defaultPass)
			if err != nil {
				return fmt.Errorf("хэширование пароля: %w", err)
			}

			users := repository.NewUsersRepository(app.DB)
			id, err := users.Create(cmd.Context(), models.User{
				Name:         name,
				Email:        email,
				PasswordHash: hash,
				IsAdmin:      true,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "админ создан: %s (%s)\n", email, id)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email нового админа")
	cmd.Flags().StringVar(&name, "name", "Admin", "отображаемое имя")
	cmd.MarkFlagRequired("email")

	return cmd
}

// promptPassword дважды читает пароль с терминала без эха.
func promptPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Пароль: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("чтение пароля: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), "Повторите пароль: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("чтение пароля: %w", err)
	}

	if subtle.ConstantTimeCompare(first, second) != 1 {
		return "", errors.New("пароли не совпадают")
	}
	if len(first) < 6 {
		return "", errors.New("пароль короче 6 символов")
	}

	return string(first), nil
}
