package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/wtusfo/song-and-singer/internal/console"
	"github.com/wtusfo/song-and-singer/internal/models"
)

func newGenresCommand(ctx *commandContext) *cobra.Command {
	return newReferenceCommand(ctx, "genres", "List genres", (*console.Client).Genres)
}

func newLanguagesCommand(ctx *commandContext) *cobra.Command {
	return newReferenceCommand(ctx, "languages", "List languages", (*console.Client).Languages)
}

func newReferenceCommand(ctx *commandContext, use, short string, fetch func(*console.Client, context.Context) ([]models.Reference, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			refs, err := fetch(client, cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(refs))
			for _, ref := range refs {
				rows = append(rows, []string{strconv.FormatInt(ref.ID, 10), ref.Name})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"ID", "Name"}, rows, []columnAlignment{alignRight, alignLeft}))
			return nil
		},
	}
}

func newUsersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List registered accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			if _, err := ctx.adminSession(cmd.Context(), client); err != nil {
				return err
			}
			users, err := client.Users(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(users))
			for _, u := range users {
				rows = append(rows, []string{u.ID, u.Email, formatTime(&u.CreatedAt)})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"ID", "Email", "Created"}, rows, nil))
			return nil
		},
	}
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
