package cmd

import (
	"github.com/spf13/cobra"
)

func newNextDayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next-day",
		Short: "Print tomorrow's colour, once RTE has published it",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, _, err := bootstrapClient(ctx, opts)
			if err != nil {
				return err
			}

			calendars, err := client.NextDay(ctx)
			if err != nil {
				return err
			}
			printNextDay(cmd.OutOrStdout(), calendars)
			return nil
		},
	}
}
