package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/fanplan/internal/cli"
	"github.com/Veraticus/fanplan/internal/model"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func purchaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purchase",
		Short: "Record and list fan purchases",
	}

	add := &cobra.Command{
		Use:   "add <entity> <amount>",
		Short: "Record a purchase",
		Example: `  fanplan purchase add BTS 28.50 --category albums
  fanplan purchase add "Red Velvet" 180 --category concerts --date 2024-01-20`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var amount float64
			if _, err := fmt.Sscanf(args[1], "%g", &amount); err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}
			rawCategory, _ := cmd.Flags().GetString("category")
			category, err := model.ParsePurchaseCategory(rawCategory)
			if err != nil {
				return err
			}
			rawDate, _ := cmd.Flags().GetString("date")
			date, err := parseDate(rawDate)
			if err != nil {
				return err
			}
			notes, _ := cmd.Flags().GetString("notes")

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			userID, err := resolveUser(ctx, cmd, store)
			if err != nil {
				return err
			}

			p := model.PurchaseRecord{
				ID:          uuid.NewString(),
				EntityName:  args[0],
				Category:    category,
				Amount:      amount,
				PurchasedAt: date,
				Notes:       notes,
			}
			if _, err := store.RecordPurchases(ctx, userID, []model.PurchaseRecord{p}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Recorded $%.2f of %s for %s", amount, category.DisplayName(), p.EntityName)))
			return nil
		},
	}
	addUserFlag(add)
	add.Flags().StringP("category", "c", string(model.CategoryOther), "albums, concerts, merch, digital, events, subscriptions or other")
	add.Flags().String("date", "", "purchase date as YYYY-MM-DD (default: today)")
	add.Flags().String("notes", "", "free-form notes")

	list := &cobra.Command{
		Use:   "list",
		Short: "List recent purchases, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			userID, err := resolveUser(ctx, cmd, store)
			if err != nil {
				return err
			}
			purchases, err := store.GetRecentPurchases(ctx, userID, limit)
			if err != nil {
				return err
			}
			return cli.RenderPurchases(cmd.OutOrStdout(), purchases)
		},
	}
	addUserFlag(list)
	list.Flags().IntP("limit", "n", 20, "maximum purchases to show (0 for all)")

	cmd.AddCommand(add, list)
	return cmd
}

func interactionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interaction",
		Short: "Record user interaction events",
	}

	add := &cobra.Command{
		Use:   "add <entity> <kind>",
		Short: "Record an interaction (view, like, purchase, follow, search)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseInteractionKind(args[1])
			if err != nil {
				return err
			}

			ev := model.UserInteractionEvent{
				EntityName: args[0],
				Kind:       kind,
				OccurredAt: time.Now().UTC(),
			}
			if cmd.Flags().Changed("value") {
				v, _ := cmd.Flags().GetFloat64("value")
				ev.Value = &v
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			userID, err := resolveUser(ctx, cmd, store)
			if err != nil {
				return err
			}
			if err := store.RecordInteraction(ctx, userID, ev); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Recorded %s of %s", kind, ev.EntityName)))
			return nil
		},
	}
	addUserFlag(add)
	add.Flags().Float64("value", 0, "optional rating or amount")

	cmd.AddCommand(add)
	return cmd
}
