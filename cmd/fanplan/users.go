package main

import (
	"fmt"

	"github.com/Veraticus/fanplan/internal/cli"
	"github.com/Veraticus/fanplan/internal/model"
	"github.com/spf13/cobra"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users and their budgets",
	}
	cmd.AddCommand(userCreateCmd(), userShowCmd(), userListCmd(), userBudgetCmd())
	return cmd
}

func userCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, _ := cmd.Flags().GetString("name")
			budget, _ := cmd.Flags().GetFloat64("budget")

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			p := &model.UserProfile{DisplayName: name, TotalBudget: budget}
			if err := store.CreateUser(ctx, p); err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created %s (%s)", p.DisplayName, p.ID)))
			return nil
		},
	}
	cmd.Flags().String("name", "", "display name")
	cmd.Flags().Float64("budget", 0, "total fan spending budget")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func userShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a user's budget and followed entities",
		RunE: func(cmd *cobra.Command, _ []string) error {
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
			p, err := store.GetProfile(ctx, userID)
			if err != nil {
				return err
			}
			return cli.RenderProfile(cmd.OutOrStdout(), p)
		},
	}
	addUserFlag(cmd)
	return cmd
}

func userListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			users, err := store.ListUsers(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(users) == 0 {
				fmt.Fprintln(out, cli.SubtleStyle.Render("No users yet."))
				return nil
			}
			for _, u := range users {
				fmt.Fprintf(out, "%s  %-20s $%.2f / $%.2f\n", u.ID, u.DisplayName, u.TotalSpent, u.TotalBudget)
			}
			return nil
		},
	}
}

func userBudgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget <amount>",
		Short: "Set a user's total budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var amount float64
			if _, err := fmt.Sscanf(args[0], "%g", &amount); err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
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
			if err := store.UpdateBudget(ctx, userID, amount); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Budget set to $%.2f", amount)))
			return nil
		},
	}
	addUserFlag(cmd)
	return cmd
}

func followCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "follow",
		Short: "Manage followed entities",
	}

	add := &cobra.Command{
		Use:   "add <entity>",
		Short: "Follow an entity, or update its rank and allocation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rank, _ := cmd.Flags().GetInt("rank")
			allocate, _ := cmd.Flags().GetFloat64("allocate")

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
			f := model.FollowedEntity{Name: args[0], Rank: rank, Allocated: allocate}
			if err := store.Follow(ctx, userID, f); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Following %s at rank %d", f.Name, f.Rank)))
			return nil
		},
	}
	addUserFlag(add)
	add.Flags().Int("rank", 1, "priority rank, 1 is highest")
	add.Flags().Float64("allocate", 0, "budget allocated to this entity")

	remove := &cobra.Command{
		Use:   "remove <entity>",
		Short: "Stop following an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			if err := store.Unfollow(ctx, userID, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Unfollowed "+args[0]))
			return nil
		},
	}
	addUserFlag(remove)

	list := &cobra.Command{
		Use:   "list",
		Short: "List followed entities",
		RunE: func(cmd *cobra.Command, _ []string) error {
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
			followed, err := store.GetFollowed(ctx, userID)
			if err != nil {
				return err
			}
			return cli.RenderFollowed(cmd.OutOrStdout(), followed)
		},
	}
	addUserFlag(list)

	cmd.AddCommand(add, remove, list)
	return cmd
}
