package main

import (
	"fmt"
	"os"

	"github.com/Veraticus/fanplan/internal/cli"
	"github.com/Veraticus/fanplan/internal/knowledge"
	"github.com/spf13/cobra"
)

func knowledgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knowledge",
		Short: "Inspect and validate the entity knowledge base",
	}

	validate := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a knowledge base file (default: the configured one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfg.Knowledge.Path
			if len(args) == 1 {
				path = args[0]
			}

			kb, err := knowledge.Load(path)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatError("Knowledge base is invalid"))
				return err
			}

			source := path
			if source == "" {
				source = "built-in"
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
				"%s: %d entities, %d genres, %d organizations",
				source, len(kb.Entities()), kb.Genres(), kb.Organizations())))
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the configured knowledge base as YAML",
		Long: `Print the configured knowledge base. With no knowledge.path set this is the
built-in data, which makes a convenient starting point for a custom file:

  fanplan knowledge show > ~/.config/fanplan/knowledge.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.Knowledge.Path != "" {
				data, err := os.ReadFile(cfg.Knowledge.Path)
				if err != nil {
					return fmt.Errorf("failed to read knowledge base: %w", err)
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			data, err := knowledge.Marshal(knowledge.DefaultDocument())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(validate, show)
	return cmd
}
