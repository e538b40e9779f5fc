package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/fanplan/internal/cli"
	"github.com/Veraticus/fanplan/internal/knowledge"
	"github.com/Veraticus/fanplan/internal/model"
	"github.com/Veraticus/fanplan/internal/ofx"
	"github.com/spf13/cobra"
)

const importBatchSize = 50

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import fan purchases from OFX/QFX statements",
		Long: `Import purchases from OFX or QFX files exported from your bank. Only debits
whose description names an entity you follow, or one in the knowledge base,
are imported. Re-importing a statement skips transactions already recorded.

Examples:
  # Import a single file
  fanplan import-ofx ~/Downloads/chase_jan_2024.qfx

  # Import every statement in a directory
  fanplan import-ofx ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}
	addUserFlag(cmd)
	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	return cmd
}

func expandFiles(patterns []string) []string {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			slog.Warn("Invalid pattern", "pattern", pattern, "error", err)
			continue
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}
	return files
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	files := expandFiles(args)
	if len(files) == 0 {
		return errors.New("no files found to import")
	}

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Import").
		WithResumeHint("Purchases saved so far are kept. Re-run the import to finish; recorded transactions are skipped.")
	ctx, stop := handler.HandleInterrupts(cmd.Context())
	defer stop()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	userID, err := resolveUser(ctx, cmd, store)
	if err != nil {
		return err
	}
	profile, err := store.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	kb, err := knowledge.Load(cfg.Knowledge.Path)
	if err != nil {
		return err
	}

	var names []string
	for _, f := range profile.Followed {
		names = append(names, f.Name)
	}
	for _, e := range kb.Entities() {
		names = append(names, e.Name)
	}
	parser := ofx.NewParser(names)

	var purchases []model.PurchaseRecord
	seen := make(map[string]bool)
	unmatched := 0
	for _, path := range files {
		f, err := os.Open(path) //nolint:gosec // user-supplied statement path
		if err != nil {
			slog.Error("Failed to open file", "file", path, "error", err)
			continue
		}
		result, err := parser.ParseFile(ctx, f)
		_ = f.Close()
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", path, "error", err)
			continue
		}

		unmatched += result.Unmatched
		for _, p := range result.Purchases {
			if !seen[p.ID] {
				seen[p.ID] = true
				purchases = append(purchases, p)
			}
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Found %d fan purchases in %d files (%d other debits ignored)",
		len(purchases), len(files), unmatched)))

	if dryRun || len(purchases) == 0 {
		return cli.RenderPurchases(out, purchases)
	}

	progress := cli.NewProgress(cmd.ErrOrStderr(), len(purchases), "Importing purchases...")
	added := 0
	for start := 0; start < len(purchases); start += importBatchSize {
		end := min(start+importBatchSize, len(purchases))
		n, err := store.RecordPurchases(ctx, userID, purchases[start:end])
		if err != nil {
			if handler.WasInterrupted() {
				return nil
			}
			return fmt.Errorf("failed to record purchases: %w", err)
		}
		added += n
		progress.Add(end - start)
	}
	progress.Finish()

	if added > 0 {
		if err := newCache(store).Clear(ctx); err != nil {
			slog.Warn("Failed to clear recommendation cache", "error", err)
		}
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d new purchases (%d already recorded)", added, len(purchases)-added)))
	return nil
}
