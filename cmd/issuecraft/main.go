// Command issuecraft is a thin demonstration harness around the query
// pipeline (§6): it reads a single statement from the command line, runs
// it against a store loaded from --db, prints the result, and flushes the
// store back out before exiting. It is not itself a contracted component.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/issuecraft/issuecraft/internal/config"
	"github.com/issuecraft/issuecraft/internal/engine"
	"github.com/issuecraft/issuecraft/internal/principal"
	"github.com/issuecraft/issuecraft/internal/query"
	"github.com/issuecraft/issuecraft/internal/record"
	"github.com/issuecraft/issuecraft/internal/storage/memory"
)

var (
	dbPath     string
	actor      string
	configPath string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "issuecraft <statement>",
		Short: "Run a single IssueCraft query-language statement",
		Args:  cobra.ExactArgs(1),
		RunE:  runStatement,
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "", "path to the on-disk snapshot (default: from config, or in-memory only)")
	root.PersistentFlags().StringVar(&actor, "actor", "", "principal id to act as (also the single-user provider's id)")
	root.PersistentFlags().StringVar(&configPath, "config", "issuecraft.toml", "path to the local configuration file")
	return root
}

func runStatement(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if dbPath == "" {
		dbPath = cfg.StorePath
	}
	if actor == "" {
		actor = cfg.DefaultActor
	}

	stmt, err := query.Parse(args[0])
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	store := memory.New()
	if dbPath != "" {
		if err := loadSnapshot(ctx, store, dbPath); err != nil {
			return fmt.Errorf("loading snapshot: %w", err)
		}
	}

	eng := engine.New(store)
	up := principal.SingleUser{ID: actor}
	ap := up

	if err := ensureActor(ctx, eng, actor); err != nil {
		return fmt.Errorf("resolving actor: %w", err)
	}

	res, err := eng.Execute(ctx, actor, up, ap, stmt)
	if err != nil {
		return fmt.Errorf("backend error: %w", err)
	}

	if res.Data != "" {
		fmt.Fprint(cmd.OutOrStdout(), res.Data)
	}
	if res.Info != "" {
		fmt.Fprintln(cmd.OutOrStdout(), res.Info)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "rows affected: %d\n", res.Rows)

	if dbPath != "" {
		if err := flushSnapshot(ctx, store, dbPath); err != nil {
			return fmt.Errorf("flushing snapshot: %w", err)
		}
	}
	return nil
}

// ensureActor makes sure the configured actor exists as a user so
// out-of-band principal creation (§3 Lifecycle) is satisfied on first
// run without a separate provisioning step.
func ensureActor(ctx context.Context, eng *engine.Engine, id string) error {
	return eng.PutUser(ctx, record.User{ID: id, Name: id})
}

// snapshot is the on-disk representation flushed to/loaded from --db: a
// flat JSON document of table name to row map, good enough for a
// single-process demonstration harness (§6 note: "still backed by the
// in-memory store, loaded/flushed at process boundaries").
type snapshot struct {
	Tables map[string]map[string]string `json:"tables"`
}

func loadSnapshot(ctx context.Context, store *memory.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	return store.Restore(snap.Tables)
}

func flushSnapshot(ctx context.Context, store *memory.Store, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !os.IsExist(err) {
		return err
	}
	snap := snapshot{Tables: store.Snapshot()}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
