package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"study-hub/internal/config"
	"study-hub/internal/hub"
	"study-hub/internal/repository"
)

var userFlag int64

// export
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print a user's stored hub as JSON",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

// reset-stats
var resetStatsCmd = &cobra.Command{
	Use:   "reset-stats",
	Short: "Zero a user's statistics",
	Args:  cobra.NoArgs,
	RunE:  runResetStats,
}

func init() {
	for _, cmd := range []*cobra.Command{exportCmd, resetStatsCmd} {
		cmd.Flags().Int64Var(&userFlag, "user", 0, "Telegram user id")
		cmd.MarkFlagRequired("user")
	}
	rootCmd.AddCommand(exportCmd, resetStatsCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return withUserHub(ctx, func(h *hub.Hub, _ hub.Store) error {
		state := h.State()
		state.Stats = h.StatsView()
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	})
}

func runResetStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return withUserHub(ctx, func(h *hub.Hub, store hub.Store) error {
		res := h.ResetStats()
		if err := h.State().Save(ctx, store); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Notice)
		return nil
	})
}

func withUserHub(ctx context.Context, fn func(h *hub.Hub, store hub.Store) error) error {
	if userFlag <= 0 {
		return fmt.Errorf("--user must be a Telegram user id")
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	storage, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer storage.Close()

	if _, err := repository.NewUserRepository(storage.db).FindByTelegramID(ctx, userFlag); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %d has never used the bot", userFlag)
		}
		return fmt.Errorf("find user: %w", err)
	}

	store := storage.storeFor(userFlag)
	state, err := hub.Load(ctx, store)
	if err != nil {
		return err
	}
	return fn(hub.New(state, hubOptions(cfg)), store)
}
