// Package main implements the studyhub command.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"study-hub/internal/config"
	"study-hub/internal/hub"
	"study-hub/internal/model"
	"study-hub/internal/repository"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "studyhub",
	Short: "Study hub - tasks, assignments, schedule and a pomodoro timer in Telegram",
}

// storage is an open database plus the key-value store built on it.
type storage struct {
	db *gorm.DB
	kv repository.KV
}

func openStorage(ctx context.Context, cfg config.Config) (*storage, error) {
	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	kv, err := repository.NewKV(ctx, cfg.Store.Backend, db, repository.RedisOptions{
		Addr:     cfg.Store.RedisAddr,
		Password: cfg.Store.RedisPassword,
		DB:       cfg.Store.RedisDB,
	})
	if err != nil {
		closeDB(db)
		return nil, fmt.Errorf("store: %w", err)
	}
	log.Printf("[info] store backend %s", cfg.Store.Backend)
	return &storage{db: db, kv: kv}, nil
}

// storeFor binds the key-value store to one user's scope.
func (s *storage) storeFor(telegramID int64) hub.Store {
	return repository.NewScopedStore(s.kv, model.ScopeFor(telegramID))
}

func (s *storage) Close() {
	if err := s.kv.Close(); err != nil {
		log.Printf("close store: %v", err)
	}
	closeDB(s.db)
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

func hubOptions(cfg config.Config) hub.Options {
	return hub.Options{
		WorkDuration:  cfg.Timer.WorkDuration(),
		BreakDuration: cfg.Timer.BreakDuration(),
		Location:      time.Local,
	}
}
