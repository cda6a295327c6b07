// Package app assembles the bot: configuration, database, repositories,
// the flow engine and the Telegram run loop.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/akhror/zavodbot/core/config"
	"github.com/akhror/zavodbot/core/database"
	"github.com/akhror/zavodbot/core/flow"
	"github.com/akhror/zavodbot/core/telegram"
	"github.com/akhror/zavodbot/core/telegram/commands"
	"github.com/akhror/zavodbot/core/telegram/sender"
	"github.com/akhror/zavodbot/flows"
	"github.com/akhror/zavodbot/storage"
)

// Run wires everything and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	var dbCfg database.Config
	if err := envconfig.Process("", &dbCfg); err != nil {
		return fmt.Errorf("app: db config: %w", err)
	}

	if err := database.RunMigrations(dbCfg); err != nil {
		return err
	}
	db, err := database.Connect(dbCfg)
	if err != nil {
		return err
	}
	defer db.Close()

	deps := &flows.Deps{
		Users:      storage.NewUsersRepo(db),
		Branches:   storage.NewBranchesRepo(db),
		Products:   storage.NewProductsRepo(db),
		Employees:  storage.NewEmployeesRepo(db),
		Production: storage.NewProductionRepo(db),
		Orders:     storage.NewOrdersRepo(db),
		SuperAdmin: cfg.Telegram.SuperAdmin,
		MediaDir:   cfg.Media.Dir,
		Now:        time.Now,
	}

	reg, err := flows.BuildRegistry(deps)
	if err != nil {
		return fmt.Errorf("app: build flow registry: %w", err)
	}
	disp := flow.NewDispatcher(reg, deps, flows.StepHome)
	store := flow.NewStore()
	router := NewRouter(deps, store, disp)

	cmdReg := telegram.NewRegistry()
	cmdReg.RegisterCommand("/start", commands.Command{
		Handler:     router.Start,
		Description: "Boshlash",
	})
	cmdReg.RegisterCommand("/stats", commands.Command{
		Handler:     router.Stats,
		Description: "Hisobotlar",
	})
	cmdReg.RegisterCommand("/oylik", commands.Command{
		Handler:     router.Salary,
		Description: "Oylik hisoboti",
	})
	cmdReg.RegisterCommand("/inventory", commands.Command{
		Handler:     router.Inventory,
		Description: "Ombor qoldig'i",
	})
	cmdReg.RegisterCommand("/cancel", commands.Command{
		Handler:     router.Cancel,
		Description: "Bekor qilish",
		Hidden:      true,
	})

	outbound := sender.NewDispatcher(sender.Options{})

	return telegram.Run(ctx, telegram.RunOptions{
		Config:      cfg,
		Registry:    cmdReg,
		Middlewares: telegram.DefaultMiddlewares(cfg.RateLimit),
		Routes:      router.Install,
		Dispatcher:  outbound,
	})
}
