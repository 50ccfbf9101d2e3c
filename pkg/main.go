package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	pkg "github.com/inkwelldev/inkwell/pkg/internal"
	"github.com/inkwelldev/inkwell/pkg/internal/config"
	"github.com/inkwelldev/inkwell/pkg/internal/data"
	"github.com/inkwelldev/inkwell/pkg/internal/data/postgres"
	"github.com/inkwelldev/inkwell/pkg/internal/data/sqlite"
	"github.com/inkwelldev/inkwell/pkg/internal/data/surreal"
	"github.com/inkwelldev/inkwell/pkg/internal/services"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString(" ___       _                   _ _\n|_ _|_ __ | | ____      _____| | |\n | || '_ \\| |/ /\\ \\ /\\ / / _ \\ | |\n | || | | |   <  \\ V  V /  __/ | |\n|___|_| |_|_|\\_\\  \\_/\\_/ \\___|_|_|"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Inkwell"), pkg.AppVersion)
	fmt.Printf("Multi-tenant web log persistence\n")
	color.HiBlack("=====================================================\n")

	// Load settings
	if err := config.Load(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to the configured backend
	store, err := openStore(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connecting to the data store.")
	}
	defer store.Close()

	if err := store.StartUp(ctx); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when provisioning the data store.")
	}

	args := os.Args[1:]
	command := "init"
	if len(args) > 0 {
		command = args[0]
	}

	switch command {
	case "init":
		log.Info().Str("backend", viper.GetString("data.backend")).Msg("Data store is ready.")
	case "backup":
		if len(args) < 3 {
			log.Fatal().Msg("Usage: inkwell backup <web-log-id> <file>")
		}
		archive, err := services.Backup(ctx, store, args[1])
		if err != nil {
			log.Fatal().Err(err).Msg("An error occurred when backing up the web log.")
		}
		if err := services.WriteArchive(args[2], archive); err != nil {
			log.Fatal().Err(err).Msg("An error occurred when writing the archive.")
		}
		log.Info().Str("file", args[2]).Msg("Archive written.")
	case "restore":
		if len(args) < 2 {
			log.Fatal().Msg("Usage: inkwell restore <file>")
		}
		archive, err := services.ReadArchive(args[1])
		if err != nil {
			log.Fatal().Err(err).Msg("An error occurred when reading the archive.")
		}
		if err := services.Restore(ctx, store, archive); err != nil {
			log.Fatal().Err(err).Msg("An error occurred when restoring the web log.")
		}
	default:
		log.Fatal().Str("command", command).Msg("Unknown command.")
	}
}

func openStore(ctx context.Context) (data.Store, error) {
	backend := viper.GetString("data.backend")
	switch backend {
	case "postgres", "postgresql":
		return postgres.New(viper.GetString("data.uri"))
	case "sqlite", "sqlite3":
		return sqlite.New(viper.GetString("data.uri"))
	case "surreal", "surrealdb":
		return surreal.New(ctx, surreal.Config{
			URL:       viper.GetString("data.uri"),
			Namespace: viper.GetString("data.surreal.namespace"),
			Database:  viper.GetString("data.surreal.database"),
			Username:  viper.GetString("data.surreal.username"),
			Password:  viper.GetString("data.surreal.password"),
		})
	default:
		return nil, fmt.Errorf("unknown data backend %q", backend)
	}
}
