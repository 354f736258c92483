// Command seeder loads a YAML fixtures file of staff accounts, response
// units and audit templates into the configured store. Records whose
// natural key already exists are left untouched.
//
// Flags:
//
//	--phase          comma-separated list of phases to run (default: all)
//	--dry-run        validate fixtures without writing
//	--fixtures       path to the fixtures YAML file (overrides config)
//	--seeder-config  path to seeder YAML config file
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/heartmarshall/beavernet-backend/internal/app"
	"github.com/heartmarshall/beavernet-backend/internal/app/seeder"
	"github.com/heartmarshall/beavernet-backend/internal/config"
	"github.com/heartmarshall/beavernet-backend/internal/service/user"
)

func main() {
	phaseFlag := flag.String("phase", "", "comma-separated phases to run (default: all)")
	dryRunFlag := flag.Bool("dry-run", false, "validate fixtures without writing")
	fixturesFlag := flag.String("fixtures", "", "path to the fixtures YAML file")
	seederConfigFlag := flag.String("seeder-config", "", "path to seeder YAML config file")
	flag.Parse()

	appCfg, err := config.Load()
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(appCfg.Log)

	seederCfg, err := seeder.LoadConfig(*seederConfigFlag)
	if err != nil {
		logger.Error("load seeder config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// CLI flags override config.
	if *dryRunFlag {
		seederCfg.DryRun = true
	}
	if *fixturesFlag != "" {
		seederCfg.FixturesPath = *fixturesFlag
	}

	var phases []string
	if *phaseFlag != "" {
		phases = strings.Split(*phaseFlag, ",")
		for i := range phases {
			phases[i] = strings.TrimSpace(phases[i])
		}
	}

	fixtures, err := seeder.LoadFixtures(seederCfg.FixturesPath)
	if err != nil {
		logger.Error("load fixtures", slog.String("path", seederCfg.FixturesPath), slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, err := app.OpenStore(ctx, appCfg, logger)
	if err != nil {
		logger.Error("open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	pipeline := seeder.NewPipeline(logger, user.NewService(logger, store.Users), store, *seederCfg)
	if err := pipeline.Run(ctx, fixtures, phases); err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if pipeline.HasErrors() {
		logger.Warn("pipeline completed with errors")
		os.Exit(1)
	}

	logger.Info("pipeline completed successfully")
}
