// catalog-seed writes the bus catalog into the document store. By default it
// only seeds an empty store; --force replaces whatever catalog is stored.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"journeycompass/internal/app"
	"journeycompass/internal/catalog"
	intconfig "journeycompass/internal/config"
	"journeycompass/internal/services"
	"journeycompass/internal/utils"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	env := intconfig.LoadEnv()

	var (
		catalogPath string
		force       bool
	)
	flagSet := pflag.NewFlagSet("catalog-seed", pflag.ContinueOnError)
	flagSet.StringVar(&catalogPath, "catalog", env.CatalogPath, "YAML catalog to write (default: built-in catalog)")
	flagSet.StringVar(&env.StoreDriver, "driver", env.StoreDriver, "store backend: file, mysql, redis or memory")
	flagSet.StringVar(&env.StorePath, "path", env.StorePath, "document path for the file store")
	flagSet.StringVar(&env.DBDSN, "dsn", env.DBDSN, "MySQL DSN for the mysql store")
	flagSet.StringVar(&env.RedisAddr, "redis", env.RedisAddr, "Redis address for the redis store and the document lock")
	flagSet.StringVar(&env.StoreKey, "key", env.StoreKey, "document key")
	flagSet.BoolVar(&force, "force", false, "replace the stored catalog even when it is not empty")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	log := utils.NewLogger(env.AppEnv)
	defer func() { _ = log.Sync() }()

	buses, err := catalog.Load(catalogPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := app.OpenStore(ctx, env, log)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := services.CatalogService{Repo: store.Repo(log), Locker: store.Locker, LockKey: env.StoreKey, Log: log}

	if force {
		if err := svc.SetBuses(ctx, buses); err != nil {
			return err
		}
		log.Info("catalog replaced", zap.Int("buses", len(buses)))
	} else {
		seeded, err := svc.SeedIfEmpty(ctx, buses)
		if err != nil {
			return err
		}
		if !seeded {
			log.Info("store already has a catalog, nothing written (use --force to replace)")
		}
	}

	stored := svc.GetBuses(ctx, nil)
	fmt.Fprintf(out, "store holds %d buses\n", len(stored))
	return nil
}
