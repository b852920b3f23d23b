package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tokhel/ink/internal/catalog"
	"github.com/tokhel/ink/internal/config"
	"github.com/tokhel/ink/internal/entrypoint"
)

// SeedCommand loads the placeholder novels into the configured catalog store.
type SeedCommand struct {
	Force   bool
	Verbose bool
}

func NewSeedCommand() *SeedCommand {
	return &SeedCommand{}
}

// ParseFlags parses command line flags.
func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)

	fs.BoolVar(&cmd.Force, "force", false, "Seed even when the catalog already contains novels")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Load the starter novels into the configured catalog store.\n")
		fmt.Fprintf(os.Stderr, "The store backend is taken from the environment (STORE_BACKEND).\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Seed the default SQLite store:\n")
		fmt.Fprintf(os.Stderr, "  %s seed\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Seed Firestore:\n")
		fmt.Fprintf(os.Stderr, "  STORE_BACKEND=firestore FIRESTORE_PROJECT=my-project %s seed\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the seed command.
func (cmd *SeedCommand) Run() error {
	fmt.Println("🌱 Catalog Seed")
	fmt.Println("===============")

	cfg := config.NewConfig()
	fmt.Printf("Store backend: %s\n", cfg.Store.Backend)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, closeStore, err := entrypoint.BuildStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("building catalog store: %w", err)
	}
	defer closeStore()

	existing, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("reading catalog: %w", err)
	}
	if len(existing) > 0 && !cmd.Force {
		return fmt.Errorf("catalog already contains %d novels, re-run with -force to seed anyway", len(existing))
	}

	seeded := 0
	for _, novel := range catalog.PlaceholderNovels() {
		n := novel
		if _, err := store.Insert(ctx, &n); err != nil {
			return fmt.Errorf("inserting %q: %w", novel.Title, err)
		}
		if cmd.Verbose {
			fmt.Printf("  ✅ %s (%s)\n", n.Title, n.ID)
		}
		seeded++
	}

	fmt.Printf("\nSeeded %d novels.\n", seeded)
	return nil
}
