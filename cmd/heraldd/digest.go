package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/mohsen-qasemi/herald/config"
	"github.com/mohsen-qasemi/herald/internal/digest"
	"github.com/mohsen-qasemi/herald/internal/feed/newsapi"
	"github.com/mohsen-qasemi/herald/internal/store"
	"github.com/mohsen-qasemi/herald/provider"
)

func digestCMD() *cobra.Command {
	var cfgPath string
	var kind string
	var window int
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Generate one digest and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)

			switch store.DigestKind(kind) {
			case store.DigestBrief, store.DigestFull:
			default:
				return fmt.Errorf("kind must be 'brief' or 'full', got %q", kind)
			}
			if window <= 0 {
				window = cfg.Digest.WindowHours
			}

			oracle, err := provider.NewProvider(cfg.LLM)
			if err != nil {
				return err
			}
			st, err := store.New(cfg.Storage.Postgres.ConnString())
			if err != nil {
				return err
			}
			reader := newsapi.New(cfg.Feeds.APIKey, cfg.Feeds.Endpoint)
			aggregator := digest.NewAggregator(st, reader, log.New(log.Writer(), "[AGG] ", log.LstdFlags))
			generator := digest.NewGenerator(oracle, st, log.New(log.Writer(), "[DIGEST] ", log.LstdFlags))

			ctx := cmd.Context()
			result, err := aggregator.Aggregate(ctx, window)
			if err != nil {
				return err
			}
			if result.TotalItems == 0 {
				fmt.Printf("No new messages in the last %d hours.\n", window)
				return nil
			}
			budgeted := digest.FormatForLLM(result, cfg.Digest.MaxItems, cfg.Digest.MaxCharsPerItem)
			d, err := generator.Generate(ctx, budgeted, store.DigestKind(kind), false)
			if err != nil {
				return err
			}
			fmt.Printf("Messages processed: %d\n\n%s\n", d.MessageCount, d.Content)
			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config directory (default is .)")
	cmd.Flags().StringVar(&kind, "kind", "brief", "digest kind: brief or full")
	cmd.Flags().IntVar(&window, "window", 0, "lookback window in hours (default from config)")
	return cmd
}
