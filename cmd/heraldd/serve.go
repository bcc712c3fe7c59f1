package main

import (
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/mohsen-qasemi/herald/config"
	"github.com/mohsen-qasemi/herald/internal/agent"
	"github.com/mohsen-qasemi/herald/internal/digest"
	"github.com/mohsen-qasemi/herald/internal/feed/newsapi"
	"github.com/mohsen-qasemi/herald/internal/notify"
	"github.com/mohsen-qasemi/herald/internal/scheduler"
	"github.com/mohsen-qasemi/herald/internal/server"
	"github.com/mohsen-qasemi/herald/internal/store"
	"github.com/mohsen-qasemi/herald/provider"
	"github.com/mohsen-qasemi/herald/tools/web_search"
)

func serveCMD() *cobra.Command {
	var cfgPath string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the assistant: HTTP API plus scheduled digests",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)
			logger := log.New(log.Writer(), "[HERALD] ", log.LstdFlags)

			oracle, err := provider.NewProvider(cfg.LLM)
			if err != nil {
				return err
			}
			st, err := store.New(cfg.Storage.Postgres.ConnString())
			if err != nil {
				return err
			}
			rdb := redis.NewClient(&redis.Options{
				Addr:     cfg.Storage.Redis.Addr(),
				Password: cfg.Storage.Redis.Password,
				DB:       cfg.Storage.Redis.DB,
			})

			reader := newsapi.New(cfg.Feeds.APIKey, cfg.Feeds.Endpoint)
			aggregator := digest.NewAggregator(st, reader, log.New(log.Writer(), "[AGG] ", log.LstdFlags))
			generator := digest.NewGenerator(oracle, st, log.New(log.Writer(), "[DIGEST] ", log.LstdFlags))

			var searcher web_search.WebSearcher
			if cfg.Search.APIKey != "" {
				searcher, err = web_search.NewWebSearcher(web_search.Provider(cfg.Search.Provider), cfg.Search.APIKey)
				if err != nil {
					return err
				}
			}

			pending := agent.NewPendingStore()
			registry := agent.NewRegistry()
			if err := agent.RegisterBuiltinTools(registry, agent.BuiltinDeps{
				Oracle:          oracle,
				Searcher:        searcher,
				Channels:        st,
				Resolver:        reader,
				Aggregator:      aggregator,
				Generator:       generator,
				Pending:         pending,
				WindowHours:     cfg.Digest.WindowHours,
				MaxItems:        cfg.Digest.MaxItems,
				MaxCharsPerItem: cfg.Digest.MaxCharsPerItem,
			}); err != nil {
				return err
			}
			router := agent.NewRouter(registry, agent.NewExecutor(registry, nil), oracle, nil)

			loc, err := time.LoadLocation(cfg.Schedule.Location())
			if err != nil {
				return err
			}
			job := &scheduler.DigestJob{
				Aggregator:      aggregator,
				Generator:       generator,
				Deliverer:       notify.NewTelegram(cfg.Telegram.BotToken, ""),
				Recipients:      cfg.Digest.Recipients,
				MaxItems:        cfg.Digest.MaxItems,
				MaxCharsPerItem: cfg.Digest.MaxCharsPerItem,
			}
			sched := scheduler.New(job.Run, rdb, loc, nil)
			for id, at := range map[string]string{
				"morning_digest": cfg.Schedule.Morning,
				"evening_digest": cfg.Schedule.Evening,
			} {
				if at == "" {
					continue
				}
				if err := sched.Register(id, at); err != nil {
					return err
				}
			}
			sched.Start()
			defer sched.Stop()

			logger.Printf("listening on %s", cfg.Server.Address)
			return server.Run(cfg.Server.Address, server.Deps{
				Chat: &server.ChatHandler{
					Router:        router,
					Oracle:        oracle,
					Conversations: agent.NewConversationStore(),
					Pending:       pending,
				},
				Digests: &server.DigestsHandler{
					Aggregator:      aggregator,
					Generator:       generator,
					Store:           st,
					WindowHours:     cfg.Digest.WindowHours,
					MaxItems:        cfg.Digest.MaxItems,
					MaxCharsPerItem: cfg.Digest.MaxCharsPerItem,
				},
				Channels: &server.ChannelsHandler{Store: st, Resolver: reader},
			})
		},
	}
	serve.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config directory (default is .)")
	return serve
}
