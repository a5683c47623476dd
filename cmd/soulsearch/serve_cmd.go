package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SoulShadow8326/soulsearch/internal/httpapi"
	"github.com/SoulShadow8326/soulsearch/internal/obslog"
	"github.com/SoulShadow8326/soulsearch/internal/query"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve ranked search queries over HTTP against a built index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			log := obslog.New(cfg.LogLevel)

			weights := query.Weights{
				TFIDF:    cfg.Ranking.TFIDF,
				Cosine:   cfg.Ranking.Cosine,
				Coverage: cfg.Ranking.Coverage,
				Auth:     cfg.Ranking.Auth,
				Hub:      cfg.Ranking.Hub,
			}

			engine, err := query.Open(cfg.DataDir, cfg.ShardCacheCapacity, weights)
			if err != nil {
				return fmt.Errorf("open query engine: %w", err)
			}
			defer engine.Close()

			srv := httpapi.New(engine, log)
			return srv.ListenAndServe(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	return cmd
}
