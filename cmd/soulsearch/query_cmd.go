package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SoulShadow8326/soulsearch/internal/query"
)

func newQueryCmd() *cobra.Command {
	var k int

	cmd := &cobra.Command{
		Use:   "query [terms...]",
		Short: "Run a single ad-hoc query against a built index and print results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

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

			results, err := engine.Search(strings.Join(args, " "), k)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			for rank, r := range results {
				fmt.Printf("%d. %s  (score=%.4f, matched=%v)\n", rank+1, r.URL, r.Score, r.MatchedTerms)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&k, "k", 10, "number of results to return")
	return cmd
}
