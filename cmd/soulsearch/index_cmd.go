package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SoulShadow8326/soulsearch/internal/linkgraph"
	"github.com/SoulShadow8326/soulsearch/internal/obslog"
	"github.com/SoulShadow8326/soulsearch/internal/pipeline"
)

func newIndexCmd() *cobra.Command {
	var corpusDir string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the inverted index from a directory of crawled JSON records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			log := obslog.New(cfg.LogLevel)

			buildCfg := pipeline.Config{
				Workers:             cfg.Workers,
				MaxIndexSizeBytes:   cfg.MaxIndexSizeBytes,
				SimilarityThreshold: cfg.SimilarityThreshold,
				DataDir:             cfg.DataDir,
				HITS:                linkgraph.HITSConfig{MaxIterations: cfg.HITS.MaxIterations, Threshold: cfg.HITS.Threshold},
				PageRank: linkgraph.PageRankConfig{
					Damping:       cfg.PageRank.Damping,
					MaxIterations: cfg.PageRank.MaxIterations,
					Threshold:     cfg.PageRank.Threshold,
				},
			}

			result, err := pipeline.Build(context.Background(), corpusDir, buildCfg, log)
			if err != nil {
				return fmt.Errorf("build index: %w", err)
			}

			log.Info().
				Int("accepted", result.AcceptedDocs).
				Int("rejected_duplicates", result.RejectedDups).
				Int("skipped", result.SkippedBad).
				Msg("index build complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&corpusDir, "corpus", "", "directory of crawled JSON records")
	cmd.MarkFlagRequired("corpus")
	return cmd
}
