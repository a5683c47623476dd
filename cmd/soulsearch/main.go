// Command soulsearch builds and serves the inverted-index search engine:
// "soulsearch index" runs the ingestion/scoring/serialization pipeline
// over a corpus directory, and "soulsearch serve" loads the built
// artifacts and answers queries over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SoulShadow8326/soulsearch/internal/config"
)

var cfgFile string

func main() {
	root := &cobra.Command{
		Use:   "soulsearch",
		Short: "A small-scale inverted-index search engine",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a soulsearch config file")

	root.AddCommand(newIndexCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newQueryCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	return config.Load(cfgFile)
}
