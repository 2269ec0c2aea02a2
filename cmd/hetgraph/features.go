package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rohankatakam/hetgraph/internal/config"
	"github.com/rohankatakam/hetgraph/internal/featurestore"
	"github.com/spf13/cobra"
)

var defaultJSON string

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Read and write the feature cache",
}

var featuresPutCmd = &cobra.Command{
	Use:   "put [key] [json]",
	Short: "Store a JSON value under key",
	Long: `Store a JSON value under key, overwriting any existing entry.

Examples:
  hetgraph features put tx-42 '[[1, 2], [3, 4]]'`,
	Args: cobra.ExactArgs(2),
	RunE: runFeaturesPut,
}

var featuresGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print the value under key as a numeric array",
	Long: `Print the value under key as a numeric array, or the --default value
when the key is absent. The default is never written to the store.

Examples:
  hetgraph features get tx-42 --default '[0, 0]'`,
	Args: cobra.ExactArgs(1),
	RunE: runFeaturesGet,
}

func init() {
	featuresGetCmd.Flags().StringVar(&defaultJSON, "default", "[]", "JSON value returned when the key is absent")

	featuresCmd.AddCommand(featuresPutCmd)
	featuresCmd.AddCommand(featuresGetCmd)
}

func openStore(cmd *cobra.Command) (*featurestore.Store[string], error) {
	if result := cfg.Validate(config.ValidationContextFeatures); result.HasErrors() {
		return nil, result.Err()
	}
	backing, err := featurestore.Open(cmd.Context(), cfg.Store)
	if err != nil {
		return nil, err
	}
	logger.Debugf("Feature store backend: %s", cfg.Store.Backend)
	return featurestore.New(backing), nil
}

func runFeaturesPut(cmd *cobra.Command, args []string) error {
	value, err := parseJSON(args[1])
	if err != nil {
		return err
	}
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Put(cmd.Context(), args[0], value); err != nil {
		return err
	}
	logger.Infof("Stored %s", args[0])
	return nil
}

func runFeaturesGet(cmd *cobra.Command, args []string) error {
	def, err := parseJSON(defaultJSON)
	if err != nil {
		return fmt.Errorf("--default: %w", err)
	}
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	arr, err := store.Get(cmd.Context(), args[0], def)
	if err != nil {
		return err
	}
	out, err := json.Marshal(arr)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// parseJSON keeps numbers as json.Number so integers survive exactly
func parseJSON(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON value: %w", err)
	}
	return v, nil
}
