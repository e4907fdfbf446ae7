// Package main provides the SpecLens CLI for querying a catalog file offline.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/speclens/backend/internal/domain"
	"github.com/speclens/backend/internal/infrastructure/catalog"
	"github.com/speclens/backend/internal/logging"
	"github.com/speclens/backend/internal/usecase"
)

const commandTimeout = 30 * time.Second

// cli carries global flags and the service built from them
type cli struct {
	catalogPath string
	verbose     bool

	service *usecase.RecommendationService
}

func newRootCmd() *cobra.Command {
	app := &cli{}

	rootCmd := &cobra.Command{
		Use:   "speclens",
		Short: "Query product relationships and recommendations from a catalog file",
		Long: `speclens runs the recommendation engine against a local catalog file.

Use this tool to:
- List related products for a catalog entry
- Find cheaper, pricier and similarly priced alternatives
- Rank the catalog for a predefined persona
- Print authored leaderboards and the overall leader

Every command prints indented JSON.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if app.verbose {
				level = "debug"
			}
			logging.Init(logging.Config{Level: level, Format: "console", Output: cmd.ErrOrStderr()})

			store, err := catalog.NewFileStore(app.catalogPath)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			app.service = usecase.NewRecommendationService(store, nil, usecase.RecommendationServiceConfig{})
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&app.catalogPath, "catalog", "c", "data/catalog.yaml", "catalog file (yaml or json)")
	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable debug logging on stderr")

	rootCmd.AddCommand(app.newRelatedCmd())
	rootCmd.AddCommand(app.newAlternativesCmd())
	rootCmd.AddCommand(app.newCompareCmd())
	rootCmd.AddCommand(app.newMatchCmd())
	rootCmd.AddCommand(app.newRankCmd())
	rootCmd.AddCommand(app.newLeaderCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}

// newRelatedCmd creates the related subcommand.
func (app *cli) newRelatedCmd() *cobra.Command {
	var limits domain.RelationshipLimits

	cmd := &cobra.Command{
		Use:   "related <product-id>",
		Short: "List similar, alternative, upgrade, downgrade and cross-brand products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			related, err := app.service.RelatedProducts(ctx, args[0], limits)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), related)
		},
	}

	cmd.Flags().IntVar(&limits.Similar, "similar", 0, "max similar products (default 6)")
	cmd.Flags().IntVar(&limits.Alternative, "alternative", 0, "max alternatives (default 6)")
	cmd.Flags().IntVar(&limits.Upgrade, "upgrade", 0, "max upgrades (default 4)")
	cmd.Flags().IntVar(&limits.Downgrade, "downgrade", 0, "max downgrades (default 4)")
	cmd.Flags().IntVar(&limits.CrossBrand, "cross-brand", 0, "max cross-brand products (default 6)")

	return cmd
}

// newAlternativesCmd creates the alternatives subcommand.
func (app *cli) newAlternativesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alternatives <product-id>",
		Short: "Show the budget downgrade, upgrade and similarly priced pick",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			alternatives, err := app.service.BudgetAlternatives(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), alternatives)
		},
	}
}

// newCompareCmd creates the compare subcommand.
func (app *cli) newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <product-id> <other-id>",
		Short: "Score two products head to head",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			comparison, err := app.service.Compare(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), comparison)
		},
	}
}

// newMatchCmd creates the match subcommand.
func (app *cli) newMatchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "match <persona-id>",
		Short: "Rank the catalog for a predefined persona",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			matches, err := app.service.MatchPersonaByID(ctx, args[0], limit)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), matches)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "max matches (0 lists every product)")

	return cmd
}

// newRankCmd creates the rank subcommand.
func (app *cli) newRankCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rank [criterion]",
		Short: "Print one criterion leaderboard, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			if len(args) == 0 {
				overview, err := app.service.Rankings(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), overview)
			}

			ranking, err := app.service.RankingFor(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), ranking)
		},
	}
}

// newLeaderCmd creates the leader subcommand.
func (app *cli) newLeaderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leader",
		Short: "Print the product with the best combined rank across criteria",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			leader, err := app.service.OverallLeader(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), leader)
		},
	}
}
