package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/catalog"
	"travel_planner/internal/shared"
)

// planner holds what every subcommand needs once flags and config are parsed.
type planner struct {
	cfg     shared.Config
	raw     string
	cleaned string
}

func (p *planner) provider() *catalog.Provider {
	return catalog.NewProvider(p.rawPath(), p.cleanedPath())
}

func (p *planner) rawPath() string {
	if p.raw != "" {
		return p.raw
	}
	return p.cfg.RawDataPath
}

func (p *planner) cleanedPath() string {
	if p.cleaned != "" {
		return p.cleaned
	}
	return p.cfg.CleanedDataPath
}

func newRootCmd() *cobra.Command {
	p := &planner{}
	root := &cobra.Command{
		Use:   "planner",
		Short: "Travel destination recommendations",
		Long: `Ranks destinations from the travel dataset by how well they match a
budget tier and a set of trip types, and manages user-submitted ratings.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := shared.Load()
			if err != nil {
				return err
			}
			p.cfg = cfg
			log.Logger = observability.NewLoggerTo(cmd.ErrOrStderr(), cfg.AppEnv, cfg.LogLevel)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&p.raw, "raw", "", "raw dataset path (default RAW_DATA_PATH)")
	root.PersistentFlags().StringVar(&p.cleaned, "cleaned", "", "cleaned dataset path (default CLEANED_DATA_PATH)")

	root.AddCommand(
		newRecommendCmd(p),
		newCleanCmd(p),
		newOptionsCmd(),
		newRatingsCmd(p),
	)
	return root
}
