package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arloliu/starbin/internal/build"
)

var catalogueCmd = &cobra.Command{
	Use:     "catalogue",
	Aliases: []string{"catalog"},
	Short:   "Filter the ATHYG CSV parts into the binary star catalogue",
	Long: "Reads the ATHYG CSV parts in order (plain or compressed), keeps stars that are\n" +
		"near or bright, derives luminosity and temperature, and writes star_catalog.bin.",
	Args: cobra.NoArgs,
	RunE: runCatalogue,
}

func init() {
	flags := catalogueCmd.Flags()
	flags.StringSliceP("input", "i", nil, "ATHYG CSV parts in order (.csv, .csv.gz, .csv.zst, ...)")
	flags.StringP("output", "o", "", "output file")
	flags.Float64("max-distance", 0, "keep stars closer than this many parsecs")
	flags.Float64("max-apparent-mag", 0, "keep stars brighter than this apparent magnitude")
	flags.Float64("max-absolute-mag", 0, "keep stars brighter than this absolute magnitude")
	flags.StringSlice("exclude", nil, "proper names to drop")

	_ = viper.BindPFlag("catalogue.inputs", flags.Lookup("input"))
	_ = viper.BindPFlag("catalogue.output", flags.Lookup("output"))
	_ = viper.BindPFlag("catalogue.max_distance_pc", flags.Lookup("max-distance"))
	_ = viper.BindPFlag("catalogue.max_apparent_mag", flags.Lookup("max-apparent-mag"))
	_ = viper.BindPFlag("catalogue.max_absolute_mag", flags.Lookup("max-absolute-mag"))
	_ = viper.BindPFlag("catalogue.exclude", flags.Lookup("exclude"))

	rootCmd.AddCommand(catalogueCmd)
}

func runCatalogue(cmd *cobra.Command, _ []string) error {
	rt, err := newSession(cmd)
	if err != nil {
		return err
	}

	cfg := rt.cfg.Catalogue
	what := targets{files: cfg.Inputs, output: cfg.Output}

	return rt.run(cmd, what, func() (build.Result, error) {
		return build.Catalogue(cfg, rt.options())
	})
}
