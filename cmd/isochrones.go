package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arloliu/starbin/internal/build"
)

var isochronesCmd = &cobra.Command{
	Use:   "isochrones",
	Short: "Group a MIST .iso table by age into evolution tracks",
	Args:  cobra.NoArgs,
	RunE:  runIsochrones,
}

func init() {
	flags := isochronesCmd.Flags()
	flags.StringP("input", "i", "", "MIST .iso file (plain or compressed)")
	flags.StringP("output", "o", "", "output file")

	_ = viper.BindPFlag("isochrones.input", flags.Lookup("input"))
	_ = viper.BindPFlag("isochrones.output", flags.Lookup("output"))

	rootCmd.AddCommand(isochronesCmd)
}

func runIsochrones(cmd *cobra.Command, _ []string) error {
	rt, err := newSession(cmd)
	if err != nil {
		return err
	}

	cfg := rt.cfg.Isochrones
	what := targets{files: []string{cfg.Input}, output: cfg.Output}

	return rt.run(cmd, what, func() (build.Result, error) {
		return build.Isochrones(cfg, rt.options())
	})
}
