package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arloliu/starbin/internal/build"
	"github.com/arloliu/starbin/track"
)

var tracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "Encode a grid of MIST evolutionary tracks",
	Long: "Reads the .track.eep file of every (metallicity, mass) cell named by a TOML\n" +
		"manifest and writes them as a pointer-indexed track grid.",
	Args: cobra.NoArgs,
	RunE: runTracks,
}

func init() {
	flags := tracksCmd.Flags()
	flags.StringP("manifest", "m", "", "TOML manifest describing the grid")
	flags.StringP("output", "o", "", "output file")
	flags.String("missing", "", "what to do about a missing cell file: fail or empty")

	_ = viper.BindPFlag("tracks.manifest", flags.Lookup("manifest"))
	_ = viper.BindPFlag("tracks.output", flags.Lookup("output"))
	_ = viper.BindPFlag("tracks.missing", flags.Lookup("missing"))

	rootCmd.AddCommand(tracksCmd)
}

func runTracks(cmd *cobra.Command, _ []string) error {
	rt, err := newSession(cmd)
	if err != nil {
		return err
	}

	cfg := rt.cfg.Tracks
	what := targets{files: []string{cfg.Manifest}, output: cfg.Output}
	if rt.watch {
		what.dirs = cellDirs(cfg.Manifest)
	}

	return rt.run(cmd, what, func() (build.Result, error) {
		return build.Tracks(cfg, rt.options())
	})
}

// cellDirs lists the distinct directories holding the manifest's cell files. A manifest
// that does not load yields none; the build reports the error.
func cellDirs(manifest string) []string {
	m, err := track.LoadManifest(manifest)
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var dirs []string
	for i := range m.Metallicities {
		for j := range m.Masses {
			dir := filepath.Dir(m.Path(i, j))
			if _, ok := seen[dir]; ok {
				continue
			}
			seen[dir] = struct{}{}
			dirs = append(dirs, dir)
		}
	}

	return dirs
}
