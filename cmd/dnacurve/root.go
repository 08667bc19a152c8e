// Command dnacurve discretizes curve descriptors into DNA helices and
// exports them as meshes and plots.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/soypat/dnacurve"
	"github.com/soypat/dnacurve/descriptor"
	"github.com/soypat/dnacurve/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dnacurve",
	Short: "Discretize curves into DNA helices",
	Long: "dnacurve reads curve descriptors (JSON, YAML or TOML), samples them every helix rise and " +
		"exports the resulting nucleotides.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var (
	cfg   config.Config
	hp    dnacurve.HelixParameters
	cache = descriptor.NewCache()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default .dnacurve.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log discretization details")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if err := config.Init(cfgFile); err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	dnacurve.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	hp, err = cfg.HelixParameters()
	return err
}

// loadCurve discretizes the descriptor stored at path. Descriptors referring
// to a design cannot be resolved from a file alone and are rejected.
func loadCurve(path string) (*dnacurve.Discretized, error) {
	desc, err := descriptor.Load(path)
	if err != nil {
		return nil, err
	}
	inst, ok := descriptor.TryInstantiate(descriptor.Share(desc))
	if !ok {
		return nil, fmt.Errorf("%s: %s descriptor needs a design: %w", path, desc.Kind(), descriptor.ErrNeedsSource)
	}
	d := inst.Curve(hp, cache)
	if d.Len() == 0 {
		return nil, errors.New(path + ": curve holds no nucleotide")
	}
	return d, nil
}

// outputPath returns flag if set, otherwise the input file name with its
// extension replaced by ext inside the configured output directory.
func outputPath(flag, input, ext string) string {
	if flag != "" {
		return flag
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(cfg.OutputDir, base+ext)
}
