// Package config holds the runtime configuration of the dnacurve command.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/soypat/dnacurve"
	"github.com/soypat/dnacurve/render"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables overriding configuration keys,
// with dots replaced by underscores: DNACURVE_HELIX_RISE sets helix.rise.
const EnvPrefix = "DNACURVE"

// Helix are the DNA helix parameters.
type Helix struct {
	Rise          float64 `mapstructure:"rise"`
	HelixRadius   float64 `mapstructure:"helix_radius"`
	BasesPerTurn  float64 `mapstructure:"bases_per_turn"`
	GrooveAngle   float64 `mapstructure:"groove_angle"`
	InterHelixGap float64 `mapstructure:"inter_helix_gap"`
	Inclination   float64 `mapstructure:"inclination"`
}

// Render sizes exported meshes.
type Render struct {
	NucleotideRadius float64 `mapstructure:"nucleotide_radius"`
	AxisRadius       float64 `mapstructure:"axis_radius"`
	Roll             float64 `mapstructure:"roll"`
	Resolution       int     `mapstructure:"resolution"`
}

// Profile sizes profile plots, in centimeters.
type Profile struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
	Format string  `mapstructure:"format"`
}

// Watch configures the descriptor file watcher.
type Watch struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Config holds all runtime configuration of a dnacurve invocation.
// Values are populated from .dnacurve.yaml, DNACURVE_* env vars, and CLI flags.
type Config struct {
	Helix     Helix   `mapstructure:"helix"`
	Render    Render  `mapstructure:"render"`
	Profile   Profile `mapstructure:"profile"`
	Watch     Watch   `mapstructure:"watch"`
	LogLevel  string  `mapstructure:"log_level"`
	OutputDir string  `mapstructure:"output_dir"`
}

// Init points viper at the configuration file and the environment. An empty
// cfgFile searches .dnacurve.yaml in the working and home directories. A
// missing default file is not an error.
func Init(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".dnacurve")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
		return nil
	}
	return err
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	hp := dnacurve.GearyDNA
	viper.SetDefault("helix.rise", hp.Rise)
	viper.SetDefault("helix.helix_radius", hp.HelixRadius)
	viper.SetDefault("helix.bases_per_turn", hp.BasesPerTurn)
	viper.SetDefault("helix.groove_angle", hp.GrooveAngle)
	viper.SetDefault("helix.inter_helix_gap", hp.InterHelixGap)
	viper.SetDefault("helix.inclination", hp.Inclination)
	style := render.DefaultStyle
	viper.SetDefault("render.nucleotide_radius", style.NucleotideRadius)
	viper.SetDefault("render.axis_radius", style.AxisRadius)
	viper.SetDefault("render.roll", style.Roll)
	viper.SetDefault("render.resolution", style.Resolution)
	viper.SetDefault("profile.width", 16.0)
	viper.SetDefault("profile.height", 10.0)
	viper.SetDefault("profile.format", "png")
	viper.SetDefault("watch.debounce", 200*time.Millisecond)
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("output_dir", ".")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

// HelixParameters returns the validated helix parameters.
func (c Config) HelixParameters() (dnacurve.HelixParameters, error) {
	hp := dnacurve.HelixParameters{
		Rise:          c.Helix.Rise,
		HelixRadius:   c.Helix.HelixRadius,
		BasesPerTurn:  c.Helix.BasesPerTurn,
		GrooveAngle:   c.Helix.GrooveAngle,
		InterHelixGap: c.Helix.InterHelixGap,
		Inclination:   c.Helix.Inclination,
	}
	if err := hp.Validate(); err != nil {
		return dnacurve.HelixParameters{}, err
	}
	return hp, nil
}

// Style returns the mesh style.
func (c Config) Style() render.Style {
	return render.Style{
		NucleotideRadius: c.Render.NucleotideRadius,
		AxisRadius:       c.Render.AxisRadius,
		Roll:             c.Render.Roll,
		Resolution:       c.Render.Resolution,
	}
}

// Level parses the log level.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}
