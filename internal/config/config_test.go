package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/soypat/dnacurve"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	cfg, err := Load()
	require.NoError(t, err)

	hp, err := cfg.HelixParameters()
	require.NoError(t, err)
	require.Equal(t, dnacurve.GearyDNA, hp)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"LogLevel", cfg.LogLevel, "warn"},
		{"OutputDir", cfg.OutputDir, "."},
		{"Resolution", cfg.Render.Resolution, 12},
		{"ProfileFormat", cfg.Profile.Format, "png"},
		{"Debounce", cfg.Watch.Debounce, 200 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
	level, err := cfg.Level()
	require.NoError(t, err)
	require.Equal(t, slog.LevelWarn, level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "helix.rise",
			envKey: "DNACURVE_HELIX_RISE",
			envVal: "0.34",
			field:  func(c Config) any { return c.Helix.Rise },
			want:   0.34,
		},
		{
			name:   "render.resolution",
			envKey: "DNACURVE_RENDER_RESOLUTION",
			envVal: "24",
			field:  func(c Config) any { return c.Render.Resolution },
			want:   24,
		},
		{
			name:   "log_level",
			envKey: "DNACURVE_LOG_LEVEL",
			envVal: "debug",
			field:  func(c Config) any { return c.LogLevel },
			want:   "debug",
		},
		{
			name:   "watch.debounce",
			envKey: "DNACURVE_WATCH_DEBOUNCE",
			envVal: "1s",
			field:  func(c Config) any { return c.Watch.Debounce },
			want:   time.Second,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Setenv(tt.envKey, tt.envVal)
			require.NoError(t, Init(""))
			cfg, err := Load()
			require.NoError(t, err)
			got := tt.field(cfg)
			if got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestInit_ConfigFile(t *testing.T) {
	viper.Reset()
	path := filepath.Join(t.TempDir(), "dnacurve.yaml")
	const doc = `
helix:
  bases_per_turn: 10.5
  inclination: -0.745
render:
  axis_radius: 0
output_dir: out
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	require.NoError(t, Init(path))
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 10.5, cfg.Helix.BasesPerTurn)
	require.Equal(t, -0.745, cfg.Helix.Inclination)
	require.Equal(t, dnacurve.GearyDNA.Rise, cfg.Helix.Rise)
	require.Equal(t, "out", cfg.OutputDir)
	style := cfg.Style()
	require.Zero(t, style.AxisRadius)
	require.Equal(t, 12, style.Resolution)

	viper.Reset()
	require.Error(t, Init(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestHelixParameters_Invalid(t *testing.T) {
	viper.Reset()
	viper.Set("helix.rise", -1)
	viper.Set("log_level", "loud")
	cfg, err := Load()
	require.NoError(t, err)
	_, err = cfg.HelixParameters()
	require.ErrorIs(t, err, dnacurve.ErrInvalidParameter)
	_, err = cfg.Level()
	require.Error(t, err)
}
