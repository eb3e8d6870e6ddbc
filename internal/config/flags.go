package config

// This file registers CLI flags and merges them with environment variables
// and an optional config file. Precedence: flag > env (VIDBATCH_*) > file >
// DefaultConfig. Negated flags (e.g. --no-skip-existing) are applied last so
// they always win over file and env values.

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every config key when read from the environment
// (e.g. VIDBATCH_LOG_DIR).
const EnvPrefix = "VIDBATCH"

// Config keys shared by flags, env, and config files.
const (
	keyOutputDir    = "output_dir"
	keyLogDir       = "log_dir"
	keyEncoder      = "encoder"
	keyProber       = "ffprobe"
	keySkipExisting = "skip_existing"
	keyVerbose      = "verbose"
	keyColor        = "color"
	keyMetricsFile  = "metrics_file"
)

// RegisterFlags defines every vidbatch flag on fs. Defaults shown in help
// come from DefaultConfig.
func RegisterFlags(fs *pflag.FlagSet) {
	def := DefaultConfig()

	fs.StringP("output-dir", "o", "", "Output directory (default: <source_dir>/converted)")
	fs.Bool("no-skip-existing", false, "Re-convert files whose output already exists")
	fs.BoolP("verbose", "v", false, "Verbose logging; mirror errors to stderr")

	fs.String("config", "", "Optional config file (yaml, toml or json)")
	fs.String("log-dir", def.LogDir, "Directory for timestamped run logs")
	fs.String("metrics-file", "", "Write Prometheus textfile metrics here at run end")
	fs.String("color", string(def.ColorMode), "Color output: auto | always | never")
	fs.String("encoder", def.EncoderPath, "Encoder binary")
	fs.String("ffprobe", def.ProberPath, "Prober binary used for duration lookup")
}

// Load builds a Config from DefaultConfig, an optional config file, the
// environment, the flags registered by [RegisterFlags], and the positional
// args (exactly one source directory). It does not call Validate.
func Load(fs *pflag.FlagSet, args []string) (Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyOutputDir, "")
	v.SetDefault(keyLogDir, cfg.LogDir)
	v.SetDefault(keyEncoder, cfg.EncoderPath)
	v.SetDefault(keyProber, cfg.ProberPath)
	v.SetDefault(keySkipExisting, cfg.SkipExisting)
	v.SetDefault(keyVerbose, false)
	v.SetDefault(keyColor, string(cfg.ColorMode))
	v.SetDefault(keyMetricsFile, "")

	bindings := map[string]string{
		keyOutputDir:   "output-dir",
		keyLogDir:      "log-dir",
		keyEncoder:     "encoder",
		keyProber:      "ffprobe",
		keyVerbose:     "verbose",
		keyColor:       "color",
		keyMetricsFile: "metrics-file",
	}
	for key, name := range bindings {
		if f := fs.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return cfg, fmt.Errorf("bind flag --%s: %w", name, err)
			}
		}
	}

	if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
		cfg.ConfigFile = f.Value.String()
		v.SetConfigFile(cfg.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config %s: %w", cfg.ConfigFile, err)
		}
	}

	cfg.OutputDir = NormalizeDirArg(v.GetString(keyOutputDir))
	cfg.LogDir = v.GetString(keyLogDir)
	cfg.EncoderPath = v.GetString(keyEncoder)
	cfg.ProberPath = v.GetString(keyProber)
	cfg.SkipExisting = v.GetBool(keySkipExisting)
	cfg.Verbose = v.GetBool(keyVerbose)
	cfg.MetricsFile = v.GetString(keyMetricsFile)

	mode, err := parseColorMode(v.GetString(keyColor))
	if err != nil {
		return cfg, err
	}
	cfg.ColorMode = mode

	if noSkip, err := fs.GetBool("no-skip-existing"); err == nil && noSkip {
		cfg.SkipExisting = false
	}

	if len(args) != 1 {
		return cfg, fmt.Errorf("need exactly one source_dir (got %d args)", len(args))
	}
	cfg.SourceDir = NormalizeDirArg(args[0])
	return cfg, nil
}

func parseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
}
