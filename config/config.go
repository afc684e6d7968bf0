package config

import (
	"io"
	"io/fs"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes the environment variable of each setting, e.g. ALKANES_MAX_CARBONS.
const EnvPrefix = "ALKANES"

var (
	ErrBadConfig = errors.New("bad config")
)

// Config holds the settings of an enumeration run.
//
// Each field is named by its config key; its env var is EnvPrefix_<KEY> and its CLI flag is listed in flagKeys.
type Config struct {
	MaxCarbons  int    `mapstructure:"max_carbons"  yaml:"max_carbons"  validate:"min=1,max=30"`
	Labeller    string `mapstructure:"labeller"     yaml:"labeller"     validate:"oneof=morgan ahu"`
	Index       string `mapstructure:"index"        yaml:"index"        validate:"oneof=scan tree lsm"`
	Workers     int    `mapstructure:"workers"      yaml:"workers"      validate:"min=0,max=256"`
	BatchSize   int    `mapstructure:"batch_size"   yaml:"batch_size"   validate:"min=1"`
	MaxIsomers  int64  `mapstructure:"max_isomers"  yaml:"max_isomers"  validate:"min=0"`
	OutputDir   string `mapstructure:"output"       yaml:"output"`
	Compress    bool   `mapstructure:"compress"     yaml:"compress"`
	Catalog     string `mapstructure:"catalog"      yaml:"catalog"`
	MetricsAddr string `mapstructure:"metrics_addr" yaml:"metrics_addr"`
	Format      string `mapstructure:"format"       yaml:"format"       validate:"oneof=table compact"`
}

// flagKeys maps each config key to the CLI flag that sets it.
var flagKeys = []struct {
	key  string
	flag string
}{
	{"max_carbons", "max"},
	{"labeller", "labeller"},
	{"index", "index"},
	{"workers", "workers"},
	{"batch_size", "batch-size"},
	{"max_isomers", "max-isomers"},
	{"output", "output"},
	{"compress", "compress"},
	{"catalog", "catalog"},
	{"metrics_addr", "metrics-addr"},
	{"format", "format"},
}

// Default returns the settings used when nothing else is specified.
func Default() Config {
	return Config{
		MaxCarbons: 20,
		Labeller:   "morgan",
		Index:      "tree",
		BatchSize:  512,
		Format:     "table",
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("mapstructure")
	})
	return v
}

// Validate checks every field against its constraints.
func (cfg *Config) Validate() error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return errors.Wrapf(ErrBadConfig, "%s=%v fails %q", fe.Field(), fe.Value(), fe.Tag())
	}
	return errors.Wrap(ErrBadConfig, err.Error())
}

// newViper returns a viper instance holding the defaults and reading ALKANES_* env vars.
func newViper() *viper.Viper {
	v := viper.New()
	def := Default()
	v.SetDefault("max_carbons", def.MaxCarbons)
	v.SetDefault("labeller", def.Labeller)
	v.SetDefault("index", def.Index)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("batch_size", def.BatchSize)
	v.SetDefault("max_isomers", def.MaxIsomers)
	v.SetDefault("output", def.OutputDir)
	v.SetDefault("compress", def.Compress)
	v.SetDefault("catalog", def.Catalog)
	v.SetDefault("metrics_addr", def.MetricsAddr)
	v.SetDefault("format", def.Format)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load resolves the settings of a run and validates them.
//
// Precedence, lowest first: defaults, the YAML file at pathname (if given), env vars, then
// the flags in flags (if non-nil) that were explicitly set.
// Variables in envFiles (".env" if none are given) are loaded first, never replacing variables already set.
// A missing env file is not an error.
func Load(pathname string, flags *pflag.FlagSet, envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "loading env file")
	}

	v := newViper()
	if pathname != "" {
		v.SetConfigFile(pathname)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(ErrBadConfig, "%s: %v", pathname, err)
		}
	}

	if flags != nil {
		for _, kf := range flagKeys {
			if flag := flags.Lookup(kf.flag); flag != nil {
				if err := v.BindPFlag(kf.key, flag); err != nil {
					return nil, err
				}
			}
		}
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return nil, errors.Wrap(ErrBadConfig, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteYAML writes cfg in the config file format.
func (cfg *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

// RegisterFlags adds a flag for each setting to flags, using cfg's values as the flag defaults.
func RegisterFlags(flags *pflag.FlagSet, cfg Config) {
	flags.Int("max", cfg.MaxCarbons, "largest carbon count to enumerate")
	flags.String("labeller", cfg.Labeller, "canonical labeller: morgan or ahu")
	flags.String("index", cfg.Index, "signature index: scan, tree or lsm")
	flags.Int("workers", cfg.Workers, "number of labelling workers (0 labels on the calling goroutine)")
	flags.Int("batch-size", cfg.BatchSize, "parents labelled per worker batch")
	flags.Int64("max-isomers", cfg.MaxIsomers, "abort if a level exceeds this many isomers (0 for no limit)")
	flags.String("output", cfg.OutputDir, "directory to write <N>.isomers artifacts to")
	flags.Bool("compress", cfg.Compress, "zstd compress written artifacts")
	flags.String("catalog", cfg.Catalog, "catalog db path used to resume and store levels")
	flags.String("metrics-addr", cfg.MetricsAddr, "serve prometheus metrics on this address, e.g. :9090")
	flags.String("format", cfg.Format, "summary format: table or compact")
}
