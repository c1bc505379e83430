package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/zjrosen/invsources/internal/catalog"
	"github.com/zjrosen/invsources/internal/config"
	"github.com/zjrosen/invsources/internal/log"
	"github.com/zjrosen/invsources/internal/presentation"
	"github.com/zjrosen/invsources/internal/registry"
	"github.com/zjrosen/invsources/internal/tracing"
)

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

// env holds what every subcommand needs. Built once per invocation by
// setup and torn down by teardown.
type env struct {
	registry  *registry.Registry
	pipeline  *catalog.Pipeline
	formatter *presentation.Formatter
	tracing   *tracing.Provider
	closeLog  func()
}

var rt *env

var rootCmd = &cobra.Command{
	Use:   "invsources",
	Short: "Inspect the inventory source catalogue",
	Long: `Inspect the inventory source plugins known to the registry and the
catalogues derived from them: discovered plugin names, the source catalogue
(plugins plus scm and constructed) and the combined options (plus file).`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
		return teardown(cmd.Context())
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/invsources/config.yaml)")
	rootCmd.PersistentFlags().StringP("format", "f", "",
		"output format: "+presentation.FormatNames())
	rootCmd.PersistentFlags().String("injectors", "",
		"extra injectors YAML file registered after the built-in ones")
	rootCmd.PersistentFlags().Bool("no-builtin", false,
		"skip the built-in injectors; --injectors must list the whole registry")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"write debug logs (default file: invsources.log)")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("output.format", defaults.Output.Format)
	viper.SetDefault("registry.injectors_file", defaults.Registry.InjectorsFile)
	viper.SetDefault("registry.skip_builtin", defaults.Registry.SkipBuiltin)
	viper.SetDefault("log.enabled", defaults.Log.Enabled)
	viper.SetDefault("log.path", defaults.Log.Path)
	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	_ = viper.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("registry.injectors_file", rootCmd.PersistentFlags().Lookup("injectors"))
	_ = viper.BindPFlag("registry.skip_builtin", rootCmd.PersistentFlags().Lookup("no-builtin"))

	viper.SetEnvPrefix("INVSOURCES")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .invsources/config.yaml (current directory)
		// 2. ~/.config/invsources/config.yaml (user config)
		if _, err := os.Stat(config.DefaultConfigPath); err == nil {
			viper.SetConfigFile(config.DefaultConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "invsources"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .invsources/config.yaml
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if writeErr := config.WriteDefaultConfig(config.DefaultConfigPath); writeErr == nil {
				viper.SetConfigFile(config.DefaultConfigPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
	if debugFlag {
		cfg.Log.Enabled = true
	}
}

// configPath is where config:set writes.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return config.DefaultConfigPath
}

func setup(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	format, _ := cfg.OutputFormat()

	r := &env{closeLog: func() {}}

	if cfg.Log.Enabled {
		path := cfg.Log.Path
		if path == "" {
			path = config.DefaultLogPath
		}
		cleanup, err := log.Init(path)
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		log.SetMinLevel(log.ParseLevel(cfg.Log.Level))
		r.closeLog = func() {
			cleanup()
			log.Reset()
		}
		log.Info(log.CatConfig, "invsources starting", "command", cmd.Name(), "config", viper.ConfigFileUsed())
	}

	provider, err := tracing.NewProvider(cfg.ResolveTracing())
	if err != nil {
		r.closeLog()
		return fmt.Errorf("initializing tracing: %w", err)
	}
	r.tracing = provider

	reg, err := loadRegistry(cmd.Context(), provider, cfg.Registry)
	if err != nil {
		_ = provider.Shutdown(context.Background())
		r.closeLog()
		return fmt.Errorf("invalid plugin registry: %w", err)
	}

	r.registry = reg
	r.pipeline = catalog.NewPipeline(reg, catalog.WithTracer(provider.Tracer()))
	r.formatter = presentation.NewFormatter(cmd.OutOrStdout(), format)
	rt = r
	return nil
}

// loadRegistry builds the built-in registry and appends the injectors file,
// if any. The registry is never modified after this returns.
func loadRegistry(ctx context.Context, provider *tracing.Provider, rc config.RegistryConfig) (*registry.Registry, error) {
	_, span := provider.Tracer().Start(ctx, tracing.SpanLoadRegistry)
	defer span.End()

	var (
		reg = registry.New()
		err error
	)
	if !rc.SkipBuiltin {
		reg, err = registry.Builtin()
	}
	if err == nil && rc.InjectorsFile != "" {
		dir, file := filepath.Split(filepath.Clean(rc.InjectorsFile))
		if dir == "" {
			dir = "."
		}
		err = reg.LoadFile(os.DirFS(dir), file)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatRegistry, "Failed to load plugin registry", err, "injectors_file", rc.InjectorsFile)
		return nil, err
	}

	span.SetAttributes(attribute.Int(tracing.AttrRegistrySize, reg.Len()))
	log.Debug(log.CatRegistry, "Plugin registry ready", "plugins", reg.Len())
	return reg, nil
}

func teardown(ctx context.Context) error {
	if rt == nil {
		return nil
	}
	r := rt
	rt = nil

	stats := r.pipeline.Stats()
	log.Debug(log.CatCache, "Catalogue computations",
		"plugin_names", stats.PluginNames,
		"source_catalog", stats.SourceCatalog,
		"combined_options", stats.CombinedOptions)

	err := r.tracing.Shutdown(ctx)
	r.closeLog()
	return err
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	// PersistentPostRunE is skipped when a command fails.
	if shutdownErr := teardown(context.Background()); err == nil {
		err = shutdownErr
	}
	return err
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
