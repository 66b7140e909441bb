package main

import (
	"fmt"
	"strings"

	"buzzboard/config"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type flags struct {
	configFile string
	port       string
	bind       string
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:           "buzzboard",
		Short:         "Classroom quiz board game server with live buzzers.",
		Args:          cobra.ExactArgs(0),
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), f)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.PersistentFlags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.StringVarP(&f.configFile, "config", "c", "", "path to a config file (yaml, toml or json)")
	fs.StringVarP(&f.port, "port", "p", "8080", "port to listen on (env: PORT)")
	fs.StringVarP(&f.bind, "bind", "b", "0.0.0.0", "address to bind to (env: BIND_ADDRESS)")

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), f)
			if err != nil {
				return err
			}
			return migrate(cfg)
		},
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetVersionTemplate("buzzboard v{{.Version}}\n")

	return cmd
}

// loadConfig layers explicitly set flags over the environment, the config
// file and the defaults.
func loadConfig(fs *pflag.FlagSet, f *flags) (*config.Config, error) {
	v, err := config.NewViper(f.configFile)
	if err != nil {
		return nil, err
	}
	if err := bindFlags(v, fs); err != nil {
		return nil, err
	}
	return config.FromViper(v)
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for key, name := range map[string]string{
		"port":         "port",
		"bind_address": "bind",
	} {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}
