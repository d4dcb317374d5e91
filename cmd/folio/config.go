package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/aretw0/folio"
	"github.com/aretw0/folio/internal/platform"
	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/render"
	"github.com/aretw0/folio/pkg/site"
)

// settings mirrors folio.yaml.
type settings struct {
	Root    string `mapstructure:"root"`
	Include string `mapstructure:"include"`
	Out     string `mapstructure:"out"`
	Addr    string `mapstructure:"addr"`

	Site struct {
		Name        string `mapstructure:"name"`
		Description string `mapstructure:"description"`
		URL         string `mapstructure:"url"`
		Author      string `mapstructure:"author"`
	} `mapstructure:"site"`

	Render struct {
		HeadingClasses map[string]string `mapstructure:"headingclasses"`
	} `mapstructure:"render"`
}

// flagKeys maps command flags to config keys. Flags override the file and the environment.
var flagKeys = map[string]string{
	"root":    "root",
	"include": "include",
	"out":     "out",
	"addr":    "addr",
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	var s settings
	v := viper.New()

	v.SetDefault("root", "content")
	v.SetDefault("out", "public")
	v.SetDefault("addr", ":3000")
	v.SetDefault("include", "")
	// Registered so FOLIO_SITE_* variables reach Unmarshal.
	for _, key := range []string{"name", "description", "url", "author"} {
		v.SetDefault("site."+key, "")
	}

	base, err := os.Getwd()
	if err != nil {
		return s, fmt.Errorf("failed to get working directory: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if found, err := folio.FindRoot(base); err == nil {
			base = found
		}
		v.AddConfigPath(base)
		v.SetConfigName(strings.TrimSuffix(platform.ConfigName, filepath.Ext(platform.ConfigName)))
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return s, fmt.Errorf("failed to read config file: %w", err)
		}
		if cfgFile != "" {
			return s, fmt.Errorf("config file %s not found: %w", cfgFile, err)
		}
		logger.Debug("no config file found, using defaults", "dir", base)
	} else {
		base = filepath.Dir(v.ConfigFileUsed())
		logger.Debug("using config file", "path", v.ConfigFileUsed())
	}

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
			bindErr = v.BindPFlag(key, f)
		}
	})
	if bindErr != nil {
		return s, bindErr
	}

	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("unable to decode config: %w", err)
	}

	s.Root = resolve(base, s.Root)
	s.Out = resolve(base, s.Out)
	return s, nil
}

// resolve makes relative paths relative to the site directory.
func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

func (s settings) service() (*core.Service, error) {
	return folio.New(s.Root, folio.WithInclude(s.Include), folio.WithLogger(logger))
}

// open returns the filesystem repository too, for commands that watch it.
func (s settings) open() (*fs.Repository, *core.Service, error) {
	repo, err := folio.Open(s.Root, folio.WithInclude(s.Include), folio.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	fsRepo, ok := repo.(*fs.Repository)
	if !ok {
		return nil, nil, fmt.Errorf("repository %T cannot be watched", repo)
	}
	return fsRepo, core.NewService(fsRepo, logger), nil
}

func (s settings) renderer() (*render.Renderer, error) {
	var opts []render.Option
	for key, class := range s.Render.HeadingClasses {
		level, err := strconv.Atoi(key)
		if err != nil || level < 1 || level > 6 {
			return nil, fmt.Errorf("render.headingClasses: invalid heading level %q", key)
		}
		opts = append(opts, render.WithHeadingClass(level, class))
	}
	return render.New(opts...), nil
}

func (s settings) site() site.Config {
	return site.Config{
		Name:        s.Site.Name,
		Description: s.Site.Description,
		URL:         s.Site.URL,
		Author:      s.Site.Author,
		OutputDir:   s.Out,
		Addr:        s.Addr,
		Logger:      logger,
	}
}
