package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	configFileName = "tada.toml"
	dotEnvFile     = ".env"
)

// flagValues holds root flags before they are applied on top of the other layers.
type flagValues struct {
	configPath string
	apiURL     string
	theme      string
	logLevel   string
	group      bool
	set        map[string]bool
}

// Load loads configuration from every source. fs receives the root flags and
// is parsed with args; the remaining positional args stay available via fs.Args().
func Load(fset *flag.FlagSet, args []string) (*Config, error) {
	fv, err := parseFlags(fset, args)
	if err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	cfg := Default()

	if p := findUserConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", p, err)
		}
	}

	projectFile := fv.configPath
	if projectFile == "" {
		projectFile = findProjectConfigFile()
	} else if _, err := os.Stat(projectFile); err != nil {
		return nil, fmt.Errorf("config file %s: %w", projectFile, err)
	}
	if projectFile != "" {
		if err := loadConfigFile(cfg, projectFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectFile, err)
		}
		cfg.ConfigFile = projectFile
	}

	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}
	loadFromEnv(cfg)
	fv.apply(cfg)

	cfg.Server.JSONPath = expandPath(cfg.Server.JSONPath)
	cfg.Server.SQLitePath = expandPath(cfg.Server.SQLitePath)
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseFlags(fset *flag.FlagSet, args []string) (*flagValues, error) {
	fv := &flagValues{set: map[string]bool{}}
	fset.StringVar(&fv.configPath, "config", "", "path to a tada.toml config file")
	fset.StringVar(&fv.apiURL, "api", "", "todo server base URL (default "+DefaultAPIURL+")")
	fset.StringVar(&fv.theme, "theme", "", "output theme: classic, neon or mono")
	fset.StringVar(&fv.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fset.BoolVar(&fv.group, "group", false, "group output by pending/done")
	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	fset.Visit(func(f *flag.Flag) { fv.set[f.Name] = true })
	return fv, nil
}

func (fv *flagValues) apply(cfg *Config) {
	if fv.set["api"] {
		cfg.APIURL = fv.apiURL
	}
	if fv.set["theme"] {
		cfg.Theme = fv.theme
	}
	if fv.set["log-level"] {
		cfg.Log.Level = fv.logLevel
	}
	if fv.set["group"] {
		cfg.Group = fv.group
	}
}

func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// loadDotEnv reads path into the process environment. A missing file is fine.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func findUserConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(dir, "tada", configFileName)
	if fileExists(p) {
		return p
	}
	return ""
}

func findProjectConfigFile() string {
	for _, name := range []string{configFileName, "." + configFileName} {
		if fileExists(name) {
			return name
		}
	}
	return ""
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// expandPath expands ~/ and environment variables in paths.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded[1:], "/"))
	}
	return expanded
}
