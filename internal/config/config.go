// Package config resolves the run settings from flags, environment and an
// optional netdoc.yaml file.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	netdocErrors "netdoc/internal/errors"
)

const (
	KeyOutput         = "output"
	KeyFormat         = "format"
	KeyTitle          = "title"
	KeyClean          = "clean"
	KeyVerbose        = "verbose"
	KeyExternalDocs   = "external-docs"
	KeyLocalDocs      = "local-docs"
	KeyPackage        = "package"
	KeyPackageVersion = "package-version"
	KeyPackageCache   = "package-cache"

	EnvPrefix     = "NETDOC"
	fileName      = "netdoc"
	defaultOutput = "./output/"
	defaultFormat = "json"
	defaultCache  = "./packages/"
)

type Config struct {
	Library        string `validate:"required_without=Package"`
	Output         string `validate:"required"`
	Format         string `validate:"oneof=json yaml"`
	Title          string
	Clean          bool
	Verbose        bool
	ExternalDocs   string `validate:"omitempty,url"`
	LocalDocs      string
	Package        string
	PackageVersion string `validate:"excluded_without=Package"`
	PackageCache   string `validate:"required_with=Package"`
}

// New returns a viper instance with defaults, environment binding and the
// config file search path set up.
func New(configFile string) *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyOutput, defaultOutput)
	v.SetDefault(KeyFormat, defaultFormat)
	v.SetDefault(KeyPackageCache, defaultCache)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		configFile = findConfigFile(".")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	return v
}

// findConfigFile looks for netdoc.yaml or netdoc.yml in the directory. Only
// these exact names count, so the extensionless netdoc binary is never read.
func findConfigFile(dir string) string {
	for _, extension := range []string{".yaml", ".yml"} {
		path := filepath.Join(dir, fileName+extension)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Load reads the config file, if any, and resolves the settings for the given
// library. A named config file must exist.
func Load(v *viper.Viper, library string) (*Config, error) {
	if path := v.ConfigFileUsed(); path != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, netdocErrors.ConfigLoadFailed(path, err)
		}
	}

	cfg := &Config{
		Library:        library,
		Output:         v.GetString(KeyOutput),
		Format:         strings.ToLower(v.GetString(KeyFormat)),
		Title:          v.GetString(KeyTitle),
		Clean:          v.GetBool(KeyClean),
		Verbose:        v.GetBool(KeyVerbose),
		ExternalDocs:   v.GetString(KeyExternalDocs),
		LocalDocs:      v.GetString(KeyLocalDocs),
		Package:        v.GetString(KeyPackage),
		PackageVersion: v.GetString(KeyPackageVersion),
		PackageCache:   v.GetString(KeyPackageCache),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings and reports the first invalid one.
func (cfg *Config) Validate() error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		field := fieldErrors[0]
		return netdocErrors.InvalidConfig(field.Field(), describe(field))
	}
	return netdocErrors.InvalidConfig("config", err.Error())
}

func describe(field validator.FieldError) string {
	switch field.Tag() {
	case "required", "required_with":
		return "is required"
	case "required_without":
		return "is required unless a package is given"
	case "excluded_without":
		return "needs a package"
	case "oneof":
		return "must be one of " + field.Param()
	case "url":
		return "must be an absolute URL"
	}
	return "failed " + field.Tag()
}

// DocumentationPath is the XML comment file expected next to the library.
func DocumentationPath(library string) string {
	return strings.TrimSuffix(library, filepath.Ext(library)) + ".xml"
}

// DefaultTitle names the documentation after the library file.
func DefaultTitle(library string) string {
	base := filepath.Base(library)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
