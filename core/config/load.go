package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory.
func Load(path string) (*Configuration, error) {
	return load(afero.NewOsFs(), path)
}

func load(fsys afero.Fs, path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	configContents, err := afero.ReadFile(fsys, filepath.Join(path, ConfigurationName))
	if err != nil {
		return nil, err
	}
	var out Configuration
	if err := yaml.UnmarshalStrict(configContents, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	out.configFs = afero.NewBasePathFs(fsys, path)
	out.configurationDir = path
	return &out, nil
}

// Initialize sets up the configuration directory, writing the default
// config.yaml if none exists yet, and loads the result. Progress is reported
// on logger so interactive runs stay quiet with log.New(io.Discard, "", 0).
func Initialize(path string, logger *log.Logger) (*Configuration, error) {
	return initialize(afero.NewOsFs(), path, logger)
}

func initialize(fsys afero.Fs, path string, logger *log.Logger) (*Configuration, error) {
	if err := fsys.MkdirAll(path, 0700); err != nil {
		return nil, err
	}

	configPath := filepath.Join(path, ConfigurationName)
	switch _, err := fsys.Stat(configPath); {
	case os.IsNotExist(err):
		logger.Printf("Writing default configuration to %s", configPath)
		if err := afero.WriteFile(fsys, configPath, defaultConfigData, 0600); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		logger.Printf("Configuration already exists at %s", configPath)
	}

	return load(fsys, path)
}
