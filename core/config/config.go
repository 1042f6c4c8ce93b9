package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

// ConfigurationName is the file holding the shell's settings inside the
// configuration directory.
const ConfigurationName = "config.yaml"

// Configuration holds the shell's settings, loaded from a configuration
// directory.
type Configuration struct {
	configFs         afero.Fs
	configurationDir string

	// Prompt is appended to the working directory when prompting.
	Prompt string `json:"prompt" validate:"required"`

	// HistoryName is the readline history file, relative to the
	// configuration directory.
	HistoryName string `json:"history_file" validate:"required"`

	// SessionLogName is the JSON-lines session log, relative to the
	// configuration directory.
	SessionLogName string `json:"session_log" validate:"required"`

	// Color toggles a colored prompt.
	Color bool `json:"color"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	return c.configFs
}

// OpenSessionLog opens the session log in an append only state.
func (c *Configuration) OpenSessionLog() (afero.File, error) {
	return c.fs().OpenFile(c.SessionLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadSessionLog opens the session log for reading.
func (c *Configuration) ReadSessionLog() (afero.File, error) {
	return c.fs().OpenFile(c.SessionLogName, os.O_RDONLY, 0600)
}

// HistoryPath returns the OS path of the readline history file. Readline
// manages the file itself so it can't go through the afero layer.
func (c *Configuration) HistoryPath() string {
	return filepath.Join(c.configurationDir, c.HistoryName)
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
