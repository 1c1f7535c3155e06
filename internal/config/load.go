package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/afero"
	"github.com/tauraamui/brawextract/pkg/configdef"
	"github.com/tauraamui/brawextract/pkg/log"
	"github.com/tauraamui/xerror"
)

const (
	vendorName     = "tacusci"
	appName        = "brawextract"
	configFileName = "config.json"
)

var fs afero.Fs = afero.NewOsFs()

// load starts from the defaults, lays the config file over them if there
// is one, then applies environment overrides.
func load() (configdef.Values, error) {
	values := defaultValues()

	configPath, err := resolveConfigPath()
	if err != nil {
		return configdef.Values{}, err
	}

	file, err := readConfigFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Debug("no config file at %s, using defaults", configPath)
	case err != nil:
		return configdef.Values{}, err
	default:
		log.Info("Resolved config file location: %s", configPath)
		if err := unmarshal(file, &values); err != nil {
			return configdef.Values{}, err
		}
	}

	if err := env.Parse(&values); err != nil {
		return configdef.Values{}, xerror.Errorf("parsing environment overrides error: %w", err)
	}

	if err := values.RunValidate(); err != nil {
		return configdef.Values{}, err
	}

	return values, nil
}

var readConfigFile = func(path string) ([]byte, error) {
	return afero.ReadFile(fs, path)
}

func unmarshal(content []byte, values *configdef.Values) error {
	err := json.Unmarshal(content, values)
	if err != nil {
		return xerror.Errorf("parsing configuration error: %v", err)
	}
	return nil
}

func resolveConfigPath() (string, error) {
	configPath := os.Getenv("BRAW_EXTRACT_CONFIG")
	if len(configPath) > 0 {
		return configPath, nil
	}

	configParentDir, err := userConfigDir()
	if err != nil {
		return "", xerror.Errorf("unable to resolve %s location: %w", configFileName, err)
	}

	return filepath.Join(
		configParentDir,
		vendorName,
		appName,
		configFileName), nil
}

var userConfigDir = func() (string, error) {
	return os.UserConfigDir()
}
