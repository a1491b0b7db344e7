// Config loading: config.yaml through viper, BLOGCTL_* environment
// overrides, and an optional .env file beside config.yaml.

package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/blogctl/internal/paths"
	"github.com/mesh-intelligence/blogctl/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "BLOGCTL"
)

// Config keys in config.yaml.
const (
	cfgKeyAPIURL       = "api_url"
	cfgKeyTimeout      = "timeout"
	cfgKeyLogLevel     = "log_level"
	cfgKeyDataDir      = "data_dir"
	cfgKeyCloudName    = "media.cloud_name"
	cfgKeyUploadPreset = "media.upload_preset"
	cfgKeyUploadURL    = "media.upload_url"
	cfgKeyDeliveryHost = "media.delivery_host"
	cfgKeyMaxWidth     = "media.max_width"
	cfgKeyListWidth    = "image.list_width"
	cfgKeyListHeight   = "image.list_height"
	cfgKeyDetailWidth  = "image.detail_width"
	cfgKeyDetailHeight = "image.detail_height"
)

// configKeys are the keys a .env file may override. data_dir is absent:
// BLOGCTL_DATA_DIR ranks below config.yaml and is read by paths.
var configKeys = []string{
	cfgKeyAPIURL, cfgKeyTimeout, cfgKeyLogLevel,
	cfgKeyCloudName, cfgKeyUploadPreset, cfgKeyUploadURL, cfgKeyDeliveryHost, cfgKeyMaxWidth,
	cfgKeyListWidth, cfgKeyListHeight, cfgKeyDetailWidth, cfgKeyDetailHeight,
}

// configFile is the document written to config.yaml on first run.
type configFile struct {
	types.Config `yaml:",inline"`
	DataDir      string `yaml:"data_dir,omitempty"`
}

const configHeader = `# blogctl configuration
# Every key can be overridden with a BLOGCTL_ environment variable,
# e.g. BLOGCTL_API_URL or BLOGCTL_MEDIA_CLOUD_NAME.

`

// envName returns the environment variable that overrides key.
func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first run. Values from configDir/.env apply where the real
// environment does not set the same variable.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := applyDotEnv(v, filepath.Join(configDir, paths.EnvFileName)); err != nil {
		return nil, err
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	v.SetDefault(cfgKeyAPIURL, d.APIURL)
	v.SetDefault(cfgKeyTimeout, d.Timeout)
	v.SetDefault(cfgKeyLogLevel, d.LogLevel)
	v.SetDefault(cfgKeyDataDir, "")
	v.SetDefault(cfgKeyCloudName, d.Media.CloudName)
	v.SetDefault(cfgKeyUploadPreset, d.Media.UploadPreset)
	v.SetDefault(cfgKeyUploadURL, "")
	v.SetDefault(cfgKeyDeliveryHost, d.Media.DeliveryHost)
	v.SetDefault(cfgKeyMaxWidth, d.Media.MaxWidth)
	v.SetDefault(cfgKeyListWidth, d.Image.ListWidth)
	v.SetDefault(cfgKeyListHeight, d.Image.ListHeight)
	v.SetDefault(cfgKeyDetailWidth, d.Image.DetailWidth)
	v.SetDefault(cfgKeyDetailHeight, d.Image.DetailHeight)
}

// applyDotEnv reads a .env file without touching the process environment.
// A missing file is not an error.
func applyDotEnv(v *viper.Viper, path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	for _, key := range configKeys {
		name := envName(key)
		val, ok := values[name]
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(name); set {
			continue
		}
		v.Set(key, val)
	}
	return nil
}

// configDataDir returns data_dir as config.yaml sets it. v itself would
// answer with BLOGCTL_DATA_DIR through AutomaticEnv.
func configDataDir(v *viper.Viper) (string, error) {
	file := v.ConfigFileUsed()
	if file == "" {
		return "", nil
	}
	fv := viper.New()
	fv.SetConfigFile(file)
	fv.SetConfigType(configFileType)
	if err := fv.ReadInConfig(); err != nil {
		return "", fmt.Errorf("read config: %w", err)
	}
	return fv.GetString(cfgKeyDataDir), nil
}

// configFromViper builds the typed configuration.
func configFromViper(v *viper.Viper) types.Config {
	return types.Config{
		APIURL:   strings.TrimSpace(v.GetString(cfgKeyAPIURL)),
		Timeout:  v.GetDuration(cfgKeyTimeout),
		LogLevel: v.GetString(cfgKeyLogLevel),
		Media: types.MediaConfig{
			CloudName:    v.GetString(cfgKeyCloudName),
			UploadPreset: v.GetString(cfgKeyUploadPreset),
			UploadURL:    v.GetString(cfgKeyUploadURL),
			DeliveryHost: v.GetString(cfgKeyDeliveryHost),
			MaxWidth:     v.GetInt(cfgKeyMaxWidth),
		},
		Image: types.ImageConfig{
			ListWidth:    v.GetInt(cfgKeyListWidth),
			ListHeight:   v.GetInt(cfgKeyListHeight),
			DetailWidth:  v.GetInt(cfgKeyDetailWidth),
			DetailHeight: v.GetInt(cfgKeyDetailHeight),
		},
	}
}

// ensureDefaultConfigFile writes config.yaml with the built-in defaults if
// it does not exist yet.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, paths.ConfigFileName)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(configFile{Config: types.DefaultConfig()})
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, append([]byte(configHeader), data...), 0o644)
}
