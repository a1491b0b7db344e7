package types

import (
	"errors"
	"time"
)

// Config holds the resolved client settings used to build the API client,
// the media uploader, and the image resolver.
type Config struct {
	APIURL  string        `json:"api_url" yaml:"api_url"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	Media MediaConfig `json:"media" yaml:"media"`
	Image ImageConfig `json:"image" yaml:"image"`

	LogLevel string `json:"log_level" yaml:"log_level"`
}

// MediaConfig describes the media host account used for unsigned uploads
// and image delivery.
type MediaConfig struct {
	CloudName    string `json:"cloud_name" yaml:"cloud_name"`
	UploadPreset string `json:"upload_preset" yaml:"upload_preset"`
	UploadURL    string `json:"upload_url" yaml:"upload_url"`
	DeliveryHost string `json:"delivery_host" yaml:"delivery_host"`
	MaxWidth     int    `json:"max_width" yaml:"max_width"`
}

// ImageConfig holds the rendition sizes requested by the list and detail views.
type ImageConfig struct {
	ListWidth    int `json:"list_width" yaml:"list_width"`
	ListHeight   int `json:"list_height" yaml:"list_height"`
	DetailWidth  int `json:"detail_width" yaml:"detail_width"`
	DetailHeight int `json:"detail_height" yaml:"detail_height"`
}

// Defaults used when neither config.yaml nor the environment sets a value.
const (
	DefaultAPIURL       = "http://localhost:5001/api"
	DefaultTimeout      = 10 * time.Second
	DefaultCloudName    = "dif3z0kkk"
	DefaultUploadPreset = "BlogApp images"
	DefaultDeliveryHost = "res.cloudinary.com"
	DefaultLogLevel     = "warn"

	DefaultListWidth    = 600
	DefaultListHeight   = 400
	DefaultDetailWidth  = 800
	DefaultDetailHeight = 500
)

// Config validation errors.
var (
	ErrAPIURLEmpty        = errors.New("api url must not be empty")
	ErrCloudNameEmpty     = errors.New("media cloud name must not be empty")
	ErrUploadPresetEmpty  = errors.New("media upload preset must not be empty")
	ErrInvalidImageSize   = errors.New("image width and height must be positive")
	ErrInvalidMaxWidth    = errors.New("media max width must not be negative")
	ErrInvalidHTTPTimeout = errors.New("timeout must not be negative")
)

// DefaultConfig returns a Config populated with the built-in defaults.
func DefaultConfig() Config {
	return Config{
		APIURL:  DefaultAPIURL,
		Timeout: DefaultTimeout,
		Media: MediaConfig{
			CloudName:    DefaultCloudName,
			UploadPreset: DefaultUploadPreset,
			DeliveryHost: DefaultDeliveryHost,
		},
		Image: ImageConfig{
			ListWidth:    DefaultListWidth,
			ListHeight:   DefaultListHeight,
			DetailWidth:  DefaultDetailWidth,
			DetailHeight: DefaultDetailHeight,
		},
		LogLevel: DefaultLogLevel,
	}
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.APIURL == "" {
		return ErrAPIURLEmpty
	}
	if c.Timeout < 0 {
		return ErrInvalidHTTPTimeout
	}
	if c.Media.CloudName == "" {
		return ErrCloudNameEmpty
	}
	if c.Media.UploadPreset == "" {
		return ErrUploadPresetEmpty
	}
	if c.Media.MaxWidth < 0 {
		return ErrInvalidMaxWidth
	}
	im := c.Image
	if im.ListWidth <= 0 || im.ListHeight <= 0 || im.DetailWidth <= 0 || im.DetailHeight <= 0 {
		return ErrInvalidImageSize
	}
	return nil
}

// UploadEndpoint returns the unsigned upload URL for the configured cloud.
// An explicit UploadURL wins over the derived one.
func (m MediaConfig) UploadEndpoint() string {
	if m.UploadURL != "" {
		return m.UploadURL
	}
	return "https://api.cloudinary.com/v1_1/" + m.CloudName + "/image/upload"
}
