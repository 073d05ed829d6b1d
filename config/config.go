package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/redis/go-redis/v9"
)

// ServerConfig defines HTTP server configurations
type ServerConfig struct {
	PrivatePort int `koanf:"privateport"`
	PublicPort  int `koanf:"publicport"`
	HTTPS       struct {
		Cert string `koanf:"cert"`
		Key  string `koanf:"key"`
	}
	Debug bool `koanf:"debug"`
	// MaxUploadSize is the multipart memory limit in MB
	MaxUploadSize    int64         `koanf:"maxuploadsize"`
	ScratchDir       string        `koanf:"scratchdir"`
	InferenceTimeout time.Duration `koanf:"inferencetimeout"`
	CORSOrigins      []string      `koanf:"corsorigins"`
	DisplaySize      int           `koanf:"displaysize"`
}

// RuntimeConfig related to the ONNX Runtime shared library
type RuntimeConfig struct {
	SharedLibraryPath string `koanf:"sharedlibrarypath"`
	IntraOpThreads    int    `koanf:"intraopthreads"`
}

// ModelConfig describes one servable model checkpoint
type ModelConfig struct {
	Variant           string   `koanf:"variant"`
	Checkpoint        string   `koanf:"checkpoint"`
	InputNames        []string `koanf:"inputnames"`
	OutputNames       []string `koanf:"outputnames"`
	ClassifierWeights string   `koanf:"classifierweights"`
}

// CacheConfig related to cache
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`
	Redis   struct {
		RedisOptions redis.Options `koanf:"redisoptions"`
	}
}

// OTELCollectorConfig related to OpenTelemetry collector
type OTELCollectorConfig struct {
	Enable bool   `koanf:"enable"`
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
}

// AppConfig defines
type AppConfig struct {
	Server        ServerConfig           `koanf:"server"`
	Runtime       RuntimeConfig          `koanf:"runtime"`
	Models        map[string]ModelConfig `koanf:"models"`
	Cache         CacheConfig            `koanf:"cache"`
	OTELCollector OTELCollectorConfig    `koanf:"otelcollector"`
}

// Model variants accepted in the models section
const (
	VariantPneumoniaCAM       = "pneumonia_cam"
	VariantCardiacBBox        = "cardiac_bbox"
	VariantAtriumSegmentation = "atrium_segmentation"
)

// Config - Global variable to export
var Config AppConfig

// Init - Assign global config to decoded config struct
func Init(filePath string) error {
	k := koanf.New(".")
	parser := yaml.Parser()

	if err := k.Load(confmap.Provider(map[string]any{
		"server.publicport":       8080,
		"server.privateport":      8081,
		"server.maxuploadsize":    32,
		"server.inferencetimeout": "60s",
		"server.displaysize":      1024,
		"server.corsorigins":      []string{"http://localhost:3000"},
		"cache.ttl":               "10m",
	}, "."), nil); err != nil {
		log.Fatal(err.Error())
	}

	if err := k.Load(file.Provider(filePath), parser); err != nil {
		log.Fatal(err.Error())
	}

	if err := k.Load(env.ProviderWithValue("CFG_", ".", func(s string, v string) (string, any) {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "CFG_")), "_", ".")
		if strings.Contains(v, ",") {
			return key, strings.Split(strings.TrimSpace(v), ",")
		}
		return key, v
	}), nil); err != nil {
		return err
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return err
	}

	if err := ValidateConfig(&cfg); err != nil {
		return err
	}

	Config = cfg
	return nil
}

// ValidateConfig is for custom validation rules for the configuration
func ValidateConfig(cfg *AppConfig) error {
	if cfg.Server.DisplaySize <= 0 {
		return fmt.Errorf("server.displaysize must be positive, got %d", cfg.Server.DisplaySize)
	}
	if cfg.Server.InferenceTimeout <= 0 {
		return fmt.Errorf("server.inferencetimeout must be positive, got %s", cfg.Server.InferenceTimeout)
	}
	for name, m := range cfg.Models {
		switch m.Variant {
		case VariantPneumoniaCAM:
			if m.ClassifierWeights == "" {
				return fmt.Errorf("model %q: classifierweights is required for variant %s", name, m.Variant)
			}
		case VariantCardiacBBox, VariantAtriumSegmentation:
		default:
			return fmt.Errorf("model %q: unknown variant %q", name, m.Variant)
		}
		if m.Checkpoint == "" {
			return fmt.Errorf("model %q: checkpoint is required", name)
		}
	}
	return nil
}

var defaultConfigPath = "config/config.yaml"

// ParseConfigFlag allows clients to specify the relative path to the file from
// which the configuration will be loaded.
func ParseConfigFlag() string {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	configPath := fs.String("file", defaultConfigPath, "configuration file")
	_ = fs.Parse(os.Args[1:])

	return *configPath
}
