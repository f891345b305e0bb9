package utils

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gopkg.in/yaml.v2"
)

var EtcDir = "."
var DataDir = "."

// ServiceConfig holds the process-wide settings shared by all layers.
type ServiceConfig struct {
	TilerHostname   string   `yaml:"tiler_hostname"`
	CatalogDSN      string   `yaml:"catalog_dsn"`
	MemcacheAddress string   `yaml:"memcache_address"`
	WorkerNodes     []string `yaml:"worker_nodes"`
	TileCacheMaxAge int      `yaml:"tile_cache_max_age"`
}

// TransformDefaults carries the per-layer defaults applied when a tile
// request does not override them.
type TransformDefaults struct {
	Name            string    `yaml:"name"`
	Eps             float64   `yaml:"eps"`
	MinValue        float64   `yaml:"min_value"`
	MaxValue        float64   `yaml:"max_value"`
	Gamma           float64   `yaml:"gamma"`
	Method          string    `yaml:"method"`
	OutputDirection bool      `yaml:"output_direction"`
	Expression      string    `yaml:"expression"`
	Breakpoints     []float64 `yaml:"breakpoints"`
	Points          []float64 `yaml:"points"`
	Colors          []string  `yaml:"colors"`
}

// Layer contains all the details a raster product needs to be published
// and rendered as tiles.
type Layer struct {
	TilerHostname string `yaml:"tiler_hostname"`
	NameSpace     string
	Name          string             `yaml:"name"`
	Title         string             `yaml:"title"`
	Abstract      string             `yaml:"abstract"`
	DataSource    string             `yaml:"data_source"`
	Units         string             `yaml:"units"`
	NoDataValue   float64            `yaml:"nodata_value"`
	Palette       string             `yaml:"palette"`
	ColormapMode  string             `yaml:"colormap_mode"`
	RescaleMin    float64            `yaml:"rescale_min"`
	RescaleMax    float64            `yaml:"rescale_max"`
	Transform     *TransformDefaults `yaml:"transform"`
	LegendPath    string             `yaml:"legend_path"`
	ZoomLimit     float64            `yaml:"zoom_limit"`
}

// Config is the struct representing the configuration of a tile server.
// It contains the catalog and cache endpoints as well as the list of
// raster layers that can be served.
type Config struct {
	ServiceConfig ServiceConfig `yaml:"service_config"`
	Layers        []Layer       `yaml:"layers"`
}

// GetLayer resolves a dataset name against the configured layers.
func (config *Config) GetLayer(name string) (*Layer, error) {
	for i := range config.Layers {
		if config.Layers[i].Name == name {
			return &config.Layers[i], nil
		}
	}
	return nil, fmt.Errorf("dataset %q not configured", name)
}

// LoadAllConfigFiles walks rootDir loading every config.yaml into a
// namespace keyed by its relative directory.
func LoadAllConfigFiles(rootDir string) (map[string]*Config, error) {
	configMap := make(map[string]*Config)
	err := filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && info.Name() == "config.yaml" {
			relPath, _ := filepath.Rel(rootDir, filepath.Dir(path))
			log.Printf("Loading config file: %s under namespace: %s\n", path, relPath)

			config := &Config{}
			e := config.LoadConfigFile(path)
			if e != nil {
				return e
			}

			configMap[relPath] = config

			for i := range config.Layers {
				ns := relPath
				if relPath == "." {
					ns = ""
				}
				config.Layers[i].NameSpace = ns
			}
		}
		return nil
	})

	if err == nil && len(configMap) == 0 {
		err = fmt.Errorf("No config file found")
	}

	return configMap, err
}

const DefaultTileCacheMaxAge = 86400

// LoadConfigFile unmarshals the config.yaml document into the receiver
// and applies per-layer defaults.
func (config *Config) LoadConfigFile(configFile string) error {
	*config = Config{}
	cfg, err := ioutil.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("Error while reading config file: %s. Error: %v", configFile, err)
	}

	err = yaml.Unmarshal(cfg, config)
	if err != nil {
		return fmt.Errorf("Error at YAML parsing config document: %s. Error: %v", configFile, err)
	}

	if config.ServiceConfig.TileCacheMaxAge <= 0 {
		config.ServiceConfig.TileCacheMaxAge = DefaultTileCacheMaxAge
	}

	for i, layer := range config.Layers {
		config.Layers[i].TilerHostname = config.ServiceConfig.TilerHostname

		if layer.ColormapMode == "" {
			config.Layers[i].ColormapMode = "linear"
		}
		if layer.RescaleMax <= layer.RescaleMin {
			return fmt.Errorf("Layer %s has a degenerate rescale range [%v, %v].",
				layer.Name, layer.RescaleMin, layer.RescaleMax)
		}
		if layer.Palette == "" {
			return fmt.Errorf("Layer %s has no palette.", layer.Name)
		}
		if _, err := GetPalette(layer.Palette); err != nil {
			return fmt.Errorf("Layer %s: %v", layer.Name, err)
		}
	}
	return nil
}

// WatchConfig reloads the configuration on SIGHUP.
func WatchConfig(infoLog, errLog *log.Logger, configMap *map[string]*Config) {
	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	go func() {
		for {
			select {
			case <-sighup:
				infoLog.Println("Caught SIGHUP, reloading config...")
				confMap, err := LoadAllConfigFiles(EtcDir)
				if err != nil {
					errLog.Printf("Error in loading config files: %v\n", err)
					return
				}

				for k := range *configMap {
					delete(*configMap, k)
				}

				for k := range confMap {
					(*configMap)[k] = confMap[k]
				}
			}
		}
	}()
}
