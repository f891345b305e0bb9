package utils

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

const testConfig = `
service_config:
  tiler_hostname: tiles.example.com
  catalog_dsn: postgres://tiler@localhost/catalog?sslmode=disable
  memcache_address: localhost:11211
  worker_nodes:
    - 127.0.0.1:6001
layers:
  - name: sst_geopolar
    title: Sea Surface Temperature
    data_source: /data/sst
    palette: sst_high_contrast
    rescale_min: 10
    rescale_max: 32
  - name: chlorophyll_viirs
    title: Chlorophyll-a
    data_source: /data/chlor
    palette: chlorophyll_log10
    colormap_mode: log
    rescale_min: 0.01
    rescale_max: 8.0
    transform:
      name: clamped_log10
      eps: 0.0001
      max_value: 2.0
`

func writeTestConfig(t *testing.T, body string) string {
	dir, err := ioutil.TempDir("", "tiler_config")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	if err := ioutil.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return dir
}

func TestLoadConfigFile(t *testing.T) {
	dir := writeTestConfig(t, testConfig)

	configMap, err := LoadAllConfigFiles(dir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	config, ok := configMap["."]
	if !ok {
		t.Fatalf("root namespace not loaded, got %v", configMap)
	}

	if config.ServiceConfig.TilerHostname != "tiles.example.com" {
		t.Errorf("service config not parsed: %+v", config.ServiceConfig)
	}
	if config.ServiceConfig.TileCacheMaxAge != DefaultTileCacheMaxAge {
		t.Errorf("tile cache max age default not applied: %d", config.ServiceConfig.TileCacheMaxAge)
	}
	if len(config.Layers) != 2 {
		t.Fatalf("expecting 2 layers, actual %d", len(config.Layers))
	}

	layer, err := config.GetLayer("chlorophyll_viirs")
	if err != nil {
		t.Fatalf("configured layer not found: %v", err)
	}
	if layer.ColormapMode != "log" {
		t.Errorf("colormap mode not parsed: %q", layer.ColormapMode)
	}
	if layer.Transform == nil || layer.Transform.Name != "clamped_log10" || layer.Transform.Eps != 0.0001 {
		t.Errorf("transform defaults not parsed: %+v", layer.Transform)
	}

	sst, _ := config.GetLayer("sst_geopolar")
	if sst.ColormapMode != "linear" {
		t.Errorf("colormap mode default not applied: %q", sst.ColormapMode)
	}
	if sst.TilerHostname != "tiles.example.com" {
		t.Errorf("hostname not propagated to layer")
	}

	if _, err := config.GetLayer("swell"); err == nil {
		t.Errorf("unknown layer lookup must fail")
	}
}

func TestLoadConfigFileRejectsBadLayers(t *testing.T) {
	cases := []string{
		`
layers:
  - name: bad_range
    palette: flow
    rescale_min: 10
    rescale_max: 10
`,
		`
layers:
  - name: no_palette
    rescale_min: 0
    rescale_max: 1
`,
		`
layers:
  - name: bad_palette
    palette: lava_lamp
    rescale_min: 0
    rescale_max: 1
`,
	}
	for i, body := range cases {
		dir := writeTestConfig(t, body)
		if _, err := LoadAllConfigFiles(dir); err == nil {
			t.Errorf("case %d: invalid layer accepted", i)
		}
	}
}
