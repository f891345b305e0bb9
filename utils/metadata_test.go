package utils

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

const testMetadataTpl = `{
  "name": "{{ .Layer.Name }}",
  "title": "{{ .Layer.Title }}",
  "palette": "{{ .Layer.Palette }}",
  "rescale": [{{ .Layer.RescaleMin }}, {{ .Layer.RescaleMax }}]
}`

func TestRenderLayerMetadata(t *testing.T) {
	dir, err := ioutil.TempDir("", "tiler_templates")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	tplPath := filepath.Join(dir, "metadata.tpl")
	if err := ioutil.WriteFile(tplPath, []byte(testMetadataTpl), 0644); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}

	layer := &Layer{
		Name:       "sst_geopolar",
		Title:      "Sea Surface Temperature",
		Palette:    "sst_high_contrast",
		RescaleMin: 10,
		RescaleMax: 32,
	}

	var buf bytes.Buffer
	if err := RenderLayerMetadata(&buf, layer, tplPath); err != nil {
		t.Fatalf("failed to render metadata: %v", err)
	}

	var doc struct {
		Name    string    `json:"name"`
		Palette string    `json:"palette"`
		Rescale []float64 `json:"rescale"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("rendered document is not valid JSON: %v\n%s", err, buf.String())
	}
	if doc.Name != "sst_geopolar" || doc.Palette != "sst_high_contrast" {
		t.Errorf("unexpected document: %+v", doc)
	}
	if len(doc.Rescale) != 2 || doc.Rescale[0] != 10 || doc.Rescale[1] != 32 {
		t.Errorf("rescale not rendered: %v", doc.Rescale)
	}
}

func TestRenderLayerMetadataMissingTemplate(t *testing.T) {
	layer := &Layer{Name: "sst_geopolar"}
	var buf bytes.Buffer
	if err := RenderLayerMetadata(&buf, layer, "/nonexistent/metadata.tpl"); err == nil {
		t.Fatalf("expected error for missing template")
	}
}
