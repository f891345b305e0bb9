package utils

import (
	"bytes"
	"fmt"
	"io"

	"github.com/edisonguo/jet"
)

// LayerDoc is the context handed to the metadata template for one layer.
type LayerDoc struct {
	Layer        *Layer
	PaletteNames []string
}

// ExecuteWriteTemplateFile renders a jet template with the supplied
// data context and writes the result to the response writer.
func ExecuteWriteTemplateFile(writer io.Writer, data interface{}, path string) error {
	// jet template engine does not escape by default
	view := jet.NewSet(jet.SafeWriter(func(w io.Writer, b []byte) {
		w.Write(b)
	}), ".", "/")

	template, err := view.GetTemplate(path)
	if err != nil {
		return fmt.Errorf("Error loading template %s: %v", path, err)
	}

	var resBuf bytes.Buffer
	vars := make(jet.VarMap)
	if err = template.Execute(&resBuf, vars, data); err != nil {
		return fmt.Errorf("Error executing template %s: %v", path, err)
	}

	_, err = writer.Write(resBuf.Bytes())
	return err
}

// RenderLayerMetadata renders the JSON metadata document for a layer,
// describing its title, units, rescale range and available palettes.
func RenderLayerMetadata(writer io.Writer, layer *Layer, templatePath string) error {
	doc := &LayerDoc{Layer: layer, PaletteNames: PaletteNames()}
	return ExecuteWriteTemplateFile(writer, doc, templatePath)
}
