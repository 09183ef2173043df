package document

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"
	"github.com/vk/geonodego/internal/ctxlog"
	"github.com/vk/geonodego/internal/fsutil"
	"github.com/vk/geonodego/internal/slot"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Load reads a graph document from path. When path is a directory every
// .hcl file under it is parsed and merged into one document; node names must
// be unique across all of them.
func Load(ctx context.Context, fsys afero.Fs, path string) (*Document, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := findDocumentFiles(fsys, path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered document files.", "count", len(files))

	doc := &Document{}
	parser := hclparse.NewParser()
	seen := make(map[string]string)

	for _, file := range files {
		src, err := afero.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("reading document file %s: %w", file, err)
		}

		hclFile, diags := parser.ParseHCL(src, file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing document file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("decoding document file %s: %w", file, diags)
		}

		for _, block := range root.Nodes {
			if prev, dup := seen[block.Name]; dup {
				return nil, fmt.Errorf("node %q declared in both %s and %s", block.Name, prev, file)
			}
			seen[block.Name] = file

			decl, err := decodeNodeBlock(block)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			doc.Nodes = append(doc.Nodes, decl)
		}

		for _, block := range root.Connections {
			decl, err := decodeConnBlock(block)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			doc.Connections = append(doc.Connections, decl)
		}
	}

	logger.Debug("Document loading complete.",
		"nodes", len(doc.Nodes), "connections", len(doc.Connections))
	return doc, nil
}

func decodeNodeBlock(block *nodeBlock) (NodeDecl, error) {
	decl := NodeDecl{
		Kind:   block.Kind,
		Name:   block.Name,
		Params: make(map[int]cty.Value, len(block.Params)),
	}
	if block.DynamicInputs != nil {
		if *block.DynamicInputs < 0 {
			return decl, fmt.Errorf("node %q: dynamic_inputs must be non-negative", block.Name)
		}
		decl.DynamicInputs = *block.DynamicInputs
	}

	for _, p := range block.Params {
		idx, err := strconv.Atoi(p.Slot)
		if err != nil || idx < 0 {
			return decl, fmt.Errorf("node %q: param label %q is not a slot index", block.Name, p.Slot)
		}
		val, diags := p.Value.Value(nil)
		if diags.HasErrors() {
			return decl, fmt.Errorf("node %q: evaluating param %d: %w", block.Name, idx, diags)
		}
		if p.Type != nil {
			ty, err := slot.TypeFromName(*p.Type)
			if err != nil {
				return decl, fmt.Errorf("node %q, param %d: %w", block.Name, idx, err)
			}
			val, err = convert.Convert(val, ty)
			if err != nil {
				return decl, fmt.Errorf("node %q, param %d: cannot convert value to %s: %w",
					block.Name, idx, *p.Type, err)
			}
		}
		if _, dup := decl.Params[idx]; dup {
			return decl, fmt.Errorf("node %q: duplicate param block for slot %d", block.Name, idx)
		}
		decl.Params[idx] = val
	}
	return decl, nil
}

func decodeConnBlock(block *connBlock) (ConnDecl, error) {
	var decl ConnDecl
	var err error
	if decl.FromNode, decl.FromSlot, err = parseEndpoint(block.From); err != nil {
		return decl, err
	}
	if decl.ToNode, decl.ToSlot, err = parseEndpoint(block.To); err != nil {
		return decl, err
	}
	return decl, nil
}

// findDocumentFiles resolves path to the ordered list of .hcl files to parse.
func findDocumentFiles(fsys afero.Fs, path string) ([]string, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("accessing document path %s: %w", path, err)
	}
	if info.IsDir() {
		files, err := fsutil.FindFilesByExtension(fsys, path, ".hcl")
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no .hcl files under %s", path)
		}
		return files, nil
	}
	if filepath.Ext(path) != ".hcl" {
		return nil, fmt.Errorf("document file %s is not an .hcl file", path)
	}
	return []string{path}, nil
}
