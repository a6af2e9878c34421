// Package mcpconfig reads, merges, and writes the .mcp.json document that
// registers MCP servers with coding assistants.
package mcpconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the well-known MCP configuration file name at a project root.
const FileName = ".mcp.json"

// Server is a single MCP server registration. Command-style servers set
// Command/Args/Env; remote servers set Type and URL instead.
type Server struct {
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	Type    string            `json:"type,omitempty"`
	URL     string            `json:"url,omitempty"`
}

// Document is the on-disk .mcp.json shape.
type Document struct {
	MCPServers map[string]Server `json:"mcpServers"`
}

// Load reads dir/.mcp.json. A missing file yields an empty document so
// callers can merge into it unconditionally.
func Load(dir string) (*Document, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Document{MCPServers: make(map[string]Server)}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}

	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	if doc.MCPServers == nil {
		doc.MCPServers = make(map[string]Server)
	}

	return doc, nil
}

// Merge adds the given servers to the document. Incoming entries replace
// existing ones under the same name, which keeps repeated scaffolding runs
// idempotent.
func (d *Document) Merge(servers map[string]Server) {
	for name, srv := range servers {
		d.MCPServers[name] = srv
	}
}

// Write persists the document to dir/.mcp.json. Output is deterministic:
// encoding/json sorts map keys, so the same document always produces the
// same bytes.
func (d *Document) Write(dir string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", FileName, err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", FileName, err)
	}

	return nil
}

// WriteServers loads dir/.mcp.json, merges the given servers into it, and
// writes it back. No file is written when servers is empty and no document
// exists yet.
func WriteServers(dir string, servers map[string]Server) error {
	doc, err := Load(dir)
	if err != nil {
		return err
	}

	if len(servers) == 0 && len(doc.MCPServers) == 0 {
		return nil
	}

	doc.Merge(servers)

	return doc.Write(dir)
}
