package mcpserver

import (
	"encoding/json"
)

const (
	manifestSchema = "https://static.modelcontextprotocol.io/schemas/2025-10-17/server.schema.json"
	registryName   = "io.github.panbanda/mehen"
	repositoryURL  = "https://github.com/panbanda/mehen"
	imageName      = "ghcr.io/panbanda/mehen"
)

// Manifest is the server.json document published to the MCP registry.
type Manifest struct {
	Schema      string     `json:"$schema"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Version     string     `json:"version"`
	Repository  Repository `json:"repository"`
	Packages    []Package  `json:"packages"`
}

type Repository struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Package is the container image serving the mcp command over stdio.
type Package struct {
	RegistryType     string            `json:"registryType"`
	Identifier       string            `json:"identifier"`
	PackageArguments []json.RawMessage `json:"packageArguments"`
	Transport        struct {
		Type string `json:"type"`
	} `json:"transport"`
}

// GenerateManifest renders the registry manifest of a release; an empty
// version is published as 0.0.0.
func GenerateManifest(version string) ([]byte, error) {
	if version == "" {
		version = "0.0.0"
	}

	pkg := Package{
		RegistryType:     "oci",
		Identifier:       imageName + ":" + version,
		PackageArguments: []json.RawMessage{json.RawMessage(`{"type":"positional","value":"mcp"}`)},
	}
	pkg.Transport.Type = "stdio"

	return json.MarshalIndent(Manifest{
		Schema:      manifestSchema,
		Name:        registryName,
		Description: "Source code metrics for Rust, Python, TypeScript and Go: complexity, Halstead, LOC, maintainability and revision diffs",
		Version:     version,
		Repository:  Repository{URL: repositoryURL, Source: "github"},
		Packages:    []Package{pkg},
	}, "", "  ")
}
