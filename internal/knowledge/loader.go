package knowledge

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML knowledge base document and builds it.
// Unknown fields are rejected so typos in hand-edited files surface early.
func Parse(data []byte) (*KnowledgeBase, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode knowledge base: %w", err)
	}
	return Build(doc)
}

// LoadFile reads and builds the knowledge base at path.
func LoadFile(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from user configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base: %w", err)
	}

	kb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("knowledge base %s: %w", path, err)
	}

	slog.Debug("Loaded knowledge base",
		"path", path,
		"entities", len(kb.order),
		"genres", kb.Genres(),
		"organizations", kb.Organizations())

	return kb, nil
}

// Load returns the knowledge base at path, or the built-in one when path is empty.
func Load(path string) (*KnowledgeBase, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// Marshal encodes doc as YAML.
func Marshal(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode knowledge base: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode knowledge base: %w", err)
	}
	return buf.Bytes(), nil
}
