// Package prompt builds the coaching prompts sent to the generation model:
// the static knowledge base, the profile-adapted chat prompt and the
// recommendation prompt.
package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed knowledge.yaml
var defaultKnowledge []byte

// KnowledgeBase is a versioned block of domain facts injected verbatim into
// every prompt.
type KnowledgeBase struct {
	Version  string    `yaml:"version"`
	Sections []Section `yaml:"sections"`
}

type Section struct {
	Title string   `yaml:"title"`
	Facts []string `yaml:"facts"`
}

// DefaultKnowledgeBase returns the knowledge base compiled into the binary.
func DefaultKnowledgeBase() *KnowledgeBase {
	kb, err := ParseKnowledgeBase(defaultKnowledge)
	if err != nil {
		panic(fmt.Sprintf("embedded knowledge base is invalid: %v", err))
	}
	return kb
}

// LoadKnowledgeBase reads a knowledge base from path. An empty path returns
// the embedded default.
func LoadKnowledgeBase(path string) (*KnowledgeBase, error) {
	if path == "" {
		return DefaultKnowledgeBase(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base %s: %w", path, err)
	}
	return ParseKnowledgeBase(data)
}

// ParseKnowledgeBase decodes and validates YAML knowledge base content.
func ParseKnowledgeBase(data []byte) (*KnowledgeBase, error) {
	var kb KnowledgeBase
	if err := yaml.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}
	if kb.Version == "" {
		return nil, fmt.Errorf("knowledge base: version is required")
	}
	if len(kb.Sections) == 0 {
		return nil, fmt.Errorf("knowledge base: no sections")
	}
	return &kb, nil
}

// Text renders the knowledge base as a markdown block.
func (kb *KnowledgeBase) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Coaching Knowledge Base (v%s)\n", kb.Version)
	for _, s := range kb.Sections {
		fmt.Fprintf(&b, "\n### %s\n", s.Title)
		for _, f := range s.Facts {
			b.WriteString("- ")
			b.WriteString(f)
			b.WriteString("\n")
		}
	}
	return b.String()
}
