// Package manifest loads the backup snapshot manifest enumerating the
// custom nodes a restore is expected to process.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/korunadevi/comfyui-nunchaku-sage-v1/internal/domain"
)

// Parse decodes a snapshot manifest. Two sections are consumed:
// git_custom_nodes (repo URL -> {name, disabled}) and cnr_custom_nodes
// (name -> version). Entry order is preserved because the restore tracker's
// sequential-promotion heuristic depends on manifest order, so the mappings
// are walked as yaml nodes instead of being decoded into Go maps.
func Parse(data []byte) ([]domain.Item, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, nil
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, nil
	}

	var items []domain.Item
	for i := 0; i+1 < len(root.Content); i += 2 {
		section, value := root.Content[i], root.Content[i+1]
		if value.Kind != yaml.MappingNode {
			continue
		}
		switch section.Value {
		case "git_custom_nodes":
			gitItems, err := parseGitNodes(value)
			if err != nil {
				return nil, err
			}
			items = append(items, gitItems...)
		case "cnr_custom_nodes":
			items = append(items, parseCNRNodes(value)...)
		}
	}
	return items, nil
}

type gitNode struct {
	Name     string `yaml:"name"`
	Disabled bool   `yaml:"disabled"`
}

func parseGitNodes(mapping *yaml.Node) ([]domain.Item, error) {
	var items []domain.Item
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		repoURL := mapping.Content[i].Value
		var node gitNode
		if mapping.Content[i+1].Kind == yaml.MappingNode {
			if err := mapping.Content[i+1].Decode(&node); err != nil {
				return nil, fmt.Errorf("git node %s: %w", repoURL, err)
			}
		}
		if node.Disabled {
			continue
		}
		name := node.Name
		if name == "" {
			name = domain.RepoLabel(repoURL)
		}
		items = append(items, domain.Item{
			Key:    domain.RepoLabel(repoURL),
			Name:   name,
			Source: domain.SourceGit,
			Repo:   domain.NormalizeRepo(repoURL),
			Status: domain.ItemPending,
		})
	}
	return items, nil
}

func parseCNRNodes(mapping *yaml.Node) []domain.Item {
	var items []domain.Item
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		name := mapping.Content[i].Value
		version := ""
		if v := mapping.Content[i+1]; v.Kind == yaml.ScalarNode && v.Tag != "!!null" {
			version = v.Value
		}
		items = append(items, domain.Item{
			Key:     name,
			Name:    name,
			Source:  domain.SourceCNR,
			Version: version,
			Status:  domain.ItemPending,
		})
	}
	return items
}

// Load reads and parses the manifest at path. Missing or malformed files
// yield an empty item list; the page just shows "waiting for manifest".
func Load(path string) []domain.Item {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	items, err := Parse(data)
	if err != nil {
		return nil
	}
	return items
}
