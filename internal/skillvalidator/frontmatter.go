package skillvalidator

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	yaml "go.yaml.in/yaml/v3"

	"github.com/conn-castle/bottle/internal/messages"
)

const (
	yamlTagStr  = "!!str"
	yamlTagNull = "!!null"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// splitFrontMatter returns the lines between the leading "---" fences.
func splitFrontMatter(path string, data []byte) (string, error) {
	scanner := bufio.NewScanner(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	if !scanner.Scan() {
		return "", fmt.Errorf(messages.SkillEmptyFmt, path)
	}
	if strings.TrimSpace(scanner.Text()) != "---" {
		return "", fmt.Errorf(messages.SkillMissingFrontMatterFmt, path)
	}
	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "---" {
			return strings.Join(lines, "\n"), nil
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf(messages.SkillReadFmt, path, err)
	}
	return "", fmt.Errorf(messages.SkillUnterminatedFrontMatterFmt, path)
}

type frontMatter struct {
	keys        []string
	name        *string
	description *string
}

func parseFrontMatter(content string) (frontMatter, error) {
	var out frontMatter
	if strings.TrimSpace(content) == "" {
		return out, nil
	}
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(content), &root); err != nil {
		return out, err
	}
	if len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return out, errors.New(messages.SkillFrontMatterNotMapping)
	}

	mapping := root.Content[0]
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := strings.TrimSpace(mapping.Content[i].Value)
		value := mapping.Content[i+1]
		if key == "" {
			continue
		}
		out.keys = append(out.keys, key)
		var err error
		switch key {
		case "name":
			out.name, err = scalarString(value, key)
		case "description":
			out.description, err = scalarString(value, key)
		case "license", "compatibility", "allowed-tools":
			_, err = scalarString(value, key)
		case "metadata":
			err = stringMap(value)
		}
		if err != nil {
			return out, err
		}
	}
	sort.Strings(out.keys)
	return out, nil
}

// scalarString returns nil for an explicit null.
func scalarString(node *yaml.Node, field string) (*string, error) {
	if node.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf(messages.SkillFieldNotStringFmt, field)
	}
	if node.Tag == yamlTagNull {
		return nil, nil
	}
	if node.Tag != "" && node.Tag != yamlTagStr {
		return nil, fmt.Errorf(messages.SkillFieldNotStringFmt, field)
	}
	value := node.Value
	return &value, nil
}

func stringMap(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == yamlTagNull {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return errors.New(messages.SkillMetadataNotMapping)
	}
	for _, child := range node.Content {
		if child.Kind != yaml.ScalarNode || (child.Tag != "" && child.Tag != yamlTagStr) {
			return errors.New(messages.SkillMetadataNotMapping)
		}
	}
	return nil
}
