// Package bundle reads a project bundle from disk: it locates the
// projectData document, digs the base64 payload out of its XML wrapper,
// and hands back the raw bytes the container parser works on.
package bundle

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bhostetler18/GBExtractorPublic/pkg/fileutil"
)

// projectDataName is the document inside every bundle that wraps the
// binary song payload.
const projectDataName = "projectData"

// xmlNode is a generic element tree, enough to walk the keyed-archive
// structure without modelling the whole plist schema.
type xmlNode struct {
	XMLName xml.Name
	Content string    `xml:",chardata"`
	Nodes   []xmlNode `xml:",any"`
}

// ProjectName derives the project's display name from the bundle path.
func ProjectName(bundlePath string) string {
	base := filepath.Base(filepath.Clean(bundlePath))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadProjectData reads <bundle>/projectData and returns the decoded
// binary payload.
func LoadProjectData(bundlePath string) ([]byte, error) {
	if _, err := os.Stat(bundlePath); err != nil {
		return nil, fmt.Errorf("bundle does not exist: %s", bundlePath)
	}

	path, err := fileutil.FindFileCaseInsensitive(bundlePath, projectDataName)
	if err != nil {
		return nil, fmt.Errorf("file does not exist: %s", filepath.Join(bundlePath, projectDataName))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	return DecodeProjectData(raw)
}

// DecodeProjectData extracts and base64-decodes the NS.data payload from
// a projectData XML document.
func DecodeProjectData(doc []byte) ([]byte, error) {
	var root xmlNode
	if err := xml.Unmarshal(doc, &root); err != nil {
		return nil, fmt.Errorf("malformed projectData XML: %w", err)
	}

	encoded, ok := findNSData(&root)
	if !ok {
		return nil, fmt.Errorf("projectData has no NS.data element")
	}

	// The payload is wrapped across many lines; the decoder wants it
	// contiguous.
	compact := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, encoded)

	data, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data: %w", err)
	}
	return data, nil
}

// findNSData locates the first element that has a <key>NS.data</key>
// child and returns the text of its <data> sibling.
func findNSData(node *xmlNode) (string, bool) {
	keyed := false
	for _, child := range node.Nodes {
		if child.XMLName.Local == "key" && strings.TrimSpace(child.Content) == "NS.data" {
			keyed = true
			break
		}
	}
	if keyed {
		for _, child := range node.Nodes {
			if child.XMLName.Local == "data" {
				return child.Content, true
			}
		}
	}
	for i := range node.Nodes {
		if text, ok := findNSData(&node.Nodes[i]); ok {
			return text, true
		}
	}
	return "", false
}
