package anchor

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestVersion is the manifest format understood by this package.
const ManifestVersion = 1

// ErrUnsupportedVersion is returned for manifests written for another format version.
var ErrUnsupportedVersion = errors.New("unsupported anchor manifest version")

// Manifest lists the anchors of each template, keyed by template name.
// Anchors are kept in the order patch steps consume them.
type Manifest struct {
	Version   int                 `yaml:"version"`
	Templates map[string][]Anchor `yaml:"templates"`
}

// ParseManifest decodes and validates a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse anchor manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the version and that every anchor has a unique name and
// non-blank text within its template.
func (m *Manifest) Validate() error {
	if m.Version != ManifestVersion {
		return fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, m.Version, ManifestVersion)
	}
	if len(m.Templates) == 0 {
		return fmt.Errorf("anchor manifest declares no templates")
	}

	for tmpl, anchors := range m.Templates {
		seen := make(map[string]bool, len(anchors))
		for i, a := range anchors {
			if a.Name == "" {
				return fmt.Errorf("template %s: anchor %d has no name", tmpl, i)
			}
			if seen[a.Name] {
				return fmt.Errorf("template %s: duplicate anchor %q", tmpl, a.Name)
			}
			if strings.TrimSpace(a.Text) == "" {
				return fmt.Errorf("template %s: anchor %q has no text", tmpl, a.Name)
			}
			seen[a.Name] = true
		}
	}

	return nil
}

// Lookup returns the named anchor of a template.
func (m *Manifest) Lookup(template, name string) (Anchor, error) {
	for _, a := range m.Templates[template] {
		if a.Name == name {
			return a, nil
		}
	}
	return Anchor{}, fmt.Errorf("%w: %s/%s", ErrUnknownAnchor, template, name)
}

// Anchors returns the anchors of a template in manifest order.
func (m *Manifest) Anchors(template string) []Anchor {
	return m.Templates[template]
}
