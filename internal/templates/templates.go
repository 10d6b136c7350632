// Package templates provides the base source files that transactions are
// patched into, together with the anchor manifest describing their
// insertion points.
//
// The built-in set is embedded in the binary. A project can override any of
// the three files by pointing templates.dir at a directory containing
// tx.rs, state.rs or anchors.yaml; missing files fall back to the embedded
// copies.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/simonhull/firebird-suite/wren/internal/anchor"
)

// Template kinds. They double as template names in the anchor manifest.
const (
	Transaction = "transaction"
	State       = "state"
)

// Asset file names, embedded and in override directories.
const (
	TransactionFile = "tx.rs"
	StateFile       = "state.rs"
	ManifestFile    = "anchors.yaml"
)

// EmbeddedSource is the Source of a Set loaded entirely from the binary.
const EmbeddedSource = "embedded"

//go:embed assets/tx.rs assets/state.rs assets/anchors.yaml
var assets embed.FS

// Set is an immutable bundle of base templates and their anchors.
// Load it once and pass it to the patchers.
type Set struct {
	Transaction string
	State       string
	Anchors     *anchor.Manifest
	Source      string
}

// Embedded returns the built-in template set.
func Embedded() (*Set, error) {
	return Load(nil, "")
}

// Load reads a template set. With an empty dir the embedded assets are used;
// otherwise each file present in dir replaces its embedded counterpart.
func Load(fsys afero.Fs, dir string) (*Set, error) {
	if dir != "" && fsys == nil {
		fsys = afero.NewOsFs()
	}

	read := func(name string) ([]byte, error) {
		if dir != "" {
			data, err := afero.ReadFile(fsys, filepath.Join(dir, name))
			if err == nil {
				return data, nil
			}
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read template %s: %w", name, err)
			}
		}
		data, err := assets.ReadFile("assets/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded template %s: %w", name, err)
		}
		return data, nil
	}

	txData, err := read(TransactionFile)
	if err != nil {
		return nil, err
	}
	stateData, err := read(StateFile)
	if err != nil {
		return nil, err
	}
	manifestData, err := read(ManifestFile)
	if err != nil {
		return nil, err
	}

	manifest, err := anchor.ParseManifest(manifestData)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", ManifestFile, err)
	}

	source := EmbeddedSource
	if dir != "" {
		source = dir
	}

	return &Set{
		Transaction: string(txData),
		State:       string(stateData),
		Anchors:     manifest,
		Source:      source,
	}, nil
}

// Text returns the template of the given kind.
func (s *Set) Text(kind string) (string, error) {
	switch kind {
	case Transaction:
		return s.Transaction, nil
	case State:
		return s.State, nil
	default:
		return "", fmt.Errorf("unknown template kind %q (expected %s or %s)", kind, Transaction, State)
	}
}

// Kinds lists the template kinds in generation order.
func Kinds() []string {
	return []string{Transaction, State}
}
