package cache

import "fmt"

const artifactPrefix = "artifact"

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey names one rendered view.
	ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the inputs that change a rendered view besides the
// dataset.
type ArtifactKeyOpts struct {
	View       string  `json:"view"`
	Format     string  `json:"format"`
	Style      string  `json:"style,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
	ConfigHash string  `json:"config_hash,omitempty"`
	ScriptHash string  `json:"script_hash,omitempty"`
}

// DefaultKeyer hashes key options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	return fmt.Sprintf("%s:%s", hashKey(artifactPrefix, datasetHash, opts), opts.Format)
}
