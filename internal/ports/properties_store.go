package ports

import "github.com/brianslattery/kms-propertizer/internal/domain"

// PropertiesStore loads and persists properties files.
type PropertiesStore interface {
	// Load returns an empty mapping when path does not exist.
	Load(path string) (*domain.Properties, error)
	// Save relocates an existing file at path to a timestamped backup before
	// writing props.
	Save(props *domain.Properties, path string) error
}
