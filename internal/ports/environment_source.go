package ports

import "github.com/brianslattery/kms-propertizer/internal/domain"

// EnvironmentSource captures the environment snapshot for one run.
type EnvironmentSource interface {
	Snapshot() (domain.Environment, error)
}
