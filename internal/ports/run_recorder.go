package ports

import "github.com/brianslattery/kms-propertizer/internal/domain"

// RunRecorder persists run summaries and returns an id for the stored record.
type RunRecorder interface {
	SaveRun(rec domain.RunRecord) (string, error)
}
