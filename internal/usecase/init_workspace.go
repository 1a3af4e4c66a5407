package usecase

import (
	"github.com/brianslattery/kms-propertizer/internal/domain"
	"github.com/brianslattery/kms-propertizer/internal/ports"
)

type InitWorkspace struct {
	initializer ports.WorkspaceInitializer
}

func NewInitWorkspace(initializer ports.WorkspaceInitializer) *InitWorkspace {
	return &InitWorkspace{initializer: initializer}
}

// Execute scaffolds root and returns the files written.
func (uc *InitWorkspace) Execute(root string, force bool) ([]string, error) {
	if err := domain.RequireValue("init", "root", root); err != nil {
		return nil, err
	}
	return uc.initializer.Init(root, force)
}
