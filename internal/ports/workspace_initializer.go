package ports

// WorkspaceInitializer scaffolds a working directory for propertizer.
type WorkspaceInitializer interface {
	Init(root string, force bool) ([]string, error)
}
