package wiring

import (
	"github.com/spf13/afero"

	"github.com/crisislab/revq/internal/application"
	"github.com/crisislab/revq/internal/infrastructure/config"
	"github.com/crisislab/revq/internal/infrastructure/storage"
)

// Workspace bundles core infrastructure dependencies.
type Workspace struct {
	Fs    afero.Fs
	Root  string
	Repo  *storage.FilesystemRepository
	Audit *application.AuditService
}

func NewWorkspace(root string) *Workspace {
	return NewWorkspaceWithFs(afero.NewOsFs(), root)
}

// NewWorkspaceWithFs injects the filesystem, letting tests run against
// an in-memory one. The audit actor is resolved once per session.
func NewWorkspaceWithFs(fs afero.Fs, root string) *Workspace {
	repo := storage.NewFilesystemRepositoryWithFs(fs, root)
	return &Workspace{
		Fs:    fs,
		Root:  root,
		Repo:  repo,
		Audit: application.NewAuditService(repo, config.ResolveAnnotator(fs, root)),
	}
}
