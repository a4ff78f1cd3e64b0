package wiring

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/crisislab/revq/internal/application"
	"github.com/crisislab/revq/internal/infrastructure/logging"
	"github.com/crisislab/revq/internal/infrastructure/storage"
)

// AppServices exposes the application layer services wired together with a workspace.
type AppServices struct {
	Workspace *Workspace
	Logger    zerolog.Logger
	Init      *application.InitService
	Ingest    *application.IngestService
	Review    *application.ReviewService
	Results   *application.ResultsService
	Analytics *application.AnalyticsService
	Dataset   *application.DatasetService
	Audit     *application.AuditService

	logCloser io.Closer
}

// BuildAppServices constructs the full service set for a workspace root.
func BuildAppServices(root string) (*AppServices, error) {
	return BuildAppServicesWithFs(afero.NewOsFs(), root)
}

// BuildAppServicesWithFs constructs the service set on an injected
// filesystem. The returned services are usable even when the error is
// non-nil: a failed session log open degrades to a no-op logger so
// commands keep working.
func BuildAppServicesWithFs(fs afero.Fs, root string) (*AppServices, error) {
	workspace := NewWorkspaceWithFs(fs, root)

	logger, closer, logErr := openSessionLog(fs, workspace)

	services := &AppServices{
		Workspace: workspace,
		Logger:    logger,
		Init:      application.NewInitService(workspace.Repo, workspace.Audit),
		Ingest:    application.NewIngestService(fs, workspace.Repo, workspace.Audit, logger),
		Review:    application.NewReviewService(workspace.Repo, workspace.Audit, logger),
		Results:   application.NewResultsService(workspace.Repo, workspace.Audit, logger),
		Analytics: application.NewAnalyticsService(workspace.Repo),
		Dataset:   application.NewDatasetService(fs, workspace.Repo, workspace.Audit, logger),
		Audit:     workspace.Audit,
		logCloser: closer,
	}

	return services, logErr
}

// openSessionLog opens .revq/session.log at the configured level. An
// uninitialized workspace has nowhere to log yet and gets the no-op
// logger without error, so init itself can run.
func openSessionLog(fs afero.Fs, workspace *Workspace) (zerolog.Logger, io.Closer, error) {
	if !workspace.Repo.IsInitialized() {
		return logging.Nop(), nil, nil
	}

	level := ""
	if cfg, err := workspace.Repo.LoadConfig(); err == nil {
		level = cfg.LogLevel
	}

	path, err := workspace.Repo.ResolvePath(storage.LogFile)
	if err != nil {
		return logging.Nop(), nil, fmt.Errorf("failed to resolve session log path: %w", err)
	}

	logger, closer, err := logging.Open(fs, path, level)
	if err != nil {
		return logging.Nop(), nil, fmt.Errorf("failed to open session log: %w", err)
	}
	return logger, closer, nil
}

// Close releases the session log file handle.
func (s *AppServices) Close() error {
	if s.logCloser == nil {
		return nil
	}
	return s.logCloser.Close()
}
