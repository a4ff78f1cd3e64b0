package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/crisislab/revq/internal/domain"
	"github.com/crisislab/revq/internal/domain/review"
)

const RevqDir = ".revq"
const QueueFile = "queue.json"
const ResultsFile = "results.json"
const ConfigFile = "config.yaml"
const EventsFile = "events.jsonl"
const LogFile = "session.log"

// FilesystemRepository persists everything under <root>/.revq. Writes to
// the two collections are revision-checked and atomic; the caller's
// in-memory revision must match the file before anything is replaced.
type FilesystemRepository struct {
	fs          afero.Fs
	root        string
	retryConfig retry.Config
}

func NewFilesystemRepository(root string) *FilesystemRepository {
	return NewFilesystemRepositoryWithFs(afero.NewOsFs(), root)
}

// NewFilesystemRepositoryWithFs injects the filesystem, letting tests
// run against an in-memory one.
func NewFilesystemRepositoryWithFs(fs afero.Fs, root string) *FilesystemRepository {
	return &FilesystemRepository{
		fs:   fs,
		root: root,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// ResolvePath ensures the path is within the .revq directory and prevents traversal.
func (r *FilesystemRepository) ResolvePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	baseDir := filepath.Join(r.root, RevqDir)
	fullPath := filepath.Join(baseDir, filename)
	cleanPath := filepath.Clean(fullPath)

	// Must stay a direct child of .revq, no nested directories.
	if !strings.HasPrefix(cleanPath, baseDir) || filepath.Dir(cleanPath) != baseDir {
		return "", fmt.Errorf("invalid file path: %s", filename)
	}

	return cleanPath, nil
}

func (r *FilesystemRepository) Initialize() error {
	path := filepath.Join(r.root, RevqDir)
	if err := r.fs.MkdirAll(path, 0700); err != nil {
		return fmt.Errorf("failed to create .revq directory: %w", err)
	}
	return nil
}

func (r *FilesystemRepository) IsInitialized() bool {
	exists, err := afero.DirExists(r.fs, filepath.Join(r.root, RevqDir))
	return err == nil && exists
}

// queueEnvelope is the stored form of queue.json.
type queueEnvelope struct {
	Revision int                    `json:"revision"`
	Records  []review.PendingRecord `json:"records"`
}

// resultsEnvelope is the stored form of results.json.
type resultsEnvelope struct {
	Revision int                     `json:"revision"`
	Records  []review.ReviewedRecord `json:"records"`
}

// LoadQueue reads the pending queue. A missing file returns nil so
// callers can distinguish "never ingested" from an empty queue.
func (r *FilesystemRepository) LoadQueue() (*review.Queue, error) {
	path, err := r.ResolvePath(QueueFile)
	if err != nil {
		return nil, err
	}

	data, err := r.readCollection(path, "queue")
	if err != nil || data == nil {
		return nil, err
	}

	if err := validateShape(queueSchemaLoader, data, QueueFile); err != nil {
		return nil, err
	}

	var env queueEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &review.CorruptDataError{Path: QueueFile, Reason: err.Error()}
	}

	q, err := review.NewQueue(env.Revision, env.Records)
	if err != nil {
		return nil, &review.CorruptDataError{Path: QueueFile, Reason: err.Error()}
	}
	return q, nil
}

// SaveQueue atomically replaces queue.json, bumping the revision. The
// on-disk revision must still match the loaded one.
func (r *FilesystemRepository) SaveQueue(q *review.Queue) error {
	path, err := r.ResolvePath(QueueFile)
	if err != nil {
		return err
	}

	if err := r.checkRevision(path, QueueFile, q.Revision); err != nil {
		return err
	}

	records := q.Records()
	if records == nil {
		records = []review.PendingRecord{}
	}
	data, err := json.MarshalIndent(queueEnvelope{Revision: q.Revision + 1, Records: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal queue: %w", err)
	}

	if err := writeFileAtomic(r.fs, path, data); err != nil {
		return fmt.Errorf("failed to save queue: %w", err)
	}
	q.Revision++
	return nil
}

// LoadResults reads the reviewed records. A missing file is an empty
// collection; reviewing may legitimately start before any result exists.
func (r *FilesystemRepository) LoadResults() (*review.Results, error) {
	path, err := r.ResolvePath(ResultsFile)
	if err != nil {
		return nil, err
	}

	data, err := r.readCollection(path, "results")
	if err != nil {
		return nil, err
	}
	if data == nil {
		return review.EmptyResults(), nil
	}

	if err := validateShape(resultsSchemaLoader, data, ResultsFile); err != nil {
		return nil, err
	}

	var env resultsEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &review.CorruptDataError{Path: ResultsFile, Reason: err.Error()}
	}

	res, err := review.NewResults(env.Revision, env.Records)
	if err != nil {
		return nil, &review.CorruptDataError{Path: ResultsFile, Reason: err.Error()}
	}
	return res, nil
}

// SaveResults atomically replaces results.json, bumping the revision.
func (r *FilesystemRepository) SaveResults(res *review.Results) error {
	path, err := r.ResolvePath(ResultsFile)
	if err != nil {
		return err
	}

	if err := r.checkRevision(path, ResultsFile, res.Revision); err != nil {
		return err
	}

	records := res.Records()
	if records == nil {
		records = []review.ReviewedRecord{}
	}
	data, err := json.MarshalIndent(resultsEnvelope{Revision: res.Revision + 1, Records: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := writeFileAtomic(r.fs, path, data); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}
	res.Revision++
	return nil
}

// readCollection reads a collection file with transient-error retry.
// It returns nil bytes without error when the file does not exist.
func (r *FilesystemRepository) readCollection(path, name string) ([]byte, error) {
	exists, err := afero.Exists(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s file: %w", name, err)
	}
	if !exists {
		return nil, nil
	}

	retryer := retry.New[[]byte](r.retryConfig)
	data, err := retryer.Do(context.Background(), func(ctx context.Context) ([]byte, error) {
		return afero.ReadFile(r.fs, path)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file: %w", name, err)
	}
	return data, nil
}

// checkRevision compares the on-disk revision with the loaded one. A
// file that appeared or moved since the load fails the save; corrupt
// bytes on disk fail it too rather than being clobbered.
func (r *FilesystemRepository) checkRevision(path, name string, loaded int) error {
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			if loaded != 0 {
				return &review.RevisionConflictError{Path: name, Loaded: loaded, Found: 0}
			}
			return nil
		}
		return fmt.Errorf("failed to read %s file: %w", name, err)
	}

	var env struct {
		Revision int `json:"revision"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return &review.CorruptDataError{Path: name, Reason: "not valid JSON: " + err.Error()}
	}
	if env.Revision != loaded {
		return &review.RevisionConflictError{Path: name, Loaded: loaded, Found: env.Revision}
	}
	return nil
}

func (r *FilesystemRepository) SaveConfig(cfg *domain.Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	path, err := r.ResolvePath(ConfigFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return writeFileAtomic(r.fs, path, data)
}

func (r *FilesystemRepository) LoadConfig() (*domain.Config, error) {
	path, err := r.ResolvePath(ConfigFile)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg domain.Config
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Fields with no legitimate zero fall back to defaults.
	if len(cfg.Labels) == 0 {
		cfg.Labels = append([]string(nil), review.DefaultLabels...)
	}
	if cfg.SkipPolicy == "" {
		cfg.SkipPolicy = domain.SkipDiscard
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return &cfg, nil
}
