package importer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/matheus3301/bookadmin/internal/api"
	"github.com/matheus3301/bookadmin/internal/bus"
	"go.uber.org/zap"
)

// BulkCreator sends a batch of users in one request.
type BulkCreator interface {
	BulkCreateUsers(ctx context.Context, users []api.BulkUser) (*api.ImportOutcome, error)
}

// History records import batches locally. Failures here never block an import.
type History interface {
	BeginImport(batchID, sourceFile string, total int) error
	CompleteImport(batchID string, countSuccess, countFail int) error
	FailImport(batchID, errMsg string) error
}

// Batch is a parsed spreadsheet waiting for confirmation.
type Batch struct {
	Source  string
	Records []Record
}

// Result is the outcome of a submitted batch.
type Result struct {
	BatchID string
	Source  string
	Total   int
	api.ImportOutcome
}

// Summary is the user-facing notification text for r.
func (r Result) Summary() string {
	return fmt.Sprintf("Successfully imported %d users. Failed to import %d users.", r.CountSuccess, r.CountFail)
}

// Importer submits parsed batches to the backend.
type Importer struct {
	creator  BulkCreator
	history  History
	bus      *bus.Bus
	password string
	logger   *zap.Logger
}

// New creates an importer. password is attached to every created user.
func New(creator BulkCreator, history History, b *bus.Bus, password string, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{
		creator:  creator,
		history:  history,
		bus:      b,
		password: password,
		logger:   logger,
	}
}

// Load parses the spreadsheet at path into a batch.
func (im *Importer) Load(path string) (*Batch, error) {
	records, err := ParseFile(path)
	if err != nil {
		im.logger.Warn("spreadsheet rejected", zap.String("file", path), zap.Error(err))
		return nil, err
	}
	im.logger.Info("spreadsheet parsed", zap.String("file", path), zap.Int("records", len(records)))
	return &Batch{Source: path, Records: records}, nil
}

// Submit sends every record of batch in one bulk request. On success it
// publishes import.completed and users.changed so user tables refetch.
func (im *Importer) Submit(ctx context.Context, batch Batch) (*Result, error) {
	if len(batch.Records) == 0 {
		return nil, ErrNothingToImport
	}

	batchID := uuid.NewString()
	log := im.logger.With(zap.String("batch_id", batchID), zap.String("file", batch.Source))
	if im.history != nil {
		if err := im.history.BeginImport(batchID, batch.Source, len(batch.Records)); err != nil {
			log.Warn("failed to record import start", zap.Error(err))
		}
	}

	users := make([]api.BulkUser, len(batch.Records))
	for i, r := range batch.Records {
		users[i] = api.BulkUser{
			FullName: r.FullName,
			Email:    r.Email,
			Phone:    r.Phone,
			Password: im.password,
		}
	}

	outcome, err := im.creator.BulkCreateUsers(ctx, users)
	if err != nil {
		log.Error("bulk create failed", zap.Error(err))
		if im.history != nil {
			if herr := im.history.FailImport(batchID, err.Error()); herr != nil {
				log.Warn("failed to record import failure", zap.Error(herr))
			}
		}
		im.bus.Emit(bus.ImportFailed, err)
		return nil, fmt.Errorf("bulk create: %w", err)
	}

	res := &Result{
		BatchID:       batchID,
		Source:        batch.Source,
		Total:         len(batch.Records),
		ImportOutcome: *outcome,
	}
	if im.history != nil {
		if err := im.history.CompleteImport(batchID, outcome.CountSuccess, outcome.CountFail); err != nil {
			log.Warn("failed to record import outcome", zap.Error(err))
		}
	}
	log.Info("import completed",
		zap.Int("total", res.Total),
		zap.Int("count_success", outcome.CountSuccess),
		zap.Int("count_fail", outcome.CountFail),
	)
	im.bus.Emit(bus.ImportCompleted, *res)
	im.bus.Emit(bus.UsersChanged, "import")
	return res, nil
}
