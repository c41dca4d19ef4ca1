package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/ecocare/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestArchiver keeps a copy of a sale order request before it is vacuumed.
type RequestArchiver interface {
	Archive(ctx context.Context, request *trade.SaleOrderRequest) error
}

// VacuumResult summarises one vacuum run.
type VacuumResult struct {
	Scanned  int
	Archived int
	Deleted  int64
}

// RequestVacuumService removes sale order requests that were left untouched.
type RequestVacuumService struct {
	requestRepo trade.SaleOrderRequestRepository
	archiver    RequestArchiver
	maxAge      time.Duration
	batchSize   int
	now         func() time.Time
	logger      *zap.Logger
}

// NewRequestVacuumService creates the vacuum. archiver may be nil.
func NewRequestVacuumService(
	requestRepo trade.SaleOrderRequestRepository,
	archiver RequestArchiver,
	maxAge time.Duration,
	batchSize int,
	logger *zap.Logger,
) *RequestVacuumService {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	if batchSize <= 0 {
		batchSize = 200
	}
	return &RequestVacuumService{
		requestRepo: requestRepo,
		archiver:    archiver,
		maxAge:      maxAge,
		batchSize:   batchSize,
		now:         time.Now,
		logger:      logger,
	}
}

// Run deletes, batch by batch, every request not updated within maxAge.
// Done requests are archived first; a request whose archive fails is kept
// for the next run.
func (s *RequestVacuumService) Run(ctx context.Context) (VacuumResult, error) {
	var result VacuumResult
	before := s.now().Add(-s.maxAge)
	skipped := make(map[uuid.UUID]struct{})

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		limit := s.batchSize + len(skipped)
		stale, err := s.requestRepo.FindStale(ctx, before, limit)
		if err != nil {
			return result, fmt.Errorf("find stale sale order requests: %w", err)
		}
		ids := make([]uuid.UUID, 0, len(stale))
		for i := range stale {
			r := &stale[i]
			if _, ok := skipped[r.ID]; ok {
				continue
			}
			result.Scanned++
			if s.archiver != nil && r.State == trade.RequestStateDone {
				if err := s.archiver.Archive(ctx, r); err != nil {
					s.logger.Warn("failed to archive sale order request",
						zap.String("request_id", r.ID.String()),
						zap.Error(err),
					)
					skipped[r.ID] = struct{}{}
					continue
				}
				result.Archived++
			}
			ids = append(ids, r.ID)
		}
		if len(ids) == 0 {
			break
		}
		deleted, err := s.requestRepo.DeleteByIDs(ctx, ids)
		if err != nil {
			return result, fmt.Errorf("delete stale sale order requests: %w", err)
		}
		result.Deleted += deleted
		if len(stale) < limit {
			break
		}
	}

	if result.Scanned > 0 {
		s.logger.Info("sale order requests vacuumed",
			zap.Int("scanned", result.Scanned),
			zap.Int("archived", result.Archived),
			zap.Int64("deleted", result.Deleted),
		)
	}
	return result, nil
}
