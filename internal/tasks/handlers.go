package tasks

import (
	"context"
	"strconv"
	"strings"
	"time"

	"aeroportal/internal/models"
	"aeroportal/internal/services"
	"aeroportal/internal/tasks/rate"
	"aeroportal/internal/utils/logger"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

// sweepGracePeriod protects artifacts whose metadata insert may still be in
// flight: anything stored less than this long ago is never swept.
const sweepGracePeriod = time.Hour

// TaskHandler handles task processing with improved error handling and logging
type TaskHandler struct {
	db         *gorm.DB
	storage    services.Storage
	logger     *logger.Logger
	sweepLimit *rate.QueueRateLimiter
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(db *gorm.DB, storage services.Storage, taskClient *TaskClient) *TaskHandler {
	var sweepLimit *rate.QueueRateLimiter
	if taskClient != nil {
		sweepLimit = rate.NewQueueRateLimiter(taskClient.GetRedisClient(), rate.QueueConfig{
			Name: QueueLow,
			RateLimit: rate.RateLimit{
				Window:  time.Hour,
				MaxJobs: 2,
			},
		})
	}

	return &TaskHandler{
		db:         db,
		storage:    storage,
		logger:     logger.New("task_handler"),
		sweepLimit: sweepLimit,
	}
}

// HandleStorageSweep removes stored artifacts no metadata row references any
// more. Rows reference artifacts from four columns: file paths, report
// paths, contact photos and link icons.
func (h *TaskHandler) HandleStorageSweep(ctx context.Context, t *asynq.Task) error {
	if h.sweepLimit != nil {
		allowed, err := h.sweepLimit.Allow(ctx, TaskTypeStorageSweep)
		if err != nil {
			h.logger.Warn("Sweep rate check failed, continuing: %v", err)
		} else if !allowed {
			h.logger.Info("storage sweep skipped, rate limit reached")
			return nil
		}
	}

	referenced, err := h.referencedPaths(ctx)
	if err != nil {
		return h.logger.Error("Failed to collect referenced paths", err)
	}

	stored, err := h.storage.List(ctx, "")
	if err != nil {
		return h.logger.Error("Failed to list stored artifacts", err)
	}

	removed := 0
	for _, path := range stored {
		if referenced[path] {
			continue
		}
		if withinGracePeriod(path, time.Now()) {
			continue
		}
		if err := h.storage.Delete(ctx, path); err != nil {
			h.logger.Warn("Failed to delete orphan %s: %v", path, err)
			continue
		}
		removed++
	}

	h.logger.Info("storage sweep done stored=%d referenced=%d removed=%d",
		len(stored), len(referenced), removed)
	return nil
}

func (h *TaskHandler) referencedPaths(ctx context.Context) (map[string]bool, error) {
	referenced := make(map[string]bool)

	collect := func(model interface{}, column string) error {
		var paths []string
		err := h.db.WithContext(ctx).Model(model).
			Where(column + " <> ''").Pluck(column, &paths).Error
		if err != nil {
			return err
		}
		for _, p := range paths {
			referenced[p] = true
		}
		return nil
	}

	if err := collect(&models.File{}, "file_path"); err != nil {
		return nil, err
	}
	if err := collect(&models.SupervisionReport{}, "file_path"); err != nil {
		return nil, err
	}
	if err := collect(&models.Contact{}, "photo_path"); err != nil {
		return nil, err
	}
	if err := collect(&models.Link{}, "icon_path"); err != nil {
		return nil, err
	}

	return referenced, nil
}

// withinGracePeriod parses the unix timestamp prefix stored names carry. A
// name without a parseable prefix is treated as fresh and left alone.
func withinGracePeriod(path string, now time.Time) bool {
	base := path
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	prefix, _, found := strings.Cut(base, "_")
	if !found {
		return true
	}
	ts, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return true
	}
	return now.Sub(time.Unix(ts, 0)) < sweepGracePeriod
}
