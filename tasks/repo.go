package tasks

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// StatsSQL aggregates a user's board in a single pass.
var StatsSQL = strings.TrimSpace(`
SELECT
	COUNT(*) AS total,
	SUM(CASE WHEN "status" = 'To Do' THEN 1 ELSE 0 END) AS todo,
	SUM(CASE WHEN "status" = 'In Progress' THEN 1 ELSE 0 END) AS in_progress,
	SUM(CASE WHEN "status" = 'Done' THEN 1 ELSE 0 END) AS done
FROM "tasks" AS "tsk"
WHERE "tsk"."deleted_at" IS NULL AND "tsk"."user_id" = ?;
`)

// Filters narrows task listings. Zero values mean no filtering.
type Filters struct {
	Status   Status
	Priority Priority
	OwnerID  uuid.UUID
}

func (f Filters) apply(q *bun.SelectQuery) *bun.SelectQuery {
	if f.Status != "" {
		q = q.Where("?TableAlias.status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("?TableAlias.priority = ?", f.Priority)
	}
	if f.OwnerID != uuid.Nil {
		q = q.Where("?TableAlias.user_id = ?", f.OwnerID)
	}
	return q
}

type Tasks interface {
	repository.Repository[*Task]

	GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*Task, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filters Filters) ([]*Task, error)
	ListAllWithOwners(ctx context.Context, filters Filters) ([]*Task, error)
	StatsByOwner(ctx context.Context, ownerID uuid.UUID) (*Stats, error)

	Create(ctx context.Context, record *Task, criteria ...repository.InsertCriteria) (*Task, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Task, criteria ...repository.InsertCriteria) (*Task, error)

	Remove(ctx context.Context, record *Task) error
}

type tasksRepo struct {
	repository.Repository[*Task]
	db *bun.DB
}

var (
	_ Tasks                        = (*tasksRepo)(nil)
	_ repository.Repository[*Task] = (*tasksRepo)(nil)
)

func NewTasksRepository(db *bun.DB) Tasks {
	repo := repository.NewRepository[*Task](db, repository.ModelHandlers[*Task]{
		NewRecord: func() *Task { return &Task{} },
		GetID: func(t *Task) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *Task, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
		GetIdentifier: func() string {
			return "id"
		},
	})

	return &tasksRepo{
		Repository: repo,
		db:         db,
	}
}

func (r *tasksRepo) Create(ctx context.Context, record *Task, criteria ...repository.InsertCriteria) (*Task, error) {
	return r.CreateTx(ctx, r.db, record, criteria...)
}

func (r *tasksRepo) CreateTx(ctx context.Context, tx bun.IDB, record *Task, criteria ...repository.InsertCriteria) (*Task, error) {
	prepareTaskDefaults(record)
	return r.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (r *tasksRepo) GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*Task, error) {
	record := &Task{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.user_id = ?", ownerID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"id":      id.String(),
					"user_id": ownerID.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

func (r *tasksRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, filters Filters) ([]*Task, error) {
	filters.OwnerID = ownerID
	return r.list(ctx, filters, false)
}

func (r *tasksRepo) ListAllWithOwners(ctx context.Context, filters Filters) ([]*Task, error) {
	return r.list(ctx, filters, true)
}

func (r *tasksRepo) list(ctx context.Context, filters Filters, withOwner bool) ([]*Task, error) {
	records := []*Task{}
	q := r.db.NewSelect().Model(&records)
	q = filters.apply(q)
	if withOwner {
		q = q.Relation("Owner")
	}
	if err := q.Order("tsk.created_at DESC").Scan(ctx); err != nil {
		return nil, err
	}
	return records, nil
}

// Remove soft deletes the task. The model's deleted_at tag turns this
// into an update, listings already exclude soft deleted rows.
func (r *tasksRepo) Remove(ctx context.Context, record *Task) error {
	_, err := r.db.NewDelete().
		Model(record).
		WherePK().
		Exec(ctx)
	return err
}

func (r *tasksRepo) StatsByOwner(ctx context.Context, ownerID uuid.UUID) (*Stats, error) {
	stats := &Stats{}
	if err := r.db.NewRaw(StatsSQL, ownerID).Scan(ctx, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func prepareTaskDefaults(task *Task) {
	if task == nil {
		return
	}

	task.EnsureDefaults()

	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if task.CreatedAt == nil {
		now := time.Now()
		task.CreatedAt = &now
		task.UpdatedAt = &now
	}
}
