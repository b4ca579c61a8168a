package postgres

import (
	"context"
	"time"

	"tarantula-log/internal/domain/records"

	"github.com/Masterminds/squirrel"
)

var healthColumns = []string{
	"id", "owner_user_id",
	"specimen", "species", "specimen_id",
	"date", "weight", "weight_unit", "condition",
	"behavior", "health_issues", "treatment",
	"follow_up_date", "notes",
	"created_at", "updated_at",
}

type HealthRepo struct {
	db DB
}

var _ records.HealthRepository = (*HealthRepo)(nil)

func NewHealthRepo(db DB) *HealthRepo {
	return &HealthRepo{db: db}
}

func (r *HealthRepo) Create(ctx context.Context, e records.HealthEntry) error {
	return r.InsertMany(ctx, []records.HealthEntry{e})
}

func (r *HealthRepo) InsertMany(ctx context.Context, es []records.HealthEntry) error {
	rows := make([][]any, 0, len(es))
	for _, e := range es {
		rows = append(rows, []any{
			e.ID, e.OwnerUserID,
			e.Specimen, e.Species, e.SpecimenRef.Ptr(),
			e.Date, e.Weight, e.WeightUnit, string(e.Condition),
			e.Behavior, e.HealthIssues, e.Treatment,
			e.FollowUpDate, e.Notes,
			e.CreatedAt, e.UpdatedAt,
		})
	}
	return insertRows(ctx, r.db, "health_entries", healthColumns, rows)
}

func (r *HealthRepo) GetByID(ctx context.Context, ownerUserID, id string) (records.HealthEntry, error) {
	query, args, err := r.selectQ().
		Where(squirrel.Eq{"id": id, "owner_user_id": ownerUserID}).
		ToSql()
	if err != nil {
		return records.HealthEntry{}, err
	}
	e, err := scanHealth(QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return records.HealthEntry{}, mapError(err, "health entry", id, recordErrs)
	}
	return e, nil
}

func (r *HealthRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]records.HealthEntry, error) {
	return r.list(ctx, r.selectQ().Where(squirrel.Eq{"owner_user_id": ownerUserID}))
}

func (r *HealthRepo) FindByName(ctx context.Context, ownerUserID, name string) ([]records.HealthEntry, error) {
	return r.list(ctx, r.selectQ().
		Where(squirrel.Eq{"owner_user_id": ownerUserID}).
		Where(nameFoldExpr("specimen", name)))
}

func (r *HealthRepo) HasUnlinked(ctx context.Context) (bool, error) {
	return exists(ctx, QuerierFromCtx(ctx, r.db), "health_entries", unlinkedExpr("specimen", "specimen_id"))
}

func (r *HealthRepo) ListUnlinked(ctx context.Context) ([]records.HealthEntry, error) {
	return r.list(ctx, r.selectQ().Where(unlinkedExpr("specimen", "specimen_id")))
}

func (r *HealthRepo) SetSpecimenRef(ctx context.Context, id, specimenID string) error {
	return setRef(ctx, QuerierFromCtx(ctx, r.db), "health_entries", "specimen_id", id, specimenID)
}

func (r *HealthRepo) DetachSpecimen(ctx context.Context, ownerUserID, specimenID string) (int64, error) {
	return detachRef(ctx, QuerierFromCtx(ctx, r.db), "health_entries", "specimen_id", ownerUserID, specimenID)
}

func (r *HealthRepo) selectQ() squirrel.SelectBuilder {
	return psql.Select(healthColumns...).From("health_entries").OrderBy("date DESC", "id ASC")
}

func (r *HealthRepo) list(ctx context.Context, qb squirrel.SelectBuilder) ([]records.HealthEntry, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "health entries", "list", recordErrs)
	}
	defer rows.Close()

	out := make([]records.HealthEntry, 0)
	for rows.Next() {
		e, err := scanHealth(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanHealth(row rowScanner) (records.HealthEntry, error) {
	var (
		e         records.HealthEntry
		ref       *string
		condition string
		followUp  *time.Time
	)
	if err := row.Scan(
		&e.ID, &e.OwnerUserID,
		&e.Specimen, &e.Species, &ref,
		&e.Date, &e.Weight, &e.WeightUnit, &condition,
		&e.Behavior, &e.HealthIssues, &e.Treatment,
		&followUp, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return records.HealthEntry{}, err
	}
	e.SpecimenRef = records.RefFromPtr(ref)
	e.Condition = records.Condition(condition)
	e.FollowUpDate = followUp
	return e, nil
}
