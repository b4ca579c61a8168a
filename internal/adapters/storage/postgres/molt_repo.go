package postgres

import (
	"context"
	"strings"
	"time"

	"tarantula-log/internal/domain/records"

	"github.com/Masterminds/squirrel"
)

var moltColumns = []string{
	"id", "owner_user_id",
	"specimen", "species", "specimen_id",
	"date", "entry_type", "stage",
	"old_size", "new_size", "humidity", "temperature",
	"feeding_prey", "feeding_outcome", "feeding_amount",
	"reminder_date", "notes",
	"created_at", "updated_at",
}

var recordErrs = sentinels{notFound: records.ErrNotFound}

// unlinkedExpr: tiene nombre libre pero no referencia.
func unlinkedExpr(nameCol, refCol string) squirrel.Sqlizer {
	return squirrel.Expr(refCol + " IS NULL AND btrim(" + nameCol + ") <> ''")
}

func nameFoldExpr(col, name string) squirrel.Sqlizer {
	return squirrel.Expr("lower(btrim("+col+")) = lower(?)", strings.TrimSpace(name))
}

type MoltRepo struct {
	db DB
}

var _ records.MoltRepository = (*MoltRepo)(nil)

func NewMoltRepo(db DB) *MoltRepo {
	return &MoltRepo{db: db}
}

func (r *MoltRepo) Create(ctx context.Context, e records.MoltEntry) error {
	return r.InsertMany(ctx, []records.MoltEntry{e})
}

func (r *MoltRepo) InsertMany(ctx context.Context, es []records.MoltEntry) error {
	rows := make([][]any, 0, len(es))
	for _, e := range es {
		rows = append(rows, []any{
			e.ID, e.OwnerUserID,
			e.Specimen, e.Species, e.SpecimenRef.Ptr(),
			e.Date, string(e.EntryType), string(e.Stage),
			e.OldSize, e.NewSize, e.Humidity, e.Temperature,
			e.FeedingPrey, string(e.FeedingOutcome), e.FeedingAmount,
			e.ReminderDate, e.Notes,
			e.CreatedAt, e.UpdatedAt,
		})
	}
	return insertRows(ctx, r.db, "molt_entries", moltColumns, rows)
}

func (r *MoltRepo) GetByID(ctx context.Context, ownerUserID, id string) (records.MoltEntry, error) {
	query, args, err := r.selectQ().
		Where(squirrel.Eq{"id": id, "owner_user_id": ownerUserID}).
		ToSql()
	if err != nil {
		return records.MoltEntry{}, err
	}
	e, err := scanMolt(QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return records.MoltEntry{}, mapError(err, "molt entry", id, recordErrs)
	}
	return e, nil
}

func (r *MoltRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]records.MoltEntry, error) {
	return r.list(ctx, r.selectQ().Where(squirrel.Eq{"owner_user_id": ownerUserID}))
}

func (r *MoltRepo) FindByName(ctx context.Context, ownerUserID, name string) ([]records.MoltEntry, error) {
	return r.list(ctx, r.selectQ().
		Where(squirrel.Eq{"owner_user_id": ownerUserID}).
		Where(nameFoldExpr("specimen", name)))
}

func (r *MoltRepo) HasUnlinked(ctx context.Context) (bool, error) {
	return exists(ctx, QuerierFromCtx(ctx, r.db), "molt_entries", unlinkedExpr("specimen", "specimen_id"))
}

func (r *MoltRepo) ListUnlinked(ctx context.Context) ([]records.MoltEntry, error) {
	return r.list(ctx, r.selectQ().Where(unlinkedExpr("specimen", "specimen_id")))
}

func (r *MoltRepo) SetSpecimenRef(ctx context.Context, id, specimenID string) error {
	return setRef(ctx, QuerierFromCtx(ctx, r.db), "molt_entries", "specimen_id", id, specimenID)
}

func (r *MoltRepo) DetachSpecimen(ctx context.Context, ownerUserID, specimenID string) (int64, error) {
	return detachRef(ctx, QuerierFromCtx(ctx, r.db), "molt_entries", "specimen_id", ownerUserID, specimenID)
}

func (r *MoltRepo) selectQ() squirrel.SelectBuilder {
	return psql.Select(moltColumns...).From("molt_entries").OrderBy("date DESC", "id ASC")
}

func (r *MoltRepo) list(ctx context.Context, qb squirrel.SelectBuilder) ([]records.MoltEntry, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "molt entries", "list", recordErrs)
	}
	defer rows.Close()

	out := make([]records.MoltEntry, 0)
	for rows.Next() {
		e, err := scanMolt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanMolt(row rowScanner) (records.MoltEntry, error) {
	var (
		e                         records.MoltEntry
		ref                       *string
		entryType, stage, outcome string
		reminder                  *time.Time
	)
	if err := row.Scan(
		&e.ID, &e.OwnerUserID,
		&e.Specimen, &e.Species, &ref,
		&e.Date, &entryType, &stage,
		&e.OldSize, &e.NewSize, &e.Humidity, &e.Temperature,
		&e.FeedingPrey, &outcome, &e.FeedingAmount,
		&reminder, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return records.MoltEntry{}, err
	}
	e.SpecimenRef = records.RefFromPtr(ref)
	e.EntryType = records.EntryType(entryType)
	e.Stage = records.Stage(stage)
	e.FeedingOutcome = records.FeedingOutcome(outcome)
	e.ReminderDate = reminder
	return e, nil
}
