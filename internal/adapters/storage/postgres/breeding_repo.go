package postgres

import (
	"context"
	"time"

	"tarantula-log/internal/domain/records"

	"github.com/Masterminds/squirrel"
)

var breedingColumns = []string{
	"id", "owner_user_id",
	"female_specimen", "male_specimen", "species",
	"female_specimen_id", "male_specimen_id",
	"pairing_date", "status", "egg_sac_status",
	"egg_sac_date", "egg_sac_count", "hatch_date", "sling_count",
	"follow_up_date", "notes",
	"created_at", "updated_at",
}

type BreedingRepo struct {
	db DB
}

var _ records.BreedingRepository = (*BreedingRepo)(nil)

func NewBreedingRepo(db DB) *BreedingRepo {
	return &BreedingRepo{db: db}
}

func (r *BreedingRepo) Create(ctx context.Context, e records.BreedingEntry) error {
	return r.InsertMany(ctx, []records.BreedingEntry{e})
}

func (r *BreedingRepo) InsertMany(ctx context.Context, es []records.BreedingEntry) error {
	rows := make([][]any, 0, len(es))
	for _, e := range es {
		rows = append(rows, []any{
			e.ID, e.OwnerUserID,
			e.FemaleSpecimen, e.MaleSpecimen, e.Species,
			e.FemaleRef.Ptr(), e.MaleRef.Ptr(),
			e.PairingDate, string(e.Status), string(e.EggSacStatus),
			e.EggSacDate, e.EggSacCount, e.HatchDate, e.SlingCount,
			e.FollowUpDate, e.Notes,
			e.CreatedAt, e.UpdatedAt,
		})
	}
	return insertRows(ctx, r.db, "breeding_entries", breedingColumns, rows)
}

func (r *BreedingRepo) GetByID(ctx context.Context, ownerUserID, id string) (records.BreedingEntry, error) {
	query, args, err := r.selectQ().
		Where(squirrel.Eq{"id": id, "owner_user_id": ownerUserID}).
		ToSql()
	if err != nil {
		return records.BreedingEntry{}, err
	}
	e, err := scanBreeding(QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return records.BreedingEntry{}, mapError(err, "breeding entry", id, recordErrs)
	}
	return e, nil
}

func (r *BreedingRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]records.BreedingEntry, error) {
	return r.list(ctx, r.selectQ().Where(squirrel.Eq{"owner_user_id": ownerUserID}))
}

func (r *BreedingRepo) FindByName(ctx context.Context, ownerUserID, name string) ([]records.BreedingEntry, error) {
	return r.list(ctx, r.selectQ().
		Where(squirrel.Eq{"owner_user_id": ownerUserID}).
		Where(squirrel.Or{
			nameFoldExpr("female_specimen", name),
			nameFoldExpr("male_specimen", name),
		}))
}

func breedingUnlinked() squirrel.Sqlizer {
	return squirrel.Or{
		unlinkedExpr("female_specimen", "female_specimen_id"),
		unlinkedExpr("male_specimen", "male_specimen_id"),
	}
}

func (r *BreedingRepo) HasUnlinked(ctx context.Context) (bool, error) {
	return exists(ctx, QuerierFromCtx(ctx, r.db), "breeding_entries", breedingUnlinked())
}

func (r *BreedingRepo) ListUnlinked(ctx context.Context) ([]records.BreedingEntry, error) {
	return r.list(ctx, r.selectQ().Where(breedingUnlinked()))
}

// SetSpecimenRefs: un UPDATE por slot, cada uno con COALESCE.
func (r *BreedingRepo) SetSpecimenRefs(ctx context.Context, id string, femaleID, maleID *string) error {
	if femaleID == nil && maleID == nil {
		return nil
	}
	qb := psql.Update("breeding_entries").
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id})
	if femaleID != nil {
		qb = qb.Set("female_specimen_id", squirrel.Expr("COALESCE(female_specimen_id, ?)", *femaleID))
	}
	if maleID != nil {
		qb = qb.Set("male_specimen_id", squirrel.Expr("COALESCE(male_specimen_id, ?)", *maleID))
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return err
	}
	tag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return mapError(err, "breeding entry", id, recordErrs)
	}
	if tag.RowsAffected() == 0 {
		return records.ErrNotFound
	}
	return nil
}

// DetachSpecimen cuenta registros, no slots: uno con ambos slots apuntando cuenta una vez.
func (r *BreedingRepo) DetachSpecimen(ctx context.Context, ownerUserID, specimenID string) (int64, error) {
	query, args, err := psql.Update("breeding_entries").
		Set("female_specimen_id", squirrel.Expr("CASE WHEN female_specimen_id = ? THEN NULL ELSE female_specimen_id END", specimenID)).
		Set("male_specimen_id", squirrel.Expr("CASE WHEN male_specimen_id = ? THEN NULL ELSE male_specimen_id END", specimenID)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"owner_user_id": ownerUserID}).
		Where(squirrel.Or{
			squirrel.Eq{"female_specimen_id": specimenID},
			squirrel.Eq{"male_specimen_id": specimenID},
		}).
		ToSql()
	if err != nil {
		return 0, err
	}
	tag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return 0, mapError(err, "breeding entries", specimenID, recordErrs)
	}
	return tag.RowsAffected(), nil
}

func (r *BreedingRepo) selectQ() squirrel.SelectBuilder {
	return psql.Select(breedingColumns...).From("breeding_entries").OrderBy("pairing_date DESC", "id ASC")
}

func (r *BreedingRepo) list(ctx context.Context, qb squirrel.SelectBuilder) ([]records.BreedingEntry, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "breeding entries", "list", recordErrs)
	}
	defer rows.Close()

	out := make([]records.BreedingEntry, 0)
	for rows.Next() {
		e, err := scanBreeding(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanBreeding(row rowScanner) (records.BreedingEntry, error) {
	var (
		e                           records.BreedingEntry
		femaleRef, maleRef          *string
		status, eggSac              string
		eggSacDate, hatch, followUp *time.Time
		eggSacCount, slingCount     *int32
	)
	if err := row.Scan(
		&e.ID, &e.OwnerUserID,
		&e.FemaleSpecimen, &e.MaleSpecimen, &e.Species,
		&femaleRef, &maleRef,
		&e.PairingDate, &status, &eggSac,
		&eggSacDate, &eggSacCount, &hatch, &slingCount,
		&followUp, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return records.BreedingEntry{}, err
	}
	e.FemaleRef = records.RefFromPtr(femaleRef)
	e.MaleRef = records.RefFromPtr(maleRef)
	e.Status = records.BreedingStatus(status)
	e.EggSacStatus = records.EggSacStatus(eggSac)
	e.EggSacDate = eggSacDate
	e.HatchDate = hatch
	e.FollowUpDate = followUp
	e.EggSacCount = intPtr(eggSacCount)
	e.SlingCount = intPtr(slingCount)
	return e, nil
}

func intPtr(p *int32) *int {
	if p == nil {
		return nil
	}
	v := int(*p)
	return &v
}
