package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"tarantula-log/internal/domain/specimens"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var specimenColumns = []string{
	"id", "owner_user_id",
	"name", "species", "sex",
	"image_url", "notes",
	"archived", "archived_at", "archived_reason",
	"created_at", "updated_at",
}

var specimenErrs = sentinels{notFound: specimens.ErrNotFound, exists: specimens.ErrAlreadyExists}

type SpecimensRepo struct {
	db DB
}

var _ specimens.Repository = (*SpecimensRepo)(nil)

func NewSpecimensRepo(db DB) *SpecimensRepo {
	return &SpecimensRepo{db: db}
}

func (r *SpecimensRepo) Create(ctx context.Context, s specimens.Specimen) error {
	query, args, err := insertSpecimen(s).ToSql()
	if err != nil {
		return err
	}
	_, err = QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	return mapError(err, "specimen", s.ID, specimenErrs)
}

// EnsureByIdentity se apoya en el unique (owner, name, species): si el insert no
// devuelve fila es porque otro proceso ya lo creó.
func (r *SpecimensRepo) EnsureByIdentity(ctx context.Context, s specimens.Specimen) (specimens.Specimen, bool, error) {
	q := QuerierFromCtx(ctx, r.db)

	query, args, err := insertSpecimen(s).
		Suffix("ON CONFLICT (owner_user_id, name, species) DO NOTHING RETURNING " + strings.Join(specimenColumns, ", ")).
		ToSql()
	if err != nil {
		return specimens.Specimen{}, false, err
	}

	got, err := scanSpecimen(q.QueryRow(ctx, query, args...))
	if err == nil {
		return got, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return specimens.Specimen{}, false, mapError(err, "specimen", s.ID, specimenErrs)
	}

	query, args, err = psql.Select(specimenColumns...).
		From("specimens").
		Where(squirrel.Eq{"owner_user_id": s.OwnerUserID, "name": s.Name, "species": s.Species}).
		ToSql()
	if err != nil {
		return specimens.Specimen{}, false, err
	}
	got, err = scanSpecimen(q.QueryRow(ctx, query, args...))
	if err != nil {
		return specimens.Specimen{}, false, mapError(err, "specimen", s.Key().String(), specimenErrs)
	}
	return got, false, nil
}

func (r *SpecimensRepo) GetByID(ctx context.Context, ownerUserID, id string) (specimens.Specimen, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return specimens.Specimen{}, specimens.ErrNotFound
	}

	query, args, err := psql.Select(specimenColumns...).
		From("specimens").
		Where(squirrel.Eq{"id": id, "owner_user_id": ownerUserID}).
		ToSql()
	if err != nil {
		return specimens.Specimen{}, err
	}

	s, err := scanSpecimen(QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return specimens.Specimen{}, mapError(err, "specimen", id, specimenErrs)
	}
	return s, nil
}

func (r *SpecimensRepo) ListByOwner(ctx context.Context, ownerUserID string, includeArchived bool) ([]specimens.Specimen, error) {
	qb := psql.Select(specimenColumns...).
		From("specimens").
		Where(squirrel.Eq{"owner_user_id": ownerUserID}).
		OrderBy("lower(name) ASC", "created_at ASC")
	if !includeArchived {
		qb = qb.Where(squirrel.Eq{"archived": false})
	}
	return r.list(ctx, qb)
}

func (r *SpecimensRepo) ListAll(ctx context.Context) ([]specimens.Specimen, error) {
	return r.list(ctx, psql.Select(specimenColumns...).From("specimens").OrderBy("created_at ASC"))
}

func (r *SpecimensRepo) Update(ctx context.Context, s specimens.Specimen) error {
	query, args, err := psql.Update("specimens").
		Set("name", s.Name).
		Set("species", s.Species).
		Set("sex", string(s.Sex)).
		Set("image_url", s.ImageURL).
		Set("notes", s.Notes).
		Set("archived", s.Archived).
		Set("archived_at", s.ArchivedAt).
		Set("archived_reason", s.ArchivedReason).
		Set("updated_at", s.UpdatedAt).
		Where(squirrel.Eq{"id": s.ID, "owner_user_id": s.OwnerUserID}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return mapError(err, "specimen", s.ID, specimenErrs)
	}
	if tag.RowsAffected() == 0 {
		return specimens.ErrNotFound
	}
	return nil
}

// Delete: las FKs de los registros son ON DELETE SET NULL.
func (r *SpecimensRepo) Delete(ctx context.Context, ownerUserID, id string) error {
	query, args, err := psql.Delete("specimens").
		Where(squirrel.Eq{"id": id, "owner_user_id": ownerUserID}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return mapError(err, "specimen", id, specimenErrs)
	}
	if tag.RowsAffected() == 0 {
		return specimens.ErrNotFound
	}
	return nil
}

func (r *SpecimensRepo) list(ctx context.Context, qb squirrel.SelectBuilder) ([]specimens.Specimen, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "specimens", "list", specimenErrs)
	}
	defer rows.Close()

	out := make([]specimens.Specimen, 0)
	for rows.Next() {
		s, err := scanSpecimen(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func insertSpecimen(s specimens.Specimen) squirrel.InsertBuilder {
	return psql.Insert("specimens").
		Columns(specimenColumns...).
		Values(
			s.ID, s.OwnerUserID,
			s.Name, s.Species, string(s.Sex),
			s.ImageURL, s.Notes,
			s.Archived, s.ArchivedAt, s.ArchivedReason,
			s.CreatedAt, s.UpdatedAt,
		)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSpecimen(row rowScanner) (specimens.Specimen, error) {
	var (
		s          specimens.Specimen
		sex        string
		archivedAt *time.Time
	)
	if err := row.Scan(
		&s.ID, &s.OwnerUserID,
		&s.Name, &s.Species, &sex,
		&s.ImageURL, &s.Notes,
		&s.Archived, &archivedAt, &s.ArchivedReason,
		&s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return specimens.Specimen{}, err
	}
	s.Sex = specimens.Sex(sex)
	s.ArchivedAt = archivedAt
	return s, nil
}
