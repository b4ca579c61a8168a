package postgres

import (
	"context"
	"strings"

	"tarantula-log/internal/domain/covers"

	"github.com/Masterminds/squirrel"
)

var coverColumns = []string{"owner_user_id", "key", "image_url", "created_at", "updated_at"}

var coverErrs = sentinels{notFound: covers.ErrNotFound}

type CoversRepo struct {
	db DB
}

var _ covers.Repository = (*CoversRepo)(nil)

func NewCoversRepo(db DB) *CoversRepo {
	return &CoversRepo{db: db}
}

func (r *CoversRepo) Get(ctx context.Context, ownerUserID, key string) (covers.Cover, error) {
	query, args, err := psql.Select(coverColumns...).
		From("specimen_covers").
		Where(squirrel.Eq{"owner_user_id": ownerUserID, "key": key}).
		ToSql()
	if err != nil {
		return covers.Cover{}, err
	}
	c, err := scanCover(QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return covers.Cover{}, mapError(err, "cover", key, coverErrs)
	}
	return c, nil
}

// FindByKeyFold prefiere la coincidencia exacta; si no hay, la primera por key.
func (r *CoversRepo) FindByKeyFold(ctx context.Context, ownerUserID, key string) (covers.Cover, error) {
	key = strings.TrimSpace(key)
	query, args, err := psql.Select(coverColumns...).
		From("specimen_covers").
		Where(squirrel.Eq{"owner_user_id": ownerUserID}).
		Where(squirrel.Expr("lower(key) = lower(?)", key)).
		OrderByClause("(key = ?) DESC", key).
		OrderBy("key ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return covers.Cover{}, err
	}
	c, err := scanCover(QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return covers.Cover{}, mapError(err, "cover", key, coverErrs)
	}
	return c, nil
}

func (r *CoversRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]covers.Cover, error) {
	return r.list(ctx, psql.Select(coverColumns...).
		From("specimen_covers").
		Where(squirrel.Eq{"owner_user_id": ownerUserID}).
		OrderBy("key ASC"))
}

func (r *CoversRepo) ListAll(ctx context.Context) ([]covers.Cover, error) {
	return r.list(ctx, psql.Select(coverColumns...).
		From("specimen_covers").
		OrderBy("owner_user_id ASC", "key ASC"))
}

// Upsert conserva created_at de la fila existente.
func (r *CoversRepo) Upsert(ctx context.Context, c covers.Cover) error {
	query, args, err := psql.Insert("specimen_covers").
		Columns(coverColumns...).
		Values(c.OwnerUserID, c.Key, c.ImageURL, c.CreatedAt, c.UpdatedAt).
		Suffix("ON CONFLICT (owner_user_id, key) DO UPDATE SET image_url = EXCLUDED.image_url, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return err
	}
	_, err = QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	return mapError(err, "cover", c.Key, coverErrs)
}

func (r *CoversRepo) Delete(ctx context.Context, ownerUserID, key string) error {
	query, args, err := psql.Delete("specimen_covers").
		Where(squirrel.Eq{"owner_user_id": ownerUserID, "key": key}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return mapError(err, "cover", key, coverErrs)
	}
	if tag.RowsAffected() == 0 {
		return covers.ErrNotFound
	}
	return nil
}

func (r *CoversRepo) list(ctx context.Context, qb squirrel.SelectBuilder) ([]covers.Cover, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "covers", "list", coverErrs)
	}
	defer rows.Close()

	out := make([]covers.Cover, 0)
	for rows.Next() {
		c, err := scanCover(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCover(row rowScanner) (covers.Cover, error) {
	var c covers.Cover
	err := row.Scan(&c.OwnerUserID, &c.Key, &c.ImageURL, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
