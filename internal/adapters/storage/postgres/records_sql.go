package postgres

import (
	"context"

	"tarantula-log/internal/domain/records"

	"github.com/Masterminds/squirrel"
)

// Helpers compartidos por los repos de registros.

// bindParamLimit es el máximo de parámetros por statement del protocolo de Postgres.
var bindParamLimit = 65535

// insertRows inserta rows en statements multi-fila de a lo sumo bindParamLimit parámetros.
// Con más de un lote y sin tx en ctx abre una, así el insert sigue siendo todo o nada.
func insertRows(ctx context.Context, db DB, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	size := max(bindParamLimit/len(columns), 1)

	insert := func(ctx context.Context) error {
		for start := 0; start < len(rows); start += size {
			end := min(start+size, len(rows))
			qb := psql.Insert(table).Columns(columns...)
			for _, row := range rows[start:end] {
				qb = qb.Values(row...)
			}
			query, args, err := qb.ToSql()
			if err != nil {
				return err
			}
			if _, err := QuerierFromCtx(ctx, db).Exec(ctx, query, args...); err != nil {
				return mapError(err, table, "insert", recordErrs)
			}
		}
		return nil
	}

	if _, ok := txFromCtx(ctx); ok || len(rows) <= size {
		return insert(ctx)
	}
	return NewTxManager(db).RunInTx(ctx, insert)
}

func exists(ctx context.Context, q Querier, table string, where squirrel.Sqlizer) (bool, error) {
	sub, args, err := psql.Select("1").From(table).Where(where).Limit(1).ToSql()
	if err != nil {
		return false, err
	}
	var found bool
	if err := q.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&found); err != nil {
		return false, mapError(err, table, "exists", recordErrs)
	}
	return found, nil
}

// setRef solo escribe si la columna sigue en NULL: una referencia existente no se pisa.
func setRef(ctx context.Context, q Querier, table, col, id, specimenID string) error {
	query, args, err := psql.Update(table).
		Set(col, squirrel.Expr("COALESCE("+col+", ?)", specimenID)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err, table, id, recordErrs)
	}
	if tag.RowsAffected() == 0 {
		return records.ErrNotFound
	}
	return nil
}

func detachRef(ctx context.Context, q Querier, table, col, ownerUserID, specimenID string) (int64, error) {
	query, args, err := psql.Update(table).
		Set(col, nil).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"owner_user_id": ownerUserID, col: specimenID}).
		ToSql()
	if err != nil {
		return 0, err
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, mapError(err, table, specimenID, recordErrs)
	}
	return tag.RowsAffected(), nil
}
