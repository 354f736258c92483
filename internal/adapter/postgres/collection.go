package postgres

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/beavernet-backend/internal/storage"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Collection stores one entity type in the table named by its Collection().
type Collection[T any, P storage.Record[T]] struct {
	db      DB
	tx      *TxManager
	table   string
	columns []string
	quoted  []string
	orderBy []string
}

// NewCollection creates a collection over db. Columns come from the
// entity's db tags.
func NewCollection[T any, P storage.Record[T]](db DB, tx *TxManager) *Collection[T, P] {
	var zero T
	columns := storage.Columns[T]()
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
	}

	orderBy := []string{quoteIdent("id") + " ASC"}
	if order := storage.SortColumn[T](); order != "" {
		col, desc := storage.ParseSort(order)
		dir := "ASC"
		if desc {
			dir = "DESC"
		}
		expr := quoteIdent(col)
		if storage.IsTextColumn[T](col) {
			expr = "LOWER(" + expr + ")"
		}
		orderBy = append([]string{fmt.Sprintf("%s %s NULLS LAST", expr, dir)}, orderBy...)
	}

	return &Collection[T, P]{
		db:      db,
		tx:      tx,
		table:   P(&zero).Collection(),
		columns: columns,
		quoted:  quoted,
		orderBy: orderBy,
	}
}

func (c *Collection[T, P]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	q := QuerierFromCtx(ctx, c.db)

	var id int64
	if err := q.QueryRow(ctx, `SELECT nextval(pg_get_serial_sequence($1, 'id'))`, c.table).Scan(&id); err != nil {
		return zero, fmt.Errorf("%s: allocate id: %w", c.table, err)
	}

	rec = storage.Clone(rec)
	storage.PrepareCreate[T, P](P(&rec), id, storage.Now())

	values := storage.Values(&rec)
	args := make([]any, len(c.columns))
	for i, col := range c.columns {
		args[i] = values[col]
	}

	query, qargs, err := psql.Insert(c.table).Columns(c.quoted...).Values(args...).ToSql()
	if err != nil {
		return zero, fmt.Errorf("%s: build insert: %w", c.table, err)
	}
	if _, err := q.Exec(ctx, query, qargs...); err != nil {
		return zero, mapError(err, c.table, id)
	}

	return rec, nil
}

func (c *Collection[T, P]) Get(ctx context.Context, id int64) (T, error) {
	return c.get(ctx, QuerierFromCtx(ctx, c.db), id, false)
}

func (c *Collection[T, P]) get(ctx context.Context, q Querier, id int64, forUpdate bool) (T, error) {
	var rec T

	b := psql.Select(c.quoted...).From(c.table).Where(sq.Eq{quoteIdent("id"): id})
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return rec, fmt.Errorf("%s: build select: %w", c.table, err)
	}

	if err := pgxscan.Get(ctx, q, &rec, query, args...); err != nil {
		return rec, mapError(err, c.table, id)
	}
	return rec, nil
}

func (c *Collection[T, P]) List(ctx context.Context) ([]T, error) {
	return c.Find(ctx)
}

// Update runs a read-modify-write inside a transaction. The row is locked
// with SELECT ... FOR UPDATE so concurrent updates serialize; the last
// writer wins.
func (c *Collection[T, P]) Update(ctx context.Context, id int64, fn func(*T) error) (T, error) {
	var result T

	err := c.tx.RunInTx(ctx, func(ctx context.Context) error {
		q := QuerierFromCtx(ctx, c.db)

		current, err := c.get(ctx, q, id, true)
		if err != nil {
			return err
		}

		next, err := storage.ApplyUpdate[T, P](current, fn, storage.Now())
		if err != nil {
			return err
		}

		values := storage.Values(&next)
		set := make(map[string]any, len(values))
		for col, v := range values {
			if col == "id" || col == "created_at" {
				continue
			}
			set[quoteIdent(col)] = v
		}

		query, args, err := psql.Update(c.table).SetMap(set).Where(sq.Eq{quoteIdent("id"): id}).ToSql()
		if err != nil {
			return fmt.Errorf("%s: build update: %w", c.table, err)
		}
		if _, err := q.Exec(ctx, query, args...); err != nil {
			return mapError(err, c.table, id)
		}

		result = next
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

func (c *Collection[T, P]) Find(ctx context.Context, filters ...storage.Filter) ([]T, error) {
	if err := storage.Validate[T](filters); err != nil {
		return nil, fmt.Errorf("%s: %w", c.table, err)
	}

	b := psql.Select(c.quoted...).From(c.table)
	for _, f := range filters {
		col := quoteIdent(f.Column)
		switch f.Op {
		case storage.OpContains:
			b = b.Where(sq.ILike{col: "%" + escapeLike(fmt.Sprint(f.Value)) + "%"})
		default:
			b = b.Where(sq.Eq{col: f.Value})
		}
	}
	b = b.OrderBy(c.orderBy...)

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build select: %w", c.table, err)
	}

	recs := make([]T, 0)
	if err := pgxscan.Select(ctx, QuerierFromCtx(ctx, c.db), &recs, query, args...); err != nil {
		return nil, fmt.Errorf("%s: select: %w", c.table, err)
	}
	return recs, nil
}

func quoteIdent(s string) string {
	return pgx.Identifier{s}.Sanitize()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
