package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/insurance-crm/internal/model"
	"github.com/jwalitptl/insurance-crm/internal/repository"
)

// maxBindParams is the PostgreSQL limit on placeholders per statement.
const maxBindParams = 65535

// BaseRepository holds the connection shared by the collection tables.
type BaseRepository struct {
	db *sqlx.DB
}

func NewBaseRepository(db *sqlx.DB) BaseRepository {
	return BaseRepository{db: db}
}

// readSnapshot makes every statement of a transaction see the same data.
var readSnapshot = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// WithTx runs fn in a transaction, rolling back on error or panic. Nil opts
// means the driver defaults.
func (r *BaseRepository) WithTx(ctx context.Context, opts *sql.TxOptions, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// table holds the queries shared by every collection. T is the row type;
// it must scan from SELECT * of the table.
type table[T any] struct {
	BaseRepository
	name    string
	columns []string
	search  []string
}

func newTable[T any](db *sqlx.DB, name string, columns, search []string) table[T] {
	return table[T]{
		BaseRepository: NewBaseRepository(db),
		name:           name,
		columns:        columns,
		search:         search,
	}
}

// list reads the page and the total in one snapshot so they agree under
// concurrent writes.
func (t *table[T]) list(ctx context.Context, q model.ListQuery) (model.Page[T], error) {
	q = q.Normalize(0)
	where, args := searchClause(t.search, q.SearchTerm)

	query := fmt.Sprintf(
		"SELECT * FROM %s%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		t.name, where, len(args)+1, len(args)+2,
	)
	page := model.Page[T]{Rows: []T{}}
	err := t.WithTx(ctx, readSnapshot, func(tx *sqlx.Tx) error {
		if err := tx.SelectContext(ctx, &page.Rows, query, append(args, q.PageSize, q.Offset())...); err != nil {
			return fmt.Errorf("failed to list %s: %w", t.name, err)
		}
		if err := tx.GetContext(ctx, &page.Total, "SELECT COUNT(*) FROM "+t.name+where, args...); err != nil {
			return fmt.Errorf("failed to count %s: %w", t.name, err)
		}
		return nil
	})
	if err != nil {
		return model.Page[T]{}, err
	}
	return page, nil
}

func (t *table[T]) get(ctx context.Context, id uuid.UUID) (*T, error) {
	var row T
	err := t.db.GetContext(ctx, &row, "SELECT * FROM "+t.name+" WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get %s %s: %w", t.name, id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", t.name, err)
	}
	return &row, nil
}

func (t *table[T]) insertSQL() string {
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (:%s)",
		t.name, strings.Join(t.columns, ", "), strings.Join(t.columns, ", :"),
	)
}

// insert writes one row; arg is the fields struct carrying db tags.
func (t *table[T]) insert(ctx context.Context, arg interface{}) (*T, error) {
	query, args, err := t.db.BindNamed(t.insertSQL()+" RETURNING *", arg)
	if err != nil {
		return nil, fmt.Errorf("failed to bind %s insert: %w", t.name, err)
	}

	var row T
	if err := t.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, fmt.Errorf("failed to insert %s: %w", t.name, err)
	}
	return &row, nil
}

// insertMany writes rows in one transaction, splitting the batch only to stay
// under the placeholder limit.
func insertMany[T, F any](ctx context.Context, t *table[T], rows []F) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	chunk := maxBindParams / len(t.columns)
	query := t.insertSQL()

	var inserted int64
	err := t.WithTx(ctx, nil, func(tx *sqlx.Tx) error {
		for start := 0; start < len(rows); start += chunk {
			end := start + chunk
			if end > len(rows) {
				end = len(rows)
			}
			res, err := tx.NamedExecContext(ctx, query, rows[start:end])
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			inserted += n
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to bulk insert %s: %w", t.name, err)
	}
	return int(inserted), nil
}

func (t *table[T]) update(ctx context.Context, id uuid.UUID, set []model.Assignment) (*T, error) {
	if len(set) == 0 {
		return t.get(ctx, id)
	}

	sets := make([]string, 0, len(set))
	args := make([]interface{}, 0, len(set)+1)
	for i, a := range set {
		if !t.hasColumn(a.Column) {
			return nil, fmt.Errorf("unknown %s column %q", t.name, a.Column)
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", a.Column, i+1))
		args = append(args, a.Value)
	}
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d RETURNING *",
		t.name, strings.Join(sets, ", "), len(args),
	)

	var row T
	err := t.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to update %s %s: %w", t.name, id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", t.name, err)
	}
	return &row, nil
}

func (t *table[T]) delete(ctx context.Context, id uuid.UUID) error {
	res, err := t.db.ExecContext(ctx, "DELETE FROM "+t.name+" WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", t.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", t.name, err)
	}
	if n == 0 {
		return fmt.Errorf("failed to delete %s %s: %w", t.name, id, repository.ErrNotFound)
	}
	return nil
}

func (t *table[T]) deleteAll(ctx context.Context) (int64, error) {
	res, err := t.db.ExecContext(ctx, "DELETE FROM "+t.name)
	if err != nil {
		return 0, fmt.Errorf("failed to delete all %s: %w", t.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to delete all %s: %w", t.name, err)
	}
	return n, nil
}

func (t *table[T]) hasColumn(col string) bool {
	for _, c := range t.columns {
		if c == col {
			return true
		}
	}
	return false
}

// searchClause builds an OR of case-insensitive substring matches. The term
// is escaped so % and _ match literally.
func searchClause(columns []string, term string) (string, []interface{}) {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return "", nil
	}
	conds := make([]string, len(columns))
	for i, c := range columns {
		conds[i] = c + " ILIKE $1"
	}
	return " WHERE (" + strings.Join(conds, " OR ") + ")", []interface{}{"%" + escapeLike(term) + "%"}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
