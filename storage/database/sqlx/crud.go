package sqlxrepos

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"net"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/shulehq/shule/core"
)

// entityMeta describes one entity's table to the generic CRUD core.
type entityMeta[E any] struct {
	table    string
	columns  []string // insertable/updatable columns, id excluded
	setID    func(*E, string)
	notFound error
}

// crudRepository is the single CRUD implementation shared by all school
// entities; statements are built once per instantiation from the meta.
type crudRepository[E any] struct {
	db   *sqlx.DB
	meta entityMeta[E]

	insertStmt string
	selectStmt string
	listStmt   string
	updateStmt string
	deleteStmt string
}

func newCrudRepository[E any](db *sqlx.DB, meta entityMeta[E]) *crudRepository[E] {
	cols := strings.Join(meta.columns, ", ")
	named := ":" + strings.Join(meta.columns, ", :")

	assigns := make([]string, 0, len(meta.columns))
	for _, col := range meta.columns {
		assigns = append(assigns, fmt.Sprintf("%s = :%s", col, col))
	}

	return &crudRepository[E]{
		db:         db,
		meta:       meta,
		insertStmt: fmt.Sprintf("INSERT INTO %s (id, %s) VALUES (:id, %s)", meta.table, cols, named),
		selectStmt: fmt.Sprintf("SELECT id, %s FROM %s WHERE id = $1", cols, meta.table),
		listStmt:   fmt.Sprintf("SELECT id, %s FROM %s ORDER BY id", cols, meta.table),
		updateStmt: fmt.Sprintf("UPDATE %s SET %s WHERE id = :id", meta.table, strings.Join(assigns, ", ")),
		deleteStmt: fmt.Sprintf("DELETE FROM %s WHERE id = $1", meta.table),
	}
}

func (repo *crudRepository[E]) Create(ctx context.Context, e E) (E, error) {
	repo.meta.setID(&e, uuid.New().String())
	if _, err := repo.db.NamedExecContext(ctx, repo.insertStmt, e); err != nil {
		var zero E
		return zero, repo.trapErr(err, "inserting into "+repo.meta.table)
	}
	return e, nil
}

func (repo *crudRepository[E]) QueryAll(ctx context.Context) ([]E, error) {
	out := make([]E, 0)
	if err := repo.db.SelectContext(ctx, &out, repo.listStmt); err != nil {
		return nil, repo.trapErr(err, "querying "+repo.meta.table)
	}
	return out, nil
}

func (repo *crudRepository[E]) GetByID(ctx context.Context, id string) (E, error) {
	var e E
	if err := repo.db.GetContext(ctx, &e, repo.selectStmt, id); err != nil {
		var zero E
		return zero, repo.trapErr(err, "getting from "+repo.meta.table)
	}
	return e, nil
}

func (repo *crudRepository[E]) Update(ctx context.Context, e E) (E, error) {
	res, err := repo.db.NamedExecContext(ctx, repo.updateStmt, e)
	if err != nil {
		var zero E
		return zero, repo.trapErr(err, "updating "+repo.meta.table)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var zero E
		return zero, repo.meta.notFound
	}
	return e, nil
}

func (repo *crudRepository[E]) DeleteByID(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, repo.deleteStmt, id)
	if err != nil {
		return repo.trapErr(err, "deleting from "+repo.meta.table)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repo.meta.notFound
	}
	return nil
}

func (repo *crudRepository[E]) trapErr(err error, msg string) error {
	return trapErr(err, repo.meta.notFound, msg)
}

// trapErr maps psql "no rows" to the domain's not-found sentinel and backend
// unavailability to core.TransientError; anything else is wrapped as-is.
func trapErr(err error, notFound error, msg string) error {
	if err == sql.ErrNoRows {
		return notFound
	}
	if isTransient(err) {
		return core.NewTransientError(errors.Wrap(err, msg))
	}
	return errors.Wrap(err, msg)
}

func isTransient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// 08: connection exception, 53: insufficient resources, 57: operator intervention
		switch pqErr.Code.Class() {
		case "08", "53", "57":
			return true
		}
	}
	return false
}
