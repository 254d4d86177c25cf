package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Report is the log view of a failed call: the code, every link of the
// chain and, when a Postgres error sits underneath, its diagnostics.
type Report struct {
	Message   string
	Code      Code
	Retryable bool
	Chain     []string
	Postgres  *PostgresDiagnostics
}

type PostgresDiagnostics struct {
	Code       string
	Constraint string
	Table      string
	Detail     string
}

func Inspect(err error) Report {
	if err == nil {
		return Report{}
	}
	code := CodeOf(err)
	r := Report{Message: err.Error(), Code: code, Retryable: code.Meta().Retryable}
	for link := err; link != nil; link = stdErrors.Unwrap(link) {
		r.Chain = append(r.Chain, fmt.Sprintf("%T", link))
	}
	r.Postgres = postgresDiagnostics(err)
	return r
}

// Fields flattens the report for structured logging.
func (r Report) Fields() map[string]any {
	fields := map[string]any{
		"error_code":  string(r.Code),
		"error_chain": r.Chain,
		"retryable":   r.Retryable,
	}
	if pg := r.Postgres; pg != nil {
		fields["pg_code"] = pg.Code
		fields["pg_constraint"] = pg.Constraint
		fields["pg_table"] = pg.Table
		fields["pg_detail"] = pg.Detail
	}
	return fields
}

// postgresDiagnostics understands both the pgx error used by the gorm driver
// and lib/pq errors.
func postgresDiagnostics(err error) *PostgresDiagnostics {
	var pgxErr *pgconn.PgError
	if stdErrors.As(err, &pgxErr) {
		return &PostgresDiagnostics{Code: pgxErr.Code, Constraint: pgxErr.ConstraintName, Table: pgxErr.TableName, Detail: pgxErr.Detail}
	}
	var pqErr *pq.Error
	if stdErrors.As(err, &pqErr) {
		return &PostgresDiagnostics{Code: string(pqErr.Code), Constraint: pqErr.Constraint, Table: pqErr.Table, Detail: pqErr.Detail}
	}
	return nil
}
