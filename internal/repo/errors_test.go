package repo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/tbourn/go-url-shortener/internal/domain"
)

func TestTranslate_Taxonomy(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind error
	}{
		{"record not found", gorm.ErrRecordNotFound, domain.ErrNotFound},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, domain.ErrConflict},
		{"gorm fk violated", gorm.ErrForeignKeyViolated, domain.ErrNotFound},
		{"pg unique", &pgconn.PgError{Code: "23505"}, domain.ErrConflict},
		{"pg fk", &pgconn.PgError{Code: "23503"}, domain.ErrNotFound},
		{"pg connection failure", &pgconn.PgError{Code: "08006"}, domain.ErrUnavailable},
		{"pg too many connections", &pgconn.PgError{Code: "53300"}, domain.ErrUnavailable},
		{"pg admin shutdown", &pgconn.PgError{Code: "57P01"}, domain.ErrUnavailable},
		{"pg deadlock", &pgconn.PgError{Code: "40P01"}, domain.ErrInternal},
		{"pg serialization failure", &pgconn.PgError{Code: "40001"}, domain.ErrInternal},
		{"pg syntax error", &pgconn.PgError{Code: "42601"}, domain.ErrInternal},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: links.domain_id, links.code (2067)"), domain.ErrConflict},
		{"sqlite fk", errors.New("constraint failed: FOREIGN KEY constraint failed (787)"), domain.ErrNotFound},
		{"sqlite busy", errors.New("database is locked (5) (SQLITE_BUSY)"), domain.ErrUnavailable},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), domain.ErrUnavailable},
		{"conn refused", &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}, domain.ErrUnavailable},
		{"dial failure", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("network is unreachable")}, domain.ErrUnavailable},
		{"read timeout", &net.OpError{Op: "read", Net: "tcp", Err: os.ErrDeadlineExceeded}, domain.ErrUnavailable},
		{"dns no such host", &net.OpError{Op: "dial", Net: "tcp", Err: &net.DNSError{Err: "no such host", Name: "db.invalid", IsNotFound: true}}, domain.ErrInternal},
		{"dns temporary", &net.DNSError{Err: "server misbehaving", Name: "db", IsTemporary: true}, domain.ErrUnavailable},
		{"non-timeout net error", &net.AddrError{Err: "missing port in address", Addr: "db"}, domain.ErrInternal},
		{"unknown", errors.New("near \"SELEC\": syntax error"), domain.ErrInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := translate(tc.err, "link")
			assert.ErrorIs(t, got, tc.kind)
			assert.ErrorIs(t, got, tc.err, "cause must stay reachable")
		})
	}
}

func TestTranslate_PermanentKindsAreNotUnavailable(t *testing.T) {
	for _, err := range []error{
		gorm.ErrRecordNotFound,
		&pgconn.PgError{Code: "23505"},
		&pgconn.PgError{Code: "42601"},
		&pgconn.PgError{Code: "40P01"},
		&net.OpError{Op: "dial", Net: "tcp", Err: &net.DNSError{Err: "no such host", IsNotFound: true}},
	} {
		assert.NotErrorIs(t, translate(err, "x"), domain.ErrUnavailable)
	}
}

func TestTranslate_NilAndPassthrough(t *testing.T) {
	assert.NoError(t, translate(nil, "link"))

	orig := domain.Conflict("domain still owns links")
	assert.Same(t, orig, translate(orig, "domain"))
}

func TestTranslate_Messages(t *testing.T) {
	assert.Equal(t, "link not found", domain.Message(translate(gorm.ErrRecordNotFound, "link")))
	assert.Equal(t, "domain already exists", domain.Message(translate(&pgconn.PgError{Code: "23505"}, "domain")))
}
