package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/sekolah-web/core/internal/models"
)

func TestIsDuplicateKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "gorm translated", err: fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), want: true},
		{name: "mysql 1062", err: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, want: true},
		{name: "mysql other", err: &mysql.MySQLError{Number: 1452, Message: "fk"}, want: false},
		{name: "postgres 23505", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "sqlite text", err: errors.New("UNIQUE constraint failed: posts.slug"), want: true},
		{name: "unrelated", err: errors.New("connection refused"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDuplicateKey(tt.err); got != tt.want {
				t.Fatalf("IsDuplicateKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorClasses(t *testing.T) {
	if err := Duplicate("slug", "x"); !errors.Is(err, ErrDuplicate) || !errors.Is(err, ErrValidation) {
		t.Fatalf("duplicate should be both ErrDuplicate and ErrValidation: %v", err)
	}
	if err := Invalid("start_time", "must be before end_time"); !errors.Is(err, ErrValidation) {
		t.Fatalf("invalid should be ErrValidation")
	}
	conflict := fmt.Errorf("create: %w", &ConflictError{Conflicts: []models.ScheduleModel{{StartTime: "07:00:00", EndTime: "08:00:00"}}})
	var ce *ConflictError
	if !errors.Is(conflict, ErrConflict) || !errors.As(conflict, &ce) || len(ce.Conflicts) != 1 {
		t.Fatalf("conflict error not matched: %v", conflict)
	}
	if err := FromDB("post", 7, gorm.ErrRecordNotFound); !errors.Is(err, ErrNotFound) {
		t.Fatalf("FromDB should map record not found: %v", err)
	}
}
