package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestTransactorRetriesSerializationFailure(t *testing.T) {
	db := newTestDB(t)
	tx := NewTransactor(db, 3, time.Millisecond)

	attempts := 0
	err := tx.Do(context.Background(), "test", func(*gorm.DB) error {
		attempts++
		if attempts < 3 {
			return &pgconn.PgError{Code: "40001", Message: "could not serialize access"}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

func TestTransactorEscalatesToFatalWhenExhausted(t *testing.T) {
	db := newTestDB(t)
	tx := NewTransactor(db, 2, time.Millisecond)

	attempts := 0
	err := tx.Do(context.Background(), "test", func(*gorm.DB) error {
		attempts++
		return &pgconn.PgError{Code: "40P01", Message: "deadlock detected"}
	})
	if !errors.Is(err, ErrFatal) {
		t.Fatalf("err = %v, want ErrFatal", err)
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "40P01" {
		t.Fatalf("original storage error should be kept, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
}

func TestTransactorDoesNotRetryBusinessErrors(t *testing.T) {
	db := newTestDB(t)
	tx := NewTransactor(db, 5, time.Millisecond)

	attempts := 0
	err := tx.Do(context.Background(), "test", func(*gorm.DB) error {
		attempts++
		return ErrAlreadyLiked
	})
	if !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("err = %v", err)
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1", attempts)
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{&pgconn.PgError{Code: "40001"}, true},
		{&pgconn.PgError{Code: "55P03"}, true},
		{&pgconn.PgError{Code: "23505"}, false},
		{fmt.Errorf("exec: %w", &pgconn.PgError{Code: "40P01"}), true},
		{errors.New("database is locked"), true},
		{ErrDiaryNotFound, false},
	}
	for _, c := range cases {
		if got := IsRetryable(c.err); got != c.want {
			t.Errorf("IsRetryable(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}
