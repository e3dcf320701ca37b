package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/KathiraveluLab/BHV/internal/model"
	"github.com/jmoiron/sqlx"
)

// codeStore keeps every issued one-time code. Rows are never pruned;
// multiple unused codes may coexist for the same email and any valid one
// satisfies verification.
type codeStore struct {
	db *sqlx.DB
}

func NewCodeStore(db *sqlx.DB) *codeStore {
	return &codeStore{db}
}

func (s *codeStore) Create(code *model.OneTimeCode) error {
	_, err := s.db.NamedExec(`insert into one_time_code
		(Email, Code, CreatedAt, Used)
		values(:Email, :Code, :CreatedAt, :Used)`, code)
	if err != nil {
		return fmt.Errorf("inserting one-time code: %w", err)
	}
	return nil
}

// Find returns the code row for (email, code) regardless of validity.
// Validity is computed by the caller from CreatedAt and Used.
func (s *codeStore) Find(email string, code string) (*model.OneTimeCode, error) {
	row := &model.OneTimeCode{}
	err := s.db.Get(row, `select * from one_time_code where Email = ? and Code = ? order by Used asc, CreatedAt desc limit 1`,
		model.NormalizeEmail(email), code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrorNotFound
		}
		return nil, fmt.Errorf("fetching one-time code: %w", err)
	}
	return row, nil
}

func (s *codeStore) MarkUsed(email string, code string, createdAt time.Time) error {
	_, err := s.db.Exec(`update one_time_code set Used = true where Email = ? and Code = ? and CreatedAt = ?`,
		model.NormalizeEmail(email), code, createdAt)
	if err != nil {
		return fmt.Errorf("marking one-time code used: %w", err)
	}
	return nil
}
