package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/KathiraveluLab/BHV/internal/model"
	"github.com/jmoiron/sqlx"
)

type uploadStore struct {
	db *sqlx.DB
}

func NewUploadStore(db *sqlx.DB) *uploadStore {
	return &uploadStore{db}
}

func (s *uploadStore) Create(upload *model.Upload) error {
	res, err := s.db.NamedExec(`insert into upload
		(ID, UserID, Title, Description, Sentiment, ImageRef, AudioRef, CreatedAt)
		values(:ID, :UserID, :Title, :Description, :Sentiment, :ImageRef, :AudioRef, :CreatedAt)`, upload)
	if err != nil {
		return fmt.Errorf("inserting upload: %w", err)
	}
	if rows, err := res.RowsAffected(); rows != 1 {
		return fmt.Errorf("expected 1 row to be affected, got %d", rows)
	} else if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	return nil
}

func (s *uploadStore) FindByID(id model.UploadID) (*model.Upload, error) {
	upload := &model.Upload{}
	err := s.db.Get(upload, `select * from upload where ID = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrorNotFound
		}
		return nil, fmt.Errorf("fetching upload: %w", err)
	}
	return upload, nil
}

func (s *uploadStore) All(limit int) ([]model.Upload, error) {
	uploads := []model.Upload{}
	query := `select * from upload order by CreatedAt desc`
	var err error
	if limit > 0 {
		err = s.db.Select(&uploads, query+` limit ?`, limit)
	} else {
		err = s.db.Select(&uploads, query)
	}
	if err != nil {
		return nil, fmt.Errorf("listing uploads: %w", err)
	}
	return uploads, nil
}

func (s *uploadStore) ByUser(userID model.IdentityID) ([]model.Upload, error) {
	uploads := []model.Upload{}
	err := s.db.Select(&uploads, `select * from upload where UserID = ? order by CreatedAt desc`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing uploads by user: %w", err)
	}
	return uploads, nil
}

func (s *uploadStore) CountByUser(userID model.IdentityID) (int, error) {
	var count int
	err := s.db.Get(&count, `select count(*) from upload where UserID = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("counting uploads by user: %w", err)
	}
	return count, nil
}

func (s *uploadStore) Count() (int, error) {
	var count int
	err := s.db.Get(&count, `select count(*) from upload`)
	if err != nil {
		return 0, fmt.Errorf("counting uploads: %w", err)
	}
	return count, nil
}

// CountBySentiment always returns an entry for each known label, zero
// when absent.
func (s *uploadStore) CountBySentiment() (map[model.Sentiment]int, error) {
	rows := []struct {
		Sentiment model.Sentiment `db:"Sentiment"`
		Count     int             `db:"Count"`
	}{}
	err := s.db.Select(&rows, `select Sentiment, count(*) as Count from upload group by Sentiment`)
	if err != nil {
		return nil, fmt.Errorf("counting uploads by sentiment: %w", err)
	}

	counts := map[model.Sentiment]int{
		model.SentimentPositive: 0,
		model.SentimentNeutral:  0,
		model.SentimentNegative: 0,
	}
	for _, row := range rows {
		if _, ok := counts[row.Sentiment]; ok {
			counts[row.Sentiment] = row.Count
		}
	}
	return counts, nil
}
