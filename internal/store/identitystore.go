package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/KathiraveluLab/BHV/internal/model"
	"github.com/jmoiron/sqlx"
)

type identityStore struct {
	db *sqlx.DB
}

func NewIdentityStore(db *sqlx.DB) *identityStore {
	return &identityStore{db}
}

func (s *identityStore) Create(identity *model.Identity) error {
	res, err := s.db.NamedExec(`insert into identity
		(ID, Email, Credential, StoredRole, IsVerified, FederatedID, DisplayName, CreatedAt)
		values(:ID, :Email, :Credential, :StoredRole, :IsVerified, :FederatedID, :DisplayName, :CreatedAt)`, identity)
	if err != nil {
		return fmt.Errorf("inserting identity: %w", err)
	}
	if rows, err := res.RowsAffected(); rows != 1 {
		return fmt.Errorf("expected 1 row to be affected, got %d", rows)
	} else if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	return nil
}

func (s *identityStore) FindByEmail(email string) (*model.Identity, error) {
	identity := &model.Identity{}
	err := s.db.Get(identity, `select * from identity where Email = ?`, model.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrorNotFound
		}
		return nil, fmt.Errorf("fetching identity by email: %w", err)
	}
	return identity, nil
}

func (s *identityStore) FindByID(id model.IdentityID) (*model.Identity, error) {
	identity := &model.Identity{}
	err := s.db.Get(identity, `select * from identity where ID = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrorNotFound
		}
		return nil, fmt.Errorf("fetching identity by id: %w", err)
	}
	return identity, nil
}

func (s *identityStore) FindByFederatedID(federatedID string) (*model.Identity, error) {
	identity := &model.Identity{}
	err := s.db.Get(identity, `select * from identity where FederatedID = ?`, federatedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrorNotFound
		}
		return nil, fmt.Errorf("fetching identity by federated id: %w", err)
	}
	return identity, nil
}

func (s *identityStore) UpdateCredential(id model.IdentityID, credential string) error {
	_, err := s.db.Exec(`update identity set Credential = ? where ID = ?`, credential, id)
	if err != nil {
		return fmt.Errorf("updating credential: %w", err)
	}
	return nil
}

func (s *identityStore) UpdateRole(id model.IdentityID, role model.Role) error {
	_, err := s.db.Exec(`update identity set StoredRole = ? where ID = ?`, role, id)
	if err != nil {
		return fmt.Errorf("updating stored role: %w", err)
	}
	return nil
}

func (s *identityStore) MarkVerified(id model.IdentityID) error {
	_, err := s.db.Exec(`update identity set IsVerified = true where ID = ?`, id)
	if err != nil {
		return fmt.Errorf("marking identity verified: %w", err)
	}
	return nil
}

// LinkFederated attaches a federated subject to an existing identity and
// marks it verified, since the provider has already proven the email.
func (s *identityStore) LinkFederated(id model.IdentityID, federatedID string) error {
	_, err := s.db.Exec(`update identity set FederatedID = ?, IsVerified = true where ID = ?`, federatedID, id)
	if err != nil {
		return fmt.Errorf("linking federated id: %w", err)
	}
	return nil
}

func (s *identityStore) All() ([]model.Identity, error) {
	identities := []model.Identity{}
	err := s.db.Select(&identities, `select * from identity order by CreatedAt desc`)
	if err != nil {
		return nil, fmt.Errorf("listing identities: %w", err)
	}
	return identities, nil
}

func (s *identityStore) Count() (int, error) {
	var count int
	err := s.db.Get(&count, `select count(*) from identity`)
	if err != nil {
		return 0, fmt.Errorf("counting identities: %w", err)
	}
	return count, nil
}
