// internal/records/postgres.go
package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"carecase-workers/internal/models"

	"github.com/google/uuid"
)

const (
	selectApplicationSQL = `SELECT id, domain, patient_id, partner_id, status, follow_up_required_previously, dates, updated_at FROM applications WHERE domain = $1 AND id = $2`

	updateStatusSQL = `UPDATE applications SET status = $1, follow_up_required_previously = follow_up_required_previously OR $2, updated_at = $3 WHERE domain = $4 AND id = $5 AND status = $6 RETURNING id, domain, patient_id, partner_id, status, follow_up_required_previously, dates, updated_at`

	insertHistorySQL = `INSERT INTO application_status_history (id, application_id, domain, from_status, to_status, actor, changed_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	selectHistorySQL = `SELECT id, application_id, domain, from_status, to_status, actor, changed_at FROM application_status_history WHERE domain = $1 AND application_id = $2 ORDER BY changed_at ASC`
)

// PostgresStore keeps records in the applications table and every status
// change in application_status_history.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*models.ApplicationRecord, error) {
	var (
		rec    models.ApplicationRecord
		domain string
		dates  []byte
	)
	if err := row.Scan(&rec.ID, &domain, &rec.PatientID, &rec.PartnerID, &rec.Status,
		&rec.FollowUpRequiredPreviously, &dates, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.Domain = models.DomainID(domain)

	parsed, err := decodeDates(dates)
	if err != nil {
		return nil, fmt.Errorf("decode dates of %s/%s: %w", domain, rec.ID, err)
	}
	rec.Dates = parsed
	return &rec, nil
}

// decodeDates reads the JSONB dates column. Non-string values are kept in
// their JSON text form so narratives still show something.
func decodeDates(raw []byte) (map[string]string, error) {
	if len(raw) == 0 {
		return map[string]string{}, nil
	}
	var values map[string]interface{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(values))
	for k, v := range values {
		switch val := v.(type) {
		case nil:
		case string:
			out[k] = val
		default:
			b, _ := json.Marshal(val)
			out[k] = string(b)
		}
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, domain models.DomainID, id string) (*models.ApplicationRecord, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx, selectApplicationSQL, string(domain), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select application: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, update StatusUpdate) (*models.ApplicationRecord, error) {
	at := update.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	rec, err := scanRecord(tx.QueryRowContext(ctx, updateStatusSQL,
		update.To, update.FollowUp, at, string(update.Domain), update.ApplicationID, update.From))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.missingOrConflict(ctx, tx, update)
		}
		return nil, fmt.Errorf("update status: %w", err)
	}

	if _, err := tx.ExecContext(ctx, insertHistorySQL,
		uuid.New().String(), update.ApplicationID, string(update.Domain),
		update.From, update.To, update.Actor, at); err != nil {
		return nil, fmt.Errorf("insert status history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit status update: %w", err)
	}
	return rec, nil
}

// missingOrConflict tells an absent record apart from one whose status moved.
func (s *PostgresStore) missingOrConflict(ctx context.Context, tx *sql.Tx, update StatusUpdate) error {
	var status string
	err := tx.QueryRowContext(ctx, `SELECT status FROM applications WHERE domain = $1 AND id = $2`,
		string(update.Domain), update.ApplicationID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("recheck status: %w", err)
	}
	return fmt.Errorf("%w: expected %q, found %q", ErrConflict, update.From, status)
}

func (s *PostgresStore) History(ctx context.Context, domain models.DomainID, id string) ([]models.StatusChange, error) {
	rows, err := s.db.QueryContext(ctx, selectHistorySQL, string(domain), id)
	if err != nil {
		return nil, fmt.Errorf("select status history: %w", err)
	}
	defer rows.Close()

	var out []models.StatusChange
	for rows.Next() {
		var (
			c      models.StatusChange
			domain string
		)
		if err := rows.Scan(&c.ID, &c.ApplicationID, &domain, &c.FromStatus, &c.ToStatus, &c.Actor, &c.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		c.Domain = models.DomainID(domain)
		out = append(out, c)
	}
	return out, rows.Err()
}
