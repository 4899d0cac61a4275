package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	intconfig "journeycompass/internal/config"
	"journeycompass/internal/domain"
	"journeycompass/internal/domain/models"
)

const defaultDocumentKey = "journey-compass-db"

// MySQLDocumentRepo stores the document as one row of app_documents.
type MySQLDocumentRepo struct {
	DB  *sql.DB
	Key string
}

func (r MySQLDocumentRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r MySQLDocumentRepo) key() string {
	if k := strings.TrimSpace(r.Key); k != "" {
		return k
	}
	return defaultDocumentKey
}

func (r MySQLDocumentRepo) Load(ctx context.Context) (models.Document, error) {
	db := r.db()
	if db == nil {
		return models.Document{}, domain.StorageError{Op: "read", Err: errors.New("database not connected")}
	}

	var body string
	err := db.QueryRowContext(ctx,
		`SELECT body FROM app_documents WHERE doc_key = ? LIMIT 1`, r.key()).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewDocument(), nil
	}
	if err != nil {
		return models.Document{}, domain.StorageError{Op: "read", Err: err}
	}
	return decodeDocument([]byte(body))
}

func (r MySQLDocumentRepo) Save(ctx context.Context, doc models.Document) error {
	db := r.db()
	if db == nil {
		return domain.StorageError{Op: "write", Err: errors.New("database not connected")}
	}
	raw, err := encodeDocument(doc)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO app_documents (doc_key, body, version)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE body = VALUES(body), version = VALUES(version)
	`, r.key(), string(raw), doc.Normalize().Version)
	if err != nil {
		return domain.StorageError{Op: "write", Err: err}
	}
	return nil
}
