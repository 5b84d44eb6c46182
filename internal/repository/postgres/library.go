package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/designlab-hq/designlab/internal/domain/library"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
)

const libraryColumns = `
	id, kind, title, body, summary, url, author, category, language,
	premium, translations, created_at, updated_at
`

// LibraryRepository implements library.Repository. Translations are stored
// as a JSON text column keyed by language code.
type LibraryRepository struct {
	db *sql.DB
}

// NewLibraryRepository creates a new library repository
func NewLibraryRepository(db *sql.DB) library.Repository {
	return &LibraryRepository{db: db}
}

func encodeTranslations(t map[string]library.Translation) string {
	if len(t) == 0 {
		return "{}"
	}
	b, _ := json.Marshal(t)
	return string(b)
}

// Create creates a library item
func (r *LibraryRepository) Create(ctx context.Context, item *library.Item) error {
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	query := `
		INSERT INTO library_items (
			kind, title, body, summary, url, author, category, language,
			premium, translations, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		item.Kind, item.Title, item.Body, item.Summary, item.URL,
		item.Author, item.Category, item.Language, item.Premium,
		encodeTranslations(item.Translations), now.Unix(), now.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create library item", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get library item ID", err)
	}

	item.ID = id
	return nil
}

// GetByID retrieves a library item by ID
func (r *LibraryRepository) GetByID(ctx context.Context, id int64) (*library.Item, error) {
	query := `SELECT ` + libraryColumns + ` FROM library_items WHERE id = ?`

	item, err := scanLibraryItem(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Library item")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get library item", err)
	}
	return item, nil
}

// List retrieves library items with pagination. Kind filters when non-empty;
// premium rows are excluded unless includePremium is set.
func (r *LibraryRepository) List(ctx context.Context, kind string, includePremium bool, limit, offset int) ([]*library.Item, int64, error) {
	where := `WHERE 1=1`
	var args []interface{}
	if kind != "" {
		where += ` AND kind = ?`
		args = append(args, kind)
	}
	if !includePremium {
		where += ` AND premium = ?`
		args = append(args, false)
	}

	var total int64
	countArgs := append([]interface{}{}, args...)
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM library_items `+where, countArgs...).Scan(&total)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to count library items", err)
	}

	query := `SELECT ` + libraryColumns + ` FROM library_items ` + where + ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list library items", err)
	}
	defer rows.Close()

	var items []*library.Item
	for rows.Next() {
		item, err := scanLibraryItem(rows)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan library item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.DatabaseError("Failed to iterate library items", err)
	}

	return items, total, nil
}

// Update updates a library item
func (r *LibraryRepository) Update(ctx context.Context, item *library.Item) error {
	item.UpdatedAt = time.Now()

	query := `
		UPDATE library_items
		SET kind = ?, title = ?, body = ?, summary = ?, url = ?, author = ?,
			category = ?, language = ?, premium = ?, translations = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		item.Kind, item.Title, item.Body, item.Summary, item.URL, item.Author,
		item.Category, item.Language, item.Premium,
		encodeTranslations(item.Translations), item.UpdatedAt.Unix(), item.ID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update library item", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Library item")
	}

	return nil
}

// Delete removes a library item
func (r *LibraryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM library_items WHERE id = ?`, id)
	if err != nil {
		return false, errors.DatabaseError("Failed to delete library item", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.DatabaseError("Failed to get affected rows", err)
	}
	return rows > 0, nil
}

// Count counts all library items
func (r *LibraryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM library_items`).Scan(&count)
	if err != nil {
		return 0, errors.DatabaseError("Failed to count library items", err)
	}
	return count, nil
}

func scanLibraryItem(row rowScanner) (*library.Item, error) {
	var item library.Item
	var body, summary sql.NullString
	var url, author, category sql.NullString
	var translations string
	var createdAt, updatedAt int64

	err := row.Scan(
		&item.ID, &item.Kind, &item.Title, &body, &summary, &url, &author,
		&category, &item.Language, &item.Premium, &translations,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Body = body.String
	item.Summary = summary.String
	if url.Valid {
		item.URL = &url.String
	}
	if author.Valid {
		item.Author = &author.String
	}
	if category.Valid {
		item.Category = &category.String
	}
	if translations != "" && translations != "{}" {
		if err := json.Unmarshal([]byte(translations), &item.Translations); err != nil {
			return nil, err
		}
	}
	item.CreatedAt = time.Unix(createdAt, 0)
	item.UpdatedAt = time.Unix(updatedAt, 0)

	return &item, nil
}
