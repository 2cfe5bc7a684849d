package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dailyroutine/internal/common"
	"github.com/dmitrijs2005/dailyroutine/internal/dbx"
	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
)

const userColumns = `id, name, email, password_hash, verified, avatar, tags, contacts, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Verified,
		dbx.ScanJSON(&u.Avatar), dbx.ScanJSON(&u.Tags), dbx.ScanJSON(&u.Contacts),
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func scanPublicUsers(rows *sql.Rows) ([]models.PublicUser, error) {
	defer rows.Close()
	out := []models.PublicUser{}
	for rows.Next() {
		var p models.PublicUser
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, dbx.ScanJSON(&p.Avatar)); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	query :=
		`INSERT INTO users (` + userColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Verified,
		dbx.JSON(user.Avatar), dbx.JSON(user.Tags), dbx.JSON(user.Contacts),
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("%w: email already registered", common.ErrorConflict)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) get(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.get(ctx, `id = $1`, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.get(ctx, `email = $1`, email)
}

func (r *PostgresRepository) GetMany(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE id IN (SELECT jsonb_array_elements_text($1::jsonb))`

	rows, err := r.db.QueryContext(ctx, query, dbx.JSON(ids))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var found []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		found = append(found, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return orderByIDs(ids, found, func(u models.User) string { return u.ID }), nil
}

// execOne runs an update addressed to a single user and maps zero affected
// rows to common.ErrorNotFound.
func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("%w: email already registered", common.ErrorConflict)
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id, name, email string, at time.Time) error {
	return r.execOne(ctx,
		`UPDATE users SET name = $2, email = $3, updated_at = $4 WHERE id = $1`,
		id, name, email, at)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, hash string, at time.Time) error {
	return r.execOne(ctx,
		`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		id, hash, at)
}

func (r *PostgresRepository) UpdateAvatar(ctx context.Context, id string, avatar models.Avatar, at time.Time) error {
	return r.execOne(ctx,
		`UPDATE users SET avatar = $2, updated_at = $3 WHERE id = $1`,
		id, dbx.JSON(avatar), at)
}

func (r *PostgresRepository) SetVerified(ctx context.Context, id string, at time.Time) error {
	return r.execOne(ctx,
		`UPDATE users SET verified = TRUE, updated_at = $2 WHERE id = $1`,
		id, at)
}

func (r *PostgresRepository) AddContact(ctx context.Context, id, contactID string) error {
	return r.execOne(ctx,
		`UPDATE users SET contacts = CASE
		     WHEN contacts @> jsonb_build_array($2::text) THEN contacts
		     ELSE contacts || jsonb_build_array($2::text)
		 END
		 WHERE id = $1`,
		id, contactID)
}

func (r *PostgresRepository) RemoveContact(ctx context.Context, id, contactID string) error {
	return r.execOne(ctx,
		`UPDATE users SET contacts = contacts - $2::text WHERE id = $1`,
		id, contactID)
}

func (r *PostgresRepository) ListContacts(ctx context.Context, id string, skip, limit int) ([]models.PublicUser, error) {
	query :=
		`SELECT u.id, u.name, u.email, u.avatar
		 FROM users o
		 CROSS JOIN LATERAL jsonb_array_elements_text(o.contacts) WITH ORDINALITY AS c(contact_id, pos)
		 JOIN users u ON u.id = c.contact_id
		 WHERE o.id = $1
		 ORDER BY c.pos
		 OFFSET $2 LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, id, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanPublicUsers(rows)
}

func (r *PostgresRepository) Search(ctx context.Context, q string, skip, limit int) ([]models.PublicUser, error) {
	query :=
		`SELECT id, name, email, avatar FROM users
		 WHERE name ILIKE $1 OR email ILIKE $1
		 ORDER BY created_at, id
		 OFFSET $2 LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, dbx.ContainsPattern(q), skip, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanPublicUsers(rows)
}

func (r *PostgresRepository) AddTag(ctx context.Context, userID string, tag models.Tag) error {
	query :=
		`UPDATE users SET tags = tags || jsonb_build_array($2::jsonb)
		 WHERE id = $1 AND NOT tags @> jsonb_build_array(jsonb_build_object('id', $3::text))`

	res, err := r.db.ExecContext(ctx, query, userID, dbx.JSON(tag), tag.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if !exists {
		return common.ErrorNotFound
	}
	return fmt.Errorf("%w: tag %s already exists", common.ErrorConflict, tag.ID)
}

func (r *PostgresRepository) RemoveTag(ctx context.Context, userID, tagID string) (bool, error) {
	query :=
		`UPDATE users SET tags = COALESCE(
		     (SELECT jsonb_agg(t) FROM jsonb_array_elements(tags) AS t WHERE t->>'id' <> $2),
		     '[]'::jsonb)
		 WHERE id = $1 AND tags @> jsonb_build_array(jsonb_build_object('id', $2::text))`

	res, err := r.db.ExecContext(ctx, query, userID, tagID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) ListTags(ctx context.Context, userID string) ([]models.Tag, error) {
	tags := []models.Tag{}
	err := r.db.QueryRowContext(ctx, `SELECT tags FROM users WHERE id = $1`, userID).Scan(dbx.ScanJSON(&tags))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tags, nil
}
