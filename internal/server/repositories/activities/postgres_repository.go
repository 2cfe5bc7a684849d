package activities

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dailyroutine/internal/dbx"
	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Activity) error {
	query :=
		`INSERT INTO activities (id, user_id, type, title, segments, related_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query, a.ID, a.UserID, a.Type, a.Title,
		dbx.JSON(a.Segments), a.RelatedID, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, skip, limit int) ([]models.Activity, error) {
	query :=
		`SELECT id, user_id, type, title, segments, related_id, created_at
		 FROM activities
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id
		 OFFSET $2 LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, userID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.Activity{}
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.Type, &a.Title, dbx.ScanJSON(&a.Segments), &a.RelatedID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
