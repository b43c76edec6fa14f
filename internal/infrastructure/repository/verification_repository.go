package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/datesafe/verification-backend/internal/domain/verification"
)

// VerificationRepository persists completed verification results for the
// history view. The full result is stored as JSONB; the indexed columns
// exist for listing and filtering.
type VerificationRepository struct {
	pool *pgxpool.Pool
}

// NewVerificationRepository creates a repository over the pool.
func NewVerificationRepository(pool *pgxpool.Pool) *VerificationRepository {
	return &VerificationRepository{pool: pool}
}

// Store inserts a completed result. Results are immutable; a duplicate ID is
// an error.
func (r *VerificationRepository) Store(ctx context.Context, fingerprint string, result *verification.ComprehensiveVerificationResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	query := `
		INSERT INTO verification_results (
			id, fingerprint, trust_score, risk_level, result, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.pool.Exec(ctx, query,
		result.ID,
		fingerprint,
		result.OverallTrustScore,
		string(result.RiskLevel),
		payload,
		result.CreatedAt,
	)
	if err != nil {
		if IsDuplicateKeyViolation(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("inserting verification result: %w", err)
	}
	return nil
}

// GetByID fetches one stored result.
func (r *VerificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*verification.ComprehensiveVerificationResult, error) {
	query := `SELECT result FROM verification_results WHERE id = $1`

	var payload []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying verification result: %w", err)
	}

	var result verification.ComprehensiveVerificationResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("unmarshaling verification result: %w", err)
	}
	return &result, nil
}

// ResultSummary is one row of the history listing.
type ResultSummary struct {
	ID         uuid.UUID              `json:"id"`
	TrustScore float64                `json:"trust_score"`
	RiskLevel  verification.RiskLevel `json:"risk_level"`
	CreatedAt  string                 `json:"created_at"`
}

// ListRecent returns the newest results, newest first.
func (r *VerificationRepository) ListRecent(ctx context.Context, limit int) ([]ResultSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `
		SELECT id, trust_score, risk_level, created_at
		FROM verification_results
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing verification results: %w", err)
	}
	defer rows.Close()

	summaries := []ResultSummary{}
	for rows.Next() {
		var (
			s         ResultSummary
			createdAt time.Time
		)
		if err := rows.Scan(&s.ID, &s.TrustScore, &s.RiskLevel, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning result row: %w", err)
		}
		s.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
