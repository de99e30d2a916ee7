package postgres

import (
	"context"
	"database/sql"
	"errors"

	"courier/internal/domain"
	"courier/internal/repository"
)

// ProfileRepository implements repository.ProfileRepository using PostgreSQL.
type ProfileRepository struct {
	q Querier
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{q: db}
}

// Upsert creates or replaces the profile for its clerk id.
func (r *ProfileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO profiles (clerk_id, name, email, mobile, kin, gender, nin, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (clerk_id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			mobile = EXCLUDED.mobile,
			kin = EXCLUDED.kin,
			gender = EXCLUDED.gender,
			nin = EXCLUDED.nin,
			image = COALESCE(EXCLUDED.image, profiles.image),
			updated_at = now()
		RETURNING updated_at
	`

	err := r.q.QueryRowContext(ctx, query,
		p.ClerkID,
		p.Name,
		p.Email,
		p.Mobile,
		p.NextOfKin,
		p.Gender,
		p.NIN,
		nullString(p.ImageName),
	).Scan(&p.UpdatedAt)

	return mapWriteError(err)
}

// GetByClerkID retrieves a profile by clerk id.
func (r *ProfileRepository) GetByClerkID(ctx context.Context, clerkID string) (*domain.Profile, error) {
	query := `SELECT clerk_id, name, email, mobile, kin, gender, nin, image, updated_at FROM profiles WHERE clerk_id = $1`

	var (
		p     domain.Profile
		image sql.NullString
	)
	err := r.q.QueryRowContext(ctx, query, clerkID).Scan(
		&p.ClerkID, &p.Name, &p.Email, &p.Mobile, &p.NextOfKin, &p.Gender, &p.NIN, &image, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.ImageName = image.String
	return &p, nil
}
