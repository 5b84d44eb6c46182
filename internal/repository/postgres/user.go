package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
)

const userColumns = `
	id, email, username, full_name, password_hash, role, plan_id,
	subscription_status, language, stripe_customer_id, stripe_subscription_id,
	custom_max_projects, custom_max_dd_projects, custom_max_dd_exports,
	custom_ai_chat_limit, custom_limits_trial_ends_at, ai_chat_used,
	created_at, updated_at
`

// UserRepository implements user.Repository
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) user.Repository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	query := `
		INSERT INTO users (
			email, username, full_name, password_hash, role, plan_id,
			subscription_status, language, ai_chat_used, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		u.Email, u.Username, u.FullName, u.PasswordHash, u.Role, u.PlanID,
		u.SubscriptionStatus, u.Language, u.AIChatUsed, now.Unix(), now.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create user", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get user ID", err)
	}

	u.ID = id
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.getOne(ctx, query, id)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return r.getOne(ctx, query, email)
}

// GetByStripeCustomer retrieves a user by Stripe customer ID
func (r *UserRepository) GetByStripeCustomer(ctx context.Context, customerID string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE stripe_customer_id = ?`
	return r.getOne(ctx, query, customerID)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg interface{}) (*user.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("User")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get user", err)
	}
	return u, nil
}

// Update updates a user
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	u.UpdatedAt = time.Now()

	query := `
		UPDATE users
		SET email = ?, username = ?, full_name = ?, role = ?, plan_id = ?,
			subscription_status = ?, language = ?,
			stripe_customer_id = ?, stripe_subscription_id = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		u.Email, u.Username, u.FullName, u.Role, u.PlanID,
		u.SubscriptionStatus, u.Language,
		u.StripeCustomerID, u.StripeSubscriptionID, u.UpdatedAt.Unix(), u.ID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update user", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("User")
	}

	return nil
}

// UpdateCustomLimits replaces the per-user override fields
func (r *UserRepository) UpdateCustomLimits(ctx context.Context, id int64, limits user.CustomLimits) error {
	query := `
		UPDATE users
		SET custom_max_projects = ?, custom_max_dd_projects = ?,
			custom_max_dd_exports = ?, custom_ai_chat_limit = ?,
			custom_limits_trial_ends_at = ?, updated_at = ?
		WHERE id = ?
	`

	var trialEnds interface{}
	if limits.TrialEndsAt != nil {
		trialEnds = limits.TrialEndsAt.Unix()
	}

	result, err := r.db.ExecContext(ctx, query,
		limits.MaxProjects, limits.MaxDoubleDiamondProjects,
		limits.MaxDoubleDiamondExports, limits.AIChatLimit,
		trialEnds, time.Now().Unix(), id,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update custom limits", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("User")
	}

	return nil
}

// ClearExpiredCustomLimits nulls out overrides whose trial window closed
func (r *UserRepository) ClearExpiredCustomLimits(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE users
		SET custom_max_projects = NULL, custom_max_dd_projects = NULL,
			custom_max_dd_exports = NULL, custom_ai_chat_limit = NULL,
			custom_limits_trial_ends_at = NULL, updated_at = ?
		WHERE custom_limits_trial_ends_at IS NOT NULL
		  AND custom_limits_trial_ends_at < ?
	`

	result, err := r.db.ExecContext(ctx, query, now.Unix(), now.Unix())
	if err != nil {
		return 0, errors.DatabaseError("Failed to clear expired custom limits", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.DatabaseError("Failed to get affected rows", err)
	}
	return rows, nil
}

// IncrementAIChatUsed atomically bumps the chat usage counter
func (r *UserRepository) IncrementAIChatUsed(ctx context.Context, id int64) error {
	query := `UPDATE users SET ai_chat_used = ai_chat_used + 1, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, time.Now().Unix(), id)
	if err != nil {
		return errors.DatabaseError("Failed to increment chat usage", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("User")
	}
	return nil
}

// Delete deletes a user
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return errors.DatabaseError("Failed to delete user", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("User")
	}
	return nil
}

// List retrieves users with pagination
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*user.User, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, errors.DatabaseError("Failed to count users", err)
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list users", err)
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.DatabaseError("Failed to iterate users", err)
	}

	return users, total, nil
}

// CountByPlan returns user counts grouped by plan
func (r *UserRepository) CountByPlan(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT plan_id, COUNT(*) FROM users GROUP BY plan_id`)
	if err != nil {
		return nil, errors.DatabaseError("Failed to count users by plan", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var planID string
		var count int64
		if err := rows.Scan(&planID, &count); err != nil {
			return nil, errors.DatabaseError("Failed to scan plan count", err)
		}
		out[planID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate plan counts", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*user.User, error) {
	var u user.User
	var fullName, stripeCustomer, stripeSub sql.NullString
	var maxProjects, maxDD, maxExports, aiChat, trialEnds sql.NullInt64
	var createdAt, updatedAt int64

	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &fullName, &u.PasswordHash, &u.Role, &u.PlanID,
		&u.SubscriptionStatus, &u.Language, &stripeCustomer, &stripeSub,
		&maxProjects, &maxDD, &maxExports, &aiChat, &trialEnds, &u.AIChatUsed,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if fullName.Valid {
		u.FullName = &fullName.String
	}
	if stripeCustomer.Valid {
		u.StripeCustomerID = &stripeCustomer.String
	}
	if stripeSub.Valid {
		u.StripeSubscriptionID = &stripeSub.String
	}
	u.CustomMaxProjects = nullableInt(maxProjects)
	u.CustomMaxDoubleDiamondProjects = nullableInt(maxDD)
	u.CustomMaxDoubleDiamondExports = nullableInt(maxExports)
	u.CustomAIChatLimit = nullableInt(aiChat)
	if trialEnds.Valid {
		t := time.Unix(trialEnds.Int64, 0)
		u.CustomLimitsTrialEndsAt = &t
	}
	u.CreatedAt = time.Unix(createdAt, 0)
	u.UpdatedAt = time.Unix(updatedAt, 0)

	return &u, nil
}

func nullableInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
