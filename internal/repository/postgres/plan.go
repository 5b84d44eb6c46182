package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/designlab-hq/designlab/internal/domain/plan"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
)

const planColumns = `
	id, name, description, max_projects, max_personas_per_project,
	max_users_per_team, included_users, ai_chat_limit,
	max_double_diamond_projects, max_double_diamond_exports,
	library_articles_count, has_collaboration, has_sso,
	has_custom_integrations, price_monthly, price_yearly
`

// PlanRepository implements plan.Repository
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *sql.DB) plan.Repository {
	return &PlanRepository{db: db}
}

// GetPlan retrieves a plan by ID
func (r *PlanRepository) GetPlan(ctx context.Context, id string) (*plan.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = ?`

	p, err := scanPlan(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Plan")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get plan", err)
	}
	return p, nil
}

// ListPlans retrieves all plans ordered by monthly price
func (r *PlanRepository) ListPlans(ctx context.Context) ([]*plan.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans ORDER BY price_monthly`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list plans", err)
	}
	defer rows.Close()

	var plans []*plan.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan plan", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate plans", err)
	}
	return plans, nil
}

const addonColumns = `
	id, user_id, addon_key, status, source, billing_period,
	period_start, period_end, stripe_subscription_id, created_at
`

// ListAddons retrieves all addon rows for a user, active or not
func (r *PlanRepository) ListAddons(ctx context.Context, userID int64) ([]*plan.Addon, error) {
	query := `SELECT ` + addonColumns + ` FROM user_addons WHERE user_id = ? ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list addons", err)
	}
	defer rows.Close()

	var addons []*plan.Addon
	for rows.Next() {
		a, err := scanAddon(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan addon", err)
		}
		addons = append(addons, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate addons", err)
	}
	return addons, nil
}

// CreateAddon creates an addon row
func (r *PlanRepository) CreateAddon(ctx context.Context, a *plan.Addon) error {
	a.CreatedAt = time.Now()

	query := `
		INSERT INTO user_addons (
			user_id, addon_key, status, source, billing_period,
			period_start, period_end, stripe_subscription_id, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		a.UserID, a.AddonKey, a.Status, a.Source, a.BillingPeriod,
		unixOrNil(a.PeriodStart), unixOrNil(a.PeriodEnd),
		a.StripeSubscriptionID, a.CreatedAt.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create addon", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get addon ID", err)
	}

	a.ID = id
	return nil
}

// UpdateAddonStatus updates one addon row's status
func (r *PlanRepository) UpdateAddonStatus(ctx context.Context, id int64, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE user_addons SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return errors.DatabaseError("Failed to update addon status", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Addon")
	}
	return nil
}

// CancelAddonsByStripeSubscription cascades a Stripe subscription status to
// every addon row referencing that subscription id
func (r *PlanRepository) CancelAddonsByStripeSubscription(ctx context.Context, stripeSubscriptionID, status string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE user_addons SET status = ? WHERE stripe_subscription_id = ?`,
		status, stripeSubscriptionID)
	if err != nil {
		return errors.DatabaseError("Failed to cancel addons", err)
	}
	return nil
}

// CreateSubscription creates a subscription row
func (r *PlanRepository) CreateSubscription(ctx context.Context, s *plan.Subscription) error {
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	query := `
		INSERT INTO subscriptions (
			user_id, plan_id, status, billing_period, period_start,
			period_end, stripe_subscription_id, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		s.UserID, s.PlanID, s.Status, s.BillingPeriod,
		unixOrNil(s.PeriodStart), unixOrNil(s.PeriodEnd),
		s.StripeSubscriptionID, now.Unix(), now.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create subscription", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get subscription ID", err)
	}

	s.ID = id
	return nil
}

// GetSubscriptionByStripeID retrieves a subscription by its Stripe id
func (r *PlanRepository) GetSubscriptionByStripeID(ctx context.Context, stripeSubscriptionID string) (*plan.Subscription, error) {
	query := `
		SELECT id, user_id, plan_id, status, billing_period, period_start,
			period_end, stripe_subscription_id, created_at, updated_at
		FROM subscriptions
		WHERE stripe_subscription_id = ?
		ORDER BY id DESC
		LIMIT 1
	`

	var s plan.Subscription
	var billing sql.NullString
	var periodStart, periodEnd sql.NullInt64
	var stripeID sql.NullString
	var createdAt, updatedAt int64

	err := r.db.QueryRowContext(ctx, query, stripeSubscriptionID).Scan(
		&s.ID, &s.UserID, &s.PlanID, &s.Status, &billing,
		&periodStart, &periodEnd, &stripeID, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Subscription")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get subscription", err)
	}

	s.BillingPeriod = billing.String
	s.PeriodStart = timeOrNil(periodStart)
	s.PeriodEnd = timeOrNil(periodEnd)
	if stripeID.Valid {
		s.StripeSubscriptionID = &stripeID.String
	}
	s.CreatedAt = time.Unix(createdAt, 0)
	s.UpdatedAt = time.Unix(updatedAt, 0)

	return &s, nil
}

// UpdateSubscriptionStatus updates a subscription row's status
func (r *PlanRepository) UpdateSubscriptionStatus(ctx context.Context, id int64, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().Unix(), id)
	if err != nil {
		return errors.DatabaseError("Failed to update subscription status", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Subscription")
	}
	return nil
}

func scanPlan(row rowScanner) (*plan.Plan, error) {
	var p plan.Plan
	var description sql.NullString
	var maxProjects, maxPersonas, maxTeam, aiChat, maxDD, maxExports, libCount sql.NullInt64

	err := row.Scan(
		&p.ID, &p.Name, &description, &maxProjects, &maxPersonas,
		&maxTeam, &p.IncludedUsers, &aiChat,
		&maxDD, &maxExports, &libCount,
		&p.HasCollaboration, &p.HasSSO, &p.HasCustomIntegrations,
		&p.PriceMonthly, &p.PriceYearly,
	)
	if err != nil {
		return nil, err
	}

	p.Description = description.String
	p.MaxProjects = nullableInt(maxProjects)
	p.MaxPersonasPerProject = nullableInt(maxPersonas)
	p.MaxUsersPerTeam = nullableInt(maxTeam)
	p.AIChatLimit = nullableInt(aiChat)
	p.MaxDoubleDiamondProjects = nullableInt(maxDD)
	p.MaxDoubleDiamondExports = nullableInt(maxExports)
	p.LibraryArticlesCount = nullableInt(libCount)

	return &p, nil
}

func scanAddon(row rowScanner) (*plan.Addon, error) {
	var a plan.Addon
	var billing sql.NullString
	var periodStart, periodEnd sql.NullInt64
	var stripeID sql.NullString
	var createdAt int64

	err := row.Scan(
		&a.ID, &a.UserID, &a.AddonKey, &a.Status, &a.Source, &billing,
		&periodStart, &periodEnd, &stripeID, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	a.BillingPeriod = billing.String
	a.PeriodStart = timeOrNil(periodStart)
	a.PeriodEnd = timeOrNil(periodEnd)
	if stripeID.Valid {
		a.StripeSubscriptionID = &stripeID.String
	}
	a.CreatedAt = time.Unix(createdAt, 0)

	return &a, nil
}

func unixOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func timeOrNil(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := time.Unix(n.Int64, 0)
	return &t
}
