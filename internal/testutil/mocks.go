package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/designlab-hq/designlab/internal/domain/doublediamond"
	"github.com/designlab-hq/designlab/internal/domain/plan"
	"github.com/designlab-hq/designlab/internal/domain/project"
	"github.com/designlab-hq/designlab/internal/domain/team"
	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
)

// MockUserRepo is an in-memory user.Repository.
type MockUserRepo struct {
	mu     sync.Mutex
	Users  map[int64]*user.User
	nextID int64
}

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{Users: make(map[int64]*user.User), nextID: 1}
}

func (m *MockUserRepo) Create(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Users {
		if existing.Email == u.Email {
			return errors.Conflict("Email already registered")
		}
	}
	u.ID = m.nextID
	m.nextID++
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.Users[u.ID] = u
	return nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	if !ok {
		return nil, errors.NotFound("User")
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errors.NotFound("User")
}

func (m *MockUserRepo) GetByStripeCustomer(ctx context.Context, customerID string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.StripeCustomerID != nil && *u.StripeCustomerID == customerID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errors.NotFound("User")
}

func (m *MockUserRepo) Update(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Users[u.ID]; !ok {
		return errors.NotFound("User")
	}
	u.UpdatedAt = time.Now()
	cp := *u
	m.Users[u.ID] = &cp
	return nil
}

func (m *MockUserRepo) UpdateCustomLimits(ctx context.Context, id int64, limits user.CustomLimits) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	if !ok {
		return errors.NotFound("User")
	}
	u.CustomMaxProjects = limits.MaxProjects
	u.CustomMaxDoubleDiamondProjects = limits.MaxDoubleDiamondProjects
	u.CustomMaxDoubleDiamondExports = limits.MaxDoubleDiamondExports
	u.CustomAIChatLimit = limits.AIChatLimit
	u.CustomLimitsTrialEndsAt = limits.TrialEndsAt
	return nil
}

func (m *MockUserRepo) ClearExpiredCustomLimits(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, u := range m.Users {
		if u.CustomLimitsTrialEndsAt != nil && u.CustomLimitsTrialEndsAt.Before(now) {
			u.CustomMaxProjects = nil
			u.CustomMaxDoubleDiamondProjects = nil
			u.CustomMaxDoubleDiamondExports = nil
			u.CustomAIChatLimit = nil
			u.CustomLimitsTrialEndsAt = nil
			n++
		}
	}
	return n, nil
}

func (m *MockUserRepo) IncrementAIChatUsed(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	if !ok {
		return errors.NotFound("User")
	}
	u.AIChatUsed++
	return nil
}

func (m *MockUserRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Users[id]; !ok {
		return errors.NotFound("User")
	}
	delete(m.Users, id)
	return nil
}

func (m *MockUserRepo) List(ctx context.Context, limit, offset int) ([]*user.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.Users))
	for id := range m.Users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	total := int64(len(ids))
	var out []*user.User
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) >= limit {
			break
		}
		cp := *m.Users[id]
		out = append(out, &cp)
	}
	return out, total, nil
}

func (m *MockUserRepo) CountByPlan(ctx context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64)
	for _, u := range m.Users {
		out[u.PlanID]++
	}
	return out, nil
}

// MockPlanRepo is an in-memory plan.Repository seeded with the standard
// tiers.
type MockPlanRepo struct {
	mu            sync.Mutex
	Plans         map[string]*plan.Plan
	Addons        map[int64][]*plan.Addon
	Subscriptions map[int64]*plan.Subscription
	nextAddonID   int64
	nextSubID     int64
}

func NewMockPlanRepo() *MockPlanRepo {
	five := 5
	one := 1
	three := 3
	ten := 10
	fifty := 50
	two := 2
	return &MockPlanRepo{
		Plans: map[string]*plan.Plan{
			plan.Free: {
				ID: plan.Free, Name: "Free",
				MaxProjects: &one, MaxPersonasPerProject: &three,
				MaxUsersPerTeam: &one, IncludedUsers: 1,
				AIChatLimit:              &ten,
				MaxDoubleDiamondProjects: &one, MaxDoubleDiamondExports: &two,
				LibraryArticlesCount: &five,
			},
			plan.Pro: {
				ID: plan.Pro, Name: "Pro",
				MaxProjects: &ten, MaxPersonasPerProject: &ten,
				MaxUsersPerTeam: &five, IncludedUsers: 3,
				AIChatLimit:              &fifty,
				MaxDoubleDiamondProjects: &ten, MaxDoubleDiamondExports: &ten,
				HasCollaboration: true,
				PriceMonthly:     4900, PriceYearly: 49000,
			},
			plan.Enterprise: {
				ID: plan.Enterprise, Name: "Enterprise",
				IncludedUsers:    10,
				HasCollaboration: true, HasSSO: true, HasCustomIntegrations: true,
				PriceMonthly: 19900, PriceYearly: 199000,
			},
		},
		Addons:        make(map[int64][]*plan.Addon),
		Subscriptions: make(map[int64]*plan.Subscription),
		nextAddonID:   1,
		nextSubID:     1,
	}
}

func (m *MockPlanRepo) GetPlan(ctx context.Context, id string) (*plan.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Plans[id]
	if !ok {
		return nil, errors.NotFound("Plan")
	}
	cp := *p
	return &cp, nil
}

func (m *MockPlanRepo) ListPlans(ctx context.Context) ([]*plan.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*plan.Plan, 0, len(m.Plans))
	for _, p := range m.Plans {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PriceMonthly < out[j].PriceMonthly })
	return out, nil
}

func (m *MockPlanRepo) ListAddons(ctx context.Context, userID int64) ([]*plan.Addon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*plan.Addon(nil), m.Addons[userID]...), nil
}

func (m *MockPlanRepo) CreateAddon(ctx context.Context, addon *plan.Addon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	addon.ID = m.nextAddonID
	m.nextAddonID++
	addon.CreatedAt = time.Now()
	m.Addons[addon.UserID] = append(m.Addons[addon.UserID], addon)
	return nil
}

func (m *MockPlanRepo) UpdateAddonStatus(ctx context.Context, id int64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, addons := range m.Addons {
		for _, a := range addons {
			if a.ID == id {
				a.Status = status
				return nil
			}
		}
	}
	return errors.NotFound("Addon")
}

func (m *MockPlanRepo) CancelAddonsByStripeSubscription(ctx context.Context, stripeSubscriptionID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, addons := range m.Addons {
		for _, a := range addons {
			if a.StripeSubscriptionID != nil && *a.StripeSubscriptionID == stripeSubscriptionID {
				a.Status = status
			}
		}
	}
	return nil
}

func (m *MockPlanRepo) CreateSubscription(ctx context.Context, sub *plan.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub.ID = m.nextSubID
	m.nextSubID++
	sub.CreatedAt = time.Now()
	m.Subscriptions[sub.ID] = sub
	return nil
}

func (m *MockPlanRepo) GetSubscriptionByStripeID(ctx context.Context, stripeSubscriptionID string) (*plan.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.Subscriptions {
		if s.StripeSubscriptionID != nil && *s.StripeSubscriptionID == stripeSubscriptionID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, errors.NotFound("Subscription")
}

func (m *MockPlanRepo) UpdateSubscriptionStatus(ctx context.Context, id int64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Subscriptions[id]
	if !ok {
		return errors.NotFound("Subscription")
	}
	s.Status = status
	return nil
}

// MockProjectRepo is an in-memory project.Repository.
type MockProjectRepo struct {
	mu       sync.Mutex
	Projects map[int64]*project.Project
	nextID   int64

	// CreateErr, when set, fails the next Create call
	CreateErr error
}

func NewMockProjectRepo() *MockProjectRepo {
	return &MockProjectRepo{Projects: make(map[int64]*project.Project), nextID: 1}
}

func (m *MockProjectRepo) Create(ctx context.Context, p *project.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		err := m.CreateErr
		m.CreateErr = nil
		return err
	}
	p.ID = m.nextID
	m.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.Projects[p.ID] = &cp
	return nil
}

func (m *MockProjectRepo) GetByID(ctx context.Context, id int64) (*project.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Projects[id]
	if !ok {
		return nil, errors.NotFound("Project")
	}
	cp := *p
	return &cp, nil
}

func (m *MockProjectRepo) GetForOwner(ctx context.Context, id, ownerID int64) (*project.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Projects[id]
	if !ok || p.UserID != ownerID {
		return nil, errors.NotFound("Project")
	}
	cp := *p
	return &cp, nil
}

func (m *MockProjectRepo) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*project.Project, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*project.Project
	for _, p := range m.Projects {
		if p.UserID == ownerID {
			cp := *p
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (m *MockProjectRepo) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.Projects {
		if p.UserID == ownerID {
			n++
		}
	}
	return n, nil
}

func (m *MockProjectRepo) Update(ctx context.Context, p *project.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Projects[p.ID]; !ok {
		return errors.NotFound("Project")
	}
	p.UpdatedAt = time.Now()
	cp := *p
	m.Projects[p.ID] = &cp
	return nil
}

func (m *MockProjectRepo) Delete(ctx context.Context, id, ownerID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Projects[id]
	if !ok || p.UserID != ownerID {
		return false, nil
	}
	delete(m.Projects, id)
	return true, nil
}

func (m *MockProjectRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64)
	for _, p := range m.Projects {
		out[p.Status]++
	}
	return out, nil
}

func (m *MockProjectRepo) CountByPhase(ctx context.Context) (map[int]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int]int64)
	for _, p := range m.Projects {
		out[p.CurrentPhase]++
	}
	return out, nil
}

// MockDDRepo is an in-memory doublediamond.Repository.
type MockDDRepo struct {
	mu       sync.Mutex
	Projects map[int64]*doublediamond.Project
	Exports  []*doublediamond.Export
	nextID   int64

	// UpdateCalls counts Update invocations
	UpdateCalls int

	// CreateExportErr, when set, fails every CreateExport call
	CreateExportErr error
}

func NewMockDDRepo() *MockDDRepo {
	return &MockDDRepo{Projects: make(map[int64]*doublediamond.Project), nextID: 1}
}

func (m *MockDDRepo) Create(ctx context.Context, p *doublediamond.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.nextID
	m.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.Projects[p.ID] = &cp
	return nil
}

func (m *MockDDRepo) GetForUser(ctx context.Context, id, userID int64) (*doublediamond.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Projects[id]
	if !ok || p.UserID != userID {
		return nil, errors.NotFound("Double diamond project")
	}
	cp := *p
	return &cp, nil
}

func (m *MockDDRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*doublediamond.Project, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*doublediamond.Project
	for _, p := range m.Projects {
		if p.UserID == userID {
			cp := *p
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (m *MockDDRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.Projects {
		if p.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *MockDDRepo) Update(ctx context.Context, p *doublediamond.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Projects[p.ID]; !ok {
		return errors.NotFound("Double diamond project")
	}
	m.UpdateCalls++
	p.UpdatedAt = time.Now()
	cp := *p
	m.Projects[p.ID] = &cp
	return nil
}

func (m *MockDDRepo) Delete(ctx context.Context, id, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Projects[id]
	if !ok || p.UserID != userID {
		return false, nil
	}
	delete(m.Projects, id)
	return true, nil
}

func (m *MockDDRepo) CountByPhase(ctx context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64)
	for _, p := range m.Projects {
		out[p.CurrentPhase]++
	}
	return out, nil
}

func (m *MockDDRepo) CreateExport(ctx context.Context, e *doublediamond.Export) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateExportErr != nil {
		return m.CreateExportErr
	}
	e.ID = int64(len(m.Exports) + 1)
	m.Exports = append(m.Exports, e)
	return nil
}

func (m *MockDDRepo) CountExportsInMonth(ctx context.Context, userID int64, ref time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Exports {
		if e.UserID == userID &&
			e.CreatedAt.Year() == ref.Year() && e.CreatedAt.Month() == ref.Month() {
			n++
		}
	}
	return n, nil
}

func (m *MockDDRepo) CountExportsSince(ctx context.Context, since time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, e := range m.Exports {
		if e.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

// MockEntityRepo records created phase sub-entities and supports per-method
// failure injection through FailOn.
type MockEntityRepo struct {
	mu sync.Mutex

	EmpathyMaps    []*project.EmpathyMap
	Personas       []*project.Persona
	Interviews     []*project.Interview
	Observations   []*project.Observation
	PovStatements  []*project.PovStatement
	HmwQuestions   []*project.HmwQuestion
	Ideas          []*project.Idea
	Prototypes     []*project.Prototype
	TestPlans      []*project.TestPlan
	TestResults    []*project.TestResult
	DvfAssessments []*project.DvfAssessment
	AIAssets       []*project.AIAsset

	// FailOn maps a method name ("CreateTestPlan") to the error it returns
	FailOn map[string]error

	nextID int64
}

func NewMockEntityRepo() *MockEntityRepo {
	return &MockEntityRepo{FailOn: make(map[string]error), nextID: 1}
}

func (m *MockEntityRepo) fail(method string) error {
	return m.FailOn[method]
}

func (m *MockEntityRepo) id() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func (m *MockEntityRepo) CreateEmpathyMap(ctx context.Context, e *project.EmpathyMap) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateEmpathyMap"); err != nil {
		return err
	}
	e.ID = m.id()
	m.EmpathyMaps = append(m.EmpathyMaps, e)
	return nil
}

func (m *MockEntityRepo) ListEmpathyMaps(ctx context.Context, projectID int64) ([]*project.EmpathyMap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*project.EmpathyMap
	for _, e := range m.EmpathyMaps {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockEntityRepo) UpdateEmpathyMap(ctx context.Context, e *project.EmpathyMap) error { return nil }

func (m *MockEntityRepo) DeleteEmpathyMap(ctx context.Context, id, projectID int64) (bool, error) {
	return m.deleteEmpathyMap(id, projectID), nil
}

func (m *MockEntityRepo) deleteEmpathyMap(id, projectID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.EmpathyMaps {
		if e.ID == id && e.ProjectID == projectID {
			m.EmpathyMaps = append(m.EmpathyMaps[:i], m.EmpathyMaps[i+1:]...)
			return true
		}
	}
	return false
}

func (m *MockEntityRepo) CreatePersona(ctx context.Context, p *project.Persona) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreatePersona"); err != nil {
		return err
	}
	p.ID = m.id()
	m.Personas = append(m.Personas, p)
	return nil
}

func (m *MockEntityRepo) ListPersonas(ctx context.Context, projectID int64) ([]*project.Persona, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*project.Persona
	for _, p := range m.Personas {
		if p.ProjectID == projectID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockEntityRepo) CountPersonas(ctx context.Context, projectID int64) (int, error) {
	list, _ := m.ListPersonas(ctx, projectID)
	return len(list), nil
}

func (m *MockEntityRepo) UpdatePersona(ctx context.Context, p *project.Persona) error { return nil }

func (m *MockEntityRepo) DeletePersona(ctx context.Context, id, projectID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.Personas {
		if p.ID == id && p.ProjectID == projectID {
			m.Personas = append(m.Personas[:i], m.Personas[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockEntityRepo) CreateInterview(ctx context.Context, i *project.Interview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateInterview"); err != nil {
		return err
	}
	i.ID = m.id()
	m.Interviews = append(m.Interviews, i)
	return nil
}

func (m *MockEntityRepo) ListInterviews(ctx context.Context, projectID int64) ([]*project.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*project.Interview
	for _, i := range m.Interviews {
		if i.ProjectID == projectID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (m *MockEntityRepo) UpdateInterview(ctx context.Context, i *project.Interview) error { return nil }

func (m *MockEntityRepo) DeleteInterview(ctx context.Context, id, projectID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, iv := range m.Interviews {
		if iv.ID == id && iv.ProjectID == projectID {
			m.Interviews = append(m.Interviews[:i], m.Interviews[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockEntityRepo) CreateObservation(ctx context.Context, o *project.Observation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateObservation"); err != nil {
		return err
	}
	o.ID = m.id()
	m.Observations = append(m.Observations, o)
	return nil
}

func (m *MockEntityRepo) ListObservations(ctx context.Context, projectID int64) ([]*project.Observation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*project.Observation
	for _, o := range m.Observations {
		if o.ProjectID == projectID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *MockEntityRepo) UpdateObservation(ctx context.Context, o *project.Observation) error {
	return nil
}

func (m *MockEntityRepo) DeleteObservation(ctx context.Context, id, projectID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, o := range m.Observations {
		if o.ID == id && o.ProjectID == projectID {
			m.Observations = append(m.Observations[:i], m.Observations[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockEntityRepo) CreatePovStatement(ctx context.Context, s *project.PovStatement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreatePovStatement"); err != nil {
		return err
	}
	s.ID = m.id()
	m.PovStatements = append(m.PovStatements, s)
	return nil
}

func (m *MockEntityRepo) ListPovStatements(ctx context.Context, projectID int64) ([]*project.PovStatement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*project.PovStatement
	for _, s := range m.PovStatements {
		if s.ProjectID == projectID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MockEntityRepo) UpdatePovStatement(ctx context.Context, s *project.PovStatement) error {
	return nil
}

func (m *MockEntityRepo) DeletePovStatement(ctx context.Context, id, projectID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.PovStatements {
		if s.ID == id && s.ProjectID == projectID {
			m.PovStatements = append(m.PovStatements[:i], m.PovStatements[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockEntityRepo) CreateHmwQuestion(ctx context.Context, q *project.HmwQuestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateHmwQuestion"); err != nil {
		return err
	}
	q.ID = m.id()
	m.HmwQuestions = append(m.HmwQuestions, q)
	return nil
}

func (m *MockEntityRepo) ListHmwQuestions(ctx context.Context, projectID int64) ([]*project.HmwQuestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*project.HmwQuestion
	for _, q := range m.HmwQuestions {
		if q.ProjectID == projectID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *MockEntityRepo) UpdateHmwQuestion(ctx context.Context, q *project.HmwQuestion) error {
	return nil
}

func (m *MockEntityRepo) DeleteHmwQuestion(ctx context.Context, id, projectID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, q := range m.HmwQuestions {
		if q.ID == id && q.ProjectID == projectID {
			m.HmwQuestions = append(m.HmwQuestions[:i], m.HmwQuestions[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockEntityRepo) CreateIdea(ctx context.Context, i *project.Idea) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateIdea"); err != nil {
		return err
	}
	i.ID = m.id()
	m.Ideas = append(m.Ideas, i)
	return nil
}

func (m *MockEntityRepo) ListIdeas(ctx context.Context, projectID int64) ([]*project.Idea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*project.Idea
	for _, i := range m.Ideas {
		if i.ProjectID == projectID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (m *MockEntityRepo) UpdateIdea(ctx context.Context, i *project.Idea) error { return nil }

func (m *MockEntityRepo) DeleteIdea(ctx context.Context, id, projectID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, idea := range m.Ideas {
		if idea.ID == id && idea.ProjectID == projectID {
			m.Ideas = append(m.Ideas[:i], m.Ideas[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockEntityRepo) CreatePrototype(ctx context.Context, p *project.Prototype) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreatePrototype"); err != nil {
		return err
	}
	p.ID = m.id()
	m.Prototypes = append(m.Prototypes, p)
	return nil
}

func (m *MockEntityRepo) ListPrototypes(ctx context.Context, projectID int64) ([]*project.Prototype, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*project.Prototype
	for _, p := range m.Prototypes {
		if p.ProjectID == projectID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockEntityRepo) UpdatePrototype(ctx context.Context, p *project.Prototype) error { return nil }

func (m *MockEntityRepo) DeletePrototype(ctx context.Context, id, projectID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.Prototypes {
		if p.ID == id && p.ProjectID == projectID {
			m.Prototypes = append(m.Prototypes[:i], m.Prototypes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockEntityRepo) CreateTestPlan(ctx context.Context, t *project.TestPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateTestPlan"); err != nil {
		return err
	}
	t.ID = m.id()
	m.TestPlans = append(m.TestPlans, t)
	return nil
}

func (m *MockEntityRepo) ListTestPlans(ctx context.Context, projectID int64) ([]*project.TestPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*project.TestPlan
	for _, t := range m.TestPlans {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MockEntityRepo) UpdateTestPlan(ctx context.Context, t *project.TestPlan) error { return nil }

func (m *MockEntityRepo) DeleteTestPlan(ctx context.Context, id, projectID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.TestPlans {
		if t.ID == id && t.ProjectID == projectID {
			m.TestPlans = append(m.TestPlans[:i], m.TestPlans[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockEntityRepo) CreateTestResult(ctx context.Context, r *project.TestResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateTestResult"); err != nil {
		return err
	}
	r.ID = m.id()
	m.TestResults = append(m.TestResults, r)
	return nil
}

func (m *MockEntityRepo) ListTestResults(ctx context.Context, testPlanID int64) ([]*project.TestResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*project.TestResult
	for _, r := range m.TestResults {
		if r.TestPlanID == testPlanID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockEntityRepo) DeleteTestResult(ctx context.Context, id, projectID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.TestResults {
		if r.ID == id && r.ProjectID == projectID {
			m.TestResults = append(m.TestResults[:i], m.TestResults[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockEntityRepo) CreateDvfAssessment(ctx context.Context, a *project.DvfAssessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateDvfAssessment"); err != nil {
		return err
	}
	a.ID = m.id()
	m.DvfAssessments = append(m.DvfAssessments, a)
	return nil
}

func (m *MockEntityRepo) ListDvfAssessments(ctx context.Context, projectID int64) ([]*project.DvfAssessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*project.DvfAssessment
	for _, a := range m.DvfAssessments {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MockEntityRepo) UpdateDvfAssessment(ctx context.Context, a *project.DvfAssessment) error {
	return nil
}

func (m *MockEntityRepo) DeleteDvfAssessment(ctx context.Context, id, projectID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.DvfAssessments {
		if a.ID == id && a.ProjectID == projectID {
			m.DvfAssessments = append(m.DvfAssessments[:i], m.DvfAssessments[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockEntityRepo) CreateAIAsset(ctx context.Context, a *project.AIAsset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateAIAsset"); err != nil {
		return err
	}
	a.ID = m.id()
	m.AIAssets = append(m.AIAssets, a)
	return nil
}

func (m *MockEntityRepo) ListAIAssets(ctx context.Context, projectID int64) ([]*project.AIAsset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*project.AIAsset
	for _, a := range m.AIAssets {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out, nil
}

// MockTeamRepo is an in-memory team.Repository.
type MockTeamRepo struct {
	mu      sync.Mutex
	Members map[int64][]*team.Member // by project
	Invites []*team.Invite
	nextID  int64
}

func NewMockTeamRepo() *MockTeamRepo {
	return &MockTeamRepo{Members: make(map[int64][]*team.Member), nextID: 1}
}

func (m *MockTeamRepo) CreateMember(ctx context.Context, mem *team.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mem.ID = m.nextID
	m.nextID++
	mem.CreatedAt = time.Now()
	m.Members[mem.ProjectID] = append(m.Members[mem.ProjectID], mem)
	return nil
}

func (m *MockTeamRepo) GetMember(ctx context.Context, projectID, userID int64) (*team.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mem := range m.Members[projectID] {
		if mem.UserID == userID {
			cp := *mem
			return &cp, nil
		}
	}
	return nil, errors.NotFound("Member")
}

func (m *MockTeamRepo) ListMembers(ctx context.Context, projectID int64) ([]*team.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*team.Member(nil), m.Members[projectID]...), nil
}

func (m *MockTeamRepo) CountMembers(ctx context.Context, projectID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Members[projectID]), nil
}

func (m *MockTeamRepo) UpdateMemberRole(ctx context.Context, projectID, userID int64, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mem := range m.Members[projectID] {
		if mem.UserID == userID {
			mem.Role = role
			return nil
		}
	}
	return errors.NotFound("Member")
}

func (m *MockTeamRepo) RemoveMember(ctx context.Context, projectID, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	members := m.Members[projectID]
	for i, mem := range members {
		if mem.UserID == userID {
			m.Members[projectID] = append(members[:i], members[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockTeamRepo) CreateInvite(ctx context.Context, i *team.Invite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i.ID = m.nextID
	m.nextID++
	i.CreatedAt = time.Now()
	m.Invites = append(m.Invites, i)
	return nil
}

func (m *MockTeamRepo) GetInviteByToken(ctx context.Context, token string) (*team.Invite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, i := range m.Invites {
		if i.Token == token {
			cp := *i
			return &cp, nil
		}
	}
	return nil, errors.NotFound("Invite")
}

func (m *MockTeamRepo) ListInvites(ctx context.Context, projectID int64) ([]*team.Invite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*team.Invite
	for _, i := range m.Invites {
		if i.ProjectID == projectID {
			cp := *i
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockTeamRepo) UpdateInviteStatus(ctx context.Context, id int64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, i := range m.Invites {
		if i.ID == id {
			i.Status = status
			return nil
		}
	}
	return errors.NotFound("Invite")
}

func (m *MockTeamRepo) ExpirePendingInvites(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, i := range m.Invites {
		if i.Status == team.InvitePending && i.ExpiresAt.Before(now) {
			i.Status = team.InviteExpired
			n++
		}
	}
	return n, nil
}

// ScriptedGenerator returns canned phase outputs, or the injected error for a
// phase.
type ScriptedGenerator struct {
	DiscoverOut *doublediamond.DiscoverOutput
	DefineOut   *doublediamond.DefineOutput
	DevelopOut  *doublediamond.DevelopOutput
	DeliverOut  *doublediamond.DeliverOutput
	DFVOut      *doublediamond.DFVOutput

	DiscoverErr error
	DefineErr   error
	DevelopErr  error
	DeliverErr  error
	DFVErr      error

	// Calls records phase names in invocation order
	Calls []string

	// LastDeliverIn captures the most recent Deliver input
	LastDeliverIn doublediamond.DeliverInput
}

// NewScriptedGenerator returns a generator with plausible defaults for every
// phase.
func NewScriptedGenerator() *ScriptedGenerator {
	return &ScriptedGenerator{
		DiscoverOut: &doublediamond.DiscoverOutput{
			PainPoints: []string{"long queues", "no price transparency"},
			Insights:   []string{"users value speed over breadth"},
			UserNeeds:  []string{"reserve ahead of time"},
			EmpathyMap: doublediamond.EmpathyMap{
				Says:   []string{"I never know how long it will take"},
				Thinks: []string{"there must be a faster way"},
				Does:   []string{"calls ahead"},
				Feels:  []string{"frustrated"},
			},
		},
		DefineOut: &doublediamond.DefineOutput{
			PovStatements: []doublediamond.PovStatement{
				{User: "busy professional", Need: "to book in seconds", Insight: "time is scarcer than money"},
				{User: "casual user", Need: "price clarity", Insight: "surprises erode trust"},
			},
			HmwQuestions: []string{
				"How might we make booking instant?",
				"How might we show prices upfront?",
			},
		},
		DevelopOut: &doublediamond.DevelopOutput{
			Ideas: []doublediamond.Idea{
				{Title: "One-tap booking", Category: "core"},
				{Title: "Live price board", Category: "core"},
				{Title: "Queue forecast", Category: "delight"},
				{Title: "Loyalty wallet", Category: "growth"},
			},
			CrossPollinatedIdeas: []doublediamond.Idea{
				{Title: "Booking + price bundle", Category: "hybrid"},
			},
		},
		DeliverOut: &doublediamond.DeliverOutput{
			MvpConcept: doublediamond.MvpConcept{
				Name:         "QuickBook",
				Description:  "Instant booking with upfront pricing",
				CoreFeatures: []string{"one-tap booking", "price board"},
			},
			LogoSuggestions: []string{"stopwatch over a calendar"},
			LandingPage: doublediamond.LandingPage{
				Headline: "Book in one tap",
			},
			SocialMediaLines: []string{"No more waiting rooms."},
			TestPlan: doublediamond.TestPlanDraft{
				Objectives:      []string{"validate booking flow"},
				Methods:         []string{"usability test"},
				Participants:    8,
				DurationMinutes: 30,
			},
		},
		DFVOut: &doublediamond.DFVOutput{
			DesirabilityScore: 80,
			FeasibilityScore:  60,
			ViabilityScore:    100,
			Analysis: doublediamond.DfvAnalysis{
				Desirability:      "strong pull from interviews",
				Feasibility:       "standard mobile stack",
				Viability:         "clear subscription path",
				OverallAssessment: "promising",
			},
		},
	}
}

func (g *ScriptedGenerator) Discover(ctx context.Context, in doublediamond.DiscoverInput) (*doublediamond.DiscoverOutput, error) {
	g.Calls = append(g.Calls, "discover")
	if g.DiscoverErr != nil {
		return nil, g.DiscoverErr
	}
	return g.DiscoverOut, nil
}

func (g *ScriptedGenerator) Define(ctx context.Context, in doublediamond.DefineInput) (*doublediamond.DefineOutput, error) {
	g.Calls = append(g.Calls, "define")
	if g.DefineErr != nil {
		return nil, g.DefineErr
	}
	return g.DefineOut, nil
}

func (g *ScriptedGenerator) Develop(ctx context.Context, in doublediamond.DevelopInput) (*doublediamond.DevelopOutput, error) {
	g.Calls = append(g.Calls, "develop")
	if g.DevelopErr != nil {
		return nil, g.DevelopErr
	}
	return g.DevelopOut, nil
}

func (g *ScriptedGenerator) Deliver(ctx context.Context, in doublediamond.DeliverInput) (*doublediamond.DeliverOutput, error) {
	g.Calls = append(g.Calls, "deliver")
	g.LastDeliverIn = in
	if g.DeliverErr != nil {
		return nil, g.DeliverErr
	}
	return g.DeliverOut, nil
}

func (g *ScriptedGenerator) DFV(ctx context.Context, in doublediamond.DFVInput) (*doublediamond.DFVOutput, error) {
	g.Calls = append(g.Calls, "dfv")
	if g.DFVErr != nil {
		return nil, g.DFVErr
	}
	return g.DFVOut, nil
}
