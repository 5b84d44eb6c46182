package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/designlab-hq/designlab/internal/domain/library"
	"github.com/designlab-hq/designlab/internal/domain/plan"
	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/testutil"
)

type memLibraryRepo struct {
	mu     sync.Mutex
	items  map[int64]*library.Item
	nextID int64
}

func newMemLibraryRepo() *memLibraryRepo {
	return &memLibraryRepo{items: make(map[int64]*library.Item), nextID: 1}
}

func (r *memLibraryRepo) Create(ctx context.Context, item *library.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = r.nextID
	r.nextID++
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *memLibraryRepo) GetByID(ctx context.Context, id int64) (*library.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, errors.NotFound("Library item")
	}
	cp := *item
	return &cp, nil
}

func (r *memLibraryRepo) List(ctx context.Context, kind string, includePremium bool, limit, offset int) ([]*library.Item, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*library.Item
	for _, item := range r.items {
		if kind != "" && item.Kind != kind {
			continue
		}
		if item.Premium && !includePremium {
			continue
		}
		cp := *item
		all = append(all, &cp)
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

func (r *memLibraryRepo) Update(ctx context.Context, item *library.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return errors.NotFound("Library item")
	}
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *memLibraryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func (r *memLibraryRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

type fakeTranslator struct {
	err   error
	calls int
}

func (f *fakeTranslator) Translate(ctx context.Context, item *library.Item, targetLang string) (*library.Translation, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &library.Translation{Title: "[" + targetLang + "] " + item.Title}, nil
}

type libraryFixture struct {
	repo       *memLibraryRepo
	translator *fakeTranslator
	users      *testutil.MockUserRepo
	plans      *testutil.MockPlanRepo
	svc        *LibraryService
}

func newLibraryFixture(t *testing.T) *libraryFixture {
	t.Helper()
	f := &libraryFixture{
		repo:       newMemLibraryRepo(),
		translator: &fakeTranslator{},
		users:      testutil.NewMockUserRepo(),
		plans:      testutil.NewMockPlanRepo(),
	}
	f.svc = NewLibraryService(f.repo, f.translator, f.users, f.plans, testutil.NewLogger())
	return f
}

func (f *libraryFixture) seedUser(t *testing.T, planID string) *user.User {
	t.Helper()
	u := &user.User{Email: fmt.Sprintf("reader%d@example.com", len(f.users.Users)+1), PlanID: planID}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestLibrary_CreateFillsTranslations(t *testing.T) {
	f := newLibraryFixture(t)

	item, err := f.svc.Create(context.Background(), &library.Item{
		Kind: library.KindArticle, Title: "Mapas de empatia", Language: "pt-BR",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(item.Translations) != 2 {
		t.Errorf("translations = %d, want 2 (other supported languages)", len(item.Translations))
	}
	if item.Translations["en-US"].Title != "[en-US] Mapas de empatia" {
		t.Errorf("en-US translation = %+v", item.Translations["en-US"])
	}
}

func TestLibrary_TranslationFailureNonFatal(t *testing.T) {
	f := newLibraryFixture(t)
	f.translator.err = fmt.Errorf("quota exceeded")

	item, err := f.svc.Create(context.Background(), &library.Item{
		Kind: library.KindArticle, Title: "Sem traducao",
	})
	if err != nil {
		t.Fatalf("Create must succeed without translations: %v", err)
	}
	if len(item.Translations) != 0 {
		t.Errorf("translations = %d, want 0", len(item.Translations))
	}
	stored, err := f.repo.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("item not persisted: %v", err)
	}
	if stored.Title != "Sem traducao" {
		t.Errorf("stored title = %q", stored.Title)
	}
}

func TestLibrary_PremiumGating(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()

	premiumItem, err := f.svc.Create(ctx, &library.Item{
		Kind: library.KindArticle, Title: "Advanced facilitation", Premium: true,
	})
	if err != nil {
		t.Fatalf("seed item: %v", err)
	}

	freeUser := f.seedUser(t, plan.Free)
	proUser := f.seedUser(t, plan.Pro)

	if _, err := f.svc.Get(ctx, premiumItem.ID, freeUser.ID); err == nil {
		t.Error("expected premium gate for free user")
	}
	if _, err := f.svc.Get(ctx, premiumItem.ID, proUser.ID); err != nil {
		t.Errorf("pro user blocked: %v", err)
	}

	// An addon unlocks premium for a free user.
	if err := f.plans.CreateAddon(ctx, &plan.Addon{
		UserID: freeUser.ID, AddonKey: plan.AddonLibraryPremium,
		Status: plan.AddonStatusActive, Source: plan.AddonSourceAdmin,
	}); err != nil {
		t.Fatalf("seed addon: %v", err)
	}
	if _, err := f.svc.Get(ctx, premiumItem.ID, freeUser.ID); err != nil {
		t.Errorf("addon holder blocked: %v", err)
	}
}

func TestLibrary_FreeTierArticleAllowance(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		if _, err := f.svc.Create(ctx, &library.Item{
			Kind: library.KindArticle, Title: fmt.Sprintf("Article %d", i),
		}); err != nil {
			t.Fatalf("seed item %d: %v", i, err)
		}
	}

	freeUser := f.seedUser(t, plan.Free) // allowance: 5 articles

	items, total, err := f.svc.List(ctx, freeUser.ID, library.KindArticle, 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 5 {
		t.Errorf("items = %d, want allowance-capped 5", len(items))
	}
	if total != 5 {
		t.Errorf("total = %d, want capped 5", total)
	}

	proUser := f.seedUser(t, plan.Pro)
	items, _, err = f.svc.List(ctx, proUser.ID, library.KindArticle, 20, 0)
	if err != nil {
		t.Fatalf("List (pro): %v", err)
	}
	if len(items) != 8 {
		t.Errorf("pro items = %d, want all 8", len(items))
	}
}
