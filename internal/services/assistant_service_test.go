package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/designlab-hq/designlab/internal/domain/assistant"
	"github.com/designlab-hq/designlab/internal/domain/plan"
	"github.com/designlab-hq/designlab/internal/domain/project"
	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/testutil"
)

type fakeAIClient struct {
	reply    string
	chatErr  error
	mvp      []assistant.Asset
	mvpErr   error
	chatCalls int
}

func (f *fakeAIClient) Chat(ctx context.Context, messages []assistant.Message, language string) (string, error) {
	f.chatCalls++
	if f.chatErr != nil {
		return "", f.chatErr
	}
	return f.reply, nil
}

func (f *fakeAIClient) GenerateMVP(ctx context.Context, in assistant.MVPInput) ([]assistant.Asset, error) {
	if f.mvpErr != nil {
		return nil, f.mvpErr
	}
	return f.mvp, nil
}

type assistantFixture struct {
	client   *fakeAIClient
	users    *testutil.MockUserRepo
	plans    *testutil.MockPlanRepo
	projects *testutil.MockProjectRepo
	entities *testutil.MockEntityRepo
	svc      assistant.Service
}

func newAssistantFixture(t *testing.T) *assistantFixture {
	t.Helper()
	f := &assistantFixture{
		client:   &fakeAIClient{reply: "Try reframing the problem as a user need."},
		users:    testutil.NewMockUserRepo(),
		plans:    testutil.NewMockPlanRepo(),
		projects: testutil.NewMockProjectRepo(),
		entities: testutil.NewMockEntityRepo(),
	}
	f.svc = NewAssistantService(f.client, f.users, f.plans, f.projects, f.entities, testutil.NewLogger())
	return f
}

func (f *assistantFixture) seedUser(t *testing.T, planID string, chatUsed int) *user.User {
	t.Helper()
	u := &user.User{Email: "chat@example.com", Role: user.RoleUser, PlanID: planID, Language: "pt-BR"}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	f.users.Users[u.ID].AIChatUsed = chatUsed
	u.AIChatUsed = chatUsed
	return u
}

func chatReq() assistant.ChatRequest {
	return assistant.ChatRequest{
		Messages: []assistant.Message{{Role: assistant.RoleUser, Content: "How do I define a POV?"}},
	}
}

func TestAssistant_ChatCountsUsage(t *testing.T) {
	f := newAssistantFixture(t)
	u := f.seedUser(t, plan.Free, 0) // free: 10 chats

	resp, err := f.svc.Chat(context.Background(), u.ID, chatReq())
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.Reply == "" {
		t.Error("empty reply")
	}
	if resp.Used != 1 {
		t.Errorf("used = %d, want 1", resp.Used)
	}
	if resp.Remaining == nil || *resp.Remaining != 9 {
		t.Errorf("remaining = %v, want 9", resp.Remaining)
	}
	if f.users.Users[u.ID].AIChatUsed != 1 {
		t.Errorf("stored usage = %d, want 1", f.users.Users[u.ID].AIChatUsed)
	}
}

func TestAssistant_ChatQuotaExhausted(t *testing.T) {
	f := newAssistantFixture(t)
	u := f.seedUser(t, plan.Free, 10)

	_, err := f.svc.Chat(context.Background(), u.ID, chatReq())
	if err == nil {
		t.Fatal("expected quota rejection")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeLimitExceeded {
		t.Fatalf("error = %v, want LIMIT_EXCEEDED", err)
	}
	if f.client.chatCalls != 0 {
		t.Errorf("AI client called despite exhausted quota")
	}
}

func TestAssistant_ChatCustomOverrideRaisesQuota(t *testing.T) {
	f := newAssistantFixture(t)
	u := f.seedUser(t, plan.Free, 10)
	f.users.Users[u.ID].CustomAIChatLimit = testutil.IntPtr(20)

	resp, err := f.svc.Chat(context.Background(), u.ID, chatReq())
	if err != nil {
		t.Fatalf("Chat under override: %v", err)
	}
	if resp.Limit == nil || *resp.Limit != 20 {
		t.Errorf("limit = %v, want 20", resp.Limit)
	}
}

func TestAssistant_ChatUnlimitedOnNilCeiling(t *testing.T) {
	f := newAssistantFixture(t)
	u := f.seedUser(t, plan.Enterprise, 5000)

	resp, err := f.svc.Chat(context.Background(), u.ID, chatReq())
	if err != nil {
		t.Fatalf("Chat under unlimited plan: %v", err)
	}
	if resp.Limit != nil {
		t.Errorf("limit = %v, want nil (unlimited)", resp.Limit)
	}
	if resp.Remaining != nil {
		t.Errorf("remaining = %v, want nil for unlimited", resp.Remaining)
	}
}

func TestAssistant_ChatFailureDoesNotBurnQuota(t *testing.T) {
	f := newAssistantFixture(t)
	u := f.seedUser(t, plan.Free, 3)
	f.client.chatErr = fmt.Errorf("upstream 500")

	_, err := f.svc.Chat(context.Background(), u.ID, chatReq())
	if err == nil {
		t.Fatal("expected external service error")
	}
	if f.users.Users[u.ID].AIChatUsed != 3 {
		t.Errorf("usage = %d, want unchanged 3", f.users.Users[u.ID].AIChatUsed)
	}
}

func TestAssistant_GenerateMVPAttachesAssets(t *testing.T) {
	f := newAssistantFixture(t)
	u := f.seedUser(t, plan.Pro, 0)
	p := &project.Project{UserID: u.ID, Name: "QuickBook"}
	if err := f.projects.Create(context.Background(), p); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	f.client.mvp = []assistant.Asset{
		{Kind: "logo", Content: "stopwatch mark"},
		{Kind: "landing_page", Content: "Book in one tap"},
	}

	assets, err := f.svc.GenerateMVP(context.Background(), p.ID, u.ID)
	if err != nil {
		t.Fatalf("GenerateMVP: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("assets = %d, want 2", len(assets))
	}
	stored, _ := f.entities.ListAIAssets(context.Background(), p.ID)
	if len(stored) != 2 {
		t.Errorf("stored assets = %d, want 2", len(stored))
	}
}

func TestAssistant_GenerateMVPAssetWriteFailureNonFatal(t *testing.T) {
	f := newAssistantFixture(t)
	u := f.seedUser(t, plan.Pro, 0)
	p := &project.Project{UserID: u.ID, Name: "QuickBook"}
	if err := f.projects.Create(context.Background(), p); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	f.client.mvp = []assistant.Asset{{Kind: "logo", Content: "mark"}}
	f.entities.FailOn["CreateAIAsset"] = fmt.Errorf("disk full")

	assets, err := f.svc.GenerateMVP(context.Background(), p.ID, u.ID)
	if err != nil {
		t.Fatalf("GenerateMVP must tolerate asset write failure: %v", err)
	}
	if len(assets) != 1 {
		t.Errorf("assets = %d, want generated content returned anyway", len(assets))
	}
}

func TestAssistant_GenerateMVPForeignProject(t *testing.T) {
	f := newAssistantFixture(t)
	u := f.seedUser(t, plan.Pro, 0)
	p := &project.Project{UserID: u.ID + 100, Name: "Not yours"}
	if err := f.projects.Create(context.Background(), p); err != nil {
		t.Fatalf("seed project: %v", err)
	}

	_, err := f.svc.GenerateMVP(context.Background(), p.ID, u.ID)
	if err == nil {
		t.Fatal("expected not found for foreign project")
	}
}
