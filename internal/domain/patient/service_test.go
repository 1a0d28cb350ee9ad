package patient

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/escort/escort/pkg/apperr"
)

type mockRepo struct {
	items map[uuid.UUID]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: map[uuid.UUID]*Patient{}}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	existing, ok := m.items[p.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	cp := *p
	cp.IsDefault = existing.IsDefault
	m.items[p.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*Patient, error) {
	var out []*Patient
	for _, p := range m.items {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRepo) CountByUser(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, p := range m.items {
		if p.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *mockRepo) SetDefault(_ context.Context, userID, patientID uuid.UUID) error {
	target, ok := m.items[patientID]
	if !ok || target.UserID != userID {
		return pgx.ErrNoRows
	}
	for _, p := range m.items {
		if p.UserID == userID {
			p.IsDefault = false
		}
	}
	target.IsDefault = true
	return nil
}

func (m *mockRepo) defaultCount(userID uuid.UUID) int {
	count := 0
	for _, p := range m.items {
		if p.UserID == userID && p.IsDefault {
			count++
		}
	}
	return count
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo), repo
}

func TestCreate_FirstPatientBecomesDefault(t *testing.T) {
	svc, repo := newTestService()
	owner := uuid.New()

	p := &Patient{Name: "王奶奶", Relation: "grandmother"}
	if err := svc.Create(context.Background(), owner, p); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if !p.IsDefault {
		t.Error("first patient should become default")
	}
	if repo.defaultCount(owner) != 1 {
		t.Errorf("default count = %d, want 1", repo.defaultCount(owner))
	}
}

func TestCreate_DefaultFlagMovesExactlyOnce(t *testing.T) {
	svc, repo := newTestService()
	owner := uuid.New()

	first := &Patient{Name: "王奶奶", Relation: "grandmother"}
	if err := svc.Create(context.Background(), owner, first); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	second := &Patient{Name: "李爷爷", Relation: "grandfather", IsDefault: true}
	if err := svc.Create(context.Background(), owner, second); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if repo.defaultCount(owner) != 1 {
		t.Fatalf("default count = %d, want exactly 1", repo.defaultCount(owner))
	}
	if !repo.items[second.ID].IsDefault {
		t.Error("newly marked patient should hold the default flag")
	}
	if repo.items[first.ID].IsDefault {
		t.Error("previous default should have been cleared")
	}
}

func TestCreate_EleventhPatientRejected(t *testing.T) {
	svc, repo := newTestService()
	owner := uuid.New()

	for i := 0; i < MaxPerUser; i++ {
		p := &Patient{Name: fmt.Sprintf("家属%d", i), Relation: "family"}
		if err := svc.Create(context.Background(), owner, p); err != nil {
			t.Fatalf("Create(%d) error: %v", i, err)
		}
	}

	p := &Patient{Name: "第十一位", Relation: "family"}
	err := svc.Create(context.Background(), owner, p)
	if apperr.CodeOf(err) != apperr.CodeValidation {
		t.Errorf("code = %d, want %d", apperr.CodeOf(err), apperr.CodeValidation)
	}
	if len(repo.items) != MaxPerUser {
		t.Errorf("patient count = %d, want %d (nothing persisted)", len(repo.items), MaxPerUser)
	}
}

func TestGet_OwnershipEnforced(t *testing.T) {
	svc, _ := newTestService()
	owner := uuid.New()
	stranger := uuid.New()

	p := &Patient{Name: "王奶奶", Relation: "grandmother"}
	if err := svc.Create(context.Background(), owner, p); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if _, err := svc.Get(context.Background(), owner, p.ID); err != nil {
		t.Errorf("owner read failed: %v", err)
	}
	_, err := svc.Get(context.Background(), stranger, p.ID)
	if apperr.CodeOf(err) != apperr.CodeForbidden {
		t.Errorf("code = %d, want %d", apperr.CodeOf(err), apperr.CodeForbidden)
	}
}

func TestDelete_OwnershipEnforced(t *testing.T) {
	svc, repo := newTestService()
	owner := uuid.New()

	p := &Patient{Name: "王奶奶", Relation: "grandmother"}
	if err := svc.Create(context.Background(), owner, p); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	err := svc.Delete(context.Background(), uuid.New(), p.ID)
	if apperr.CodeOf(err) != apperr.CodeForbidden {
		t.Errorf("code = %d, want %d", apperr.CodeOf(err), apperr.CodeForbidden)
	}
	if _, ok := repo.items[p.ID]; !ok {
		t.Error("forbidden delete must not remove the record")
	}

	if err := svc.Delete(context.Background(), owner, p.ID); err != nil {
		t.Errorf("owner delete failed: %v", err)
	}
}

func TestSetDefault(t *testing.T) {
	svc, repo := newTestService()
	owner := uuid.New()

	a := &Patient{Name: "甲", Relation: "family"}
	b := &Patient{Name: "乙", Relation: "family"}
	if err := svc.Create(context.Background(), owner, a); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := svc.Create(context.Background(), owner, b); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := svc.SetDefault(context.Background(), owner, b.ID); err != nil {
		t.Fatalf("SetDefault() error: %v", err)
	}
	if repo.defaultCount(owner) != 1 {
		t.Errorf("default count = %d, want 1", repo.defaultCount(owner))
	}
	if !repo.items[b.ID].IsDefault {
		t.Error("b should be default")
	}
}

func TestCreate_MissingName(t *testing.T) {
	svc, _ := newTestService()
	err := svc.Create(context.Background(), uuid.New(), &Patient{Relation: "family"})
	if apperr.CodeOf(err) != apperr.CodeValidation {
		t.Errorf("code = %d, want %d", apperr.CodeOf(err), apperr.CodeValidation)
	}
}
