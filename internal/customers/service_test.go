package customers

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kanchanlabs/delivery-backend/pkg/db/models"
	"github.com/kanchanlabs/delivery-backend/pkg/enums"
	apperrors "github.com/kanchanlabs/delivery-backend/pkg/errors"
)

type memoryRepo struct {
	customers map[uuid.UUID]*models.Customer
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{customers: make(map[uuid.UUID]*models.Customer)}
}

func (m *memoryRepo) WithTx(tx *gorm.DB) Repository { return m }

func (m *memoryRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	if c, ok := m.customers[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (m *memoryRepo) List(_ context.Context, params ListQuery) ([]models.Customer, error) {
	var out []models.Customer
	for _, c := range m.customers {
		if params.Search != "" &&
			!strings.Contains(c.Name, params.Search) &&
			!strings.Contains(c.PhoneNumber, params.Search) {
			continue
		}
		if params.Type != nil && c.CustomerType != *params.Type {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (m *memoryRepo) ListAll(_ context.Context) ([]models.Customer, error) {
	var out []models.Customer
	for _, c := range m.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memoryRepo) CountByType(_ context.Context, customerType enums.CustomerType) (int64, error) {
	var count int64
	for _, c := range m.customers {
		if c.CustomerType == customerType {
			count++
		}
	}
	return count, nil
}

func (m *memoryRepo) Create(_ context.Context, customer *models.Customer) error {
	customer.ID = uuid.New()
	copied := *customer
	m.customers[customer.ID] = &copied
	return nil
}

func (m *memoryRepo) Save(_ context.Context, customer *models.Customer) error {
	copied := *customer
	m.customers[customer.ID] = &copied
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.customers, id)
	return nil
}

func newTestService(t *testing.T) (*Service, *memoryRepo) {
	t.Helper()
	repo := newMemoryRepo()
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc, repo
}

func TestCreateCustomer(t *testing.T) {
	svc, _ := newTestService(t)

	customer, err := svc.Create(context.Background(), CreateInput{
		Name:         "  Sharma General Store ",
		PhoneNumber:  "9876543210",
		Address:      "Main Bazar Road",
		CustomerType: enums.CustomerTypeShop,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if customer.Name != "Sharma General Store" {
		t.Fatalf("name not trimmed: %q", customer.Name)
	}
	if customer.ID == uuid.Nil {
		t.Fatal("id not assigned")
	}
}

func TestCreateCustomerValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateInput{
		PhoneNumber:  "9876543210",
		CustomerType: enums.CustomerType("walkin"),
	})
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	for _, field := range []string{"name", "address", "customer_type"} {
		if _, present := details[field]; !present {
			t.Fatalf("missing detail for %s", field)
		}
	}
}

func TestListFiltersByType(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustCreate(t, svc, ctx, "Shop One", enums.CustomerTypeShop)
	mustCreate(t, svc, ctx, "Monthly One", enums.CustomerTypeMonthly)
	mustCreate(t, svc, ctx, "Monthly Two", enums.CustomerTypeMonthly)

	monthly := enums.CustomerTypeMonthly
	got, err := svc.List(ctx, ListQuery{Type: &monthly})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 monthly customers, got %d", len(got))
	}
}

func TestUpdatePartialEdit(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created := mustCreate(t, svc, ctx, "Gupta Residence", enums.CustomerTypeMonthly)

	newPhone := "9123456789"
	updated, err := svc.Update(ctx, created.ID, UpdateInput{PhoneNumber: &newPhone})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.PhoneNumber != newPhone {
		t.Fatalf("phone = %q, want %q", updated.PhoneNumber, newPhone)
	}
	if updated.Name != "Gupta Residence" {
		t.Fatalf("name changed unexpectedly: %q", updated.Name)
	}
}

func TestUpdateRejectsEmptyName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created := mustCreate(t, svc, ctx, "Gupta Residence", enums.CustomerTypeMonthly)

	empty := "   "
	_, err := svc.Update(ctx, created.ID, UpdateInput{Name: &empty})
	if typed := apperrors.As(err); typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestGetMissingCustomer(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Get(context.Background(), uuid.New())
	if typed := apperrors.As(err); typed == nil || typed.Code() != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestDeleteCustomer(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created := mustCreate(t, svc, ctx, "Shop One", enums.CustomerTypeShop)
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.customers) != 0 {
		t.Fatal("customer not deleted")
	}
}

func mustCreate(t *testing.T, svc *Service, ctx context.Context, name string, customerType enums.CustomerType) *models.Customer {
	t.Helper()
	customer, err := svc.Create(ctx, CreateInput{
		Name:         name,
		PhoneNumber:  "9876543210",
		Address:      "Main Bazar Road",
		CustomerType: customerType,
	})
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}
	return customer
}
