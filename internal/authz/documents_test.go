package authz

import (
	"testing"

	"github.com/example/wdh-os/internal/domain"
)

func TestAccessibleDocumentCategories(t *testing.T) {
	t.Parallel()

	t.Run("ceo and coo see every category", func(t *testing.T) {
		t.Parallel()
		for _, role := range []domain.Role{domain.RoleCEO, domain.RoleCOO} {
			got := AccessibleDocumentCategories(role)
			if len(got) != len(domain.DocumentCategories()) {
				t.Fatalf("%s categories: got %d, want %d", role, len(got), len(domain.DocumentCategories()))
			}
		}
	})

	t.Run("cto allow-list excludes contracts and invoices", func(t *testing.T) {
		t.Parallel()
		got := AccessibleDocumentCategories(domain.RoleCTO)
		want := []domain.DocumentCategory{
			domain.CategoryReports,
			domain.CategoryTemplates,
			domain.CategoryPolicies,
			domain.CategoryOther,
		}
		if len(got) != len(want) {
			t.Fatalf("cto categories: got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("cto category order at %d: got %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("media manager has an empty allow-list", func(t *testing.T) {
		t.Parallel()
		if got := AccessibleDocumentCategories(domain.RoleMediaManager); len(got) != 0 {
			t.Fatalf("media_manager categories: got %v, want none", got)
		}
		if CanAccessDocumentCategory(domain.RoleMediaManager, domain.CategoryContracts) {
			t.Fatal("media_manager unexpectedly allowed to access contracts")
		}
	})

	t.Run("unknown role fails closed", func(t *testing.T) {
		t.Parallel()
		if got := AccessibleDocumentCategories(domain.Role("ghost")); got != nil {
			t.Fatalf("unknown role categories: got %v, want nil", got)
		}
		if CanAccessDocumentCategory("", domain.CategoryOther) {
			t.Fatal("absent role unexpectedly allowed")
		}
	})
}

func TestCanAccessDocumentCategory(t *testing.T) {
	t.Parallel()

	if !CanAccessDocumentCategory(domain.RoleAdmin, domain.CategoryContracts) {
		t.Fatal("expected admin to access contracts")
	}
	if CanAccessDocumentCategory(domain.RoleAdmin, domain.CategoryInvoices) {
		t.Fatal("expected admin not to access invoices")
	}
	if CanAccessDocumentCategory(domain.RoleCTO, domain.DocumentCategory("secrets")) {
		t.Fatal("unknown category unexpectedly allowed")
	}
}
