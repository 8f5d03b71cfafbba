package authz

import (
	"github.com/example/wdh-os/internal/domain"
)

// documentGrants is the per-role document category allow-list. It is scoped
// independently of ViewDocuments/ManageDocuments: a role may hold the
// capability yet see only a subset of categories.
var documentGrants = map[domain.Role]map[domain.DocumentCategory]struct{}{
	domain.RoleCEO: categorySet(domain.DocumentCategories()...),
	domain.RoleCOO: categorySet(domain.DocumentCategories()...),
	domain.RoleCTO: categorySet(
		domain.CategoryReports,
		domain.CategoryTemplates,
		domain.CategoryPolicies,
		domain.CategoryOther,
	),
	domain.RoleAdmin: categorySet(
		domain.CategoryContracts,
		domain.CategoryTemplates,
		domain.CategoryOther,
	),
	domain.RoleMediaManager: categorySet(),
}

func categorySet(categories ...domain.DocumentCategory) map[domain.DocumentCategory]struct{} {
	set := make(map[domain.DocumentCategory]struct{}, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}
	return set
}

// AccessibleDocumentCategories returns the role's allow-list in the fixed
// category order. Unknown roles get an empty list.
func AccessibleDocumentCategories(role domain.Role) []domain.DocumentCategory {
	grants, ok := documentGrants[role]
	if !ok || len(grants) == 0 {
		return nil
	}
	out := make([]domain.DocumentCategory, 0, len(grants))
	for _, c := range domain.DocumentCategories() {
		if _, granted := grants[c]; granted {
			out = append(out, c)
		}
	}
	return out
}

// CanAccessDocumentCategory reports list membership for the role. Unknown
// roles and unknown categories resolve to false.
func CanAccessDocumentCategory(role domain.Role, category domain.DocumentCategory) bool {
	grants, ok := documentGrants[role]
	if !ok {
		return false
	}
	_, granted := grants[category]
	return granted
}
