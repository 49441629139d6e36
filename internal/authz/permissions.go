package authz

import "maintenance-system/internal/entities"

// Action is what a caller wants to do with an entity.
type Action string

const (
	ActionView      Action = "view"
	ActionViewOther Action = "view_other"
	ActionCreate    Action = "create"
	ActionEdit      Action = "edit"
	ActionDelete    Action = "delete"
	ActionExport    Action = "export"
)

// SearchableEntities are the tags exposed through the search and export
// endpoints, keyed by their URL base path.
var SearchableEntities = map[string]entities.PermissionEntity{
	"work-orders": entities.WorkOrders,
	"assets":      entities.Assets,
	"users":       entities.PeopleAndTeams,
}

// EntityForPath resolves a base path segment ("work-orders") or a raw tag.
func EntityForPath(path string) (entities.PermissionEntity, bool) {
	if tag, ok := SearchableEntities[path]; ok {
		return tag, true
	}
	tag, ok := entities.ParsePermissionEntity(path)
	if !ok {
		return "", false
	}
	for _, t := range SearchableEntities {
		if t == tag {
			return tag, true
		}
	}
	return "", false
}
