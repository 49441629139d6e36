package entities

import "strings"

// PermissionEntity identifies a category of domain objects in role permission lists.
type PermissionEntity string

const (
	PeopleAndTeams         PermissionEntity = "PEOPLE_AND_TEAMS"
	Categories             PermissionEntity = "CATEGORIES"
	CategoriesWeb          PermissionEntity = "CATEGORIES_WEB"
	WorkOrders             PermissionEntity = "WORK_ORDERS"
	PreventiveMaintenances PermissionEntity = "PREVENTIVE_MAINTENANCES"
	Assets                 PermissionEntity = "ASSETS"
	PartsAndMultiparts     PermissionEntity = "PARTS_AND_MULTIPARTS"
	PurchaseOrders         PermissionEntity = "PURCHASE_ORDERS"
	Meters                 PermissionEntity = "METERS"
	VendorsAndCustomers    PermissionEntity = "VENDORS_AND_CUSTOMERS"
	Files                  PermissionEntity = "FILES"
	Locations              PermissionEntity = "LOCATIONS"
	Settings               PermissionEntity = "SETTINGS"
	Requests               PermissionEntity = "REQUESTS"
	Analytics              PermissionEntity = "ANALYTICS"
)

// AllPermissionEntities lists every tag in display order.
var AllPermissionEntities = []PermissionEntity{
	PeopleAndTeams, Categories, CategoriesWeb, WorkOrders, PreventiveMaintenances,
	Assets, PartsAndMultiparts, PurchaseOrders, Meters, VendorsAndCustomers,
	Files, Locations, Settings, Requests, Analytics,
}

func (p PermissionEntity) Valid() bool {
	for _, e := range AllPermissionEntities {
		if e == p {
			return true
		}
	}
	return false
}

// ParsePermissionEntity accepts both the tag ("WORK_ORDERS") and its URL
// slug ("work-orders").
func ParsePermissionEntity(s string) (PermissionEntity, bool) {
	tag := PermissionEntity(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	if !tag.Valid() {
		return "", false
	}
	return tag, true
}

// Slug is the URL form of the tag.
func (p PermissionEntity) Slug() string {
	return strings.ToLower(strings.ReplaceAll(string(p), "_", "-"))
}

// PlanFeature is a capability of the company's subscription plan.
type PlanFeature string

const (
	FeaturePreventiveMaintenance PlanFeature = "PREVENTIVE_MAINTENANCE"
	FeatureChecklist             PlanFeature = "CHECKLIST"
	FeatureFile                  PlanFeature = "FILE"
	FeaturePurchaseOrder         PlanFeature = "PURCHASE_ORDER"
	FeatureMeter                 PlanFeature = "METER"
	FeatureRequestConfiguration  PlanFeature = "REQUEST_CONFIGURATION"
	FeatureAdditionalTime        PlanFeature = "ADDITIONAL_TIME"
	FeatureAdditionalCost        PlanFeature = "ADDITIONAL_COST"
	FeatureAnalytics             PlanFeature = "ANALYTICS"
	FeatureRequestPortal         PlanFeature = "REQUEST_PORTAL"
	FeatureSignature             PlanFeature = "SIGNATURE"
	FeatureRole                  PlanFeature = "ROLE"
	FeatureWorkflow              PlanFeature = "WORKFLOW"
	FeatureAPIAccess             PlanFeature = "API_ACCESS"
	FeatureWebhook               PlanFeature = "WEBHOOK"
)
