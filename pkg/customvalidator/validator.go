package customvalidator

import (
	"database/sql/driver"
	"reflect"
	"regexp"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"

	"maintenance-system/internal/entities"
	"maintenance-system/pkg/types"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RegisterCustomValidations registers the project's tags and teaches the
// validator to look inside null.* wrappers.
func RegisterCustomValidations(v *validator.Validate) error {
	v.RegisterCustomTypeFunc(nullValue,
		null.String{}, null.Int{}, null.Int64{}, null.Uint64{}, null.Bool{}, null.Time{}, null.Float64{},
	)

	rules := map[string]validator.Func{
		"email":             isGoodEmailFormat,
		"permission_entity": isPermissionEntity,
		"filter_operation":  isFilterOperation,
		"work_order_status": isWorkOrderStatus,
		"priority":          isPriority,
		"asset_status":      isAssetStatus,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// nullValue returns nil for an invalid null.* value so that "omitempty"
// skips it, and the wrapped value otherwise.
func nullValue(field reflect.Value) interface{} {
	valuer, ok := field.Interface().(driver.Valuer)
	if !ok {
		return nil
	}
	val, err := valuer.Value()
	if err != nil {
		return nil
	}
	return val
}

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

func isPermissionEntity(fl validator.FieldLevel) bool {
	return entities.PermissionEntity(fl.Field().String()).Valid()
}

func isFilterOperation(fl validator.FieldLevel) bool {
	return types.Operation(fl.Field().String()).Valid()
}

func isWorkOrderStatus(fl validator.FieldLevel) bool {
	switch entities.WorkOrderStatus(fl.Field().String()) {
	case entities.StatusOpen, entities.StatusInProgress, entities.StatusOnHold, entities.StatusComplete:
		return true
	}
	return false
}

func isPriority(fl validator.FieldLevel) bool {
	switch entities.Priority(fl.Field().String()) {
	case entities.PriorityNone, entities.PriorityLow, entities.PriorityMedium, entities.PriorityHigh:
		return true
	}
	return false
}

func isAssetStatus(fl validator.FieldLevel) bool {
	switch entities.AssetStatus(fl.Field().String()) {
	case entities.AssetOperational, entities.AssetDown, entities.AssetStandBy,
		entities.AssetModernization, entities.AssetInspection, entities.AssetEmergencyShut:
		return true
	}
	return false
}
