package entities

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldSelect   FieldType = "select"
	FieldSwitch   FieldType = "switch"
	FieldFile     FieldType = "file"
	FieldTitleGap FieldType = "titleGroupField"
)

// FormField describes one input of a dynamic create/edit form.
type FormField struct {
	ID        uint64           `json:"id" db:"id"`
	CompanyID uint64           `json:"-" db:"company_id"`
	Entity    PermissionEntity `json:"entity" db:"entity"`
	Name      string           `json:"name" db:"name"`
	Label     string           `json:"label" db:"label"`
	Type      FieldType        `json:"type" db:"type"`
	Required  bool             `json:"required" db:"required"`
	Position  int              `json:"position" db:"position"`
}
