package models

import "time"

// ResourceKind tags a master-data record with the entity type it belongs
// to. All kinds share one storage shape; kind-specific fields live in the
// Attributes map.
type ResourceKind string

// Known resource kinds. The string values are part of the wire contract
// (the console sends them as the resource_type payload field).
const (
	KindVenue        ResourceKind = "venue"
	KindVehicle      ResourceKind = "vehicle"
	KindEquipment    ResourceKind = "equipment"
	KindDriver       ResourceKind = "driver"
	KindHoliday      ResourceKind = "holiday"
	KindCondition    ResourceKind = "condition"
	KindCategory     ResourceKind = "category"
	KindVehicleModel ResourceKind = "vehicle_model"
)

// kindSpecs describes per-kind validation: which Attributes keys are
// required on save/update. Name and Description are common columns and are
// always searchable.
var kindSpecs = map[ResourceKind][]string{
	KindVenue:        {"location", "capacity"},
	KindVehicle:      {"plate_number", "model", "capacity"},
	KindEquipment:    {"quantity"},
	KindDriver:       {"license_number", "contact_number"},
	KindHoliday:      {"date"},
	KindCondition:    {},
	KindCategory:     {},
	KindVehicleModel: {"maker"},
}

// Valid reports whether k is a known resource kind.
func (k ResourceKind) Valid() bool {
	_, ok := kindSpecs[k]
	return ok
}

// RequiredAttributes returns the Attributes keys that must be present for
// records of kind k. The returned slice must not be mutated.
func (k ResourceKind) RequiredAttributes() []string {
	return kindSpecs[k]
}

// Resource is a master-data record (venue, vehicle, equipment, driver,
// holiday, condition, category, vehicle model). Records are never hard
// deleted: archiving flips IsActive and restoring flips it back, leaving
// every other field untouched.
type Resource struct {
	// ID is the unique identifier of the record.
	ID int64 `json:"id"`

	// Kind selects the entity type of this record.
	Kind ResourceKind `json:"resource_type"`

	// Name is the primary display field and the main search target.
	Name string `json:"name"`

	// Description is free text, also matched by the list search.
	Description string `json:"description,omitempty"`

	// Attributes holds kind-specific fields (plate number, capacity,
	// license number, ...). Stored as JSONB.
	Attributes map[string]string `json:"attributes,omitempty"`

	// IsActive is the soft-delete flag.
	IsActive bool `json:"is_active"`

	// AdminID and SuperAdminID record the actor that created or last
	// modified this record. Exactly one is populated, depending on the
	// caller's role.
	AdminID      *int64 `json:"admin_id,omitempty"`
	SuperAdminID *int64 `json:"super_admin_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Resource model.
func (r Resource) TableName() string {
	return "resources"
}
