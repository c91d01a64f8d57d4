package registry

import (
	"strconv"

	"github.com/kryonlabs/kryon-core/pkg/ir"
)

// DataHandle is the opaque view of one component's custom data a plugin
// receives: the data itself, the component type, the instance id, and a
// plugin-private user-data slot. The field-by-field accessors below are
// the compile-time contract between core and plugin, not a raw memory
// layout.
type DataHandle struct {
	ComponentType string
	InstanceID    int
	data          map[string]string
	UserData      interface{}
}

// NewDataHandle wraps a component's custom-data blob for plugin access.
func NewDataHandle(comp *ir.Component) *DataHandle {
	return &DataHandle{
		ComponentType: comp.Tag,
		InstanceID:    comp.ID,
		data:          comp.CustomData,
	}
}

// GetString reads a well-known string field.
func (d *DataHandle) GetString(key string) (string, bool) {
	v, ok := d.data[key]
	return v, ok
}

// GetInt reads a well-known int field.
func (d *DataHandle) GetInt(key string) (int64, bool) {
	v, ok := d.data[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	return n, err == nil
}

// GetFloat reads a well-known float field.
func (d *DataHandle) GetFloat(key string) (float64, bool) {
	v, ok := d.data[key]
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	return f, err == nil
}

// GetBool reads a well-known bool field.
func (d *DataHandle) GetBool(key string) (bool, bool) {
	v, ok := d.data[key]
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	return b, err == nil
}

// GetPtr returns the raw value for a key: the escape hatch for
// plugin-private payloads the core doesn't know the shape of.
func (d *DataHandle) GetPtr(key string) (interface{}, bool) {
	if d.UserData == nil {
		return nil, false
	}
	if m, ok := d.UserData.(map[string]interface{}); ok {
		v, ok := m[key]
		return v, ok
	}
	return d.UserData, true
}
