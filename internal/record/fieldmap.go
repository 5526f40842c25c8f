package record

import "encoding/json"

// FieldMap is the dynamically-keyed view of a record's attributes used by
// the filter evaluator (§4.D) and by field-level UPDATE (§4.F). It is
// produced from, and converted back to, the same serialized bytes as the
// typed record (§9 "two views over the same serialized bytes").
type FieldMap map[string]any

// ToFieldMap projects a typed record into its generic field-map view by
// round-tripping through JSON — the single shared serializer named in
// SPEC_FULL.md §4.E.
func ToFieldMap(v any) (FieldMap, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m FieldMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// FromFieldMap converts a field-map view back into a typed record of the
// shape pointed to by out.
func FromFieldMap(m FieldMap, out any) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// Get returns the value stored under name and whether it was present at
// all (as opposed to present-and-null).
func (m FieldMap) Get(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// IsNull reports whether name is present and explicitly null, or absent.
// Per §4.D, IsNull(field) is true "if the field is absent or its value is
// null".
func (m FieldMap) IsNull(name string) bool {
	v, ok := m[name]
	return !ok || v == nil
}
