package model

// GenericRecord is a schema-agnostic row keyed by column name.
type GenericRecord map[string]interface{}

// Clone returns a shallow copy of the record.
func (r GenericRecord) Clone() GenericRecord {
	out := make(GenericRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
