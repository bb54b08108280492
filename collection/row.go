package collection

import "encoding/json"

type Row struct {
	I       int    // slot index
	Key     string // value of the key field
	Payload json.RawMessage
}

type Options struct {
	KeyField string `json:"key_field"`
	Capacity int    `json:"capacity"`
}

const DefaultKeyField = "id"

func (o *Options) withDefaults() *Options {
	result := Options{}
	if o != nil {
		result = *o
	}
	if result.KeyField == "" {
		result.KeyField = DefaultKeyField
	}
	if result.Capacity < 0 {
		result.Capacity = 0
	}
	return &result
}
