package cdp

import (
	json "github.com/segmentio/encoding/json"
)

// encode/decode centralise the CDP wire codec. CDP params and results
// are heterogeneous per-domain JSON shapes (spec §9's "dynamic JSON at
// the CDP boundary" note); segmentio/encoding/json is a drop-in faster
// encoder/decoder for this hot path without giving up struct-tag
// compatibility with encoding/json.
func encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func decode(data []byte, out any) error {
	return json.Unmarshal(data, out)
}
