package category

import (
	"encoding/json"

	"github.com/spf13/cast"
)

// Response is the backend's answer for one category of one guild.
type Response struct {
	// Exists is false when the category was never initialised for the guild.
	Exists bool
	Data   *Object
}

type wireResponse struct {
	Exists any             `json:"exists"`
	Data   json.RawMessage `json:"data"`
}

// UnmarshalJSON decodes {exists, data}, keeping the key order of data.
func (r *Response) UnmarshalJSON(b []byte) error {
	var w wireResponse
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	r.Exists = cast.ToBool(w.Exists)
	r.Data = DecodeObject(w.Data)
	return nil
}

// MarshalJSON encodes the response in the backend's wire shape.
func (r Response) MarshalJSON() ([]byte, error) {
	data := r.Data
	if data == nil {
		data = NewObject()
	}
	return json.Marshal(struct {
		Exists bool    `json:"exists"`
		Data   *Object `json:"data"`
	}{r.Exists, data})
}

// Empty reports whether there is nothing to aggregate.
func (r *Response) Empty() bool {
	return r == nil || !r.Exists || r.Data == nil || r.Data.Len() == 0
}

// Root returns the whole data object as a Record.
func (r *Response) Root() Record {
	if r == nil {
		return NewRecord(nil)
	}
	return NewRecord(r.Data)
}

// Len returns the number of top-level entries in data.
func (r *Response) Len() int {
	if r == nil || r.Data == nil {
		return 0
	}
	return r.Data.Len()
}

// Each iterates the top-level entities in document order.
func (r *Response) Each(fn func(id string, rec Record)) {
	r.Root().Each(fn)
}
