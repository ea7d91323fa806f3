package serializer

import (
	"bytes"
	"encoding/gob"
)

// wrapper carries the stored value through gob. Encoding through a struct
// field of interface type lets gob record the concrete type, so Deserialize
// can reconstruct the original value.
type wrapper struct {
	V interface{}
}

func init() {
	// concrete types that may travel inside the interface field
	gob.Register(map[string]interface{}{})
	gob.Register([]interface{}{})
	gob.Register([]byte{})
	gob.Register(0)
	gob.Register(int64(0))
	gob.Register(float64(0))
	gob.Register("")
	gob.Register(false)
}

// NewGOBSerializer creates a new serializer using Go's binary gob format.
// Unlike the JSON serializer it preserves Go's concrete types through the
// round trip, at the cost of an opaque stored form.
func NewGOBSerializer() ISerializer {
	return &gobSerializerImpl{}
}

// gobSerializerImpl implements the ISerializer interface using gob encoding
type gobSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (g gobSerializerImpl) Serialize(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(wrapper{V: v}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g gobSerializerImpl) Deserialize(b []byte) (interface{}, error) {
	var w wrapper
	dec := gob.NewDecoder(bytes.NewBuffer(b))
	if err := dec.Decode(&w); err != nil {
		return nil, err
	}
	return w.V, nil
}
