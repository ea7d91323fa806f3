package serializer

// ISerializer is the interface for all value serializers used by the storage
// facades. A serializer turns an arbitrary value into its stored textual or
// binary form and back.
//
// Values that cannot round-trip through the encoding (e.g. cyclic structures)
// fail with an error from Serialize; they are a documented limitation and are
// not handled specially.
type ISerializer interface {
	// Serialize serializes a value into a byte array
	// It returns the serialized byte array and an error if any
	Serialize(v interface{}) ([]byte, error)
	// Deserialize deserializes a byte array back into a value
	// It returns the decoded value and an error if any
	Deserialize(b []byte) (interface{}, error)
}
