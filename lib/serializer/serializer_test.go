package serializer

import (
	"reflect"
	"testing"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() ISerializer{
	"JSON": NewJSONSerializer,
	"GOB":  NewGOBSerializer,
}

// TestSerializerRoundTrip tests that values common to both encodings can be
// serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	values := []interface{}{
		"plain string",
		"",
		true,
		float64(42.5),
		[]interface{}{"a", "b", "c"},
		map[string]interface{}{
			"name":   "A",
			"active": true,
			"tags":   []interface{}{"x", "y"},
		},
		nil,
	}

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			s := factory()

			for i, value := range values {
				data, err := s.Serialize(value)
				if err != nil {
					t.Errorf("Failed to serialize value %d: %v", i, err)
					continue
				}

				result, err := s.Deserialize(data)
				if err != nil {
					t.Errorf("Failed to deserialize value %d: %v", i, err)
					continue
				}

				if !reflect.DeepEqual(value, result) {
					t.Errorf("Value %d doesn't match after round trip:\nOriginal: %+v\nResult: %+v",
						i, value, result)
				}
			}
		})
	}
}

// TestJSONNumberDecoding documents JSON's number behavior: integers come back
// as float64, the way a structured-to-text round trip flattens them.
func TestJSONNumberDecoding(t *testing.T) {
	s := NewJSONSerializer()

	data, err := s.Serialize(map[string]interface{}{"id": 1})
	if err != nil {
		t.Fatalf("Failed to serialize: %v", err)
	}

	result, err := s.Deserialize(data)
	if err != nil {
		t.Fatalf("Failed to deserialize: %v", err)
	}

	m, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected map, got %T", result)
	}
	if id, ok := m["id"].(float64); !ok || id != 1 {
		t.Errorf("Expected id to decode as float64(1), got %T(%v)", m["id"], m["id"])
	}
}

// TestSerializeUnsupported verifies that values the encoding cannot represent
// fail at Serialize time instead of producing garbage.
func TestSerializeUnsupported(t *testing.T) {
	s := NewJSONSerializer()

	if _, err := s.Serialize(make(chan int)); err == nil {
		t.Errorf("Expected error for unsupported value, got none")
	}
}

// TestGOBPreservesTypes verifies gob keeps concrete Go types through the
// round trip where JSON would flatten them.
func TestGOBPreservesTypes(t *testing.T) {
	s := NewGOBSerializer()

	data, err := s.Serialize(42)
	if err != nil {
		t.Fatalf("Failed to serialize: %v", err)
	}

	result, err := s.Deserialize(data)
	if err != nil {
		t.Fatalf("Failed to deserialize: %v", err)
	}

	if n, ok := result.(int); !ok || n != 42 {
		t.Errorf("Expected int(42), got %T(%v)", result, result)
	}
}

// TestDeserializeInvalidData tests how the serializers handle corrupt data
func TestDeserializeInvalidData(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			s := factory()
			if _, err := s.Deserialize([]byte{0xFF, 0x00, 0x13}); err == nil {
				t.Errorf("Expected error for corrupt data, got none")
			}
		})
	}
}
