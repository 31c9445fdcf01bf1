package serializer

import (
	"reflect"
	"testing"

	"github.com/skvdb/skv/lib/backend"
	"github.com/skvdb/skv/rpc/common"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() IRPCSerializer{
	"JSON":   NewJSONSerializer,
	"GOB":    NewGOBSerializer,
	"Binary": NewBinarySerializer,
}

// testMessages creates a set of test messages with different fields filled
func testMessages() []common.Message {
	return []common.Message{
		// Basic message with just a type
		{MsgType: common.MsgTSuccess},

		// Set request
		{
			MsgType: common.MsgTSet,
			Key:     "test-key",
			Value:   []byte("test-value"),
		},

		// Get response
		{
			MsgType: common.MsgTGet,
			Value:   []byte("test-value"),
			Ok:      true,
		},

		// Scan response
		{
			MsgType: common.MsgTScan,
			Keys:    []string{"user:1", "user:2", "user:3"},
		},

		// Query request
		{
			MsgType: common.MsgTQuery,
			Query:   "SELECT key, value FROM kv_store",
		},

		// Query response with rows, including a NULL column
		{
			MsgType: common.MsgTQuery,
			Rows: []backend.Row{
				{Columns: []backend.Column{
					{Name: "key", Value: []byte("a")},
					{Name: "value", Value: []byte("1")},
				}},
				{Columns: []backend.Column{
					{Name: "key", Value: []byte("b")},
					{Name: "value", Value: nil},
				}},
			},
		},

		// Query response with an affected count
		{
			MsgType:  common.MsgTQuery,
			Affected: 42,
		},

		// Error response carrying a return code
		{
			MsgType: common.MsgTDelete,
			Err:     `BackendError (code NotFound): key "a" not found`,
			ErrCode: uint64(backend.RetCNotFound),
		},

		// Info response
		{
			MsgType: common.MsgTInfo,
			Meta:    []byte(`{"family":"sql"}`),
		},
	}
}

// TestSerializerRoundTrip tests that messages can be serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	messages := testMessages()

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for i, msg := range messages {
				// Serialize
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message %d: %v", i, err)
					continue
				}

				// Deserialize
				var result common.Message
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize message %d: %v", i, err)
					continue
				}

				// Compare
				if !reflect.DeepEqual(msg, result) {
					t.Errorf("Message %d doesn't match after round trip:\nOriginal: %+v\nResult: %+v",
						i, msg, result)
				}
			}
		})
	}
}

// TestMessageTypes tests each message type with each serializer
func TestMessageTypes(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			// Test each message type (don't test for MsgTUnknown since this should raise an error)
			for msgType := common.MsgTSuccess; msgType <= common.MsgTCustom; msgType++ {
				msg := common.Message{MsgType: msgType}

				// Serialize
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message type %s: %v", msgType.String(), err)
					continue
				}

				// Deserialize
				var result common.Message
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize message type %s: %v", msgType.String(), err)
					continue
				}

				// Check type
				if result.MsgType != msgType {
					t.Errorf("Message type doesn't match after round trip: Expected %s, got %s",
						msgType.String(), result.MsgType.String())
				}
			}
		})
	}
}

// TestBinarySerializerSpecific tests specific edge cases for the binary serializer
func TestBinarySerializerSpecific(t *testing.T) {
	serializer := NewBinarySerializer()

	t.Run("Empty message", func(t *testing.T) {
		data, err := serializer.Serialize(common.Message{})
		if err != nil {
			t.Fatalf("Failed to serialize: %v", err)
		}
		if len(data) != 3 {
			t.Errorf("Expected 3 header bytes for an empty message, got %d", len(data))
		}

		var result common.Message
		if err := serializer.Deserialize(data, &result); err != nil {
			t.Fatalf("Failed to deserialize: %v", err)
		}
		if !reflect.DeepEqual(common.Message{}, result) {
			t.Errorf("Empty message doesn't match after round trip: %+v", result)
		}
	})

	t.Run("NULL vs empty column value", func(t *testing.T) {
		msg := common.Message{
			MsgType: common.MsgTQuery,
			Rows: []backend.Row{
				{Columns: []backend.Column{
					{Name: "null", Value: nil},
					{Name: "empty", Value: []byte{}},
				}},
			},
		}

		data, err := serializer.Serialize(msg)
		if err != nil {
			t.Fatalf("Failed to serialize: %v", err)
		}
		var result common.Message
		if err := serializer.Deserialize(data, &result); err != nil {
			t.Fatalf("Failed to deserialize: %v", err)
		}

		if result.Rows[0].Columns[0].Value != nil {
			t.Errorf("Expected NULL column to stay nil, got %v", result.Rows[0].Columns[0].Value)
		}
		if result.Rows[0].Columns[1].Value == nil {
			t.Errorf("Expected empty column to stay non-nil")
		}
	})

	t.Run("Truncated data", func(t *testing.T) {
		msg := common.Message{
			MsgType: common.MsgTSet,
			Key:     "truncation-test",
			Value:   []byte("truncation-value"),
		}
		data, err := serializer.Serialize(msg)
		if err != nil {
			t.Fatalf("Failed to serialize: %v", err)
		}

		// Every truncation must produce an error, never a panic
		for cut := 0; cut < len(data); cut++ {
			var result common.Message
			if err := serializer.Deserialize(data[:cut], &result); err == nil && cut < 3 {
				t.Errorf("Expected error for truncation at %d bytes", cut)
			}
		}
	})

	t.Run("Oversized counts", func(t *testing.T) {
		// A tiny frame claiming billions of elements must be rejected
		// before anything is allocated for them. Frames are handcrafted:
		// type byte, flag word, then a count far beyond the payload.
		frames := map[string][]byte{
			"keys": {
				byte(common.MsgTScan),
				0x00, 0x08, // hasKeys
				0xFF, 0xFF, 0xFF, 0xFF,
			},
			"rows": {
				byte(common.MsgTQuery),
				0x00, 0x10, // hasRows
				0xFF, 0xFF, 0xFF, 0xFF,
			},
			"columns": {
				byte(common.MsgTQuery),
				0x00, 0x10, // hasRows
				0x00, 0x00, 0x00, 0x01, // one row
				0xFF, 0xFF, 0xFF, 0xFF,
			},
		}

		for name, frame := range frames {
			var result common.Message
			if err := serializer.Deserialize(frame, &result); err == nil {
				t.Errorf("Expected error for oversized %s count", name)
			}
		}
	})
}
