package common

import (
	"encoding/json"
	"fmt"

	"github.com/skvdb/skv/lib/backend"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// General fields
	Key   string `json:"key,omitempty"`   // Used for: Set, Get, Has, Delete requests; Scan requests (prefix)
	Value []byte `json:"value,omitempty"` // Used for: Set (request), Get (response)
	Query string `json:"query,omitempty"` // Used for: Query requests

	// Response only fields
	Keys     []string      `json:"keys,omitempty"`     // Used for: Scan responses
	Rows     []backend.Row `json:"rows,omitempty"`     // Used for: Query responses (read statements)
	Affected uint64        `json:"affected,omitempty"` // Used for: Query responses (write statements)
	Ok       bool          `json:"ok,omitempty"`       // Used for: Get, Has responses
	Err      string        `json:"err,omitempty"`      // Empty if no error, otherwise contains the error message
	ErrCode  uint64        `json:"err_code,omitempty"` // backend.RetCode of the error, so typed errors survive the wire

	// Meta information
	Meta []byte `json:"meta,omitempty"` // Used for: Info responses (JSON encoded), custom adapters
}

// setError stores an error on a response message, preserving its return code.
func (m *Message) setError(err error) {
	if err != nil {
		m.Err = err.Error()
		m.ErrCode = uint64(backend.CodeOf(err))
	}
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewSetRequest creates a new Set request
func NewSetRequest(key string, value []byte) *Message {
	return &Message{
		MsgType: MsgTSet,
		Key:     key,
		Value:   value,
	}
}

// NewSetResponse creates a new Set response
func NewSetResponse(err error) *Message {
	msg := &Message{
		MsgType: MsgTSet,
	}
	msg.setError(err)
	return msg
}

// NewGetRequest creates a new Get request
func NewGetRequest(key string) *Message {
	return &Message{
		MsgType: MsgTGet,
		Key:     key,
	}
}

// NewGetResponse creates a new Get response
func NewGetResponse(value []byte, ok bool, err error) *Message {
	msg := &Message{
		MsgType: MsgTGet,
		Ok:      ok,
		Value:   value,
	}
	msg.setError(err)
	return msg
}

// NewDeleteRequest creates a new Delete request
func NewDeleteRequest(key string) *Message {
	return &Message{
		MsgType: MsgTDelete,
		Key:     key,
	}
}

// NewDeleteResponse creates a new Delete response
func NewDeleteResponse(err error) *Message {
	msg := &Message{
		MsgType: MsgTDelete,
	}
	msg.setError(err)
	return msg
}

// NewHasRequest creates a new Has request
func NewHasRequest(key string) *Message {
	return &Message{
		MsgType: MsgTHas,
		Key:     key,
	}
}

// NewHasResponse creates a new Has response
func NewHasResponse(ok bool, err error) *Message {
	msg := &Message{
		MsgType: MsgTHas,
		Ok:      ok,
	}
	msg.setError(err)
	return msg
}

// NewScanRequest creates a new Scan request. The key field carries the prefix.
func NewScanRequest(prefix string) *Message {
	return &Message{
		MsgType: MsgTScan,
		Key:     prefix,
	}
}

// NewScanResponse creates a new Scan response
func NewScanResponse(keys []string, err error) *Message {
	msg := &Message{
		MsgType: MsgTScan,
		Keys:    keys,
	}
	msg.setError(err)
	return msg
}

// NewQueryRequest creates a new Query request
func NewQueryRequest(query string) *Message {
	return &Message{
		MsgType: MsgTQuery,
		Query:   query,
	}
}

// NewQueryResponse creates a new Query response
func NewQueryResponse(result backend.QueryResult, err error) *Message {
	msg := &Message{
		MsgType:  MsgTQuery,
		Rows:     result.Rows,
		Affected: result.Affected,
	}
	msg.setError(err)
	return msg
}

// NewInfoRequest creates a new Info request
func NewInfoRequest() *Message {
	return &Message{
		MsgType: MsgTInfo,
	}
}

// NewInfoResponse creates a new Info response. The meta payload carries the
// JSON encoded BackendInfo of the shard.
func NewInfoResponse(meta []byte, err error) *Message {
	msg := &Message{
		MsgType: MsgTInfo,
		Meta:    meta,
	}
	msg.setError(err)
	return msg
}

// NewCustomRequest creates a new Custom request
func NewCustomRequest(meta []byte) *Message {
	return &Message{
		MsgType: MsgTCustom,
		Meta:    meta,
	}
}

// NewCustomResponse creates a new Custom response
func NewCustomResponse(meta []byte, err error) *Message {
	msg := &Message{
		MsgType: MsgTCustom,
		Meta:    meta,
	}
	msg.setError(err)
	return msg
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Err:     err,
	}
}

// --------------------------------------------------------------------------
// Backend Info
// --------------------------------------------------------------------------

// BackendInfo is the payload of an Info response: the static profile of the
// shard's backend as reported by the server.
type BackendInfo struct {
	Family       backend.Family       `json:"family"`
	Capabilities backend.Capabilities `json:"capabilities"`
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTSet:
		return "set"
	case MsgTGet:
		return "get"
	case MsgTDelete:
		return "delete"
	case MsgTHas:
		return "has"
	case MsgTScan:
		return "scan"
	case MsgTQuery:
		return "query"
	case MsgTInfo:
		return "info"
	case MsgTCustom:
		return "custom"
	case MsgTError:
		return "error"
	case MsgTSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "set":
		*t = MsgTSet
	case "get":
		*t = MsgTGet
	case "delete":
		*t = MsgTDelete
	case "has":
		*t = MsgTHas
	case "scan":
		*t = MsgTScan
	case "query":
		*t = MsgTQuery
	case "info":
		*t = MsgTInfo
	case "custom":
		*t = MsgTCustom
	case "error":
		*t = MsgTError
	case "success":
		*t = MsgTSuccess
	default:
		return fmt.Errorf("unknown message type: %s", s)
	}

	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTSuccess             // Indicates a successful operation
	MsgTError               // Indicates an error occurred

	// Backend operations

	MsgTSet    // Set a key-value pair
	MsgTGet    // Get a value by key
	MsgTDelete // Delete a key-value pair
	MsgTHas    // Check if a key exists
	MsgTScan   // List all keys with a prefix
	MsgTQuery  // Execute an ad-hoc SQL statement
	MsgTInfo   // Fetch the backend profile of a shard

	// Custom operations

	MsgTCustom // Custom operation type
)
