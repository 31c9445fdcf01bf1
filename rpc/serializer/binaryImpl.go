package serializer

import (
	"encoding/binary"
	"fmt"

	"github.com/skvdb/skv/lib/backend"
	"github.com/skvdb/skv/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasKey      uint16 = 1 << 0
	hasValue    uint16 = 1 << 1
	hasQuery    uint16 = 1 << 2
	hasKeys     uint16 = 1 << 3
	hasRows     uint16 = 1 << 4
	hasAffected uint16 = 1 << 5
	hasOk       uint16 = 1 << 6
	hasErr      uint16 = 1 << 7
	hasErrCode  uint16 = 1 << 8
	hasMeta     uint16 = 1 << 9
)

// Column values distinguish SQL NULL (nil) from empty (non-nil, length 0),
// so every column carries a presence byte ahead of its length.
const (
	columnNull    byte = 0
	columnPresent byte = 1
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	// Calculate total size needed
	totalSize := b.sizeBytes(msg)
	result := make([]byte, totalSize)

	// Write message type
	result[0] = byte(msg.MsgType)

	// Initialize flags
	var flags uint16 = 0

	// Set position for writing (after MsgType and flags)
	pos := 3

	writeBytes := func(data []byte) {
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(data)))
		pos += 4
		copy(result[pos:pos+len(data)], data)
		pos += len(data)
	}

	// Handle Key
	if msg.Key != "" {
		flags |= hasKey
		writeBytes([]byte(msg.Key))
	}

	// Handle Value
	if msg.Value != nil {
		flags |= hasValue
		writeBytes(msg.Value)
	}

	// Handle Query
	if msg.Query != "" {
		flags |= hasQuery
		writeBytes([]byte(msg.Query))
	}

	// Handle Keys
	if msg.Keys != nil {
		flags |= hasKeys
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(msg.Keys)))
		pos += 4
		for _, key := range msg.Keys {
			writeBytes([]byte(key))
		}
	}

	// Handle Rows
	if msg.Rows != nil {
		flags |= hasRows
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(msg.Rows)))
		pos += 4
		for _, row := range msg.Rows {
			binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(row.Columns)))
			pos += 4
			for _, column := range row.Columns {
				writeBytes([]byte(column.Name))
				if column.Value == nil {
					result[pos] = columnNull
					pos += 1
				} else {
					result[pos] = columnPresent
					pos += 1
					writeBytes(column.Value)
				}
			}
		}
	}

	// Handle Affected
	if msg.Affected > 0 {
		flags |= hasAffected
		binary.BigEndian.PutUint64(result[pos:pos+8], msg.Affected)
		pos += 8
	}

	// Handle Ok
	if msg.Ok {
		flags |= hasOk
		result[pos] = 1
		pos += 1
	}

	// Handle Err
	if msg.Err != "" {
		flags |= hasErr
		writeBytes([]byte(msg.Err))
	}

	// Handle ErrCode
	if msg.ErrCode > 0 {
		flags |= hasErrCode
		binary.BigEndian.PutUint64(result[pos:pos+8], msg.ErrCode)
		pos += 8
	}

	// Handle Meta
	if msg.Meta != nil {
		flags |= hasMeta
		writeBytes(msg.Meta)
	}

	// Set flags after knowing which fields are present
	binary.BigEndian.PutUint16(result[1:3], flags)

	return result, nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	// Check minimum size (MsgType + flags)
	if len(data) < 3 {
		return fmt.Errorf("data too short for message header")
	}

	// Read message type
	msg.MsgType = common.MessageType(data[0])

	// Read flags
	flags := binary.BigEndian.Uint16(data[1:3])

	// Initialize read position
	pos := 3

	readBytes := func(what string) ([]byte, error) {
		if pos+4 > len(data) {
			return nil, fmt.Errorf("data too short for %s length", what)
		}
		length := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4
		if pos+length > len(data) {
			return nil, fmt.Errorf("data too short for %s data", what)
		}
		out := make([]byte, length)
		copy(out, data[pos:pos+length])
		pos += length
		return out, nil
	}

	// minElemSize is the smallest possible encoding of one element; a count
	// claiming more elements than the remaining payload could hold is
	// rejected before any allocation sized by it.
	readCount := func(what string, minElemSize int) (int, error) {
		if pos+4 > len(data) {
			return 0, fmt.Errorf("data too short for %s count", what)
		}
		count := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4
		if count > (len(data)-pos)/minElemSize {
			return 0, fmt.Errorf("%s count %d exceeds remaining payload", what, count)
		}
		return count, nil
	}

	// Read Key if present
	if flags&hasKey != 0 {
		key, err := readBytes("key")
		if err != nil {
			return err
		}
		msg.Key = string(key)
	} else {
		msg.Key = ""
	}

	// Read Value if present
	if flags&hasValue != 0 {
		value, err := readBytes("value")
		if err != nil {
			return err
		}
		msg.Value = value
	} else {
		msg.Value = nil
	}

	// Read Query if present
	if flags&hasQuery != 0 {
		query, err := readBytes("query")
		if err != nil {
			return err
		}
		msg.Query = string(query)
	} else {
		msg.Query = ""
	}

	// Read Keys if present
	if flags&hasKeys != 0 {
		// every key carries at least its 4-byte length prefix
		count, err := readCount("keys", 4)
		if err != nil {
			return err
		}
		msg.Keys = make([]string, count)
		for i := 0; i < count; i++ {
			key, err := readBytes("keys entry")
			if err != nil {
				return err
			}
			msg.Keys[i] = string(key)
		}
	} else {
		msg.Keys = nil
	}

	// Read Rows if present
	if flags&hasRows != 0 {
		// every row carries at least its 4-byte column count
		rowCount, err := readCount("rows", 4)
		if err != nil {
			return err
		}
		msg.Rows = make([]backend.Row, rowCount)
		for i := 0; i < rowCount; i++ {
			// every column carries at least a name length prefix and a
			// presence byte
			columnCount, err := readCount("columns", 5)
			if err != nil {
				return err
			}
			msg.Rows[i].Columns = make([]backend.Column, columnCount)
			for j := 0; j < columnCount; j++ {
				name, err := readBytes("column name")
				if err != nil {
					return err
				}
				msg.Rows[i].Columns[j].Name = string(name)

				if pos+1 > len(data) {
					return fmt.Errorf("data too short for column presence")
				}
				presence := data[pos]
				pos += 1

				if presence == columnNull {
					msg.Rows[i].Columns[j].Value = nil
					continue
				}
				value, err := readBytes("column value")
				if err != nil {
					return err
				}
				msg.Rows[i].Columns[j].Value = value
			}
		}
	} else {
		msg.Rows = nil
	}

	// Read Affected if present
	if flags&hasAffected != 0 {
		if pos+8 > len(data) {
			return fmt.Errorf("data too short for affected count")
		}
		msg.Affected = binary.BigEndian.Uint64(data[pos : pos+8])
		pos += 8
	} else {
		msg.Affected = 0
	}

	// Read Ok if present
	if flags&hasOk != 0 {
		if pos+1 > len(data) {
			return fmt.Errorf("data too short for Ok flag")
		}
		msg.Ok = data[pos] != 0
		pos += 1
	} else {
		msg.Ok = false
	}

	// Read Err if present
	if flags&hasErr != 0 {
		errMsg, err := readBytes("error")
		if err != nil {
			return err
		}
		msg.Err = string(errMsg)
	} else {
		msg.Err = ""
	}

	// Read ErrCode if present
	if flags&hasErrCode != 0 {
		if pos+8 > len(data) {
			return fmt.Errorf("data too short for error code")
		}
		msg.ErrCode = binary.BigEndian.Uint64(data[pos : pos+8])
		pos += 8
	} else {
		msg.ErrCode = 0
	}

	// Read Meta if present
	if flags&hasMeta != 0 {
		meta, err := readBytes("meta")
		if err != nil {
			return err
		}
		msg.Meta = meta
	} else {
		msg.Meta = nil
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the total size needed for serialization
func (b binarySerializerImpl) sizeBytes(msg common.Message) int {
	// 1 byte for MsgType + 2 bytes for flags
	size := 3

	// Add sizes for fields that require length encoding
	if msg.Key != "" {
		size += 4 + len(msg.Key)
	}
	if msg.Value != nil {
		size += 4 + len(msg.Value)
	}
	if msg.Query != "" {
		size += 4 + len(msg.Query)
	}
	if msg.Keys != nil {
		size += 4 // keys count
		for _, key := range msg.Keys {
			size += 4 + len(key)
		}
	}
	if msg.Rows != nil {
		size += 4 // row count
		for _, row := range msg.Rows {
			size += 4 // column count
			for _, column := range row.Columns {
				size += 4 + len(column.Name)
				size += 1 // presence byte
				if column.Value != nil {
					size += 4 + len(column.Value)
				}
			}
		}
	}
	if msg.Affected > 0 {
		size += 8
	}
	if msg.Ok {
		size += 1
	}
	if msg.Err != "" {
		size += 4 + len(msg.Err)
	}
	if msg.ErrCode > 0 {
		size += 8
	}
	if msg.Meta != nil {
		size += 4 + len(msg.Meta)
	}

	return size
}
