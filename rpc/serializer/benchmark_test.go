package serializer

import (
	"fmt"
	"testing"

	"github.com/skvdb/skv/lib/backend"
	"github.com/skvdb/skv/rpc/common"
)

// benchmarkMessages returns representative messages of increasing complexity
func benchmarkMessages() map[string]common.Message {
	wideRow := backend.Row{}
	for i := 0; i < 16; i++ {
		wideRow.AddColumn(fmt.Sprintf("col_%d", i), []byte(fmt.Sprintf("value-%d", i)))
	}

	rows := make([]backend.Row, 64)
	for i := range rows {
		rows[i] = wideRow
	}

	keys := make([]string, 256)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", i)
	}

	return map[string]common.Message{
		"SetRequest": {
			MsgType: common.MsgTSet,
			Key:     "benchmark-key",
			Value:   []byte("benchmark-value"),
		},
		"ScanResponse": {
			MsgType: common.MsgTScan,
			Keys:    keys,
		},
		"QueryResponse": {
			MsgType: common.MsgTQuery,
			Rows:    rows,
		},
	}
}

func BenchmarkSerialize(b *testing.B) {
	for name, factory := range testSerializers {
		for msgName, msg := range benchmarkMessages() {
			b.Run(fmt.Sprintf("%s/%s", name, msgName), func(b *testing.B) {
				serializer := factory()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if _, err := serializer.Serialize(msg); err != nil {
						b.Fatalf("Serialize failed: %v", err)
					}
				}
			})
		}
	}
}

func BenchmarkDeserialize(b *testing.B) {
	for name, factory := range testSerializers {
		for msgName, msg := range benchmarkMessages() {
			b.Run(fmt.Sprintf("%s/%s", name, msgName), func(b *testing.B) {
				serializer := factory()
				data, err := serializer.Serialize(msg)
				if err != nil {
					b.Fatalf("Serialize failed: %v", err)
				}

				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					var result common.Message
					if err := serializer.Deserialize(data, &result); err != nil {
						b.Fatalf("Deserialize failed: %v", err)
					}
				}
			})
		}
	}
}
