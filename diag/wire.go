package diag

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode encodes in canonical mode for deterministic output, matching
// the teacher's chunk wire format (vm/dist/wire.go).
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("diag: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalPoolDump serializes a PoolDump to canonical CBOR bytes.
func MarshalPoolDump(d *PoolDump) ([]byte, error) {
	return cborEncMode.Marshal(d)
}

// UnmarshalPoolDump deserializes a PoolDump from CBOR bytes.
func UnmarshalPoolDump(data []byte) (*PoolDump, error) {
	var d PoolDump
	if err := cbor.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("diag: unmarshal pool dump: %w", err)
	}
	return &d, nil
}
