package types

import "github.com/google/uuid"

// NICAddr is one derived address as reported by the CLI.
type NICAddr struct {
	// Input is what the address was derived from: a name, a UUID or a file path.
	Input string `json:"input"`
	// VMID is set when Input was parsed as a UUID.
	VMID *uuid.UUID `json:"vm_id,omitempty"`
	// Index is the NIC index; -1 when the address is not per-interface.
	Index int    `json:"index"`
	Mac   HwAddr `json:"mac"`
}
