package runtime

import (
	"encoding/json"

	"github.com/congo-pay/congo_chain/internal/support"
	"github.com/congo-pay/congo_chain/internal/types"
)

// Snapshot is a point-in-time copy of all runtime storage.
type Snapshot struct {
	BlockNumber types.BlockNumber                 `json:"block_number"`
	Nonces      map[types.AccountID]types.Nonce   `json:"nonces"`
	Balances    map[types.AccountID]types.Balance `json:"balances"`
	Claims      map[types.Content]types.AccountID `json:"claims"`
}

// Snapshot copies the state of every pallet.
func (r *Runtime) Snapshot() Snapshot {
	return Snapshot{
		BlockNumber: r.system.BlockNumber(),
		Nonces:      r.system.Nonces(),
		Balances:    r.balances.Balances(),
		Claims:      r.poe.Claims(),
	}
}

type extrinsicResultJSON struct {
	Index     int             `json:"index"`
	Caller    types.AccountID `json:"caller"`
	OK        bool            `json:"ok"`
	ErrorKind string          `json:"error_kind,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// MarshalJSON renders errors as their kind and message.
func (r Receipt) MarshalJSON() ([]byte, error) {
	out := struct {
		BlockNumber types.BlockNumber     `json:"block_number"`
		Extrinsics  []extrinsicResultJSON `json:"extrinsics"`
	}{
		BlockNumber: r.BlockNumber,
		Extrinsics:  make([]extrinsicResultJSON, 0, len(r.Extrinsics)),
	}
	for _, res := range r.Extrinsics {
		item := extrinsicResultJSON{Index: res.Index, Caller: res.Caller, OK: res.Err == nil}
		if res.Err != nil {
			item.ErrorKind = support.KindOf(res.Err).String()
			item.Error = res.Err.Error()
		}
		out.Extrinsics = append(out.Extrinsics, item)
	}
	return json.Marshal(out)
}
