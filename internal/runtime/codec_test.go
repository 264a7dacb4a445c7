package runtime

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/congo-pay/congo_chain/internal/types"
)

func TestDecodeBlock(t *testing.T) {
	data := []byte(`{
		"header": {"block_number": 2},
		"extrinsics": [
			{"caller": "alice", "call": {"balances": {"transfer": {"to": "bob", "amount": "30"}}}},
			{"caller": "bob", "call": {"proof_of_existence": {"create_claim": {"content": "x"}}}},
			{"caller": "bob", "call": {"proof_of_existence": {"revoke_claim": {"content": "x"}}}}
		]
	}`)

	block, err := DecodeBlock(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if block.Header.BlockNumber != 2 || len(block.Extrinsics) != 3 {
		t.Fatalf("unexpected block %+v", block)
	}

	bc, ok := block.Extrinsics[0].Call.(BalancesCall)
	if !ok {
		t.Fatalf("expected balances call, got %T", block.Extrinsics[0].Call)
	}
	tr, ok := bc.Call.(Transfer)
	if !ok || tr.To != "bob" || tr.Amount != types.NewBalance(30) {
		t.Fatalf("unexpected transfer %+v", bc.Call)
	}

	pc, ok := block.Extrinsics[1].Call.(ProofOfExistenceCall)
	if !ok || pc.Pallet() != "proof_of_existence" {
		t.Fatalf("expected registry call, got %T", block.Extrinsics[1].Call)
	}
	if cc, ok := pc.Call.(CreateClaim); !ok || cc.Content != types.ContentOf("x") {
		t.Fatalf("unexpected create claim %+v", pc.Call)
	}
	if _, ok := block.Extrinsics[2].Call.(ProofOfExistenceCall).Call.(RevokeClaim); !ok {
		t.Fatalf("expected revoke claim")
	}
}

func TestDecodeBlockRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "not json", body: `{`, want: "malformed block"},
		{name: "unknown field", body: `{"header":{"block_number":1},"bogus":1}`, want: "unknown field"},
		{name: "missing caller", body: `{"extrinsics":[{"call":{"balances":{"transfer":{"to":"bob","amount":"1"}}}}]}`, want: "missing caller"},
		{name: "no pallet", body: `{"extrinsics":[{"caller":"a","call":{}}]}`, want: "no pallet"},
		{name: "two pallets", body: `{"extrinsics":[{"caller":"a","call":{"balances":{},"proof_of_existence":{}}}]}`, want: "more than one pallet"},
		{name: "no method", body: `{"extrinsics":[{"caller":"a","call":{"balances":{}}}]}`, want: "no method"},
		{name: "two methods", body: `{"extrinsics":[{"caller":"a","call":{"proof_of_existence":{"create_claim":{"content":"x"},"revoke_claim":{"content":"x"}}}}]}`, want: "more than one method"},
		{name: "bad amount", body: `{"extrinsics":[{"caller":"a","call":{"balances":{"transfer":{"to":"b","amount":"-1"}}}}]}`, want: "invalid balance"},
		{name: "trailing garbage", body: `{"header":{"block_number":1},"extrinsics":[]}garbage`, want: "trailing data"},
		{name: "two documents", body: `{"header":{"block_number":1}} {"header":{"block_number":2}}`, want: "trailing data"},
		{name: "no recipient", body: `{"extrinsics":[{"caller":"a","call":{"balances":{"transfer":{"amount":"1"}}}}]}`, want: "no recipient"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBlock([]byte(tt.body))
			if !errors.Is(err, ErrMalformedBlock) {
				t.Fatalf("expected malformed block, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDecodeBlockAllowsTrailingWhitespace(t *testing.T) {
	block, err := DecodeBlock([]byte("{\"header\":{\"block_number\":4},\"extrinsics\":[]}\n\t "))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if block.Header.BlockNumber != 4 {
		t.Fatalf("expected block 4, got %d", block.Header.BlockNumber)
	}
}

func TestDecodeExtrinsics(t *testing.T) {
	exts, err := DecodeExtrinsics([]byte(`{"extrinsics":[{"caller":"alice","call":{"balances":{"transfer":{"to":"bob","amount":5}}}}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(exts) != 1 || exts[0].Caller != "alice" {
		t.Fatalf("unexpected extrinsics %+v", exts)
	}
}

func TestReceiptJSON(t *testing.T) {
	rt := New()
	receipt, err := rt.ExecuteBlock(Block{
		Header:     Header{BlockNumber: 1},
		Extrinsics: []Extrinsic{transfer(alice, bob, 1), createClaim(alice, "x")},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	data, err := json.Marshal(receipt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		BlockNumber int `json:"block_number"`
		Extrinsics  []struct {
			Index     int    `json:"index"`
			OK        bool   `json:"ok"`
			ErrorKind string `json:"error_kind"`
		} `json:"extrinsics"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.BlockNumber != 1 || len(decoded.Extrinsics) != 2 {
		t.Fatalf("unexpected receipt %s", data)
	}
	if decoded.Extrinsics[0].OK || decoded.Extrinsics[0].ErrorKind != "InsufficientBalance" {
		t.Fatalf("unexpected first result %s", data)
	}
	if !decoded.Extrinsics[1].OK {
		t.Fatalf("unexpected second result %s", data)
	}
}
