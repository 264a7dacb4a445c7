package runtime

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/congo-pay/congo_chain/internal/types"
)

// ErrMalformedBlock is returned when a block or extrinsic cannot be decoded.
var ErrMalformedBlock = errors.New("malformed block")

type blockJSON struct {
	Header struct {
		BlockNumber types.BlockNumber `json:"block_number"`
	} `json:"header"`
	Extrinsics []extrinsicJSON `json:"extrinsics"`
}

type extrinsicJSON struct {
	Caller types.AccountID `json:"caller"`
	Call   callJSON        `json:"call"`
}

type callJSON struct {
	Balances         *balancesCallJSON `json:"balances,omitempty"`
	ProofOfExistence *poeCallJSON      `json:"proof_of_existence,omitempty"`
}

type balancesCallJSON struct {
	Transfer *struct {
		To     types.AccountID `json:"to"`
		Amount types.Balance   `json:"amount"`
	} `json:"transfer,omitempty"`
}

type poeCallJSON struct {
	CreateClaim *claimJSON `json:"create_claim,omitempty"`
	RevokeClaim *claimJSON `json:"revoke_claim,omitempty"`
}

type claimJSON struct {
	Content string `json:"content"`
}

// DecodeBlock parses a block from its JSON wire form:
//
//	{"header":{"block_number":1},"extrinsics":[
//	  {"caller":"alice","call":{"balances":{"transfer":{"to":"bob","amount":"30"}}}},
//	  {"caller":"alice","call":{"proof_of_existence":{"create_claim":{"content":"x"}}}}]}
//
// Claimed content is hashed with types.HashContent.
func DecodeBlock(data []byte) (Block, error) {
	var raw blockJSON
	if err := decodeStrict(data, &raw); err != nil {
		return Block{}, err
	}
	extrinsics, err := convertExtrinsics(raw.Extrinsics)
	if err != nil {
		return Block{}, err
	}
	return Block{Header: Header{BlockNumber: raw.Header.BlockNumber}, Extrinsics: extrinsics}, nil
}

// DecodeExtrinsics parses {"extrinsics":[...]} without a header.
func DecodeExtrinsics(data []byte) ([]Extrinsic, error) {
	var raw struct {
		Extrinsics []extrinsicJSON `json:"extrinsics"`
	}
	if err := decodeStrict(data, &raw); err != nil {
		return nil, err
	}
	return convertExtrinsics(raw.Extrinsics)
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBlock, err)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return fmt.Errorf("%w: trailing data after document", ErrMalformedBlock)
	}
	return nil
}

func convertExtrinsics(raw []extrinsicJSON) ([]Extrinsic, error) {
	out := make([]Extrinsic, 0, len(raw))
	for i, ext := range raw {
		if ext.Caller == "" {
			return nil, fmt.Errorf("%w: extrinsic %d: missing caller", ErrMalformedBlock, i)
		}
		call, err := ext.Call.runtimeCall()
		if err != nil {
			return nil, fmt.Errorf("%w: extrinsic %d: %v", ErrMalformedBlock, i, err)
		}
		out = append(out, Extrinsic{Caller: ext.Caller, Call: call})
	}
	return out, nil
}

func (c callJSON) runtimeCall() (RuntimeCall, error) {
	switch {
	case c.Balances != nil && c.ProofOfExistence != nil:
		return nil, errors.New("call names more than one pallet")
	case c.Balances != nil:
		if c.Balances.Transfer == nil {
			return nil, errors.New("balances call has no method")
		}
		t := c.Balances.Transfer
		if t.To == "" {
			return nil, errors.New("transfer has no recipient")
		}
		return BalancesCall{Call: Transfer{To: t.To, Amount: t.Amount}}, nil
	case c.ProofOfExistence != nil:
		p := c.ProofOfExistence
		switch {
		case p.CreateClaim != nil && p.RevokeClaim != nil:
			return nil, errors.New("proof_of_existence call names more than one method")
		case p.CreateClaim != nil:
			return ProofOfExistenceCall{Call: CreateClaim{Content: types.ContentOf(p.CreateClaim.Content)}}, nil
		case p.RevokeClaim != nil:
			return ProofOfExistenceCall{Call: RevokeClaim{Content: types.ContentOf(p.RevokeClaim.Content)}}, nil
		default:
			return nil, errors.New("proof_of_existence call has no method")
		}
	default:
		return nil, errors.New("call names no pallet")
	}
}
