// Package genesis loads the initial chain state from a TOML file.
//
//	[balances]
//	alice = "100"
//	bob = "0x2a"
package genesis

import (
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/congo-pay/congo_chain/internal/types"
)

// Genesis is the state a fresh runtime starts from.
type Genesis struct {
	Balances map[string]types.Balance `toml:"balances"`
}

// BalanceSetter is the part of the runtime genesis writes to.
type BalanceSetter interface {
	SetBalance(who types.AccountID, amount types.Balance)
}

// Load reads a genesis file. An empty path yields an empty genesis.
func Load(path string) (Genesis, error) {
	if strings.TrimSpace(path) == "" {
		return Genesis{}, nil
	}
	var g Genesis
	meta, err := toml.DecodeFile(path, &g)
	if err != nil {
		return Genesis{}, fmt.Errorf("load genesis: %w", err)
	}
	if err := checkUndecoded(meta); err != nil {
		return Genesis{}, err
	}
	return g, g.Validate()
}

// Parse decodes a genesis document held in memory.
func Parse(data string) (Genesis, error) {
	var g Genesis
	meta, err := toml.Decode(data, &g)
	if err != nil {
		return Genesis{}, fmt.Errorf("parse genesis: %w", err)
	}
	if err := checkUndecoded(meta); err != nil {
		return Genesis{}, err
	}
	return g, g.Validate()
}

func checkUndecoded(meta toml.MetaData) error {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("genesis: unknown keys %s", strings.Join(keys, ", "))
	}
	return nil
}

// Validate rejects empty account names.
func (g Genesis) Validate() error {
	for who := range g.Balances {
		if strings.TrimSpace(who) == "" {
			return fmt.Errorf("genesis: empty account id")
		}
	}
	return nil
}

// Apply writes the genesis balances in account order.
func (g Genesis) Apply(rt BalanceSetter) {
	accounts := make([]string, 0, len(g.Balances))
	for who := range g.Balances {
		accounts = append(accounts, who)
	}
	slices.Sort(accounts)
	for _, who := range accounts {
		rt.SetBalance(types.AccountID(who), g.Balances[who])
	}
}
