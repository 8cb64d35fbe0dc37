// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/jobstake/builtin"
	"github.com/vechain/jobstake/log"
	"github.com/vechain/jobstake/state"
	"github.com/vechain/jobstake/thor"
	"github.com/vechain/jobstake/xenv"
)

var logger = log.WithContext("pkg", "genesis")

// Account is a token account allocated at genesis.
type Account struct {
	Address thor.Address `yaml:"address"`
	Owner   thor.Address `yaml:"owner"`
	Balance uint64       `yaml:"balance"`
}

// Genesis is the initial platform configuration.
type Genesis struct {
	Name     string       `yaml:"name"`
	Admin    thor.Address `yaml:"admin"`
	Unit     thor.Address `yaml:"unit"`
	Accounts []Account    `yaml:"accounts"`
}

// Load reads a genesis file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	return Parse(data)
}

// Parse decodes a YAML genesis. Unknown fields are rejected.
func Parse(data []byte) (*Genesis, error) {
	var gen Genesis
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}

func (g *Genesis) Validate() error {
	if g.Admin.IsZero() {
		return errors.New("genesis: admin must be set")
	}
	if g.Unit.IsZero() {
		return errors.New("genesis: unit must be set")
	}
	seen := make(map[thor.Address]bool, len(g.Accounts))
	for _, acc := range g.Accounts {
		if acc.Address.IsZero() || acc.Owner.IsZero() {
			return errors.Errorf("genesis: account %v must have address and owner", acc.Address)
		}
		if seen[acc.Address] {
			return errors.Errorf("genesis: duplicated account %v", acc.Address)
		}
		seen[acc.Address] = true
	}
	return nil
}

// ID identifies the genesis content.
func (g *Genesis) ID() thor.Bytes32 {
	data, err := yaml.Marshal(g)
	if err != nil {
		panic(err)
	}
	return thor.Blake2b(data)
}

// Apply initializes the registry and allocates accounts on an empty state.
// On an initialized state it only checks that admin and unit match.
func (g *Genesis) Apply(stater *state.Stater) (uint64, error) {
	st := stater.NewState()
	p := builtin.Bind(st)

	initialized, err := p.Registry.IsInitialized()
	if err != nil {
		return 0, err
	}
	if initialized {
		admin, err := p.Registry.Admin()
		if err != nil {
			return 0, err
		}
		unit, err := p.Registry.Unit()
		if err != nil {
			return 0, err
		}
		if admin != g.Admin || unit != g.Unit {
			return 0, errors.Errorf("genesis mismatch: state has admin %v unit %v", admin, unit)
		}
		return st.Revision(), nil
	}

	if err := p.Registry.Initialize(g.Admin, g.Unit); err != nil {
		return 0, errors.WithMessage(err, "initialize registry")
	}
	env := xenv.New(st, g.Admin)
	for _, acc := range g.Accounts {
		if err := p.Vault.OpenFor(acc.Address, acc.Owner, g.Unit); err != nil {
			return 0, errors.WithMessagef(err, "open account %v", acc.Address)
		}
		if acc.Balance > 0 {
			if err := p.Vault.Mint(env, acc.Address, acc.Balance); err != nil {
				return 0, errors.WithMessagef(err, "mint account %v", acc.Address)
			}
		}
	}
	rev, err := st.Stage().Commit()
	if err != nil {
		return 0, errors.Wrap(err, "commit genesis")
	}
	logger.Info("genesis applied", "name", g.Name, "admin", g.Admin, "unit", g.Unit, "accounts", len(g.Accounts))
	return rev, nil
}
