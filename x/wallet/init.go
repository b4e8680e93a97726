package wallet

import (
	"github.com/iov-one/custodian"
	"github.com/iov-one/custodian/errors"
)

// Initializer fulfils the genesis initialization of this extension.
type Initializer struct{}

var _ custodian.Initializer = (*Initializer)(nil)

// FromGenesis initializes the wallet from the "wallet" option. A missing
// option is a noop, the wallet can then be initialized with a message.
func (*Initializer) FromGenesis(opts custodian.Options, db custodian.KVStore) error {
	var genesis struct {
		Admin   custodian.Address   `json:"admin"`
		Config  Config              `json:"config"`
		Signers []custodian.Address `json:"signers"`
	}
	if err := opts.ReadOptions("wallet", &genesis); err != nil {
		return errors.Wrap(err, "wallet genesis")
	}
	if genesis.Admin == nil {
		return nil
	}
	if err := genesis.Admin.Validate(); err != nil {
		return errors.Wrap(err, "admin")
	}
	if err := genesis.Config.Validate(); err != nil {
		return err
	}
	if len(genesis.Signers) == 0 {
		return errors.Wrap(errors.ErrEmpty, "signers")
	}

	bucket := newWalletStore()
	switch _, err := bucket.loadState(db); {
	case err == nil:
		return ErrAlreadyInitialized
	case errors.ErrNotFound.Is(err):
		// fresh state, proceed
	default:
		return err
	}

	state := State{
		Admin:   genesis.Admin,
		Version: 1,
	}
	if err := bucket.saveState(db, &state); err != nil {
		return err
	}
	if err := bucket.saveConfig(db, &genesis.Config); err != nil {
		return err
	}
	var signers SignerList
	for _, addr := range genesis.Signers {
		if err := addr.Validate(); err != nil {
			return errors.Wrap(err, "signer")
		}
		if signers.Get(addr) != nil {
			return errors.Wrapf(errors.ErrDuplicate, "signer %s", addr)
		}
		signers.Signers = append(signers.Signers, &Signer{
			Address: addr,
			Role:    RoleOwner,
			Weight:  1,
			Active:  true,
		})
	}
	return bucket.saveSigners(db, &signers)
}
