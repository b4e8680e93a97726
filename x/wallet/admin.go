package wallet

import (
	"github.com/iov-one/custodian"
	"github.com/iov-one/custodian/errors"
	"github.com/iov-one/custodian/x"
)

// InitializeHandler creates the wallet state. It succeeds only once.
type InitializeHandler struct {
	auth   x.Authenticator
	bucket walletStore
}

var _ custodian.Handler = InitializeHandler{}

func (h InitializeHandler) Check(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custodian.CheckResult{GasAllocated: initCost}, nil
}

func (h InitializeHandler) Deliver(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	now := custodian.CurrentTime(ctx)

	state := State{
		Admin:   msg.Admin,
		Version: 1,
	}
	if err := h.bucket.saveState(db, &state); err != nil {
		return nil, err
	}
	if err := h.bucket.saveConfig(db, &msg.Config); err != nil {
		return nil, err
	}

	// initial signers join as active owners with weight one
	var signers SignerList
	for _, addr := range msg.InitialSigners {
		if signers.Get(addr) != nil {
			return nil, errors.Wrapf(errors.ErrDuplicate, "signer %s", addr)
		}
		signers.Signers = append(signers.Signers, &Signer{
			Address:   addr,
			Role:      RoleOwner,
			Weight:    1,
			Active:    true,
			CreatedAt: now,
		})
	}
	if err := h.bucket.saveSigners(db, &signers); err != nil {
		return nil, err
	}

	custodian.GetLogger(ctx).Info("wallet initialized",
		"admin", msg.Admin, "signers", len(msg.InitialSigners))
	return &custodian.DeliverResult{Tags: actionTags("initialize")}, nil
}

func (h InitializeHandler) validate(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*InitializeMsg, error) {
	var msg InitializeMsg
	if err := custodian.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	switch _, err := h.bucket.loadState(db); {
	case err == nil:
		return nil, ErrAlreadyInitialized
	case errors.ErrNotFound.Is(err):
		// fresh state, proceed
	default:
		return nil, err
	}
	if !h.auth.HasAddress(ctx, msg.Admin) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "admin signature missing")
	}
	return &msg, nil
}

// AddSignerHandler registers a new signer. Admin only.
type AddSignerHandler struct {
	auth   x.Authenticator
	bucket walletStore
}

var _ custodian.Handler = AddSignerHandler{}

func (h AddSignerHandler) Check(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custodian.CheckResult{GasAllocated: adminCost}, nil
}

func (h AddSignerHandler) Deliver(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.DeliverResult, error) {
	msg, signers, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	signers.Signers = append(signers.Signers, &Signer{
		Address:   msg.Signer,
		Role:      msg.Role,
		Weight:    msg.Weight,
		Active:    true,
		CreatedAt: custodian.CurrentTime(ctx),
	})
	if err := h.bucket.saveSigners(db, signers); err != nil {
		return nil, err
	}
	return &custodian.DeliverResult{Tags: actionTags("add_signer")}, nil
}

func (h AddSignerHandler) validate(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*AddSignerMsg, *SignerList, error) {
	var msg AddSignerMsg
	if err := custodian.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	if err := requireAdmin(ctx, db, h.auth, h.bucket); err != nil {
		return nil, nil, err
	}
	signers, err := h.bucket.loadSigners(db)
	if err != nil {
		return nil, nil, err
	}
	if signers.Get(msg.Signer) != nil {
		return nil, nil, errors.Wrapf(ErrInvalidSigner, "%s already registered", msg.Signer)
	}
	return &msg, signers, nil
}

// RemoveSignerHandler deactivates a signer. Admin only. Removal below the
// approval threshold is rejected so that the wallet can never deadlock.
type RemoveSignerHandler struct {
	auth   x.Authenticator
	bucket walletStore
}

var _ custodian.Handler = RemoveSignerHandler{}

func (h RemoveSignerHandler) Check(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custodian.CheckResult{GasAllocated: adminCost}, nil
}

func (h RemoveSignerHandler) Deliver(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.DeliverResult, error) {
	msg, signers, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	signers.Get(msg.Signer).Active = false
	if err := h.bucket.saveSigners(db, signers); err != nil {
		return nil, err
	}
	return &custodian.DeliverResult{Tags: actionTags("remove_signer")}, nil
}

func (h RemoveSignerHandler) validate(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*RemoveSignerMsg, *SignerList, error) {
	var msg RemoveSignerMsg
	if err := custodian.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	if err := requireAdmin(ctx, db, h.auth, h.bucket); err != nil {
		return nil, nil, err
	}
	signers, err := h.bucket.loadSigners(db)
	if err != nil {
		return nil, nil, err
	}
	s := signers.Get(msg.Signer)
	if s == nil {
		return nil, nil, errors.Wrapf(errors.ErrNotFound, "signer %s", msg.Signer)
	}
	if !s.Active {
		return nil, nil, errors.Wrapf(ErrSignerNotActive, "%s", msg.Signer)
	}
	cfg, err := h.bucket.loadConfig(db)
	if err != nil {
		return nil, nil, err
	}
	if uint32(signers.ActiveCount()-1) < cfg.Threshold {
		return nil, nil, errors.Wrapf(ErrInvalidSigner,
			"removal leaves %d active signers below threshold %d",
			signers.ActiveCount()-1, cfg.Threshold)
	}
	return &msg, signers, nil
}

// UpdateConfigHandler replaces the configuration. Admin only.
type UpdateConfigHandler struct {
	auth   x.Authenticator
	bucket walletStore
}

var _ custodian.Handler = UpdateConfigHandler{}

func (h UpdateConfigHandler) Check(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custodian.CheckResult{GasAllocated: adminCost}, nil
}

func (h UpdateConfigHandler) Deliver(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.bucket.saveConfig(db, &msg.Config); err != nil {
		return nil, err
	}
	return &custodian.DeliverResult{Tags: actionTags("update_config")}, nil
}

func (h UpdateConfigHandler) validate(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*UpdateConfigMsg, error) {
	var msg UpdateConfigMsg
	if err := custodian.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if err := requireAdmin(ctx, db, h.auth, h.bucket); err != nil {
		return nil, err
	}
	return &msg, nil
}

// FreezeHandler declares an emergency freeze. Admin only. A freeze blocks
// new proposals but deliberately not signing or executing, approved
// transfers settle even during a freeze.
type FreezeHandler struct {
	auth   x.Authenticator
	bucket walletStore
}

var _ custodian.Handler = FreezeHandler{}

func (h FreezeHandler) Check(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custodian.CheckResult{GasAllocated: adminCost}, nil
}

func (h FreezeHandler) Deliver(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.DeliverResult, error) {
	msg, cfg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	duration := msg.Duration
	if duration == 0 {
		duration = cfg.EmergencyFreezeDuration
	}
	now := custodian.CurrentTime(ctx)
	frozen := FreezeState{
		Frozen:     true,
		UnfreezeAt: now.Add(duration.Duration()),
	}
	if err := h.bucket.saveFreeze(db, &frozen); err != nil {
		return nil, err
	}
	custodian.GetLogger(ctx).Info("wallet frozen", "until", frozen.UnfreezeAt)
	return &custodian.DeliverResult{Tags: actionTags("freeze")}, nil
}

func (h FreezeHandler) validate(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*FreezeMsg, *Config, error) {
	var msg FreezeMsg
	if err := custodian.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	if err := requireAdmin(ctx, db, h.auth, h.bucket); err != nil {
		return nil, nil, err
	}
	cfg, err := h.bucket.loadConfig(db)
	if err != nil {
		return nil, nil, err
	}
	return &msg, cfg, nil
}

// UnfreezeHandler lifts a freeze. The admin may lift it at any time. Once
// the advisory unfreeze deadline is reached, anyone may.
type UnfreezeHandler struct {
	auth   x.Authenticator
	bucket walletStore
}

var _ custodian.Handler = UnfreezeHandler{}

func (h UnfreezeHandler) Check(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.CheckResult, error) {
	if err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custodian.CheckResult{GasAllocated: adminCost}, nil
}

func (h UnfreezeHandler) Deliver(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.DeliverResult, error) {
	if err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	if err := h.bucket.saveFreeze(db, &FreezeState{}); err != nil {
		return nil, err
	}
	custodian.GetLogger(ctx).Info("wallet unfrozen")
	return &custodian.DeliverResult{Tags: actionTags("unfreeze")}, nil
}

func (h UnfreezeHandler) validate(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) error {
	var msg UnfreezeMsg
	if err := custodian.LoadMsg(tx, &msg); err != nil {
		return err
	}
	frozen, err := h.bucket.loadFreeze(db)
	if err != nil {
		return err
	}
	if !frozen.Frozen {
		return errors.Wrap(errors.ErrState, "not frozen")
	}
	state, err := h.bucket.loadState(db)
	if err != nil {
		return err
	}
	if h.auth.HasAddress(ctx, state.Admin) {
		return nil
	}
	if custodian.IsReached(ctx, frozen.UnfreezeAt) {
		return nil
	}
	return errors.Wrap(errors.ErrUnauthorized, "only the admin may unfreeze early")
}

// PauseHandler stops all proposal intake. Admin only.
type PauseHandler struct {
	auth   x.Authenticator
	bucket walletStore
	pause  bool
}

var _ custodian.Handler = PauseHandler{}

func (h PauseHandler) Check(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custodian.CheckResult{GasAllocated: adminCost}, nil
}

func (h PauseHandler) Deliver(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.DeliverResult, error) {
	state, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	state.Paused = h.pause
	if err := h.bucket.saveState(db, state); err != nil {
		return nil, err
	}
	action := "unpause"
	if h.pause {
		action = "pause"
	}
	return &custodian.DeliverResult{Tags: actionTags(action)}, nil
}

func (h PauseHandler) validate(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*State, error) {
	if h.pause {
		var msg PauseMsg
		if err := custodian.LoadMsg(tx, &msg); err != nil {
			return nil, err
		}
	} else {
		var msg UnpauseMsg
		if err := custodian.LoadMsg(tx, &msg); err != nil {
			return nil, err
		}
	}
	if err := requireAdmin(ctx, db, h.auth, h.bucket); err != nil {
		return nil, err
	}
	return h.bucket.loadState(db)
}

// requireAdmin ensures the administrator authorized this call.
func requireAdmin(ctx custodian.Context, db custodian.ReadOnlyKVStore, auth x.Authenticator, bucket walletStore) error {
	state, err := bucket.loadState(db)
	if err != nil {
		return err
	}
	if !auth.HasAddress(ctx, state.Admin) {
		return errors.Wrap(errors.ErrUnauthorized, "admin signature missing")
	}
	return nil
}
