package wallet

import (
	"github.com/tendermint/tendermint/libs/common"

	"github.com/iov-one/custodian"
	"github.com/iov-one/custodian/errors"
	"github.com/iov-one/custodian/x"
	"github.com/iov-one/custodian/x/ledger"
)

const (
	initCost    int64 = 300
	adminCost   int64 = 100
	proposeCost int64 = 150
	signCost    int64 = 100
	executeCost int64 = 200
	// batchMemberCost is charged per batch member on top of the base.
	batchMemberCost int64 = 50
)

// RegisterRoutes binds all handlers of this extension.
func RegisterRoutes(r custodian.Registry, auth x.Authenticator, mover ledger.CoinMover) {
	bucket := newWalletStore()

	r.Handle(pathInitialize, InitializeHandler{auth: auth, bucket: bucket})
	r.Handle(pathAddSigner, AddSignerHandler{auth: auth, bucket: bucket})
	r.Handle(pathRemoveSigner, RemoveSignerHandler{auth: auth, bucket: bucket})
	r.Handle(pathUpdateConfig, UpdateConfigHandler{auth: auth, bucket: bucket})
	r.Handle(pathProposeTx, ProposeTxHandler{auth: auth, bucket: bucket})
	r.Handle(pathSignTx, SignTxHandler{auth: auth, bucket: bucket})
	r.Handle(pathExecuteTx, ExecuteTxHandler{bucket: bucket, mover: mover})
	r.Handle(pathProposeBatch, ProposeBatchHandler{auth: auth, bucket: bucket})
	r.Handle(pathSignBatch, SignBatchHandler{auth: auth, bucket: bucket})
	r.Handle(pathExecuteBatch, ExecuteBatchHandler{bucket: bucket, mover: mover})
	r.Handle(pathFreeze, FreezeHandler{auth: auth, bucket: bucket})
	r.Handle(pathUnfreeze, UnfreezeHandler{auth: auth, bucket: bucket})
	r.Handle(pathPause, PauseHandler{auth: auth, bucket: bucket, pause: true})
	r.Handle(pathUnpause, PauseHandler{auth: auth, bucket: bucket, pause: false})
}

func actionTags(action string) []common.KVPair {
	return []common.KVPair{
		{Key: []byte("action"), Value: []byte(action)},
	}
}

// requireOpen fails when the wallet is paused or frozen. Only proposal
// intake is gated this way.
func requireOpen(db custodian.ReadOnlyKVStore, bucket walletStore) error {
	state, err := bucket.loadState(db)
	if err != nil {
		return err
	}
	if state.Paused {
		return ErrPaused
	}
	frozen, err := bucket.loadFreeze(db)
	if err != nil {
		return err
	}
	if frozen.Frozen {
		return ErrFrozen
	}
	return nil
}

// caller resolves the main authenticated condition to an active signer.
func caller(ctx custodian.Context, auth x.Authenticator, signers *SignerList) (*Signer, error) {
	main := x.MainSigner(ctx, auth)
	if main == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no authenticated identity")
	}
	return activeSigner(signers, main.Address())
}

// ProposeTxHandler creates a new transfer proposal.
type ProposeTxHandler struct {
	auth   x.Authenticator
	bucket walletStore
}

var _ custodian.Handler = ProposeTxHandler{}

func (h ProposeTxHandler) Check(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custodian.CheckResult{GasAllocated: proposeCost}, nil
}

func (h ProposeTxHandler) Deliver(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.DeliverResult, error) {
	msg, proposer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if err := h.bucket.consumeNonce(db, proposer.Address, msg.Nonce); err != nil {
		return nil, err
	}

	cfg, err := h.bucket.loadConfig(db)
	if err != nil {
		return nil, err
	}
	now := custodian.CurrentTime(ctx)
	id := transactionID(msg, proposer.Address, now)

	var timelockUntil custodian.UnixTime
	if msg.Amount.Amount >= cfg.TimelockThreshold {
		timelockUntil = now.Add(cfg.TimelockDuration.Duration())
		if err := h.bucket.queueAdd(db, id); err != nil {
			return nil, err
		}
	}

	trans := Transaction{
		ID:            id,
		Sequence:      h.bucket.txSeq.NextInt(db),
		Destination:   msg.Destination,
		Amount:        msg.Amount,
		Payload:       msg.Payload,
		Proposer:      proposer.Address,
		Status:        StatusProposed,
		CreatedAt:     now,
		ExpiresAt:     now.Add(cfg.TransactionExpiry.Duration()),
		TimelockUntil: timelockUntil,
	}
	if err := h.bucket.txs.Put(db, id, &trans); err != nil {
		return nil, err
	}

	custodian.GetLogger(ctx).Info("transfer proposed",
		"amount", msg.Amount, "timelocked", timelockUntil != 0)
	return &custodian.DeliverResult{
		Data: id,
		Tags: actionTags("propose_tx"),
	}, nil
}

func (h ProposeTxHandler) validate(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*ProposeTxMsg, *Signer, error) {
	var msg ProposeTxMsg
	if err := custodian.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	if err := requireOpen(db, h.bucket); err != nil {
		return nil, nil, err
	}
	signers, err := h.bucket.loadSigners(db)
	if err != nil {
		return nil, nil, err
	}
	proposer, err := caller(ctx, h.auth, signers)
	if err != nil {
		return nil, nil, err
	}
	return &msg, proposer, nil
}

// SignTxHandler appends the caller's signature to a proposal and flips it
// to approved once enough weight is collected.
type SignTxHandler struct {
	auth   x.Authenticator
	bucket walletStore
}

var _ custodian.Handler = SignTxHandler{}

func (h SignTxHandler) Check(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custodian.CheckResult{GasAllocated: signCost}, nil
}

func (h SignTxHandler) Deliver(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.DeliverResult, error) {
	trans, signer, signers, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	trans.Signatures = append(trans.Signatures, signer.Address)

	// weight is summed over the live registry so that deactivating a
	// signer retroactively voids the signatures it gave
	cfg, err := h.bucket.loadConfig(db)
	if err != nil {
		return nil, err
	}
	weight := signatureWeight(trans.Signatures, signers)
	if weight >= uint64(cfg.Threshold) {
		trans.Status = StatusApproved
	}

	if err := h.bucket.txs.Put(db, trans.ID, trans); err != nil {
		return nil, err
	}
	custodian.GetLogger(ctx).Info("transfer signed",
		"weight", weight, "status", trans.Status.String())
	return &custodian.DeliverResult{
		Data: trans.ID,
		Log:  trans.Status.String(),
		Tags: actionTags("sign_tx"),
	}, nil
}

func (h SignTxHandler) validate(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*Transaction, *Signer, *SignerList, error) {
	var msg SignTxMsg
	if err := custodian.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, err
	}
	var trans Transaction
	if err := h.bucket.txs.One(db, msg.TxID, &trans); err != nil {
		return nil, nil, nil, errors.Wrap(err, "transaction")
	}
	if trans.Status != StatusProposed {
		return nil, nil, nil, errors.Wrapf(ErrInvalidStatus, "cannot sign a %s transaction", trans.Status)
	}
	if custodian.IsExpired(ctx, trans.ExpiresAt) {
		return nil, nil, nil, errors.Wrap(errors.ErrExpired, "transaction")
	}
	signers, err := h.bucket.loadSigners(db)
	if err != nil {
		return nil, nil, nil, err
	}
	signer, err := caller(ctx, h.auth, signers)
	if err != nil {
		return nil, nil, nil, err
	}
	if trans.HasSigned(signer.Address) {
		return nil, nil, nil, errors.Wrapf(ErrAlreadySigned, "%s", signer.Address)
	}
	return &trans, signer, signers, nil
}

// ExecuteTxHandler settles an approved transfer. Execution carries no
// identity requirement, anyone may settle once the approvals are in place.
// It is single shot, guarded by the status transition to executed.
type ExecuteTxHandler struct {
	bucket walletStore
	mover  ledger.CoinMover
}

var _ custodian.Handler = ExecuteTxHandler{}

func (h ExecuteTxHandler) Check(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custodian.CheckResult{GasAllocated: executeCost}, nil
}

func (h ExecuteTxHandler) Deliver(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.DeliverResult, error) {
	trans, cfg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now := custodian.CurrentTime(ctx)

	if err := h.mover.MoveCoins(db, CustodyAddress(), trans.Destination, trans.Amount); err != nil {
		return nil, errors.Wrap(err, "transfer")
	}
	if err := h.bucket.commitDailySpending(db, cfg, now, trans.Amount.Amount); err != nil {
		return nil, err
	}
	trans.Status = StatusExecuted
	if err := h.bucket.txs.Put(db, trans.ID, trans); err != nil {
		return nil, err
	}
	if trans.TimelockUntil != 0 {
		if err := h.bucket.queueMarkExecuted(db, trans.ID); err != nil {
			return nil, err
		}
	}

	custodian.GetLogger(ctx).Info("transfer executed",
		"amount", trans.Amount, "destination", trans.Destination)
	return &custodian.DeliverResult{
		Data: trans.ID,
		Tags: actionTags("execute_tx"),
	}, nil
}

func (h ExecuteTxHandler) validate(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*Transaction, *Config, error) {
	var msg ExecuteTxMsg
	if err := custodian.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	var trans Transaction
	if err := h.bucket.txs.One(db, msg.TxID, &trans); err != nil {
		return nil, nil, errors.Wrap(err, "transaction")
	}
	if trans.Status != StatusApproved {
		return nil, nil, errors.Wrapf(ErrInvalidStatus, "cannot execute a %s transaction", trans.Status)
	}
	if custodian.IsExpired(ctx, trans.ExpiresAt) {
		return nil, nil, errors.Wrap(errors.ErrExpired, "transaction")
	}
	if trans.TimelockUntil != 0 && !custodian.IsReached(ctx, trans.TimelockUntil) {
		return nil, nil, errors.Wrapf(ErrTimelockActive, "until %s", trans.TimelockUntil)
	}
	cfg, err := h.bucket.loadConfig(db)
	if err != nil {
		return nil, nil, err
	}
	now := custodian.CurrentTime(ctx)
	if err := h.bucket.checkDailySpending(db, cfg, now, trans.Amount.Amount); err != nil {
		return nil, nil, err
	}
	return &trans, cfg, nil
}
