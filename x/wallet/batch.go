package wallet

import (
	"github.com/iov-one/custodian"
	"github.com/iov-one/custodian/errors"
	"github.com/iov-one/custodian/x"
	"github.com/iov-one/custodian/x/ledger"
)

// ProposeBatchHandler groups proposed transactions into a batch that will
// collect signatures as one unit.
type ProposeBatchHandler struct {
	auth   x.Authenticator
	bucket walletStore
}

var _ custodian.Handler = ProposeBatchHandler{}

func (h ProposeBatchHandler) Check(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.CheckResult, error) {
	msg, _, _, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	gas := proposeCost + int64(len(msg.TransactionIDs))*batchMemberCost
	return &custodian.CheckResult{GasAllocated: gas}, nil
}

func (h ProposeBatchHandler) Deliver(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.DeliverResult, error) {
	msg, proposer, members, err := h.validate(ctx, db, tx)
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
	id := batchID(msg, proposer.Address, now)

	// claim every member for this batch
	for _, member := range members {
		member.BatchID = id
		if err := h.bucket.txs.Put(db, member.ID, member); err != nil {
			return nil, err
		}
	}

	batch := Batch{
		ID:             id,
		TransactionIDs: msg.TransactionIDs,
		Proposer:       proposer.Address,
		Status:         StatusProposed,
		CreatedAt:      now,
		ExpiresAt:      now.Add(cfg.TransactionExpiry.Duration()),
	}
	if err := h.bucket.batches.Put(db, id, &batch); err != nil {
		return nil, err
	}

	custodian.GetLogger(ctx).Info("batch proposed", "members", len(members))
	return &custodian.DeliverResult{
		Data: id,
		Tags: actionTags("propose_batch"),
	}, nil
}

func (h ProposeBatchHandler) validate(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*ProposeBatchMsg, *Signer, []*Transaction, error) {
	var msg ProposeBatchMsg
	if err := custodian.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, err
	}
	if err := requireOpen(db, h.bucket); err != nil {
		return nil, nil, nil, err
	}
	cfg, err := h.bucket.loadConfig(db)
	if err != nil {
		return nil, nil, nil, err
	}
	if uint32(len(msg.TransactionIDs)) > cfg.MaxBatchSize {
		return nil, nil, nil, errors.Wrapf(ErrBatchSize, "%d members, %d allowed", len(msg.TransactionIDs), cfg.MaxBatchSize)
	}
	signers, err := h.bucket.loadSigners(db)
	if err != nil {
		return nil, nil, nil, err
	}
	proposer, err := caller(ctx, h.auth, signers)
	if err != nil {
		return nil, nil, nil, err
	}

	members := make([]*Transaction, 0, len(msg.TransactionIDs))
	for _, txID := range msg.TransactionIDs {
		var member Transaction
		if err := h.bucket.txs.One(db, txID, &member); err != nil {
			return nil, nil, nil, errors.Wrapf(err, "member %X", txID)
		}
		if member.Status != StatusProposed {
			return nil, nil, nil, errors.Wrapf(ErrInvalidStatus, "member %X is %s", txID, member.Status)
		}
		if len(member.BatchID) != 0 {
			return nil, nil, nil, errors.Wrapf(ErrAlreadyBatched, "member %X", txID)
		}
		members = append(members, &member)
	}
	return &msg, proposer, members, nil
}

// SignBatchHandler appends the caller's signature to a batch, with the same
// weighted mechanics as signing a single transaction.
type SignBatchHandler struct {
	auth   x.Authenticator
	bucket walletStore
}

var _ custodian.Handler = SignBatchHandler{}

func (h SignBatchHandler) Check(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custodian.CheckResult{GasAllocated: signCost}, nil
}

func (h SignBatchHandler) Deliver(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.DeliverResult, error) {
	batch, signer, signers, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	batch.Signatures = append(batch.Signatures, signer.Address)

	cfg, err := h.bucket.loadConfig(db)
	if err != nil {
		return nil, err
	}
	weight := signatureWeight(batch.Signatures, signers)
	if weight >= uint64(cfg.Threshold) {
		batch.Status = StatusApproved
	}

	if err := h.bucket.batches.Put(db, batch.ID, batch); err != nil {
		return nil, err
	}
	return &custodian.DeliverResult{
		Data: batch.ID,
		Log:  batch.Status.String(),
		Tags: actionTags("sign_batch"),
	}, nil
}

func (h SignBatchHandler) validate(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*Batch, *Signer, *SignerList, error) {
	var msg SignBatchMsg
	if err := custodian.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, err
	}
	var batch Batch
	if err := h.bucket.batches.One(db, msg.BatchID, &batch); err != nil {
		return nil, nil, nil, errors.Wrap(err, "batch")
	}
	if batch.Status != StatusProposed {
		return nil, nil, nil, errors.Wrapf(ErrInvalidStatus, "cannot sign a %s batch", batch.Status)
	}
	if custodian.IsExpired(ctx, batch.ExpiresAt) {
		return nil, nil, nil, errors.Wrap(errors.ErrExpired, "batch")
	}
	signers, err := h.bucket.loadSigners(db)
	if err != nil {
		return nil, nil, nil, err
	}
	signer, err := caller(ctx, h.auth, signers)
	if err != nil {
		return nil, nil, nil, err
	}
	if batch.HasSigned(signer.Address) {
		return nil, nil, nil, errors.Wrapf(ErrAlreadySigned, "%s", signer.Address)
	}
	return &batch, signer, signers, nil
}

// ExecuteBatchHandler settles an approved batch. Execution is best effort:
// only members that are individually approved at this moment are
// transferred, the others stay untouched. Members are not re-checked
// against the timelock or the daily cap, batch execution commits their
// spending unconditionally. The batch itself is marked executed regardless
// of how many members settled. As with single transfers, execution carries
// no identity requirement.
type ExecuteBatchHandler struct {
	bucket walletStore
	mover  ledger.CoinMover
}

var _ custodian.Handler = ExecuteBatchHandler{}

func (h ExecuteBatchHandler) Check(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.CheckResult, error) {
	batch, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	gas := executeCost + int64(len(batch.TransactionIDs))*batchMemberCost
	return &custodian.CheckResult{GasAllocated: gas}, nil
}

func (h ExecuteBatchHandler) Deliver(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*custodian.DeliverResult, error) {
	batch, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	cfg, err := h.bucket.loadConfig(db)
	if err != nil {
		return nil, err
	}
	now := custodian.CurrentTime(ctx)

	var executed int
	for _, txID := range batch.TransactionIDs {
		var member Transaction
		if err := h.bucket.txs.One(db, txID, &member); err != nil {
			return nil, errors.Wrapf(err, "member %X", txID)
		}
		if member.Status != StatusApproved {
			continue
		}
		if err := h.mover.MoveCoins(db, CustodyAddress(), member.Destination, member.Amount); err != nil {
			return nil, errors.Wrapf(err, "member %X", txID)
		}
		if err := h.bucket.commitDailySpending(db, cfg, now, member.Amount.Amount); err != nil {
			return nil, err
		}
		member.Status = StatusExecuted
		if err := h.bucket.txs.Put(db, member.ID, &member); err != nil {
			return nil, err
		}
		if member.TimelockUntil != 0 {
			if err := h.bucket.queueMarkExecuted(db, member.ID); err != nil {
				return nil, err
			}
		}
		executed++
	}

	batch.Status = StatusExecuted
	if err := h.bucket.batches.Put(db, batch.ID, batch); err != nil {
		return nil, err
	}

	custodian.GetLogger(ctx).Info("batch executed",
		"members", len(batch.TransactionIDs), "settled", executed)
	return &custodian.DeliverResult{
		Data: batch.ID,
		Tags: actionTags("execute_batch"),
	}, nil
}

func (h ExecuteBatchHandler) validate(ctx custodian.Context, db custodian.KVStore, tx custodian.Tx) (*Batch, error) {
	var msg ExecuteBatchMsg
	if err := custodian.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	var batch Batch
	if err := h.bucket.batches.One(db, msg.BatchID, &batch); err != nil {
		return nil, errors.Wrap(err, "batch")
	}
	if batch.Status != StatusApproved {
		return nil, errors.Wrapf(ErrInvalidStatus, "cannot execute a %s batch", batch.Status)
	}
	if custodian.IsExpired(ctx, batch.ExpiresAt) {
		return nil, errors.Wrap(errors.ErrExpired, "batch")
	}
	return &batch, nil
}
