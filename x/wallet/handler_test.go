package wallet

import (
	"context"
	"testing"

	"github.com/iov-one/custodian"
	"github.com/iov-one/custodian/coin"
	"github.com/iov-one/custodian/custodiantest"
	"github.com/iov-one/custodian/custodiantest/assert"
	"github.com/iov-one/custodian/errors"
	"github.com/iov-one/custodian/store"
	"github.com/iov-one/custodian/x/ledger"
)

// genesisTime is aligned to a UTC day boundary so that the daily spending
// tests control the day rollover precisely.
const genesisTime custodian.UnixTime = 19631 * secondsPerDay

var defaultConfig = Config{
	Threshold:               2,
	TotalSigners:            3,
	DailySpendingLimit:      1000,
	TimelockThreshold:       500,
	TimelockDuration:        3600,
	TransactionExpiry:       secondsPerDay,
	MaxBatchSize:            5,
	EmergencyFreezeDuration: 7200,
}

// testEnv is an initialized two-of-three wallet with a funded custody pool.
type testEnv struct {
	db     custodian.CacheableKVStore
	auth   *custodiantest.CtxAuth
	ctrl   ledger.Controller
	bucket walletStore

	admin custodian.Condition
	a     custodian.Condition
	b     custodian.Condition
	c     custodian.Condition
}

// at returns a context carrying given block time and the signatures of all
// given conditions.
func (e *testEnv) at(t custodian.UnixTime, signed ...custodian.Condition) custodian.Context {
	ctx := custodian.WithBlockTime(context.Background(), t.Time())
	return e.auth.SetConditions(ctx, signed...)
}

func newTestEnv(t testing.TB) *testEnv {
	t.Helper()
	e := &testEnv{
		db:    store.MemStore(),
		auth:  &custodiantest.CtxAuth{Key: "auth"},
		ctrl:  ledger.NewController(),
		admin: custodiantest.NewKey("admin"),
		a:     custodiantest.NewKey("alice"),
		b:     custodiantest.NewKey("bob"),
		c:     custodiantest.NewKey("carol"),
	}
	e.bucket = newWalletStore()

	init := InitializeHandler{auth: e.auth, bucket: e.bucket}
	msg := &InitializeMsg{
		Admin:  e.admin.Address(),
		Config: defaultConfig,
		InitialSigners: []custodian.Address{
			e.a.Address(), e.b.Address(), e.c.Address(),
		},
	}
	_, err := init.Deliver(e.at(genesisTime, e.admin), e.db, &custodiantest.Tx{Msg: msg})
	assert.Nil(t, err)

	// fund the custody pool
	assert.Nil(t, e.ctrl.IssueCoins(e.db, CustodyAddress(), coin.NewCoin("IOV", 1000000)))
	return e
}

// propose creates a proposal as the given signer and returns the new id.
func (e *testEnv) propose(t testing.TB, now custodian.UnixTime, by custodian.Condition, amount int64, nonce uint64) []byte {
	t.Helper()
	h := ProposeTxHandler{auth: e.auth, bucket: e.bucket}
	msg := &ProposeTxMsg{
		Destination: custodiantest.NewKey("merchant").Address(),
		Amount:      coin.NewCoin("IOV", amount),
		Nonce:       nonce,
	}
	res, err := h.Deliver(e.at(now, by), e.db, &custodiantest.Tx{Msg: msg})
	assert.Nil(t, err)
	return res.Data
}

func (e *testEnv) sign(now custodian.UnixTime, by custodian.Condition, id []byte) error {
	h := SignTxHandler{auth: e.auth, bucket: e.bucket}
	_, err := h.Deliver(e.at(now, by), e.db, &custodiantest.Tx{Msg: &SignTxMsg{TxID: id}})
	return err
}

func (e *testEnv) execute(now custodian.UnixTime, by custodian.Condition, id []byte) error {
	h := ExecuteTxHandler{bucket: e.bucket, mover: e.ctrl}
	_, err := h.Deliver(e.at(now, by), e.db, &custodiantest.Tx{Msg: &ExecuteTxMsg{TxID: id}})
	return err
}

func TestInitializeOnlyOnce(t *testing.T) {
	e := newTestEnv(t)

	init := InitializeHandler{auth: e.auth, bucket: e.bucket}
	msg := &InitializeMsg{
		Admin:          e.admin.Address(),
		Config:         defaultConfig,
		InitialSigners: []custodian.Address{e.a.Address()},
	}
	_, err := init.Deliver(e.at(genesisTime, e.admin), e.db, &custodiantest.Tx{Msg: msg})
	assert.IsErr(t, ErrAlreadyInitialized, err)
}

func TestInitializeRequiresAdminSignature(t *testing.T) {
	e := &testEnv{
		db:    store.MemStore(),
		auth:  &custodiantest.CtxAuth{Key: "auth"},
		admin: custodiantest.NewKey("admin"),
		a:     custodiantest.NewKey("alice"),
	}
	e.bucket = newWalletStore()

	init := InitializeHandler{auth: e.auth, bucket: e.bucket}
	msg := &InitializeMsg{
		Admin:          e.admin.Address(),
		Config:         defaultConfig,
		InitialSigners: []custodian.Address{e.a.Address()},
	}
	// signed by alice, not by the declared admin
	_, err := init.Deliver(e.at(genesisTime, e.a), e.db, &custodiantest.Tx{Msg: msg})
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

// TestTwoOfThreeWalkthrough is the full happy path of a 2-of-3 wallet.
func TestTwoOfThreeWalkthrough(t *testing.T) {
	e := newTestEnv(t)
	now := genesisTime

	id := e.propose(t, now, e.a, 100, 1)

	trans, err := GetTransaction(e.db, id)
	assert.Nil(t, err)
	assert.Equal(t, StatusProposed, trans.Status)
	assert.Equal(t, custodian.UnixTime(0), trans.TimelockUntil)
	assert.Equal(t, now.Add(defaultConfig.TransactionExpiry.Duration()), trans.ExpiresAt)

	// cannot execute before approval
	assert.IsErr(t, ErrInvalidStatus, e.execute(now, e.a, id))

	// one signature is below the threshold
	assert.Nil(t, e.sign(now, e.a, id))
	trans, _ = GetTransaction(e.db, id)
	assert.Equal(t, StatusProposed, trans.Status)

	// the same signer cannot vote twice
	assert.IsErr(t, ErrAlreadySigned, e.sign(now, e.a, id))

	// the second signature approves
	assert.Nil(t, e.sign(now, e.b, id))
	trans, _ = GetTransaction(e.db, id)
	assert.Equal(t, StatusApproved, trans.Status)

	// an approved transaction cannot collect more signatures
	assert.IsErr(t, ErrInvalidStatus, e.sign(now, e.c, id))

	assert.Nil(t, e.execute(now, e.c, id))
	trans, _ = GetTransaction(e.db, id)
	assert.Equal(t, StatusExecuted, trans.Status)

	// funds arrived
	coins, err := e.ctrl.Balance(e.db, trans.Destination)
	assert.Nil(t, err)
	assert.Equal(t, []coin.Coin{coin.NewCoin("IOV", 100)}, coins)

	// spending was recorded
	spent, err := GetDailySpending(e.db, now)
	assert.Nil(t, err)
	assert.Equal(t, int64(100), spent.Spent)

	// execution is single shot
	assert.IsErr(t, ErrInvalidStatus, e.execute(now, e.a, id))
}

// TestExecuteByAnyone ensures that settling carries no identity
// requirement. Once the approvals are in place any relayer, even one
// without a registered key, may trigger the transfer.
func TestExecuteByAnyone(t *testing.T) {
	e := newTestEnv(t)
	now := genesisTime

	id := e.propose(t, now, e.a, 100, 1)
	assert.Nil(t, e.sign(now, e.a, id))
	assert.Nil(t, e.sign(now, e.b, id))

	relayer := custodiantest.NewKey("relayer")
	assert.Nil(t, e.execute(now, relayer, id))
	trans, _ := GetTransaction(e.db, id)
	assert.Equal(t, StatusExecuted, trans.Status)

	// the same holds for batches, and even for a call that carries no
	// signature at all
	t1 := e.propose(t, now, e.a, 10, 2)
	proposeBatch := ProposeBatchHandler{auth: e.auth, bucket: e.bucket}
	signBatch := SignBatchHandler{auth: e.auth, bucket: e.bucket}
	executeBatch := ExecuteBatchHandler{bucket: e.bucket, mover: e.ctrl}

	res, err := proposeBatch.Deliver(e.at(now, e.a), e.db, &custodiantest.Tx{
		Msg: &ProposeBatchMsg{TransactionIDs: [][]byte{t1}, Nonce: 3},
	})
	assert.Nil(t, err)
	batchID := res.Data

	_, err = signBatch.Deliver(e.at(now, e.a), e.db, &custodiantest.Tx{Msg: &SignBatchMsg{BatchID: batchID}})
	assert.Nil(t, err)
	_, err = signBatch.Deliver(e.at(now, e.b), e.db, &custodiantest.Tx{Msg: &SignBatchMsg{BatchID: batchID}})
	assert.Nil(t, err)

	_, err = executeBatch.Deliver(e.at(now), e.db, &custodiantest.Tx{Msg: &ExecuteBatchMsg{BatchID: batchID}})
	assert.Nil(t, err)
	batch, _ := GetBatch(e.db, batchID)
	assert.Equal(t, StatusExecuted, batch.Status)
}

func TestProposeRequiresActiveSigner(t *testing.T) {
	e := newTestEnv(t)
	h := ProposeTxHandler{auth: e.auth, bucket: e.bucket}
	msg := &ProposeTxMsg{
		Destination: custodiantest.NewKey("merchant").Address(),
		Amount:      coin.NewCoin("IOV", 10),
		Nonce:       1,
	}

	outsider := custodiantest.NewKey("mallory")
	_, err := h.Deliver(e.at(genesisTime, outsider), e.db, &custodiantest.Tx{Msg: msg})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// no signature at all
	_, err = h.Deliver(e.at(genesisTime), e.db, &custodiantest.Tx{Msg: msg})
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestProposalSequenceNumbers(t *testing.T) {
	e := newTestEnv(t)
	now := genesisTime

	first := e.propose(t, now, e.a, 10, 1)
	second := e.propose(t, now, e.b, 20, 1)

	trans, err := GetTransaction(e.db, first)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), trans.Sequence)

	trans, err = GetTransaction(e.db, second)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), trans.Sequence)
}

func TestNonceReplayProtection(t *testing.T) {
	e := newTestEnv(t)
	now := genesisTime

	// any first value is accepted
	e.propose(t, now, e.a, 10, 5)

	h := ProposeTxHandler{auth: e.auth, bucket: e.bucket}
	msg := &ProposeTxMsg{
		Destination: custodiantest.NewKey("merchant").Address(),
		Amount:      coin.NewCoin("IOV", 10),
		Nonce:       5,
	}
	_, err := h.Deliver(e.at(now, e.a), e.db, &custodiantest.Tx{Msg: msg})
	assert.IsErr(t, ErrNonceUsed, err)

	msg.Nonce = 4
	_, err = h.Deliver(e.at(now, e.a), e.db, &custodiantest.Tx{Msg: msg})
	assert.IsErr(t, ErrNonceUsed, err)

	// nonces are tracked per identity
	msg.Nonce = 5
	_, err = h.Deliver(e.at(now, e.b), e.db, &custodiantest.Tx{Msg: msg})
	assert.Nil(t, err)

	// strictly greater succeeds
	e.propose(t, now, e.a, 10, 6)
}

func TestSigningExpiredTransaction(t *testing.T) {
	e := newTestEnv(t)
	now := genesisTime
	id := e.propose(t, now, e.a, 100, 1)

	expiry := now.Add(defaultConfig.TransactionExpiry.Duration())

	// the expiry instant itself is still valid
	assert.Nil(t, e.sign(expiry, e.a, id))

	// one second later it is not
	err := e.sign(expiry+1, e.b, id)
	assert.IsErr(t, errors.ErrExpired, err)
}

func TestTimelockedTransaction(t *testing.T) {
	e := newTestEnv(t)
	now := genesisTime

	// amount at the threshold is timelocked
	id := e.propose(t, now, e.a, 500, 1)
	trans, _ := GetTransaction(e.db, id)
	unlock := now.Add(defaultConfig.TimelockDuration.Duration())
	assert.Equal(t, unlock, trans.TimelockUntil)

	ready, pending, err := QueueView(e.db, now)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(ready))
	assert.Equal(t, [][]byte{id}, pending)

	assert.Nil(t, e.sign(now, e.a, id))
	assert.Nil(t, e.sign(now, e.b, id))

	// too early
	assert.IsErr(t, ErrTimelockActive, e.execute(unlock-1, e.a, id))

	// the unlock instant itself is fine
	assert.Nil(t, e.execute(unlock, e.a, id))

	ready, pending, err = QueueView(e.db, unlock)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(ready))
	assert.Equal(t, 0, len(pending))
	queue, err := e.bucket.loadQueue(e.db)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{id}, queue.Executed)
}

func TestQueueViewSplitsReady(t *testing.T) {
	e := newTestEnv(t)
	now := genesisTime

	id := e.propose(t, now, e.a, 900, 1)
	unlock := now.Add(defaultConfig.TimelockDuration.Duration())

	ready, pending, err := QueueView(e.db, unlock)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{id}, ready)
	assert.Equal(t, 0, len(pending))
}

func TestDailySpendingLimit(t *testing.T) {
	e := newTestEnv(t)
	now := genesisTime

	approve := func(amount int64, nonce uint64) []byte {
		id := e.propose(t, now, e.a, amount, nonce)
		assert.Nil(t, e.sign(now, e.a, id))
		assert.Nil(t, e.sign(now, e.b, id))
		return id
	}

	// two transfers of 600 against a limit of 1000, both timelocked
	first := approve(600, 1)
	second := approve(600, 2)

	unlock := now.Add(defaultConfig.TimelockDuration.Duration())
	assert.Nil(t, e.execute(unlock, e.a, first))
	assert.IsErr(t, ErrSpendingLimit, e.execute(unlock, e.a, second))

	// the failed execution left the transaction approved
	trans, _ := GetTransaction(e.db, second)
	assert.Equal(t, StatusApproved, trans.Status)

	// the next day has a fresh allowance
	nextDay := now + secondsPerDay
	assert.Nil(t, e.execute(nextDay, e.a, second))

	spent, err := GetDailySpending(e.db, nextDay)
	assert.Nil(t, err)
	assert.Equal(t, int64(600), spent.Spent)
}

func TestDeactivatedSignerLosesWeight(t *testing.T) {
	e := newTestEnv(t)
	now := genesisTime

	id := e.propose(t, now, e.a, 100, 1)
	assert.Nil(t, e.sign(now, e.a, id))

	// admin deactivates alice after she signed
	rm := RemoveSignerHandler{auth: e.auth, bucket: e.bucket}
	_, err := rm.Deliver(e.at(now, e.admin), e.db,
		&custodiantest.Tx{Msg: &RemoveSignerMsg{Signer: e.a.Address()}})
	assert.Nil(t, err)

	// bob's signature alone no longer reaches the threshold because
	// alice's recorded signature now counts for nothing
	assert.Nil(t, e.sign(now, e.b, id))
	trans, _ := GetTransaction(e.db, id)
	assert.Equal(t, StatusProposed, trans.Status)

	// carol's signature makes it two active weights
	assert.Nil(t, e.sign(now, e.c, id))
	trans, _ = GetTransaction(e.db, id)
	assert.Equal(t, StatusApproved, trans.Status)
}

func TestSignerRegistryManagement(t *testing.T) {
	e := newTestEnv(t)
	now := genesisTime

	add := AddSignerHandler{auth: e.auth, bucket: e.bucket}
	rm := RemoveSignerHandler{auth: e.auth, bucket: e.bucket}

	// only the admin may manage signers
	_, err := add.Deliver(e.at(now, e.a), e.db, &custodiantest.Tx{Msg: &AddSignerMsg{
		Signer: custodiantest.NewKey("dave").Address(), Role: RoleTreasurer, Weight: 2,
	}})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// adding a registered signer again is rejected
	_, err = add.Deliver(e.at(now, e.admin), e.db, &custodiantest.Tx{Msg: &AddSignerMsg{
		Signer: e.a.Address(), Role: RoleOwner, Weight: 1,
	}})
	assert.IsErr(t, ErrInvalidSigner, err)

	// a new signer joins with weight two
	_, err = add.Deliver(e.at(now, e.admin), e.db, &custodiantest.Tx{Msg: &AddSignerMsg{
		Signer: custodiantest.NewKey("dave").Address(), Role: RoleTreasurer, Weight: 2,
	}})
	assert.Nil(t, err)

	signers, err := GetSigners(e.db)
	assert.Nil(t, err)
	assert.Equal(t, 4, signers.ActiveCount())
	assert.Equal(t, uint32(2), signers.WeightOf(custodiantest.NewKey("dave").Address()))

	// removing an unknown signer fails
	_, err = rm.Deliver(e.at(now, e.admin), e.db, &custodiantest.Tx{Msg: &RemoveSignerMsg{
		Signer: custodiantest.NewKey("nobody").Address(),
	}})
	assert.IsErr(t, errors.ErrNotFound, err)

	// shrink the registry down to the threshold
	for _, cond := range []custodian.Condition{e.a, e.b} {
		_, err = rm.Deliver(e.at(now, e.admin), e.db, &custodiantest.Tx{Msg: &RemoveSignerMsg{
			Signer: cond.Address(),
		}})
		assert.Nil(t, err)
	}

	// two active signers remain against a threshold of two, one more
	// removal would deadlock the wallet
	_, err = rm.Deliver(e.at(now, e.admin), e.db, &custodiantest.Tx{Msg: &RemoveSignerMsg{
		Signer: e.c.Address(),
	}})
	assert.IsErr(t, ErrInvalidSigner, err)

	// a deactivated signer cannot be removed again
	_, err = rm.Deliver(e.at(now, e.admin), e.db, &custodiantest.Tx{Msg: &RemoveSignerMsg{
		Signer: e.a.Address(),
	}})
	assert.IsErr(t, ErrSignerNotActive, err)
}

func TestUpdateConfig(t *testing.T) {
	e := newTestEnv(t)
	now := genesisTime

	h := UpdateConfigHandler{auth: e.auth, bucket: e.bucket}

	next := defaultConfig
	next.DailySpendingLimit = 5000

	_, err := h.Deliver(e.at(now, e.a), e.db, &custodiantest.Tx{Msg: &UpdateConfigMsg{Config: next}})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = h.Deliver(e.at(now, e.admin), e.db, &custodiantest.Tx{Msg: &UpdateConfigMsg{Config: next}})
	assert.Nil(t, err)

	cfg, err := GetConfig(e.db)
	assert.Nil(t, err)
	assert.Equal(t, int64(5000), cfg.DailySpendingLimit)
}

func TestBatchLifecycle(t *testing.T) {
	e := newTestEnv(t)
	now := genesisTime

	t1 := e.propose(t, now, e.a, 100, 1)
	t2 := e.propose(t, now, e.a, 150, 2)
	t3 := e.propose(t, now, e.a, 200, 3)

	proposeBatch := ProposeBatchHandler{auth: e.auth, bucket: e.bucket}
	signBatch := SignBatchHandler{auth: e.auth, bucket: e.bucket}
	executeBatch := ExecuteBatchHandler{bucket: e.bucket, mover: e.ctrl}

	res, err := proposeBatch.Deliver(e.at(now, e.a), e.db, &custodiantest.Tx{
		Msg: &ProposeBatchMsg{TransactionIDs: [][]byte{t1, t2, t3}, Nonce: 4},
	})
	assert.Nil(t, err)
	batchID := res.Data

	// members are claimed by the batch
	member, _ := GetTransaction(e.db, t1)
	assert.Equal(t, batchID, member.BatchID)

	// a claimed transaction cannot join another batch
	_, err = proposeBatch.Deliver(e.at(now, e.b), e.db, &custodiantest.Tx{
		Msg: &ProposeBatchMsg{TransactionIDs: [][]byte{t1}, Nonce: 1},
	})
	assert.IsErr(t, ErrAlreadyBatched, err)

	// weighted approval of the batch itself
	_, err = signBatch.Deliver(e.at(now, e.a), e.db, &custodiantest.Tx{Msg: &SignBatchMsg{BatchID: batchID}})
	assert.Nil(t, err)
	_, err = executeBatch.Deliver(e.at(now, e.a), e.db, &custodiantest.Tx{Msg: &ExecuteBatchMsg{BatchID: batchID}})
	assert.IsErr(t, ErrInvalidStatus, err)
	_, err = signBatch.Deliver(e.at(now, e.b), e.db, &custodiantest.Tx{Msg: &SignBatchMsg{BatchID: batchID}})
	assert.Nil(t, err)

	batch, err := GetBatch(e.db, batchID)
	assert.Nil(t, err)
	assert.Equal(t, StatusApproved, batch.Status)

	// approve two of the three members individually
	for _, id := range [][]byte{t1, t2} {
		assert.Nil(t, e.sign(now, e.a, id))
		assert.Nil(t, e.sign(now, e.b, id))
	}

	// best effort execution settles the approved members only
	_, err = executeBatch.Deliver(e.at(now, e.c), e.db, &custodiantest.Tx{Msg: &ExecuteBatchMsg{BatchID: batchID}})
	assert.Nil(t, err)

	member, _ = GetTransaction(e.db, t1)
	assert.Equal(t, StatusExecuted, member.Status)
	member, _ = GetTransaction(e.db, t2)
	assert.Equal(t, StatusExecuted, member.Status)
	member, _ = GetTransaction(e.db, t3)
	assert.Equal(t, StatusProposed, member.Status)

	batch, _ = GetBatch(e.db, batchID)
	assert.Equal(t, StatusExecuted, batch.Status)

	// spending of the settled members was committed
	spent, err := GetDailySpending(e.db, now)
	assert.Nil(t, err)
	assert.Equal(t, int64(250), spent.Spent)

	// a batch executes only once
	_, err = executeBatch.Deliver(e.at(now, e.c), e.db, &custodiantest.Tx{Msg: &ExecuteBatchMsg{BatchID: batchID}})
	assert.IsErr(t, ErrInvalidStatus, err)
}

func TestBatchSizeLimit(t *testing.T) {
	e := newTestEnv(t)
	now := genesisTime

	ids := make([][]byte, 0, 6)
	for i := uint64(1); i <= 6; i++ {
		ids = append(ids, e.propose(t, now, e.a, 10, i))
	}

	h := ProposeBatchHandler{auth: e.auth, bucket: e.bucket}
	_, err := h.Deliver(e.at(now, e.a), e.db, &custodiantest.Tx{
		Msg: &ProposeBatchMsg{TransactionIDs: ids, Nonce: 7},
	})
	assert.IsErr(t, ErrBatchSize, err)
}

func TestFreezeBlocksProposalsOnly(t *testing.T) {
	e := newTestEnv(t)
	now := genesisTime

	// an approved transfer exists before the freeze
	id := e.propose(t, now, e.a, 100, 1)
	assert.Nil(t, e.sign(now, e.a, id))

	freeze := FreezeHandler{auth: e.auth, bucket: e.bucket}

	// only the admin can freeze
	_, err := freeze.Deliver(e.at(now, e.a), e.db, &custodiantest.Tx{Msg: &FreezeMsg{}})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = freeze.Deliver(e.at(now, e.admin), e.db, &custodiantest.Tx{Msg: &FreezeMsg{}})
	assert.Nil(t, err)

	frozen, err := GetFreeze(e.db)
	assert.Nil(t, err)
	assert.Equal(t, true, frozen.Frozen)
	assert.Equal(t, now.Add(defaultConfig.EmergencyFreezeDuration.Duration()), frozen.UnfreezeAt)

	// no new proposals while frozen
	propose := ProposeTxHandler{auth: e.auth, bucket: e.bucket}
	_, err = propose.Deliver(e.at(now, e.b), e.db, &custodiantest.Tx{Msg: &ProposeTxMsg{
		Destination: custodiantest.NewKey("merchant").Address(),
		Amount:      coin.NewCoin("IOV", 10),
		Nonce:       1,
	}})
	assert.IsErr(t, ErrFrozen, err)

	// signing and executing proceed during the freeze
	assert.Nil(t, e.sign(now, e.b, id))
	assert.Nil(t, e.execute(now, e.b, id))
}

func TestUnfreezeAuthorization(t *testing.T) {
	e := newTestEnv(t)
	now := genesisTime

	freeze := FreezeHandler{auth: e.auth, bucket: e.bucket}
	unfreeze := UnfreezeHandler{auth: e.auth, bucket: e.bucket}

	// unfreezing a thawed wallet is an error
	_, err := unfreeze.Deliver(e.at(now, e.admin), e.db, &custodiantest.Tx{Msg: &UnfreezeMsg{}})
	assert.IsErr(t, errors.ErrState, err)

	_, err = freeze.Deliver(e.at(now, e.admin), e.db, &custodiantest.Tx{Msg: &FreezeMsg{Duration: 3600}})
	assert.Nil(t, err)
	deadline := now + 3600

	// a signer cannot unfreeze before the deadline
	_, err = unfreeze.Deliver(e.at(deadline-1, e.a), e.db, &custodiantest.Tx{Msg: &UnfreezeMsg{}})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// once the deadline is reached anyone can
	_, err = unfreeze.Deliver(e.at(deadline, e.a), e.db, &custodiantest.Tx{Msg: &UnfreezeMsg{}})
	assert.Nil(t, err)

	frozen, _ := GetFreeze(e.db)
	assert.Equal(t, false, frozen.Frozen)

	// the admin may lift a fresh freeze at any time
	_, err = freeze.Deliver(e.at(now, e.admin), e.db, &custodiantest.Tx{Msg: &FreezeMsg{}})
	assert.Nil(t, err)
	_, err = unfreeze.Deliver(e.at(now, e.admin), e.db, &custodiantest.Tx{Msg: &UnfreezeMsg{}})
	assert.Nil(t, err)
}

func TestPauseBlocksProposals(t *testing.T) {
	e := newTestEnv(t)
	now := genesisTime

	pause := PauseHandler{auth: e.auth, bucket: e.bucket, pause: true}
	unpause := PauseHandler{auth: e.auth, bucket: e.bucket, pause: false}

	_, err := pause.Deliver(e.at(now, e.a), e.db, &custodiantest.Tx{Msg: &PauseMsg{}})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = pause.Deliver(e.at(now, e.admin), e.db, &custodiantest.Tx{Msg: &PauseMsg{}})
	assert.Nil(t, err)

	propose := ProposeTxHandler{auth: e.auth, bucket: e.bucket}
	_, err = propose.Deliver(e.at(now, e.a), e.db, &custodiantest.Tx{Msg: &ProposeTxMsg{
		Destination: custodiantest.NewKey("merchant").Address(),
		Amount:      coin.NewCoin("IOV", 10),
		Nonce:       1,
	}})
	assert.IsErr(t, ErrPaused, err)

	_, err = unpause.Deliver(e.at(now, e.admin), e.db, &custodiantest.Tx{Msg: &UnpauseMsg{}})
	assert.Nil(t, err)
	e.propose(t, now, e.a, 10, 1)
}

func TestCheckAllocatesGas(t *testing.T) {
	e := newTestEnv(t)
	now := genesisTime

	h := ProposeTxHandler{auth: e.auth, bucket: e.bucket}
	res, err := h.Check(e.at(now, e.a), e.db, &custodiantest.Tx{Msg: &ProposeTxMsg{
		Destination: custodiantest.NewKey("merchant").Address(),
		Amount:      coin.NewCoin("IOV", 10),
		Nonce:       1,
	}})
	assert.Nil(t, err)
	assert.Equal(t, proposeCost, res.GasAllocated)

	// check must not consume the nonce
	e.propose(t, now, e.a, 10, 1)
}

func TestVersionAndState(t *testing.T) {
	e := newTestEnv(t)

	version, err := GetVersion(e.db)
	assert.Nil(t, err)
	assert.Equal(t, uint32(1), version)

	state, err := GetState(e.db)
	assert.Nil(t, err)
	assert.Equal(t, e.admin.Address(), state.Admin)
	assert.Equal(t, false, state.Paused)
}
