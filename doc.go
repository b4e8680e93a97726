/*
Package custodian defines the common interfaces that tie together the
multi-signature custody engine: addresses and conditions, unix time,
the per-call context, transaction and handler contracts, and the
key-value store abstraction every extension persists into.

The engine itself lives under x/wallet, the asset ledger it drives
under x/ledger. The surrounding execution environment is expected to
serialize calls against one wallet's state; within a call every
read/check/write sequence is atomic because a failed call discards all
of its writes.
*/
package custodian
