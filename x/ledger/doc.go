/*
Package ledger keeps track of asset balances per account address and allows
moving funds between accounts.

It is designed as the settlement layer beneath the wallet extension. A
custody address holds the pooled funds and the MoveCoins operation is how an
executed transfer pays out.
*/
package ledger
