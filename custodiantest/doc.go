/*
Package custodiantest provides mocks and helpers for testing extensions.

Structures defined here implement the core interfaces with a deterministic,
in-memory behaviour so that handler logic can be tested without a real
backing store or signature verification.
*/
package custodiantest
