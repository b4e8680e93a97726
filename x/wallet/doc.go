/*
Package wallet implements a weighted multi-signature custody engine.

A registry of weighted signers guards outgoing transfers. Any active signer
may propose a transfer, which then collects signatures until the combined
weight of the still-active co-signers meets the configured threshold. An
approved transfer can be executed, subject to a per-day spending cap and,
for large amounts, a timelock delay. Transfers can also be grouped into
batches that approve together and execute best-effort.

An administrator manages the signer registry and the configuration, can
pause all proposal intake and can declare an emergency freeze.
*/
package wallet
