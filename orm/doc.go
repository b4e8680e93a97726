/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called buckets,
and work with intelligent models inside these buckets,
not raw bytes.
*/
package orm
