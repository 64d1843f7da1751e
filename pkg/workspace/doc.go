/*
Package workspace orchestrates access to stored workflows.

A workflow graph is mutated in place and is not safe for concurrent use, so
every read-modify-write cycle runs under a per-workflow lock: a process-local
mutex, reference counted so idle entries are dropped, plus an optional
distributed lock for deployments with several replicas sharing a store.
*/
package workspace
