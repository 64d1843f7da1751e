/*
Package observability provides tools for monitoring the routing passes.

It turns domain.LifecycleHooks into Prometheus metrics and structured log
lines, and chains several hook sets so they can be installed together.
*/
package observability
