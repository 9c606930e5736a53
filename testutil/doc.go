// Package testutil provides helpers for tests that launch real commands:
// skipping when a required binary is absent and writing throwaway
// executable scripts.
package testutil
