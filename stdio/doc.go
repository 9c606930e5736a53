// Package stdio models the standard-stream layout of an invocation
// and builds the transformer pipelines spliced between a child process and
// its parent's streams.
//
// Each of the three stream positions holds either a primitive mode (pipe,
// inherit, ignore) or a Transformer — an incremental transform fed one
// chunk at a time, with an explicit finalization step once the stream ends.
// Bind resolves a Spec against an *exec.Cmd before it starts; after the
// process exits, Binding.Finalize runs every transformer's Flush exactly
// once.
//
// Transformers follow the same feed/finish discipline as a pull iterator's
// Next/Close pair: chunks arrive in order, the finalizer may emit one last
// derived chunk, and any error aborts that stream's pipeline without
// tearing down the process itself.
package stdio
