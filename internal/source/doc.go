// Package source loads the user record collection from a remote JSON endpoint.
//
// The package has three layers:
//   - Record: a schema-less JSON object with dotted-path lookup
//   - Loader / HTTPLoader: a single GET of the full collection, no retries
//   - QueryClient: caches the successful result under a stable query key and
//     shares one in-flight load between concurrent callers
//
// Every failure surfaces as a *FetchError matching ErrFetchFailed; callers
// never need to distinguish transport errors from bad status codes.
package source
