// Package source retrieves script file contents, either from the raw file
// endpoint of a hosted git repository or from a local checkout.
//
// Remote files are addressed as {repo-url}/raw/{branch}/{name}. Any non-2xx
// response is reported as a *StatusError; the body is never inspected beyond
// that.
package source
