// Package backend is the remote storage adapter: the same store contracts
// as internal/store, speaking JSON over HTTP to a central API. The server
// side only ever receives the opaque records of internal/domain.
package backend
