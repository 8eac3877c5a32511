// Package ir provides the serializable records shared by arbor's compiler,
// engine and store.
//
// This package contains type definitions and their canonical encoding only.
// All other internal packages may import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Identity hashes are computed over canonical JSON (MarshalCanonical)
//   - Canonical values carry no floats; planet coordinates live only in
//     snapshots, which are stored as plain JSON and never hashed
//   - All JSON tags use snake_case
//   - Turns are ordered by a logical sequence number, not wall-clock time
package ir
