// Package nuget provides an HTTP client for the NuGet v3 registration API.
//
// License data lives two hops away from a package id:
//
//  1. GET {base}/{id-lower}/index.json, the registration index
//  2. take the last page; fetch it by @id when its items are not inlined
//  3. take the last leaf of that page and read its catalogEntry, following
//     the entry's @id when the inline object lacks license fields
//
// Any step with a missing or unexpected shape yields [ErrShape].
package nuget
