// Package npm provides an HTTP client for the npm registry.
//
// [Client.FetchPackage] reads the package document at
// https://registry.npmjs.org/<name> and normalizes its license (a plain
// string, a {type} object, or the legacy licenses array) and its homepage
// and repository links. Scoped names such as "@types/node" are supported.
package npm
