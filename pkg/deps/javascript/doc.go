// Package javascript extracts declared npm dependencies from package.json
// files. Both dependencies and devDependencies are reported; version
// ranges are kept verbatim.
package javascript
