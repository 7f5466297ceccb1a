// Package dotnet extracts declared NuGet dependencies.
//
// Supported files:
//
//   - *.csproj, *.fsproj, *.vbproj: PackageReference items, with the
//     version as an attribute or a child element
//   - packages.config: legacy package id/version entries
//   - Directory.Packages.props: central PackageVersion entries, used for
//     references that omit a version
//
// Files that are not well-formed XML are scanned with a regular expression
// for Include/Version attribute pairs instead of being skipped.
package dotnet
