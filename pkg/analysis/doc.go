// Package analysis turns one repository URL into a [Report].
//
// [Analyzer.Analyze] runs a fixed sequence of stages:
//
//  1. Fetch: materialize the working tree through a [source.Fetcher]
//  2. Detect: find the dependency ecosystems present in the tree
//  3. Extract: collect declared dependencies per ecosystem
//  4. Resolve: fill license and documentation URL for each dependency
//  5. Assemble: build the report with repository metadata and
//     infrastructure findings
//
// Only a fetch failure fails the repository. Every later stage degrades:
// unreadable manifests are skipped, failed lookups become "unknown", and
// dependencies beyond the per-ecosystem budget are recorded as unresolved.
//
// Resolution visits dependencies in (ecosystem, name) order. The override
// table is consulted first and never consumes budget; the remaining lookups
// are dispatched concurrently and awaited together, so the report never
// depends on completion order.
package analysis
