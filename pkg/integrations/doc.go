// Package integrations provides HTTP clients for package registry APIs.
//
// # Overview
//
// This package contains low-level API clients for fetching license and
// documentation metadata from public registries. Each registry has its own
// subpackage:
//
//   - [pypi]: Python Package Index
//   - [npm]: npm registry
//   - [maven]: Maven Central search and POM files
//   - [nuget]: NuGet registration index and catalog
//   - [github]: GitHub license endpoint, used as a fallback
//
// # Client Pattern
//
// All registry clients follow a consistent pattern:
//
//	client := pypi.NewClient(backend, 24*time.Hour, transport)
//	pkg, err := client.FetchPackage(ctx, "fastapi", false)  // false = use cache
//
// Clients handle:
//   - HTTP requests through a shared [httputil.Limiter]
//   - Retry of transient failures
//   - Response caching via [cache.Cache] with a configurable TTL
//
// Registry payloads are third-party contracts; every field is treated as
// optional and missing shapes surface as [ErrNotFound] or [ErrMalformed].
//
// [pypi]: github.com/matzehuels/depaudit/pkg/integrations/pypi
// [npm]: github.com/matzehuels/depaudit/pkg/integrations/npm
// [maven]: github.com/matzehuels/depaudit/pkg/integrations/maven
// [nuget]: github.com/matzehuels/depaudit/pkg/integrations/nuget
// [github]: github.com/matzehuels/depaudit/pkg/integrations/github
// [cache.Cache]: github.com/matzehuels/depaudit/pkg/cache.Cache
// [httputil.Limiter]: github.com/matzehuels/depaudit/pkg/httputil.Limiter
package integrations
