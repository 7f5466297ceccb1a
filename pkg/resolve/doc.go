// Package resolve enriches dependency records with license and
// documentation metadata from public package registries.
//
// # Overview
//
// Each ecosystem has a [Fetcher] that wraps one registry client from
// [github.com/matzehuels/depaudit/pkg/integrations]. A [Resolver] puts a
// fetcher behind a shared memo cache and a singleflight group so that a
// package looked up by several repositories hits the registry once per run.
//
// [Resolver.Resolve] never returns an error. Registry failures degrade to
// [deps.LicenseUnknown] with an empty URL and are logged as warnings; a
// panic inside a fetcher or a cancelled context yields
// [deps.LicenseLookupFailed].
//
// # Fallback derivation
//
// When a registry reports no license but the documentation URL points at a
// GitHub repository, the GitHub license endpoint is queried and its SPDX id
// is used instead.
//
// # Budgets
//
// A [Set] bundles one resolver per ecosystem together with the per-repository
// budget of new remote resolutions ([DefaultBudgets]). Budgets are enforced by
// the caller; the resolvers themselves are unbounded.
//
// # Usage
//
//	set, err := resolve.New(resolve.Config{
//	    Cache:     backend,
//	    Transport: integrations.Transport{Limiter: httputil.NewLimiter(10, 100*time.Millisecond)},
//	    Logger:    logger,
//	})
//	res := set.Resolver(deps.Python).Resolve(ctx, "requests", "==2.31.0")
//	fmt.Println(res.License, res.URL)
package resolve
