// Package pypi provides an HTTP client for the Python Package Index JSON API.
//
// # Usage
//
//	client := pypi.NewClient(backend, 24*time.Hour, transport)
//	pkg, err := client.FetchPackage(ctx, "fastapi", false)  // false = use cache
//	if err != nil {
//	    return err
//	}
//	fmt.Println(pkg.License, pkg.HomePage)
//
// # License extraction
//
// PyPI exposes license data in three places of varying quality. [FetchPackage]
// prefers the PEP 639 license_expression, then a short free-form license
// field, then the last segment of a "License ::" trove classifier.
//
// Package names are normalized following PEP 503.
package pypi
