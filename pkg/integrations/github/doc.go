// Package github provides an HTTP client for the GitHub REST API.
//
// depaudit only needs one thing from GitHub: the detected license of a
// dependency's source repository, used when a registry lists a GitHub URL
// but no license.
//
// # Usage
//
//	client := github.NewClient(token, backend, 24*time.Hour, transport)
//	lic, err := client.FetchLicense(ctx, "pallets", "flask", false)
//
// # Authentication
//
// A GitHub personal access token is optional but recommended to avoid rate
// limits. Without a token, the client is limited to 60 requests/hour.
// With a token, the limit is 5000 requests/hour. The CLI reads the token
// from GITHUB_TOKEN (a .env file is honoured).
package github
