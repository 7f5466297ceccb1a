// Package maven provides an HTTP client for Maven Central.
//
// # Usage
//
//	client := maven.NewClient(backend, 24*time.Hour, transport)
//	artifact, err := client.FetchArtifact(ctx, "com.google.guava:guava", false)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(artifact.Coordinate(), artifact.Licenses, artifact.URL)
//
// # Coordinates
//
// Maven artifacts are identified by coordinates in the format "groupId:artifactId".
// For example: "com.google.guava:guava", "org.apache.commons:commons-lang3".
//
// # Two-Phase Fetch
//
// The client performs two requests:
//  1. Maven Central Search API, exact g/a match, first hit only
//  2. The artifact POM from repo1.maven.org for <licenses> and <url>
//
// A failed POM fetch is not an error; the artifact is returned without
// license data.
package maven
