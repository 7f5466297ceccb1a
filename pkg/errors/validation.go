package errors

import (
	"os"
	"regexp"
	"strings"
	"unicode"
)

// ValidatePackageName validates a dependency identifier for safety.
// It rejects names that could be used for path traversal or injection
// when interpolated into registry URLs.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or whitespace
//   - No path traversal sequences (.., //, backslash)
//   - Maximum length of 256 characters
//
// Ecosystem-specific grammars are checked by [ValidateDependency].
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters")
		}
	}

	for _, pattern := range []string{"..", "//", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

var (
	// PEP 508 names, without the trailing-alnum requirement so that
	// permissive requirement lines still pass.
	pythonNameRE = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	npmNameRE    = regexp.MustCompile(`^(@[A-Za-z0-9-~][A-Za-z0-9-._~]*/)?[A-Za-z0-9-~][A-Za-z0-9-._~]*$`)
	mavenPartRE  = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
	nugetNameRE  = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)
)

// ValidateDependency validates name against the identifier grammar of the
// given ecosystem ("python", "javascript", "java", "dotnet").
func ValidateDependency(ecosystem, name string) error {
	if err := ValidatePackageName(name); err != nil {
		return err
	}

	switch ecosystem {
	case "python":
		if !pythonNameRE.MatchString(name) {
			return New(ErrCodeInvalidPackage, "invalid Python package name: %q", name)
		}
	case "javascript":
		if !npmNameRE.MatchString(name) {
			return New(ErrCodeInvalidPackage, "invalid npm package name: %q", name)
		}
	case "java":
		group, artifact, ok := strings.Cut(name, ":")
		if !ok || !mavenPartRE.MatchString(group) || !mavenPartRE.MatchString(artifact) {
			return New(ErrCodeInvalidPackage, "invalid Maven coordinate %q (expected groupId:artifactId)", name)
		}
	case "dotnet":
		if !nugetNameRE.MatchString(name) {
			return New(ErrCodeInvalidPackage, "invalid NuGet package id: %q", name)
		}
	default:
		return New(ErrCodeInvalidEcosystem, "unknown ecosystem %q", ecosystem)
	}
	return nil
}

// ValidateRepoURL validates one entry of the repository list.
// Accepted forms are http(s) URLs, ssh (git@host:path) remotes, file://
// URLs and existing local directories.
func ValidateRepoURL(raw string) error {
	if raw == "" {
		return New(ErrCodeInvalidInput, "repository url cannot be empty")
	}
	for _, r := range raw {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "repository url contains invalid characters: %q", raw)
		}
	}
	switch {
	case strings.HasPrefix(raw, "https://"), strings.HasPrefix(raw, "http://"):
		return nil
	case strings.HasPrefix(raw, "git@"), strings.HasPrefix(raw, "ssh://"):
		return nil
	case strings.HasPrefix(raw, "file://"):
		return nil
	}
	if info, err := os.Stat(raw); err == nil && info.IsDir() {
		return nil
	}
	return New(ErrCodeInvalidInput, "unsupported repository url %q (want http(s), ssh, file:// or a local directory)", raw)
}
