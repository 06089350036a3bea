// Package main implements the release CLI tool.
//
// The release tool automates publishing a JavaScript package. It reads the
// current version from package.json, works out the next semantic version
// (asking interactively unless a version is passed), and then runs, in order:
// type check, lint, unit tests, clean, type declaration build, bundle build,
// version write, changelog generation, commit ("release: v<version>"),
// publish, tag ("v<version>"), tag push and commit push.
//
// Command Usage:
//
//	release [version] [flags]
//
// Flags:
//
//	--preid:      Prerelease identifier (alpha, beta, rc or any other). When the current
//	              version is already a prerelease, its identifier is used by default.
//	              Prerelease release types are only offered when an identifier is active.
//	--dry:        Resolve the version and print the steps without running any of them.
//	-y, --yes:    Answer yes to every confirmation. The version must then be given as an argument.
//	--config:     Path to a YAML config file (default: <dir>/.release.yaml).
//	-C, --dir:    Project directory (default: current directory).
//	-v, --verbose: Debug logging.
//	-h, --help:   Describe the release types, prerelease identifiers and custom versions.
//	--version:    Displays the version of the release CLI tool and exits.
//
// Examples:
//
//	# Pick the release type interactively
//	release
//
//	# Release the next minor version (e.g. 1.2.3 → 1.3.0)
//	release minor
//
//	# Start a beta series (e.g. 1.2.3 → 1.3.0-beta.0 with "Preminor")
//	release --preid=beta
//
//	# Bump a prerelease (e.g. 1.3.0-beta.0 → 1.3.0-beta.1)
//	release prerelease
//
//	# Release an explicit version
//	release 2.0.0
//
// The config file can replace the package manager, the scripts run for each
// step, the remote and the tag prefix:
//
//	packageManager: npm
//	remote: upstream
//	scripts:
//	  test: ["test", "--", "--run"]
//	  publish: ["publish", "--access", "public"]
//
// If a step fails after package.json has been written, the original version
// is written back before the tool exits with a non-zero status. Declining a
// prompt exits with status 0 and changes nothing.
package main
