// Package release provides the building blocks of an interactive release
// pipeline for JavaScript packages.
//
// It provides functionalities for:
//   - Computing the next semantic version from the current one and a release type
//     (patch, minor, major, prepatch, preminor, premajor, prerelease) with an
//     optional prerelease identifier, or validating a custom version.
//   - Asking the user which version to release and confirming it.
//   - Running the fixed release sequence: type check, lint, unit tests, clean,
//     build, write the version to package.json, changelog, commit, publish, tag
//     and push.
//   - Restoring the original version in package.json when the sequence fails.
//
// Usage Example:
//
//	store, err := release.OpenStore(osfs.New(dir), "package.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rc, err := release.NewReleaseContext(dir, release.DefaultConfig(), store.Version(), "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	repo, err := release.OpenGitRepository(dir)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r := &release.Releaser{
//	    Prompter: release.NewHuhPrompter(),
//	    Runner:   release.NewCommandRunner(dir),
//	    Repo:     repo,
//	    Store:    store,
//	}
//	meta, err := r.Release(ctx, rc, "minor")
//
// The command line tool in the repository root wraps this package.
package release
