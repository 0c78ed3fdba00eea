// Package sources resolves the batch of documentation sources to process.
//
// Each source is described by one file holding a single record:
//
//	name: Cobra
//	repo: https://github.com/spf13/cobra
//	path: site/content
//
// or the JSON equivalent ({"name": ..., "repo": ..., "path": ...}).
// Unknown fields are ignored.
//
// # Usage
//
//	loader := sources.NewLoader(sources.LoaderOptions{Dir: "./sources"})
//	res, err := loader.Resolve(args, sources.Environment{...})
//	if err != nil {
//	    log.Fatal(err) // nothing to do
//	}
//	for _, src := range res.Sources {
//	    // Process each source
//	}
//
// A file that is missing, malformed or incomplete is reported in
// Resolution.Skipped and does not stop the other files. When no file is
// given the single source comes from REPO_URL, PROJECT_NAME and DOCS_PATH.
//
// # Error Handling
//
// The package defines sentinel errors for common failure cases:
//   - ErrNoSources: no valid source could be resolved
//   - ErrMissingEnvironment: environment fallback is incomplete
//   - ErrFileNotFound: source file does not exist
//   - ErrInvalidFormat: file is not valid YAML/JSON
//   - ErrUnsupportedExt: unsupported file extension
//   - ErrMissingField: a required field is empty
package sources
