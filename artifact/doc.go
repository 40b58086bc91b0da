// Package artifact abstracts storage of serialized model artifacts.
//
// An artifact is an immutable named blob: once written it is only ever
// read linearly or deleted. Backends exist for the local filesystem, for
// process memory (tests), and for S3/MinIO object storage under their
// respective subpackages.
package artifact
