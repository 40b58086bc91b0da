// Package s3 provides an artifact.Store backed by Amazon S3.
package s3
