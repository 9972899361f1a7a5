// Package cloudwriter abstracts buffered object-store uploads so the
// parquet sink can write to S3 the same way it writes to a local file.
package cloudwriter

// ObjectWriter buffers writes and uploads the object on Close.
type ObjectWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

// Factory creates writers for a given bucket and object path.
type Factory interface {
	NewWriter(bucket, objectPath string) (ObjectWriter, error)
}
