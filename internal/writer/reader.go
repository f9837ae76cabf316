package writer

import (
	"context"
	"log"
)

// SnapshotReader serves the latest published document, preferring the Redis
// mirror and falling back to the file on disk.
type SnapshotReader struct {
	redis *RedisWriter
	file  *FileWriter
}

func NewSnapshotReader(redisWriter *RedisWriter, fileWriter *FileWriter) *SnapshotReader {
	return &SnapshotReader{redis: redisWriter, file: fileWriter}
}

func (r *SnapshotReader) Latest(ctx context.Context) ([]byte, error) {
	if r.redis != nil {
		data, err := r.redis.Latest(ctx)
		if err != nil {
			log.Printf("snapshot reader: redis read: %v", err)
		}
		if len(data) > 0 {
			return data, nil
		}
	}
	if r.file != nil {
		return r.file.Read()
	}
	return nil, nil
}
