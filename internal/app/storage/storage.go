package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"reelscribe/internal/app/errors"
)

// ObjectStorage is the blob storage capability. Upload returns a storage
// reference: "minio://bucket/path" for private objects, a plain public URL
// for public ones.
type ObjectStorage interface {
	Upload(ctx context.Context, bucket, objectPath string, data []byte, contentType string, public bool) (string, error)
	Download(ctx context.Context, bucket, objectPath string) ([]byte, error)
	Delete(ctx context.Context, bucket, objectPath string) error
}

const refScheme = "minio://"

// ParseRef splits an internal storage reference into bucket and object path.
func ParseRef(ref string) (bucket, objectPath string, err error) {
	if !strings.HasPrefix(ref, refScheme) {
		return "", "", errors.Newf(errors.KindInternal, "not an internal storage reference: %q", ref)
	}
	rest := strings.TrimPrefix(ref, refScheme)
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Newf(errors.KindInternal, "malformed storage reference: %q", ref)
	}
	return parts[0], parts[1], nil
}

// FormatRef builds an internal storage reference.
func FormatRef(bucket, objectPath string) string {
	return refScheme + bucket + "/" + objectPath
}

// Store gives the pipeline domain-shaped upload operations over
// ObjectStorage and the configured bucket names.
type Store struct {
	objects         ObjectStorage
	audioBucket     string
	thumbnailBucket string
}

func NewStore(objects ObjectStorage, audioBucket, thumbnailBucket string) *Store {
	return &Store{
		objects:         objects,
		audioBucket:     audioBucket,
		thumbnailBucket: thumbnailBucket,
	}
}

// UploadAudio stores extracted audio privately under a collision-free name
// and returns (storage reference, object path).
func (s *Store) UploadAudio(ctx context.Context, jobID string, audio []byte) (string, string, error) {
	objectPath := fmt.Sprintf("%s_%d.mp3", jobID, time.Now().Unix())

	ref, err := s.objects.Upload(ctx, s.audioBucket, objectPath, audio, "audio/mpeg", false)
	if err != nil {
		return "", "", errors.Wrap(errors.KindUploadFailed, err, "uploading audio")
	}
	return ref, objectPath, nil
}

// UploadThumbnail stores a thumbnail JPEG publicly and returns its URL.
func (s *Store) UploadThumbnail(ctx context.Context, jobID string, jpeg []byte) (string, error) {
	objectPath := fmt.Sprintf("%s_%d.jpg", jobID, time.Now().Unix())

	ref, err := s.objects.Upload(ctx, s.thumbnailBucket, objectPath, jpeg, "image/jpeg", true)
	if err != nil {
		return "", errors.Wrap(errors.KindUploadFailed, err, "uploading thumbnail")
	}
	return ref, nil
}

// DownloadAudio resolves an internal storage reference back to bytes.
func (s *Store) DownloadAudio(ctx context.Context, ref string) ([]byte, error) {
	bucket, objectPath, err := ParseRef(ref)
	if err != nil {
		return nil, err
	}

	data, err := s.objects.Download(ctx, bucket, objectPath)
	if err != nil {
		return nil, errors.Wrap(errors.KindExternalService, err, "downloading audio from storage")
	}
	return data, nil
}
