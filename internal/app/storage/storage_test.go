package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		name       string
		ref        string
		bucket     string
		objectPath string
		hasErr     bool
	}{
		{"valid", "minio://temp-audio/job123_170000.mp3", "temp-audio", "job123_170000.mp3", false},
		{"nested path", "minio://thumbnails/2026/01/a.jpg", "thumbnails", "2026/01/a.jpg", false},
		{"public url", "http://localhost:9000/thumbnails/a.jpg", "", "", true},
		{"missing path", "minio://temp-audio", "", "", true},
		{"empty bucket", "minio:///a.mp3", "", "", true},
		{"empty", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, objectPath, err := ParseRef(tt.ref)
			if tt.hasErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.objectPath, objectPath)
		})
	}
}

func TestFormatRefRoundTrip(t *testing.T) {
	ref := FormatRef("temp-audio", "job_1.mp3")
	assert.Equal(t, "minio://temp-audio/job_1.mp3", ref)

	bucket, objectPath, err := ParseRef(ref)
	require.NoError(t, err)
	assert.Equal(t, "temp-audio", bucket)
	assert.Equal(t, "job_1.mp3", objectPath)
}

// fakeObjects records uploads for Store-level assertions.
type fakeObjects struct {
	uploads map[string][]byte
	public  map[string]bool
	types   map[string]string
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{
		uploads: map[string][]byte{},
		public:  map[string]bool{},
		types:   map[string]string{},
	}
}

func (f *fakeObjects) Upload(_ context.Context, bucket, objectPath string, data []byte, contentType string, public bool) (string, error) {
	key := bucket + "/" + objectPath
	f.uploads[key] = data
	f.public[key] = public
	f.types[key] = contentType
	if public {
		return "http://localhost:9000/" + key, nil
	}
	return FormatRef(bucket, objectPath), nil
}

func (f *fakeObjects) Download(_ context.Context, bucket, objectPath string) ([]byte, error) {
	return f.uploads[bucket+"/"+objectPath], nil
}

func (f *fakeObjects) Delete(_ context.Context, bucket, objectPath string) error {
	delete(f.uploads, bucket+"/"+objectPath)
	return nil
}

func TestStoreUploadAudio(t *testing.T) {
	objects := newFakeObjects()
	store := NewStore(objects, "temp-audio", "thumbnails")

	ref, objectPath, err := store.UploadAudio(context.Background(), "job-abc", []byte("mp3data"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ref, "minio://temp-audio/"))
	assert.True(t, strings.HasPrefix(objectPath, "job-abc_"))
	assert.True(t, strings.HasSuffix(objectPath, ".mp3"))

	key := "temp-audio/" + objectPath
	assert.Equal(t, []byte("mp3data"), objects.uploads[key])
	assert.False(t, objects.public[key])
	assert.Equal(t, "audio/mpeg", objects.types[key])

	// and it round-trips through DownloadAudio
	data, err := store.DownloadAudio(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3data"), data)
}

func TestStoreUploadThumbnail(t *testing.T) {
	objects := newFakeObjects()
	store := NewStore(objects, "temp-audio", "thumbnails")

	ref, err := store.UploadThumbnail(context.Background(), "job-abc", []byte{0xff, 0xd8})
	require.NoError(t, err)

	// public thumbnails come back as a plain URL, not an internal ref
	assert.True(t, strings.HasPrefix(ref, "http://"))

	for key, public := range objects.public {
		assert.True(t, public)
		assert.Equal(t, "image/jpeg", objects.types[key])
	}
}
