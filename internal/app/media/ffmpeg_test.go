package media

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasAudio(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{
			name: "video and audio streams",
			raw:  `{"streams":[{"codec_type":"video","codec_name":"h264"},{"codec_type":"audio","codec_name":"aac"}]}`,
			want: true,
		},
		{
			name: "video only",
			raw:  `{"streams":[{"codec_type":"video","codec_name":"h264"}]}`,
			want: false,
		},
		{
			name: "no streams",
			raw:  `{"streams":[]}`,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var probe ffprobeOutput
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &probe))
			assert.Equal(t, tt.want, hasAudio(&probe))
		})
	}
}

func TestTail(t *testing.T) {
	assert.Equal(t, "short", tail("  short  ", 200))
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	assert.Len(t, tail(string(long), 200), 200)
}
