package repository

import (
	"strconv"
	"strings"

	"reelscribe/internal/app/errors"
)

// FormatVector renders a vector in pgvector text form: "[v1,v2,v3]". The
// same representation is stored as plain text on SQLite.
func FormatVector(vector []float32) string {
	var b strings.Builder
	b.Grow(len(vector)*10 + 2)
	b.WriteByte('[')
	for i, v := range vector {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

// ParseVector is the inverse of FormatVector.
func ParseVector(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, errors.Newf(errors.KindInternal, "malformed vector text: %q", s)
	}

	body := s[1 : len(s)-1]
	if body == "" {
		return []float32{}, nil
	}

	parts := strings.Split(body, ",")
	vector := make([]float32, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, errors.Wrapf(errors.KindInternal, err, "malformed vector component %q", p)
		}
		vector[i] = float32(f)
	}
	return vector, nil
}
