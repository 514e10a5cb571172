package cognito

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAccessToken(t *testing.T) {
	tests := []struct {
		name    string
		headers http.Header
		want    string
		wantErr error
	}{
		{name: "no headers", headers: http.Header{}, wantErr: ErrAccessTokenMissing},
		{name: "unrelated headers only", headers: http.Header{"Content-Type": {"application/json"}}, wantErr: ErrAccessTokenMissing},
		{name: "empty value", headers: http.Header{"Authorization": {""}}, wantErr: ErrAccessTokenMalformed},
		{name: "present with no values", headers: http.Header{"Authorization": {}}, wantErr: ErrAccessTokenMissing},
		{name: "bearer token", headers: http.Header{"Authorization": {"Bearer abc123"}}, want: "abc123"},
		{name: "lowercase scheme", headers: http.Header{"Authorization": {"bearer abc123"}}, wantErr: ErrAccessTokenMalformed},
		{name: "basic scheme", headers: http.Header{"Authorization": {"Basic dXNlcjpwYXNz"}}, wantErr: ErrAccessTokenMalformed},
		{name: "scheme only", headers: http.Header{"Authorization": {"Bearer"}}, wantErr: ErrAccessTokenMalformed},
		{name: "empty token", headers: http.Header{"Authorization": {"Bearer "}}, wantErr: ErrAccessTokenMalformed},
		{name: "double space", headers: http.Header{"Authorization": {"Bearer  abc123"}}, wantErr: ErrAccessTokenMalformed},
		{name: "raw token", headers: http.Header{"Authorization": {"abc123"}}, wantErr: ErrAccessTokenMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractAccessToken(tt.headers)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractAccessTokenCanonicalKey(t *testing.T) {
	h := http.Header{}
	h.Set("authorization", "Bearer abc123")

	got, err := ExtractAccessToken(h)
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)
}
