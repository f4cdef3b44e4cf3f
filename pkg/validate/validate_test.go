package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeUsername(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "SomeUser", want: "someuser"},
		{name: "leading at", input: "@SomeUser", want: "someuser"},
		{name: "surrounding whitespace", input: "  @Some_User_99  ", want: "some_user_99"},
		{name: "minimum length", input: "abcde", want: "abcde"},
		{name: "maximum length", input: strings.Repeat("a", 32), want: strings.Repeat("a", 32)},
		{name: "empty", input: "", wantErr: true},
		{name: "only at", input: "@", wantErr: true},
		{name: "too short", input: "abcd", wantErr: true},
		{name: "too long", input: strings.Repeat("a", 33), wantErr: true},
		{name: "dash not allowed", input: "some-user", wantErr: true},
		{name: "space inside", input: "some user", wantErr: true},
		{name: "double at", input: "@@someuser", wantErr: true},
		{name: "unicode", input: "пользователь", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeUsername(tt.input)
			if tt.wantErr {
				require.Error(t, err, "NormalizeUsername(%q)", tt.input)
				return
			}
			require.NoError(t, err, "NormalizeUsername(%q)", tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplicationDescription(t *testing.T) {
	_, err := ApplicationDescription("too short")
	assert.Error(t, err, "9 characters should be rejected")

	got, err := ApplicationDescription("  long enough text  ")
	require.NoError(t, err)
	assert.Equal(t, "long enough text", got, "description should be trimmed")

	_, err = ApplicationDescription(strings.Repeat("x", 501))
	assert.Error(t, err, "501 characters should be rejected")

	_, err = ApplicationDescription(strings.Repeat("x", 500))
	assert.NoError(t, err, "500 characters should be accepted")
}

func TestReportDescription(t *testing.T) {
	_, err := ReportDescription(strings.Repeat("x", 19))
	assert.Error(t, err, "19 characters should be rejected")

	_, err = ReportDescription(strings.Repeat("x", 20))
	assert.NoError(t, err, "20 characters should be accepted")

	_, err = ReportDescription(strings.Repeat("x", 1001))
	assert.Error(t, err, "1001 characters should be rejected")
}

func TestValidatorTag(t *testing.T) {
	v := New()

	type req struct {
		Username string `validate:"tg_username"`
	}

	assert.NoError(t, v.Struct(req{Username: "@valid_user"}))
	assert.Error(t, v.Struct(req{Username: "no"}))
}
