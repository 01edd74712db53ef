package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issuepilot/internal/apperror"
)

func TestRemoteConstructors(t *testing.T) {
	idle := Idle[[]int]()
	assert.Equal(t, PhaseIdle, idle.Phase())
	_, ok := idle.Data()
	assert.False(t, ok)

	loading := Loading[[]int]()
	assert.True(t, loading.IsLoading())
	assert.Empty(t, loading.Reason())

	loaded := Loaded([]int{1, 2})
	data, ok := loaded.Data()
	assert.True(t, ok)
	assert.Equal(t, []int{1, 2}, data)
	assert.False(t, loaded.IsLoading())

	failed := Failed[[]int]("Failed to fetch issue analysis.")
	assert.Equal(t, PhaseFailed, failed.Phase())
	assert.Equal(t, "Failed to fetch issue analysis.", failed.Reason())
	_, ok = failed.Data()
	assert.False(t, ok)
}

func TestLoadedEmptyIsStillLoaded(t *testing.T) {
	r := Loaded([]int{})
	data, ok := r.Data()
	assert.True(t, ok)
	assert.Empty(t, data)
}

func TestSequencerDropsStale(t *testing.T) {
	var s Sequencer
	assert.False(t, s.Current(0))

	first := s.Next()
	assert.True(t, s.Current(first))

	second := s.Next()
	assert.False(t, s.Current(first), "older reply must be dropped")
	assert.True(t, s.Current(second))
}

func TestSequencersNeverShareIDs(t *testing.T) {
	var a, b Sequencer
	seqA := a.Next()
	seqB := b.Next()
	assert.NotEqual(t, seqA, seqB)
	assert.False(t, b.Current(seqA), "reply for another instance must not match")
}

func TestValidEmail(t *testing.T) {
	for _, good := range []string{"john@example.com", "a.b+c@sub.example.io", "o'neil@example.org"} {
		assert.True(t, ValidEmail(good), good)
	}
	for _, bad := range []string{"", "john", "john@", "@example.com", "john@example", "jo hn@example.com",
		"a..b@example.com", ".john@example.com", "john.@example.com", "john@-example.com"} {
		assert.False(t, ValidEmail(bad), bad)
	}
}

func TestValidateLoginRejectsMalformedAddresses(t *testing.T) {
	for _, bad := range []string{"a..b@example.com", ".john@example.com", "john.@example.com", "john@-example.com"} {
		fe := ValidateLogin(bad, "secret1")
		require.Len(t, fe, 1, bad)
		assert.Equal(t, "email", fe[0].Field)
		assert.Equal(t, "Invalid email address", fe[0].Message)
		assert.ErrorIs(t, fe[0], apperror.ErrValidation)
	}
}

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		name       string
		in         [3]string
		wantFields []string
	}{
		{name: "valid", in: [3]string{"Ann", "ann@example.com", "secret"}},
		{name: "short name", in: [3]string{"Al", "al@example.com", "secret"}, wantFields: []string{"name"}},
		{name: "bad email", in: [3]string{"Alice", "alice", "secret"}, wantFields: []string{"email"}},
		{name: "short password", in: [3]string{"Alice", "alice@example.com", "12345"}, wantFields: []string{"password"}},
		{name: "everything", in: [3]string{"", "", ""}, wantFields: []string{"name", "email", "password"}},
		{name: "multibyte name counts runes", in: [3]string{"Zoë", "zoe@example.com", "secret"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := ValidateSignup(tt.in[0], tt.in[1], tt.in[2])
			assert.Len(t, fe, len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.NotEmpty(t, fe.For(f), f)
			}
		})
	}
}

func TestValidateOTP(t *testing.T) {
	for _, bad := range []string{"", "12345", "1234567", "12 34"} {
		assert.False(t, ValidateOTP(bad).OK(), bad)
	}
	assert.True(t, ValidateOTP("123456").OK())
	assert.Equal(t, "OTP must be 6 digits", ValidateOTP("1").For("otp"))
}

func TestValidateLogin(t *testing.T) {
	assert.True(t, ValidateLogin("john@example.com", "secret1").OK())

	fe := ValidateLogin("john@example.com", "")
	assert.Equal(t, "Password is required", fe.For("password"))
	assert.Empty(t, fe.For("email"))

	// required and email both fail on "", but only one message is kept.
	fe = ValidateLogin("", "secret1")
	assert.Len(t, fe, 1)
	assert.Equal(t, "Invalid email address", fe.For("email"))
}

func TestValidateRepoURLAndIdea(t *testing.T) {
	assert.False(t, ValidateRepoURL("   ").OK())
	assert.True(t, ValidateRepoURL("github.com/foo/bar").OK())

	fe := ValidateIdea("VS Code Extension", "")
	assert.Equal(t, "Description is required", fe.For("description"))
}
