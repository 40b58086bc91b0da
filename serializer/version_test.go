package serializer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNegotiate(t *testing.T) {
	tests := []struct {
		name  string
		major int32
		minor int32
		want  Outcome
	}{
		{"Current version", MajorVersion, MinorVersion, Accept},
		{"Older minor", MajorVersion, MinorVersion - 1, Accept},
		{"Newer minor", MajorVersion, MinorVersion + 1, WarnForward},
		{"Legacy checkpoint", LegacyMajorVersion, LegacyMinorVersion, LegacyMigrate},
		{"Legacy major, other minor", LegacyMajorVersion, LegacyMinorVersion - 1, Reject},
		{"Newer major", MajorVersion + 1, 0, Reject},
		{"Ancient major", 1, 0, Reject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Negotiate(tt.major, tt.minor))
		})
	}
}

func TestOutcomeString(t *testing.T) {
	require.Equal(t, "accept", Accept.String())
	require.Equal(t, "warn-forward", WarnForward.String())
	require.Equal(t, "legacy-migrate", LegacyMigrate.String())
	require.Equal(t, "reject", Reject.String())
}
