package version

import (
	"regexp"
	"strings"
	"testing"
)

// semverRegex validates semantic versioning format
var semverRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

func TestClientVersion(t *testing.T) {
	if !semverRegex.MatchString(Client) {
		t.Errorf("Client version %q does not match semver format (x.y.z)", Client)
	}
}

func TestString(t *testing.T) {
	s := String()

	if !strings.Contains(s, "v"+Client) {
		t.Errorf("String() = %q, want it to contain v%s", s, Client)
	}
	if !strings.Contains(s, GitCommit) {
		t.Errorf("String() = %q, want it to contain commit %s", s, GitCommit)
	}
}
