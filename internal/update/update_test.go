package update

import "testing"

func TestInstallMethodForPath(t *testing.T) {
	cases := []struct {
		path string
		want InstallMethod
	}{
		{"/opt/homebrew/bin/tally", InstallHomebrew},
		{"/usr/local/Cellar/tally/1.0.0/bin/tally", InstallHomebrew},
		{"/home/linuxbrew/.linuxbrew/bin/tally", InstallHomebrew},
		{"/usr/local/bin/tally", InstallBinary},
		{"/home/me/go/bin/tally", InstallBinary},
	}
	for _, tc := range cases {
		if got := installMethodForPath(tc.path); got != tc.want {
			t.Errorf("installMethodForPath(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestIsDevVersion(t *testing.T) {
	for _, v := range []string{"", "dev", " dev "} {
		if !isDevVersion(v) {
			t.Errorf("expected %q to be a dev version", v)
		}
	}
	if isDevVersion("1.2.3") {
		t.Error("expected release version not to be dev")
	}
}
