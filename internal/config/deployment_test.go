package config

import "testing"

func TestParseFlag(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"0", false},
		{"false", false},
		{"FALSE", false},
		{"no", false},
		{"off", false},
		{" off ", false},
		{"1", true},
		{"true", true},
		{"yes", true},
		{"anything", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseFlag(tt.in); got != tt.want {
				t.Errorf("ParseFlag(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.vercel.app", "example.vercel.app"},
		{"https://example.vercel.app", "example.vercel.app"},
		{"http://example.vercel.app/", "example.vercel.app"},
		{"  example.vercel.app  ", "example.vercel.app"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := normalizeHost(tt.in); got != tt.want {
				t.Errorf("normalizeHost(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDeploymentConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     DeploymentConfig
		wantErr bool
	}{
		{"empty mode", DeploymentConfig{}, false},
		{"local", DeploymentConfig{Mode: DeploymentLocal}, false},
		{"managed with host", DeploymentConfig{Mode: DeploymentManaged, Host: "example.vercel.app"}, false},
		{"managed without host", DeploymentConfig{Mode: DeploymentManaged}, true},
		{"managed host with path", DeploymentConfig{Mode: DeploymentManaged, Host: "example.vercel.app/x"}, true},
		{"unknown mode", DeploymentConfig{Mode: "edge"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
