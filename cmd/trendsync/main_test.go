package main

import (
	"bytes"
	"errors"
	"testing"

	"trendsync/internal/config"
)

func TestCommandsRegistered(t *testing.T) {
	want := []string{"migrate", "normalize", "seed", "sync"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestSyncFlagDefaults(t *testing.T) {
	tests := []struct {
		flag string
		want string
	}{
		{"limit", "50"},
		{"replace", "true"},
		{"region", ""},
	}
	for _, tt := range tests {
		f := syncCmd.Flags().Lookup(tt.flag)
		if f == nil || f.DefValue != tt.want {
			t.Errorf("--%s default = %v, want %q", tt.flag, f, tt.want)
		}
	}
}

func TestSyncRequiresCredentials(t *testing.T) {
	t.Setenv("LAWD_API_KEY", "")
	t.Setenv("PUBLIC_API_KEY", "")
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"sync", "--region", "강남구"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	if !errors.Is(err, config.ErrMissingCredential) {
		t.Errorf("Execute() error = %v, want ErrMissingCredential", err)
	}
}

func TestSyncReplaceFlag(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    bool
		wantErr bool
	}{
		{"default", []string{"--region", "강남구"}, true, false},
		{"separate false", []string{"--region", "강남구", "--replace", "false"}, false, false},
		{"equals false", []string{"--region", "강남구", "--replace=false"}, false, false},
		{"separate true", []string{"--region", "강남구", "--replace", "True"}, true, false},
		{"garbage", []string{"--region", "강남구", "--replace", "maybe"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer syncCmd.Flags().Set("replace", "true")
			if err := syncCmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags() error = %v", err)
			}
			if err := syncCmd.ValidateArgs(syncCmd.Flags().Args()); err != nil {
				t.Fatalf("ValidateArgs() error = %v", err)
			}

			got, err := parseReplace(syncReplace)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseReplace(%q) error = %v, wantErr %v", syncReplace, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("parseReplace(%q) = %v, want %v", syncReplace, got, tt.want)
			}
		})
	}
}

func TestSyncRejectsStrayArgs(t *testing.T) {
	defer syncCmd.Flags().Set("replace", "true")
	if err := syncCmd.ParseFlags([]string{"--region", "강남구", "--replace=false", "false"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	if err := syncCmd.ValidateArgs(syncCmd.Flags().Args()); err == nil {
		t.Error("ValidateArgs() accepted a positional argument")
	}
}
