package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blockgate/blockgate/internal/config"
)

func testConfig(t *testing.T, mode config.Mode) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Mode = mode
	cfg.Output.File = filepath.Join(t.TempDir(), "generated_blacklist")
	return cfg
}

func TestRenderLine(t *testing.T) {
	tests := []struct {
		name string
		out  config.OutputConfig
		want string
	}{
		{
			name: "dnsmasq without dest ip answers NXDOMAIN",
			out:  config.OutputConfig{Mode: config.ModeDNSMasq},
			want: "server=/.ads.example.com/\n",
		},
		{
			name: "dnsmasq with dest ip redirects",
			out:  config.OutputConfig{Mode: config.ModeDNSMasq, DestIP: "10.0.0.1"},
			want: "address=/.ads.example.com/10.0.0.1\n",
		},
		{
			name: "hosts defaults to loopback",
			out:  config.OutputConfig{Mode: config.ModeHosts},
			want: "127.0.0.1 ads.example.com\n",
		},
		{
			name: "hosts with dest ip",
			out:  config.OutputConfig{Mode: config.ModeHosts, DestIP: "0.0.0.0"},
			want: "0.0.0.0 ads.example.com\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderLine(tt.out, "ads.example.com"); got != tt.want {
				t.Errorf("renderLine = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrite(t *testing.T) {
	cfg := testConfig(t, config.ModeDNSMasq)
	domains := []string{"example.com", "tracker.other.net"}

	if err := Write(cfg, domains); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(cfg.Output.File)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if !strings.HasPrefix(content, strings.Repeat("#", 64)) {
		t.Errorf("output is missing the generated header")
	}
	for _, want := range []string{"server=/.example.com/\n", "server=/.tracker.other.net/\n"} {
		if !strings.Contains(content, want) {
			t.Errorf("output is missing line %q", want)
		}
	}

	// One directive per domain, in the order given.
	if strings.Index(content, "example.com") > strings.Index(content, "tracker.other.net") {
		t.Errorf("output does not preserve the ordered sequence")
	}
}

func TestWrite_NoClobber(t *testing.T) {
	cfg := testConfig(t, config.ModeDNSMasq)
	cfg.Output.NoClobber = true

	if err := os.WriteFile(cfg.Output.File, []byte("precious\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Write(cfg, []string{"example.com"}); err == nil {
		t.Fatal("Write() succeeded, want noclobber refusal")
	}

	data, _ := os.ReadFile(cfg.Output.File)
	if string(data) != "precious\n" {
		t.Errorf("noclobber refusal still modified the file: %q", data)
	}
}

func TestWrite_Backup(t *testing.T) {
	cfg := testConfig(t, config.ModeHosts)
	cfg.Output.Backup = true

	if err := os.WriteFile(cfg.Output.File, []byte("old contents\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Write(cfg, []string{"example.com"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	matches, err := filepath.Glob(cfg.Output.File + ".bak.*")
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected exactly one backup file, got %v (err %v)", matches, err)
	}
	backup, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(backup) != "old contents\n" {
		t.Errorf("backup content = %q, want previous file contents", backup)
	}
}
