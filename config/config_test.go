package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte("package: me.author.app\nbridge: example.com/bridge\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cfg.Package != "me.author.app" {
		t.Errorf("Package = %q, want %q", cfg.Package, "me.author.app")
	}
	if cfg.Bridge != "example.com/bridge" {
		t.Errorf("Bridge = %q, want %q", cfg.Bridge, "example.com/bridge")
	}
	if cfg.Marker != "jnicall.Call" || cfg.BuildTag != "jnicall" || cfg.Suffix != "_gen.go" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Parse(nil) = %+v, want defaults", cfg)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "pakage: me.app\n"},
		{"hyphenated package", "package: me.my-app\n"},
		{"uppercase package", "package: Me.App\n"},
		{"marker without selector", "marker: Call\n"},
		{"suffix without .go", "suffix: _gen\n"},
		{"not a mapping", "- a\n- b\n"},
		{"package not a string", "package: [a]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.yaml)
			}
		})
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, path, err := Find(nested)
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if path != "" || cfg.Package != "" {
		t.Errorf("Find without a file = %+v at %q, want defaults", cfg, path)
	}

	want := filepath.Join(root, FileName)
	if err := os.WriteFile(want, []byte("package: me.app\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, path, err = Find(nested)
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if cfg.Package != "me.app" {
		t.Errorf("Package = %q, want %q", cfg.Package, "me.app")
	}
}

func TestFindReportsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("bogus: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Find(dir); err == nil {
		t.Error("Find succeeded on an invalid file, want error")
	}
}

func TestPackageRegistry(t *testing.T) {
	var r PackageRegistry

	if _, err := r.Get(); !errors.Is(err, ErrPackageNotConfigured) {
		t.Errorf("Get before Set error = %v, want ErrPackageNotConfigured", err)
	}
	if err := r.Set("me.app"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := r.Set("me.app"); err != nil {
		t.Errorf("Set same name error = %v, want nil", err)
	}
	if err := r.Set("me.other"); !errors.Is(err, ErrAlreadyConfigured) {
		t.Errorf("Set different name error = %v, want ErrAlreadyConfigured", err)
	}
	got, err := r.Get()
	if err != nil || got != "me.app" {
		t.Errorf("Get = %q, %v, want %q, nil", got, err, "me.app")
	}
}

func TestPackageRegistryConcurrentReads(t *testing.T) {
	var r PackageRegistry
	if err := r.Set("me.app"); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name, err := r.Get()
			if err == nil && name != "me.app" {
				err = errors.New("wrong name " + name)
			}
			if err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestPackageRegistryConcurrentSet(t *testing.T) {
	var r PackageRegistry
	var wg sync.WaitGroup
	results := make(chan error, 2)
	for _, name := range []string{"me.a", "me.b"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			results <- r.Set(name)
		}(name)
	}
	wg.Wait()
	close(results)

	failures := 0
	for err := range results {
		if errors.Is(err, ErrAlreadyConfigured) {
			failures++
		}
	}
	if failures != 1 {
		t.Errorf("got %d ErrAlreadyConfigured, want exactly 1", failures)
	}
}

func TestPackageName(t *testing.T) {
	if err := SetPackageName("me.global"); err != nil {
		t.Fatalf("SetPackageName error: %v", err)
	}
	got, err := PackageName()
	if err != nil || got != "me.global" {
		t.Errorf("PackageName() = %q, %v, want %q, nil", got, err, "me.global")
	}
	if got, _ := Global().Get(); got != "me.global" {
		t.Errorf("Global().Get() = %q, want %q", got, "me.global")
	}
	if err := SetPackageName("me.other"); !errors.Is(err, ErrAlreadyConfigured) {
		t.Errorf("SetPackageName(other) error = %v, want ErrAlreadyConfigured", err)
	}
}

func TestOptions(t *testing.T) {
	opts := Default().Options("myEnv")
	if opts.Env != "myEnv" || opts.BridgeName != "jni" {
		t.Errorf("Options = %+v", opts)
	}
}
