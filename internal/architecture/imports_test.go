package architecture_test

import (
	"bufio"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// layerRules lists, per directory prefix under internal/, the internal packages
// that non-test code in it must not import.
var layerRules = []struct {
	layer      string
	disallowed []string
}{
	{"domain/", []string{"data/", "services/", "http/", "clients/", "app/", "observability/"}},
	{"platform/", []string{"data/", "services/", "http/", "clients/", "app/"}},
	{"clients/", []string{"data/", "services/", "http/", "app/"}},
	{"data/", []string{"services/", "http/", "clients/", "app/"}},
	{"services/", []string{"http/", "app/"}},
	{"http/", []string{"data/", "clients/", "app/"}},
	{"observability/", []string{"services/", "http/", "app/"}},
}

func TestImportBoundaries(t *testing.T) {
	root, modulePath := moduleRoot(t)
	internalDir := filepath.Join(root, "internal")
	fset := token.NewFileSet()

	type violation struct {
		file string
		imp  string
		rule string
	}
	var violations []violation

	walkErr := filepath.WalkDir(internalDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(internalDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		var disallowed []string
		for _, r := range layerRules {
			if strings.HasPrefix(rel, r.layer) {
				disallowed = r.disallowed
				break
			}
		}
		if len(disallowed) == 0 {
			return nil
		}

		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, spec := range f.Imports {
			imp, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				continue
			}
			for _, bad := range disallowed {
				if strings.HasPrefix(imp, modulePath+"/internal/"+bad) {
					violations = append(violations, violation{file: "internal/" + rel, imp: imp, rule: bad})
					break
				}
			}
		}
		return nil
	})
	if walkErr != nil {
		t.Fatalf("walk internal/: %v", walkErr)
	}

	if len(violations) > 0 {
		var b strings.Builder
		b.WriteString("import boundary violations:\n")
		for _, v := range violations {
			fmt.Fprintf(&b, "- %s imports %q (disallowed: internal/%s)\n", v.file, v.imp, v.rule)
		}
		t.Fatal(b.String())
	}
}

func moduleRoot(t *testing.T) (string, string) {
	t.Helper()
	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	root, err := findModuleRoot(start)
	if err != nil {
		t.Fatalf("find module root: %v", err)
	}
	modulePath, err := readModulePath(filepath.Join(root, "go.mod"))
	if err != nil {
		t.Fatalf("read module path: %v", err)
	}
	return root, modulePath
}

func findModuleRoot(start string) (string, error) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found from %s", start)
		}
		dir = parent
	}
}

func readModulePath(goModPath string) (string, error) {
	f, err := os.Open(goModPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if mp, ok := strings.CutPrefix(line, "module "); ok {
			if mp = strings.TrimSpace(mp); mp != "" {
				return mp, nil
			}
			return "", fmt.Errorf("empty module path in %s", goModPath)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("module path not found in %s", goModPath)
}
