package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"teslang/build"
)

func TestIsComplete(t *testing.T) {
	tests := []struct {
		entry string
		want  bool
	}{
		{"", false},
		{"fc main() -> none: print(1);", true},
		{"fc main() -> none: {", false},
		{"fc main() -> none: {\n    print(1);", false},
		{"fc main() -> none: {\n    print(1);\n}", true},
		{"fc main() -> none: print(1)", false},
		{"fc main() -> none: print($", true},
	}

	for _, tt := range tests {
		be.Equal(t, isComplete(tt.entry), tt.want)
	}
}

func TestSessionKeepsValidDefinitions(t *testing.T) {
	prof := build.DefaultProfile()
	prof.LogLevel = "silent"
	s := newSession(prof, io.Discard)

	res, err := s.submit("fc twice(n: numeric) -> numeric: return n * 2;")
	be.Err(t, err, nil)
	be.True(t, res.OK())

	res, err = s.submit("fc main() -> none: print(missing(1));")
	be.Err(t, err, nil)
	be.True(t, !res.OK())

	res, err = s.submit("fc main() -> none: print(twice(1));")
	be.Err(t, err, nil)
	be.True(t, res.OK())
	be.True(t, strings.Contains(res.Bytecode(), "call twice, r2, r1"))

	be.Equal(t, s.source(), "fc twice(n: numeric) -> numeric: return n * 2;\nfc main() -> none: print(twice(1));")

	s.reset()
	res, err = s.submit("fc main() -> none: print(twice(1));")
	be.Err(t, err, nil)
	be.True(t, !res.OK())
}

func TestTokensCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.teslang")
	be.Err(t, os.WriteFile(path, []byte("fc main"), 0o644), nil)

	var out bytes.Buffer
	be.Equal(t, execTokensCommand(&out, path), 0)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	be.Equal(t, len(lines), 3)
	be.True(t, strings.HasPrefix(lines[0], "1:1"))
	be.True(t, strings.HasSuffix(lines[1], "main"))
}
