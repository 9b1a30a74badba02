package build

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"teslang/casefile"
)

func TestCaseFiles(t *testing.T) {
	paths, err := filepath.Glob("testdata/*.md")
	be.Err(t, err, nil)
	be.True(t, len(paths) > 0)

	prof := DefaultProfile()
	prof.LogLevel = "silent"
	prof.WarnUnused = true

	for _, path := range paths {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".md"), func(t *testing.T) {
			doc, err := os.ReadFile(path)
			be.Err(t, err, nil)

			cases, err := casefile.Extract(doc)
			be.Err(t, err, nil)

			for _, c := range cases {
				t.Run(c.Name, func(t *testing.T) {
					res, err := NewCompiler(prof, io.Discard).Compile(c.Name, strings.NewReader(c.Source))
					be.Err(t, err, nil)

					if bc, ok := c.Expect(casefile.ExpectBytecode); ok {
						be.Equal(t, strings.TrimRight(res.Bytecode(), "\n"), bc.Content)
					}

					errs, ok := c.Expect(casefile.ExpectErrors)
					if ok {
						be.Equal(t, res.Reporter.Errors(), errs.Lines())
					} else {
						be.Equal(t, res.Reporter.Errors(), []string(nil))
					}

					if warns, ok := c.Expect(casefile.ExpectWarnings); ok {
						be.Equal(t, res.Reporter.Warnings(), warns.Lines())
					}
				})
			}
		})
	}
}
