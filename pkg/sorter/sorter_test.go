package sorter

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/siyuan-infoblox/ruby-imports-sort/pkg/errors"
)

func TestSorter_Source(t *testing.T) {
	req := require.New(t)
	s := New(Config{})

	tests := []struct {
		name       string
		source     string
		want       string
		wantResult Result
	}{
		{
			name:       "sorts one stdlib group",
			source:     "require 'yaml'\nrequire 'json'\n",
			want:       "require 'json'\nrequire 'yaml'\n",
			wantResult: Changed,
		},
		{
			name:   "groups sections with separators",
			source: "require 'json'\nrequire 'rails'\nrequire_relative 'helper'\ninclude Foo\n",
			want: "require 'json'\n" +
				"\n" +
				"require 'rails'\n" +
				"\n" +
				"include Foo\n" +
				"\n" +
				"require_relative 'helper'\n",
			wantResult: Changed,
		},
		{
			name: "skip statements hold their slots",
			source: "require 'z_lib' # isort:skip\n" +
				"require 'yaml'\n" +
				"require 'a_lib' # isort:skip\n" +
				"require 'json'\n",
			want: "require 'z_lib' # isort:skip\n" +
				"\n" +
				"require 'json'\n" +
				"require 'yaml'\n" +
				"\n" +
				"require 'a_lib' # isort:skip\n",
			wantResult: Changed,
		},
		{
			name:       "double blank between statements collapses to one",
			source:     "require 'b_gem'\n\n\nrequire 'a_gem'\n",
			want:       "require 'b_gem'\n\nrequire 'a_gem'\n",
			wantResult: Changed,
		},
		{
			name:       "comments travel with their statement",
			source:     "# yaml dep\nrequire 'yaml'\nrequire 'json'\n",
			want:       "require 'json'\n# yaml dep\nrequire 'yaml'\n",
			wantResult: Changed,
		},
		{
			name:       "already sorted input is unchanged",
			source:     "require 'json'\nrequire 'yaml'\n",
			want:       "require 'json'\nrequire 'yaml'\n",
			wantResult: Unchanged,
		},
		{
			name:       "duplicates are dropped",
			source:     "require 'yaml'\nrequire 'json'\nrequire 'yaml'\n",
			want:       "require 'json'\nrequire 'yaml'\n",
			wantResult: Changed,
		},
		{
			name: "heredoc bodies are untouched",
			source: "sql = <<~SQL\n" +
				"  require 'fake'\n" +
				"SQL\n" +
				"require 'yaml'\n" +
				"require 'json'\n",
			want: "sql = <<~SQL\n" +
				"  require 'fake'\n" +
				"SQL\n" +
				"require 'json'\n" +
				"require 'yaml'\n",
			wantResult: Changed,
		},
		{
			name: "indented block keeps its indentation",
			source: "class Config\n" +
				"  require 'yaml'\n" +
				"  require 'json'\n" +
				"end\n",
			want: "class Config\n" +
				"  require 'json'\n" +
				"  require 'yaml'\n" +
				"end\n",
			wantResult: Changed,
		},
		{
			name: "magic comment prologue stays put",
			source: "# frozen_string_literal: true\n" +
				"\n" +
				"require 'yaml'\n" +
				"require 'json'\n",
			want: "# frozen_string_literal: true\n" +
				"\n" +
				"require 'json'\n" +
				"require 'yaml'\n",
			wantResult: Changed,
		},
		{
			name: "kind ordering within firstparty",
			source: "using StringRefinements\n" +
				"autoload :Zoo, 'myapp/zoo'\n" +
				"extend Helpers\n" +
				"include Mixins\n",
			want: "include Mixins\n" +
				"\n" +
				"extend Helpers\n" +
				"\n" +
				"autoload :Zoo, 'myapp/zoo'\n" +
				"\n" +
				"using StringRefinements\n",
			wantResult: Changed,
		},
		{
			name:       "blocks separated by code sort independently",
			source:     "require 'b_gem'\nBundler.setup\nrequire 'a_gem'\n",
			want:       "require 'b_gem'\nBundler.setup\nrequire 'a_gem'\n",
			wantResult: Unchanged,
		},
		{
			name:       "windows line endings keep their interior returns",
			source:     "require 'yaml'\r\nrequire 'json'\r\n",
			want:       "require 'json'\r\nrequire 'yaml'\n",
			wantResult: Changed,
		},
		{
			name:       "file without imports is byte identical",
			source:     "x = 1",
			want:       "x = 1",
			wantResult: Unchanged,
		},
		{
			name:       "empty file stays empty",
			source:     "",
			want:       "",
			wantResult: Unchanged,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, res, err := s.Source([]byte(tt.source))
			req.NoError(err)
			req.Equal(tt.wantResult, res, "result for:\n%s", tt.source)
			if diff := cmp.Diff(tt.want, string(got)); diff != "" {
				t.Errorf("Source() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSorter_Source_idempotent(t *testing.T) {
	req := require.New(t)
	s := New(Config{})

	sources := []string{
		"require 'yaml'\nrequire 'json'\n",
		"require 'json'\nrequire 'rails'\nrequire_relative 'helper'\ninclude Foo\n",
		"require 'z_lib' # isort:skip\nrequire 'yaml'\nrequire 'a_lib' # isort:skip\nrequire 'json'\n",
		"require 'c_gem' # isort:skip\nrequire 'b_gem' # isort:skip\nrequire 'a_gem' # isort:skip\n",
		"# dep note\nrequire 'yaml'\n\nrequire 'json'\n",
		"require 'b_gem'\n\n\nrequire 'a_gem'\n",
		"class Config\n  require 'yaml'\n  require 'json'\nend\n",
		"#!/usr/bin/env ruby\n# frozen_string_literal: true\n\nrequire 'yaml'\nrequire 'json'\n\nputs 'done'\n",
	}

	for i, source := range sources {
		once, _, err := s.Source([]byte(source))
		req.NoError(err, "first pass of fixture %d", i)
		twice, res, err := s.Source(once)
		req.NoError(err, "second pass of fixture %d", i)
		req.Equal(Unchanged, res, "second pass of fixture %d should be a no-op", i)
		if diff := cmp.Diff(string(once), string(twice)); diff != "" {
			t.Errorf("fixture %d not idempotent (-once +twice):\n%s", i, diff)
		}
	}
}

func TestSorter_Source_skipFile(t *testing.T) {
	req := require.New(t)
	s := New(Config{})

	t.Run("directive near the top skips the whole file", func(t *testing.T) {
		source := "# isort:skip_file\nrequire 'yaml'\nrequire 'json'\n"
		got, res, err := s.Source([]byte(source))
		req.NoError(err)
		req.Equal(Skipped, res)
		req.Equal(source, string(got), "skipped file must be byte identical")
	})

	t.Run("directive is honored anywhere in the first fifty lines", func(t *testing.T) {
		source := strings.Repeat("x = 1\n", 48) + "# isort:skip_file\nrequire 'yaml'\nrequire 'json'\n"
		_, res, err := s.Source([]byte(source))
		req.NoError(err)
		req.Equal(Skipped, res)
	})

	t.Run("directive past line fifty is ignored", func(t *testing.T) {
		source := strings.Repeat("x = 1\n", 50) + "# isort:skip_file\nrequire 'yaml'\nrequire 'json'\n"
		got, res, err := s.Source([]byte(source))
		req.NoError(err)
		req.Equal(Changed, res)
		req.Contains(string(got), "require 'json'\nrequire 'yaml'\n")
	})
}

func TestSorter_Source_invalidEncoding(t *testing.T) {
	req := require.New(t)
	s := New(Config{})

	_, _, err := s.Source([]byte{0x72, 0xff, 0xfe, 0x0a})
	req.ErrorIs(err, errors.ErrInvalidEncoding)
}

// fakeChecker scripts the syntax checker's answers call by call.
type fakeChecker struct {
	msgs  []string
	errs  []error
	calls int
}

func (f *fakeChecker) CheckSyntax(src []byte) (string, error) {
	i := f.calls
	f.calls++
	var msg string
	if i < len(f.msgs) {
		msg = f.msgs[i]
	}
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return msg, err
}

func (f *fakeChecker) IsValid(src []byte) (bool, error) {
	msg, err := f.CheckSyntax(src)
	if err != nil {
		return false, err
	}
	return msg == "", nil
}

func TestSorter_Source_safeMode(t *testing.T) {
	req := require.New(t)
	unsorted := []byte("require 'yaml'\nrequire 'json'\n")

	t.Run("valid input and output pass both checks", func(t *testing.T) {
		checker := &fakeChecker{}
		s := New(Config{Safe: true, Checker: checker})
		got, res, err := s.Source(unsorted)
		req.NoError(err)
		req.Equal(Changed, res)
		req.Equal("require 'json'\nrequire 'yaml'\n", string(got))
		req.Equal(2, checker.calls, "one check before, one after")
	})

	t.Run("pre-existing syntax error aborts before rewriting", func(t *testing.T) {
		checker := &fakeChecker{msgs: []string{"-:2: syntax error"}}
		s := New(Config{Safe: true, Checker: checker})
		_, _, err := s.Source(unsorted)
		req.ErrorIs(err, errors.ErrPreexistingSyntax)
		req.Equal(1, checker.calls)
	})

	t.Run("introduced syntax error suppresses the result", func(t *testing.T) {
		checker := &fakeChecker{msgs: []string{"", "-:1: syntax error"}}
		s := New(Config{Safe: true, Checker: checker})
		_, _, err := s.Source(unsorted)
		req.ErrorIs(err, errors.ErrIntroducedSyntax)
		req.Equal(2, checker.calls)
	})

	t.Run("checker failure fails closed", func(t *testing.T) {
		checker := &fakeChecker{errs: []error{fmt.Errorf("interpreter not found")}}
		s := New(Config{Safe: true, Checker: checker})
		_, _, err := s.Source(unsorted)
		req.Error(err)
		req.ErrorContains(err, errors.ErrMsgSyntaxCheckFailed)
	})

	t.Run("unchanged input checks only once", func(t *testing.T) {
		checker := &fakeChecker{}
		s := New(Config{Safe: true, Checker: checker})
		_, res, err := s.Source([]byte("require 'json'\nrequire 'yaml'\n"))
		req.NoError(err)
		req.Equal(Unchanged, res)
		req.Equal(1, checker.calls)
	})

	t.Run("without safe mode the checker is never consulted", func(t *testing.T) {
		checker := &fakeChecker{msgs: []string{"-:1: syntax error"}}
		s := New(Config{Safe: false, Checker: checker})
		_, res, err := s.Source(unsorted)
		req.NoError(err)
		req.Equal(Changed, res)
		req.Equal(0, checker.calls)
	})
}

func TestSorter_Process(t *testing.T) {
	req := require.New(t)
	s := New(Config{})

	tempDir, err := os.MkdirTemp("", "sorter_test")
	req.NoError(err)
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			t.Logf("Failed to remove temp dir: %v", err)
		}
	}()

	t.Run("rewrites the file in place", func(t *testing.T) {
		path := filepath.Join(tempDir, "unsorted.rb")
		req.NoError(os.WriteFile(path, []byte("require 'yaml'\nrequire 'json'\n"), 0644))

		res, err := s.Process(path)
		req.NoError(err)
		req.Equal(Changed, res)

		content, err := os.ReadFile(path)
		req.NoError(err)
		req.Equal("require 'json'\nrequire 'yaml'\n", string(content))

		// A second pass finds nothing to do.
		res, err = s.Process(path)
		req.NoError(err)
		req.Equal(Unchanged, res)
	})

	t.Run("skipped file is not written", func(t *testing.T) {
		path := filepath.Join(tempDir, "skipped.rb")
		source := "# isort:skip_file\nrequire 'yaml'\nrequire 'json'\n"
		req.NoError(os.WriteFile(path, []byte(source), 0644))

		res, err := s.Process(path)
		req.NoError(err)
		req.Equal(Skipped, res)

		content, err := os.ReadFile(path)
		req.NoError(err)
		req.Equal(source, string(content))
	})

	t.Run("missing file propagates not-exist", func(t *testing.T) {
		_, err := s.Process(filepath.Join(tempDir, "nope", "missing.rb"))
		req.Error(err)
		req.ErrorIs(err, fs.ErrNotExist)
	})
}

func TestSorter_CheckOnly(t *testing.T) {
	req := require.New(t)
	s := New(Config{})

	tempDir, err := os.MkdirTemp("", "sorter_test")
	req.NoError(err)
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			t.Logf("Failed to remove temp dir: %v", err)
		}
	}()

	path := filepath.Join(tempDir, "unsorted.rb")
	source := "require 'yaml'\nrequire 'json'\n"
	req.NoError(os.WriteFile(path, []byte(source), 0644))

	res, err := s.CheckOnly(path)
	req.NoError(err)
	req.Equal(Changed, res)

	content, err := os.ReadFile(path)
	req.NoError(err)
	req.Equal(source, string(content), "check must not write")
}

func TestSorter_DiffPreview(t *testing.T) {
	req := require.New(t)
	s := New(Config{})

	tempDir, err := os.MkdirTemp("", "sorter_test")
	req.NoError(err)
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			t.Logf("Failed to remove temp dir: %v", err)
		}
	}()

	t.Run("changed file yields a unified diff", func(t *testing.T) {
		path := filepath.Join(tempDir, "unsorted.rb")
		source := "require 'yaml'\nrequire 'json'\n"
		req.NoError(os.WriteFile(path, []byte(source), 0644))

		diff, res, err := s.DiffPreview(path)
		req.NoError(err)
		req.Equal(Changed, res)
		req.Contains(diff, "--- a/"+path)
		req.Contains(diff, "+++ b/"+path)
		req.Contains(diff, "-require 'yaml'")
		req.Contains(diff, "+require 'yaml'")

		content, err := os.ReadFile(path)
		req.NoError(err)
		req.Equal(source, string(content), "diff must not write")
	})

	t.Run("sorted file yields no diff", func(t *testing.T) {
		path := filepath.Join(tempDir, "sorted.rb")
		req.NoError(os.WriteFile(path, []byte("require 'json'\nrequire 'yaml'\n"), 0644))

		diff, res, err := s.DiffPreview(path)
		req.NoError(err)
		req.Equal(Unchanged, res)
		req.Empty(diff)
	})
}
