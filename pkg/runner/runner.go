// Package runner drives the sorter over files, directories, and stdin,
// fanning work out across a bounded worker pool.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/siyuan-infoblox/ruby-imports-sort/pkg/diffview"
	"github.com/siyuan-infoblox/ruby-imports-sort/pkg/errors"
	"github.com/siyuan-infoblox/ruby-imports-sort/pkg/sorter"
	"github.com/siyuan-infoblox/ruby-imports-sort/pkg/utils"
)

// Mode selects what a run does with files that need sorting.
type Mode int

const (
	ModeWrite Mode = iota // rewrite files in place
	ModeCheck             // report files that would change
	ModeDiff              // print a unified diff per file
)

// Options configures one run.
type Options struct {
	Mode   Mode
	Jobs   int  // concurrent workers; <1 means one per CPU
	Color  bool // style results and diffs for a terminal
	Sorter sorter.Config

	Logger *log.Logger // diagnostics; nil discards them
	Stdout io.Writer   // results; nil means os.Stdout
	Stdin  io.Reader   // source for RunStdin; nil means os.Stdin
}

// Summary counts per-file outcomes of a run.
type Summary struct {
	Changed   int
	Unchanged int
	Skipped   int
	Failed    int
}

// Total returns how many files the run looked at.
func (s Summary) Total() int {
	return s.Changed + s.Unchanged + s.Skipped + s.Failed
}

var (
	sortedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	wouldStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	totalStyle   = lipgloss.NewStyle().Bold(true)
)

func (o *Options) normalize() {
	if o.Jobs < 1 {
		o.Jobs = runtime.NumCPU()
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
}

// Run expands paths, processes every Ruby file found, and returns the
// outcome counts. Directories recurse; explicit file arguments are
// processed whatever their name. Per-file failures are counted and
// logged, not fatal.
func Run(ctx context.Context, paths []string, opts Options) (Summary, error) {
	opts.normalize()

	files, err := expandPaths(paths, opts.Logger)
	if err != nil {
		return Summary{}, err
	}

	var (
		mu      sync.Mutex
		summary Summary
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)
	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			line, res, err := processOne(file, opts)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed++
				opts.Logger.Error(fmt.Sprintf(errors.InfoMsgErrorProcessing, file, err))
				return nil
			}
			summary.count(res)
			if line != "" {
				fmt.Fprintln(opts.Stdout, line)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}
	return summary, nil
}

func (s *Summary) count(res sorter.Result) {
	switch res {
	case sorter.Changed:
		s.Changed++
	case sorter.Skipped:
		s.Skipped++
	default:
		s.Unchanged++
	}
}

// processOne runs a single file through the configured mode and returns
// the user-facing result line, empty when there is nothing to say.
func processOne(file string, opts Options) (string, sorter.Result, error) {
	s := sorter.New(opts.Sorter)
	switch opts.Mode {
	case ModeCheck:
		res, err := s.CheckOnly(file)
		if err != nil {
			return "", res, err
		}
		return resultLine(res, file, opts), res, nil
	case ModeDiff:
		diff, res, err := s.DiffPreview(file)
		if err != nil {
			return "", res, err
		}
		if res == sorter.Changed && opts.Color {
			diff = diffview.Colorize(diff)
		}
		return diff, res, nil
	default:
		res, err := s.Process(file)
		if err != nil {
			return "", res, err
		}
		return resultLine(res, file, opts), res, nil
	}
}

func resultLine(res sorter.Result, file string, opts Options) string {
	var line string
	var style lipgloss.Style
	switch res {
	case sorter.Changed:
		if opts.Mode == ModeCheck {
			line = fmt.Sprintf(errors.InfoMsgWouldSort, file)
			style = wouldStyle
		} else {
			line = fmt.Sprintf(errors.InfoMsgSorted, file)
			style = sortedStyle
		}
	case sorter.Skipped:
		line = fmt.Sprintf(errors.InfoMsgSkipped, file)
		style = skippedStyle
	default:
		return ""
	}
	if opts.Color {
		return style.Render(line)
	}
	return line
}

// expandPaths turns the argument list into the flat list of files to
// process.
func expandPaths(paths []string, logger *log.Logger) ([]string, error) {
	var files []string
	for _, path := range paths {
		isDir, err := utils.IsDirectory(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errors.ErrMsgFailedToCheckPath, err)
		}
		if !isDir {
			files = append(files, path)
			continue
		}
		found, err := utils.FindRubyFiles(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errors.ErrMsgFailedToFindRubyFiles, err)
		}
		if len(found) == 0 {
			logger.Warn(fmt.Sprintf(errors.InfoMsgNoRubyFilesFound, path))
			continue
		}
		logger.Debug(fmt.Sprintf(errors.InfoMsgFoundRubyFiles, len(found), path))
		files = append(files, found...)
	}
	return files, nil
}

// RunStdin processes a single source read from stdin. In write mode the
// result text always goes to stdout, changed or not; check and diff
// modes treat stdin as one nameless file.
func RunStdin(opts Options) (Summary, error) {
	opts.normalize()

	src, err := io.ReadAll(opts.Stdin)
	if err != nil {
		return Summary{}, fmt.Errorf("%s: %w", errors.ErrMsgFailedToReadStdin, err)
	}
	out, res, err := sorter.New(opts.Sorter).Source(src)
	if err != nil {
		return Summary{Failed: 1}, err
	}

	var summary Summary
	summary.count(res)
	switch opts.Mode {
	case ModeCheck:
		if line := resultLine(res, "-", opts); line != "" {
			fmt.Fprintln(opts.Stdout, line)
		}
	case ModeDiff:
		if res == sorter.Changed {
			diff, err := diffview.Unified("-", src, out)
			if err != nil {
				return summary, err
			}
			if opts.Color {
				diff = diffview.Colorize(diff)
			}
			fmt.Fprint(opts.Stdout, diff)
		}
	default:
		if _, err := opts.Stdout.Write(out); err != nil {
			return summary, fmt.Errorf("%s: %w", errors.ErrMsgFailedToWriteFile, err)
		}
	}
	return summary, nil
}

// FormatSummary renders the run's closing line.
func FormatSummary(s Summary, mode Mode, color bool) string {
	changedLabel := "sorted"
	if mode == ModeCheck || mode == ModeDiff {
		changedLabel = "would sort"
	}
	parts := []struct {
		n     int
		label string
		style lipgloss.Style
	}{
		{s.Changed, changedLabel, sortedStyle},
		{s.Unchanged, "unchanged", totalStyle},
		{s.Skipped, "skipped", skippedStyle},
		{s.Failed, "failed", failedStyle},
	}
	out := ""
	for _, p := range parts {
		if out != "" {
			out += ", "
		}
		piece := fmt.Sprintf("%d %s", p.n, p.label)
		if color && p.n > 0 {
			piece = p.style.Render(piece)
		}
		out += piece
	}
	return out
}
