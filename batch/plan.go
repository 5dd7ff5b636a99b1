package batch

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/h2non/filetype"
	"github.com/maruel/natural"

	"cssw/archive"
)

// stdio stands for standard input or output on the command line.
const stdio = "-"

type job struct {
	src   string // stdio for standard input
	entry string // when not empty src is zip bundle and entry is a name in it
	dst   string // empty or stdio for standard output
}

func (j job) stdin() bool {
	return j.src == stdio
}

func (j job) stdout() bool {
	return len(j.dst) == 0 || j.dst == stdio
}

func (j job) name() string {
	if j.stdin() {
		return "stdin"
	}
	if len(j.entry) > 0 {
		return filepath.Join(j.src, filepath.FromSlash(j.entry))
	}
	return j.src
}

func (j job) output() string {
	if j.stdout() {
		return "stdout"
	}
	return j.dst
}

// plan turns command line arguments into list of jobs. Without many it is
// "INPUT [OUTPUT]", otherwise every argument is an input and results are
// written next to inputs with suffix replacing extension. Directories are
// searched for .css files recursively in both cases. Zip bundles are treated
// as directories, path after bundle name selects entries inside it.
func plan(args []string, many bool, suffix string) ([]job, error) {
	many = many || len(args) > 2

	var jobs []job
	if !many {
		src, dst := args[0], ""
		if len(args) > 1 {
			dst = args[1]
		}
		if src == stdio {
			return []job{{src: src, dst: dst}}, nil
		}
		head, tail, fi, err := locate(src)
		if err != nil {
			return nil, err
		}
		if len(tail) > 0 || !fi.IsDir() && isBundle(head) {
			if jobs, err = expandBundle(head, tail, dst, suffix); err != nil {
				return nil, err
			}
			if dst == stdio && len(jobs) > 1 {
				return nil, errors.New("more than one stylesheet cannot be written to standard output")
			}
			if len(jobs) == 1 && jobs[0].entry == tail && len(dst) > 0 && dst != stdio {
				// single named entry goes where it was asked to unless destination is a directory
				if di, err := os.Stat(dst); err != nil || !di.IsDir() {
					jobs[0].dst = dst
				}
			}
		} else if !fi.IsDir() {
			if dst != stdio && len(dst) > 0 {
				if di, err := os.Stat(dst); err == nil && di.IsDir() {
					dst = filepath.Join(dst, filepath.Base(src))
				}
			}
			return []job{{src: src, dst: dst}}, nil
		} else {
			if dst == stdio {
				return nil, errors.New("directory cannot be written to standard output")
			}
			if jobs, err = expandDir(src, dst, suffix); err != nil {
				return nil, err
			}
		}
	} else {
		for _, src := range args {
			if src == stdio {
				return nil, errors.New("standard input cannot be combined with other inputs")
			}
			head, tail, fi, err := locate(src)
			if err != nil {
				return nil, err
			}
			var found []job
			switch {
			case len(tail) > 0 || !fi.IsDir() && isBundle(head):
				found, err = expandBundle(head, tail, "", suffix)
			case !fi.IsDir():
				found = []job{{src: src, dst: withSuffix(src, suffix)}}
			default:
				found, err = expandDir(src, "", suffix)
			}
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, found...)
		}
	}
	if len(jobs) == 0 {
		return nil, errors.New("no stylesheets found, nothing to process")
	}
	return jobs, nil
}

// expandDir finds stylesheets under dir. When out is not empty results go
// there keeping relative paths, otherwise next to inputs with suffix.
func expandDir(dir, out, suffix string) ([]job, error) {
	var jobs []job
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || !strings.EqualFold(filepath.Ext(path), ".css") {
			return nil
		}
		if len(out) == 0 {
			if strings.HasSuffix(strings.ToLower(path), strings.ToLower(suffix)) {
				// result of previous run
				return nil
			}
			jobs = append(jobs, job{src: path, dst: withSuffix(path, suffix)})
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		jobs = append(jobs, job{src: path, dst: filepath.Join(out, rel)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to process directory: %w", err)
	}
	// "2.css" before "10.css", report entries are numbered in this order
	sort.SliceStable(jobs, func(i, k int) bool {
		return natural.Less(jobs[i].src, jobs[k].src)
	})
	return jobs, nil
}

// locate finds the longest existing part of src. Anything left is a path
// inside zip bundle, so it is only allowed after a regular file.
func locate(src string) (head, tail string, fi fs.FileInfo, err error) {
	for head = src; len(head) != 0; head, _ = filepath.Split(head) {
		head = strings.TrimSuffix(head, string(filepath.Separator))

		if fi, err = os.Stat(head); err != nil {
			// does not exists - probably path in bundle
			continue
		}
		tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
		if len(tail) == 0 {
			return head, "", fi, nil
		}
		if !fi.Mode().IsRegular() || !isBundle(head) {
			return "", "", nil, fmt.Errorf("input source was not found (%s) => (%s)", head, tail)
		}
		return head, filepath.ToSlash(tail), fi, nil
	}
	return "", "", nil, fmt.Errorf("input source was not found (%s)", src)
}

// isBundle reports whether path is a zip archive.
func isBundle(path string) bool {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return true
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return false
	}
	return filetype.Is(head[:n], "zip")
}

// expandBundle finds stylesheets in zip bundle with names starting with
// prefix. When out is not empty results go there keeping entry paths,
// otherwise into directory named after the bundle.
func expandBundle(bundle, prefix, out, suffix string) ([]job, error) {
	names, err := archive.Stylesheets(bundle, prefix)
	if err != nil {
		return nil, fmt.Errorf("unable to process bundle: %w", err)
	}

	base := strings.TrimSuffix(bundle, filepath.Ext(bundle))
	if base == bundle {
		// cannot use directory with the same name as bundle itself
		base += ".d"
	}

	jobs := make([]job, 0, len(names))
	for _, name := range names {
		j := job{src: bundle, entry: name}
		switch {
		case out == stdio:
			j.dst = stdio
		case len(out) > 0:
			j.dst = filepath.Join(out, filepath.FromSlash(name))
		default:
			j.dst = filepath.Join(base, withSuffix(filepath.FromSlash(name), suffix))
		}
		jobs = append(jobs, j)
	}
	sort.SliceStable(jobs, func(i, k int) bool {
		return natural.Less(jobs[i].entry, jobs[k].entry)
	})
	return jobs, nil
}

func withSuffix(path, suffix string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + suffix
}
