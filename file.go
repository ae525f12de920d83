package polyexpr

import (
	"io"

	"github.com/hashicorp/go-multierror"
)

// File is a unit of work for the batch adapter. Contents holds the buffered
// markup; a nil Contents with a nil Reader is passed through untouched.
// Reader is set for unbuffered streams, which are not supported.
type File struct {
	Path     string
	Contents []byte
	Reader   io.Reader
}

// IsNull reports whether the file has no contents at all.
func (f *File) IsNull() bool {
	return f.Contents == nil && f.Reader == nil
}

// IsStream reports whether the file contents are an unbuffered stream.
func (f *File) IsStream() bool {
	return f.Reader != nil
}

// ProcessFile transforms f.Contents in place. Null files are left alone.
// Failures are returned as *FileError.
func ProcessFile(f *File, opts Options) (*Result, error) {
	if f.IsNull() {
		return nil, nil
	}
	if f.IsStream() {
		return nil, &FileError{Path: f.Path, Err: ErrStreamingUnsupported}
	}

	res, err := Transform(string(f.Contents), opts)
	if err != nil {
		return nil, &FileError{Path: f.Path, Err: err}
	}
	f.Contents = []byte(res.HTML)
	return res, nil
}

// ProcessFiles runs ProcessFile over every file. A failing file does not
// stop the others; all failures are returned together as a
// *multierror.Error. Results are indexed like files and nil where the file
// was null or failed.
func ProcessFiles(files []*File, opts Options) ([]*Result, error) {
	results := make([]*Result, len(files))
	var errs *multierror.Error
	for i, f := range files {
		res, err := ProcessFile(f, opts)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		results[i] = res
	}
	return results, errs.ErrorOrNil()
}
