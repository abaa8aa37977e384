package ftdc

import (
	"bufio"
	"io"
	"os"

	"go.mongodb.org/mongo-driver/bson"
)

// docIterator is satisfied by any pull-based source of BSON documents,
// terminated by io.EOF.
type docIterator interface {
	Next() (bson.Raw, error)
}

// fileStream flattens a sequence of metrics files into a single stream
// of their documents, opening one file at a time and closing it before
// moving to the next so only one descriptor is ever held open.
type fileStream struct {
	files   fileInfoIterator
	current *os.File
	reader  *documentReader
}

func newFileStream(files fileInfoIterator) *fileStream {
	return &fileStream{files: files}
}

func (fs *fileStream) Next() (bson.Raw, error) {
	for {
		if fs.reader == nil {
			fi, err := fs.files.Next()
			if err == io.EOF {
				return nil, io.EOF
			}
			if err != nil {
				return nil, err
			}

			f, err := os.Open(fi.Path)
			if err != nil {
				return nil, errIO(err)
			}
			fs.current = f
			fs.reader = newDocumentReader(bufio.NewReader(f))
		}

		doc, err := fs.reader.Next()
		if err == io.EOF {
			fs.current.Close()
			fs.current = nil
			fs.reader = nil
			continue
		}
		if err != nil {
			fs.current.Close()
			fs.current = nil
			fs.reader = nil
			return nil, err
		}
		return doc, nil
	}
}

// Close releases the currently open file, if any. Safe to call more
// than once.
func (fs *fileStream) Close() error {
	if fs.current == nil {
		return nil
	}
	err := fs.current.Close()
	fs.current = nil
	fs.reader = nil
	return err
}
