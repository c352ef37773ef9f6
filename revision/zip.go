// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package revision

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
)

const copyBufferSize = 64 * 1024

// writeArchive writes files, given relative to baseDir, into a new zip archive at dest.
// Entries are named by their relative path and keep the file's modification time.
func writeArchive(baseDir string, files []string, dest string) (err error) {
	out, err := os.Create(dest)
	if err != nil {
		return &Error{Message: fmt.Sprintf("Failed to package files to application revision %s", dest), Err: err}
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = &Error{Message: fmt.Sprintf("Failed to package files to application revision %s", dest), Err: closeErr}
		}
	}()

	buffered := bufio.NewWriterSize(out, copyBufferSize)
	zw := zip.NewWriter(buffered)
	buf := make([]byte, copyBufferSize)

	for _, name := range files {
		path := filepath.Join(baseDir, filepath.FromSlash(name))
		if err := addFile(zw, path, name, buf); err != nil {
			return &Error{Message: fmt.Sprintf("Failed to add file %s to application revision %s", path, dest), Err: err}
		}
	}

	if err := zw.Close(); err != nil {
		return &Error{Message: fmt.Sprintf("Failed to package files to application revision %s", dest), Err: err}
	}
	if err := buffered.Flush(); err != nil {
		return &Error{Message: fmt.Sprintf("Failed to package files to application revision %s", dest), Err: err}
	}

	return nil
}

func addFile(zw *zip.Writer, path, name string, buf []byte) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate
	header.Modified = info.ModTime()

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}

	// Hide io.WriterTo so the copy goes through buf.
	_, err = io.CopyBuffer(w, struct{ io.Reader }{f}, buf)
	return err
}
