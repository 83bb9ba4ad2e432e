package deploy

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Azure/automata/pkg/filetree"
	"github.com/klauspost/compress/gzip"
)

// ArchiveName is the file name of the delivery archive on both ends.
const ArchiveName = "automata.tar.gz"

// ArchiveIgnores are left out of the delivery archive.
var ArchiveIgnores = filetree.VCSIgnores

// WriteArchive packs every regular file under root into a gzipped tarball at
// dest. Entry names are slash-separated and relative to root.
func WriteArchive(root, dest string) (int, error) {
	files, err := filetree.Walk(root, ArchiveIgnores)
	if err != nil {
		return 0, fmt.Errorf("listing %s: %w", root, err)
	}

	out, err := os.Create(dest)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	for _, rel := range files {
		if err := addFile(tw, root, rel); err != nil {
			return 0, fmt.Errorf("archiving %s: %w", rel, err)
		}
	}

	if err := tw.Close(); err != nil {
		return 0, err
	}
	if err := gz.Close(); err != nil {
		return 0, err
	}
	return len(files), out.Close()
}

func addFile(tw *tar.Writer, root, rel string) error {
	path := filepath.Join(root, filepath.FromSlash(rel))
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = rel
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(tw, f)
	return err
}
