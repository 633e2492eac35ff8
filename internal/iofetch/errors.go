package iofetch

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gntaxa/pkg/errcode"
)

func DownloadError(url string, err error) error {
	return &gn.Error{
		Code: errcode.FetchDownloadError,
		Msg:  "Cannot download dataset from <em>%s</em>",
		Vars: []any{url},
		Err:  fmt.Errorf("download %s: %w", url, err),
	}
}

func BadArchiveError(url string, err error) error {
	return &gn.Error{
		Code: errcode.FetchBadArchiveError,
		Msg:  "Downloaded archive from <em>%s</em> is not valid gzip",
		Vars: []any{url},
		Err:  fmt.Errorf("bad archive %s: %w", url, err),
	}
}

func OpenTargetError(path string, err error) error {
	return &gn.Error{
		Code: errcode.FetchLoadTSVError,
		Msg:  "Cannot open SQLite database <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("open %s: %w", path, err),
	}
}

func LoadTSVError(err error) error {
	return &gn.Error{
		Code: errcode.FetchLoadTSVError,
		Msg:  "Cannot load TSV snapshot into SQLite",
		Err:  fmt.Errorf("load tsv: %w", err),
	}
}

func CopyFileError(src, dst string, err error) error {
	return &gn.Error{
		Code: errcode.CopyFileError,
		Msg:  "Cannot copy <em>%s</em> to <em>%s</em>",
		Vars: []any{src, dst},
		Err:  fmt.Errorf("copy %s to %s: %w", src, dst, err),
	}
}
