package source

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"

	"genjson/common"
)

// office containers keep content types listing deep inside zip directory,
// give the matcher enough bytes to find it
const sniffSize = 8192

// Detect guesses source format from file content, falling back to file
// extension. Anything not recognized as spreadsheet is treated as delimited
// text.
func Detect(path string) (common.SourceFmt, error) {
	f, err := os.Open(path)
	if err != nil {
		return common.SourceFmtAuto, err
	}
	defer f.Close()

	head := make([]byte, sniffSize)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return common.SourceFmtAuto, err
	}
	return detect(head[:n], filepath.Ext(path))
}

func detect(head []byte, ext string) (common.SourceFmt, error) {
	kind, _ := filetype.Match(head)
	switch kind {
	case matchers.TypeXlsx:
		return common.SourceFmtXlsx, nil
	case matchers.TypeXls, matchers.TypeDoc, matchers.TypePpt:
		// OLE compound documents
		return common.SourceFmtAuto, errors.New("legacy binary spreadsheet (xls) is not supported, save it as xlsx")
	case matchers.TypeZip:
		// content types entry was not within sniffed range
		return common.SourceFmtXlsx, nil
	case filetype.Unknown:
	default:
		if strings.EqualFold(ext, ".xlsx") || strings.EqualFold(ext, ".xlsm") {
			return common.SourceFmtXlsx, nil
		}
		return common.SourceFmtAuto, errors.New("unsupported source type " + kind.MIME.Value)
	}

	switch strings.ToLower(ext) {
	case ".xlsx", ".xlsm":
		// does not look like zip container, let spreadsheet reader explain why
		return common.SourceFmtXlsx, nil
	default:
		return common.SourceFmtCsv, nil
	}
}
