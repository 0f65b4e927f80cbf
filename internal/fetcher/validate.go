package fetcher

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// htmlMarkers are byte signatures that identify an HTML error page served in
// place of the expected data file (CDN blocks, expired links, login walls).
var htmlMarkers = []string{"<HTML", "<!DOCTYPE", "Access Denied"}

// ErrHTMLResponse indicates a download produced an HTML error page instead of data.
var ErrHTMLResponse = eris.New("fetcher: response is an HTML error page, not data")

// sniffLen bounds how much of the file head is inspected for markup signatures.
const sniffLen = 200

// ValidateNotHTML checks that the file at path does not begin with an HTML
// error page. Returns ErrHTMLResponse (wrapped) when it does.
func ValidateNotHTML(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return eris.Wrapf(err, "fetcher: open %s for validation", path)
	}
	defer f.Close() //nolint:errcheck

	buf := make([]byte, sniffLen)
	n, _ := f.Read(buf)
	head := string(buf[:n])

	for _, marker := range htmlMarkers {
		if strings.Contains(head, marker) {
			return eris.Wrapf(ErrHTMLResponse, "fetcher: %s", path)
		}
	}
	return nil
}
