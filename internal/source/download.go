package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/twoyes/names-cli/internal/fetcher"
)

// Result records the outcome of downloading one source.
type Result struct {
	Source  Source
	Skipped bool // file already present and valid
	Err     error
}

// DownloadAll fetches every source into dataDir. A failure for one source is
// recorded and the run continues; a partial dataset still feeds later stages.
func DownloadAll(ctx context.Context, f fetcher.Fetcher, dataDir string, sources []Source) []Result {
	log := zap.L().With(zap.String("stage", "download"))

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return []Result{{Err: eris.Wrapf(err, "source: create data dir %s", dataDir)}}
	}

	results := make([]Result, 0, len(sources))
	for _, src := range sources {
		if ctx.Err() != nil {
			results = append(results, Result{Source: src, Err: ctx.Err()})
			continue
		}

		res := downloadOne(ctx, f, dataDir, src)
		if res.Err != nil {
			log.Warn("source skipped",
				zap.String("source", src.Name),
				zap.String("manual_download", src.Manual),
				zap.Error(res.Err),
			)
		} else if res.Skipped {
			log.Info("source already present", zap.String("source", src.Name))
		} else {
			log.Info("source downloaded", zap.String("source", src.Name))
		}
		results = append(results, res)
	}

	return results
}

// downloadOne fetches a single source file, skipping the download when a
// valid copy already exists, and extracts archives when required.
func downloadOne(ctx context.Context, f fetcher.Fetcher, dataDir string, src Source) Result {
	dest := filepath.Join(dataDir, src.Filename)

	skipped := false
	if _, err := os.Stat(dest); err == nil {
		// A previous run may have saved an HTML error page; re-download those.
		if err := fetcher.ValidateNotHTML(dest); err != nil {
			zap.L().Info("previous download was an HTML error page, re-downloading",
				zap.String("source", src.Name))
			_ = os.Remove(dest)
		} else {
			skipped = true
		}
	}

	if !skipped {
		if _, err := f.DownloadToFile(ctx, src.URL, dest); err != nil {
			_ = os.Remove(dest)
			return Result{Source: src, Err: eris.Wrapf(err, "source: download %s", src.Name)}
		}
		if err := fetcher.ValidateNotHTML(dest); err != nil {
			_ = os.Remove(dest)
			return Result{Source: src, Err: eris.Wrapf(err, "source: validate %s", src.Name)}
		}
	}

	if src.ExtractDir != "" {
		if err := extractOnce(dest, filepath.Join(dataDir, src.ExtractDir)); err != nil {
			return Result{Source: src, Err: err}
		}
	}

	return Result{Source: src, Skipped: skipped}
}

// extractOnce unzips the archive unless the destination already holds files.
func extractOnce(zipPath, destDir string) error {
	entries, err := os.ReadDir(destDir)
	if err == nil && len(entries) > 0 {
		return nil
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return eris.Wrapf(err, "source: create extract dir %s", destDir)
	}
	paths, err := fetcher.ExtractZIP(zipPath, destDir)
	if err != nil {
		return eris.Wrapf(err, "source: extract %s", zipPath)
	}
	zap.L().Info("archive extracted",
		zap.String("archive", filepath.Base(zipPath)),
		zap.Int("files", len(paths)),
	)
	return nil
}

// Summary formats a human-readable report of download results, including
// manual-download guidance for failed sources.
func Summary(results []Result) string {
	var sb strings.Builder
	var failed int
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			sb.WriteString("FAILED  " + r.Source.Name + ": " + r.Err.Error() + "\n")
			if r.Source.Manual != "" {
				sb.WriteString("        manual download: " + r.Source.Manual + "\n")
				sb.WriteString("        place at: " + r.Source.Filename + "\n")
			}
		case r.Skipped:
			sb.WriteString("OK      " + r.Source.Name + " (cached)\n")
		default:
			sb.WriteString("OK      " + r.Source.Name + "\n")
		}
	}
	if failed > 0 {
		sb.WriteString("\nSome downloads failed. Download manually and re-run; countries without data contribute zero names.\n")
	}
	return sb.String()
}
