package ingest

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/keywordpdf/internal/common"
	"github.com/joseph-ayodele/keywordpdf/internal/extract"
)

// UniqueFilename returns desired if no file of that name exists in
// dir; otherwise it appends " (1)", " (2)", ... before the extension
// until the name is free.
func UniqueFilename(dir, desired string) string {
	ext := filepath.Ext(desired)
	name := strings.TrimSuffix(desired, ext)

	candidate := desired
	for counter := 1; ; counter++ {
		if _, err := os.Stat(filepath.Join(dir, candidate)); os.IsNotExist(err) {
			return candidate
		}
		candidate = fmt.Sprintf("%s (%d)%s", name, counter, ext)
	}
}

// RenameByIdentity renames oldName inside dir to the canonical
// {company}_{date}.pdf form. It is a no-op when either extraction
// produced its sentinel. If the resolved unique target became occupied
// between resolution and rename, the rename is skipped and reported
// rather than overwriting.
func RenameByIdentity(dir, oldName, company, date string, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if company == extract.UnknownCompany || date == extract.UnknownDate {
		return oldName, nil
	}

	newName := UniqueFilename(dir, fmt.Sprintf("%s_%s.pdf", company, date))
	newPath := filepath.Join(dir, newName)

	if _, err := os.Stat(newPath); err == nil {
		logger.Warn("ingest.rename_race", "target", newPath)
		return oldName, common.NewAppError("RENAME_RACE",
			fmt.Sprintf("target %q became occupied", newName), common.ErrFileSystemRace)
	}
	if err := os.Rename(filepath.Join(dir, oldName), newPath); err != nil {
		return oldName, common.WrapError(err, "rename")
	}
	logger.Info("ingest.renamed", "from", oldName, "to", newName)
	return newName, nil
}
