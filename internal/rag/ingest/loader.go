package ingest

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/FinalGuardian/internal/adapter/utils"
	"github.com/akolanti/FinalGuardian/internal/domain/appErrors"
	"github.com/akolanti/FinalGuardian/internal/domain/commonModels"
	"github.com/akolanti/FinalGuardian/pkg/logger_i"
)

func getDocType(docPath string) commonModels.DocType {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch ext {
	case ".pdf":
		return commonModels.PDF
	case ".txt", ".md":
		return commonModels.TXT
	case ".docx", ".rtf", ".odt":
		return commonModels.DOCX
	default:
		return commonModels.ERR
	}
}

// Load extracts the text of a stored upload. name is the user-facing file name,
// used for the extension and for chunk metadata.
func Load(path string, name string) (commonModels.Document, error) {
	logger := logger_i.NewLogger("Document Loader")

	docType := getDocType(name)
	if docType == commonModels.ERR {
		return commonModels.Document{}, appErrors.Wrap(appErrors.KindUnsupportedDocument,
			"Unsupported file type: "+filepath.Ext(name), nil)
	}

	var pages []rawPage
	var err error
	switch docType {
	case commonModels.PDF:
		pages, err = extractPDF(path, logger)
	case commonModels.TXT:
		pages, err = extractPlain(path)
	default:
		pages, err = extractOffice(path)
	}
	if err != nil {
		logger.Error("Error extracting document content", "file", name, "error", err)
		return commonModels.Document{}, appErrors.Wrap(appErrors.KindEmptyDocument, "Error extracting document content", err)
	}

	texts := make([]string, 0, len(pages))
	for _, p := range pages {
		texts = append(texts, p.Content)
	}
	logger.Debug("Loaded document", "file", name, "pages", len(pages))

	return commonModels.Document{
		Id:                  utils.GetNewUUID(),
		Name:                name,
		Content:             strings.Join(texts, "\n\n"),
		LastIngestTimestamp: time.Now(),
		ContentType:         docType,
	}, nil
}

// FromText wraps already extracted text, e.g. from the CLI or tests.
func FromText(name string, text string) commonModels.Document {
	return commonModels.Document{
		Id:                  utils.GetNewUUID(),
		Name:                name,
		Content:             text,
		LastIngestTimestamp: time.Now(),
		ContentType:         commonModels.TXT,
	}
}
