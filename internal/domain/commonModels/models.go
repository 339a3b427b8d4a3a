package commonModels

import "time"

type Document struct {
	Id                  string    `json:"source_doc_id"`
	Name                string    `json:"doc_name"`
	Content             string    `json:"-"`
	LastIngestTimestamp time.Time `json:"ingested_at"`
	ContentType         DocType   `json:"contentType"`
}

// Fingerprint is the hex MD5 of a chunk's trimmed content.
type Fingerprint string

// Chunk is immutable once produced by the splitter.
type Chunk struct {
	Content        string      `json:"content"`
	SourceHash     Fingerprint `json:"fingerprint"`
	OriginDocument string      `json:"source_doc_id"`
	DocName        string      `json:"doc_name,omitempty"`
	Order          int         `json:"chunk_order"`
}

type DocType string

var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var TXT DocType = "TXT"
var ERR DocType = "ERROR"
