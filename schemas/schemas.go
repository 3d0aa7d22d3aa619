// Package schemas embeds the JSON Schemas of the documents cv-studio reads.
package schemas

import _ "embed"

// CvDocumentFile is the file name of the CV document schema.
const CvDocumentFile = "cv_document.schema.json"

// CvDocument is the JSON Schema for CV documents.
//
//go:embed cv_document.schema.json
var CvDocument []byte
