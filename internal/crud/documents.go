// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package crud

import (
	"context"
	"strconv"

	"github.com/lawia/lawia-web/pkg/client"
)

// DocumentSearchFields are the values the document list filter looks at.
var DocumentSearchFields = []FieldFunc[client.Document]{
	func(d client.Document) string { return d.NomeArquivo },
	func(d client.Document) string { return d.Descricao },
	func(d client.Document) string { return strconv.Itoa(d.IDCaso) },
	func(d client.Document) string { return d.DataEnvio },
}

// DocumentID returns the identifier of d.
func DocumentID(d client.Document) int { return d.ID }

// FileField is the multipart field carrying the upload.
const FileField = "arquivo"

var documentSchema = []Field{
	{Name: "id_caso", Label: "field.caso", Kind: KindSelect, Required: true, Lookup: LookupCases},
	{Name: "descricao", Label: "field.descricao", Kind: KindTextarea, Required: true},
	{Name: "data_envio", Label: "field.data_envio", Kind: KindDate, Required: true},
	{Name: FileField, Label: "field.arquivo", Kind: KindFile, Required: true},
	{Name: "nome_arquivo", Label: "field.nome_arquivo", Kind: KindText, Required: true},
}

// NewDocumentForm builds the document create/edit controller.
func NewDocumentForm(api *client.Client) *Form[client.Document] {
	return &Form[client.Document]{
		Base:   "/documentos",
		Schema: documentSchema,
		Lookups: []Lookup{
			{Name: LookupCases, Load: api.Lookups.Cases},
		},
		Defaults: Draft{},
		Messages: entityMessages("documents"),
		Get:      api.Documents.Get,
		ToDraft:  DocumentToDraft,
		Check:    checkDocument,
		Create: func(ctx context.Context, sub Submission) (int, error) {
			return api.Documents.Create(ctx, DocumentInputFromSubmission(sub))
		},
		Update: func(ctx context.Context, id int, sub Submission) error {
			return api.Documents.Update(ctx, id, DocumentInputFromSubmission(sub))
		},
	}
}

// DocumentToDraft converts a document to form values.
func DocumentToDraft(d client.Document) Draft {
	return Draft{
		"id_caso":      strconv.Itoa(d.IDCaso),
		"descricao":    d.Descricao,
		"data_envio":   DateOnly(d.DataEnvio),
		"nome_arquivo": d.NomeArquivo,
	}
}

// WithUpload attaches an uploaded file to a submission, copying its name
// into nome_arquivo when that field is empty.
func WithUpload(sub Submission, file *Upload) Submission {
	if file == nil {
		return sub
	}
	d := sub.Draft.Clone()
	if d.Get("nome_arquivo") == "" {
		d["nome_arquivo"] = file.Name
	}
	return Submission{Draft: d, File: file}
}

// DocumentInputFromSubmission maps form values to the JSON body. Without a
// file the content field is omitted so the stored file is kept.
func DocumentInputFromSubmission(sub Submission) client.DocumentInput {
	id, _ := strconv.Atoi(sub.Draft.Get("id_caso"))
	in := client.DocumentInput{
		IDCaso:      id,
		Descricao:   sub.Draft.Get("descricao"),
		DataEnvio:   sub.Draft.Get("data_envio"),
		NomeArquivo: sub.Draft.Get("nome_arquivo"),
	}
	if sub.File != nil {
		content := sub.File.Base64
		in.ArquivoBase64 = &content
	}
	return in
}

func checkDocument(mode Mode, sub Submission) *ValidationError {
	if mode == ModeCreate && sub.File == nil {
		return invalid("documents.file_required", FileField)
	}
	if _, err := strconv.Atoi(sub.Draft.Get("id_caso")); err != nil {
		return invalid("documents.required", "id_caso")
	}
	return nil
}
