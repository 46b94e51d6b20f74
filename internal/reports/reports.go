// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package reports reshapes the aggregated report datasets into chart rows
// and lays them out as SVG bar charts.
package reports

import (
	"fmt"

	"github.com/lawia/lawia-web/pkg/client"
)

// Row is one bar: a composite label and a count.
type Row struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// Dataset is one chart of the dashboard.
type Dataset struct {
	Key   string `json:"key"`
	Title string `json:"title"` // Message key
	Rows  []Row  `json:"rows"`
}

// Empty reports whether the dataset has nothing to draw.
func (d Dataset) Empty() bool {
	return len(d.Rows) == 0
}

// Dataset keys, matching the API payload.
const (
	KeyDocs     = "report_data_docs_clientes_casos"
	KeyCases    = "report_data_casos_advogado_status"
	KeyHearings = "report_data_audiencias_cliente_advogado"
)

// Build converts the API payload into the three dashboard datasets, in
// display order. noProcess labels documents of cases without a process
// number.
func Build(r *client.Reports, noProcess string) []Dataset {
	if r == nil {
		r = &client.Reports{}
	}
	return []Dataset{
		{Key: KeyDocs, Title: "reports.docs", Rows: DocsRows(r.DocsPerClientCase, noProcess)},
		{Key: KeyCases, Title: "reports.cases", Rows: CasesRows(r.CasesPerCounselStatus)},
		{Key: KeyHearings, Title: "reports.hearings", Rows: HearingsRows(r.HearingsPerClientCounsel)},
	}
}

// DocsRows labels rows "<client> (<process number>)".
func DocsRows(in []client.DocsPerClientCase, noProcess string) []Row {
	rows := make([]Row, 0, len(in))
	for _, r := range in {
		proc := client.Deref(r.NumeroProcesso)
		if proc == "" {
			proc = noProcess
		}
		rows = append(rows, Row{Name: fmt.Sprintf("%s (%s)", r.ClienteNome, proc), Value: r.TotalDocumentos})
	}
	return rows
}

// CasesRows labels rows "<counsel> - <status>".
func CasesRows(in []client.CasesPerCounselStatus) []Row {
	rows := make([]Row, 0, len(in))
	for _, r := range in {
		rows = append(rows, Row{Name: r.AdvogadoNome + " - " + r.StatusDescricao, Value: r.TotalCasos})
	}
	return rows
}

// HearingsRows labels rows "<client> - <counsel>".
func HearingsRows(in []client.HearingsPerClientCounsel) []Row {
	rows := make([]Row, 0, len(in))
	for _, r := range in {
		rows = append(rows, Row{Name: r.ClienteNome + " - " + r.AdvogadoNome, Value: r.TotalAudiencias})
	}
	return rows
}
