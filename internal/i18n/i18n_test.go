// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogParses(t *testing.T) {
	require.NoError(t, Err())
	assert.Equal(t, []string{"en", "pt"}, Languages())
}

func TestCatalogKeysMatch(t *testing.T) {
	load()
	for key := range catalog[Default] {
		_, ok := catalog["en"][key]
		assert.True(t, ok, "en is missing %q", key)
	}
	for key := range catalog["en"] {
		_, ok := catalog[Default][key]
		assert.True(t, ok, "pt is missing %q", key)
	}
}

func TestT(t *testing.T) {
	assert.Equal(t, "Cliente adicionado com sucesso!", T("pt", "clients.created"))
	assert.Equal(t, "Client added.", T("en", "clients.created"))

	// unknown language falls back to pt
	assert.Equal(t, "Cliente adicionado com sucesso!", T("fr", "clients.created"))

	// unknown key falls back to the key
	assert.Equal(t, "__nope__", T("en", "__nope__"))
}

func TestT_Args(t *testing.T) {
	assert.Equal(t,
		`Falha na operação "LIMPAR DB (DEBUG)": Status 500 - boom`,
		T("pt", "settings.failure", T("pt", "settings.clean"), 500, "boom"))
	assert.Equal(t,
		"Erro ao baixar documento: Falha ao baixar documento: 404 - Not Found",
		T("pt", "documents.download_failed", "404 - Not Found"))
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "en", DetectLanguage("en-US,en;q=0.9"))
	assert.Equal(t, "en", DetectLanguage("EN-gb"))
	assert.Equal(t, "pt", DetectLanguage("pt-BR,pt;q=0.9"))
	assert.Equal(t, "pt", DetectLanguage("fr-FR,fr;q=0.8"))
	assert.Equal(t, "pt", DetectLanguage(""))
}

func TestParseCatalog_MissingDefault(t *testing.T) {
	_, err := parseCatalog([]byte("en:\n  a: b\n"))
	assert.Error(t, err)
}
