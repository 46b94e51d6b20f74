// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"golang.org/x/sync/errgroup"

	"github.com/lawia/lawia-web/internal/crud"
	"github.com/lawia/lawia-web/internal/i18n"
	"github.com/lawia/lawia-web/internal/reports"
	"github.com/lawia/lawia-web/pkg/client"
)

// confirm asks a yes/no question on the terminal.
var confirm = func(message string) (bool, error) {
	var ok bool
	err := survey.AskOne(&survey.Confirm{Message: message}, &ok)
	return ok, err
}

func cmdStatus(args []string) error {
	ctx := context.Background()

	var (
		g        errgroup.Group
		api, db  string
		apiErr   error
		statuses []client.LookupItem
		dbErr    error
	)
	g.Go(func() error {
		api, apiErr = apiClient.Health.Check(ctx)
		return nil
	})
	g.Go(func() error {
		statuses, dbErr = apiClient.Lookups.Status(ctx)
		return nil
	})
	g.Wait()

	if apiErr != nil {
		api = "Error: " + apiErr.Error()
	}
	db = "OK"
	if dbErr != nil {
		db = "Error: " + dbErr.Error()
	}

	if jsonOutput {
		printJSON(map[string]interface{}{
			"api":      api,
			"db":       db,
			"statuses": len(statuses),
		})
		return nil
	}

	fmt.Fprintf(stdout, "API: %s\n", api)
	fmt.Fprintf(stdout, "DB:  %s\n", db)
	if apiErr != nil || dbErr != nil {
		return errors.New("backend unhealthy")
	}
	return nil
}

func cmdAdmin(name string, args []string) error {
	action, ok := client.ParseAction(name)
	if !ok {
		return fmt.Errorf("unknown action: %s", name)
	}

	yes, _ := hasFlag(args, "-y", "-yes", "--yes")
	if action == client.ActionClean && !yes {
		ok, err := confirm("Drop every record in the LawIA database?")
		if err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				return errors.New("aborted")
			}
			return err
		}
		if !ok {
			fmt.Fprintln(stdout, "Cancelled")
			return nil
		}
	}

	res, err := apiClient.Admin.Run(context.Background(), action)
	if err != nil {
		return err
	}
	if jsonOutput {
		printJSON(res)
		return nil
	}
	msg := res.Message
	if msg == "" {
		msg = i18n.T(lang, "settings.done")
	}
	fmt.Fprintf(stdout, "%s: %s\n", name, msg)
	return nil
}

func cmdClients(args []string) error {
	term, _ := flagValue(args, "-q")
	items, err := apiClient.Clients.List(context.Background())
	if err != nil {
		return err
	}
	items = crud.Filter(items, term, crud.ClientSearchFields)

	if jsonOutput {
		printJSON(items)
		return nil
	}
	if len(items) == 0 {
		fmt.Fprintln(stdout, i18n.T(lang, "clients.empty"))
		return nil
	}

	fmt.Fprintf(stdout, "%-6s %-30s %-30s %-15s %s\n", "ID", "NAME", "EMAIL", "PHONE", "TAX ID")
	fmt.Fprintln(stdout, strings.Repeat("-", 100))
	for _, c := range items {
		taxID := ""
		if id := c.TaxID(); id != nil {
			taxID = id.Kind() + " " + id.Value()
		}
		fmt.Fprintf(stdout, "%-6d %-30s %-30s %-15s %s\n", c.ID, c.Nome, c.Email, c.Telefone, taxID)
	}
	return nil
}

func cmdCases(args []string) error {
	term, _ := flagValue(args, "-q")
	items, err := apiClient.Cases.List(context.Background())
	if err != nil {
		return err
	}
	items = crud.Filter(items, term, crud.CaseSearchFields)

	if jsonOutput {
		printJSON(items)
		return nil
	}
	if len(items) == 0 {
		fmt.Fprintln(stdout, i18n.T(lang, "cases.empty"))
		return nil
	}

	fmt.Fprintf(stdout, "%-6s %-25s %-25s %-20s %-12s %s\n", "ID", "PROCESS", "CLIENT", "COUNSEL", "OPENED", "STATUS")
	fmt.Fprintln(stdout, strings.Repeat("-", 110))
	for _, c := range items {
		proc := client.Deref(c.NumeroProcesso)
		if proc == "" {
			proc = i18n.T(lang, "cases.no_process")
		}
		fmt.Fprintf(stdout, "%-6d %-25s %-25s %-20s %-12s %s\n",
			c.ID, proc, c.ClienteNome, c.AdvogadoNome, crud.DateOnly(c.DataAbertura), c.StatusDescricao)
	}
	return nil
}

func cmdDocuments(args []string) error {
	term, _ := flagValue(args, "-q")
	items, err := apiClient.Documents.List(context.Background())
	if err != nil {
		return err
	}
	items = crud.Filter(items, term, crud.DocumentSearchFields)

	if jsonOutput {
		printJSON(items)
		return nil
	}
	if len(items) == 0 {
		fmt.Fprintln(stdout, i18n.T(lang, "documents.empty"))
		return nil
	}

	fmt.Fprintf(stdout, "%-6s %-6s %-12s %-30s %s\n", "ID", "CASE", "SENT", "FILE", "DESCRIPTION")
	fmt.Fprintln(stdout, strings.Repeat("-", 100))
	for _, d := range items {
		fmt.Fprintf(stdout, "%-6d %-6d %-12s %-30s %s\n", d.ID, d.IDCaso, crud.DateOnly(d.DataEnvio), d.NomeArquivo, d.Descricao)
	}
	return nil
}

func cmdDownload(args []string) error {
	out, rest := flagValue(args, "-o")
	if len(rest) != 1 {
		return fmt.Errorf("usage: lawia-ctl download <id> [-o path]")
	}
	id, err := strconv.Atoi(rest[0])
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid document id: %s", rest[0])
	}

	dl, err := apiClient.Documents.Download(context.Background(), id)
	if err != nil {
		return err
	}
	defer dl.Body.Close()

	if out == "" {
		out = filepath.Base(dl.Filename)
		if out == "" || out == "." || out == "/" {
			out = fmt.Sprintf("documento_%d", id)
		}
	}
	if out == "-" {
		_, err := io.Copy(stdout, dl.Body)
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	n, err := io.Copy(f, dl.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if !jsonOutput {
		fmt.Fprintf(stdout, "Saved %s (%d bytes)\n", out, n)
	}
	return nil
}

func cmdModels(args []string) error {
	models, err := apiClient.Assistant.Models(context.Background())
	if err != nil {
		return err
	}
	if jsonOutput {
		printJSON(models)
		return nil
	}
	if len(models) == 0 {
		fmt.Fprintln(stdout, i18n.T(lang, "assistant.no_models"))
		return nil
	}
	for _, m := range models {
		fmt.Fprintf(stdout, "%-30s %s\n", m.ID, m.Nome)
	}
	return nil
}

func cmdAsk(args []string) error {
	ctx := context.Background()
	model, args := flagValue(args, "-model", "-m")
	file, args := flagValue(args, "-file", "-f")
	question := strings.TrimSpace(strings.Join(args, " "))

	if model == "" || file == "" || question == "" {
		var err error
		model, file, question, err = promptQuestion(ctx, model, file, question)
		if err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				return errors.New("aborted")
			}
			return err
		}
	}
	if model == "" || file == "" || strings.TrimSpace(question) == "" {
		return errors.New(i18n.T(lang, "assistant.required"))
	}

	ans, err := apiClient.Assistant.Ask(ctx, client.Question{FileName: file, Question: question, Model: model})
	if err != nil {
		return errors.New(crud.Describe(lang, err, "assistant.failed", "assistant.network"))
	}
	if jsonOutput {
		printJSON(ans)
		return nil
	}
	text := ans.Response
	if text == "" {
		text = ans.Message
	}
	fmt.Fprintln(stdout, text)
	return nil
}

// promptQuestion fills in whatever the command line left out, offering the
// models and documents the API knows about.
func promptQuestion(ctx context.Context, model, file, question string) (string, string, string, error) {
	var (
		g      errgroup.Group
		models []client.Model
		docs   []client.Document
	)
	if model == "" {
		g.Go(func() (err error) {
			models, err = apiClient.Assistant.Models(ctx)
			return err
		})
	}
	if file == "" {
		g.Go(func() (err error) {
			docs, err = apiClient.Documents.List(ctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return "", "", "", err
	}

	if model == "" {
		if len(models) == 0 {
			return "", "", "", errors.New(i18n.T(lang, "assistant.no_models"))
		}
		opts := make([]string, len(models))
		for i, m := range models {
			opts[i] = m.ID
		}
		if err := survey.AskOne(&survey.Select{Message: i18n.T(lang, "assistant.model"), Options: opts}, &model); err != nil {
			return "", "", "", err
		}
	}
	if file == "" {
		if len(docs) == 0 {
			return "", "", "", errors.New(i18n.T(lang, "assistant.no_documents"))
		}
		opts := make([]string, len(docs))
		for i, d := range docs {
			opts[i] = d.NomeArquivo
		}
		if err := survey.AskOne(&survey.Select{Message: i18n.T(lang, "assistant.document"), Options: opts}, &file); err != nil {
			return "", "", "", err
		}
	}
	if question == "" {
		err := survey.AskOne(&survey.Multiline{Message: i18n.T(lang, "assistant.question")}, &question,
			survey.WithValidator(survey.Required))
		if err != nil {
			return "", "", "", err
		}
	}
	return model, file, question, nil
}

func cmdReports(args []string) error {
	data, err := apiClient.Reports.Get(context.Background())
	if err != nil {
		return err
	}
	sets := reports.Build(data, i18n.T(lang, "reports.no_process"))
	if jsonOutput {
		printJSON(sets)
		return nil
	}

	for i, ds := range sets {
		if i > 0 {
			fmt.Fprintln(stdout)
		}
		fmt.Fprintln(stdout, i18n.T(lang, ds.Title))
		fmt.Fprintln(stdout, strings.Repeat("-", 60))
		if ds.Empty() {
			fmt.Fprintln(stdout, i18n.T(lang, "reports.empty"))
			continue
		}
		for _, r := range ds.Rows {
			fmt.Fprintf(stdout, "%-50s %8d\n", r.Name, r.Value)
		}
	}
	return nil
}
