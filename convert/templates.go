package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"genjson/config"
	"genjson/source"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context    string
	Name       string
	SourceFile string
	Format     string
	Sheet      string
	Columns    []string
	Records    int
	RunID      string
}

func buildValues(t *source.Table, src, runID string) Values {
	base := filepath.Base(src)
	return Values{
		Name:       strings.TrimSuffix(base, filepath.Ext(base)),
		SourceFile: base,
		Format:     t.Format.String(),
		Sheet:      t.Sheet,
		Columns:    t.Header,
		Records:    len(t.Records),
		RunID:      runID,
	}
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values.Context = string(name)

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
