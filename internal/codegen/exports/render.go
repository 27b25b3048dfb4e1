package exports

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"
	"text/template"

	"github.com/Alia5/iccgen/internal/codegen/output"
)

var platformTmpl = map[Platform]*template.Template{
	WIN: template.Must(template.New("win").Parse(
		"DESCRIPTION '{{.Family.Description}}'\n\nEXPORTS\n" +
			"{{range .Symbols}}{{.}}\n{{end}}")),
	AIX: template.Must(template.New("aix").Parse(
		"#!\n*DESCRIPTION '{{.Family.Description}}'\n\n" +
			"{{range .Symbols}}{{.}}\n{{end}}")),
	SUN: versionScript,
	LINUX: versionScript,
	HP: template.Must(template.New("hp").Parse(
		"#DESCRIPTION '{{.Family.Description}}'\n\n" +
			"{{range .Symbols}}+e {{.}}\n{{end}}" +
			"{{with .Family.Marker}}+e {{.}}{{$.Version}}\n{{end}}")),
	OS2: template.Must(template.New("os2").Parse(
		"LIBRARY         {{.Family.OS2Library}}  INITINSTANCE\n" +
			"DATA NONSHARED\n\n" +
			"DESCRIPTION     '{{.Family.OS2Description}}'\n\n" +
			"EXPORTS\n" +
			"{{range .Symbols}}\t_{{.}}\n{{end}}")),
	OSX: template.Must(template.New("osx").Parse(
		"{{range .Symbols}}_{{.}}\n{{end}}")),
	OS400: template.Must(template.New("os400").Parse(
		"STRPGMEXP PGMLVL(*CURRENT) SIGNATURE(\"{{.Family.Signature}}\")\n" +
			"{{range .Symbols}}EXPORT SYMBOL(\"{{.}}\")\n{{end}}" +
			"ENDPGMEXP\n")),
	ZOS: template.Must(template.New("zos").Parse(
		"/* z/OS pragma's to control symbol visibility */\n\n" +
			"#ifdef __cplusplus\nextern \"C\" {\n#endif\n\n" +
			"{{range .Symbols}}#pragma export({{.}})\n{{end}}" +
			"\n#ifdef __cplusplus\n};\n#endif\n")),
}

var versionScript = template.Must(template.New("version-script").Parse(
	"#DESCRIPTION '{{.Family.Description}}'\n\n{{.Family.Block}} {\n  global:\n" +
		"{{range .Symbols}}    {{.}};\n{{end}}" +
		"  local:\n    *;\n};"))

// Render formats the export file of family f for platform p.
func Render(f Family, p Platform, version string, names []string) ([]byte, error) {
	tmpl, ok := platformTmpl[p]
	if !ok {
		return nil, fmt.Errorf("no export syntax for platform %s", p)
	}
	data := struct {
		Family  Family
		Symbols []string
		Version string
	}{
		Family:  f,
		Symbols: f.Symbols(p, names),
		Version: version,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute %s export template: %w", p, err)
	}
	return buf.Bytes(), nil
}

// Exporter writes every target of a family through a sink.
type Exporter struct {
	sink   output.Sink
	logger *slog.Logger
}

func NewExporter(sink output.Sink, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{sink: sink, logger: logger}
}

// Write renders all targets of f into dir. version suffixes the HP marker.
func (e *Exporter) Write(f Family, dir, version string, names []string) error {
	for _, t := range f.Targets {
		data, err := Render(f, t.Platform, version, names)
		if err != nil {
			return fmt.Errorf("%s: %w", t.File, err)
		}
		path := filepath.Join(dir, t.File)
		if err := e.create(path, data); err != nil {
			return err
		}
	}
	e.logger.Info("Generated exports", "family", f.Name, "dir", dir, "files", len(f.Targets))
	return nil
}

func (e *Exporter) create(path string, data []byte) (err error) {
	w, err := e.sink.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	e.logger.Debug("Generated export file", "file", path)
	return nil
}
