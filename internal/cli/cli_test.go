package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"annexvii/internal/blob"
	"annexvii/internal/config"
	"annexvii/internal/core"
	"annexvii/internal/infra/persistence/memory"
	"annexvii/internal/payload"
	"annexvii/internal/referencedata"
	"annexvii/pkg/domain"
)

func sequentialIDs() core.IDGenerator {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// newTestApp returns an opener sharing one in-memory App across commands.
func newTestApp(t *testing.T) Opener {
	t.Helper()
	refData := &referencedata.Data{
		Waste: []referencedata.WasteCodeList{
			{Type: domain.WasteCodeBaselAnnexIX, Values: []referencedata.Entry{{Code: "B1010"}}},
		},
		EWC: []referencedata.Entry{{Code: "010101"}, {Code: "101213"}},
	}
	app := &App{
		Decoder: payload.MustNewDecoder(),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	app.Service = core.NewService(memory.NewStore(),
		core.WithIDGenerator(sequentialIDs()),
		core.WithArchive(blob.NewMemory()),
		core.WithReferenceData(refData),
	)
	return func(context.Context) (*App, error) { return app, nil }
}

func run(t *testing.T, open Opener, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--account", "acc"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, open Opener, args ...string) string {
	t.Helper()
	out, err := run(t, open, "", args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const uploadCSV = "\ufeffReference,Basel Annex IX code,EWC codes,Waste description,Waste quantity tonnes,Estimated or actual waste quantity\n" +
	"ref-1,B1010,010101,metal,20,estimate\n" +
	"\n" +
	"ref-2,B9999,010101,metal,20,estimate\n"

func TestReadRows(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(uploadCSV))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected blank lines skipped, got %d rows", len(rows))
	}
	first := rows[0]
	if first.CustomerReference != "ref-1" || first.BaselAnnexIXCode != "B1010" || first.QuantityTonnes != "20" || first.QuantityType != "estimate" {
		t.Fatalf("unexpected row %+v", first)
	}

	if _, err := ReadRows(strings.NewReader("")); err == nil {
		t.Fatalf("expected missing header error")
	}
	if _, err := ReadRows(strings.NewReader("reference,colour\nx,red\n")); err == nil || !strings.Contains(err.Error(), "colour") {
		t.Fatalf("expected unknown column error, got %v", err)
	}
}

func TestValidateCommand(t *testing.T) {
	open := newTestApp(t)

	out, err := run(t, open, uploadCSV, "validate", "-")
	if err == nil || !strings.Contains(err.Error(), "1 of 2 rows") {
		t.Fatalf("expected one failed row, got %v", err)
	}
	if !strings.Contains(out, "row 3") {
		t.Fatalf("expected the failing row reported, got %q", out)
	}

	valid := strings.SplitN(uploadCSV, "\n", 3)
	path := writeFile(t, "upload.csv", valid[0]+"\n"+valid[1]+"\n")
	out = mustRun(t, open, "validate", path)
	if !strings.Contains(out, "1 rows valid") {
		t.Fatalf("unexpected output %q", out)
	}

	out = mustRun(t, open, "validate", "--json", path)
	var res struct {
		Valid bool `json:"valid"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil || !res.Valid {
		t.Fatalf("expected a valid json result, got %q (%v)", out, err)
	}
}

func TestSubmissionCommands(t *testing.T) {
	open := newTestApp(t)

	out := mustRun(t, open, "submission", "create", "REF-1")
	if !strings.Contains(out, "id-1") {
		t.Fatalf("expected the new id, got %q", out)
	}
	out = mustRun(t, open, "submission", "show", "id-1")
	var sub domain.Submission
	if err := json.Unmarshal([]byte(out), &sub); err != nil {
		t.Fatalf("decode show: %v", err)
	}
	if sub.Reference != "REF-1" || sub.SubmissionState.Status != domain.StateInProgress {
		t.Fatalf("unexpected submission %+v", sub)
	}

	mustRun(t, open, "submission", "create", "REF-2")
	out = mustRun(t, open, "submission", "list")
	if !strings.Contains(out, "REF-1") || !strings.Contains(out, "REF-2") || !strings.Contains(out, "2 submissions") {
		t.Fatalf("unexpected listing %q", out)
	}

	if _, err := run(t, open, "", "submission", "cancel", "id-1", "--type", "Other"); err == nil {
		t.Fatalf("expected Other without a reason to be rejected")
	}
	mustRun(t, open, "submission", "cancel", "id-1", "--type", "Other", "--reason", "duplicate")
	mustRun(t, open, "submission", "delete", "id-2")

	out = mustRun(t, open, "submission", "list", "--json")
	var page domain.Page[domain.SubmissionSummary]
	if err := json.Unmarshal([]byte(out), &page); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if page.TotalRecords != 0 {
		t.Fatalf("expected hidden submissions left out, got %+v", page)
	}

	_, err := run(t, open, "", "submission", "show", "id-1")
	if domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := run(t, open, "", "submission", "show", "id-3", "--archived"); domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("expected no archive, got %v", err)
	}
}

func TestTemplateCommands(t *testing.T) {
	open := newTestApp(t)

	mustRun(t, open, "template", "create", "Weekly", "--description", "Monday run")
	if _, err := run(t, open, "", "template", "create", "weekly"); domain.KindOf(err) != domain.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, err := run(t, open, "", "template", "create", "Copy", "--from-submission", "a", "--from-template", "b"); err == nil {
		t.Fatalf("expected exclusive flags rejected")
	}
	mustRun(t, open, "template", "create", "Copy", "--from-template", "id-1")

	out := mustRun(t, open, "template", "show", "id-2")
	var tpl domain.Template
	if err := json.Unmarshal([]byte(out), &tpl); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tpl.TemplateDetails.Name != "Copy" {
		t.Fatalf("unexpected template %+v", tpl.TemplateDetails)
	}

	out = mustRun(t, open, "template", "list")
	if !strings.Contains(out, "Weekly") || !strings.Contains(out, "Monday run") || !strings.Contains(out, "2 templates") {
		t.Fatalf("unexpected listing %q", out)
	}

	mustRun(t, open, "submission", "create", "REF-1", "--template", "id-1")
	mustRun(t, open, "template", "delete", "id-1")
	if _, err := run(t, open, "", "template", "show", "id-1"); domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

const wasteDescriptionBody = `{
	"status": "Complete",
	"wasteCode": {"type": "BaselAnnexIX", "code": "B1010"},
	"ewcCodes": [{"code": "101213"}],
	"nationalCode": {"provided": "No"},
	"description": "metal scrap"
}`

func TestSectionSet(t *testing.T) {
	open := newTestApp(t)
	mustRun(t, open, "submission", "create", "REF-1")

	path := writeFile(t, "wd.json", wasteDescriptionBody)
	mustRun(t, open, "section", "set", "id-1", "wasteDescription", path)

	out := mustRun(t, open, "section", "show", "id-1", "recoveryFacilityDetail")
	if !strings.Contains(out, `"NotStarted"`) {
		t.Fatalf("expected recovery facilities unlocked, got %q", out)
	}

	carriers := `{"status":"Started","transport":true,"values":[{"id":"new","transportDetails":{"type":"Road"}}]}`
	if out, err := run(t, open, carriers, "section", "set", "id-1", "carriers", "-"); err != nil {
		t.Fatalf("set carriers: %v\n%s", err, out)
	}
	out = mustRun(t, open, "section", "show", "id-1", "carriers")
	var got domain.Carriers
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode carriers: %v", err)
	}
	if len(got.Values) != 1 || got.Values[0].ID != "id-2" || got.Values[0].TransportDetails.Type != domain.TransportRoad {
		t.Fatalf("expected a created carrier, got %+v", got)
	}

	carriers = `{"status":"Complete","transport":true,"values":[{"id":"id-2","transportDetails":{"type":"Rail"}}]}`
	if _, err := run(t, open, carriers, "section", "set", "id-1", "carriers", "-"); err != nil {
		t.Fatalf("replace carrier: %v", err)
	}
	out = mustRun(t, open, "section", "show", "id-1", "carriers")
	got = domain.Carriers{}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode carriers: %v", err)
	}
	if got.Status != domain.StatusComplete || len(got.Values) != 1 || got.Values[0].TransportDetails.Type != domain.TransportRail {
		t.Fatalf("expected the carrier replaced in place, got %+v", got)
	}

	_, err := run(t, open, `{"status":"NotStarted","transport":true}`, "section", "set", "id-1", "carriers", "-")
	if err != nil {
		t.Fatalf("reset carriers: %v", err)
	}
	out = mustRun(t, open, "section", "show", "id-1", "carriers")
	if strings.Contains(out, "id-2") {
		t.Fatalf("expected carriers reset, got %q", out)
	}

	if _, err := run(t, open, `{"status":"Done"}`, "section", "set", "id-1", "exporterDetail", "-"); domain.KindOf(err) != domain.KindBadRequest {
		t.Fatalf("expected schema rejection, got %v", err)
	}
	if _, err := run(t, open, "{}", "section", "set", "id-1", "parcel", "-"); domain.KindOf(err) != domain.KindBadRequest {
		t.Fatalf("expected unknown section rejected, got %v", err)
	}
}

func TestSectionSetOnTemplate(t *testing.T) {
	open := newTestApp(t)
	mustRun(t, open, "template", "create", "Weekly")

	path := writeFile(t, "wd.json", wasteDescriptionBody)
	mustRun(t, open, "section", "set", "--template", "id-1", "wasteDescription", path)
	out := mustRun(t, open, "section", "show", "--template", "id-1", "wasteDescription")
	if !strings.Contains(out, "B1010") {
		t.Fatalf("unexpected section %q", out)
	}

	quantity := `{"status":"Started","type":"EstimateData","estimateData":{"quantityType":"Weight","unit":"Tonne","value":"1"}}`
	_, err := run(t, open, quantity, "section", "set", "--template", "id-1", "wasteQuantity", "-")
	if domain.KindOf(err) != domain.KindBadRequest || !strings.Contains(err.Error(), "not part of a template") {
		t.Fatalf("expected submission-only section rejected, got %v", err)
	}
}

func TestOpenWiresConfiguredStack(t *testing.T) {
	cfg := config.Default()
	cfg.Metrics = "prometheus"
	cfg.Tracing = "jsonl"
	cfg.TracePath = filepath.Join(t.TempDir(), "trace.jsonl")
	cfg.Log = config.Log{Level: "debug", Format: "json"}

	var logs bytes.Buffer
	app, err := Open(context.Background(), cfg, &logs)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := app.Service.CreateSubmission(context.Background(), "acc", "REF"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if app.Registry == nil {
		t.Fatalf("expected a prometheus registry")
	}
	families, err := app.Registry.Gather()
	if err != nil || len(families) == 0 {
		t.Fatalf("expected gathered metrics, got %d (%v)", len(families), err)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	trace, err := os.ReadFile(cfg.TracePath)
	if err != nil || !bytes.Contains(trace, []byte("create_submission")) {
		t.Fatalf("expected the span in the trace file, got %q (%v)", trace, err)
	}
	if !strings.Contains(logs.String(), "annexvii ready") {
		t.Fatalf("expected the ready line, got %q", logs.String())
	}

	cfg = config.Default()
	cfg.Metrics = "statsd"
	if _, err := Open(context.Background(), cfg, io.Discard); err == nil {
		t.Fatalf("expected unknown recorder rejected")
	}
}

func TestNewLogger(t *testing.T) {
	if _, err := NewLogger(config.Log{Level: "loud"}, io.Discard); err == nil {
		t.Fatalf("expected bad level rejected")
	}
	if _, err := NewLogger(config.Log{Format: "xml"}, io.Discard); err == nil {
		t.Fatalf("expected bad format rejected")
	}
	var buf bytes.Buffer
	logger, err := NewLogger(config.Log{Level: "warn"}, &buf)
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	logger.Info("quiet")
	logger.Warn("loud")
	if strings.Contains(buf.String(), "quiet") || !strings.Contains(buf.String(), "loud") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
