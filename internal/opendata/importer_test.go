package opendata_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/EmpoweredVote/EV-OpenData/internal/opendata"
)

// fakeFetcher serves canned records by URL.
type fakeFetcher struct {
	records map[string][]opendata.Record
	errs    map[string]error
	calls   []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]opendata.Record, error) {
	f.calls = append(f.calls, url)
	if err := f.errs[url]; err != nil {
		return nil, err
	}
	return f.records[url], nil
}

// tableStore keeps rows per table in memory, like a database would.
type tableStore struct {
	tables      map[string][]any
	truncations [][]string
	failInserts bool
}

func newTableStore() *tableStore {
	return &tableStore{tables: map[string][]any{}}
}

func (s *tableStore) Truncate(ctx context.Context, tables ...string) error {
	s.truncations = append(s.truncations, tables)
	for _, t := range tables {
		delete(s.tables, t)
	}
	return nil
}

func (s *tableStore) Insert(ctx context.Context, rows any) error {
	if s.failInserts {
		return errors.New("disk full")
	}
	switch rs := rows.(type) {
	case []*opendata.District:
		for _, r := range rs {
			s.tables[r.TableName()] = append(s.tables[r.TableName()], *r)
		}
	case []*opendata.LivingPlace:
		for _, r := range rs {
			s.tables[r.TableName()] = append(s.tables[r.TableName()], *r)
		}
	case []*opendata.Station:
		for _, r := range rs {
			s.tables[r.TableName()] = append(s.tables[r.TableName()], *r)
		}
	default:
		return fmt.Errorf("unexpected rows %T", rows)
	}
	return nil
}

func records(t *testing.T, fields ...string) []opendata.Record {
	t.Helper()
	out := make([]opendata.Record, len(fields))
	for i, f := range fields {
		if err := json.Unmarshal([]byte(f), &out[i].Fields); err != nil {
			t.Fatalf("bad fixture %q: %v", f, err)
		}
	}
	return out
}

// testJobs returns the three datasets with deterministic constructors and
// local URLs.
func testJobs() []opendata.Job {
	d := opendata.DistrictDataset
	d.Source, d.New = "mem://district", nil
	l := opendata.LivingPlaceDataset
	l.Source, l.New = "mem://living_place", nil
	s := opendata.StationDataset
	s.Source, s.New = "mem://station", nil
	return []opendata.Job{d, l, s}
}

func TestImporter_RunImportsAllDatasetsInOrder(t *testing.T) {
	fetcher := &fakeFetcher{records: map[string][]opendata.Record{
		"mem://district":     records(t, `{"typ_iris": "H", "p12_pop": 100}`),
		"mem://living_place": records(t, `{"codact": "CH101"}`, `{"libact": "Boulangerie"}`),
		"mem://station":      records(t, `{"stop_id": "42", "stop_name": "Gare"}`),
	}}
	store := newTableStore()
	var out bytes.Buffer
	imp := opendata.NewImporter(fetcher, store, opendata.NewConsole(&out), 500)

	report, err := imp.Run(context.Background(), testJobs()...)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantCalls := []string{"mem://district", "mem://living_place", "mem://station"}
	if !reflect.DeepEqual(fetcher.calls, wantCalls) {
		t.Errorf("expected fetch order %v, got %v", wantCalls, fetcher.calls)
	}

	wantTruncate := [][]string{{"opendata.district", "opendata.living_place", "opendata.station"}}
	if !reflect.DeepEqual(store.truncations, wantTruncate) {
		t.Errorf("expected truncations %v, got %v", wantTruncate, store.truncations)
	}

	stations := store.tables["opendata.station"]
	if len(stations) != 1 || !reflect.DeepEqual(stations[0], opendata.Station{StopID: "42", Name: "Gare"}) {
		t.Errorf("unexpected station rows: %+v", stations)
	}
	if n := len(store.tables["opendata.living_place"]); n != 2 {
		t.Errorf("expected 2 living places, got %d", n)
	}

	if len(report.Datasets) != 3 {
		t.Fatalf("expected 3 dataset reports, got %d", len(report.Datasets))
	}
	if r := report.Datasets[1]; r.Name != "living_place" || r.Records != 2 || r.Batch.Rows != 2 {
		t.Errorf("unexpected living_place report: %+v", r)
	}

	text := out.String()
	for _, want := range []string{
		"Create District entities from JSON export.",
		"Create LivingPlace entities from JSON export.",
		"Create Station entities from JSON export.",
		"Downloading JSON file ...",
		"Downloaded 2 records.",
		"Flushing last entities ...",
		"Done with success.",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, text)
		}
	}
}

// TestImporter_RunIsIdempotent verifies that a second run over unchanged data
// leaves the same table contents.
func TestImporter_RunIsIdempotent(t *testing.T) {
	fetcher := &fakeFetcher{records: map[string][]opendata.Record{
		"mem://district":     records(t, `{"typ_iris": "H"}`, `{"typ_iris": "A"}`),
		"mem://living_place": records(t, `{"codact": "CH101", "arro": 11}`),
		"mem://station":      records(t, `{"stop_id": "42"}`, `{"stop_id": "43"}`, `{"stop_id": "44"}`),
	}}
	store := newTableStore()
	imp := opendata.NewImporter(fetcher, store, opendata.NewConsole(&bytes.Buffer{}), 2)

	if _, err := imp.Run(context.Background(), testJobs()...); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := map[string][]any{}
	for k, v := range store.tables {
		first[k] = append([]any(nil), v...)
	}

	if _, err := imp.Run(context.Background(), testJobs()...); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(store.tables, first) {
		t.Errorf("expected identical tables after re-run\nfirst:  %+v\nsecond: %+v", first, store.tables)
	}
}

// TestImporter_MalformedDatasetAborts verifies that a decode failure stops
// the run before anything of that dataset is staged, keeping earlier
// datasets and never reaching later ones.
func TestImporter_MalformedDatasetAborts(t *testing.T) {
	_, decodeErr := opendata.DecodeRecords([]byte(`{"not": "an array"}`))
	fetcher := &fakeFetcher{
		records: map[string][]opendata.Record{
			"mem://district": records(t, `{"typ_iris": "H"}`),
			"mem://station":  records(t, `{"stop_id": "42"}`),
		},
		errs: map[string]error{"mem://living_place": decodeErr},
	}
	store := newTableStore()
	imp := opendata.NewImporter(fetcher, store, opendata.NewConsole(&bytes.Buffer{}), 500)

	report, err := imp.Run(context.Background(), testJobs()...)
	if !errors.Is(err, opendata.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}

	if n := len(store.tables["opendata.district"]); n != 1 {
		t.Errorf("expected district rows to survive, got %d", n)
	}
	if n := len(store.tables["opendata.living_place"]); n != 0 {
		t.Errorf("expected no living places, got %d", n)
	}
	if n := len(store.tables["opendata.station"]); n != 0 {
		t.Errorf("expected stations never imported, got %d", n)
	}
	if len(fetcher.calls) != 2 {
		t.Errorf("expected the run to stop after 2 fetches, got %v", fetcher.calls)
	}
	if r := report.Datasets[len(report.Datasets)-1]; r.Name != "living_place" || r.Batch.Staged != 0 {
		t.Errorf("unexpected report for failed dataset: %+v", r)
	}
}

// TestImporter_EmptyDataset verifies the single no-op final flush.
func TestImporter_EmptyDataset(t *testing.T) {
	fetcher := &fakeFetcher{records: map[string][]opendata.Record{}}
	store := newTableStore()
	imp := opendata.NewImporter(fetcher, store, opendata.NewConsole(&bytes.Buffer{}), 500)

	report, err := imp.Run(context.Background(), testJobs()[2])
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	want := opendata.BatchStats{Flushes: 1}
	if got := report.Datasets[0].Batch; got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestImporter_StoreFailureIsFatal(t *testing.T) {
	fetcher := &fakeFetcher{records: map[string][]opendata.Record{
		"mem://station": records(t, `{"stop_id": "1"}`, `{"stop_id": "2"}`),
	}}
	store := newTableStore()
	store.failInserts = true
	imp := opendata.NewImporter(fetcher, store, opendata.NewConsole(&bytes.Buffer{}), 2)

	_, err := imp.Run(context.Background(), testJobs()[2])
	if !errors.Is(err, opendata.ErrFlush) {
		t.Errorf("expected ErrFlush, got %v", err)
	}
}

// TestImporter_CountsFieldErrors verifies that skipped values are tallied per
// source field.
func TestImporter_CountsFieldErrors(t *testing.T) {
	fetcher := &fakeFetcher{records: map[string][]opendata.Record{
		"mem://district": records(t, `{"p12_pop": "n/a"}`, `{"p12_pop": {}}`, `{"p12_pop": 3}`),
	}}
	imp := opendata.NewImporter(fetcher, newTableStore(), opendata.NewConsole(&bytes.Buffer{}), 500)

	report, err := imp.Run(context.Background(), testJobs()[0])
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := report.Datasets[0].FieldErrors["p12_pop"]; got != 2 {
		t.Errorf("expected 2 skipped p12_pop values, got %d", got)
	}
}

func TestDatasets_DefaultURLsAndTables(t *testing.T) {
	jobs := opendata.Datasets()
	want := []struct{ key, table, url string }{
		{"district", "opendata.district", opendata.DistrictURL},
		{"living_place", "opendata.living_place", opendata.LivingPlaceURL},
		{"station", "opendata.station", opendata.StationURL},
	}
	if len(jobs) != len(want) {
		t.Fatalf("expected %d datasets, got %d", len(want), len(jobs))
	}
	for i, w := range want {
		if jobs[i].Key() != w.key || jobs[i].Table() != w.table || jobs[i].URL() != w.url {
			t.Errorf("dataset %d: expected %s/%s/%s, got %s/%s/%s",
				i, w.key, w.table, w.url, jobs[i].Key(), jobs[i].Table(), jobs[i].URL())
		}
		if !strings.Contains(jobs[i].URL(), "format=json") {
			t.Errorf("dataset %s: expected a JSON export URL", w.key)
		}
	}
}
